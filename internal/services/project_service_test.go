package services

import (
	"context"
	"testing"

	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/testutil"
	"github.com/collabhub/collabhub-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProjectService(t *testing.T) (*gorm.DB, *ProjectService, *recordingNotifier) {
	t.Helper()
	db := testutil.NewTestDB(t)
	notifier := &recordingNotifier{}
	service := NewProjectService(
		repository.NewProjectRepository(db),
		repository.NewMembershipRepository(db),
		repository.NewSkillRepository(db),
		notifier,
		nil,
	)
	return db, service, notifier
}

func firstSkills(t *testing.T, db *gorm.DB, n int) []uint64 {
	t.Helper()
	var skills []models.Skill
	require.NoError(t, db.Order("id ASC").Limit(n).Find(&skills).Error)
	require.Len(t, skills, n)
	ids := make([]uint64, 0, n)
	for _, s := range skills {
		ids = append(ids, s.ID)
	}
	return ids
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	db, service, _ := setupProjectService(t)
	owner := testutil.CreateUser(t, db, "owner@example.com", "Olive", "Owner")
	skillIDs := firstSkills(t, db, 2)

	project, err := service.CreateProject(ctx, owner.ID, CreateProjectInput{
		Title:        "  Campus Marketplace ",
		Description:  "Buy and sell textbooks",
		MaxTeamSize:  4,
		GithubURL:    strPtr("   "),
		SkillIDs:     append(skillIDs, skillIDs[0]),
		CustomSkills: []string{"Figma", " figma ", "", "Copywriting"},
		Tasks: []TaskInput{
			{Title: "Frontend", Description: "React pages"},
			{Title: "Backend"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Campus Marketplace", project.Title)
	assert.Nil(t, project.GithubURL)
	assert.Equal(t, models.ProjectStatusRecruiting, project.Status)
	assert.Equal(t, []string{"Figma", "Copywriting"}, project.CustomSkills)
	assert.Len(t, project.Skills, 2)
	assert.Len(t, project.Tasks, 2)
	require.Len(t, project.Members, 1)
	assert.Equal(t, owner.ID, project.Members[0].UserID)
	assert.Equal(t, models.RoleOwner, project.Members[0].Role)
	assert.Equal(t, owner.Email, project.Owner.Email)
}

func TestCreateProjectValidation(t *testing.T) {
	ctx := context.Background()
	db, service, _ := setupProjectService(t)
	owner := testutil.CreateUser(t, db, "owner@example.com", "Olive", "Owner")

	tests := []struct {
		name  string
		input CreateProjectInput
		want  error
	}{
		{"blank title", CreateProjectInput{Title: " ", Description: "d", MaxTeamSize: 3}, ErrTitleRequired},
		{"blank description", CreateProjectInput{Title: "t", Description: "", MaxTeamSize: 3}, ErrDescriptionRequired},
		{"team too small", CreateProjectInput{Title: "t", Description: "d", MaxTeamSize: 1}, ErrInvalidTeamSize},
		{"team too large", CreateProjectInput{Title: "t", Description: "d", MaxTeamSize: 21}, ErrInvalidTeamSize},
		{"unknown skill", CreateProjectInput{Title: "t", Description: "d", MaxTeamSize: 3, SkillIDs: []uint64{99999}}, ErrUnknownSkill},
		{"blank task", CreateProjectInput{Title: "t", Description: "d", MaxTeamSize: 3, Tasks: []TaskInput{{Title: " "}}}, ErrTaskTitleRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateProject(ctx, owner.ID, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	db, service, notifier := setupProjectService(t)
	owner := testutil.CreateUser(t, db, "owner@example.com", "Olive", "Owner")
	alice := testutil.CreateUser(t, db, "alice@example.com", "Alice", "Able")
	bob := testutil.CreateUser(t, db, "bob@example.com", "Bob", "Baker")

	project, err := service.CreateProject(ctx, owner.ID, CreateProjectInput{
		Title:       "Study Buddy",
		Description: "Find study partners",
		MaxTeamSize: 5,
		GithubURL:   strPtr("https://github.com/example/study-buddy"),
		Tasks:       []TaskInput{{Title: "Design"}},
	})
	require.NoError(t, err)
	testutil.AddMember(t, db, project.ID, alice.ID)
	testutil.AddMember(t, db, project.ID, bob.ID)

	t.Run("non owner is forbidden", func(t *testing.T) {
		_, err := service.UpdateProject(ctx, project.ID, alice.ID, UpdateProjectInput{Title: strPtr("x")})
		assert.ErrorIs(t, err, ErrNotProjectOwner)
	})

	t.Run("team size below member count", func(t *testing.T) {
		_, err := service.UpdateProject(ctx, project.ID, owner.ID, UpdateProjectInput{MaxTeamSize: intPtr(2)})
		assert.ErrorIs(t, err, ErrTeamSizeBelowMembers)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := service.UpdateProject(ctx, project.ID, owner.ID, UpdateProjectInput{Status: strPtr("PAUSED")})
		assert.ErrorIs(t, err, ErrInvalidProjectStatus)
	})

	t.Run("partial update replaces tasks and notifies members", func(t *testing.T) {
		tasks := []TaskInput{{Title: "Backend"}, {Title: "QA"}}
		updated, err := service.UpdateProject(ctx, project.ID, owner.ID, UpdateProjectInput{
			Status:    strPtr("in_progress"),
			GithubURL: strPtr(""),
			Tasks:     &tasks,
		})
		require.NoError(t, err)

		assert.Equal(t, "Study Buddy", updated.Title)
		assert.Equal(t, models.ProjectStatusInProgress, updated.Status)
		assert.Nil(t, updated.GithubURL)
		require.Len(t, updated.Tasks, 2)

		recipients := map[uint64]bool{}
		for _, n := range notifier.sent {
			assert.Equal(t, models.NotificationProjectUpdated, n.Type)
			recipients[n.RecipientID] = true
		}
		assert.Equal(t, map[uint64]bool{alice.ID: true, bob.ID: true}, recipients)
	})
}

func TestDeleteProject(t *testing.T) {
	ctx := context.Background()
	db, service, _ := setupProjectService(t)
	owner := testutil.CreateUser(t, db, "owner@example.com", "Olive", "Owner")
	alice := testutil.CreateUser(t, db, "alice@example.com", "Alice", "Able")
	project := testutil.CreateProject(t, db, owner, "Doomed", 3)

	assert.ErrorIs(t, service.DeleteProject(ctx, project.ID, alice.ID), ErrNotProjectOwner)
	require.NoError(t, service.DeleteProject(ctx, project.ID, owner.ID))

	_, err := service.GetProject(ctx, project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestListProjects(t *testing.T) {
	ctx := context.Background()
	db, service, _ := setupProjectService(t)
	owner := testutil.CreateUser(t, db, "owner@example.com", "Olive", "Owner")
	testutil.CreateProject(t, db, owner, "Chess Club App", 3)
	testutil.CreateProject(t, db, owner, "Recipe Finder", 3)

	projects, total, err := service.ListProjects(ctx, ListProjectsInput{
		Query: "chess",
		Page:  utils.NewPageParams(0, 0, 9),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, projects, 1)
	assert.Equal(t, "Chess Club App", projects[0].Title)

	_, _, err = service.ListProjects(ctx, ListProjectsInput{Status: "bogus", Page: utils.NewPageParams(0, 0, 9)})
	assert.ErrorIs(t, err, ErrInvalidProjectStatus)
}

func TestSuggestTasksNotConfigured(t *testing.T) {
	_, service, _ := setupProjectService(t)

	_, err := service.SuggestTasks(context.Background(), SuggestTasksInput{Title: "Anything"})
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestDecideJoinRequest_ConditionalUpdateMissRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMembershipRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `join_requests` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DecideJoinRequest(context.Background(), JoinRequestDecision{
		RequestID: 7,
		ProjectID: 1,
		UserID:    2,
		ActorID:   1,
		Status:    models.JoinRequestApproved,
		At:        time.Now(),
	})
	assert.ErrorIs(t, err, ErrJoinRequestNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecideJoinRequest_FullTeamRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMembershipRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `join_requests` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id`,`max_team_size` FROM `projects`") + ".+FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "max_team_size"}).AddRow(1, 2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `project_members`")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.DecideJoinRequest(context.Background(), JoinRequestDecision{
		RequestID: 7,
		ProjectID: 1,
		UserID:    2,
		ActorID:   1,
		Status:    models.JoinRequestApproved,
		At:        time.Now(),
	})
	assert.ErrorIs(t, err, ErrTeamFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecideJoinRequest_AppendsHistory(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", "Olive", "Owner")
	requester := testutil.CreateUser(t, db, "req@example.com", "Rey", "Quest")
	project := testutil.CreateProject(t, db, owner, "Rover", 3)

	req := &models.JoinRequest{ProjectID: project.ID, UserID: requester.ID}
	require.NoError(t, repo.CreateJoinRequest(ctx, req))
	assert.Equal(t, models.JoinRequestPending, req.Status)

	decision := JoinRequestDecision{
		RequestID: req.ID,
		ProjectID: project.ID,
		UserID:    requester.ID,
		ActorID:   owner.ID,
		Status:    models.JoinRequestApproved,
		At:        time.Now(),
	}
	require.NoError(t, repo.DecideJoinRequest(ctx, decision))

	// a second decision cannot slip through
	decision.Status = models.JoinRequestRejected
	assert.ErrorIs(t, repo.DecideJoinRequest(ctx, decision), ErrJoinRequestNotPending)

	events, err := repo.ListJoinRequestEvents(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.JoinRequestPending, events[0].Status)
	assert.Equal(t, requester.ID, events[0].ActorID)
	assert.Equal(t, models.JoinRequestApproved, events[1].Status)
	assert.Equal(t, owner.ID, events[1].ActorID)

	count, err := repo.CountMembers(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	stored, err := repo.FindJoinRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JoinRequestApproved, stored.Status)
	assert.NotNil(t, stored.ReviewedAt)
}

func TestCreateJoinRequest_OnePendingPerPair(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", "Olive", "Owner")
	requester := testutil.CreateUser(t, db, "req@example.com", "Rey", "Quest")
	project := testutil.CreateProject(t, db, owner, "Rover", 3)

	first := &models.JoinRequest{ProjectID: project.ID, UserID: requester.ID}
	require.NoError(t, repo.CreateJoinRequest(ctx, first))

	err := repo.CreateJoinRequest(ctx, &models.JoinRequest{ProjectID: project.ID, UserID: requester.ID})
	assert.ErrorIs(t, err, ErrJoinRequestExists)

	var pending int64
	require.NoError(t, db.Model(&models.JoinRequest{}).
		Where("project_id = ? AND user_id = ? AND status = ?", project.ID, requester.ID, models.JoinRequestPending).
		Count(&pending).Error)
	assert.Equal(t, int64(1), pending)

	require.NoError(t, repo.DecideJoinRequest(ctx, JoinRequestDecision{
		RequestID: first.ID,
		ProjectID: project.ID,
		UserID:    requester.ID,
		ActorID:   requester.ID,
		Status:    models.JoinRequestCancelled,
		At:        time.Now(),
	}))

	stored, err := repo.FindJoinRequest(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PendingUserID)

	// a decided request no longer blocks a new one
	again := &models.JoinRequest{ProjectID: project.ID, UserID: requester.ID}
	require.NoError(t, repo.CreateJoinRequest(ctx, again))
	require.NotNil(t, again.PendingUserID)
	assert.Equal(t, requester.ID, *again.PendingUserID)
}

func TestInterest_Idempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", "Olive", "Owner")
	fan := testutil.CreateUser(t, db, "fan@example.com", "Fay", "Fan")
	project := testutil.CreateProject(t, db, owner, "Rover", 3)

	require.NoError(t, repo.AddInterest(ctx, fan.ID, project.ID))
	require.NoError(t, repo.AddInterest(ctx, fan.ID, project.ID))

	var count int64
	require.NoError(t, db.Model(&models.ProjectInterest{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	ok, err := repo.HasInterest(ctx, fan.ID, project.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.RemoveInterest(ctx, fan.ID, project.ID))
	require.NoError(t, repo.RemoveInterest(ctx, fan.ID, project.ID))

	ok, err = repo.HasInterest(ctx, fan.ID, project.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveMember_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMembershipRepository(db)

	err := repo.RemoveMember(context.Background(), 99, 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

package database_test

import (
	"testing"

	"github.com/collabhub/collabhub-api/internal/database"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackfillPendingMarkers(t *testing.T) {
	db := testutil.NewTestDB(t)

	owner := testutil.CreateUser(t, db, "owner@example.com", "Olive", "Owner")
	alice := testutil.CreateUser(t, db, "alice@example.com", "Alice", "Able")
	bob := testutil.CreateUser(t, db, "bob@example.com", "Bob", "Baker")
	project := testutil.CreateProject(t, db, owner, "Rover", 4)

	legacy := []*models.JoinRequest{
		{ProjectID: project.ID, UserID: alice.ID, Status: models.JoinRequestPending},
		{ProjectID: project.ID, UserID: alice.ID, Status: models.JoinRequestPending},
		{ProjectID: project.ID, UserID: bob.ID, Status: models.JoinRequestRejected},
	}
	for _, req := range legacy {
		require.NoError(t, db.Omit("Project", "User", "Events").Create(req).Error)
	}

	require.NoError(t, database.BackfillPendingMarkers(db))
	require.NoError(t, database.BackfillPendingMarkers(db))

	var stored []models.JoinRequest
	require.NoError(t, db.Order("id ASC").Find(&stored).Error)
	require.Len(t, stored, 3)

	assert.Nil(t, stored[0].PendingUserID)
	require.NotNil(t, stored[1].PendingUserID)
	assert.Equal(t, alice.ID, *stored[1].PendingUserID)
	assert.Nil(t, stored[2].PendingUserID)
}

package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/collabhub/collabhub-api/internal/logger"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/testutil"
	"github.com/collabhub/collabhub-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	service := NewNotificationService(repository.NewNotificationRepository(db))
	alice := testutil.CreateUser(t, db, "alice@example.com", "Alice", "Able")
	bob := testutil.CreateUser(t, db, "bob@example.com", "Bob", "Baker")

	projectID := uint64(7)
	require.NoError(t, service.Notify(ctx,
		NotifyInput{RecipientID: alice.ID, Type: models.NotificationMemberRemoved, Title: "first", ReferenceID: &projectID, ReferenceType: "PROJECT"},
		NotifyInput{RecipientID: alice.ID, Type: models.NotificationJoinRequestApproved, Title: "second"},
		NotifyInput{RecipientID: bob.ID, Type: models.NotificationMemberLeft, Title: "bob's"},
	))

	count, err := service.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	list, total, err := service.ListNotifications(ctx, alice.ID, utils.NewPageParams(0, 20, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	require.NotNil(t, list[1].ReferenceType)
	assert.Equal(t, "PROJECT", *list[1].ReferenceType)
	assert.Nil(t, list[0].ReferenceType)

	var bobs models.Notification
	require.NoError(t, db.Where("recipient_id = ?", bob.ID).First(&bobs).Error)
	assert.ErrorIs(t, service.MarkAsRead(ctx, bobs.ID, alice.ID), ErrNotificationNotFound)

	require.NoError(t, service.MarkAsRead(ctx, list[0].ID, alice.ID))
	count, err = service.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, service.MarkAllAsRead(ctx, alice.ID))
	count, err = service.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = service.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestNotifyBestEffortLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })

	notifier := &recordingNotifier{err: errors.New("boom")}
	notifyBestEffort(context.Background(), notifier, NotifyInput{Type: models.NotificationMemberLeft, Title: "x"})

	assert.Contains(t, buf.String(), "failed to dispatch notification")
	assert.Contains(t, buf.String(), "MEMBER_LEFT")
}

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/collabhub/collabhub-api/internal/dto"
	"github.com/collabhub/collabhub-api/internal/middleware"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/services"
	"github.com/collabhub/collabhub-api/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationTestEnv struct {
	router  *gin.Engine
	service *services.NotificationService
	alice   string
	bob     string
	aliceID uint64
}

func setupNotificationTestEnv(t *testing.T) notificationTestEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	tokens := newTestTokens(t)
	service := services.NewNotificationService(repository.NewNotificationRepository(db))
	handler := NewNotificationHandler(service)

	r := gin.New()
	notifications := r.Group("/notifications", middleware.RequireAuth(tokens))
	notifications.GET("", handler.ListNotifications)
	notifications.GET("/unread-count", handler.UnreadCount)
	notifications.PUT("/read-all", handler.MarkAllAsRead)
	notifications.PUT("/:id/read", handler.MarkAsRead)

	alice := testutil.CreateUser(t, db, "alice@example.com", "Alice", "Able")
	bob := testutil.CreateUser(t, db, "bob@example.com", "Bob", "Baker")

	return notificationTestEnv{
		router:  r,
		service: service,
		alice:   bearer(t, tokens, alice),
		bob:     bearer(t, tokens, bob),
		aliceID: alice.ID,
	}
}

func (env notificationTestEnv) seed(t *testing.T, n int) {
	t.Helper()
	inputs := make([]services.NotifyInput, n)
	for i := range inputs {
		inputs[i] = services.NotifyInput{
			RecipientID: env.aliceID,
			Type:        models.NotificationProjectUpdated,
			Title:       fmt.Sprintf("Update %d", i),
		}
	}
	require.NoError(t, env.service.Notify(context.Background(), inputs...))
}

func (env notificationTestEnv) unread(t *testing.T, auth string) int64 {
	t.Helper()
	w := doRequest(env.router, http.MethodGet, "/notifications/unread-count", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count dto.UnreadCountDTO
	decodeEnvelope(t, w, &count)
	return count.Count
}

func TestNotificationHandler_List(t *testing.T) {
	env := setupNotificationTestEnv(t)
	env.seed(t, 3)

	w := doRequest(env.router, http.MethodGet, "/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(env.router, http.MethodGet, "/notifications?size=2", env.alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.PageDTO[dto.NotificationDTO]
	decodeEnvelope(t, w, &page)
	assert.Len(t, page.Content, 2)
	assert.EqualValues(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "Update 2", page.Content[0].Title)
	assert.False(t, page.Content[0].IsRead)

	w = doRequest(env.router, http.MethodGet, "/notifications", env.bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeEnvelope(t, w, &page)
	assert.Empty(t, page.Content)
	assert.Equal(t, 20, page.Size)
}

func TestNotificationHandler_MarkAsRead(t *testing.T) {
	env := setupNotificationTestEnv(t)
	env.seed(t, 2)
	assert.EqualValues(t, 2, env.unread(t, env.alice))

	w := doRequest(env.router, http.MethodGet, "/notifications", env.alice, nil)
	var page dto.PageDTO[dto.NotificationDTO]
	decodeEnvelope(t, w, &page)
	require.Len(t, page.Content, 2)
	id := page.Content[0].ID

	// someone else's notification looks missing
	w = doRequest(env.router, http.MethodPut, fmt.Sprintf("/notifications/%d/read", id), env.bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(env.router, http.MethodPut, "/notifications/abc/read", env.alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for i := 0; i < 2; i++ {
		w = doRequest(env.router, http.MethodPut, fmt.Sprintf("/notifications/%d/read", id), env.alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.EqualValues(t, 1, env.unread(t, env.alice))

	w = doRequest(env.router, http.MethodPut, "/notifications/read-all", env.alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, env.unread(t, env.alice))
	assert.EqualValues(t, 0, env.unread(t, env.bob))
}

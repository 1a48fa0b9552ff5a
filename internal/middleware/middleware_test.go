package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/collabhub/collabhub-api/internal/telemetry"
	"github.com/collabhub/collabhub-api/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	tokens, err := utils.NewTokenManager("secret", time.Minute)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", RequireAuth(tokens), func(c *gin.Context) {
		id, ok := GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	w := perform(r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/me", http.Header{"Authorization": {"Bearer not-a-jwt"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other, err := utils.NewTokenManager("other-secret", time.Minute)
	require.NoError(t, err)
	forged, err := other.GenerateAccessToken(42, "x@example.com")
	require.NoError(t, err)
	w = perform(r, http.MethodGet, "/me", http.Header{"Authorization": {"Bearer " + forged}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokens.GenerateAccessToken(42, "x@example.com")
	require.NoError(t, err)
	w = perform(r, http.MethodGet, "/me", http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42}`, w.Body.String())
}

func TestRequireProjectID(t *testing.T) {
	r := gin.New()
	r.GET("/projects/:id", RequireProjectID(), func(c *gin.Context) {
		id, _ := GetProjectID(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodGet, "/projects/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodGet, "/projects/0", nil).Code)

	w := perform(r, http.MethodGet, "/projects/7", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7}`, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.Use(NewRateLimiter(ctx, 0.001, 2).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)

	w := perform(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = perform(r, http.MethodGet, "/", http.Header{RequestIDHeader: {"upstream-id"}})
	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	counter := telemetry.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/things/:id", "204")
	before := testutil.ToFloat64(counter)

	perform(r, http.MethodGet, "/things/42", nil)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

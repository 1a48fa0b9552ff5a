package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

// decodeEnvelope parses the response envelope and, when out is non-nil, its data.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

func newTestTokens(t *testing.T) *utils.TokenManager {
	t.Helper()
	tokens, err := utils.NewTokenManager("handler-test-secret", 15*time.Minute)
	require.NoError(t, err)
	return tokens
}

func bearer(t *testing.T, tokens *utils.TokenManager, user *models.User) string {
	t.Helper()
	token, err := tokens.GenerateAccessToken(user.ID, user.Email)
	require.NoError(t, err)
	return "Bearer " + token
}

// doRequest sends body as JSON when it is not nil.
func doRequest(r http.Handler, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

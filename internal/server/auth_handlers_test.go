package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Keyur200/blogappapi/internal/auth"
	"github.com/Keyur200/blogappapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func jsonRequest(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates user", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		_, app, err := newTestServer(repo, newMemPostStore())
		require.NoError(t, err)

		resp, err := app.Test(jsonRequest("POST", "/register", map[string]string{
			"username": "alice",
			"password": "password123",
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		assert.NotEmpty(t, body["id"])
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.createFn = func(_ context.Context, _ *models.User) (*models.User, error) {
			return nil, models.NewConflictError("Username already taken")
		}
		_, app, err := newTestServer(repo, newMemPostStore())
		require.NoError(t, err)

		resp, err := app.Test(jsonRequest("POST", "/register", map[string]string{
			"username": "alice",
			"password": "password123",
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		t.Parallel()
		_, app, err := newTestServer(noopUserRepo(), newMemPostStore())
		require.NoError(t, err)

		resp, err := app.Test(jsonRequest("POST", "/register", map[string]string{
			"username": "alice",
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func repoWithAlice(t *testing.T) (*userRepoStub, *models.User) {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	alice := &models.User{ID: primitive.NewObjectID(), Username: "alice", Password: hash}

	repo := noopUserRepo()
	repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "alice" {
			return alice, nil
		}
		return nil, nil
	}
	return repo, alice
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success sets session cookie", func(t *testing.T) {
		t.Parallel()
		repo, alice := repoWithAlice(t)
		srv, app, err := newTestServer(repo, newMemPostStore())
		require.NoError(t, err)

		resp, err := app.Test(jsonRequest("POST", "/login", map[string]string{
			"username": "alice",
			"password": "password123",
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body)

		token, ok := cookieValue(resp, "token")
		require.True(t, ok, "session cookie must be set")

		claims, err := srv.tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, alice.ID.Hex(), claims.UserID)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("wrong password returns structured failure with no cookie", func(t *testing.T) {
		t.Parallel()
		repo, _ := repoWithAlice(t)
		_, app, err := newTestServer(repo, newMemPostStore())
		require.NoError(t, err)

		resp, err := app.Test(jsonRequest("POST", "/login", map[string]string{
			"username": "alice",
			"password": "wrong",
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Incorrect Username or Password", body["msg"])
		assert.Equal(t, false, body["status"])

		_, ok := cookieValue(resp, "token")
		assert.False(t, ok, "no cookie on failed login")
	})

	t.Run("unknown user gets the same failure body", func(t *testing.T) {
		t.Parallel()
		repo, _ := repoWithAlice(t)
		_, app, err := newTestServer(repo, newMemPostStore())
		require.NoError(t, err)

		resp, err := app.Test(jsonRequest("POST", "/login", map[string]string{
			"username": "mallory",
			"password": "password123",
		}), -1)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Incorrect Username or Password", body["msg"])
		assert.Equal(t, false, body["status"])
	})
}

func TestProfile(t *testing.T) {
	t.Parallel()

	t.Run("returns identity from valid cookie", func(t *testing.T) {
		t.Parallel()
		srv, app, err := newTestServer(noopUserRepo(), newMemPostStore())
		require.NoError(t, err)

		userID := primitive.NewObjectID().Hex()
		token, err := srv.tokens.Issue(userID, "alice")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/profile", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, userID, body["id"])
		assert.Equal(t, "alice", body["username"])
	})

	t.Run("no cookie is rejected as anonymous", func(t *testing.T) {
		t.Parallel()
		_, app, err := newTestServer(noopUserRepo(), newMemPostStore())
		require.NoError(t, err)

		resp, err := app.Test(httptest.NewRequest("GET", "/profile", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Please login first.", body.Error)
	})

	t.Run("invalid token fails loud, not silently anonymous", func(t *testing.T) {
		t.Parallel()
		_, app, err := newTestServer(noopUserRepo(), newMemPostStore())
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/profile", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "tampered.token.value"})

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Invalid or expired token", body.Error)
	})
}

func TestLogout_ClearsCookie(t *testing.T) {
	t.Parallel()

	_, app, err := newTestServer(noopUserRepo(), newMemPostStore())
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("POST", "/logout", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			cleared = true
			assert.Empty(t, c.Value)
			assert.True(t, c.Expires.Before(time.Now()), "cookie must be expired")
		}
	}
	assert.True(t, cleared, "logout must overwrite the session cookie")
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracklane/tracklane/db"
	"github.com/tracklane/tracklane/internal/auth"
	"github.com/tracklane/tracklane/internal/handlers"
	"github.com/tracklane/tracklane/internal/router"
	"github.com/tracklane/tracklane/internal/storage"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "handler-test-secret")
	require.NoError(t, auth.InitJWTSecret())

	path := filepath.Join(t.TempDir(), "tracklane.db")

	database, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.MigrateDatabase(database))

	previous := db.DB
	db.DB = database
	t.Cleanup(func() { db.DB = previous })

	uploads := t.TempDir()
	blobs, err := storage.NewDiskStore(uploads)
	require.NoError(t, err)

	handlers.Setup(database, blobs)

	return router.NewRouter(zap.NewNop(), uploads)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func registerUser(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var response struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.AccessToken)

	return response.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWorkspacesRequireAuth(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/workspaces", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newTestRouter(t)

	registerUser(t, r, "dup@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "dup@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWithWrongPassword(t *testing.T) {
	r := newTestRouter(t)

	registerUser(t, r, "login@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "login@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkspaceLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	ownerToken := registerUser(t, r, "owner@example.com")
	memberToken := registerUser(t, r, "member@example.com")

	// Create workspace.
	w := doJSON(t, r, http.MethodPost, "/api/workspaces", ownerToken, gin.H{
		"name": "Acme",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var workspace struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &workspace))

	base := fmt.Sprintf("/api/workspaces/%d", workspace.ID)

	// Members cannot be added by outsiders.
	w = doJSON(t, r, http.MethodPost, base+"/members", memberToken, gin.H{"email": "owner@example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Owner adds the member; doing it twice conflicts.
	w = doJSON(t, r, http.MethodPost, base+"/members", ownerToken, gin.H{"email": "member@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, base+"/members", ownerToken, gin.H{"email": "member@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, base+"/members", ownerToken, gin.H{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Member creates a project and a ticket.
	w = doJSON(t, r, http.MethodPost, base+"/projects", memberToken, gin.H{"name": "Board"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var project struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))

	ticketsPath := fmt.Sprintf("/api/projects/%d/tickets", project.ID)

	w = doJSON(t, r, http.MethodPost, ticketsPath, memberToken, gin.H{
		"title":    "Crash on login",
		"priority": "HIGH",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ticket struct {
		ID       uint   `json:"id"`
		Priority string `json:"priority"`
		Status   string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
	assert.Equal(t, "high", ticket.Priority)
	assert.Equal(t, "backlog", ticket.Status)

	// Partial update leaves the title alone.
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("%s/%d", ticketsPath, ticket.ID), ownerToken, gin.H{
		"status": "done",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Crash on login", updated.Title)
	assert.Equal(t, "done", updated.Status)

	// Stats reflect the mutation immediately.
	w = doJSON(t, r, http.MethodGet, base+"/stats", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		ProjectCount int              `json:"project_count"`
		TotalTickets int              `json:"total_tickets"`
		StatusCounts map[string]int64 `json:"status_counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.ProjectCount)
	assert.Equal(t, 1, stats.TotalTickets)
	assert.Equal(t, map[string]int64{"done": 1}, stats.StatusCounts)

	// Members cannot delete the workspace; the owner can.
	w = doJSON(t, r, http.MethodDelete, base, memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, base, ownerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, base+"/stats", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentThreadOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	token := registerUser(t, r, "author@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/workspaces", token, gin.H{"name": "Solo"})
	require.Equal(t, http.StatusCreated, w.Code)

	var workspace struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &workspace))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/workspaces/%d/projects", workspace.ID), token, gin.H{"name": "Board"})
	require.Equal(t, http.StatusCreated, w.Code)

	var project struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/tickets", project.ID), token, gin.H{"title": "Discussed"})
	require.Equal(t, http.StatusCreated, w.Code)

	var ticket struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))

	commentsPath := fmt.Sprintf("/api/projects/%d/tickets/%d/comments", project.ID, ticket.ID)

	w = doJSON(t, r, http.MethodPost, commentsPath, token, gin.H{"content": "root comment"})
	require.Equal(t, http.StatusCreated, w.Code)

	var root struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))

	w = doJSON(t, r, http.MethodPost, commentsPath, token, gin.H{"content": "a reply", "parent_id": root.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	// Dangling parents are rejected.
	w = doJSON(t, r, http.MethodPost, commentsPath, token, gin.H{"content": "orphan", "parent_id": 9999})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, commentsPath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing []struct {
		ID      uint `json:"id"`
		Replies []struct {
			Content string `json:"content"`
		} `json:"replies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing, 1)
	require.Len(t, listing[0].Replies, 1)
	assert.Equal(t, "a reply", listing[0].Replies[0].Content)
}

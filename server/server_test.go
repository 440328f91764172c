package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bod/content"
	"bod/database"
	"bod/models"
	"bod/testutil"
)

func newTestRouter(t *testing.T) (*gin.Engine, *content.Repositories) {
	t.Helper()
	repos := testutil.NewGormRepos(t)
	require.NoError(t, database.Seed(context.Background(), repos, "admin123", zap.NewNop()))

	store := cookie.NewStore([]byte("test-secret"))
	store.Options(SessionOptions(false))

	return NewRouter(Deps{
		Repos:    repos,
		Sessions: store,
		Logger:   zap.NewNop(),
		SiteURL:  "https://bod.example",
	}), repos
}

func loginAdmin(t *testing.T, router http.Handler) []*http.Cookie {
	t.Helper()
	w := testutil.Request(t, router, http.MethodPost, "/api/admin/login",
		gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := testutil.Cookies(w)
	require.NotEmpty(t, cookies)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	return cookies
}

func TestContactThenAdminInbox(t *testing.T) {
	router, _ := newTestRouter(t)

	w := testutil.Request(t, router, http.MethodPost, "/api/contact", gin.H{
		"name":    "سارة",
		"phone":   "0500000000",
		"email":   "sara@example.com",
		"message": "أرغب في استشارة",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	cookies := loginAdmin(t, router)
	w = testutil.Request(t, router, http.MethodGet, "/api/admin/messages", nil, cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	msgs := testutil.DecodeJSON[[]models.ContactMessage](t, w)
	require.Len(t, msgs, 1)
	assert.Equal(t, "سارة", msgs[0].Name)
	assert.False(t, msgs[0].IsRead)
}

func TestPublishingFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	cookies := loginAdmin(t, router)

	w := testutil.Request(t, router, http.MethodPost, "/api/admin/services", gin.H{
		"title":       "خدمة جديدة",
		"slug":        "x",
		"description": "وصف الخدمة",
		"published":   false,
	}, cookies...)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc := testutil.DecodeJSON[models.Service](t, w)

	assert.Equal(t, http.StatusNotFound, testutil.Request(t, router, http.MethodGet, "/api/services/x", nil).Code)
	assert.Equal(t, http.StatusNotFound, testutil.Request(t, router, http.MethodGet, "/services/x", nil).Code)

	w = testutil.Request(t, router, http.MethodPut, "/api/admin/services/"+itoa(svc.ID),
		gin.H{"published": true}, cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.Request(t, router, http.MethodGet, "/api/services/x", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "خدمة جديدة", testutil.DecodeJSON[models.Service](t, w).Title)

	w = testutil.Request(t, router, http.MethodGet, "/services/x", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "خدمة جديدة")
}

func TestSeededCatalog(t *testing.T) {
	router, _ := newTestRouter(t)

	w := testutil.Request(t, router, http.MethodGet, "/api/services", nil)
	require.Equal(t, http.StatusOK, w.Code)
	services := testutil.DecodeJSON[[]models.Service](t, w)
	require.Len(t, services, 9)
	assert.Equal(t, "strategic-planning", services[0].Slug)
}

func TestAPINotFoundIsJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	w := testutil.Request(t, router, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	api := NewAPIRouter(Deps{Repos: testutil.NewLocalRepos(t), Sessions: cookie.NewStore([]byte("s"))})
	w = testutil.Request(t, api, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"not found"}`, w.Body.String())
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	w := testutil.Request(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	testutil.Request(t, router, http.MethodGet, "/api/services", nil)
	w := testutil.Request(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
}

func TestSessionOptions(t *testing.T) {
	opts := SessionOptions(true)
	assert.True(t, opts.Secure)
	assert.True(t, opts.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, opts.SameSite)
	assert.Equal(t, 86400, opts.MaxAge)

	assert.False(t, SessionOptions(false).Secure)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

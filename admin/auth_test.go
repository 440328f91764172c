package admin

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bod/common"
	"bod/content"
	"bod/models"
	"bod/testutil"
)

func TestLogin_Success(t *testing.T) {
	_, router, _ := setupAdmin(t)

	w := testutil.Request(t, router, http.MethodPost, "/api/admin/login",
		gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)

	user := testutil.DecodeJSON[map[string]any](t, w)
	assert.Equal(t, "admin", user["username"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, w.Body.String(), "$2a$")

	cookies := testutil.Cookies(w)
	require.NotEmpty(t, cookies)

	w = testutil.Request(t, router, http.MethodGet, "/api/admin/me", nil, cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	me := testutil.DecodeJSON[models.User](t, w)
	assert.Equal(t, "admin", me.Username)
}

func TestLogin_Failures(t *testing.T) {
	_, router, _ := setupAdmin(t)

	wrongPassword := testutil.Request(t, router, http.MethodPost, "/api/admin/login",
		gin.H{"username": "admin", "password": "nope"})
	unknownUser := testutil.Request(t, router, http.MethodPost, "/api/admin/login",
		gin.H{"username": "ghost", "password": "admin123"})

	for _, w := range []interface{ Result() *http.Response }{wrongPassword, unknownUser} {
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
		assert.Empty(t, w.Result().Cookies())
	}
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
	body := testutil.DecodeJSON[common.ErrorResponse](t, wrongPassword)
	assert.Equal(t, common.MsgLoginFailed, body.Message)
}

func TestLogin_MissingFields(t *testing.T) {
	_, router, _ := setupAdmin(t)

	for _, body := range []any{gin.H{"username": "admin"}, gin.H{"password": "x"}, "{"} {
		w := testutil.Request(t, router, http.MethodPost, "/api/admin/login", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := testutil.DecodeJSON[common.ErrorResponse](t, w)
		assert.Equal(t, common.MsgLoginRequired, resp.Message)
	}
}

func TestLogin_Throttled(t *testing.T) {
	repos := testutil.NewGormRepos(t)
	testutil.CreateUser(t, repos, "admin", "admin123")
	router := setupTestRouter(NewAdminModule(repos, zap.NewNop(), NewLoginLimiter(2), nil))

	attempt := func() int {
		return testutil.Request(t, router, http.MethodPost, "/api/admin/login",
			gin.H{"username": "admin", "password": "wrong"}).Code
	}
	assert.Equal(t, http.StatusUnauthorized, attempt())
	assert.Equal(t, http.StatusUnauthorized, attempt())
	assert.Equal(t, http.StatusTooManyRequests, attempt())
}

func TestLogout(t *testing.T) {
	_, router, _ := setupAdmin(t)
	cookies := login(t, router)

	w := testutil.Request(t, router, http.MethodPost, "/api/admin/logout", nil, cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	body := testutil.DecodeJSON[map[string]any](t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, common.MsgLoggedOut, body["message"])

	// the browser keeps whatever the logout response sets
	w = testutil.Request(t, router, http.MethodGet, "/api/admin/me", nil, testutil.Cookies(w)...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// logging out without a session still succeeds
	w = testutil.Request(t, router, http.MethodPost, "/api/admin/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMe_WithoutSession(t *testing.T) {
	_, router, _ := setupAdmin(t)

	w := testutil.Request(t, router, http.MethodGet, "/api/admin/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_DeletedUser(t *testing.T) {
	db := testutil.NewDB(t)
	repos := content.NewGormRepositories(db)
	user := testutil.CreateUser(t, repos, "admin", "admin123")
	router := setupTestRouter(NewAdminModule(repos, zap.NewNop(), nil, nil))
	cookies := login(t, router)

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	w := testutil.Request(t, router, http.MethodGet, "/api/admin/me", nil, cookies...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSession_ExpiresAfterMaxAge(t *testing.T) {
	adminModule, router, _ := setupAdmin(t)
	start := time.Now()
	adminModule.now = func() time.Time { return start }
	cookies := login(t, router)

	adminModule.now = func() time.Time { return start.Add(SessionMaxAge - time.Minute) }
	w := testutil.Request(t, router, http.MethodGet, "/api/admin/dashboard", nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)

	adminModule.now = func() time.Time { return start.Add(SessionMaxAge + time.Minute) }
	w = testutil.Request(t, router, http.MethodGet, "/api/admin/dashboard", nil, cookies...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginLimiter_PerClient(t *testing.T) {
	limiter := NewLoginLimiter(1)
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

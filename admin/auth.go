package admin

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bod/common"
	"bod/content"
	"bod/metrics"
	"bod/models"
)

const (
	sessionUserKey   = "user_id"
	sessionIssuedKey = "issued_at"

	// SessionMaxAge is absolute: a session expires this long after login
	// no matter how active it is.
	SessionMaxAge = 24 * time.Hour
)

// dummyHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := common.HashPassword("bod-dummy-password")
	return hash
})

func (a *AdminModule) login(c *gin.Context) {
	if a.limiter != nil && !a.limiter.Allow(c.ClientIP()) {
		metrics.LoginAttempts.WithLabelValues("throttled").Inc()
		common.AbortMessage(c, http.StatusTooManyRequests, common.MsgTooManyAttempts)
		return
	}

	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.AbortMessage(c, http.StatusBadRequest, common.MsgLoginRequired)
		return
	}

	user, err := a.repos.Users.GetByUsername(c.Request.Context(), input.Username)
	switch {
	case errors.Is(err, content.ErrNotFound):
		common.CheckPasswordHash(input.Password, dummyHash())
		a.loginFailed(c, input.Username)
		return
	case err != nil:
		common.AbortInternal(c, a.log, err)
		return
	}

	if !common.CheckPasswordHash(input.Password, user.PasswordHash) {
		a.loginFailed(c, input.Username)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserKey, user.ID)
	session.Set(sessionIssuedKey, a.now().Unix())
	if err := session.Save(); err != nil {
		common.AbortInternal(c, a.log, err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	a.log.Info("admin logged in", zap.Uint("user_id", user.ID))
	c.JSON(http.StatusOK, user)
}

func (a *AdminModule) loginFailed(c *gin.Context, username string) {
	metrics.LoginAttempts.WithLabelValues("failure").Inc()
	a.log.Info("admin login failed", zap.String("username", username), zap.String("ip", c.ClientIP()))
	common.AbortMessage(c, http.StatusUnauthorized, common.MsgLoginFailed)
}

func (a *AdminModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		a.log.Warn("clearing session failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": common.MsgLoggedOut})
}

func (a *AdminModule) me(c *gin.Context) {
	userID, ok := a.sessionUser(c)
	if !ok {
		common.AbortMessage(c, http.StatusUnauthorized, common.MsgUnauthorized)
		return
	}

	user, err := a.repos.Users.GetByID(c.Request.Context(), userID)
	if errors.Is(err, content.ErrNotFound) {
		common.AbortMessage(c, http.StatusUnauthorized, common.MsgUnauthorized)
		return
	}
	if err != nil {
		common.AbortInternal(c, a.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// RequireAuth rejects requests without a live admin session.
func (a *AdminModule) RequireAuth(c *gin.Context) {
	userID, ok := a.sessionUser(c)
	if !ok {
		common.AbortMessage(c, http.StatusUnauthorized, common.MsgUnauthorized)
		return
	}

	c.Set(sessionUserKey, userID)
	c.Next()
}

// sessionUser returns the logged in user id unless the session is missing,
// malformed or past its absolute lifetime.
func (a *AdminModule) sessionUser(c *gin.Context) (uint, bool) {
	session := sessions.Default(c)
	userID, ok := session.Get(sessionUserKey).(uint)
	if !ok || userID == 0 {
		return 0, false
	}
	issuedAt, ok := session.Get(sessionIssuedKey).(int64)
	if !ok || a.now().Sub(time.Unix(issuedAt, 0)) > SessionMaxAge {
		return 0, false
	}
	return userID, true
}

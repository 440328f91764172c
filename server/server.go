// Package server assembles the gin engines.
package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bod/admin"
	"bod/analytics"
	"bod/cache"
	"bod/catalog"
	"bod/common"
	"bod/content"
	"bod/metrics"
	"bod/site"
)

const SessionCookieName = "bod_session"

type Deps struct {
	Repos    *content.Repositories
	Sessions sessions.Store
	Logger   *zap.Logger
	Notifier catalog.Notifier
	Pages    cache.Cache
	// Limiter may be nil to disable login throttling.
	Limiter *admin.LoginLimiter
	// Visits may be nil; analytics then reports no visits.
	Visits  *analytics.Tracker
	SiteURL string
}

// SessionOptions are the cookie settings for the admin session.
func SessionOptions(production bool) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   int(admin.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
	}
}

func newEngine(d *Deps) *gin.Engine {
	common.UseJSONFieldNames()
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		common.RequestID(),
		common.RequestLogger(d.Logger),
		common.Recovery(d.Logger),
		metrics.Middleware(),
		sessions.Sessions(SessionCookieName, d.Sessions),
	)
	return router
}

func registerAPI(router *gin.Engine, d Deps) {
	api := router.Group("/api")
	catalog.NewCatalogModule(d.Repos, d.Notifier, d.Logger).RegisterRoutes(api)
	adminModule := admin.NewAdminModule(d.Repos, d.Logger, d.Limiter, d.Pages)
	adminModule.RegisterRoutes(api)
	d.Visits.RegisterRoutes(api.Group("/admin", adminModule.RequireAuth), d.Logger)
}

// NewAPIRouter serves only /api. The mock transport runs this same engine.
func NewAPIRouter(d Deps) *gin.Engine {
	router := newEngine(&d)
	registerAPI(router, d)
	router.NoRoute(func(c *gin.Context) {
		common.AbortMessage(c, http.StatusNotFound, "not found")
	})
	return router
}

// NewRouter serves the API, the public pages, /metrics and /healthz.
func NewRouter(d Deps) *gin.Engine {
	router := newEngine(&d)
	registerAPI(router, d)

	router.SetHTMLTemplate(site.Templates())
	site.NewSiteModule(d.Repos, d.Pages, d.SiteURL, d.Logger).
		TrackVisits(d.Visits).
		RegisterRoutes(router)

	router.GET("/metrics", metrics.Handler())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

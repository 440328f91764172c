package admin

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bod/common"
	"bod/content"
	"bod/models"
)

// Page cache sections, named after the public routes.
const (
	SectionServices    = "services"
	SectionBlog        = "blog"
	SectionWorkLibrary = "work-library"
	SectionSolutions   = "solutions"
)

// SectionClearer drops cached public pages after a content change.
type SectionClearer interface {
	ClearSection(ctx context.Context, section string) error
}

type AdminModule struct {
	repos   *content.Repositories
	log     *zap.Logger
	limiter *LoginLimiter
	pages   SectionClearer
	now     func() time.Time
}

func NewAdminModule(repos *content.Repositories, log *zap.Logger, limiter *LoginLimiter, pages SectionClearer) *AdminModule {
	return &AdminModule{
		repos:   repos,
		log:     log,
		limiter: limiter,
		pages:   pages,
		now:     time.Now,
	}
}

// RegisterRoutes mounts /admin/* on the /api group.
func (a *AdminModule) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/admin/login", a.login)
	api.POST("/admin/logout", a.logout)
	api.GET("/admin/me", a.me)

	adminGroup := api.Group("/admin")
	adminGroup.Use(a.RequireAuth)
	{
		registerResource[models.Service, models.ServiceInput, models.ServicePatch](adminGroup, a, resource[models.Service]{
			path:     "/services",
			section:  SectionServices,
			store:    a.repos.Services,
			notFound: common.MsgServiceNotFound,
		})
		registerResource[models.Article, models.ArticleInput, models.ArticlePatch](adminGroup, a, resource[models.Article]{
			path:     "/blog",
			section:  SectionBlog,
			store:    a.repos.Articles,
			notFound: common.MsgArticleNotFound,
		})
		registerResource[models.WorkItem, models.WorkItemInput, models.WorkItemPatch](adminGroup, a, resource[models.WorkItem]{
			path:     "/work-library",
			section:  SectionWorkLibrary,
			store:    a.repos.WorkItems,
			notFound: common.MsgWorkItemNotFound,
		})
		registerResource[models.DigitalSolution, models.SolutionInput, models.SolutionPatch](adminGroup, a, resource[models.DigitalSolution]{
			path:     "/solutions",
			section:  SectionSolutions,
			store:    a.repos.Solutions,
			notFound: common.MsgSolutionNotFound,
		})

		adminGroup.GET("/messages", a.listMessages)
		adminGroup.GET("/messages/unread-count", a.unreadCount)
		adminGroup.PATCH("/messages/:id/read", a.markMessageRead)
		adminGroup.DELETE("/messages/:id", a.deleteMessage)

		adminGroup.GET("/settings", a.listSettings)
		adminGroup.PUT("/settings", a.upsertSetting)

		adminGroup.GET("/dashboard", a.dashboard)
	}
}

// clearPages is best effort: a stale page expires on its own.
func (a *AdminModule) clearPages(ctx context.Context, section string) {
	if a.pages == nil {
		return
	}
	if err := a.pages.ClearSection(ctx, section); err != nil {
		a.log.Warn("clearing page cache failed", zap.String("section", section), zap.Error(err))
	}
}

// Package catalog serves the public JSON API: published content and the
// contact form.
package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bod/common"
	"bod/content"
)

const relatedArticlesLimit = 3

type CatalogModule struct {
	repos    *content.Repositories
	notifier Notifier
	log      *zap.Logger
}

func NewCatalogModule(repos *content.Repositories, notifier Notifier, log *zap.Logger) *CatalogModule {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &CatalogModule{repos: repos, notifier: notifier, log: log}
}

// RegisterRoutes mounts the public endpoints on the /api group.
func (m *CatalogModule) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/contact", m.createContact)

	api.GET("/services", listPublished(m.repos.Services, "", m.log))
	api.GET("/services/:slug", showPublished(m.repos.Services, common.MsgServiceNotFound, m.log))
	api.GET("/services/:slug/articles", m.serviceArticles)

	api.GET("/blog", listPublished(m.repos.Articles, "category", m.log))
	api.GET("/blog/:slug", showPublished(m.repos.Articles, common.MsgArticleNotFound, m.log))
	api.GET("/articles", listPublished(m.repos.Articles, "", m.log))

	api.GET("/work-library", listPublished(m.repos.WorkItems, "category", m.log))
	api.GET("/work-library/:slug", showPublished(m.repos.WorkItems, common.MsgWorkItemNotFound, m.log))

	api.GET("/solutions", listPublished(m.repos.Solutions, "type", m.log))
	api.GET("/solutions/:slug", showPublished(m.repos.Solutions, common.MsgSolutionNotFound, m.log))
}

// listPublished answers the published rows, narrowed by the query parameter
// filterParam when the request carries it.
func listPublished[T any](store content.Store[T], filterParam string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			rows []T
			err  error
		)
		if value := c.Query(filterParam); filterParam != "" && value != "" {
			rows, err = store.ListByCategory(c.Request.Context(), value)
		} else {
			rows, err = store.ListPublished(c.Request.Context())
		}
		if err != nil {
			common.AbortInternal(c, log, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func showPublished[T any, PT content.Record[T]](store content.Store[T], notFound string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, ok := FindPublished[T, PT](c, store, log)
		if !ok {
			if !c.IsAborted() {
				common.AbortMessage(c, http.StatusNotFound, notFound)
			}
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

// FindPublished looks up :slug and reports false for absent and unpublished
// rows alike. Store failures are answered with a 500 before returning.
func FindPublished[T any, PT content.Record[T]](c *gin.Context, store content.Store[T], log *zap.Logger) (*T, bool) {
	row, err := store.GetBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, content.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		common.AbortInternal(c, log, err)
		return nil, false
	}
	if !PT(row).IsPublished() {
		return nil, false
	}
	return row, true
}

func (m *CatalogModule) serviceArticles(c *gin.Context) {
	if _, ok := FindPublished(c, m.repos.Services, m.log); !ok {
		if !c.IsAborted() {
			common.AbortMessage(c, http.StatusNotFound, common.MsgServiceNotFound)
		}
		return
	}

	articles, err := m.repos.Articles.ListPublished(c.Request.Context())
	if err != nil {
		common.AbortInternal(c, m.log, err)
		return
	}
	if len(articles) > relatedArticlesLimit {
		articles = articles[:relatedArticlesLimit]
	}
	c.JSON(http.StatusOK, articles)
}

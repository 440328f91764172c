// Package site renders the public HTML pages.
package site

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bod/analytics"
	"bod/cache"
	"bod/catalog"
	"bod/common"
	"bod/content"
	"bod/models"
)

const defaultSiteTitle = "ولادة حلم للاستشارات والأبحاث"

//go:embed views/*.html
var views embed.FS

// Templates parses the page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(views, "views/*.html"))
}

type SiteModule struct {
	repos   *content.Repositories
	pages   cache.Cache
	log     *zap.Logger
	baseURL string
	visits  *analytics.Tracker
	// sitemap sources, one per section
	slugLists []slugList
}

type slugList struct {
	path  string
	slugs func(ctx context.Context) ([]string, error)
}

func NewSiteModule(repos *content.Repositories, pages cache.Cache, baseURL string, log *zap.Logger) *SiteModule {
	if pages == nil {
		pages = cache.Nop{}
	}
	return &SiteModule{
		repos:   repos,
		pages:   pages,
		log:     log,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// TrackVisits counts detail page views. Call it before RegisterRoutes.
func (s *SiteModule) TrackVisits(t *analytics.Tracker) *SiteModule {
	s.visits = t
	return s
}

type filter struct {
	Value string
	Label string
}

type item struct {
	Title   string
	URL     string
	Label   string
	Summary string
}

type page struct {
	SiteTitle string
	PageTitle string
	Year      int

	BasePath    string
	FilterParam string
	Active      string
	Filters     []filter
	Items       []item

	Label        string
	Date         string
	ImageURL     string
	Link         string
	FileURL      string
	Body         template.HTML
	Deliverables []string

	Services []models.Service
	Articles []models.Article
	Message  string
}

type section[T any] struct {
	path        string
	title       string
	filterParam string
	filters     []filter
	store       content.Store[T]
	notFound    string
	item        func(row *T) item
	detail      func(row *T, p *page)
}

func (s *SiteModule) RegisterRoutes(router gin.IRoutes) {
	router.GET("/", s.index)
	router.GET("/sitemap.xml", s.sitemap)

	registerSection(router, s, section[models.Service]{
		path:     "services",
		title:    "الخدمات",
		store:    s.repos.Services,
		notFound: common.MsgServiceNotFound,
		item: func(row *models.Service) item {
			return item{Title: row.Title, URL: "/services/" + row.Slug, Summary: row.Description}
		},
		detail: func(row *models.Service, p *page) {
			p.Body = renderMarkdown(row.Description)
			p.Deliverables = row.Deliverables
		},
	})

	registerSection(router, s, section[models.Article]{
		path:        "blog",
		title:       "المدونة",
		filterParam: "category",
		filters:     filtersFor(articleLabels, models.CategoryNews, models.CategoryArticle, models.CategoryNewsletter),
		store:       s.repos.Articles,
		notFound:    common.MsgArticleNotFound,
		item: func(row *models.Article) item {
			return item{Title: row.Title, URL: "/blog/" + row.Slug, Label: articleLabels[row.Category], Summary: row.Excerpt}
		},
		detail: func(row *models.Article, p *page) {
			p.Body = renderMarkdown(row.Content)
			p.Label = articleLabels[row.Category]
			p.Date = deref(row.PublishDate)
			p.ImageURL = deref(row.ImageURL)
		},
	})

	registerSection(router, s, section[models.WorkItem]{
		path:        "work-library",
		title:       "مكتبة الأعمال",
		filterParam: "category",
		filters: filtersFor(workLabels, models.WorkStrategicPlanning, models.WorkProceduralGuides,
			models.WorkAnnualPlans, models.WorkCommunityInitiatives, models.WorkMotionGraphics),
		store:    s.repos.WorkItems,
		notFound: common.MsgWorkItemNotFound,
		item: func(row *models.WorkItem) item {
			return item{Title: row.Title, URL: "/work-library/" + row.Slug, Label: workLabels[row.Category], Summary: row.Description}
		},
		detail: func(row *models.WorkItem, p *page) {
			p.Body = renderMarkdown(row.Content)
			p.Label = workLabels[row.Category]
			p.ImageURL = deref(row.ImageURL)
			p.FileURL = deref(row.FileURL)
		},
	})

	registerSection(router, s, section[models.DigitalSolution]{
		path:        "solutions",
		title:       "الحلول الرقمية",
		filterParam: "type",
		filters:     filtersFor(solutionLabels, models.SolutionPlatform, models.SolutionCaseStudy, models.SolutionPublication),
		store:       s.repos.Solutions,
		notFound:    common.MsgSolutionNotFound,
		item: func(row *models.DigitalSolution) item {
			return item{Title: row.Title, URL: "/solutions/" + row.Slug, Label: solutionLabels[row.SolutionType], Summary: row.Description}
		},
		detail: func(row *models.DigitalSolution, p *page) {
			p.Body = renderMarkdown(row.Content)
			p.Label = solutionLabels[row.SolutionType]
			p.ImageURL = deref(row.ImageURL)
			p.Link = deref(row.Link)
		},
	})
}

func registerSection[T any, PT content.Record[T]](router gin.IRoutes, s *SiteModule, sec section[T]) {
	router.GET("/"+sec.path, func(c *gin.Context) {
		var (
			rows []T
			err  error
		)
		active := ""
		if sec.filterParam != "" {
			active = c.Query(sec.filterParam)
		}
		if active != "" {
			rows, err = sec.store.ListByCategory(c.Request.Context(), active)
		} else {
			rows, err = sec.store.ListPublished(c.Request.Context())
		}
		if err != nil {
			s.serverError(c, err)
			return
		}

		p := s.newPage(c.Request.Context(), sec.title)
		p.BasePath = "/" + sec.path
		p.FilterParam = sec.filterParam
		p.Active = active
		p.Filters = sec.filters
		for i := range rows {
			p.Items = append(p.Items, sec.item(&rows[i]))
		}
		c.HTML(http.StatusOK, "list.html", p)
	})

	router.GET("/"+sec.path+"/:slug", s.visits.Track(sec.path), cache.Middleware(s.pages, sec.path), func(c *gin.Context) {
		row, ok := catalog.FindPublished[T, PT](c, sec.store, s.log)
		if c.IsAborted() {
			return
		}
		if !ok {
			s.notFound(c, sec.notFound)
			return
		}

		p := s.newPage(c.Request.Context(), sec.item(row).Title)
		sec.detail(row, p)
		c.HTML(http.StatusOK, "detail.html", p)
	})

	s.slugLists = append(s.slugLists, slugList{
		path: sec.path,
		slugs: func(ctx context.Context) ([]string, error) {
			rows, err := sec.store.ListPublished(ctx)
			if err != nil {
				return nil, err
			}
			slugs := make([]string, 0, len(rows))
			for i := range rows {
				slugs = append(slugs, PT(&rows[i]).GetSlug())
			}
			return slugs, nil
		},
	})
}

func (s *SiteModule) index(c *gin.Context) {
	ctx := c.Request.Context()

	services, err := s.repos.Services.ListPublished(ctx)
	if err != nil {
		s.serverError(c, err)
		return
	}
	articles, err := s.repos.Articles.ListPublished(ctx)
	if err != nil {
		s.serverError(c, err)
		return
	}
	if len(articles) > 3 {
		articles = articles[:3]
	}

	p := s.newPage(ctx, "")
	p.Services = services
	p.Articles = articles
	c.HTML(http.StatusOK, "home.html", p)
}

func (s *SiteModule) siteTitle(ctx context.Context) string {
	setting, err := s.repos.Settings.Get(ctx, "site_title")
	if err != nil {
		if !errors.Is(err, content.ErrNotFound) {
			s.log.Warn("reading site_title failed", zap.Error(err))
		}
		return defaultSiteTitle
	}
	return setting.Value
}

func (s *SiteModule) newPage(ctx context.Context, title string) *page {
	return &page{
		SiteTitle: s.siteTitle(ctx),
		PageTitle: title,
		Year:      time.Now().Year(),
	}
}

func (s *SiteModule) notFound(c *gin.Context, message string) {
	p := s.newPage(c.Request.Context(), message)
	p.Message = message
	c.HTML(http.StatusNotFound, "notfound.html", p)
}

func (s *SiteModule) serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	s.log.Error("rendering page failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
	p := s.newPage(c.Request.Context(), common.MsgInternal)
	p.Message = common.MsgInternal
	c.HTML(http.StatusInternalServerError, "notfound.html", p)
}

var articleLabels = map[models.ArticleCategory]string{
	models.CategoryNews:       "أخبار",
	models.CategoryArticle:    "مقالات",
	models.CategoryNewsletter: "النشرة البريدية",
}

var workLabels = map[models.WorkCategory]string{
	models.WorkStrategicPlanning:    "التخطيط الاستراتيجي",
	models.WorkProceduralGuides:     "الأدلة الإجرائية",
	models.WorkAnnualPlans:          "الخطط السنوية",
	models.WorkCommunityInitiatives: "المبادرات المجتمعية",
	models.WorkMotionGraphics:       "موشن جرافيك",
}

var solutionLabels = map[models.SolutionType]string{
	models.SolutionPlatform:    "منصات",
	models.SolutionCaseStudy:   "دراسات حالة",
	models.SolutionPublication: "إصدارات",
}

func filtersFor[K ~string](labels map[K]string, order ...K) []filter {
	out := make([]filter, 0, len(order))
	for _, k := range order {
		out = append(out, filter{Value: string(k), Label: labels[k]})
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

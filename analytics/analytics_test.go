package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bod/models"
	"bod/testutil"
)

func setupTracker(t *testing.T) (*Tracker, *gorm.DB, *time.Time) {
	t.Helper()
	db := testutil.NewDB(t)
	tracker := NewTracker(db, zap.NewNop(), false)
	clock := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return clock }
	return tracker, db, &clock
}

func setupRouter(tracker *Tracker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/blog/:slug", tracker.Track("blog"), func(c *gin.Context) {
		if c.Param("slug") == "missing" {
			c.String(http.StatusNotFound, "not found")
			return
		}
		c.String(http.StatusOK, "page")
	})
	return router
}

func visit(router http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 Chrome/120.0")
	req.Header.Set("Accept-Language", "ar-SA,ar;q=0.9,en;q=0.8")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func countVisits(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.PageVisit{}).Count(&n).Error)
	return n
}

func TestTrack_RecordsOncePerWindow(t *testing.T) {
	tracker, db, clock := setupTracker(t)
	router := setupRouter(tracker)

	w := visit(router, "/blog/first")
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, VisitorCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	visit(router, "/blog/first", cookies...)
	assert.EqualValues(t, 1, countVisits(t, db))

	visit(router, "/blog/second", cookies...)
	assert.EqualValues(t, 2, countVisits(t, db))

	*clock = clock.Add(revisitWindow + time.Minute)
	visit(router, "/blog/first", cookies...)
	assert.EqualValues(t, 3, countVisits(t, db))

	var stored models.PageVisit
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, "blog", stored.Section)
	assert.Equal(t, "first", stored.Slug)
	require.NotNil(t, stored.Browser)
	assert.Equal(t, "Chrome", *stored.Browser)
	require.NotNil(t, stored.Language)
	assert.Equal(t, "ar-SA", *stored.Language)
}

func TestTrack_SkipsFailedPages(t *testing.T) {
	tracker, db, _ := setupTracker(t)
	router := setupRouter(tracker)

	w := visit(router, "/blog/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, countVisits(t, db))
}

func TestTrack_NilTracker(t *testing.T) {
	var tracker *Tracker
	router := setupRouter(tracker)

	w := visit(router, "/blog/first")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())

	byDay, err := tracker.VisitsByDay(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, byDay, 3)
	top, err := tracker.TopPages(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestStats(t *testing.T) {
	tracker, db, _ := setupTracker(t)
	ctx := context.Background()

	for _, v := range []models.PageVisit{
		{Section: "blog", Slug: "a", VisitorID: "1", CreatedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{Section: "blog", Slug: "a", VisitorID: "2", CreatedAt: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)},
		{Section: "services", Slug: "b", VisitorID: "1", CreatedAt: time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)},
		{Section: "blog", Slug: "old", VisitorID: "1", CreatedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
	} {
		require.NoError(t, db.Create(&v).Error)
	}

	byDay, err := tracker.VisitsByDay(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []DayVisits{
		{Date: "2025-03-08", Count: 1},
		{Date: "2025-03-09", Count: 0},
		{Date: "2025-03-10", Count: 2},
	}, byDay)

	top, err := tracker.TopPages(ctx, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, []PageVisits{
		{Section: "blog", Slug: "a", Count: 2},
		{Section: "services", Slug: "b", Count: 1},
	}, top)
}

func TestStatsRoute(t *testing.T) {
	tracker, _, _ := setupTracker(t)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	tracker.RegisterRoutes(router.Group("/api/admin"), zap.NewNop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/analytics?days=7", nil))
	require.Equal(t, http.StatusOK, w.Code)
	stats := testutil.DecodeJSON[Stats](t, w)
	assert.Equal(t, 7, stats.Days)
	assert.Len(t, stats.VisitsByDay, 7)
	assert.NotNil(t, stats.TopPages)

	for _, bad := range []string{"0", "abc", "1000"} {
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/analytics?days="+bad, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestExtractors(t *testing.T) {
	assert.Nil(t, extractBrowser(""))
	assert.Equal(t, "Edge", *extractBrowser("Mozilla/5.0 Chrome/120 Safari/537 Edg/120"))
	assert.Equal(t, "Safari", *extractBrowser("Mozilla/5.0 Version/17 Safari/605"))
	assert.Equal(t, "Firefox", *extractBrowser("Mozilla/5.0 Firefox/121"))

	assert.Nil(t, extractLanguage(""))
	assert.Equal(t, "en-US", *extractLanguage("en-US;q=0.9"))
}

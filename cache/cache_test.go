package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache_SetGet(t *testing.T) {
	ctx := context.Background()
	fc := NewFileCache(t.TempDir(), time.Hour)

	_, found := fc.Get(ctx, "blog", "first")
	assert.False(t, found)

	require.NoError(t, fc.Set(ctx, "blog", "first", []byte("<p>hi</p>")))
	page, found := fc.Get(ctx, "blog", "first")
	require.True(t, found)
	assert.Equal(t, "<p>hi</p>", string(page))

	_, found = fc.Get(ctx, "services", "first")
	assert.False(t, found)
}

func TestFileCache_PathHashesSlug(t *testing.T) {
	fc := NewFileCache("/tmp/pages", time.Hour)

	path := fc.Path("blog", "../../etc/passwd")
	assert.Equal(t, filepath.Join("/tmp/pages", "blog"), filepath.Dir(path))
	assert.Equal(t, ".html", filepath.Ext(path))
	assert.NotEqual(t, path, fc.Path("blog", "other"))
}

func TestFileCache_Expired(t *testing.T) {
	ctx := context.Background()
	fc := NewFileCache(t.TempDir(), time.Minute)
	require.NoError(t, fc.Set(ctx, "blog", "old", []byte("x")))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(fc.Path("blog", "old"), past, past))

	_, found := fc.Get(ctx, "blog", "old")
	assert.False(t, found)
}

func TestFileCache_ClearSection(t *testing.T) {
	ctx := context.Background()
	fc := NewFileCache(t.TempDir(), 0)
	require.NoError(t, fc.Set(ctx, "blog", "a", []byte("a")))
	require.NoError(t, fc.Set(ctx, "services", "b", []byte("b")))

	require.NoError(t, fc.ClearSection(ctx, "blog"))
	require.NoError(t, fc.ClearSection(ctx, "never-created"))

	_, found := fc.Get(ctx, "blog", "a")
	assert.False(t, found)
	_, found = fc.Get(ctx, "services", "b")
	assert.True(t, found)
}

func setupRouter(c Cache, calls *int, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/blog/:slug", Middleware(c, "blog"), func(ctx *gin.Context) {
		*calls++
		ctx.Data(status, "text/html; charset=utf-8", []byte("<h1>"+ctx.Param("slug")+"</h1>"))
	})
	return router
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestMiddleware_MissThenHit(t *testing.T) {
	calls := 0
	router := setupRouter(NewFileCache(t.TempDir(), time.Hour), &calls, http.StatusOK)

	w := get(router, "/blog/first")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, "<h1>first</h1>", w.Body.String())

	w = get(router, "/blog/first")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, "<h1>first</h1>", w.Body.String())
	assert.Equal(t, 1, calls)
}

func TestMiddleware_SkipsErrors(t *testing.T) {
	calls := 0
	router := setupRouter(NewFileCache(t.TempDir(), time.Hour), &calls, http.StatusNotFound)

	get(router, "/blog/missing")
	w := get(router, "/blog/missing")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 2, calls)
}

func TestMiddleware_Nop(t *testing.T) {
	calls := 0
	router := setupRouter(Nop{}, &calls, http.StatusOK)

	get(router, "/blog/a")
	get(router, "/blog/a")
	assert.Equal(t, 2, calls)
}

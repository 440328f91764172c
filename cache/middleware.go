package cache

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware serves a detail page from the cache and stores fresh 200 HTML
// responses. The route must expose the page's slug as :slug.
func Middleware(c Cache, section string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet {
			ctx.Next()
			return
		}

		slug := ctx.Param("slug")
		if slug == "" {
			ctx.Next()
			return
		}

		if cached, found := c.Get(ctx.Request.Context(), section, slug); found {
			ctx.Header("X-Cache", "HIT")
			ctx.Data(http.StatusOK, "text/html; charset=utf-8", cached)
			ctx.Abort()
			return
		}

		ctx.Header("X-Cache", "MISS")

		writer := &responseWriter{
			ResponseWriter: ctx.Writer,
			body:           bytes.NewBuffer(nil),
		}
		ctx.Writer = writer

		ctx.Next()

		if ctx.Writer.Status() == http.StatusOK &&
			strings.HasPrefix(ctx.Writer.Header().Get("Content-Type"), "text/html") {
			_ = c.Set(ctx.Request.Context(), section, slug, writer.body.Bytes())
		}
	}
}

package site

import (
	"html"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *SiteModule) sitemap(c *gin.Context) {
	ctx := c.Request.Context()

	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")

	writeURL(&sitemap, s.baseURL+"/", "weekly", "1.0")

	for _, list := range s.slugLists {
		writeURL(&sitemap, s.baseURL+"/"+list.path, "weekly", "0.8")

		slugs, err := list.slugs(ctx)
		if err != nil {
			s.serverError(c, err)
			return
		}
		for _, slug := range slugs {
			writeURL(&sitemap, s.baseURL+"/"+list.path+"/"+url.PathEscape(slug), "monthly", "0.6")
		}
	}

	sitemap.WriteString("</urlset>\n")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(sitemap.String()))
}

func writeURL(b *strings.Builder, loc, changefreq, priority string) {
	b.WriteString("  <url>\n")
	b.WriteString("    <loc>" + html.EscapeString(loc) + "</loc>\n")
	b.WriteString("    <changefreq>" + changefreq + "</changefreq>\n")
	b.WriteString("    <priority>" + priority + "</priority>\n")
	b.WriteString("  </url>\n")
}

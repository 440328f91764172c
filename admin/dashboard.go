package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"bod/common"
)

type DashboardStats struct {
	TotalMessages  int64 `json:"totalMessages"`
	UnreadMessages int64 `json:"unreadMessages"`
	TotalSettings  int64 `json:"totalSettings"`
	TotalServices  int64 `json:"totalServices"`
	TotalBlogPosts int64 `json:"totalBlogPosts"`
	TotalWorkItems int64 `json:"totalWorkItems"`
	TotalSolutions int64 `json:"totalSolutions"`
}

func (a *AdminModule) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	var stats DashboardStats

	counts := []struct {
		dst   *int64
		count func(context.Context) (int64, error)
	}{
		{&stats.TotalMessages, a.repos.Messages.Count},
		{&stats.UnreadMessages, a.repos.Messages.UnreadCount},
		{&stats.TotalSettings, a.repos.Settings.Count},
		{&stats.TotalServices, a.repos.Services.Count},
		{&stats.TotalBlogPosts, a.repos.Articles.Count},
		{&stats.TotalWorkItems, a.repos.WorkItems.Count},
		{&stats.TotalSolutions, a.repos.Solutions.Count},
	}
	for _, cnt := range counts {
		n, err := cnt.count(ctx)
		if err != nil {
			common.AbortInternal(c, a.log, err)
			return
		}
		*cnt.dst = n
	}

	c.JSON(http.StatusOK, stats)
}

package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bod/common"
	"bod/models"
)

func (a *AdminModule) listSettings(c *gin.Context) {
	settings, err := a.repos.Settings.List(c.Request.Context())
	if err != nil {
		common.AbortInternal(c, a.log, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// upsertSetting creates the key or overwrites its value; the row id is kept.
func (a *AdminModule) upsertSetting(c *gin.Context) {
	var input models.SettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.AbortValidation(c, err)
		return
	}

	setting, err := a.repos.Settings.Upsert(c.Request.Context(), input.Key, *input.Value)
	if err != nil {
		common.AbortInternal(c, a.log, err)
		return
	}
	// cached pages embed settings such as site_title
	for _, section := range []string{SectionServices, SectionBlog, SectionWorkLibrary, SectionSolutions} {
		a.clearPages(c.Request.Context(), section)
	}
	c.JSON(http.StatusOK, setting)
}

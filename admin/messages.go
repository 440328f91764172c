package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bod/common"
	"bod/content"
)

func (a *AdminModule) listMessages(c *gin.Context) {
	msgs, err := a.repos.Messages.List(c.Request.Context())
	if err != nil {
		common.AbortInternal(c, a.log, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (a *AdminModule) unreadCount(c *gin.Context) {
	n, err := a.repos.Messages.UnreadCount(c.Request.Context())
	if err != nil {
		common.AbortInternal(c, a.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (a *AdminModule) markMessageRead(c *gin.Context) {
	id, ok := common.ParseID(c)
	if !ok {
		return
	}
	err := a.repos.Messages.MarkRead(c.Request.Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		common.AbortMessage(c, http.StatusNotFound, common.MsgMessageNotFound)
		return
	}
	if err != nil {
		common.AbortInternal(c, a.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *AdminModule) deleteMessage(c *gin.Context) {
	id, ok := common.ParseID(c)
	if !ok {
		return
	}
	if err := a.repos.Messages.Delete(c.Request.Context(), id); err != nil {
		common.AbortInternal(c, a.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

package catalog

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bod/common"
	"bod/metrics"
	"bod/models"
)

// Notifier is told about every stored contact message.
type Notifier interface {
	NotifyContact(ctx context.Context, msg *models.ContactMessage) error
}

type NopNotifier struct{}

func (NopNotifier) NotifyContact(context.Context, *models.ContactMessage) error { return nil }

func (m *CatalogModule) createContact(c *gin.Context) {
	var input models.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.AbortValidation(c, err)
		return
	}

	msg := input.Build()
	if err := m.repos.Messages.Create(c.Request.Context(), &msg); err != nil {
		common.AbortInternal(c, m.log, err)
		return
	}
	metrics.ContactMessagesCreated.Inc()

	// the message is stored; a failed notification only gets logged
	if err := m.notifier.NotifyContact(c.Request.Context(), &msg); err != nil {
		m.log.Warn("contact notification failed",
			zap.Uint("message_id", msg.ID),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusCreated, msg)
}

package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bod/common"
	"bod/models"
)

func testMessage() *models.ContactMessage {
	return &models.ContactMessage{
		ID:      7,
		Name:    "سارة",
		Phone:   "0500000000",
		Email:   "sara@example.com",
		Purpose: models.PurposeCallback,
		Message: "أرغب في استشارة",
	}
}

func TestBuildContactMessage(t *testing.T) {
	raw := string(BuildContactMessage("site@bod.example", "owner@bod.example", testMessage()))

	head, body, ok := strings.Cut(raw, "\r\n\r\n")
	require.True(t, ok)

	assert.Contains(t, head, "From: site@bod.example\r\n")
	assert.Contains(t, head, "To: owner@bod.example\r\n")
	assert.Contains(t, head, "Reply-To: sara@example.com\r\n")
	assert.Contains(t, head, "Subject: =?utf-8?q?")
	assert.Contains(t, head, "Content-Type: text/plain; charset=UTF-8")

	assert.Contains(t, body, "سارة")
	assert.Contains(t, body, "0500000000")
	assert.Contains(t, body, "طلب اتصال")
	assert.Contains(t, body, "أرغب في استشارة")
	assert.NotContains(t, strings.ReplaceAll(body, "\r\n", ""), "\n")
}

func TestBuildContactMessage_LineEndings(t *testing.T) {
	msg := testMessage()
	msg.Message = "سطر أول\r\nسطر ثان\nسطر ثالث"

	raw := string(BuildContactMessage("a@b.c", "d@e.f", msg))
	assert.NotContains(t, raw, "\r\r")
	assert.Contains(t, raw, "سطر أول\r\nسطر ثان\r\nسطر ثالث")
	assert.NotContains(t, strings.ReplaceAll(raw, "\r\n", ""), "\n")
}

func TestBuildContactMessage_NoHeaderInjection(t *testing.T) {
	msg := testMessage()
	msg.Email = "x@example.com\r\nBcc: victim@example.com"

	raw := string(BuildContactMessage("a@b.c", "d@e.f", msg))
	head, _, _ := strings.Cut(raw, "\r\n\r\n")
	for _, line := range strings.Split(head, "\r\n") {
		assert.False(t, strings.HasPrefix(line, "Bcc:"), line)
	}
}

func TestNotifyContact(t *testing.T) {
	cfg := common.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		User:     "mailer",
		Password: "pw",
		From:     "site@bod.example",
		NotifyTo: "owner@bod.example",
	}
	svc := NewEmailService(cfg)

	var (
		gotAddr string
		gotAuth smtp.Auth
		gotTo   []string
		gotMsg  []byte
	)
	svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotTo, gotMsg = addr, a, to, msg
		assert.Equal(t, "site@bod.example", from)
		return nil
	}

	require.NoError(t, svc.NotifyContact(context.Background(), testMessage()))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, []string{"owner@bod.example"}, gotTo)
	assert.Contains(t, string(gotMsg), "Reply-To: sara@example.com")
}

func TestNotifyContact_WithoutAuthAndFailure(t *testing.T) {
	svc := NewEmailService(common.SMTPConfig{Host: "localhost", Port: 25, From: "a@b.c", NotifyTo: "d@e.f"})
	svc.send = func(_ string, a smtp.Auth, _ string, _ []string, _ []byte) error {
		assert.Nil(t, a)
		return errors.New("connection refused")
	}

	err := svc.NotifyContact(context.Background(), testMessage())
	assert.ErrorContains(t, err, "connection refused")
}

package email

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"bod/common"
	"bod/models"
)

var purposeLabels = map[models.Purpose]string{
	models.PurposeInquiry:   "استفسار",
	models.PurposeComplaint: "شكوى",
	models.PurposeCallback:  "طلب اتصال",
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService notifies the site owner about new contact messages.
type EmailService struct {
	cfg  common.SMTPConfig
	send sendFunc
}

func NewEmailService(cfg common.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg, send: smtp.SendMail}
}

func (e *EmailService) NotifyContact(_ context.Context, msg *models.ContactMessage) error {
	message := BuildContactMessage(e.cfg.From, e.cfg.NotifyTo, msg)

	var auth smtp.Auth
	if e.cfg.User != "" {
		auth = smtp.PlainAuth("", e.cfg.User, e.cfg.Password, e.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)

	if err := e.send(addr, auth, e.cfg.From, []string{e.cfg.NotifyTo}, message); err != nil {
		return fmt.Errorf("send contact notification: %w", err)
	}
	return nil
}

// BuildContactMessage renders the RFC 5322 message for a contact submission.
func BuildContactMessage(from, to string, msg *models.ContactMessage) []byte {
	purpose := purposeLabels[msg.Purpose]
	if purpose == "" {
		purpose = string(msg.Purpose)
	}

	subject := fmt.Sprintf("رسالة جديدة من %s (%s)", msg.Name, purpose)
	body := fmt.Sprintf(`وصلت رسالة جديدة عبر نموذج التواصل.

الاسم: %s
الجوال: %s
البريد: %s
الغرض: %s

%s
`, msg.Name, msg.Phone, msg.Email, purpose, msg.Message)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", sanitizeHeader(msg.Email))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", sanitizeHeader(subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(crlf.Replace(body))
	return []byte(b.String())
}

var crlf = strings.NewReplacer("\r\n", "\r\n", "\r", "\r\n", "\n", "\r\n")

// sanitizeHeader drops line breaks so user input cannot add headers.
func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

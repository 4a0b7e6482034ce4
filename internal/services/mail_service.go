package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/automeet/automeet/backend/internal/config"
	"github.com/automeet/automeet/backend/internal/logger"
)

// MailService sends transactional email over SMTP. It is disabled when
// mail settings are absent from the configuration.
type MailService struct {
	cfg config.Config
}

// NewMailService creates a new mail service instance.
func NewMailService(cfg config.Config) *MailService {
	return &MailService{cfg: cfg}
}

// IsConfigured returns true if SMTP is properly configured.
func (s *MailService) IsConfigured() bool {
	return s.cfg.MailEnabled()
}

// SendEmail sends an HTML email using the configured SMTP settings.
func (s *MailService) SendEmail(to, subject, htmlBody string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("mail not configured")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.MailFrom, s.cfg.MailFromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.cfg.MailHost, s.cfg.MailPort, s.cfg.MailUsername, s.cfg.MailPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

const inviteTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>You've been invited to {{.AppName}}</h2>
    <p>You've been invited to join a team on <strong>{{.AppName}}</strong>. Click the link below to accept:</p>
    <p><a href="{{.InviteURL}}">Accept Invitation</a></p>
    <p style="color: #666; font-size: 14px;">This invitation link will expire in 48 hours.</p>
    <p style="color: #666; font-size: 14px;">If you didn't expect this invitation, you can safely ignore this email.</p>
</body>
</html>
`

// SendInvite sends a team invitation email carrying the invite token.
func (s *MailService) SendInvite(email, inviteToken, baseURL string) error {
	inviteURL := fmt.Sprintf("%s/accept-invite?token=%s", strings.TrimSuffix(baseURL, "/"), inviteToken)

	t, err := template.New("invite").Parse(inviteTemplate)
	if err != nil {
		return fmt.Errorf("parse email template: %w", err)
	}

	var body bytes.Buffer
	data := map[string]string{
		"AppName":   s.cfg.AppName,
		"InviteURL": inviteURL,
	}
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("execute email template: %w", err)
	}

	subject := fmt.Sprintf("You've been invited to %s", s.cfg.AppName)

	logger.Log().WithField("email", email).Info("Sending invite email")
	return s.SendEmail(email, subject, body.String())
}

const codeTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>{{.AppName}} verification code</h2>
    <p>Use this code to continue:</p>
    <p style="font-size: 28px; letter-spacing: 6px;"><strong>{{.Code}}</strong></p>
    <p style="color: #666; font-size: 14px;">The code expires in 12 hours. If you didn't request it, ignore this email.</p>
</body>
</html>
`

// SendVerificationCode mails a one-time code to the user.
func (s *MailService) SendVerificationCode(email, code string) error {
	t, err := template.New("code").Parse(codeTemplate)
	if err != nil {
		return fmt.Errorf("parse email template: %w", err)
	}

	var body bytes.Buffer
	data := map[string]string{
		"AppName": s.cfg.AppName,
		"Code":    code,
	}
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("execute email template: %w", err)
	}

	subject := fmt.Sprintf("Your %s verification code", s.cfg.AppName)

	logger.Log().WithField("email", email).Info("Sending verification code email")
	return s.SendEmail(email, subject, body.String())
}

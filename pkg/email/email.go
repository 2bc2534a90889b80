package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
	AppName      string
}

// Sender is the subset of the mailer used by the services.
type Sender interface {
	SendVerificationCode(toEmail, name, code string) error
	SendPasswordResetEmail(toEmail, token string) error
	SendLowStockAlert(toEmail string, items []LowStockItem) error
}

// LowStockItem is one row of a low-stock alert.
type LowStockItem struct {
	Name   string
	Unit   string
	OnHand int64
}

// EmailService sends HTML mail over SMTP with gomail.
type EmailService struct {
	config EmailConfig
	dialer *gomail.Dialer
}

func NewEmailService(config EmailConfig) *EmailService {
	if config.AppName == "" {
		config.AppName = config.FromName
	}
	return &EmailService{
		config: config,
		dialer: gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword),
	}
}

// IsConfigured reports whether an SMTP host was provided.
func (s *EmailService) IsConfigured() bool {
	return s.config.SMTPHost != ""
}

func (s *EmailService) SendVerificationCode(toEmail, name, code string) error {
	body, err := render(verificationTemplate, map[string]string{
		"AppName": s.config.AppName,
		"Name":    name,
		"Code":    code,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.send(toEmail, "Verify your email - "+s.config.AppName, body)
}

func (s *EmailService) SendPasswordResetEmail(toEmail, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.config.FrontendURL,
		url.QueryEscape(token),
		url.QueryEscape(toEmail),
	)

	body, err := render(passwordResetTemplate, map[string]string{
		"AppName":  s.config.AppName,
		"Email":    toEmail,
		"ResetURL": resetURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.send(toEmail, "Reset your password - "+s.config.AppName, body)
}

func (s *EmailService) SendLowStockAlert(toEmail string, items []LowStockItem) error {
	if toEmail == "" || len(items) == 0 {
		return nil
	}
	body, err := render(lowStockTemplate, struct {
		AppName string
		Items   []LowStockItem
	}{s.config.AppName, items})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.send(toEmail, fmt.Sprintf("%d ingredients running low - %s", len(items), s.config.AppName), body)
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func render(tmpl string, data interface{}) (string, error) {
	t, err := template.New("mail").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const layoutHead = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"></head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Tahoma,sans-serif;background-color:#f4f7fa;">
<table role="presentation" style="max-width:600px;margin:40px auto;background:#ffffff;border-radius:12px;">
<tr><td style="background:#c2410c;padding:30px;text-align:center;"><h1 style="color:#ffffff;margin:0;">{{.AppName}}</h1></td></tr>
<tr><td style="padding:30px;color:#4a5568;font-size:16px;line-height:1.6;">`

const layoutFoot = `</td></tr>
<tr><td style="background:#f8fafc;padding:20px;text-align:center;color:#a0aec0;font-size:13px;">This email was sent by {{.AppName}}</td></tr>
</table>
</body>
</html>`

const verificationTemplate = layoutHead + `
<h2 style="color:#1a1a2e;">Verify your email</h2>
<p>Hello {{.Name}},</p>
<p>Use the code below to finish creating your account. It expires in <strong>15 minutes</strong>.</p>
<p style="font-size:32px;letter-spacing:8px;font-weight:700;text-align:center;color:#c2410c;">{{.Code}}</p>
<p style="font-size:14px;color:#718096;">If you did not sign up, ignore this email.</p>
` + layoutFoot

const passwordResetTemplate = layoutHead + `
<h2 style="color:#1a1a2e;">Reset your password</h2>
<p>We received a request to reset the password for <strong>{{.Email}}</strong>. The link expires in <strong>1 hour</strong>.</p>
<p style="text-align:center;"><a href="{{.ResetURL}}" style="display:inline-block;padding:14px 28px;background:#c2410c;color:#ffffff;text-decoration:none;border-radius:8px;">Reset Password</a></p>
<p style="font-size:14px;color:#718096;">If the button does not work, open this link: <a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
` + layoutFoot

const lowStockTemplate = layoutHead + `
<h2 style="color:#1a1a2e;">Low stock</h2>
<p>The following ingredients are at or below the reorder threshold:</p>
<table style="width:100%;border-collapse:collapse;">
<tr><th align="left">Ingredient</th><th align="right">On hand</th></tr>
{{range .Items}}<tr><td>{{.Name}}</td><td align="right">{{.OnHand}} {{.Unit}}</td></tr>
{{end}}</table>
` + layoutFoot

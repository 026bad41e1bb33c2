package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"go-jobmatch-backend/config"
)

// Mailer sends transactional email via SMTP. Implements domain.Mailer.
type Mailer struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
	}
}

// IsConfigured checks whether the mailer has usable SMTP settings.
func (m *Mailer) IsConfigured() bool {
	return m.host != "" && m.username != "" && m.password != ""
}

type shortlistData struct {
	CandidateName string
	JobTitle      string
	CompanyName   string
	Headline      string
	Body          string
	Footer        string
}

const shortlistTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Headline}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .highlight { background: white; padding: 15px; border-left: 4px solid #0066cc; margin-top: 10px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Headline}}</h1>
        </div>
        <div class="content">
            <p>{{.Body}}</p>
            <div class="highlight">
                <strong>{{.JobTitle}}</strong> — {{.CompanyName}}
            </div>
        </div>
        <div class="footer">
            <p>{{.Footer}}</p>
        </div>
    </div>
</body>
</html>`

const verificationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Verify your email</title>
</head>
<body>
    <p>Please confirm your email address by clicking the link below:</p>
    <p><a href="{{.VerifyURL}}">Verify email</a></p>
    <p>If you did not create an account, you can ignore this message.</p>
</body>
</html>`

// SendShortlistNotification tells a candidate they were shortlisted for a
// job. Subject and copy are picked by locale, defaulting to English.
func (m *Mailer) SendShortlistNotification(ctx context.Context, to, candidateName, jobTitle, companyName, locale string) error {
	data := shortlistData{
		CandidateName: candidateName,
		JobTitle:      jobTitle,
		CompanyName:   companyName,
	}

	var subject string
	switch locale {
	case "ar":
		subject = "تمت إضافتك إلى القائمة المختصرة"
		data.Headline = "أخبار جيدة!"
		data.Body = fmt.Sprintf("مرحباً %s، تمت إضافتك إلى القائمة المختصرة للوظيفة التالية:", candidateName)
		data.Footer = "سيتواصل معك صاحب العمل قريباً."
	default:
		subject = "You have been shortlisted"
		data.Headline = "Good news!"
		data.Body = fmt.Sprintf("Hi %s, you have been shortlisted for the following position:", candidateName)
		data.Footer = "The employer will be in touch with you soon."
	}

	body, err := render("shortlist", shortlistTemplate, data)
	if err != nil {
		return err
	}
	return m.send(ctx, to, subject, body)
}

// SendVerificationEmail sends the email-verification link.
func (m *Mailer) SendVerificationEmail(ctx context.Context, to, verifyURL string) error {
	body, err := render("verification", verificationTemplate, struct{ VerifyURL string }{verifyURL})
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Verify your email address", body)
}

func render(name, tmpl string, data interface{}) (string, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return buf.String(), nil
}

func (m *Mailer) send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.fromEmail, to, subject, html,
	))

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

package mail

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/clicom-leads/internal/config"
	"github.com/xavierca1/clicom-leads/internal/entity"
)

// Dialer is the part of *gomail.Dialer the notifier uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var leadTemplate = template.Must(template.New("lead").Parse(`New lead from the contact form
{{if .NewClient}}(new client){{else}}(returning client){{end}}

Client ID: {{.ClientID}}
Name:      {{.ContactName}}
Company:   {{.CompanyName}}
Email:     {{.Email}}
Phone:     {{.Phone}}
Received:  {{.SubmittedAt.Format "2006-01-02 15:04 MST"}}

Message:
{{.Message}}
`))

func NewStaffNotifier(dialer Dialer, to, from, fromName string) *StaffNotifier {
	return &StaffNotifier{
		dialer:   dialer,
		to:       to,
		from:     from,
		fromName: fromName,
	}
}

// NewStaffNotifierFromConfig dials the SMTP server configured in cfg.
func NewStaffNotifierFromConfig(cfg *config.Config) *StaffNotifier {
	d := gomail.NewDialer(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass)
	return NewStaffNotifier(d, cfg.NotificationEmail, cfg.FromEmail, cfg.FromName)
}

// NotifyLead renders and sends the summary. gomail has no context support, so
// cancellation only applies before dialing; the dispatcher bounds the rest.
func (s *StaffNotifier) NotifyLead(ctx context.Context, n entity.LeadNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.BuildMessage(n)
	if err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send lead email via SMTP: %w", err)
	}
	return nil
}

// BuildMessage renders the plain-text summary. Field values arrive
// HTML-escaped from the normalizer and are unescaped for a text/plain body.
func (s *StaffNotifier) BuildMessage(n entity.LeadNotification) (*gomail.Message, error) {
	data := LeadEmailData{
		ClientID:    n.ClientID,
		NewClient:   n.NewClient,
		ContactName: html.UnescapeString(n.ContactName),
		CompanyName: html.UnescapeString(n.CompanyName),
		Email:       html.UnescapeString(n.Email),
		Phone:       html.UnescapeString(n.Phone),
		Message:     html.UnescapeString(n.Message),
		SubmittedAt: n.SubmittedAt,
	}

	var body bytes.Buffer
	if err := leadTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render lead email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", s.to)
	m.SetHeader("Reply-To", data.Email)
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s", data.ContactName))
	m.SetBody("text/plain", body.String())
	return m, nil
}

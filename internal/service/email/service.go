package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/resend/resend-go/v3"

	"gameshelf/internal/config"
	"gameshelf/internal/domain"
	"gameshelf/internal/pkg/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

type Message struct {
	To             string
	RecipientName  string
	SubjectContext string
	Title          string
	Body           string
	Type           domain.NotificationType
}

// Sender delivers one notification email. Errors are the caller's to log.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type resendSender struct {
	client *resend.Client
	config *config.Config
	tmpl   *template.Template
}

type logSender struct {
	logger *slog.Logger
}

// NewSender sends through Resend only in production with an API key;
// everywhere else the message is logged.
func NewSender(cfg *config.Config, logger *slog.Logger) Sender {
	if !cfg.IsProduction() || cfg.ResendAPIKey == "" || cfg.EmailDryRun {
		return &logSender{logger: logger}
	}

	return &resendSender{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
		tmpl:   template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/notification.html")),
	}
}

func (s *resendSender) Send(ctx context.Context, msg Message) error {
	body, err := render(s.tmpl, msg, fmt.Sprintf("https://%s/settings/notifications", s.config.Domain))
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("GameShelf <%s>", s.config.FromEmail),
		To:      []string{msg.To},
		Html:    body,
		Subject: Subject(msg),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

func (s *logSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "email not sent outside production",
		slog.String("to", msg.To),
		slog.String("subject", Subject(msg)),
		slog.String("type", string(msg.Type)),
	)
	return nil
}

// Subject prefixes the title with the category label.
func Subject(msg Message) string {
	label := msg.SubjectContext
	if label == "" {
		label = i18n.Translate(i18n.DefaultLocale, string(msg.Type))
	}
	return fmt.Sprintf("[%s] %s", label, msg.Title)
}

func render(tmpl *template.Template, msg Message, settingsLink string) (string, error) {
	data := struct {
		Subject      string
		Label        string
		Name         string
		Title        string
		Body         string
		SettingsLink string
	}{
		Subject:      Subject(msg),
		Label:        i18n.Translate(i18n.DefaultLocale, string(msg.Type)),
		Name:         msg.RecipientName,
		Title:        msg.Title,
		Body:         msg.Body,
		SettingsLink: settingsLink,
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout", data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

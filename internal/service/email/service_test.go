package email

import (
	"context"
	"html/template"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameshelf/internal/config"
	"gameshelf/internal/domain"
)

func TestNewSender_NonProductionLogs(t *testing.T) {
	cfg := &config.Config{Environment: "development", ResendAPIKey: "re_test"}

	sender := NewSender(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, ok := sender.(*logSender)
	assert.True(t, ok)
	assert.NoError(t, sender.Send(context.Background(), Message{To: "a@example.com", Title: "X released"}))
}

func TestNewSender_ProductionWithoutKeyLogs(t *testing.T) {
	cfg := &config.Config{Environment: "production"}

	_, ok := NewSender(cfg, slog.Default()).(*logSender)
	assert.True(t, ok)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "[New release] Hades II released",
		Subject(Message{Type: domain.NotifRelease, Title: "Hades II released"}))
	assert.Equal(t, "[Wishlist] Back in stock",
		Subject(Message{Type: domain.NotifStatusChange, SubjectContext: "Wishlist", Title: "Back in stock"}))
}

func TestRender(t *testing.T) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/notification.html"))

	body, err := render(tmpl, Message{
		RecipientName: "Sam",
		Title:         "Hades II released",
		Body:          "It is out now <b>today</b>",
		Type:          domain.NotifRelease,
	}, "https://example.com/settings/notifications")

	require.NoError(t, err)
	assert.Contains(t, body, "Hi Sam,")
	assert.Contains(t, body, "Hades II released")
	assert.Contains(t, body, "&lt;b&gt;today&lt;/b&gt;")
	assert.Contains(t, body, "https://example.com/settings/notifications")
}

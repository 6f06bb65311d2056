package push

import (
	"context"
	"log/slog"

	"firebase.google.com/go/v4/messaging"
)

type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Result mirrors what the push provider reports. A false Success is a
// delivery failure, not a Go error.
type Result struct {
	Success   bool
	MessageID string
	Error     error
	// Unregistered is set when the provider says the token is gone for good.
	Unregistered bool
}

type Sender interface {
	Send(ctx context.Context, token string, msg Message) Result
}

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type fcmSender struct {
	client messagingClient
}

type logSender struct {
	logger *slog.Logger
}

// NewSender wraps an FCM client; a nil client yields a sender that only logs.
func NewSender(client *messaging.Client, logger *slog.Logger) Sender {
	if client == nil {
		return &logSender{logger: logger}
	}
	return &fcmSender{client: client}
}

func (s *fcmSender) Send(ctx context.Context, token string, msg Message) Result {
	id, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		return Result{
			Success:      false,
			Error:        err,
			Unregistered: messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err),
		}
	}
	return Result{Success: true, MessageID: id}
}

func (s *logSender) Send(ctx context.Context, token string, msg Message) Result {
	s.logger.InfoContext(ctx, "push not sent, FCM disabled",
		slog.String("title", msg.Title),
		slog.String("type", msg.Data["type"]),
	)
	return Result{Success: true}
}

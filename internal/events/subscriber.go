package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"

	"gameshelf/internal/domain"
)

const (
	queueGroup    = "gameshelf-notifications"
	handleTimeout = 10 * time.Second
)

var validate = validator.New()

// Emitter is the notification fan-out entry point.
type Emitter interface {
	Emit(ctx context.Context, input domain.EmitInput) ([]domain.Notification, error)
}

// Subscriber feeds domain events published by other services into the
// emitter. Messages are JSON encoded EmitInput values.
type Subscriber struct {
	nc      *nats.Conn
	subject string
	emitter Emitter
	logger  *slog.Logger
	sub     *nats.Subscription
}

func NewSubscriber(nc *nats.Conn, subject string, emitter Emitter, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{
		nc:      nc,
		subject: subject,
		emitter: emitter,
		logger:  logger,
	}
}

func (s *Subscriber) Start() error {
	sub, err := s.nc.QueueSubscribe(s.subject, queueGroup, s.onMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.subject, err)
	}
	s.sub = sub
	s.logger.Info("listening for notification events", slog.String("subject", s.subject))
	return nil
}

func (s *Subscriber) Stop() error {
	if s.sub == nil {
		return nil
	}
	return s.sub.Drain()
}

func (s *Subscriber) onMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if err := s.Handle(ctx, msg.Data); err != nil {
		s.logger.ErrorContext(ctx, "notification event rejected",
			slog.String("subject", msg.Subject),
			slog.Any("error", err),
		)
	}
}

// Handle decodes one event and emits it.
func (s *Subscriber) Handle(ctx context.Context, data []byte) error {
	var input domain.EmitInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	if !input.Type.IsValid() {
		return fmt.Errorf("unknown notification type %q", input.Type)
	}

	created, err := s.emitter.Emit(ctx, input)
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "notification event emitted",
		slog.String("type", string(input.Type)),
		slog.Int("targets", len(input.TargetUserIDs)),
		slog.Int("records", len(created)),
	)
	return nil
}

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"gameshelf/internal/domain"
	"gameshelf/internal/pkg/i18n"
	"gameshelf/internal/service/email"
	"gameshelf/internal/service/push"
)

type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type DeviceDirectory interface {
	LatestActiveToken(ctx context.Context, userID uuid.UUID) (string, error)
	Deactivate(ctx context.Context, token string) error
}

var errPushRejected = errors.New("push provider rejected the message")

// Dispatcher executes jobs against the email and push adapters. The recipient
// is looked up when the job runs, not when it was queued.
type Dispatcher struct {
	users   UserDirectory
	devices DeviceDirectory
	email   email.Sender
	push    push.Sender
	logger  *slog.Logger
}

func NewDispatcher(users UserDirectory, devices DeviceDirectory, emailSender email.Sender, pushSender push.Sender, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		users:   users,
		devices: devices,
		email:   emailSender,
		push:    pushSender,
		logger:  logger,
	}
}

func (d *Dispatcher) Execute(ctx context.Context, job domain.DispatchJob) domain.DispatchResult {
	result := domain.DispatchResult{Job: job}

	user, err := d.users.GetByID(ctx, job.UserID)
	if err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Errorf("lookup user: %w", err)
		return result
	}
	if user == nil {
		result.Outcome = domain.OutcomeUserMissing
		return result
	}

	switch job.Channel {
	case domain.ChannelEmail:
		return d.sendEmail(ctx, user, result)
	case domain.ChannelPush:
		return d.sendPush(ctx, user, result)
	default:
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Errorf("unsupported dispatch channel %q", job.Channel)
		return result
	}
}

func (d *Dispatcher) sendEmail(ctx context.Context, user *domain.User, result domain.DispatchResult) domain.DispatchResult {
	if user.Email == "" {
		result.Outcome = domain.OutcomeNoAddress
		return result
	}

	payload := result.Job.Payload
	err := d.email.Send(ctx, email.Message{
		To:             user.Email,
		RecipientName:  user.DisplayName,
		SubjectContext: i18n.Translate(i18n.DefaultLocale, string(payload.Type)),
		Title:          payload.Title,
		Body:           payload.Message,
		Type:           payload.Type,
	})
	if err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = err
		return result
	}

	result.Outcome = domain.OutcomeDelivered
	return result
}

func (d *Dispatcher) sendPush(ctx context.Context, user *domain.User, result domain.DispatchResult) domain.DispatchResult {
	token, err := d.devices.LatestActiveToken(ctx, user.ID)
	if err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Errorf("lookup device token: %w", err)
		return result
	}
	if token == "" {
		result.Outcome = domain.OutcomeNoAddress
		return result
	}

	payload := result.Job.Payload
	data := map[string]string{"type": string(payload.Type)}
	if payload.RelatedEntityID != nil {
		data["related_entity_id"] = payload.RelatedEntityID.String()
	}

	res := d.push.Send(ctx, token, push.Message{
		Title: payload.Title,
		Body:  payload.Message,
		Data:  data,
	})
	if !res.Success {
		if res.Unregistered {
			if err := d.devices.Deactivate(ctx, token); err != nil {
				d.logger.Warn("failed to deactivate device token", slog.Any("error", err))
			}
		}
		result.Outcome = domain.OutcomeFailed
		result.Err = res.Error
		if result.Err == nil {
			result.Err = errPushRejected
		}
		return result
	}

	result.Outcome = domain.OutcomeDelivered
	result.MessageID = res.MessageID
	return result
}

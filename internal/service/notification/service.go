package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"gameshelf/internal/domain"
	"gameshelf/internal/pkg/metrics"
	"gameshelf/internal/repository"
)

// unreadVersionTTL must stay longer than any unread count cache TTL.
const unreadVersionTTL = 24 * time.Hour

// Resolver yields the delivery policy for one user and type. A nil policy
// means the user is gone.
type Resolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, t domain.NotificationType) (domain.Policy, error)
}

// JobSubmitter accepts outbound jobs without blocking on delivery.
type JobSubmitter interface {
	Submit(job domain.DispatchJob)
}

type Service interface {
	Emit(ctx context.Context, input domain.EmitInput) ([]domain.Notification, error)

	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type service struct {
	notifRepo repository.NotificationRepository
	resolver  Resolver
	queue     JobSubmitter
	redis     *redis.Client
	cacheTTL  time.Duration
	logger    *slog.Logger
}

func NewService(
	notifRepo repository.NotificationRepository,
	resolver Resolver,
	queue JobSubmitter,
	redis *redis.Client,
	cacheTTL time.Duration,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &service{
		notifRepo: notifRepo,
		resolver:  resolver,
		queue:     queue,
		redis:     redis,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Emit fans one event out to every target user. Users are handled in order and
// a storage failure stops the fan-out; records and jobs produced before it stay.
func (s *service) Emit(ctx context.Context, input domain.EmitInput) ([]domain.Notification, error) {
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("unknown notification type %q", input.Type)
	}

	created := make([]domain.Notification, 0, len(input.TargetUserIDs))
	for _, userID := range input.TargetUserIDs {
		notif, err := s.emitTo(ctx, userID, input)
		if err != nil {
			return created, err
		}
		if notif != nil {
			created = append(created, *notif)
		}
	}
	return created, nil
}

func (s *service) emitTo(ctx context.Context, userID uuid.UUID, input domain.EmitInput) (*domain.Notification, error) {
	policy, err := s.resolver.Resolve(ctx, userID, input.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve preference for user %s: %w", userID, err)
	}
	if policy == nil {
		s.logger.DebugContext(ctx, "notification target not found", slog.String("user_id", userID.String()))
		return nil, nil
	}

	eff := policy.Effective()
	if eff.Suppressed() {
		return nil, nil
	}

	var notif *domain.Notification
	if eff.InApp {
		notif = &domain.Notification{
			ID:              uuid.New(),
			UserID:          userID,
			Type:            input.Type,
			RelatedEntityID: input.RelatedEntityID,
			Title:           input.Title,
			Message:         input.Message,
		}
		if err := s.notifRepo.Create(ctx, notif); err != nil {
			return nil, fmt.Errorf("failed to create notification for user %s: %w", userID, err)
		}
		metrics.NotificationsCreated.WithLabelValues(string(input.Type)).Inc()
		s.invalidateUnread(ctx, userID)
	}

	payload := domain.DispatchPayload{
		Type:            input.Type,
		Title:           input.Title,
		Message:         input.Message,
		RelatedEntityID: input.RelatedEntityID,
	}
	if eff.SendEmail() {
		s.queue.Submit(domain.DispatchJob{Channel: domain.ChannelEmail, UserID: userID, Payload: payload})
	}
	if eff.SendPush() {
		s.queue.Submit(domain.DispatchJob{Channel: domain.ChannelPush, UserID: userID, Payload: payload})
	}

	if eff.DigestDeferred() {
		metrics.DigestDeferred.WithLabelValues(string(input.Type), string(eff.Frequency)).Inc()
		s.logger.DebugContext(ctx, "outbound delivery deferred to digest",
			slog.String("user_id", userID.String()),
			slog.String("type", string(input.Type)),
			slog.String("frequency", string(eff.Frequency)),
		)
	}

	return notif, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	params.Validate()
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params, total), nil
}

func unreadCacheKey(userID uuid.UUID) string {
	return "notifications:unread:" + userID.String()
}

// unreadVersionKey is bumped on every write that changes the unread count. A
// reader watches it across the database read so a count computed before a
// concurrent write is never cached.
func unreadVersionKey(userID uuid.UUID) string {
	return "notifications:unread:" + userID.String() + ":version"
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.redis == nil {
		return s.notifRepo.CountUnread(ctx, userID)
	}

	cacheKey := unreadCacheKey(userID)
	if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
			return count, nil
		}
	}

	var (
		count    int64
		countErr error
	)
	err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
		count, countErr = s.notifRepo.CountUnread(ctx, userID)
		if countErr != nil {
			return countErr
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey, count, s.cacheTTL)
			return nil
		})
		return err
	}, unreadVersionKey(userID))

	if countErr != nil {
		return 0, countErr
	}
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		s.logger.WarnContext(ctx, "failed to cache unread count",
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
	}
	return count, nil
}

func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notifRepo.MarkAsRead(ctx, id, userID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	updated, err := s.notifRepo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.invalidateUnread(ctx, userID)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notifRepo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

func (s *service) invalidateUnread(ctx context.Context, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, unreadVersionKey(userID))
		pipe.Expire(ctx, unreadVersionKey(userID), unreadVersionTTL)
		pipe.Del(ctx, unreadCacheKey(userID))
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate unread count cache",
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
	}
}

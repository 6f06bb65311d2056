package preference

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"gameshelf/internal/domain"
	"gameshelf/internal/repository"
)

type Service interface {
	Resolve(ctx context.Context, userID uuid.UUID, t domain.NotificationType) (domain.Policy, error)

	List(ctx context.Context, userID uuid.UUID) ([]domain.NotificationPreference, error)
	Settings(ctx context.Context, userID uuid.UUID) (*domain.NotificationSettings, error)
	Update(ctx context.Context, userID uuid.UUID, t domain.NotificationType, input domain.UpdatePreferenceInput) (*domain.NotificationPreference, error)
	BulkUpdate(ctx context.Context, userID uuid.UUID, items []domain.BulkPreferenceItem) []domain.NotificationPreference
	UpdateMasterToggles(ctx context.Context, userID uuid.UUID, input domain.UpdateMasterTogglesInput) (*domain.MasterToggles, error)
}

type service struct {
	prefRepo repository.PreferenceRepository
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewService(prefRepo repository.PreferenceRepository, userRepo repository.UserRepository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		prefRepo: prefRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Resolve returns the explicit row for (user, type) when it exists and the
// user's master toggles otherwise. A nil policy with a nil error means the
// user does not exist or was deleted, even if preference rows remain.
func (s *service) Resolve(ctx context.Context, userID uuid.UUID, t domain.NotificationType) (domain.Policy, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	pref, err := s.prefRepo.GetByUserAndType(ctx, userID, t)
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	return domain.ResolvePolicy(pref, user.MasterToggles()), nil
}

// List seeds a default row for every type the user has not stored yet, so the
// result always covers the full set of types.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]domain.NotificationPreference, error) {
	prefs, err := s.prefRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing := make(map[domain.NotificationType]bool, len(prefs))
	for _, p := range prefs {
		existing[p.Type] = true
	}

	var missing []domain.NotificationPreference
	for _, t := range domain.AllNotificationTypes() {
		if !existing[t] {
			missing = append(missing, *domain.DefaultPreference(userID, t))
		}
	}
	if len(missing) == 0 {
		return prefs, nil
	}

	if err := s.prefRepo.CreateMissing(ctx, missing); err != nil {
		return nil, err
	}
	return s.prefRepo.ListByUser(ctx, userID)
}

func (s *service) Settings(ctx context.Context, userID uuid.UUID) (*domain.NotificationSettings, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, repository.ErrNotFound
	}

	prefs, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.NotificationSettings{
		Master:      user.MasterToggles(),
		Preferences: prefs,
	}, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, t domain.NotificationType, input domain.UpdatePreferenceInput) (*domain.NotificationPreference, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("unknown notification type %q", t)
	}
	if input.Frequency != nil && !input.Frequency.IsValid() {
		return nil, fmt.Errorf("unknown frequency %q", *input.Frequency)
	}

	pref, err := s.prefRepo.GetByUserAndType(ctx, userID, t)
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	if pref == nil {
		pref = domain.DefaultPreference(userID, t)
	}

	pref.Apply(input)

	if err := s.prefRepo.Upsert(ctx, pref); err != nil {
		return nil, fmt.Errorf("failed to save preference: %w", err)
	}
	return pref, nil
}

// BulkUpdate applies each item independently and returns the ones that were
// saved. It is not transactional.
func (s *service) BulkUpdate(ctx context.Context, userID uuid.UUID, items []domain.BulkPreferenceItem) []domain.NotificationPreference {
	updated := make([]domain.NotificationPreference, 0, len(items))
	for _, item := range items {
		pref, err := s.Update(ctx, userID, item.Type, item.UpdatePreferenceInput)
		if err != nil {
			s.logger.WarnContext(ctx, "bulk preference item skipped",
				slog.String("user_id", userID.String()),
				slog.String("type", string(item.Type)),
				slog.Any("error", err),
			)
			continue
		}
		updated = append(updated, *pref)
	}
	return updated
}

func (s *service) UpdateMasterToggles(ctx context.Context, userID uuid.UUID, input domain.UpdateMasterTogglesInput) (*domain.MasterToggles, error) {
	return s.userRepo.UpdateMasterToggles(ctx, userID, input)
}

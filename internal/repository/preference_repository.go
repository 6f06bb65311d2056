package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gameshelf/internal/domain"
)

type PreferenceRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.NotificationPreference, error)
	GetByUserAndType(ctx context.Context, userID uuid.UUID, t domain.NotificationType) (*domain.NotificationPreference, error)
	CreateMissing(ctx context.Context, prefs []domain.NotificationPreference) error
	Upsert(ctx context.Context, pref *domain.NotificationPreference) error
}

type preferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

const preferenceColumns = `preference_id, user_id, notification_type, in_app, email, push, frequency, created_at, updated_at`

func (r *preferenceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.NotificationPreference, error) {
	prefs := []domain.NotificationPreference{}
	query := `SELECT ` + preferenceColumns + ` FROM notification_preferences WHERE user_id = $1 ORDER BY notification_type`
	if err := r.db.SelectContext(ctx, &prefs, query, userID); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return prefs, nil
}

func (r *preferenceRepository) GetByUserAndType(ctx context.Context, userID uuid.UUID, t domain.NotificationType) (*domain.NotificationPreference, error) {
	var pref domain.NotificationPreference
	query := `SELECT ` + preferenceColumns + ` FROM notification_preferences WHERE user_id = $1 AND notification_type = $2`

	err := r.db.GetContext(ctx, &pref, query, userID, t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// CreateMissing inserts the given rows, leaving any (user, type) pair that
// already exists untouched.
func (r *preferenceRepository) CreateMissing(ctx context.Context, prefs []domain.NotificationPreference) error {
	if len(prefs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed preferences: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO notification_preferences (preference_id, user_id, notification_type, in_app, email, push, frequency)
		VALUES (:preference_id, :user_id, :notification_type, :in_app, :email, :push, :frequency)
		ON CONFLICT (user_id, notification_type) DO NOTHING`

	for i := range prefs {
		if _, err := tx.NamedExecContext(ctx, query, &prefs[i]); err != nil {
			return fmt.Errorf("seed preference %s: %w", prefs[i].Type, err)
		}
	}
	return tx.Commit()
}

func (r *preferenceRepository) Upsert(ctx context.Context, pref *domain.NotificationPreference) error {
	query := `
		INSERT INTO notification_preferences (preference_id, user_id, notification_type, in_app, email, push, frequency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, notification_type) DO UPDATE
		SET in_app = EXCLUDED.in_app, email = EXCLUDED.email, push = EXCLUDED.push,
			frequency = EXCLUDED.frequency, updated_at = NOW()
		RETURNING preference_id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		pref.ID, pref.UserID, pref.Type, pref.InApp, pref.Email, pref.Push, pref.Frequency,
	).Scan(&pref.ID, &pref.CreatedAt, &pref.UpdatedAt)
}

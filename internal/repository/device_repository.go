package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gameshelf/internal/domain"
)

type DeviceRepository interface {
	Register(ctx context.Context, device *domain.Device) error
	LatestActiveToken(ctx context.Context, userID uuid.UUID) (string, error)
	Deactivate(ctx context.Context, token string) error
	Delete(ctx context.Context, token string, userID uuid.UUID) error
}

type deviceRepository struct {
	db *sqlx.DB
}

func NewDeviceRepository(db *sqlx.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

// Register claims the token for the user; a token moving between accounts
// follows the latest login.
func (r *deviceRepository) Register(ctx context.Context, device *domain.Device) error {
	query := `
		INSERT INTO user_devices (device_token, user_id, platform, is_active)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (device_token) DO UPDATE
		SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform, is_active = true, last_seen_at = NOW()
		RETURNING is_active, registered_at, last_seen_at`

	return r.db.QueryRowxContext(ctx, query, device.Token, device.UserID, device.Platform).
		Scan(&device.IsActive, &device.RegisteredAt, &device.LastSeenAt)
}

// LatestActiveToken returns "" when the user has no usable device.
func (r *deviceRepository) LatestActiveToken(ctx context.Context, userID uuid.UUID) (string, error) {
	var token string
	query := `
		SELECT device_token FROM user_devices
		WHERE user_id = $1 AND is_active = true
		ORDER BY last_seen_at DESC
		LIMIT 1`

	err := r.db.GetContext(ctx, &token, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return token, err
}

func (r *deviceRepository) Deactivate(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE user_devices SET is_active = false WHERE device_token = $1`, token)
	return err
}

func (r *deviceRepository) Delete(ctx context.Context, token string, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_devices WHERE device_token = $1 AND user_id = $2`, token, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gameshelf/internal/domain"
)

// UserRepository is the read side of the user directory plus the master
// toggle update. Account lifecycle lives elsewhere.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateMasterToggles(ctx context.Context, id uuid.UUID, input domain.UpdateMasterTogglesInput) (*domain.MasterToggles, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID returns nil without an error for unknown or deleted users.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `
		SELECT user_id, email, display_name, notify_in_app, notify_email, notify_push, created_at, updated_at, deleted_at
		FROM users WHERE user_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateMasterToggles(ctx context.Context, id uuid.UUID, input domain.UpdateMasterTogglesInput) (*domain.MasterToggles, error) {
	query := `
		UPDATE users
		SET notify_in_app = COALESCE($2, notify_in_app),
			notify_email = COALESCE($3, notify_email),
			notify_push = COALESCE($4, notify_push),
			updated_at = NOW()
		WHERE user_id = $1 AND deleted_at IS NULL
		RETURNING notify_in_app, notify_email, notify_push`

	var toggles domain.MasterToggles
	err := r.db.QueryRowxContext(ctx, query, id, input.InApp, input.Email, input.Push).StructScan(&toggles)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &toggles, nil
}

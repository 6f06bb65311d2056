package domain

import (
	"time"

	"github.com/google/uuid"
)

type DevicePlatform string

const (
	PlatformIOS     DevicePlatform = "ios"
	PlatformAndroid DevicePlatform = "android"
	PlatformWeb     DevicePlatform = "web"
)

type Device struct {
	Token        string         `json:"token" db:"device_token"`
	UserID       uuid.UUID      `json:"user_id" db:"user_id"`
	Platform     DevicePlatform `json:"platform" db:"platform"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	RegisteredAt time.Time      `json:"registered_at" db:"registered_at"`
	LastSeenAt   time.Time      `json:"last_seen_at" db:"last_seen_at"`
}

type RegisterDeviceInput struct {
	Token    string         `json:"token" validate:"required,max=512"`
	Platform DevicePlatform `json:"platform" validate:"required,oneof=ios android web"`
}

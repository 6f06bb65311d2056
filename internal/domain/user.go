package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the directory view the notification subsystem needs: identity for
// addressing and the master channel toggles.
type User struct {
	ID          uuid.UUID  `json:"id" db:"user_id"`
	Email       string     `json:"email" db:"email"`
	DisplayName string     `json:"display_name" db:"display_name"`
	NotifyInApp bool       `json:"notify_in_app" db:"notify_in_app"`
	NotifyEmail bool       `json:"notify_email" db:"notify_email"`
	NotifyPush  bool       `json:"notify_push" db:"notify_push"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
}

func (u *User) MasterToggles() MasterToggles {
	return MasterToggles{
		InApp: u.NotifyInApp,
		Email: u.NotifyEmail,
		Push:  u.NotifyPush,
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID              uuid.UUID        `json:"id" db:"notification_id"`
	UserID          uuid.UUID        `json:"user_id" db:"user_id"`
	Type            NotificationType `json:"type" db:"type"`
	RelatedEntityID *uuid.UUID       `json:"related_entity_id,omitempty" db:"related_entity_id"`
	Title           string           `json:"title" db:"title"`
	Message         string           `json:"message" db:"message"`
	IsRead          bool             `json:"is_read" db:"is_read"`
	ReadAt          *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifRelease      NotificationType = "release"
	NotifRerelease    NotificationType = "rerelease"
	NotifUpdate       NotificationType = "update"
	NotifGOTY         NotificationType = "goty"
	NotifReviewLike   NotificationType = "review_like"
	NotifStatusChange NotificationType = "status_change"
	NotifMilestone    NotificationType = "milestone"
)

var notificationTypes = []NotificationType{
	NotifRelease,
	NotifRerelease,
	NotifUpdate,
	NotifGOTY,
	NotifReviewLike,
	NotifStatusChange,
	NotifMilestone,
}

// AllNotificationTypes returns every known type in a stable order.
func AllNotificationTypes() []NotificationType {
	types := make([]NotificationType, len(notificationTypes))
	copy(types, notificationTypes)
	return types
}

func (t NotificationType) IsValid() bool {
	switch t {
	case NotifRelease, NotifRerelease, NotifUpdate, NotifGOTY,
		NotifReviewLike, NotifStatusChange, NotifMilestone:
		return true
	}
	return false
}

// EmitInput describes one domain event fanned out to a list of users.
type EmitInput struct {
	Type            NotificationType `json:"type" validate:"required"`
	Title           string           `json:"title" validate:"required,max=200"`
	Message         string           `json:"message" validate:"max=2000"`
	RelatedEntityID *uuid.UUID       `json:"related_entity_id,omitempty"`
	TargetUserIDs   []uuid.UUID      `json:"target_user_ids" validate:"required,min=1"`
}

type UnreadCount struct {
	Count int64 `json:"count"`
}

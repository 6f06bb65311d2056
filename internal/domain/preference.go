package domain

import (
	"time"

	"github.com/google/uuid"
)

type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
)

type Frequency string

const (
	FrequencyRealtime     Frequency = "realtime"
	FrequencyDailyDigest  Frequency = "daily_digest"
	FrequencyWeeklyDigest Frequency = "weekly_digest"
	FrequencyNone         Frequency = "none"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyRealtime, FrequencyDailyDigest, FrequencyWeeklyDigest, FrequencyNone:
		return true
	}
	return false
}

func (f Frequency) IsDigest() bool {
	return f == FrequencyDailyDigest || f == FrequencyWeeklyDigest
}

type NotificationPreference struct {
	ID        uuid.UUID        `json:"id" db:"preference_id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"notification_type" db:"notification_type"`
	InApp     bool             `json:"in_app" db:"in_app"`
	Email     bool             `json:"email" db:"email"`
	Push      bool             `json:"push" db:"push"`
	Frequency Frequency        `json:"frequency" db:"frequency"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// DefaultPreference is the row seeded for a type the user never customized.
func DefaultPreference(userID uuid.UUID, t NotificationType) *NotificationPreference {
	return &NotificationPreference{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      t,
		InApp:     true,
		Email:     true,
		Push:      true,
		Frequency: FrequencyRealtime,
	}
}

type UpdatePreferenceInput struct {
	InApp     *bool      `json:"in_app,omitempty"`
	Email     *bool      `json:"email,omitempty"`
	Push      *bool      `json:"push,omitempty"`
	Frequency *Frequency `json:"frequency,omitempty" validate:"omitempty,oneof=realtime daily_digest weekly_digest none"`
}

// Apply copies only the fields present in the input.
func (p *NotificationPreference) Apply(input UpdatePreferenceInput) {
	if input.InApp != nil {
		p.InApp = *input.InApp
	}
	if input.Email != nil {
		p.Email = *input.Email
	}
	if input.Push != nil {
		p.Push = *input.Push
	}
	if input.Frequency != nil {
		p.Frequency = *input.Frequency
	}
}

type BulkPreferenceItem struct {
	Type NotificationType `json:"notification_type" validate:"required"`
	UpdatePreferenceInput
}

type BulkUpdatePreferencesInput struct {
	Preferences []BulkPreferenceItem `json:"preferences" validate:"required,dive"`
}

type MasterToggles struct {
	InApp bool `json:"in_app" db:"notify_in_app"`
	Email bool `json:"email" db:"notify_email"`
	Push  bool `json:"push" db:"notify_push"`
}

type UpdateMasterTogglesInput struct {
	InApp *bool `json:"in_app,omitempty"`
	Email *bool `json:"email,omitempty"`
	Push  *bool `json:"push,omitempty"`
}

type NotificationSettings struct {
	Master      MasterToggles            `json:"master"`
	Preferences []NotificationPreference `json:"preferences"`
}

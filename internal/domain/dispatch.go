package domain

import "github.com/google/uuid"

// MaxDeliveryAttempts is the number of times a dispatch job is tried. Delivery
// is best effort: a failed job is logged and dropped, never retried.
const MaxDeliveryAttempts = 1

type DispatchPayload struct {
	Type            NotificationType `json:"type"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	RelatedEntityID *uuid.UUID       `json:"related_entity_id,omitempty"`
}

// DispatchJob is one outbound send for one user on one channel. It only lives
// in memory.
type DispatchJob struct {
	Channel Channel
	UserID  uuid.UUID
	Payload DispatchPayload
}

type DispatchOutcome string

const (
	OutcomeDelivered   DispatchOutcome = "delivered"
	OutcomeUserMissing DispatchOutcome = "user_missing"
	OutcomeNoAddress   DispatchOutcome = "no_address"
	OutcomeFailed      DispatchOutcome = "failed"
)

type DispatchResult struct {
	Job       DispatchJob
	Outcome   DispatchOutcome
	MessageID string
	Err       error
}

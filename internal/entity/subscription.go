package entity

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses that grant access to the search pipeline.
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
)

// Subscription ties a user to a billing plan.
type Subscription struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	PlanType  string     `json:"plan_type"`
	Status    string     `json:"status"`
	TrialEnd  *time.Time `json:"trial_end,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

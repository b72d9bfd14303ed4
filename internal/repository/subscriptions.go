package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoActiveSubscription indicates the user has no active or trialing plan.
var ErrNoActiveSubscription = errors.New("no active subscription found")

// SubscriptionsRepository resolves a user's plan tier.
type SubscriptionsRepository interface {
	ActivePlan(ctx context.Context, userID uuid.UUID) (string, error)
	Create(ctx context.Context, userID uuid.UUID, planType, status string, trialEnd time.Time) error
}

// PGXSubscriptionsRepository implements SubscriptionsRepository with pgx.
type PGXSubscriptionsRepository struct {
	pool pgxPool
}

// NewPGXSubscriptionsRepository instantiates a subscriptions repository.
func NewPGXSubscriptionsRepository(pool *pgxpool.Pool) *PGXSubscriptionsRepository {
	return &PGXSubscriptionsRepository{pool: pool}
}

// ActivePlan returns the plan tier of the newest active or trialing subscription.
func (r *PGXSubscriptionsRepository) ActivePlan(ctx context.Context, userID uuid.UUID) (string, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT plan_type FROM subscriptions
        WHERE user_id = $1 AND status IN ('active', 'trialing')
        ORDER BY created_at DESC
        LIMIT 1
    `, userID)

	var plan string
	if err := row.Scan(&plan); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNoActiveSubscription
		}
		return "", fmt.Errorf("query active subscription: %w", err)
	}

	return plan, nil
}

// Create inserts a subscription row for the user.
func (r *PGXSubscriptionsRepository) Create(ctx context.Context, userID uuid.UUID, planType, status string, trialEnd time.Time) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO subscriptions (user_id, plan_type, status, trial_end, current_period_start, current_period_end)
        VALUES ($1, $2, $3, $4, NOW(), $4)
    `, userID, planType, status, trialEnd)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

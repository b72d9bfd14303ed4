package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/leadscope/opportunity-finder/api/internal/config"
	"github.com/leadscope/opportunity-finder/api/internal/repository"
)

// defaultMonthlyLimit applies when a plan tier is missing from the allowance
// table, so an unknown tier never gets a free pass.
const defaultMonthlyLimit = 100

// QuotaGuard decides whether a user may run another search this month. It must
// run, and fail closed, before any paid upstream call.
type QuotaGuard struct {
	subscriptions repository.SubscriptionsRepository
	searches      repository.SearchesRepository
	allowances    map[string]int
}

// NewQuotaGuard wires a guard over the persistence collaborators.
func NewQuotaGuard(subscriptions repository.SubscriptionsRepository, searches repository.SearchesRepository, allowances map[string]int) *QuotaGuard {
	return &QuotaGuard{
		subscriptions: subscriptions,
		searches:      searches,
		allowances:    allowances,
	}
}

// Ensure verifies that usage + units fits within the user's monthly allowance.
// Unlimited tiers pass without counting. Two requests racing at the exact
// monthly boundary may both pass; that tolerance is accepted rather than
// serialized with a lock.
func (g *QuotaGuard) Ensure(ctx context.Context, userID uuid.UUID, units int) error {
	plan, err := g.subscriptions.ActivePlan(ctx, userID)
	if err != nil {
		return err
	}

	limit, ok := g.allowances[plan]
	if !ok {
		limit = defaultMonthlyLimit
	}
	if limit == config.Unlimited {
		return nil
	}

	used, err := g.searches.CountMonthToDate(ctx, userID)
	if err != nil {
		return fmt.Errorf("count current usage: %w", err)
	}

	if used+units > limit {
		return &QuotaExceededError{Used: used, Limit: limit}
	}

	return nil
}

// Package scoring derives an opportunity score from a business's digital
// presence. A high score means the business is missing the basics (website,
// phone, reviews, photos, hours) and is a strong lead for presence services.
package scoring

import "math/rand"

// Score bounds and tier thresholds. Tiers are derived from the clamped score
// everywhere; no caller applies its own cutoffs.
const (
	MinScore = 25
	MaxScore = 95

	highThreshold   = 70
	mediumThreshold = 50

	baseScore = 30

	noWebsitePoints      = 25
	noPhonePoints        = 18
	lowRatingPoints      = 15
	fewReviewsPoints     = 18
	fewPhotosPoints      = 10
	noHoursPoints        = 10
	notOperationalPoints = 20

	lowRatingCutoff  = 3.5
	fewReviewsCutoff = 15
	fewPhotosCutoff  = 3
)

// StatusOperational is the provider's value for a business that is open.
const StatusOperational = "OPERATIONAL"

// Tier labels.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// Signals are the normalized attributes the score is computed from.
type Signals struct {
	HasWebsite     bool
	HasPhone       bool
	Rating         float64 // missing rating is 0 and counts as below cutoff
	Reviews        int
	PhotosCount    int
	HasHours       bool
	BusinessStatus string
}

// Scorer computes scores. The zero value is fully deterministic.
type Scorer struct {
	jitter *rand.Rand
	spread int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithJitter adds a small seeded random offset of ±spread points before
// clamping. Off by default; exists only for callers that explicitly want
// non-identical scores for identical inputs, and must never be enabled in
// tests that assert exact values.
func WithJitter(seed int64, spread int) Option {
	return func(s *Scorer) {
		if spread > 0 {
			s.jitter = rand.New(rand.NewSource(seed))
			s.spread = spread
		}
	}
}

// New builds a Scorer.
func New(opts ...Option) *Scorer {
	s := &Scorer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the clamped opportunity score for the given signals.
func (s *Scorer) Score(in Signals) int {
	score := baseScore

	if !in.HasWebsite {
		score += noWebsitePoints
	}
	if !in.HasPhone {
		score += noPhonePoints
	}
	if in.Rating < lowRatingCutoff {
		score += lowRatingPoints
	}
	if in.Reviews < fewReviewsCutoff {
		score += fewReviewsPoints
	}
	if in.PhotosCount < fewPhotosCutoff {
		score += fewPhotosPoints
	}
	if !in.HasHours {
		score += noHoursPoints
	}
	if in.BusinessStatus != StatusOperational {
		score += notOperationalPoints
	}

	if s.jitter != nil {
		score += s.jitter.Intn(2*s.spread+1) - s.spread
	}

	return clamp(score)
}

// Tier maps a score to its opportunity tier.
func Tier(score int) string {
	switch {
	case score > highThreshold:
		return TierHigh
	case score > mediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scoring

import (
	"math"
	"time"

	"github.com/hivemind-ai/intelligence/internal/database"
)

// Quality tier labels
const (
	TierExcellent        = "Excellent"
	TierGood             = "Good"
	TierFair             = "Fair"
	TierNeedsImprovement = "Needs Improvement"
)

// Params holds the quality and trust scoring weights. The six quality
// weights must sum to 1; config validation enforces that.
type Params struct {
	SuccessWeight  float64
	UsageWeight    float64
	UpvoteWeight   float64
	VerifiedWeight float64
	AgeWeight      float64
	RecencyWeight  float64

	UsageCap  int // saturation point for usage normalization
	UpvoteCap int // saturation point for upvote normalization

	AgeThresholdDays int // entries older than this qualify for the age bonus
	SustainedUsage   int // minimum usage for the age bonus
	RecentWindowDays int // usage inside this window earns the recency bonus

	TrustConfidenceCap int // usage count at which trust confidence saturates
}

// DefaultParams returns the production scoring weights
func DefaultParams() Params {
	return Params{
		SuccessWeight:      0.40,
		UsageWeight:        0.20,
		UpvoteWeight:       0.20,
		VerifiedWeight:     0.10,
		AgeWeight:          0.05,
		RecencyWeight:      0.05,
		UsageCap:           100,
		UpvoteCap:          50,
		AgeThresholdDays:   30,
		SustainedUsage:     10,
		RecentWindowDays:   7,
		TrustConfidenceCap: 20,
	}
}

// Scorer computes quality and trust scores for knowledge entries. It is
// stateless; every method is a pure function of the entry and the snapshot
// time passed in.
type Scorer struct {
	params Params
}

// NewScorer creates a scorer with the given parameters
func NewScorer(params Params) *Scorer {
	return &Scorer{params: params}
}

// Quality computes the composite quality score in [0,1]. A nil success
// rate degrades to 0 for that component; it never aborts the composite.
func (s *Scorer) Quality(entry *database.HiveKnowledgeEntry, now time.Time) float64 {
	p := s.params

	score := p.SuccessWeight * successRate(entry)
	score += p.UsageWeight * Saturate(entry.UsageCount, p.UsageCap)
	score += p.UpvoteWeight * Saturate(entry.Upvotes, p.UpvoteCap)

	if entry.Verified {
		score += p.VerifiedWeight
	}

	// Age bonus: entries that stayed in use past the threshold
	ageDays := now.Sub(entry.CreatedAt).Hours() / 24
	if ageDays >= float64(p.AgeThresholdDays) && entry.UsageCount >= p.SustainedUsage {
		score += p.AgeWeight
	}

	// Recency bonus: used within the recent window
	if entry.LastUsedAt != nil && now.Sub(*entry.LastUsedAt) <= time.Duration(p.RecentWindowDays)*24*time.Hour {
		score += p.RecencyWeight
	}

	return clamp01(score)
}

// Trust emphasizes verification and consistency over raw popularity. The
// usage-based confidence factor keeps a single lucky success from
// outranking a long record: one use at 100% lands well below fifty uses
// at 90%.
func (s *Scorer) Trust(entry *database.HiveKnowledgeEntry) float64 {
	success := successRate(entry)
	if success == 0 {
		return 0
	}

	verifiedFactor := 0.6
	if entry.Verified {
		verifiedFactor = 1.0
	}

	confidence := Saturate(entry.UsageCount, s.params.TrustConfidenceCap)
	return clamp01(success * verifiedFactor * (0.25 + 0.75*confidence))
}

// Tier maps a quality score onto its label
func Tier(score float64) string {
	switch {
	case score >= 0.8:
		return TierExcellent
	case score >= 0.6:
		return TierGood
	case score >= 0.4:
		return TierFair
	default:
		return TierNeedsImprovement
	}
}

// Saturate normalizes a count into [0,1] with logarithmic saturation:
// min(1, log(1+n)/log(1+cap)). A non-positive cap yields the floor value 0
// rather than dividing by zero.
func Saturate(n, cap int) float64 {
	if n <= 0 {
		return 0
	}
	if cap <= 0 {
		return 0
	}
	v := math.Log(1+float64(n)) / math.Log(1+float64(cap))
	if v > 1 {
		return 1
	}
	return v
}

// successRate returns the entry's success rate, or 0 when unreported
func successRate(entry *database.HiveKnowledgeEntry) float64 {
	if entry.SuccessRate == nil {
		return 0
	}
	return clamp01(*entry.SuccessRate)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

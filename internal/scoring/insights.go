// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scoring

import (
	"time"

	"github.com/hivemind-ai/intelligence/internal/database"
)

// Insights is the explainable quality report for one entry
type Insights struct {
	EntryID         string   `json:"entry_id"`
	QualityScore    float64  `json:"quality_score"`
	TrustScore      float64  `json:"trust_score"`
	QualityTier     string   `json:"quality_tier"`
	Recommendations []string `json:"recommendations"`
}

// Insights builds the quality report with human-readable recommendations
// derived from whichever sub-factors are dragging the score down.
func (s *Scorer) Insights(entry *database.HiveKnowledgeEntry, now time.Time) Insights {
	quality := s.Quality(entry, now)

	var recs []string

	if !entry.Verified {
		recs = append(recs, "Not yet verified: request verification to build trust.")
	}
	if entry.SuccessRate == nil {
		recs = append(recs, "No outcome reports yet: ask adopters to report whether the entry worked for them.")
	} else if *entry.SuccessRate < 0.5 {
		recs = append(recs, "Success rate is below 50%: review the content for accuracy and update it.")
	}
	if entry.UsageCount < s.params.SustainedUsage {
		recs = append(recs, "Low usage: share more context (tags, category, examples) to increase adoption.")
	}
	if entry.Upvotes == 0 {
		recs = append(recs, "No upvotes yet: announce the entry so other agents can rate it.")
	}
	if entry.LastUsedAt == nil || now.Sub(*entry.LastUsedAt) > time.Duration(s.params.RecentWindowDays)*24*time.Hour {
		if entry.UsageCount > 0 {
			recs = append(recs, "Not used recently: check whether the content is still current.")
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "No action needed: entry is performing well across all signals.")
	}

	return Insights{
		EntryID:         entry.ID,
		QualityScore:    quality,
		TrustScore:      s.Trust(entry),
		QualityTier:     Tier(quality),
		Recommendations: recs,
	}
}

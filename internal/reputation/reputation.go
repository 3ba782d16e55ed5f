// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reputation

import (
	"time"

	"github.com/hivemind-ai/intelligence/internal/database"
	"github.com/hivemind-ai/intelligence/internal/scoring"
)

// Reputation tier labels
const (
	ReputationLegendary = "Legendary"
	ReputationExpert    = "Expert"
	ReputationTrusted   = "Trusted"
	ReputationActive    = "Active"
	ReputationNew       = "New"
)

// Breakdown keys for reputation sub-scores
const (
	FactorKnowledgeQuality = "knowledge_quality"
	FactorProblemSolving   = "problem_solving"
	FactorCollaboration    = "collaboration"
	FactorDecisionQuality  = "decision_quality"
	FactorConsistency      = "consistency"
)

// Params holds the reputation and impact component weights. Each group
// must sum to 1; config validation enforces that.
type Params struct {
	// Reputation weights
	KnowledgeQualityWeight float64
	ProblemSolvingWeight   float64
	CollaborationWeight    float64
	DecisionQualityWeight  float64
	ConsistencyWeight      float64

	// Impact weights
	KnowledgeImpactWeight     float64
	ProblemImpactWeight       float64
	SolutionImpactWeight      float64
	QualityImpactWeight       float64
	CollaborationImpactWeight float64
}

// DefaultParams returns the production weights
func DefaultParams() Params {
	return Params{
		KnowledgeQualityWeight: 0.30,
		ProblemSolvingWeight:   0.25,
		CollaborationWeight:    0.20,
		DecisionQualityWeight:  0.15,
		ConsistencyWeight:      0.10,

		KnowledgeImpactWeight:     0.30,
		ProblemImpactWeight:       0.25,
		SolutionImpactWeight:      0.20,
		QualityImpactWeight:       0.15,
		CollaborationImpactWeight: 0.10,
	}
}

// Score is a composite agent score with its tier and weighted sub-scores
type Score struct {
	AgentID   string             `json:"agent_id"`
	Composite float64            `json:"score"`
	Tier      string             `json:"tier"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}

// Calculator computes agent reputation and impact. Stateless; every
// method is a pure function of the snapshot data passed in.
type Calculator struct {
	params Params
}

// NewCalculator creates a calculator with the given weights
func NewCalculator(params Params) *Calculator {
	return &Calculator{params: params}
}

// Reputation computes an agent's composite reputation. The composite is a
// weighted sum of the five sub-scores, so it is monotone non-decreasing in
// each sub-score with the others held fixed. An agent with no activity at
// all scores 0 and lands in the New tier.
func (c *Calculator) Reputation(agent *database.HiveAgent, activity *database.HiveActivityRecord, authored []database.HiveKnowledgeEntry, qualities map[string]float64, now time.Time) Score {
	p := c.params

	breakdown := map[string]float64{
		FactorKnowledgeQuality: knowledgeQuality(authored, qualities),
		FactorProblemSolving:   problemSolving(activity),
		FactorCollaboration:    collaboration(activity),
		FactorDecisionQuality:  decisionQuality(activity),
		FactorConsistency:      consistency(agent, now),
	}

	composite := p.KnowledgeQualityWeight*breakdown[FactorKnowledgeQuality] +
		p.ProblemSolvingWeight*breakdown[FactorProblemSolving] +
		p.CollaborationWeight*breakdown[FactorCollaboration] +
		p.DecisionQualityWeight*breakdown[FactorDecisionQuality] +
		p.ConsistencyWeight*breakdown[FactorConsistency]

	return Score{
		AgentID:   agent.ID,
		Composite: clamp01(composite),
		Tier:      ReputationTier(composite),
		Breakdown: breakdown,
	}
}

// ReputationTier maps a composite reputation onto its label
func ReputationTier(score float64) string {
	switch {
	case score >= 0.9:
		return ReputationLegendary
	case score >= 0.75:
		return ReputationExpert
	case score >= 0.6:
		return ReputationTrusted
	case score >= 0.4:
		return ReputationActive
	default:
		return ReputationNew
	}
}

// knowledgeQuality averages entry quality, weighted up by verification
// ratio and total engagement volume
func knowledgeQuality(authored []database.HiveKnowledgeEntry, qualities map[string]float64) float64 {
	if len(authored) == 0 {
		return 0
	}

	var sum float64
	verified := 0
	engagement := 0
	for i := range authored {
		sum += qualities[authored[i].ID]
		if authored[i].Verified {
			verified++
		}
		engagement += authored[i].Upvotes + authored[i].UsageCount
	}

	avg := sum / float64(len(authored))
	verifiedRatio := float64(verified) / float64(len(authored))
	volume := scoring.Saturate(engagement, 200)

	return clamp01(avg * (0.6 + 0.2*verifiedRatio + 0.2*volume))
}

// problemSolving scores solved volume and acceptance consistency
func problemSolving(activity *database.HiveActivityRecord) float64 {
	if activity == nil || activity.SolutionsProvided == 0 {
		return 0
	}

	provided := float64(activity.SolutionsProvided)
	acceptRate := float64(activity.SolutionsAccepted) / provided
	verifyRate := float64(activity.SolutionsVerified) / provided

	return clamp01(0.40*scoring.Saturate(activity.SolutionsProvided, 20) +
		0.35*acceptRate +
		0.25*verifyRate)
}

// collaboration measures message responsiveness
func collaboration(activity *database.HiveActivityRecord) float64 {
	if activity == nil {
		return 0
	}

	responseRate := 0.0
	if activity.MessagesReceived > 0 {
		responseRate = float64(activity.MessagesResponded) / float64(activity.MessagesReceived)
		if responseRate > 1 {
			responseRate = 1
		}
	}

	return clamp01(0.7*responseRate + 0.3*scoring.Saturate(activity.MessagesSent, 50))
}

// decisionQuality is the volume-adjusted success rate of logged decisions
func decisionQuality(activity *database.HiveActivityRecord) float64 {
	if activity == nil || activity.DecisionsLogged == 0 {
		return 0
	}

	successRate := float64(activity.DecisionsSuccessful) / float64(activity.DecisionsLogged)
	if successRate > 1 {
		successRate = 1
	}
	confidence := scoring.Saturate(activity.DecisionsLogged, 25)

	return clamp01(successRate * (0.5 + 0.5*confidence))
}

// consistency rewards account age plus recent activity
func consistency(agent *database.HiveAgent, now time.Time) float64 {
	if agent.CreatedAt.IsZero() {
		return 0
	}

	ageDays := now.Sub(agent.CreatedAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	age := scoring.Saturate(int(ageDays), 180)

	recency := 0.0
	if !agent.LastActiveAt.IsZero() {
		idleDays := now.Sub(agent.LastActiveAt).Hours() / 24
		if idleDays < 0 {
			idleDays = 0
		}
		recency = 1 - idleDays/30
		if recency < 0 {
			recency = 0
		}
	}

	return clamp01(0.6*age + 0.4*recency)
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

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reputation

import (
	"github.com/hivemind-ai/intelligence/internal/database"
	"github.com/hivemind-ai/intelligence/internal/scoring"
)

// Impact tier labels
const (
	ImpactLegendary = "Legendary"
	ImpactHigh      = "High"
	ImpactModerate  = "Moderate"
	ImpactGrowing   = "Growing"
	ImpactEmerging  = "Emerging"
)

// Breakdown keys for impact sub-scores
const (
	FactorKnowledgeImpact     = "knowledge_impact"
	FactorProblemImpact       = "problem_impact"
	FactorSolutionImpact      = "solution_impact"
	FactorQualityImpact       = "quality_impact"
	FactorCollaborationImpact = "collaboration_impact"
)

// Impact measures an agent's contribution to other agents, distinct from
// self-quality: it is driven by who used this agent's knowledge and how it
// went for them. usageOfAuthored must contain only events where another
// agent used one of this agent's entries (the caller filters self-use and
// the attribution window).
func (c *Calculator) Impact(agent *database.HiveAgent, activity *database.HiveActivityRecord, authored []database.HiveKnowledgeEntry, usageOfAuthored []database.HiveUsageEvent) Score {
	p := c.params

	breakdown := map[string]float64{
		FactorKnowledgeImpact:     knowledgeImpact(usageOfAuthored),
		FactorProblemImpact:       problemImpact(activity, usageOfAuthored),
		FactorSolutionImpact:      solutionImpact(activity),
		FactorQualityImpact:       qualityImpact(authored, usageOfAuthored),
		FactorCollaborationImpact: collaborationImpact(activity),
	}

	composite := p.KnowledgeImpactWeight*breakdown[FactorKnowledgeImpact] +
		p.ProblemImpactWeight*breakdown[FactorProblemImpact] +
		p.SolutionImpactWeight*breakdown[FactorSolutionImpact] +
		p.QualityImpactWeight*breakdown[FactorQualityImpact] +
		p.CollaborationImpactWeight*breakdown[FactorCollaborationImpact]

	return Score{
		AgentID:   agent.ID,
		Composite: clamp01(composite),
		Tier:      ImpactTier(composite),
		Breakdown: breakdown,
	}
}

// ImpactTier maps a composite impact onto its label
func ImpactTier(score float64) string {
	switch {
	case score >= 0.8:
		return ImpactLegendary
	case score >= 0.6:
		return ImpactHigh
	case score >= 0.4:
		return ImpactModerate
	case score >= 0.2:
		return ImpactGrowing
	default:
		return ImpactEmerging
	}
}

// knowledgeImpact blends distinct adopters with raw usage frequency
func knowledgeImpact(usage []database.HiveUsageEvent) float64 {
	if len(usage) == 0 {
		return 0
	}

	users := make(map[string]bool)
	for _, e := range usage {
		users[e.AgentID] = true
	}

	return clamp01(0.6*scoring.Saturate(len(users), 10) +
		0.4*scoring.Saturate(len(usage), 50))
}

// problemImpact counts problems this agent helped solve through knowledge
// usage that succeeded plus accepted solutions
func problemImpact(activity *database.HiveActivityRecord, usage []database.HiveUsageEvent) float64 {
	helped := 0
	for _, e := range usage {
		if e.Outcome == database.UsageOutcomeSuccess {
			helped++
		}
	}
	if activity != nil {
		helped += activity.SolutionsAccepted
	}
	return scoring.Saturate(helped, 25)
}

// solutionImpact scores accepted and verified solution counts
func solutionImpact(activity *database.HiveActivityRecord) float64 {
	if activity == nil {
		return 0
	}
	return clamp01(0.6*scoring.Saturate(activity.SolutionsAccepted, 15) +
		0.4*scoring.Saturate(activity.SolutionsVerified, 10))
}

// qualityImpact averages the success rate of the authored entries other
// agents actually used; entries without reported outcomes are skipped
func qualityImpact(authored []database.HiveKnowledgeEntry, usage []database.HiveUsageEvent) float64 {
	used := make(map[string]bool, len(usage))
	for _, e := range usage {
		used[e.KnowledgeID] = true
	}

	var sum float64
	count := 0
	for i := range authored {
		entry := &authored[i]
		if !used[entry.ID] || entry.SuccessRate == nil {
			continue
		}
		sum += clamp01(*entry.SuccessRate)
		count++
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// collaborationImpact saturates outbound message volume
func collaborationImpact(activity *database.HiveActivityRecord) float64 {
	if activity == nil {
		return 0
	}
	return scoring.Saturate(activity.MessagesSent+activity.MessagesResponded, 100)
}

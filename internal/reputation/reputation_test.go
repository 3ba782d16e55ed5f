// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reputation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivemind-ai/intelligence/internal/database"
)

var repNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }

func TestReputation_ZeroActivityIsNewNotError(t *testing.T) {
	calc := NewCalculator(DefaultParams())

	agent := &database.HiveAgent{ID: "fresh", CreatedAt: repNow}
	score := calc.Reputation(agent, nil, nil, nil, repNow)

	assert.Equal(t, 0.0, score.Composite)
	assert.Equal(t, ReputationNew, score.Tier)
	assert.Len(t, score.Breakdown, 5)
	for factor, v := range score.Breakdown {
		assert.Equal(t, 0.0, v, "factor %s should be zero", factor)
	}
}

func TestReputation_CompositeInRange(t *testing.T) {
	calc := NewCalculator(DefaultParams())

	agent := &database.HiveAgent{
		ID:           "vet",
		CreatedAt:    repNow.AddDate(-2, 0, 0),
		LastActiveAt: repNow.Add(-2 * time.Hour),
	}
	activity := &database.HiveActivityRecord{
		AgentID:             "vet",
		DecisionsLogged:     40,
		DecisionsSuccessful: 38,
		MessagesSent:        120,
		MessagesReceived:    80,
		MessagesResponded:   76,
		SolutionsProvided:   30,
		SolutionsAccepted:   25,
		SolutionsVerified:   18,
	}
	authored := []database.HiveKnowledgeEntry{
		{ID: "e1", Verified: true, Upvotes: 40, UsageCount: 90},
		{ID: "e2", Verified: true, Upvotes: 25, UsageCount: 60},
	}
	qualities := map[string]float64{"e1": 0.9, "e2": 0.85}

	score := calc.Reputation(agent, activity, authored, qualities, repNow)

	assert.Greater(t, score.Composite, 0.6)
	assert.LessOrEqual(t, score.Composite, 1.0)
	assert.Contains(t, []string{ReputationTrusted, ReputationExpert, ReputationLegendary}, score.Tier)
}

func TestReputation_MonotoneInSubScores(t *testing.T) {
	calc := NewCalculator(DefaultParams())

	agent := &database.HiveAgent{ID: "a", CreatedAt: repNow.AddDate(0, -6, 0), LastActiveAt: repNow}
	base := &database.HiveActivityRecord{
		AgentID:             "a",
		DecisionsLogged:     10,
		DecisionsSuccessful: 5,
		MessagesReceived:    10,
		MessagesResponded:   5,
		SolutionsProvided:   10,
		SolutionsAccepted:   5,
	}

	baseline := calc.Reputation(agent, base, nil, nil, repNow)

	// Improving any single input must never decrease the composite
	improvements := []database.HiveActivityRecord{
		{AgentID: "a", DecisionsLogged: 10, DecisionsSuccessful: 9, MessagesReceived: 10, MessagesResponded: 5, SolutionsProvided: 10, SolutionsAccepted: 5},
		{AgentID: "a", DecisionsLogged: 10, DecisionsSuccessful: 5, MessagesReceived: 10, MessagesResponded: 9, SolutionsProvided: 10, SolutionsAccepted: 5},
		{AgentID: "a", DecisionsLogged: 10, DecisionsSuccessful: 5, MessagesReceived: 10, MessagesResponded: 5, SolutionsProvided: 10, SolutionsAccepted: 9},
	}

	for i := range improvements {
		better := calc.Reputation(agent, &improvements[i], nil, nil, repNow)
		assert.GreaterOrEqual(t, better.Composite, baseline.Composite, "improvement %d decreased the composite", i)
	}
}

func TestReputation_TierThresholds(t *testing.T) {
	assert.Equal(t, ReputationLegendary, ReputationTier(0.9))
	assert.Equal(t, ReputationExpert, ReputationTier(0.75))
	assert.Equal(t, ReputationTrusted, ReputationTier(0.6))
	assert.Equal(t, ReputationActive, ReputationTier(0.4))
	assert.Equal(t, ReputationNew, ReputationTier(0.39))
}

func TestImpact_ZeroUsageIsEmerging(t *testing.T) {
	calc := NewCalculator(DefaultParams())

	agent := &database.HiveAgent{ID: "quiet", CreatedAt: repNow}
	score := calc.Impact(agent, nil, nil, nil)

	assert.Equal(t, 0.0, score.Composite)
	assert.Equal(t, ImpactEmerging, score.Tier)
}

func TestImpact_DistinctAdoptersRaiseKnowledgeImpact(t *testing.T) {
	calc := NewCalculator(DefaultParams())
	agent := &database.HiveAgent{ID: "author"}
	authored := []database.HiveKnowledgeEntry{{ID: "e1", SuccessRate: floatPtr(0.9)}}

	oneUser := []database.HiveUsageEvent{
		{AgentID: "b", KnowledgeID: "e1"},
		{AgentID: "b", KnowledgeID: "e1"},
		{AgentID: "b", KnowledgeID: "e1"},
	}
	manyUsers := []database.HiveUsageEvent{
		{AgentID: "b", KnowledgeID: "e1"},
		{AgentID: "c", KnowledgeID: "e1"},
		{AgentID: "d", KnowledgeID: "e1"},
	}

	narrow := calc.Impact(agent, nil, authored, oneUser)
	broad := calc.Impact(agent, nil, authored, manyUsers)

	assert.Greater(t, broad.Breakdown[FactorKnowledgeImpact], narrow.Breakdown[FactorKnowledgeImpact],
		"reaching more distinct agents should matter more than repeat usage")
}

func TestImpact_QualityImpactSkipsUnusedAndUnreported(t *testing.T) {
	calc := NewCalculator(DefaultParams())
	agent := &database.HiveAgent{ID: "author"}

	authored := []database.HiveKnowledgeEntry{
		{ID: "used", SuccessRate: floatPtr(0.8)},
		{ID: "unused", SuccessRate: floatPtr(0.1)},
		{ID: "unreported"},
	}
	usage := []database.HiveUsageEvent{
		{AgentID: "b", KnowledgeID: "used"},
		{AgentID: "b", KnowledgeID: "unreported"},
	}

	score := calc.Impact(agent, nil, authored, usage)
	assert.InDelta(t, 0.8, score.Breakdown[FactorQualityImpact], 1e-9)
}

func TestImpact_TierThresholds(t *testing.T) {
	assert.Equal(t, ImpactLegendary, ImpactTier(0.8))
	assert.Equal(t, ImpactHigh, ImpactTier(0.6))
	assert.Equal(t, ImpactModerate, ImpactTier(0.4))
	assert.Equal(t, ImpactGrowing, ImpactTier(0.2))
	assert.Equal(t, ImpactEmerging, ImpactTier(0.19))
}

func influenceFixture() ([]database.HiveUsageEvent, map[string]string) {
	// a authored e1; b and c use it. b authored e2; d uses it.
	usage := []database.HiveUsageEvent{
		{AgentID: "b", KnowledgeID: "e1"},
		{AgentID: "b", KnowledgeID: "e1"},
		{AgentID: "c", KnowledgeID: "e1"},
		{AgentID: "d", KnowledgeID: "e2"},
		{AgentID: "a", KnowledgeID: "e1"}, // self-use, ignored
	}
	creators := map[string]string{"e1": "a", "e2": "b"}
	return usage, creators
}

func TestInfluenceNetwork_DirectAndIndirect(t *testing.T) {
	usage, creators := influenceFixture()

	network := InfluenceNetwork("a", usage, creators, 2, 50)

	require.Len(t, network.Nodes, 4)
	assert.Equal(t, NetworkNode{AgentID: "a", Depth: 0}, network.Nodes[0])

	depths := map[string]int{}
	for _, n := range network.Nodes {
		depths[n.AgentID] = n.Depth
	}
	assert.Equal(t, 1, depths["b"], "b used a's knowledge directly")
	assert.Equal(t, 1, depths["c"])
	assert.Equal(t, 2, depths["d"], "d is reachable only through b")

	// b used e1 twice: edge weight 2
	var ab *NetworkEdge
	for i := range network.Edges {
		if network.Edges[i].From == "a" && network.Edges[i].To == "b" {
			ab = &network.Edges[i]
		}
	}
	require.NotNil(t, ab)
	assert.Equal(t, 2, ab.Weight)
}

func TestInfluenceNetwork_DepthBound(t *testing.T) {
	usage, creators := influenceFixture()

	network := InfluenceNetwork("a", usage, creators, 1, 50)

	for _, n := range network.Nodes {
		assert.LessOrEqual(t, n.Depth, 1)
	}
	depths := map[string]int{}
	for _, n := range network.Nodes {
		depths[n.AgentID] = n.Depth
	}
	assert.NotContains(t, depths, "d")
}

func TestInfluenceNetwork_LimitBoundsNodes(t *testing.T) {
	usage, creators := influenceFixture()

	network := InfluenceNetwork("a", usage, creators, 2, 2)
	assert.LessOrEqual(t, len(network.Nodes), 2)
	// Higher-weight neighbor wins the last slot
	assert.Equal(t, "b", network.Nodes[1].AgentID)
}

func TestDirectInfluence(t *testing.T) {
	usage, creators := influenceFixture()

	edges := DirectInfluence("a", usage, creators, 10)
	require.Len(t, edges, 2)
	assert.Equal(t, "b", edges[0].To)
	assert.Equal(t, 2, edges[0].Weight)
	assert.Equal(t, "c", edges[1].To)
}

func TestInfluenceNetwork_UnknownAgentIsLonely(t *testing.T) {
	usage, creators := influenceFixture()

	network := InfluenceNetwork("stranger", usage, creators, 2, 10)
	assert.Len(t, network.Nodes, 1)
	assert.Empty(t, network.Edges)
}

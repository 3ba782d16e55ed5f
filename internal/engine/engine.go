// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package engine ties the store and the analytics packages together behind
// one façade. It loads point-in-time snapshots of the knowledge base and
// answers every search, scoring, graph and reputation query against the
// current snapshot, so query cost never depends on database round-trips.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hivemind-ai/intelligence/internal/database"
	"github.com/hivemind-ai/intelligence/internal/graph"
	"github.com/hivemind-ai/intelligence/internal/reputation"
	"github.com/hivemind-ai/intelligence/internal/scoring"
	"github.com/hivemind-ai/intelligence/internal/search"
	"github.com/hivemind-ai/intelligence/internal/text"
)

// ErrNotFound is returned when a requested entry or agent does not exist
// in the current snapshot
var ErrNotFound = errors.New("not found")

// Params aggregates the tuning knobs of every analytics package
type Params struct {
	Search     search.Options
	Quality    scoring.Params
	Graph      graph.Params
	Reputation reputation.Params
}

// DefaultParams returns the production defaults of all packages
func DefaultParams() Params {
	return Params{
		Search:     search.DefaultOptions(),
		Quality:    scoring.DefaultParams(),
		Graph:      graph.DefaultParams(),
		Reputation: reputation.DefaultParams(),
	}
}

// Engine is the query façade. Safe for concurrent use: queries share the
// current snapshot under a read lock while Refresh swaps in a new one.
type Engine struct {
	store   *database.Store
	params  Params
	scorer  *scoring.Scorer
	ranker  *search.Ranker
	builder *graph.Builder
	calc    *reputation.Calculator
	now     func() time.Time

	mu   sync.RWMutex
	snap *Snapshot
}

// New creates an engine over the given store. No snapshot is loaded yet;
// the first query (or an explicit Refresh) loads one.
func New(store *database.Store, params Params) *Engine {
	scorer := scoring.NewScorer(params.Quality)
	return &Engine{
		store:   store,
		params:  params,
		scorer:  scorer,
		ranker:  search.NewRanker(scorer),
		builder: graph.NewBuilder(params.Graph),
		calc:    reputation.NewCalculator(params.Reputation),
		now:     time.Now,
	}
}

// Refresh loads a fresh snapshot from the store and makes it current
func (e *Engine) Refresh(ctx context.Context) error {
	snap, err := e.loadSnapshot(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()
	return nil
}

// Current returns the active snapshot, loading one on first use
func (e *Engine) Current(ctx context.Context) (*Snapshot, error) {
	e.mu.RLock()
	snap := e.snap
	e.mu.RUnlock()

	if snap != nil {
		return snap, nil
	}
	if err := e.Refresh(ctx); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap, nil
}

// loadSnapshot reads the store and derives the corpus, quality scores and
// relationship graph
func (e *Engine) loadSnapshot(ctx context.Context) (*Snapshot, error) {
	entries, err := e.store.ListEntries(database.EntryFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}
	agents, err := e.store.ListAgents()
	if err != nil {
		return nil, fmt.Errorf("loading agents: %w", err)
	}
	activity, err := e.store.ListActivity("")
	if err != nil {
		return nil, fmt.Errorf("loading activity: %w", err)
	}
	usage, err := e.store.ListUsage(time.Time{})
	if err != nil {
		return nil, fmt.Errorf("loading usage events: %w", err)
	}

	now := e.now()
	qualities := make(map[string]float64, len(entries))
	for i := range entries {
		qualities[entries[i].ID] = e.scorer.Quality(&entries[i], now)
	}

	corpus := text.BuildCorpus(entries)
	g, err := e.builder.Build(ctx, entries, corpus, qualities)
	if err != nil {
		return nil, fmt.Errorf("building relationship graph: %w", err)
	}

	snap := &Snapshot{
		Entries:   entries,
		Agents:    agents,
		Usage:     usage,
		TakenAt:   now,
		Corpus:    corpus,
		Graph:     g,
		Qualities: qualities,
	}
	snap.index(activity)
	return snap, nil
}

// SearchResponse carries the ranked results plus the strategy that
// produced them
type SearchResponse struct {
	Results  []search.Result `json:"results"`
	Strategy search.Strategy `json:"strategy"`
	Total    int             `json:"total"`
}

// Search ranks entries against a free-text query. limit and minQuality
// override the configured defaults when positive.
func (e *Engine) Search(ctx context.Context, query string, limit int, minQuality float64) (*SearchResponse, error) {
	snap, err := e.Current(ctx)
	if err != nil {
		return nil, err
	}

	opts := e.params.Search
	if limit > 0 {
		opts.Limit = limit
	}
	if minQuality > 0 {
		opts.MinQuality = minQuality
	}

	results, strategy := e.ranker.Rank(snap.Corpus, snap.Entries, query, snap.TakenAt, opts)
	return &SearchResponse{Results: results, Strategy: strategy, Total: len(results)}, nil
}

// EntryInsights returns the explainable quality report for one entry
func (e *Engine) EntryInsights(ctx context.Context, entryID string) (*scoring.Insights, error) {
	snap, err := e.Current(ctx)
	if err != nil {
		return nil, err
	}

	entry, ok := snap.Entry(entryID)
	if !ok {
		return nil, fmt.Errorf("entry %q: %w", entryID, ErrNotFound)
	}

	insights := e.scorer.Insights(entry, snap.TakenAt)
	return &insights, nil
}

// RelatedEntry is one graph neighbor of an entry
type RelatedEntry struct {
	Entry        *database.HiveKnowledgeEntry `json:"entry"`
	Relationship string                       `json:"relationship"`
	Types        []string                     `json:"relationship_types"`
	Weight       float64                      `json:"weight"`
}

// Related returns the strongest graph neighbors of an entry
func (e *Engine) Related(ctx context.Context, entryID string, limit int) ([]RelatedEntry, error) {
	snap, err := e.Current(ctx)
	if err != nil {
		return nil, err
	}

	if _, ok := snap.Entry(entryID); !ok {
		return nil, fmt.Errorf("entry %q: %w", entryID, ErrNotFound)
	}

	edges := snap.Graph.Related(entryID, limit)
	related := make([]RelatedEntry, 0, len(edges))
	for _, edge := range edges {
		target := edge.Target
		if target == entryID {
			target = edge.Source
		}
		entry, ok := snap.Entry(target)
		if !ok {
			continue
		}
		related = append(related, RelatedEntry{
			Entry:        entry,
			Relationship: edge.Type,
			Types:        edge.Types,
			Weight:       edge.Weight,
		})
	}
	return related, nil
}

// FindPath finds the strongest connection chain between two entries.
// Unreachable pairs are an explicit result, not an error.
func (e *Engine) FindPath(ctx context.Context, fromID, toID string, maxDepth int) (*graph.PathResult, error) {
	snap, err := e.Current(ctx)
	if err != nil {
		return nil, err
	}

	if _, ok := snap.Entry(fromID); !ok {
		return nil, fmt.Errorf("entry %q: %w", fromID, ErrNotFound)
	}
	if _, ok := snap.Entry(toID); !ok {
		return nil, fmt.Errorf("entry %q: %w", toID, ErrNotFound)
	}

	return snap.Graph.FindPath(fromID, toID, maxDepth)
}

// Cluster is one connected group of related entries
type Cluster struct {
	Entries []string `json:"entries"`
	Size    int      `json:"size"`
}

// Clusters partitions the graph into groups connected by edges at or
// above the threshold. Every entry appears in exactly one cluster.
func (e *Engine) Clusters(ctx context.Context, threshold float64) ([]Cluster, error) {
	snap, err := e.Current(ctx)
	if err != nil {
		return nil, err
	}

	groups := snap.Graph.Clusters(threshold)
	clusters := make([]Cluster, 0, len(groups))
	for _, g := range groups {
		clusters = append(clusters, Cluster{Entries: g, Size: len(g)})
	}
	return clusters, nil
}

// Reputation computes an agent's composite reputation. The breakdown is
// omitted unless requested.
func (e *Engine) Reputation(ctx context.Context, agentID string, includeBreakdown bool) (*reputation.Score, error) {
	snap, err := e.Current(ctx)
	if err != nil {
		return nil, err
	}

	agent, ok := snap.Agent(agentID)
	if !ok {
		return nil, fmt.Errorf("agent %q: %w", agentID, ErrNotFound)
	}

	score := e.calc.Reputation(agent, snap.ActivityFor(agentID), snap.AuthoredBy(agentID), snap.Qualities, snap.TakenAt)
	if !includeBreakdown {
		score.Breakdown = nil
	}
	return &score, nil
}

// Impact computes an agent's impact on other agents over the trailing
// window. windowDays <= 0 means all time.
func (e *Engine) Impact(ctx context.Context, agentID string, windowDays int) (*reputation.Score, error) {
	snap, err := e.Current(ctx)
	if err != nil {
		return nil, err
	}

	agent, ok := snap.Agent(agentID)
	if !ok {
		return nil, fmt.Errorf("agent %q: %w", agentID, ErrNotFound)
	}

	var cutoff time.Time
	if windowDays > 0 {
		cutoff = snap.TakenAt.AddDate(0, 0, -windowDays)
	}
	usage := snap.usageOfAgentSince(agentID, cutoff)

	score := e.calc.Impact(agent, snap.ActivityFor(agentID), snap.AuthoredBy(agentID), usage)
	return &score, nil
}

// Influence builds the agent's influence network: who adopted their
// knowledge, directly and transitively
func (e *Engine) Influence(ctx context.Context, agentID string, maxDepth, limit int) (*reputation.Network, error) {
	snap, err := e.Current(ctx)
	if err != nil {
		return nil, err
	}

	if _, ok := snap.Agent(agentID); !ok {
		return nil, fmt.Errorf("agent %q: %w", agentID, ErrNotFound)
	}

	return reputation.InfluenceNetwork(agentID, snap.Usage, snap.Creators(), maxDepth, limit), nil
}

// TrendingEntry is one entry with rising recent adoption
type TrendingEntry struct {
	Entry        *database.HiveKnowledgeEntry `json:"entry"`
	RecentUsage  int                          `json:"recent_usage"`
	QualityScore float64                      `json:"quality_score"`
	TrendScore   float64                      `json:"trend_score"`
}

// Trending surfaces the entries with the most recent adoption, blended
// with quality so a briefly-spiking junk entry cannot top the list
func (e *Engine) Trending(ctx context.Context, windowDays, limit int) ([]TrendingEntry, error) {
	snap, err := e.Current(ctx)
	if err != nil {
		return nil, err
	}

	if windowDays <= 0 {
		windowDays = 7
	}
	if limit <= 0 {
		limit = 10
	}
	cutoff := snap.TakenAt.AddDate(0, 0, -windowDays)

	recent := make(map[string]int)
	for _, ev := range snap.Usage {
		if ev.UsedAt.Before(cutoff) {
			continue
		}
		recent[ev.KnowledgeID]++
	}

	trending := make([]TrendingEntry, 0, len(recent))
	for id, count := range recent {
		entry, ok := snap.Entry(id)
		if !ok {
			continue
		}
		quality := snap.Qualities[id]
		trending = append(trending, TrendingEntry{
			Entry:        entry,
			RecentUsage:  count,
			QualityScore: quality,
			TrendScore:   0.6*scoring.Saturate(count, 20) + 0.4*quality,
		})
	}

	sort.Slice(trending, func(i, j int) bool {
		if trending[i].TrendScore != trending[j].TrendScore {
			return trending[i].TrendScore > trending[j].TrendScore
		}
		return trending[i].Entry.ID < trending[j].Entry.ID
	})
	if len(trending) > limit {
		trending = trending[:limit]
	}
	return trending, nil
}

// Recommendation is one entry suggested to an agent, with the entries
// that led to it
type Recommendation struct {
	Entry        *database.HiveKnowledgeEntry `json:"entry"`
	Score        float64                      `json:"score"`
	QualityScore float64                      `json:"quality_score"`
	Via          []string                     `json:"via,omitempty"`
}

// Recommend suggests entries for an agent: graph neighbors of what they
// already used, excluding their own entries and anything already used.
// Agents with no usage history get the highest-quality entries instead.
func (e *Engine) Recommend(ctx context.Context, agentID string, limit int) ([]Recommendation, error) {
	snap, err := e.Current(ctx)
	if err != nil {
		return nil, err
	}

	if _, ok := snap.Agent(agentID); !ok {
		return nil, fmt.Errorf("agent %q: %w", agentID, ErrNotFound)
	}
	if limit <= 0 {
		limit = 10
	}

	used := snap.usageByAgent(agentID)
	if len(used) == 0 {
		return e.coldStartRecommendations(snap, agentID, limit), nil
	}

	// Accumulate neighbor weight across every used entry so an entry
	// related to several of them ranks higher.
	weights := make(map[string]float64)
	via := make(map[string][]string)
	for usedID := range used {
		for _, edge := range snap.Graph.Related(usedID, 0) {
			target := edge.Target
			if target == usedID {
				target = edge.Source
			}
			if used[target] || snap.Creators()[target] == agentID {
				continue
			}
			weights[target] += edge.Weight
			via[target] = append(via[target], usedID)
		}
	}

	recs := make([]Recommendation, 0, len(weights))
	for id, weight := range weights {
		entry, ok := snap.Entry(id)
		if !ok {
			continue
		}
		if weight > 1 {
			weight = 1
		}
		quality := snap.Qualities[id]
		sources := via[id]
		sort.Strings(sources)
		recs = append(recs, Recommendation{
			Entry:        entry,
			Score:        0.7*weight + 0.3*quality,
			QualityScore: quality,
			Via:          sources,
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Entry.ID < recs[j].Entry.ID
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// coldStartRecommendations ranks foreign entries purely by quality for
// agents with no usage history yet
func (e *Engine) coldStartRecommendations(snap *Snapshot, agentID string, limit int) []Recommendation {
	recs := make([]Recommendation, 0, len(snap.Entries))
	for i := range snap.Entries {
		entry := &snap.Entries[i]
		if entry.CreatorID == agentID {
			continue
		}
		quality := snap.Qualities[entry.ID]
		recs = append(recs, Recommendation{
			Entry:        entry,
			Score:        quality,
			QualityScore: quality,
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Entry.ID < recs[j].Entry.ID
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package graph

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hivemind-ai/intelligence/internal/database"
	"github.com/hivemind-ai/intelligence/internal/text"
)

// Relationship types discovered between entries
const (
	RelationshipCategory = "category"
	RelationshipTags     = "tags"
	RelationshipKeyword  = "keyword"
	RelationshipTitle    = "title"
)

// Params controls graph construction.
//
// The merge rule is a weighted sum: the four signal values (each in [0,1])
// are multiplied by their coefficients, summed, scaled by mean endpoint
// quality as 0.5 + 0.5*avg(quality), and capped at 1. Pairs whose merged
// weight falls below MinEdgeWeight get no edge.
type Params struct {
	CategoryCoefficient float64
	TagCoefficient      float64
	KeywordCoefficient  float64
	TitleCoefficient    float64

	MinEdgeWeight float64
	MaxPairs      int // cap on scored candidate pairs; 0 means unlimited
	Workers       int // parallel pair scorers; 0 means GOMAXPROCS

	TopTermsPerEntry int // terms per entry fed into the keyword candidate index
}

// DefaultParams returns the production graph parameters
func DefaultParams() Params {
	return Params{
		CategoryCoefficient: 0.25,
		TagCoefficient:      0.35,
		KeywordCoefficient:  0.25,
		TitleCoefficient:    0.15,
		MinEdgeWeight:       0.10,
		MaxPairs:            200000,
		TopTermsPerEntry:    8,
	}
}

// Edge is one merged, undirected relationship between two entries.
// Source < Target lexicographically; adjacency lists mirror both ways.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   string   `json:"type"`  // strongest contributing signal
	Types  []string `json:"types"` // every contributing signal, sorted
	Weight float64  `json:"weight"`
}

// Graph is the derived knowledge relationship graph over one snapshot
type Graph struct {
	nodes []string
	edges []Edge
	adj   map[string][]Edge
}

// Builder discovers weighted relationships between knowledge entries
type Builder struct {
	params Params
}

// NewBuilder creates a graph builder
func NewBuilder(params Params) *Builder {
	return &Builder{params: params}
}

// pair is an ordered candidate entry pair
type pair struct {
	a, b string
}

// Build constructs the relationship graph. Candidate pairs come from
// category, tag and top-term inverted indices rather than a full O(n^2)
// sweep; MaxPairs bounds the scored set and ctx cancels a long build.
func (b *Builder) Build(ctx context.Context, entries []database.HiveKnowledgeEntry, corpus *text.Corpus, qualities map[string]float64) (*Graph, error) {
	byID := make(map[string]*database.HiveKnowledgeEntry, len(entries))
	nodes := make([]string, 0, len(entries))
	for i := range entries {
		byID[entries[i].ID] = &entries[i]
		nodes = append(nodes, entries[i].ID)
	}
	sort.Strings(nodes)

	pairs := b.candidatePairs(entries, corpus)

	edges, err := b.scorePairs(ctx, pairs, byID, corpus, qualities)
	if err != nil {
		return nil, err
	}

	// Deterministic edge order regardless of worker interleaving
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	adj := make(map[string][]Edge, len(nodes))
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e)
		adj[e.Target] = append(adj[e.Target], reversed(e))
	}

	return &Graph{nodes: nodes, edges: edges, adj: adj}, nil
}

// candidatePairs collects pairs sharing a category, a tag, or a top
// TF-IDF term, deduplicated and deterministically ordered
func (b *Builder) candidatePairs(entries []database.HiveKnowledgeEntry, corpus *text.Corpus) []pair {
	buckets := make(map[string][]string)

	for i := range entries {
		entry := &entries[i]
		if entry.Category != "" {
			key := "cat:" + entry.Category
			buckets[key] = append(buckets[key], entry.ID)
		}
		for _, tag := range entry.TagList() {
			key := "tag:" + tag
			buckets[key] = append(buckets[key], entry.ID)
		}
		for _, term := range topTerms(corpus.Vectors[entry.ID], b.params.TopTermsPerEntry) {
			key := "term:" + term
			buckets[key] = append(buckets[key], entry.ID)
		}
	}

	seen := make(map[pair]bool)
	var pairs []pair
	for _, ids := range buckets {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				p := orderedPair(ids[i], ids[j])
				if p.a == p.b || seen[p] {
					continue
				}
				seen[p] = true
				pairs = append(pairs, p)
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})

	if b.params.MaxPairs > 0 && len(pairs) > b.params.MaxPairs {
		pairs = pairs[:b.params.MaxPairs]
	}
	return pairs
}

// scorePairs evaluates candidate pairs across workers
func (b *Builder) scorePairs(ctx context.Context, pairs []pair, byID map[string]*database.HiveKnowledgeEntry, corpus *text.Corpus, qualities map[string]float64) ([]Edge, error) {
	workers := b.params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(pairs) {
		workers = 1
	}

	results := make([][]Edge, workers)
	chunk := (len(pairs) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(pairs) {
			end = len(pairs)
		}
		if start >= end {
			continue
		}
		w := w
		slice := pairs[start:end]

		g.Go(func() error {
			var edges []Edge
			for i, p := range slice {
				if i%1024 == 0 {
					select {
					case <-gctx.Done():
						return fmt.Errorf("graph build cancelled: %w", gctx.Err())
					default:
					}
				}
				if edge, ok := b.scorePair(byID[p.a], byID[p.b], corpus, qualities); ok {
					edges = append(edges, edge)
				}
			}
			results[w] = edges
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var edges []Edge
	for _, r := range results {
		edges = append(edges, r...)
	}
	return edges, nil
}

// scorePair computes the four relationship signals and merges them
func (b *Builder) scorePair(ea, eb *database.HiveKnowledgeEntry, corpus *text.Corpus, qualities map[string]float64) (Edge, bool) {
	p := b.params

	signals := map[string]float64{}

	if ea.Category != "" && ea.Category == eb.Category {
		signals[RelationshipCategory] = 1.0
	}
	if j := jaccard(ea.TagList(), eb.TagList()); j > 0 {
		signals[RelationshipTags] = j
	}
	if sim := text.Cosine(corpus.Vectors[ea.ID], corpus.Vectors[ea.ID].Norm(), corpus.Vectors[eb.ID], corpus.Vectors[eb.ID].Norm()); sim > 0 {
		signals[RelationshipKeyword] = sim
	}
	if j := jaccard(text.Tokenize(ea.Title), text.Tokenize(eb.Title)); j > 0 {
		signals[RelationshipTitle] = j
	}

	if len(signals) == 0 {
		return Edge{}, false
	}

	coefficients := map[string]float64{
		RelationshipCategory: p.CategoryCoefficient,
		RelationshipTags:     p.TagCoefficient,
		RelationshipKeyword:  p.KeywordCoefficient,
		RelationshipTitle:    p.TitleCoefficient,
	}

	var weight float64
	var types []string
	primary := ""
	best := 0.0
	for _, rt := range []string{RelationshipCategory, RelationshipTags, RelationshipKeyword, RelationshipTitle} {
		s, ok := signals[rt]
		if !ok {
			continue
		}
		contribution := coefficients[rt] * s
		weight += contribution
		types = append(types, rt)
		if contribution > best {
			best = contribution
			primary = rt
		}
	}

	// Quality-weighted: well-scored endpoints strengthen the edge
	avgQuality := (qualities[ea.ID] + qualities[eb.ID]) / 2
	weight *= 0.5 + 0.5*avgQuality
	if weight > 1 {
		weight = 1
	}

	if weight < p.MinEdgeWeight {
		return Edge{}, false
	}

	src, dst := ea.ID, eb.ID
	if dst < src {
		src, dst = dst, src
	}
	return Edge{Source: src, Target: dst, Type: primary, Types: types, Weight: weight}, true
}

// Nodes returns all entry ids in the graph, sorted
func (g *Graph) Nodes() []string {
	return g.nodes
}

// Edges returns all merged edges, ordered by (source, target)
func (g *Graph) Edges() []Edge {
	return g.edges
}

// HasNode reports whether an entry id is part of the graph
func (g *Graph) HasNode(id string) bool {
	i := sort.SearchStrings(g.nodes, id)
	return i < len(g.nodes) && g.nodes[i] == id
}

// Related returns the neighbors of an entry ordered by descending edge
// weight, ties broken by target id
func (g *Graph) Related(id string, limit int) []Edge {
	neighbors := append([]Edge(nil), g.adj[id]...)
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Weight != neighbors[j].Weight {
			return neighbors[i].Weight > neighbors[j].Weight
		}
		return neighbors[i].Target < neighbors[j].Target
	})
	if limit > 0 && len(neighbors) > limit {
		neighbors = neighbors[:limit]
	}
	return neighbors
}

// reversed flips an edge for the mirror adjacency entry
func reversed(e Edge) Edge {
	e.Source, e.Target = e.Target, e.Source
	return e
}

// orderedPair normalizes pair ordering
func orderedPair(a, b string) pair {
	if b < a {
		a, b = b, a
	}
	return pair{a, b}
}

// jaccard computes set overlap of two string slices
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	intersection := 0
	union := len(set)
	seen := make(map[string]bool, len(b))
	for _, s := range b {
		if seen[s] {
			continue
		}
		seen[s] = true
		if set[s] {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// topTerms returns the n highest-weight terms of a vector, deterministic
func topTerms(vec text.Vector, n int) []string {
	if len(vec) == 0 || n <= 0 {
		return nil
	}
	terms := make([]string, 0, len(vec))
	for t := range vec {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if vec[terms[i]] != vec[terms[j]] {
			return vec[terms[i]] > vec[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package search

import (
	"sort"
	"strings"
	"time"

	"github.com/hivemind-ai/intelligence/internal/database"
	"github.com/hivemind-ai/intelligence/internal/scoring"
	"github.com/hivemind-ai/intelligence/internal/text"
)

// Strategy identifies which ranking path produced a result set. Callers
// observe the executed path directly instead of inferring it from caught
// errors.
type Strategy string

// Ranking strategies
const (
	StrategyVector  Strategy = "vector"
	StrategyKeyword Strategy = "keyword"
)

// Options controls one search invocation
type Options struct {
	Limit            int
	MinQuality       float64
	SimilarityWeight float64 // alpha in final = alpha*similarity + beta*quality
	QualityWeight    float64 // beta; alpha+beta must sum to 1
	MinCorpusSize    int     // below this, vectorization is considered degenerate
}

// DefaultOptions returns the production blend: similarity 0.7, quality 0.3.
// The quality share is deliberately non-trivial so a high-quality,
// moderately-relevant entry can outrank a low-quality, highly-relevant one.
func DefaultOptions() Options {
	return Options{
		Limit:            10,
		SimilarityWeight: 0.7,
		QualityWeight:    0.3,
		MinCorpusSize:    3,
	}
}

// Result is one ranked entry. Similarity is always carried alongside the
// blended score so callers can explain the ranking.
type Result struct {
	Entry        *database.HiveKnowledgeEntry `json:"entry"`
	Similarity   float64                      `json:"similarity"`
	QualityScore float64                      `json:"quality_score"`
	TrustScore   float64                      `json:"trust_score"`
	FinalScore   float64                      `json:"final_score"`
}

// Ranker ranks snapshot entries against free-text queries
type Ranker struct {
	scorer *scoring.Scorer
}

// NewRanker creates a ranker using the given quality scorer
func NewRanker(scorer *scoring.Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// Rank searches the corpus for the query. It prefers TF-IDF cosine ranking
// and falls back to case-insensitive keyword matching when the corpus is
// too small to vectorize, when the query shares no terms with the corpus,
// or when the vector path matches nothing. The returned strategy reports
// which path ran.
func (r *Ranker) Rank(corpus *text.Corpus, entries []database.HiveKnowledgeEntry, query string, now time.Time, opts Options) ([]Result, Strategy) {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.SimilarityWeight == 0 && opts.QualityWeight == 0 {
		opts.SimilarityWeight = 0.7
		opts.QualityWeight = 0.3
	}

	if corpus.Size() >= opts.MinCorpusSize && corpus.TermCount() > 0 {
		queryVec := corpus.VectorizeQuery(query)
		if len(queryVec) > 0 {
			results := r.rankVector(corpus, entries, queryVec, now, opts)
			if len(results) > 0 {
				return results, StrategyVector
			}
		}
	}

	return r.rankKeyword(entries, query, now, opts), StrategyKeyword
}

// rankVector scores every entry by blended cosine similarity and quality
func (r *Ranker) rankVector(corpus *text.Corpus, entries []database.HiveKnowledgeEntry, queryVec text.Vector, now time.Time, opts Options) []Result {
	results := make([]Result, 0, len(entries))

	for i := range entries {
		entry := &entries[i]

		similarity := corpus.Similarity(queryVec, entry.ID)
		if similarity <= 0 {
			continue
		}

		quality := r.scorer.Quality(entry, now)
		if quality < opts.MinQuality {
			continue
		}

		results = append(results, Result{
			Entry:        entry,
			Similarity:   similarity,
			QualityScore: quality,
			TrustScore:   r.scorer.Trust(entry),
			FinalScore:   opts.SimilarityWeight*similarity + opts.QualityWeight*quality,
		})
	}

	sortResults(results)
	return truncate(results, opts.Limit)
}

// rankKeyword is the degenerate-corpus fallback: case-insensitive token
// matching over all text fields. Match counts are normalized against the
// best matcher so the blended final score stays in [0,1] and result order
// still follows final_score.
func (r *Ranker) rankKeyword(entries []database.HiveKnowledgeEntry, query string, now time.Time, opts Options) []Result {
	tokens := text.Tokenize(query)
	if len(tokens) == 0 {
		q := strings.TrimSpace(strings.ToLower(query))
		if q == "" {
			return nil
		}
		tokens = []string{q}
	}

	type match struct {
		result Result
		count  int
	}

	var matches []match
	maxCount := 0

	for i := range entries {
		entry := &entries[i]
		haystack := strings.ToLower(entry.Title + " " + entry.Description + " " + entry.Content + " " + entry.Tags)

		count := 0
		for _, tok := range tokens {
			count += strings.Count(haystack, tok)
		}
		if count == 0 {
			continue
		}

		quality := r.scorer.Quality(entry, now)
		if quality < opts.MinQuality {
			continue
		}

		if count > maxCount {
			maxCount = count
		}
		matches = append(matches, match{
			result: Result{
				Entry:        entry,
				QualityScore: quality,
				TrustScore:   r.scorer.Trust(entry),
			},
			count: count,
		})
	}

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		res := m.result
		res.Similarity = float64(m.count) / float64(maxCount)
		res.FinalScore = opts.SimilarityWeight*res.Similarity + opts.QualityWeight*res.QualityScore
		results = append(results, res)
	}

	sortResults(results)
	return truncate(results, opts.Limit)
}

// sortResults orders by final score descending, ties broken by higher
// quality, then more recent creation, then id for full determinism.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if a.QualityScore != b.QualityScore {
			return a.QualityScore > b.QualityScore
		}
		if !a.Entry.CreatedAt.Equal(b.Entry.CreatedAt) {
			return a.Entry.CreatedAt.After(b.Entry.CreatedAt)
		}
		return a.Entry.ID < b.Entry.ID
	})
}

func truncate(results []Result, limit int) []Result {
	if len(results) > limit {
		return results[:limit]
	}
	return results
}

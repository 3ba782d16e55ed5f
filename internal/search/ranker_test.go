// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivemind-ai/intelligence/internal/database"
	"github.com/hivemind-ai/intelligence/internal/scoring"
	"github.com/hivemind-ai/intelligence/internal/text"
)

var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }

func rankerCorpus() ([]database.HiveKnowledgeEntry, *text.Corpus) {
	entries := []database.HiveKnowledgeEntry{
		{
			ID:          "deploy",
			Title:       "How to Deploy FastAPI to AWS ECS Fargate",
			Description: "Container deployment walkthrough",
			Content:     "Build the image, push to ECR, create the ECS service and task definition.",
			Category:    "deployment",
			CreatedAt:   testNow.AddDate(0, -2, 0),
			UsageCount:  30,
			Upvotes:     12,
			Verified:    true,
			SuccessRate: floatPtr(0.9),
		},
		{
			ID:          "bcrypt",
			Title:       "bcrypt password hashing",
			Description: "Secure password storage",
			Content:     "Use bcrypt with a work factor of 12 for password hashes.",
			Category:    "security",
			CreatedAt:   testNow.AddDate(0, -1, 0),
			UsageCount:  10,
			Upvotes:     3,
			SuccessRate: floatPtr(0.8),
		},
		{
			ID:          "cache",
			Title:       "Redis caching patterns",
			Description: "Cache aside and write through",
			Content:     "Redis works well for read-heavy caching workloads.",
			Category:    "performance",
			CreatedAt:   testNow.AddDate(0, 0, -10),
			UsageCount:  5,
			Upvotes:     1,
		},
	}
	return entries, text.BuildCorpus(entries)
}

func TestRank_RelevantEntryOutranksUnrelated(t *testing.T) {
	entries, corpus := rankerCorpus()
	ranker := NewRanker(scoring.NewScorer(scoring.DefaultParams()))

	results, strategy := ranker.Rank(corpus, entries, "deploy fastapi aws", testNow, DefaultOptions())

	require.NotEmpty(t, results)
	assert.Equal(t, StrategyVector, strategy)
	assert.Equal(t, "deploy", results[0].Entry.ID)

	// The bcrypt entry shares no query terms and must not appear
	for _, r := range results {
		assert.NotEqual(t, "bcrypt", r.Entry.ID)
	}
}

func TestRank_SortedByFinalScoreDescending(t *testing.T) {
	entries, corpus := rankerCorpus()
	ranker := NewRanker(scoring.NewScorer(scoring.DefaultParams()))

	results, _ := ranker.Rank(corpus, entries, "password redis service", testNow, DefaultOptions())

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].FinalScore, results[i].FinalScore,
			"adjacent results must not violate final_score ordering")
	}
}

func TestRank_Deterministic(t *testing.T) {
	entries, corpus := rankerCorpus()
	ranker := NewRanker(scoring.NewScorer(scoring.DefaultParams()))

	first, firstStrategy := ranker.Rank(corpus, entries, "deploy fastapi aws", testNow, DefaultOptions())

	for i := 0; i < 5; i++ {
		again, strategy := ranker.Rank(corpus, entries, "deploy fastapi aws", testNow, DefaultOptions())
		require.Equal(t, firstStrategy, strategy)
		require.Len(t, again, len(first))
		for j := range again {
			assert.Equal(t, first[j].Entry.ID, again[j].Entry.ID)
			assert.Equal(t, first[j].FinalScore, again[j].FinalScore)
		}
	}
}

func TestRank_SimilarityCarriedForExplainability(t *testing.T) {
	entries, corpus := rankerCorpus()
	ranker := NewRanker(scoring.NewScorer(scoring.DefaultParams()))

	results, _ := ranker.Rank(corpus, entries, "deploy fastapi aws", testNow, DefaultOptions())

	require.NotEmpty(t, results)
	top := results[0]
	assert.Greater(t, top.Similarity, 0.0)
	opts := DefaultOptions()
	assert.InDelta(t, opts.SimilarityWeight*top.Similarity+opts.QualityWeight*top.QualityScore, top.FinalScore, 1e-9)
}

func TestRank_FallsBackOnTinyCorpus(t *testing.T) {
	entries := []database.HiveKnowledgeEntry{
		{ID: "only", Title: "Deploy FastAPI", Content: "deployment notes", CreatedAt: testNow},
	}
	corpus := text.BuildCorpus(entries)
	ranker := NewRanker(scoring.NewScorer(scoring.DefaultParams()))

	results, strategy := ranker.Rank(corpus, entries, "deploy", testNow, DefaultOptions())

	assert.Equal(t, StrategyKeyword, strategy)
	require.Len(t, results, 1)
	assert.Equal(t, "only", results[0].Entry.ID)
	assert.Greater(t, results[0].Similarity, 0.0)
}

func TestRank_FallsBackWhenQuerySharesNoTerms(t *testing.T) {
	entries, corpus := rankerCorpus()
	ranker := NewRanker(scoring.NewScorer(scoring.DefaultParams()))

	// Query shares no terms with the corpus: the fallback still runs and
	// reports the keyword strategy rather than failing silently.
	results, strategy := ranker.Rank(corpus, entries, "zeppelin telemetry", testNow, DefaultOptions())

	assert.Equal(t, StrategyKeyword, strategy)
	assert.Empty(t, results)
}

func TestRank_MinQualityFilters(t *testing.T) {
	entries, corpus := rankerCorpus()
	ranker := NewRanker(scoring.NewScorer(scoring.DefaultParams()))

	opts := DefaultOptions()
	opts.MinQuality = 0.5

	results, _ := ranker.Rank(corpus, entries, "redis caching", testNow, opts)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.QualityScore, 0.5)
	}
}

func TestRank_LimitRespected(t *testing.T) {
	entries, corpus := rankerCorpus()
	ranker := NewRanker(scoring.NewScorer(scoring.DefaultParams()))

	opts := DefaultOptions()
	opts.Limit = 1

	results, _ := ranker.Rank(corpus, entries, "password redis service deploy", testNow, opts)
	assert.LessOrEqual(t, len(results), 1)
}

func TestRank_QualityCanOutrankRawRelevance(t *testing.T) {
	entries := []database.HiveKnowledgeEntry{
		{
			ID:        "relevant-junk",
			Title:     "kafka kafka kafka tuning",
			Content:   "kafka kafka kafka kafka",
			CreatedAt: testNow,
		},
		{
			ID:          "quality-match",
			Title:       "Kafka consumer tuning guide",
			Description: "Partition and batch sizing",
			Content:     "Thorough guide to kafka consumer throughput tuning in production.",
			CreatedAt:   testNow.AddDate(0, -3, 0),
			UsageCount:  90,
			Upvotes:     45,
			Verified:    true,
			SuccessRate: floatPtr(0.95),
		},
		{
			ID:        "unrelated",
			Title:     "Postgres vacuum",
			Content:   "autovacuum settings",
			CreatedAt: testNow,
		},
	}
	corpus := text.BuildCorpus(entries)
	ranker := NewRanker(scoring.NewScorer(scoring.DefaultParams()))

	results, strategy := ranker.Rank(corpus, entries, "kafka tuning guide", testNow, DefaultOptions())

	require.Equal(t, StrategyVector, strategy)
	require.NotEmpty(t, results)
	assert.Equal(t, "quality-match", results[0].Entry.ID,
		"a high-quality moderately-relevant entry should outrank keyword-stuffed junk")
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivemind-ai/intelligence/internal/database"
)

func testEntries() []database.HiveKnowledgeEntry {
	return []database.HiveKnowledgeEntry{
		{ID: "deploy", Title: "How to Deploy FastAPI to AWS ECS Fargate", Description: "Container deployment walkthrough", Content: "Build the image, push to ECR, create the ECS service."},
		{ID: "bcrypt", Title: "bcrypt password hashing", Description: "Secure password storage", Content: "Use bcrypt with a work factor of 12 for password hashes."},
		{ID: "cache", Title: "Redis caching patterns", Description: "Cache aside and write through", Content: "Redis works well for read-heavy caching workloads."},
	}
}

func TestBuildCorpus_SizeAndTerms(t *testing.T) {
	corpus := BuildCorpus(testEntries())

	assert.Equal(t, 3, corpus.Size())
	assert.Greater(t, corpus.TermCount(), 0)
	assert.Len(t, corpus.Vectors, 3)
}

func TestBuildCorpus_TitleWeighting(t *testing.T) {
	corpus := BuildCorpus(testEntries())

	vec := corpus.Vectors["deploy"]
	require.NotNil(t, vec)

	// "fastapi" appears once in the title (weight 3), "image" once in the
	// content (weight 1); both are unique to this doc so idf is equal.
	assert.Greater(t, vec["fastapi"], vec["image"])
}

func TestBuildCorpus_CommonTermGetsZeroIDF(t *testing.T) {
	entries := []database.HiveKnowledgeEntry{
		{ID: "a", Title: "kubernetes"},
		{ID: "b", Title: "kubernetes"},
	}
	corpus := BuildCorpus(entries)

	// Term present in every document: idf = log(2/2) = 0, so it is
	// dropped from the vectors entirely.
	assert.NotContains(t, corpus.Vectors["a"], "kubernetes")
}

func TestVectorizeQuery_SkipsUnknownTerms(t *testing.T) {
	corpus := BuildCorpus(testEntries())

	vec := corpus.VectorizeQuery("deploy fastapi quantum")
	assert.Contains(t, vec, "fastapi")
	assert.NotContains(t, vec, "quantum")
}

func TestSimilarity_RanksRelevantEntryHigher(t *testing.T) {
	corpus := BuildCorpus(testEntries())
	query := corpus.VectorizeQuery("deploy fastapi aws")

	simDeploy := corpus.Similarity(query, "deploy")
	simBcrypt := corpus.Similarity(query, "bcrypt")

	assert.Greater(t, simDeploy, simBcrypt)
	assert.GreaterOrEqual(t, simDeploy, 0.0)
	assert.LessOrEqual(t, simDeploy, 1.0000001)
}

func TestCosine_ZeroNormIsZero(t *testing.T) {
	a := Vector{}
	b := Vector{"x": 1}

	assert.Equal(t, 0.0, CosineVectors(a, b))
	assert.Equal(t, 0.0, CosineVectors(b, a))
}

func TestCosine_IdenticalVectors(t *testing.T) {
	v := Vector{"x": 2, "y": 3}
	assert.InDelta(t, 1.0, CosineVectors(v, v), 1e-9)
}

func TestSimilarity_UnknownEntryIsZero(t *testing.T) {
	corpus := BuildCorpus(testEntries())
	query := corpus.VectorizeQuery("deploy")
	assert.Equal(t, 0.0, corpus.Similarity(query, "missing"))
}

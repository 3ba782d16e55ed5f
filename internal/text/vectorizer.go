// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package text

import (
	"math"

	"github.com/hivemind-ai/intelligence/internal/database"
)

// Field weights applied before term frequencies are computed. A match in
// the title counts three times as much as one in the body.
const (
	TitleWeight       = 3.0
	DescriptionWeight = 2.0
	ContentWeight     = 1.0
)

// Vector is a sparse term -> weight map
type Vector map[string]float64

// Norm returns the Euclidean norm of the vector
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Corpus holds the TF-IDF model over one entry snapshot. It is rebuilt per
// snapshot; corpora are small enough that incremental updates are not worth
// their complexity.
type Corpus struct {
	Vectors map[string]Vector // entry id -> tf-idf vector
	idf     map[string]float64
	norms   map[string]float64
	size    int
}

// BuildCorpus computes field-weighted term frequencies per entry and a
// single IDF table over the whole snapshot. df is floored at 1 so idf
// never divides by zero.
func BuildCorpus(entries []database.HiveKnowledgeEntry) *Corpus {
	n := len(entries)

	termFreqs := make(map[string]map[string]float64, n)
	docFreq := make(map[string]int)

	for i := range entries {
		entry := &entries[i]
		tf := make(map[string]float64)

		addTerms(tf, Tokenize(entry.Title), TitleWeight)
		addTerms(tf, Tokenize(entry.Description), DescriptionWeight)
		addTerms(tf, Tokenize(entry.Content), ContentWeight)

		for term := range tf {
			docFreq[term]++
		}
		termFreqs[entry.ID] = tf
	}

	idf := make(map[string]float64, len(docFreq))
	for term, df := range docFreq {
		if df < 1 {
			df = 1
		}
		idf[term] = math.Log(float64(n) / float64(df))
	}

	vectors := make(map[string]Vector, n)
	norms := make(map[string]float64, n)
	for id, tf := range termFreqs {
		vec := make(Vector, len(tf))
		for term, freq := range tf {
			if w := freq * idf[term]; w > 0 {
				vec[term] = w
			}
		}
		vectors[id] = vec
		norms[id] = vec.Norm()
	}

	return &Corpus{
		Vectors: vectors,
		idf:     idf,
		norms:   norms,
		size:    n,
	}
}

// addTerms accumulates weighted counts for a token sequence
func addTerms(tf map[string]float64, tokens []string, weight float64) {
	for _, tok := range tokens {
		tf[tok] += weight
	}
}

// Size returns the number of documents in the corpus
func (c *Corpus) Size() int {
	return c.size
}

// TermCount returns the number of distinct indexed terms
func (c *Corpus) TermCount() int {
	return len(c.idf)
}

// VectorizeQuery maps a query onto the corpus IDF table. Terms the corpus
// has never seen carry no weight and are skipped.
func (c *Corpus) VectorizeQuery(query string) Vector {
	tf := make(map[string]float64)
	addTerms(tf, Tokenize(query), 1.0)

	vec := make(Vector)
	for term, freq := range tf {
		idf, ok := c.idf[term]
		if !ok || idf <= 0 {
			continue
		}
		vec[term] = freq * idf
	}
	return vec
}

// Similarity returns the cosine similarity between a query vector and the
// stored vector for the given entry id, in [0,1] for non-negative weights.
func (c *Corpus) Similarity(query Vector, entryID string) float64 {
	doc, ok := c.Vectors[entryID]
	if !ok {
		return 0
	}
	return Cosine(query, query.Norm(), doc, c.norms[entryID])
}

// Cosine computes cosine similarity given both vectors and their
// precomputed norms. Zero-norm vectors yield 0, never NaN.
func Cosine(a Vector, normA float64, b Vector, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}

	// Iterate the smaller vector
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for term, w := range a {
		if bw, ok := b[term]; ok {
			dot += w * bw
		}
	}
	return dot / (normA * normB)
}

// CosineVectors is a convenience wrapper computing norms on the fly
func CosineVectors(a, b Vector) float64 {
	return Cosine(a, a.Norm(), b, b.Norm())
}

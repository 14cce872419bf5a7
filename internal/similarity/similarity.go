// Package similarity fuses cosine similarity over TF-IDF vectors with
// weighted Jaccard similarity over RAKE scores into one ranked candidate
// list, with a recency bonus for the most recently written document.
package similarity

import (
	"math"
	"sort"

	"github.com/starford/ansuz/internal/rake"
	"github.com/starford/ansuz/internal/tfidf"
)

// Weights controls the linear combination of the two signals.
type Weights struct {
	// Cosine is the blend factor w: combined = w*cosine + (1-w)*jaccard.
	Cosine float64
	// RecencyBias is added to the document currently flagged latest.
	RecencyBias float64
}

// Candidate is one scored document.
type Candidate struct {
	Name  string
	Score float64
}

// Cosine returns the cosine similarity of two sparse vectors over the union
// of their keys. Zero when either vector has zero norm.
func Cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for k, av := range a {
		dot += av * b[k]
		na += av * av
	}
	for _, bv := range b {
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// WeightedJaccard returns the ratio of summed element-wise minimums to summed
// element-wise maximums over the key union. When both score sets carry no
// mass the ratio is undefined; it is reported as 0 rather than NaN.
func WeightedJaccard(a, b map[string]float64) float64 {
	var minSum, maxSum float64
	for k, av := range a {
		bv := b[k]
		minSum += math.Min(av, bv)
		maxSum += math.Max(av, bv)
	}
	for k, bv := range b {
		if _, ok := a[k]; ok {
			continue
		}
		maxSum += bv
	}
	if maxSum == 0 {
		return 0
	}
	return minSum / maxSum
}

// Rank scores the input against every document present in either corpus map
// and returns candidates sorted by descending combined score. Ties keep
// lexical name order so results are deterministic.
func Rank(input tfidf.Vector, keywords rake.Scores, docs map[string]tfidf.Vector, docKeywords map[string]rake.Scores, latest string, w Weights) []Candidate {
	names := make(map[string]struct{}, len(docs))
	for name := range docs {
		names[name] = struct{}{}
	}
	for name := range docKeywords {
		names[name] = struct{}{}
	}

	out := make([]Candidate, 0, len(names))
	for name := range names {
		score := w.Cosine*Cosine(input, docs[name]) +
			(1-w.Cosine)*WeightedJaccard(keywords, docKeywords[name])
		if name == latest {
			score += w.RecencyBias
		}
		out = append(out, Candidate{Name: name, Score: score})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}

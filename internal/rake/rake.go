// Package rake implements Rapid Automatic Keyword Extraction over
// pre-normalized candidate phrases. A word's score is its co-occurrence
// degree divided by its raw frequency, which favors words that appear in
// longer phrase contexts; a phrase's score is the sum of its word scores.
package rake

import "strings"

// Scores maps a key to its RAKE score. A key is either a single stemmed word
// or a full multi-word candidate phrase: both kinds share one map. The
// weighted Jaccard comparison downstream depends on phrase keys coexisting
// with their constituent word keys, so the two are deliberately not split.
type Scores map[string]float64

// Score computes RAKE scores for one document-worth of candidate phrases.
func Score(phrases []string) Scores {
	degree := make(map[string]float64)
	freq := make(map[string]float64)
	for _, p := range phrases {
		words := strings.Fields(p)
		for _, w := range words {
			degree[w] += float64(len(words))
			freq[w]++
		}
	}

	scores := make(Scores, len(degree)+len(phrases))
	for _, p := range phrases {
		for _, w := range strings.Fields(p) {
			scores[p] += degree[w] / freq[w]
		}
	}
	// Word scores overlay phrase scores on key collision (a single-word
	// phrase and its word share a key).
	for w, d := range degree {
		scores[w] = d / freq[w]
	}
	return scores
}

// CorpusScores applies Score per document.
func CorpusScores(corpus map[string][]string) map[string]Scores {
	out := make(map[string]Scores, len(corpus))
	for name, phrases := range corpus {
		out[name] = Score(phrases)
	}
	return out
}

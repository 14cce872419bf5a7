// Package tfidf scores stemmed terms by frequency within a document weighted
// by rarity across the corpus. Vocabulary is the union of all terms seen in
// any corpus document; terms outside it carry an implicit zero.
package tfidf

import "math"

// Vector is a sparse TF-IDF vector keyed by stemmed term.
type Vector map[string]float64

// documentFrequency returns, for every vocabulary term, the number of corpus
// documents containing it at least once.
func documentFrequency(corpus map[string][]string) map[string]int {
	df := make(map[string]int)
	for _, tokens := range corpus {
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			seen[t] = struct{}{}
		}
		for t := range seen {
			df[t]++
		}
	}
	return df
}

func vector(tokens []string, df map[string]int, n int) Vector {
	counts := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	total := float64(len(tokens))

	vec := make(Vector, len(df))
	for term, docs := range df {
		var tf float64
		if total > 0 {
			tf = counts[term] / total
		}
		vec[term] = tf * math.Log(float64(n)/float64(docs))
	}
	return vec
}

// CorpusVectors computes one vector per corpus document over the full
// corpus vocabulary.
func CorpusVectors(corpus map[string][]string) map[string]Vector {
	df := documentFrequency(corpus)
	n := len(corpus)

	out := make(map[string]Vector, n)
	for name, tokens := range corpus {
		out[name] = vector(tokens, df, n)
	}
	return out
}

// DocumentVector scores an input token list against the corpus vocabulary.
// Term frequency is computed over the input's own tokens; inverse document
// frequency over the corpus.
func DocumentVector(tokens []string, corpus map[string][]string) Vector {
	return vector(tokens, documentFrequency(corpus), len(corpus))
}

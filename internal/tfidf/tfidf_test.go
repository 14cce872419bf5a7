package tfidf

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCorpusVectors_SharedTermScoresZero(t *testing.T) {
	// "common" appears in every document, so idf = ln(2/2) = 0.
	corpus := map[string][]string{
		"a": {"common", "alpha"},
		"b": {"common", "beta"},
	}
	vecs := CorpusVectors(corpus)
	if !almostEqual(vecs["a"]["common"], 0) {
		t.Errorf("common in a = %v, want 0", vecs["a"]["common"])
	}
	// "alpha" is unique to a: tf 1/2, idf ln(2).
	want := 0.5 * math.Log(2)
	if !almostEqual(vecs["a"]["alpha"], want) {
		t.Errorf("alpha in a = %v, want %v", vecs["a"]["alpha"], want)
	}
}

func TestCorpusVectors_FullVocabulary(t *testing.T) {
	corpus := map[string][]string{
		"a": {"alpha"},
		"b": {"beta"},
	}
	vecs := CorpusVectors(corpus)
	// Every vector covers the union vocabulary; absent terms score 0.
	if _, ok := vecs["a"]["beta"]; !ok {
		t.Fatal("vector for a missing vocabulary term beta")
	}
	if !almostEqual(vecs["a"]["beta"], 0) {
		t.Errorf("beta in a = %v, want 0", vecs["a"]["beta"])
	}
}

func TestCorpusVectors_TermFrequencyWeighting(t *testing.T) {
	corpus := map[string][]string{
		"a": {"alpha", "alpha", "other", "other"},
		"b": {"beta"},
	}
	vecs := CorpusVectors(corpus)
	want := 0.5 * math.Log(2) // tf = 2/4, idf = ln(2/1)
	if !almostEqual(vecs["a"]["alpha"], want) {
		t.Errorf("alpha in a = %v, want %v", vecs["a"]["alpha"], want)
	}
}

func TestDocumentVector_UsesCorpusVocabulary(t *testing.T) {
	corpus := map[string][]string{
		"a": {"alpha", "beta"},
		"b": {"beta"},
	}
	vec := DocumentVector([]string{"alpha", "novel"}, corpus)
	// "novel" is outside the corpus vocabulary and must be absent.
	if _, ok := vec["novel"]; ok {
		t.Error("out-of-vocabulary term should not appear in the vector")
	}
	want := 0.5 * math.Log(2) // tf 1/2 over input tokens, idf ln(2/1)
	if !almostEqual(vec["alpha"], want) {
		t.Errorf("alpha = %v, want %v", vec["alpha"], want)
	}
}

func TestDocumentVector_EmptyInput(t *testing.T) {
	corpus := map[string][]string{"a": {"alpha"}}
	vec := DocumentVector(nil, corpus)
	if !almostEqual(vec["alpha"], 0) {
		t.Errorf("alpha = %v, want 0 for empty input", vec["alpha"])
	}
}

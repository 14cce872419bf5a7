// Package textproc normalizes raw snippet text into the two token streams
// the scoring layers consume: a flat stemmed term list for TF-IDF and a
// candidate phrase list for RAKE.
package textproc

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"
)

var punctRE = regexp.MustCompile(`[[:punct:]]+`)

// cleanFields lowercases text, strips punctuation runs, and splits on
// whitespace. Both token streams start from this.
func cleanFields(text string) []string {
	lower := strings.ToLower(text)
	return strings.Fields(punctRE.ReplaceAllString(lower, ""))
}

// Tokens produces the TF-IDF term stream: stopwords dropped, every remaining
// token stemmed. Order and duplicates are preserved since term frequency
// matters downstream.
func Tokens(text string, stop Stopwords) []string {
	fields := cleanFields(text)
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if stop.Has(w) {
			continue
		}
		out = append(out, english.Stem(w, true))
	}
	return out
}

// Phrases produces the RAKE candidate phrase stream. Every token is stemmed
// first (stopwords included), then the stream is split at stopword
// boundaries: each run of non-stopword tokens becomes one space-joined
// candidate phrase.
func Phrases(text string, stop Stopwords) []string {
	var phrases []string
	var phrase []string
	for _, w := range cleanFields(text) {
		w = english.Stem(w, true)
		if stop.Has(w) {
			if len(phrase) > 0 {
				phrases = append(phrases, strings.Join(phrase, " "))
				phrase = phrase[:0]
			}
			continue
		}
		phrase = append(phrase, w)
	}
	if len(phrase) > 0 {
		phrases = append(phrases, strings.Join(phrase, " "))
	}
	out := phrases[:0]
	for _, p := range phrases {
		if stop.Has(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FirstLine returns the first non-blank line of text, trimmed. It names
// documents created from untitled snippets.
func FirstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return strings.TrimSpace(text)
}

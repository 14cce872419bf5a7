package textproc

// Stopwords is a set of words excluded from term extraction and used as
// phrase boundaries for keyword extraction.
type Stopwords map[string]struct{}

// Has reports whether w is a stopword.
func (s Stopwords) Has(w string) bool {
	_, ok := s[w]
	return ok
}

// DefaultStopwords returns a common English stopword set.
// No globals: callers inject the set so tests can use a smaller one.
func DefaultStopwords() Stopwords {
	ws := []string{
		"a", "an", "the", "and", "or", "but",
		"to", "in", "of", "on", "for", "with", "as", "at", "by", "from",
		"is", "are", "was", "were", "be", "been", "being", "am",
		"this", "that", "these", "those", "it", "its", "itself",
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves",
		"you", "your", "yours", "yourself", "yourselves",
		"he", "him", "his", "himself", "she", "her", "hers", "herself",
		"they", "them", "their", "theirs", "themselves",
		"what", "which", "who", "whom", "whose",
		"do", "does", "did", "doing",
		"have", "has", "had", "having",
		"not", "no", "nor", "only", "very", "too", "just",
		"can", "could", "should", "would", "may", "might", "must", "will", "shall",
		"if", "then", "else", "than", "so", "because", "while", "when", "where", "how",
		"about", "above", "below", "under", "over", "into", "out", "up", "down",
		"again", "further", "once", "here", "there", "all", "any", "both",
		"each", "few", "more", "most", "other", "some", "such", "own", "same",
	}
	m := make(Stopwords, len(ws))
	for _, w := range ws {
		m[w] = struct{}{}
	}
	return m
}

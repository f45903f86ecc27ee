package main

import (
	"strings"
	"sync"
)

// Small hand-written stopword list (English + common Italian articles
// and prepositions), matching the bilingual course catalog.
var stopwords = map[string]bool{
	// English
	"and": true, "or": true, "the": true, "a": true, "an": true,
	"for": true, "of": true, "in": true, "on": true, "to": true,
	"with": true, "by": true, "from": true, "at": true, "is": true,
	"are": true, "be": true,
	// Italian
	"di": true, "la": true, "il": true, "lo": true, "le": true,
	"i": true, "gli": true, "un": true, "una": true, "uno": true,
	"degli": true, "delle": true, "dei": true, "del": true,
	"della": true, "dell": true,
}

func isWordRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
		return true
	}
	// Extended Latin accented letters (À-ÖØ-öø-ÿ)
	if r >= 0x00C0 && r <= 0x00FF && r != 0x00D7 && r != 0x00F7 {
		return true
	}
	return false
}

// Tokenize lowercases the input, extracts maximal runs of alphanumeric
// characters (including accented Latin letters), drops stopwords and
// tokens shorter than 2 characters, and strips a trailing "s" from
// tokens longer than 3 characters to fold naive plurals.
func Tokenize(text string) map[string]bool {
	text = strings.ToLower(text)

	result := make(map[string]bool)
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		token := current.String()
		current.Reset()

		if stopwords[token] {
			return
		}
		if len([]rune(token)) < 2 {
			return
		}
		if strings.HasSuffix(token, "s") && len([]rune(token)) > 3 {
			token = strings.TrimSuffix(token, "s")
		}
		result[token] = true
	}

	for _, r := range text {
		if isWordRune(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return result
}

// TokenizePhrase tokenizes a short free-text phrase (interest, goal, ...).
func TokenizePhrase(phrase string) map[string]bool {
	return Tokenize(phrase)
}

// tokenCache memoizes CourseTokens on the exact (name, description)
// pair. Graph construction calls it once per course pair, so without a
// cache the same course would be re-tokenized O(n) times. Safe for
// concurrent use; the cached sets must be treated as read-only.
type tokenCache struct {
	mu      sync.RWMutex
	entries map[string]map[string]bool
	maxSize int
}

var courseTokenCache = &tokenCache{
	entries: make(map[string]map[string]bool),
	maxSize: 2048,
}

// CourseTokens returns the token set of "name + description", memoized.
func CourseTokens(name, description string) map[string]bool {
	key := name + "\x00" + description

	courseTokenCache.mu.RLock()
	cached, ok := courseTokenCache.entries[key]
	courseTokenCache.mu.RUnlock()
	if ok {
		return cached
	}

	tokens := Tokenize(name + " " + description)

	courseTokenCache.mu.Lock()
	if len(courseTokenCache.entries) >= courseTokenCache.maxSize {
		// Cheap full reset; the cache refills within one graph build.
		courseTokenCache.entries = make(map[string]map[string]bool)
	}
	courseTokenCache.entries[key] = tokens
	courseTokenCache.mu.Unlock()

	return tokens
}

// JaccardSimilarity computes |A∩B| / |A∪B| between two token sets.
// Returns 0 when either set is empty or the intersection is empty.
func JaccardSimilarity(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	inter := 0
	for token := range a {
		if b[token] {
			inter++
		}
	}
	if inter == 0 {
		return 0.0
	}

	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// tokenOverlapCoverage computes |tokens ∩ query| / |query|: the share of
// the query tokens found in the course token set.
func tokenOverlapCoverage(tokens, query map[string]bool) float64 {
	if len(tokens) == 0 || len(query) == 0 {
		return 0.0
	}

	matched := 0
	for q := range query {
		if tokens[q] {
			matched++
		}
	}
	return float64(matched) / float64(len(query))
}

// tokensIntersect reports whether two token sets share any token.
func tokensIntersect(a, b map[string]bool) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for token := range a {
		if b[token] {
			return true
		}
	}
	return false
}

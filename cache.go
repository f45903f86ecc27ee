package main

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// normalizeProfileForKey returns a canonical form of the profile for
// stable hashing: list fields deduped, lowercased and sorted, string
// fields trimmed and lowercased, empty fields dropped.
func normalizeProfileForKey(profile StudentProfile) map[string]any {
	normalized := make(map[string]any)

	addList := func(key string, values []string) {
		seen := make(map[string]bool)
		var out []string
		for _, v := range values {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != "" && !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
		if len(out) > 0 {
			sort.Strings(out)
			normalized[key] = out
		}
	}

	addString := func(key, value string) {
		value = strings.ToLower(strings.TrimSpace(value))
		if value != "" {
			normalized[key] = value
		}
	}

	addList("interests", profile.Interests)
	addList("goals", profile.Goals)
	addList("avoid", profile.Avoid)
	addList("preferred_exam_types", profile.PreferredExamTypes)
	addList("liked_courses", profile.LikedCourses)
	addList("disliked_courses", profile.DislikedCourses)
	addString("language_preference", profile.LanguagePreference)
	addString("workload_tolerance", profile.WorkloadTolerance)

	return normalized
}

// ProfileCacheKey builds a SHA-256 key over the canonical profile and
// the ranking parameters.
func ProfileCacheKey(profile StudentProfile, topK int) string {
	payload := map[string]any{
		"profile": normalizeProfileForKey(profile),
		"params":  map[string]any{"top_k": topK},
	}
	// Map keys serialize in sorted order, so the payload is stable.
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// RankingCache is a small bounded FIFO cache for ranking results.
// Not safe for concurrent use on its own; callers hold their own lock.
type RankingCache struct {
	maxSize int
	entries map[string][]RankedCourse
	order   []string
}

// NewRankingCache creates a cache bounded to maxSize entries.
func NewRankingCache(maxSize int) *RankingCache {
	if maxSize <= 0 {
		maxSize = 128
	}
	return &RankingCache{
		maxSize: maxSize,
		entries: make(map[string][]RankedCourse),
	}
}

// Get returns the cached result for key, or nil.
func (c *RankingCache) Get(key string) []RankedCourse {
	return c.entries[key]
}

// Set stores a result. Updating an existing key does not move it in
// FIFO order; inserting past capacity evicts the oldest entry.
func (c *RankingCache) Set(key string, value []RankedCourse) {
	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}

	if len(c.entries) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = value
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *RankingCache) Len() int {
	return len(c.entries)
}

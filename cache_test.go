package main

import "testing"

func TestProfileCacheKeyStable(t *testing.T) {
	a := StudentProfile{
		Interests:          []string{"Machine Learning", "graphs"},
		LikedCourses:       []string{"B", "A"},
		LanguagePreference: "en",
	}
	b := StudentProfile{
		Interests:          []string{"graphs", "machine learning", "Machine Learning"},
		LikedCourses:       []string{"a", "b"},
		LanguagePreference: "EN ",
	}

	if ProfileCacheKey(a, 10) != ProfileCacheKey(b, 10) {
		t.Error("equivalent profiles produced different keys")
	}
	if ProfileCacheKey(a, 10) == ProfileCacheKey(a, 5) {
		t.Error("different top_k produced the same key")
	}

	c := a
	c.DislikedCourses = []string{"X"}
	if ProfileCacheKey(a, 10) == ProfileCacheKey(c, 10) {
		t.Error("different profiles produced the same key")
	}
}

func TestProfileCacheKeyDropsEmptyFields(t *testing.T) {
	a := StudentProfile{Interests: []string{"ai"}}
	b := StudentProfile{
		Interests:       []string{"ai", "", "  "},
		Goals:           []string{},
		DislikedCourses: []string{""},
	}
	if ProfileCacheKey(a, 10) != ProfileCacheKey(b, 10) {
		t.Error("empty fields affected the cache key")
	}
}

func TestRankingCacheFIFO(t *testing.T) {
	cache := NewRankingCache(2)

	r1 := []RankedCourse{{Code: "A"}}
	r2 := []RankedCourse{{Code: "B"}}
	r3 := []RankedCourse{{Code: "C"}}

	cache.Set("k1", r1)
	cache.Set("k2", r2)
	if cache.Len() != 2 {
		t.Fatalf("len = %d, want 2", cache.Len())
	}

	// Updating an existing key must not change eviction order.
	cache.Set("k1", r1)

	cache.Set("k3", r3)
	if cache.Get("k1") != nil {
		t.Error("oldest entry k1 not evicted")
	}
	if cache.Get("k2") == nil || cache.Get("k3") == nil {
		t.Error("recent entries evicted")
	}
}

func TestRankingCacheMiss(t *testing.T) {
	cache := NewRankingCache(4)
	if got := cache.Get("missing"); got != nil {
		t.Errorf("miss returned %v", got)
	}
}

package main

import (
	"fmt"
	"sync/atomic"
)

// Snapshot is the immutable process-wide state built once at startup:
// the course catalog, its similarity graph and the global PageRank
// vector. Ranking and view requests are pure functions of a Snapshot
// plus their own inputs, so they can run concurrently without locks.
type Snapshot struct {
	Courses        []Course
	ByCode         map[string]Course
	Graph          Adjacency
	GlobalPagerank map[string]float64
}

// BuildSnapshot constructs a complete snapshot from a course list.
// Nothing in the result is mutated afterwards.
func BuildSnapshot(courses []Course, config GraphConfig) *Snapshot {
	byCode := make(map[string]Course, len(courses))
	for _, c := range courses {
		if c.Code != "" {
			byCode[c.Code] = c
		}
	}

	graph := BuildCourseGraph(courses, config)

	return &Snapshot{
		Courses:        courses,
		ByCode:         byCode,
		Graph:          graph,
		GlobalPagerank: GlobalPagerank(graph),
	}
}

// SnapshotHolder hands out the current snapshot and swaps in a fully
// built replacement atomically on reload. Readers never observe a
// half-initialized state.
type SnapshotHolder struct {
	current atomic.Pointer[Snapshot]
}

// Load returns the current snapshot, or an error before initialization.
func (h *SnapshotHolder) Load() (*Snapshot, error) {
	snap := h.current.Load()
	if snap == nil {
		return nil, fmt.Errorf("course data not initialized")
	}
	return snap, nil
}

// Swap installs a new snapshot. Requests in flight keep the one they
// already loaded.
func (h *SnapshotHolder) Swap(snap *Snapshot) {
	h.current.Store(snap)
}

// InitFromFile loads the course catalog from disk, builds a snapshot
// and installs it. Safe to call again for a full data reload.
func (h *SnapshotHolder) InitFromFile(path string, config GraphConfig) (*Snapshot, error) {
	courses, err := LoadCourses(path)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	snap := BuildSnapshot(courses, config)
	h.Swap(snap)
	return snap, nil
}

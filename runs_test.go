package main

import (
	"path/filepath"
	"testing"
)

func openTestRunStore(t *testing.T) *RunStore {
	t.Helper()
	store, err := OpenRunStore(filepath.Join(t.TempDir(), "data", "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunStoreRoundTrip(t *testing.T) {
	store := openTestRunStore(t)

	payload := RunPayload{
		Profile: StudentProfile{Interests: []string{"machine learning"}},
		TopK:    5,
		Recommendations: []CourseRecommendation{
			{Code: "CS101", Name: "Intro to Programming", Score: 0.42},
		},
	}

	runID, err := store.CreateRun(payload)
	if err != nil {
		t.Fatal(err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	record, err := store.GetRun(runID)
	if err != nil {
		t.Fatal(err)
	}
	if record == nil {
		t.Fatal("stored run not found")
	}
	if record.RunID != runID {
		t.Errorf("run id = %q, want %q", record.RunID, runID)
	}
	if record.Timestamp.IsZero() {
		t.Error("timestamp not recorded")
	}
	if record.Payload.TopK != 5 {
		t.Errorf("top_k = %d, want 5", record.Payload.TopK)
	}
	if len(record.Payload.Recommendations) != 1 || record.Payload.Recommendations[0].Code != "CS101" {
		t.Errorf("recommendations = %v, payload not preserved", record.Payload.Recommendations)
	}
}

func TestRunStoreUnknownID(t *testing.T) {
	store := openTestRunStore(t)

	record, err := store.GetRun("no-such-run")
	if err != nil {
		t.Fatal(err)
	}
	if record != nil {
		t.Errorf("unknown id returned %v", record)
	}
}

func TestRunStoreDistinctIDs(t *testing.T) {
	store := openTestRunStore(t)

	first, err := store.CreateRun(RunPayload{TopK: 1})
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.CreateRun(RunPayload{TopK: 2})
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two runs got the same id")
	}
}

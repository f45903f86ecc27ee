package main

import (
	"math"
	"testing"
)

func TestBuildSnapshot(t *testing.T) {
	courses := []Course{
		testCourse("A", "Algorithms", "GROUP1", nil, "graphs and sorting"),
		testCourse("B", "Advanced Algorithms", "GROUP1", nil, "flows and matchings"),
		testCourse("", "Nameless", "GROUP2", nil, "unlabelled record"),
	}

	snap := BuildSnapshot(courses, DefaultGraphConfig())

	if len(snap.Courses) != 3 {
		t.Errorf("courses = %d, want all inputs kept", len(snap.Courses))
	}
	if len(snap.ByCode) != 2 {
		t.Errorf("byCode = %d, want empty codes skipped", len(snap.ByCode))
	}
	if _, ok := snap.ByCode["A"]; !ok {
		t.Error("course A missing from index")
	}
	if _, ok := snap.Graph["A"]; !ok {
		t.Error("course A missing from graph")
	}

	if sum := vectorSum(snap.GlobalPagerank); math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("global pagerank sums to %v, want 1", sum)
	}
}

func TestSnapshotHolderLoadBeforeInit(t *testing.T) {
	var holder SnapshotHolder
	if _, err := holder.Load(); err == nil {
		t.Error("Load before init did not error")
	}
}

func TestSnapshotHolderSwap(t *testing.T) {
	var holder SnapshotHolder

	first := BuildSnapshot([]Course{testCourse("A", "Algorithms", "GROUP1", nil, "graphs and sorting")}, DefaultGraphConfig())
	holder.Swap(first)

	got, err := holder.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got != first {
		t.Error("Load returned a different snapshot than the one installed")
	}

	second := BuildSnapshot([]Course{testCourse("B", "Databases", "GROUP1", nil, "relational models")}, DefaultGraphConfig())
	holder.Swap(second)

	got, err = holder.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got != second {
		t.Error("swap did not install the new snapshot")
	}
	if _, ok := got.ByCode["B"]; !ok {
		t.Error("new snapshot missing its course")
	}
}

func TestSnapshotHolderInitFromFile(t *testing.T) {
	path := writeCatalog(t, `[
		{"code": "A", "name": "Algorithms", "language": "EN", "group": "GROUP1", "description": "graphs and sorting"},
		{"code": "B", "name": "Databases", "language": "EN", "group": "GROUP1", "description": "relational models"}
	]`)

	var holder SnapshotHolder
	snap, err := holder.InitFromFile(path, DefaultGraphConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Courses) != 2 {
		t.Fatalf("courses = %d, want 2", len(snap.Courses))
	}

	loaded, err := holder.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded != snap {
		t.Error("holder did not install the snapshot it returned")
	}

	if _, err := holder.InitFromFile(path+".missing", DefaultGraphConfig()); err == nil {
		t.Error("missing file did not error")
	}
	if still, _ := holder.Load(); still != snap {
		t.Error("failed reload replaced the current snapshot")
	}
}

package main

import (
	"math"
	"path/filepath"
	"reflect"
	"testing"
)

func testCourse(code, name, group string, ssd []string, description string) Course {
	return Course{
		Code:        code,
		Name:        name,
		CFU:         5,
		Semester:    1,
		Language:    "EN",
		Group:       group,
		SSD:         ssd,
		Description: description,
	}
}

func TestBuildCourseGraphScenario(t *testing.T) {
	// A and B share a group; B and C share SSD INF/01; A and C share
	// nothing. Descriptions are chosen to stay below the text
	// similarity threshold.
	courses := []Course{
		testCourse("A", "Alpha", "METHODS", nil, "tensor calculus foundations"),
		testCourse("B", "Beta", "METHODS", []string{"INF/01"}, "compiler construction internals"),
		testCourse("C", "Gamma", "SYSTEMS", []string{"INF/01"}, "operating kernels scheduling"),
	}
	config := GraphConfig{WGroup: 0.6, WSSD: 0.9, WText: 1.0, TextSimThreshold: 0.18, MinEdgeWeight: 0.2}

	graph := BuildCourseGraph(courses, config)

	if w := graph["A"]["B"]; math.Abs(w-0.6) > 1e-9 {
		t.Errorf("A-B weight = %v, want 0.6", w)
	}
	if w := graph["B"]["C"]; math.Abs(w-0.9) > 1e-9 {
		t.Errorf("B-C weight = %v, want 0.9", w)
	}
	if _, ok := graph["A"]["C"]; ok {
		t.Errorf("unexpected A-C edge with weight %v", graph["A"]["C"])
	}
}

func TestBuildCourseGraphSymmetry(t *testing.T) {
	courses := []Course{
		testCourse("A", "Graph Theory", "METHODS", []string{"MAT/03"}, "graphs networks combinatorics structures"),
		testCourse("B", "Network Science", "METHODS", []string{"MAT/03"}, "graphs networks dynamics models"),
		testCourse("C", "Databases", "SYSTEMS", []string{"INF/05"}, "relational storage transactions queries"),
	}
	graph := BuildCourseGraph(courses, DefaultGraphConfig())

	for a, neighbors := range graph {
		for b, w := range neighbors {
			if got := graph[b][a]; got != w {
				t.Errorf("asymmetric edge: weight(%s,%s)=%v but weight(%s,%s)=%v", a, b, w, b, a, got)
			}
			if w <= 0 {
				t.Errorf("non-positive stored weight %v on %s-%s", w, a, b)
			}
			if a == b {
				t.Errorf("self-loop on %s", a)
			}
		}
	}
}

func TestBuildCourseGraphIdempotent(t *testing.T) {
	courses := []Course{
		testCourse("A", "Alpha", "G1", []string{"INF/01"}, "parallel computing models"),
		testCourse("B", "Beta", "G1", []string{"INF/01"}, "parallel computing hardware"),
		testCourse("C", "Gamma", "G2", nil, "renaissance art history"),
	}
	config := DefaultGraphConfig()

	first := BuildCourseGraph(courses, config)
	second := BuildCourseGraph(courses, config)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two builds differ:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestBuildCourseGraphMinEdgeWeightMonotone(t *testing.T) {
	courses := []Course{
		testCourse("A", "Alpha", "G1", []string{"INF/01"}, "signal processing filters"),
		testCourse("B", "Beta", "G1", []string{"INF/01"}, "signal processing spectra"),
		testCourse("C", "Gamma", "G1", nil, "medieval literature survey"),
		testCourse("D", "Delta", "G2", []string{"ING-INF/05"}, "software architecture patterns"),
	}

	countEdges := func(minWeight float64) int {
		config := DefaultGraphConfig()
		config.MinEdgeWeight = minWeight
		_, edges, _ := GraphStats(BuildCourseGraph(courses, config))
		return edges
	}

	previous := countEdges(0.0)
	for _, minWeight := range []float64{0.2, 0.5, 0.8, 1.2, 5.0} {
		current := countEdges(minWeight)
		if current > previous {
			t.Errorf("raising min_edge_weight to %v increased edges from %d to %d", minWeight, previous, current)
		}
		previous = current
	}
}

func TestBuildCourseGraphIsolatedAndEmptyCodes(t *testing.T) {
	courses := []Course{
		testCourse("A", "Alpha", "G1", nil, "astrophysics cosmology"),
		testCourse("", "Nameless", "G1", nil, "astrophysics cosmology"),
		testCourse("B", "Beta", "G2", nil, "baroque music analysis"),
	}
	graph := BuildCourseGraph(courses, DefaultGraphConfig())

	if _, ok := graph[""]; ok {
		t.Error("empty course code became a graph node")
	}
	for _, code := range []string{"A", "B"} {
		neighbors, ok := graph[code]
		if !ok {
			t.Fatalf("isolated course %s missing from graph", code)
		}
		if len(neighbors) != 0 {
			t.Errorf("expected %s to be isolated, has neighbors %v", code, neighbors)
		}
	}
}

func TestAdjacencyJSONRoundTrip(t *testing.T) {
	graph := Adjacency{
		"A": {"B": 0.7, "C": 0.3},
		"B": {"A": 0.7},
		"C": {"A": 0.3},
	}

	jsonForm := AdjacencyToJSON(graph)

	// Neighbors sort by descending weight then code.
	if jsonForm["A"][0].Code != "B" || jsonForm["A"][1].Code != "C" {
		t.Errorf("neighbor order = %v, want B then C", jsonForm["A"])
	}

	back := JSONToAdjacency(jsonForm)
	if !reflect.DeepEqual(graph, back) {
		t.Errorf("round trip changed graph:\nbefore: %v\nafter:  %v", graph, back)
	}
}

func TestJSONToAdjacencyDropsBadEdges(t *testing.T) {
	jsonForm := map[string][]NeighborJSON{
		"A": {
			{Code: "A", Weight: 1.0},  // self-loop
			{Code: "B", Weight: 0.0},  // non-positive
			{Code: "C", Weight: -2.0}, // negative
			{Code: "D", Weight: 0.4},
		},
	}
	graph := JSONToAdjacency(jsonForm)

	if len(graph["A"]) != 1 || graph["A"]["D"] != 0.4 {
		t.Errorf("adjacency = %v, want only D:0.4", graph["A"])
	}
}

func TestSaveLoadGraphJSON(t *testing.T) {
	graph := Adjacency{
		"A": {"B": 0.7},
		"B": {"A": 0.7, "C": 1.2},
		"C": {"B": 1.2},
	}

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := SaveGraphJSON(graph, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadGraphJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(graph, loaded) {
		t.Errorf("file round trip changed graph:\nbefore: %v\nafter:  %v", graph, loaded)
	}

	if _, err := LoadGraphJSON(path + ".missing"); err == nil {
		t.Error("missing file did not error")
	}
}

func TestGraphStats(t *testing.T) {
	nodes, edges, avgDegree := GraphStats(Adjacency{})
	if nodes != 0 || edges != 0 || avgDegree != 0 {
		t.Errorf("empty graph stats = (%d, %d, %v)", nodes, edges, avgDegree)
	}

	graph := Adjacency{
		"A": {"B": 1.0},
		"B": {"A": 1.0, "C": 0.5},
		"C": {"B": 0.5},
	}
	nodes, edges, avgDegree = GraphStats(graph)
	if nodes != 3 || edges != 2 {
		t.Errorf("stats = (%d, %d), want (3, 2)", nodes, edges)
	}
	if math.Abs(avgDegree-4.0/3.0) > 1e-9 {
		t.Errorf("avg degree = %v, want %v", avgDegree, 4.0/3.0)
	}
}

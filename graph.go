package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Adjacency is the internal weighted-graph representation:
// course code -> neighbor code -> positive edge weight.
// Invariants: symmetric, no self-loops, strictly positive weights,
// every known course code has an entry (possibly empty).
type Adjacency map[string]map[string]float64

// NeighborJSON is the JSON-facing edge format:
//
//	{
//	  "088983": [{"code": "123456", "weight": 0.7}, ...],
//	  ...
//	}
type NeighborJSON struct {
	Code   string  `json:"code"`
	Weight float64 `json:"weight"`
}

// addUndirectedEdge adds or accumulates an undirected edge between two
// course codes. Self-loops and non-positive weights are dropped.
func addUndirectedEdge(graph Adjacency, codeA, codeB string, weight float64) {
	if codeA == codeB {
		return
	}
	if weight <= 0 {
		return
	}

	if graph[codeA] == nil {
		graph[codeA] = make(map[string]float64)
	}
	if graph[codeB] == nil {
		graph[codeB] = make(map[string]float64)
	}

	graph[codeA][codeB] += weight
	graph[codeB][codeA] += weight
}

// BuildCourseGraph builds an undirected weighted similarity graph where
// each course is a node and edge weights combine three signals:
//   - same group
//   - shared SSD code
//   - text similarity of name + description
//
// The pairwise scan is O(n²); fine for catalogs of a few hundred
// courses, a design limit to revisit before pointing this at thousands.
func BuildCourseGraph(courses []Course, config GraphConfig) Adjacency {
	// Initialize nodes so courses with no qualifying edges still appear
	graph := make(Adjacency)
	for _, c := range courses {
		if c.Code == "" {
			continue
		}
		if graph[c.Code] == nil {
			graph[c.Code] = make(map[string]float64)
		}
	}

	// Precompute per-course views
	tokensMap := make(map[string]map[string]bool)
	groupMap := make(map[string]string)
	ssdMap := make(map[string]map[string]bool)

	for _, c := range courses {
		if c.Code == "" {
			continue
		}
		tokensMap[c.Code] = CourseTokens(c.Name, c.Description)
		groupMap[c.Code] = strings.TrimSpace(strings.ToUpper(c.Group))

		ssdSet := make(map[string]bool)
		for _, s := range c.SSD {
			s = strings.TrimSpace(s)
			if s != "" {
				ssdSet[s] = true
			}
		}
		ssdMap[c.Code] = ssdSet
	}

	for i := 0; i < len(courses); i++ {
		codeI := courses[i].Code
		if codeI == "" {
			continue
		}

		groupI := groupMap[codeI]
		ssdI := ssdMap[codeI]
		tokensI := tokensMap[codeI]

		for j := i + 1; j < len(courses); j++ {
			codeJ := courses[j].Code
			if codeJ == "" {
				continue
			}

			groupJ := groupMap[codeJ]
			ssdJ := ssdMap[codeJ]
			tokensJ := tokensMap[codeJ]

			weight := 0.0

			// Same group
			if groupI != "" && groupJ != "" && groupI == groupJ {
				weight += config.WGroup
			}

			// Shared SSD (any overlap counts, not proportional)
			if len(ssdI) > 0 && len(ssdJ) > 0 && tokensIntersect(ssdI, ssdJ) {
				weight += config.WSSD
			}

			// Text similarity
			sim := JaccardSimilarity(tokensI, tokensJ)
			if sim >= config.TextSimThreshold {
				weight += config.WText * sim
			}

			if weight >= config.MinEdgeWeight {
				addUndirectedEdge(graph, codeI, codeJ, weight)
			}
		}
	}

	return graph
}

// GraphStats returns (nodes, undirected edges, average degree).
func GraphStats(graph Adjacency) (int, int, float64) {
	numNodes := len(graph)
	if numNodes == 0 {
		return 0, 0, 0.0
	}

	totalDirected := 0
	for _, neighbors := range graph {
		totalDirected += len(neighbors)
	}
	return numNodes, totalDirected / 2, float64(totalDirected) / float64(numNodes)
}

// AdjacencyToJSON converts the internal adjacency to the JSON-facing
// format, with neighbors sorted by descending weight then code.
func AdjacencyToJSON(graph Adjacency) map[string][]NeighborJSON {
	out := make(map[string][]NeighborJSON, len(graph))
	for code, neighbors := range graph {
		items := make([]NeighborJSON, 0, len(neighbors))
		for nCode, weight := range neighbors {
			items = append(items, NeighborJSON{Code: nCode, Weight: weight})
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].Weight != items[j].Weight {
				return items[i].Weight > items[j].Weight
			}
			return items[i].Code < items[j].Code
		})
		out[code] = items
	}
	return out
}

// JSONToAdjacency converts the JSON-facing graph back to the internal
// adjacency, dropping self-loops and non-positive weights.
func JSONToAdjacency(graphJSON map[string][]NeighborJSON) Adjacency {
	graph := make(Adjacency, len(graphJSON))
	for code, neighbors := range graphJSON {
		inner := make(map[string]float64)
		for _, n := range neighbors {
			if n.Code == code {
				continue
			}
			if n.Weight <= 0 {
				continue
			}
			inner[n.Code] += n.Weight
		}
		graph[code] = inner
	}
	return graph
}

// SaveGraphJSON writes the adjacency to a JSON file in the
// project-standard neighbor-list format.
func SaveGraphJSON(graph Adjacency, path string) error {
	data, err := json.MarshalIndent(AdjacencyToJSON(graph), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write graph file: %w", err)
	}
	return nil
}

// LoadGraphJSON reads a graph JSON file back into an adjacency.
func LoadGraphJSON(path string) (Adjacency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph file: %w", err)
	}
	var graphJSON map[string][]NeighborJSON
	if err := json.Unmarshal(data, &graphJSON); err != nil {
		return nil, fmt.Errorf("parse graph file: %w", err)
	}
	return JSONToAdjacency(graphJSON), nil
}

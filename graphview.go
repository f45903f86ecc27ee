package main

import (
	"fmt"
	"sort"
	"strings"
)

// View bounding defaults
const (
	DefaultMaxNeighborsPerNode = 3
	DefaultNodeCap             = 40
	DefaultEdgeCap             = 80
)

// Residual weight below this is considered rounding noise rather than
// an inferred text-similarity signal.
const textResidualThreshold = 0.05

// BuildGraphView selects a bounded neighborhood subgraph around the
// recommended courses for visualization.
//
// Node selection: the recommended set, plus up to maxNeighbors of each
// recommended node's highest-weight neighbors, plus every "bridge"
// node (a non-recommended node adjacent to two or more distinct
// recommended nodes) regardless of the per-node cap. Candidates are
// ranked (recommended first, then score descending, then code) and cut
// at nodeCap, so recommended codes always survive before any neighbor
// or bridge is kept.
//
// Edge selection: every graph edge with both endpoints retained,
// deduplicated by unordered pair, sorted by (weight desc, source,
// target) and cut at edgeCap.
func BuildGraphView(
	recommendedCodes []string,
	graph Adjacency,
	courses []Course,
	scores map[string]float64,
	maxNeighbors, nodeCap, edgeCap int,
) GraphView {
	if maxNeighbors <= 0 {
		maxNeighbors = DefaultMaxNeighborsPerNode
	}
	if nodeCap <= 0 {
		nodeCap = DefaultNodeCap
	}
	if edgeCap <= 0 {
		edgeCap = DefaultEdgeCap
	}

	codeToCourse := make(map[string]Course, len(courses))
	for _, c := range courses {
		if c.Code != "" {
			codeToCourse[c.Code] = c
		}
	}

	recommended := make(map[string]bool, len(recommendedCodes))
	for _, code := range recommendedCodes {
		if _, ok := graph[code]; ok {
			recommended[code] = true
		}
	}

	candidates := make(map[string]bool, len(recommended))
	for code := range recommended {
		candidates[code] = true
	}

	// Count how many distinct recommended nodes each outside neighbor
	// touches; two or more makes it a bridge node.
	recNeighborCount := make(map[string]int)

	for code := range recommended {
		neighbors := graph[code]

		type weighted struct {
			code   string
			weight float64
		}
		sorted := make([]weighted, 0, len(neighbors))
		for nbr, w := range neighbors {
			sorted = append(sorted, weighted{nbr, w})
			if !recommended[nbr] {
				recNeighborCount[nbr]++
			}
		}
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].weight != sorted[j].weight {
				return sorted[i].weight > sorted[j].weight
			}
			return sorted[i].code < sorted[j].code
		})

		for i := 0; i < len(sorted) && i < maxNeighbors; i++ {
			candidates[sorted[i].code] = true
		}
	}

	// Bridge nodes explain cross-recommendation structure; they bypass
	// the per-node neighbor cap.
	for code, count := range recNeighborCount {
		if count >= 2 {
			candidates[code] = true
		}
	}

	// Rank candidates and apply the node cap
	codes := make([]string, 0, len(candidates))
	for code := range candidates {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		recI, recJ := recommended[codes[i]], recommended[codes[j]]
		if recI != recJ {
			return recI
		}
		scoreI, scoreJ := scores[codes[i]], scores[codes[j]]
		if scoreI != scoreJ {
			return scoreI > scoreJ
		}
		return codes[i] < codes[j]
	})
	if len(codes) > nodeCap {
		codes = codes[:nodeCap]
	}

	retained := make(map[string]bool, len(codes))
	nodes := make([]GraphNode, 0, len(codes))
	for _, code := range codes {
		retained[code] = true

		label := code
		group := ""
		if course, ok := codeToCourse[code]; ok {
			if course.Name != "" {
				label = course.Name
			}
			group = course.Group
		}
		nodes = append(nodes, GraphNode{
			Code:          code,
			Label:         label,
			Score:         scores[code],
			IsRecommended: recommended[code],
			Group:         group,
		})
	}

	// Collect edges among retained nodes, dedup by unordered pair
	type pair struct{ a, b string }
	seen := make(map[pair]bool)
	edges := make([]GraphEdge, 0)

	for _, code := range codes {
		for nbr, w := range graph[code] {
			if !retained[nbr] {
				continue
			}
			a, b := code, nbr
			if a > b {
				a, b = b, a
			}
			if seen[pair{a, b}] {
				continue
			}
			seen[pair{a, b}] = true

			concepts, reasons := reconstructEdgeReasons(codeToCourse[a], codeToCourse[b], w)
			edges = append(edges, GraphEdge{
				Source:   a,
				Target:   b,
				Weight:   w,
				Concepts: concepts,
				Reasons:  reasons,
			})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight > edges[j].Weight
		}
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	if len(edges) > edgeCap {
		edges = edges[:edgeCap]
	}

	return GraphView{Nodes: nodes, Edges: edges}
}

// reconstructEdgeReasons rebuilds qualitative "reasons" for an edge from
// course metadata and the scalar edge weight.
//
// Only the total weight is persisted per edge, so this re-checks group
// equality and SSD intersection and attributes any residual weight above
// a small threshold to text similarity. Best-effort and approximate: it
// re-derives plausible explanations, it does not recover the builder's
// exact computation.
func reconstructEdgeReasons(a, b Course, weight float64) ([]string, []EdgeReason) {
	cfg := DefaultGraphConfig()

	var concepts []string
	var reasons []EdgeReason
	accounted := 0.0

	groupA := strings.TrimSpace(strings.ToUpper(a.Group))
	groupB := strings.TrimSpace(strings.ToUpper(b.Group))
	if groupA != "" && groupA == groupB {
		concepts = append(concepts, fmt.Sprintf("group %s", a.Group))
		reasons = append(reasons, EdgeReason{
			Type:         "shared_group",
			Value:        a.Group,
			Contribution: cfg.WGroup,
		})
		accounted += cfg.WGroup
	}

	shared := sharedSSDCodes(a.SSD, b.SSD)
	if len(shared) > 0 {
		concepts = append(concepts, fmt.Sprintf("sector %s", strings.Join(shared, ", ")))
		reasons = append(reasons, EdgeReason{
			Type:         "shared_ssd",
			Value:        strings.Join(shared, ","),
			Contribution: cfg.WSSD,
		})
		accounted += cfg.WSSD
	}

	if residual := weight - accounted; residual > textResidualThreshold {
		concepts = append(concepts, "similar content")
		reasons = append(reasons, EdgeReason{
			Type:         "text_similarity",
			Value:        "name/description overlap",
			Contribution: residual,
		})
	}

	if len(reasons) == 0 {
		concepts = append(concepts, "related content")
		reasons = append(reasons, EdgeReason{
			Type:         "other",
			Value:        "related content",
			Contribution: weight,
		})
	}

	return concepts, reasons
}

// sharedSSDCodes returns the sorted intersection of two SSD code lists.
func sharedSSDCodes(a, b []string) []string {
	setA := make(map[string]bool, len(a))
	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" {
			setA[s] = true
		}
	}

	var shared []string
	seen := make(map[string]bool)
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && setA[s] && !seen[s] {
			shared = append(shared, s)
			seen[s] = true
		}
	}
	sort.Strings(shared)
	return shared
}

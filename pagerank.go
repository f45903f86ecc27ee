package main

import (
	"math"
	"sort"
)

// Pagerank solver defaults.
const (
	DefaultDamping = 0.85
	DefaultTol     = 1e-6
	DefaultMaxIter = 100
)

// normalizeVector L1-normalizes a score vector into a fresh map. A
// vector with non-positive total maps to all zeros rather than dividing
// by zero.
func normalizeVector(vec map[string]float64) map[string]float64 {
	keys := make([]string, 0, len(vec))
	for k := range vec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := 0.0
	for _, k := range keys {
		total += vec[k]
	}

	out := make(map[string]float64, len(vec))
	if total <= 0 {
		for k := range vec {
			out[k] = 0.0
		}
		return out
	}
	for k, v := range vec {
		out[k] = v / total
	}
	return out
}

// Pagerank runs weighted PageRank over the adjacency.
//
// personalization, if non-nil, maps a subset of nodes to non-negative
// raw weights and is normalized into the teleport distribution. If it
// normalizes to all zeros (all raw weights zero, or all target nodes
// absent), the teleport falls back to uniform so a degenerate
// personalization cannot produce an all-zero ranking.
//
// Iteration visits nodes in sorted code order so floating-point
// accumulation is reproducible across runs.
func Pagerank(graph Adjacency, damping, tol float64, maxIter int, personalization map[string]float64) map[string]float64 {
	if len(graph) == 0 {
		return map[string]float64{}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	n := len(nodes)

	// Total outgoing weight per node, for spread normalization
	outWeight := make(map[string]float64, n)
	for _, node := range nodes {
		nbrs := make([]string, 0, len(graph[node]))
		for nbr := range graph[node] {
			nbrs = append(nbrs, nbr)
		}
		sort.Strings(nbrs)
		total := 0.0
		for _, nbr := range nbrs {
			total += graph[node][nbr]
		}
		outWeight[node] = total
	}

	// Teleport distribution
	var p map[string]float64
	if personalization != nil {
		raw := make(map[string]float64, n)
		for _, node := range nodes {
			raw[node] = personalization[node]
		}
		p = normalizeVector(raw)

		allZero := true
		for _, v := range p {
			if v != 0.0 {
				allZero = false
				break
			}
		}
		if allZero {
			for _, node := range nodes {
				p[node] = 1.0 / float64(n)
			}
		}
	} else {
		p = make(map[string]float64, n)
		for _, node := range nodes {
			p[node] = 1.0 / float64(n)
		}
	}

	// Start from the teleport distribution
	r := make(map[string]float64, n)
	for _, node := range nodes {
		r[node] = p[node]
	}

	for iter := 0; iter < maxIter; iter++ {
		rNew := make(map[string]float64, n)

		// Teleportation: every node gets (1-d) * p
		for _, node := range nodes {
			rNew[node] = (1.0 - damping) * p[node]
		}

		// Spread rank along weighted edges; dangling nodes pool their
		// mass for redistribution via the teleport distribution.
		danglingMass := 0.0
		for _, node := range nodes {
			rank := r[node]
			wOut := outWeight[node]

			if wOut > 0.0 {
				nbrs := make([]string, 0, len(graph[node]))
				for nbr := range graph[node] {
					nbrs = append(nbrs, nbr)
				}
				sort.Strings(nbrs)
				for _, nbr := range nbrs {
					rNew[nbr] += damping * rank * (graph[node][nbr] / wOut)
				}
			} else {
				danglingMass += rank
			}
		}

		if danglingMass > 0.0 {
			for _, node := range nodes {
				rNew[node] += damping * danglingMass * p[node]
			}
		}

		diff := 0.0
		for _, node := range nodes {
			diff += math.Abs(rNew[node] - r[node])
		}
		r = rNew
		if diff < tol {
			break
		}
	}

	// Renormalize once more for numerical sanity
	return normalizeVector(r)
}

// GlobalPagerank runs PageRank with uniform teleportation.
func GlobalPagerank(graph Adjacency) map[string]float64 {
	return Pagerank(graph, DefaultDamping, DefaultTol, DefaultMaxIter, nil)
}

// PersonalizedPagerank runs PageRank teleporting according to the given
// personalization vector.
func PersonalizedPagerank(graph Adjacency, personalization map[string]float64) map[string]float64 {
	return Pagerank(graph, DefaultDamping, DefaultTol, DefaultMaxIter, personalization)
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package graph

import (
	"container/heap"
	"fmt"
)

// MaxPathDepth is the hard ceiling on path hop limits
const MaxPathDepth = 5

// PathResult reports a shortest path search. Unreachable is an explicit
// outcome, never an error and never an empty path masquerading as
// distance zero.
type PathResult struct {
	Path        []string `json:"path,omitempty"`
	TotalWeight float64  `json:"total_weight"`
	Unreachable bool     `json:"unreachable,omitempty"`
}

// pathState is one frontier entry in the bounded Dijkstra search
type pathState struct {
	node string
	cost float64
	hops int
	path []string
}

// pathQueue is a min-heap over path states; ties break on node id so the
// search is fully deterministic
type pathQueue []pathState

func (q pathQueue) Len() int { return len(q) }
func (q pathQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].node < q[j].node
}
func (q pathQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x interface{}) { *q = append(*q, x.(pathState)) }
func (q *pathQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// FindPath runs Dijkstra between two entries using 1/weight as edge
// distance, bounded by maxDepth hops (capped at MaxPathDepth). The
// reflexive case returns the single-node path with weight 0. No path
// within the hop limit yields Unreachable.
func (g *Graph) FindPath(from, to string, maxDepth int) (*PathResult, error) {
	if !g.HasNode(from) {
		return nil, fmt.Errorf("entry %s is not in the graph", from)
	}
	if !g.HasNode(to) {
		return nil, fmt.Errorf("entry %s is not in the graph", to)
	}

	if from == to {
		return &PathResult{Path: []string{from}, TotalWeight: 0}, nil
	}

	if maxDepth <= 0 || maxDepth > MaxPathDepth {
		maxDepth = MaxPathDepth
	}

	// best cost seen per (node, hops) state; revisiting with more hops
	// and higher cost can never improve the answer
	type stateKey struct {
		node string
		hops int
	}
	best := map[stateKey]float64{}

	queue := &pathQueue{{node: from, cost: 0, hops: 0, path: []string{from}}}
	heap.Init(queue)

	for queue.Len() > 0 {
		current := heap.Pop(queue).(pathState)

		if current.node == to {
			return &PathResult{Path: current.path, TotalWeight: current.cost}, nil
		}
		if current.hops >= maxDepth {
			continue
		}

		for _, edge := range g.adj[current.node] {
			if edge.Weight <= 0 {
				continue
			}
			next := pathState{
				node: edge.Target,
				cost: current.cost + 1/edge.Weight,
				hops: current.hops + 1,
			}
			key := stateKey{next.node, next.hops}
			if prev, ok := best[key]; ok && prev <= next.cost {
				continue
			}
			best[key] = next.cost

			next.path = make([]string, len(current.path)+1)
			copy(next.path, current.path)
			next.path[len(current.path)] = next.node
			heap.Push(queue, next)
		}
	}

	return &PathResult{Unreachable: true}, nil
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reputation

import (
	"sort"

	"github.com/hivemind-ai/intelligence/internal/database"
)

// MaxInfluenceDepth caps influence traversals on dense graphs
const MaxInfluenceDepth = 5

// NetworkNode is one agent in an influence network, annotated with its
// BFS depth from the root (0 = the root agent, 1 = direct influence,
// 2 = indirect influence)
type NetworkNode struct {
	AgentID string `json:"agent_id"`
	Depth   int    `json:"depth"`
}

// NetworkEdge is a directed influence edge: From's knowledge was used by
// To, Weight times
type NetworkEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
}

// Network is the influence neighborhood around one agent
type Network struct {
	Root  string        `json:"root"`
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}

// InfluenceNetwork builds the directed influence graph reachable from an
// agent. An edge A->B with weight w means B used A's knowledge w times;
// self-use is ignored. BFS is bounded by maxDepth (capped at
// MaxInfluenceDepth) and stops admitting nodes at limit so dense graphs
// stay cheap. Traversal order is deterministic: neighbors expand by
// descending weight, then agent id.
func InfluenceNetwork(agentID string, usage []database.HiveUsageEvent, entryCreators map[string]string, maxDepth, limit int) *Network {
	if maxDepth <= 0 || maxDepth > MaxInfluenceDepth {
		maxDepth = MaxInfluenceDepth
	}
	if limit <= 0 {
		limit = 50
	}

	// creator -> user -> usage count
	out := make(map[string]map[string]int)
	for _, e := range usage {
		creator, ok := entryCreators[e.KnowledgeID]
		if !ok || creator == e.AgentID {
			continue
		}
		if out[creator] == nil {
			out[creator] = make(map[string]int)
		}
		out[creator][e.AgentID]++
	}

	network := &Network{
		Root:  agentID,
		Nodes: []NetworkNode{{AgentID: agentID, Depth: 0}},
	}

	type queueItem struct {
		agentID string
		depth   int
	}

	visited := map[string]bool{agentID: true}
	queue := []queueItem{{agentID, 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= maxDepth {
			continue
		}

		neighbors := out[current.agentID]
		ids := make([]string, 0, len(neighbors))
		for id := range neighbors {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			if neighbors[ids[i]] != neighbors[ids[j]] {
				return neighbors[ids[i]] > neighbors[ids[j]]
			}
			return ids[i] < ids[j]
		})

		for _, id := range ids {
			network.Edges = append(network.Edges, NetworkEdge{
				From:   current.agentID,
				To:     id,
				Weight: neighbors[id],
			})

			if visited[id] {
				continue
			}
			if len(network.Nodes) >= limit {
				continue
			}
			visited[id] = true
			network.Nodes = append(network.Nodes, NetworkNode{AgentID: id, Depth: current.depth + 1})
			queue = append(queue, queueItem{id, current.depth + 1})
		}
	}

	return network
}

// DirectInfluence returns the agents directly influenced by agentID
// (depth-1 out-neighbors), ordered by descending usage count
func DirectInfluence(agentID string, usage []database.HiveUsageEvent, entryCreators map[string]string, limit int) []NetworkEdge {
	network := InfluenceNetwork(agentID, usage, entryCreators, 1, limit+1)

	var edges []NetworkEdge
	for _, e := range network.Edges {
		if e.From == agentID {
			edges = append(edges, e)
		}
	}
	if limit > 0 && len(edges) > limit {
		edges = edges[:limit]
	}
	return edges
}

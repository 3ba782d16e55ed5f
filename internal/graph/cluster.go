// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package graph

import "sort"

// Clusters partitions every entry into connected components over edges at
// or above the threshold. Groups are disjoint and cover all nodes; entries
// without a qualifying edge form singleton groups. Members are sorted
// within each group; groups are ordered largest first, ties by first
// member id.
func (g *Graph) Clusters(threshold float64) [][]string {
	parent := make(map[string]string, len(g.nodes))
	for _, n := range g.nodes {
		parent[n] = n
	}

	var find func(string) string
	find = func(n string) string {
		if parent[n] != n {
			parent[n] = find(parent[n])
		}
		return parent[n]
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// Deterministic root choice
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	for _, e := range g.edges {
		if e.Weight >= threshold {
			union(e.Source, e.Target)
		}
	}

	groups := make(map[string][]string)
	for _, n := range g.nodes {
		root := find(n)
		groups[root] = append(groups[root], n)
	}

	clusters := make([][]string, 0, len(groups))
	for _, members := range groups {
		sort.Strings(members)
		clusters = append(clusters, members)
	}

	sort.Slice(clusters, func(i, j int) bool {
		if len(clusters[i]) != len(clusters[j]) {
			return len(clusters[i]) > len(clusters[j])
		}
		return clusters[i][0] < clusters[j][0]
	})

	return clusters
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"sort"

	"github.com/georgegian2018/research-library-engine/pkg/types"
)

// Group folds report rows into connected components. Each group lists its
// members in ascending order and carries the highest pair score inside it.
// Groups are sorted by their first member.
func Group(rows []types.ReportRow) []types.DuplicateGroup {
	parent := make(map[string]string)

	var find func(string) string
	find = func(id string) string {
		p, ok := parent[id]
		if !ok {
			parent[id] = id
			return id
		}
		if p == id {
			return id
		}
		root := find(p)
		parent[id] = root
		return root
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// Smaller ID becomes the root so results do not depend on row order.
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	for _, r := range rows {
		union(r.Paper1ID, r.Paper2ID)
	}

	members := make(map[string][]string)
	for id := range parent {
		root := find(id)
		members[root] = append(members[root], id)
	}
	maxScore := make(map[string]float64)
	for _, r := range rows {
		root := find(r.Paper1ID)
		if r.Score > maxScore[root] {
			maxScore[root] = r.Score
		}
	}

	groups := make([]types.DuplicateGroup, 0, len(members))
	for root, ids := range members {
		sort.Strings(ids)
		groups = append(groups, types.DuplicateGroup{
			PaperIDs: ids,
			MaxScore: maxScore[root],
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].PaperIDs[0] < groups[j].PaperIDs[0]
	})
	return groups
}

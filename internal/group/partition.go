// Package group partitions a frozen aggregate into connected groups of
// adjacent shapes.
package group

import (
	"sort"

	"github.com/kyiku/aggpack/internal/collision"
	"github.com/kyiku/aggpack/internal/geometry"
	"github.com/kyiku/aggpack/internal/model"
)

// Group is a maximal set of shapes connected through pairwise adjacency.
// Membership is the contract; member order is ascending by shape ID for
// stable output but callers must treat it as a set.
type Group struct {
	ID      int   `json:"id"`
	Members []int `json:"members"`
}

// Partition maps every shape of an aggregate to exactly one group.
type Partition struct {
	Threshold float64     `json:"threshold"`
	Groups    []Group     `json:"groups"`
	ByShape   map[int]int `json:"by_shape"` // shape ID -> group ID
}

// Compute partitions the aggregate under the given adjacency threshold:
// two shapes are adjacent when the distance between their geometries is
// at or below the threshold (0 means touching). The same broad-phase
// filtering as the collision engine bounds the pairwise distance tests.
func Compute(agg *model.Aggregate, threshold float64) *Partition {
	shapes := agg.Shapes
	dsu := newUnionFind(len(shapes))

	index := collision.NewIndex(agg.Region.Bounds())
	for i, s := range shapes {
		// The index stores the slice position so matches map back to
		// union-find entries directly.
		probe := s
		probe.ID = i
		index.Add(probe)
	}

	// The window is padded slightly past the threshold so pairs at
	// exactly the threshold distance survive the broad phase.
	pad := threshold + 1e-9*(1+threshold)
	for i, s := range shapes {
		window := collision.Expand(s.Bounds(), pad)
		for _, other := range index.Near(window) {
			j := other.ID
			if j <= i {
				continue
			}
			if geometry.Distance(s.Outline, shapes[j].Outline) <= threshold {
				dsu.union(i, j)
			}
		}
	}

	members := make(map[int][]int)
	for i, s := range shapes {
		root := dsu.find(i)
		members[root] = append(members[root], s.ID)
	}

	groups := make([]Group, 0, len(members))
	for _, ids := range members {
		sort.Ints(ids)
		groups = append(groups, Group{Members: ids})
	}
	sort.Slice(groups, func(a, b int) bool {
		return groups[a].Members[0] < groups[b].Members[0]
	})

	byShape := make(map[int]int, len(shapes))
	for i := range groups {
		groups[i].ID = i + 1
		for _, id := range groups[i].Members {
			byShape[id] = groups[i].ID
		}
	}

	return &Partition{Threshold: threshold, Groups: groups, ByShape: byShape}
}

// unionFind is a disjoint-set forest with path compression and union by
// size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
		u.size[i] = 1
	}
	return u
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
}

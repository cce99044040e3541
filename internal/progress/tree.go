package progress

import (
	"sort"

	"focus-tracker/internal/model"
)

// Edge is the part of a task row needed to walk the hierarchy.
type Edge struct {
	ID       uint
	ParentID *uint
}

// ChildIndex maps a parent id to its direct children, in input order.
type ChildIndex map[uint][]uint

// NewChildIndex builds the parent -> children index from edges.
func NewChildIndex(edges []Edge) ChildIndex {
	idx := make(ChildIndex, len(edges))
	for _, e := range edges {
		if e.ParentID == nil {
			continue
		}
		idx[*e.ParentID] = append(idx[*e.ParentID], e.ID)
	}
	return idx
}

// Descendants returns every task below root, breadth first. Root itself is not
// included. A task reachable twice (a corrupted parent chain) is visited once.
func (idx ChildIndex) Descendants(root uint) []uint {
	var out []uint
	seen := map[uint]bool{root: true}
	queue := append([]uint(nil), idx[root]...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		queue = append(queue, idx[id]...)
	}
	return out
}

// BuildForest nests tasks into trees. Roots are ordered newest first and
// subtasks oldest first. Tasks whose parent is missing are treated as roots.
func BuildForest(tasks []model.Task) []model.Task {
	byID := make(map[uint]int, len(tasks))
	for i, t := range tasks {
		byID[t.ID] = i
	}

	children := make(map[uint][]int)
	var roots []int
	for i, t := range tasks {
		if t.ParentID != nil {
			if _, ok := byID[*t.ParentID]; ok && *t.ParentID != t.ID {
				children[*t.ParentID] = append(children[*t.ParentID], i)
				continue
			}
		}
		roots = append(roots, i)
	}

	for _, list := range children {
		sort.SliceStable(list, func(a, b int) bool {
			return olderFirst(tasks[list[a]], tasks[list[b]])
		})
	}
	sort.SliceStable(roots, func(a, b int) bool {
		return olderFirst(tasks[roots[b]], tasks[roots[a]])
	})

	// Nodes are materialised bottom-up with an explicit stack so deep chains
	// do not grow the goroutine stack.
	built := make(map[int]model.Task, len(tasks))
	type frame struct {
		node     int
		expanded bool
	}
	out := make([]model.Task, 0, len(roots))
	for _, r := range roots {
		stack := []frame{{node: r}}
		onPath := map[int]bool{}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if !top.expanded {
				top.expanded = true
				onPath[top.node] = true
				for _, c := range children[tasks[top.node].ID] {
					if _, done := built[c]; !done && !onPath[c] {
						stack = append(stack, frame{node: c})
					}
				}
				continue
			}
			n := tasks[top.node]
			n.Subtasks = make([]model.Task, 0, len(children[n.ID]))
			for _, c := range children[n.ID] {
				if sub, ok := built[c]; ok {
					n.Subtasks = append(n.Subtasks, sub)
				}
			}
			built[top.node] = n
			delete(onPath, top.node)
			stack = stack[:len(stack)-1]
		}
		out = append(out, built[r])
	}
	return out
}

func olderFirst(a, b model.Task) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

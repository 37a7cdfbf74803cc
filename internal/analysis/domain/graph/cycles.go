package graph

import (
	"fmt"
	"strings"
)

// Node colors for the traversal: unvisited, on the current path, finished.
const (
	white = iota
	gray
	black
)

// frame is one explicit DFS stack entry: the node and the index of its next
// unexplored neighbor.
type frame struct {
	id   int
	next int
}

// detectCycles runs an iterative depth-first search over the dependency
// edges with three-color marking. Roots are visited in task input order so
// the reported cycles are deterministic. Every back edge found anywhere in
// the traversal is reported as its own cycle; the path is reconstructed by
// walking parent pointers from the current node back to the revisited one.
func detectCycles(order []int, adj map[int][]int, titles map[int]string) []Cycle {
	color := make(map[int]int, len(order))
	parent := make(map[int]int, len(order))

	var cycles []Cycle

	for _, root := range order {
		if color[root] != white {
			continue
		}
		color[root] = gray
		stack := []frame{{id: root}}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			neighbors := adj[f.id]

			if f.next >= len(neighbors) {
				color[f.id] = black
				stack = stack[:len(stack)-1]
				continue
			}

			n := neighbors[f.next]
			f.next++

			switch color[n] {
			case white:
				parent[n] = f.id
				color[n] = gray
				stack = append(stack, frame{id: n})
			case gray:
				cycles = append(cycles, buildCycle(n, f.id, parent, titles))
			}
			// black neighbors are finished; nothing to do
		}
	}

	return cycles
}

// buildCycle reconstructs the cycle that was closed by the edge from -> to.
// The resulting id sequence starts at the revisited node and the rendered
// path repeats it at the end to show the closing edge.
func buildCycle(to, from int, parent map[int]int, titles map[int]string) Cycle {
	var ids []int
	for cur := from; ; cur = parent[cur] {
		ids = append([]int{cur}, ids...)
		if cur == to {
			break
		}
	}

	names := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		names = append(names, titleOrID(id, titles))
	}
	names = append(names, titleOrID(to, titles))

	return Cycle{IDs: ids, Path: strings.Join(names, " → ")}
}

func titleOrID(id int, titles map[int]string) string {
	if title := titles[id]; title != "" {
		return title
	}
	return fmt.Sprintf("Task %d", id)
}

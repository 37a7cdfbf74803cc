// Package graph builds the blocking relation over a task batch and detects
// dependency cycles.
package graph

import (
	"strings"

	"github.com/felixgeelhaar/triage/internal/analysis/domain/task"
)

// Edge records that From depends on To, i.e. From is blocked by To.
type Edge struct {
	From int
	To   int
}

// Cycle is one dependency path that returns to its starting task.
type Cycle struct {
	IDs  []int  // ordered task ids, starting at the revisited node
	Path string // "A → B → A" rendered with task titles
}

// Report is the whole-batch result of the dependency analysis.
type Report struct {
	Edges       []Edge
	BlocksCount map[int]int      // task id -> number of tasks waiting on it
	BlockedBy   map[int][]string // task id -> titles of tasks that depend on it
	Cycles      []Cycle
}

// HasCycles reports whether any dependency cycle was found.
func (r Report) HasCycles() bool { return len(r.Cycles) > 0 }

// CyclePaths returns the rendered path of every detected cycle.
func (r Report) CyclePaths() []string {
	paths := make([]string, len(r.Cycles))
	for i, c := range r.Cycles {
		paths[i] = c.Path
	}
	return paths
}

// Analyze builds the dependency graph restricted to ids present in the
// batch and computes blocks counts and cycles. Dependency ids pointing
// outside the batch are dropped silently: they are neither errors nor
// cycles. The input is never mutated.
func Analyze(tasks []task.Task) Report {
	titles := make(map[int]string, len(tasks))
	order := make([]int, 0, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = strings.TrimSpace(t.Title)
		order = append(order, t.ID)
	}

	// Adjacency restricted to the batch, dependencies deduplicated so a
	// repeated id in one task's list counts once.
	adj := make(map[int][]int, len(tasks))
	blocks := make(map[int]int, len(tasks))
	blockedBy := make(map[int][]string, len(tasks))
	var edges []Edge

	for _, t := range tasks {
		seen := make(map[int]bool, len(t.Dependencies))
		for _, dep := range t.Dependencies {
			if _, inBatch := titles[dep]; !inBatch || seen[dep] {
				continue
			}
			seen[dep] = true
			adj[t.ID] = append(adj[t.ID], dep)
			edges = append(edges, Edge{From: t.ID, To: dep})
			blocks[dep]++
			blockedBy[dep] = append(blockedBy[dep], titles[t.ID])
		}
	}

	cycles := detectCycles(order, adj, titles)

	return Report{
		Edges:       edges,
		BlocksCount: blocks,
		BlockedBy:   blockedBy,
		Cycles:      cycles,
	}
}

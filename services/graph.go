package services

import (
	"sort"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
)

// BuildProjectGraph assembles the dependency graph for one project's items
// and validates referential integrity and acyclicity. Nodes and edges come
// out sorted by id, so the same item set always yields the same graph.
func BuildProjectGraph(items []models.WorkItem) (*models.DependencyGraph, error) {
	known := make(map[string]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
	}

	var missing []string
	seenMissing := make(map[string]bool)
	graph := &models.DependencyGraph{}
	for _, item := range items {
		graph.Nodes = append(graph.Nodes, models.GraphNode{
			ID:             item.ID,
			Name:           item.Name,
			EstimatedHours: item.EstimatedHours,
		})
		for _, dep := range item.Dependencies {
			if !known[dep] {
				if !seenMissing[dep] {
					seenMissing[dep] = true
					missing = append(missing, dep)
				}
				continue
			}
			graph.Edges = append(graph.Edges, models.GraphEdge{
				From: dep,
				To:   item.ID,
				Type: models.EdgeFinishToStart,
			})
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &models.UnknownDependencyError{Missing: missing}
	}

	sort.Slice(graph.Nodes, func(i, j int) bool { return graph.Nodes[i].ID < graph.Nodes[j].ID })
	sort.Slice(graph.Edges, func(i, j int) bool {
		if graph.Edges[i].From != graph.Edges[j].From {
			return graph.Edges[i].From < graph.Edges[j].From
		}
		return graph.Edges[i].To < graph.Edges[j].To
	})

	if cycle := findCycle(graph); len(cycle) > 0 {
		return nil, &models.CycleError{Members: cycle}
	}
	return graph, nil
}

// ValidateDependencyUpdate applies a candidate dependency set for one item
// to a copy of the project and revalidates the whole graph. The caller's
// stored state is untouched; a returned error means the edit must be
// rejected wholesale.
func ValidateDependencyUpdate(items []models.WorkItem, itemID string, dependencies []string) (*models.DependencyGraph, error) {
	candidate := make([]models.WorkItem, len(items))
	copy(candidate, items)

	found := false
	for i := range candidate {
		if candidate[i].ID == itemID {
			candidate[i].Dependencies = NormalizeDependencies(itemID, dependencies)
			found = true
			break
		}
	}
	if !found {
		return nil, &models.NotFoundError{Resource: "work item", ID: itemID}
	}
	return BuildProjectGraph(candidate)
}

// NormalizeDependencies deduplicates and sorts a dependency list. A
// self-dependency is kept so validation reports it as a cycle rather than
// silently dropping it.
func NormalizeDependencies(itemID string, dependencies []string) []string {
	seen := make(map[string]bool, len(dependencies))
	normalized := make([]string, 0, len(dependencies))
	for _, dep := range dependencies {
		if dep == "" || seen[dep] {
			continue
		}
		seen[dep] = true
		normalized = append(normalized, dep)
	}
	sort.Strings(normalized)
	return normalized
}

// findCycle runs Kahn's algorithm and, if nodes remain undrained, extracts
// one concrete cycle from the leftover subgraph.
func findCycle(graph *models.DependencyGraph) []string {
	succs := graph.Successors()
	inDegree := make(map[string]int, len(graph.Nodes))
	for _, n := range graph.Nodes {
		inDegree[n.ID] = 0
	}
	for _, e := range graph.Edges {
		inDegree[e.To]++
	}

	var queue []string
	for _, n := range graph.Nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	drained := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		drained++
		for _, next := range succs[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if drained == len(graph.Nodes) {
		return nil
	}

	// Leftover nodes sit on or downstream of a cycle. Strip the downstream
	// tails (nodes with no leftover successor) so every remaining node has
	// a way forward, then walk until a node repeats.
	leftover := make(map[string]bool)
	for _, n := range graph.Nodes {
		if inDegree[n.ID] > 0 {
			leftover[n.ID] = true
		}
	}
	for stripped := true; stripped; {
		stripped = false
		for id := range leftover {
			hasNext := false
			for _, s := range succs[id] {
				if leftover[s] {
					hasNext = true
					break
				}
			}
			if !hasNext {
				delete(leftover, id)
				stripped = true
			}
		}
	}

	start := ""
	for _, n := range graph.Nodes {
		if leftover[n.ID] {
			start = n.ID
			break
		}
	}
	if start == "" {
		return nil
	}

	visitedAt := map[string]int{}
	var walk []string
	current := start
	for {
		if pos, seen := visitedAt[current]; seen {
			return walk[pos:]
		}
		visitedAt[current] = len(walk)
		walk = append(walk, current)
		next := ""
		for _, candidate := range succs[current] {
			if leftover[candidate] && (next == "" || candidate < next) {
				next = candidate
			}
		}
		current = next
	}
}

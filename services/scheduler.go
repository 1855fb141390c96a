package services

import (
	"sort"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
)

// SlackEpsilon bounds the zero-slack test and substitutes for zero-duration
// nodes so ties never degenerate.
const SlackEpsilon = 1e-6

// ComputeCriticalPath runs the CPM forward and backward passes over a
// validated DAG. Identical input always produces bit-identical output: nodes
// are processed in id order and every tie breaks toward the lowest id.
//
// The acyclicity re-check should be unreachable given BuildProjectGraph, but
// a cyclic input here means an upstream invariant breach and must fail
// loudly rather than loop or degrade.
func ComputeCriticalPath(graph *models.DependencyGraph) (*models.CriticalPathResult, error) {
	result := &models.CriticalPathResult{
		Nodes:         []models.NodeSchedule{},
		CriticalNodes: []string{},
		Path:          []string{},
	}
	if len(graph.Nodes) == 0 {
		return result, nil
	}

	prereqs := graph.Prerequisites()
	succs := graph.Successors()

	duration := make(map[string]float64, len(graph.Nodes))
	for _, n := range graph.Nodes {
		d := n.EstimatedHours
		if d == 0 {
			d = SlackEpsilon
		}
		duration[n.ID] = d
	}

	order, err := topologicalOrder(graph, succs)
	if err != nil {
		return nil, err
	}

	// Forward pass: earliest start is the latest finish of any prerequisite.
	earliestStart := make(map[string]float64, len(order))
	earliestFinish := make(map[string]float64, len(order))
	totalDuration := 0.0
	for _, id := range order {
		es := 0.0
		for _, p := range prereqs[id] {
			if earliestFinish[p] > es {
				es = earliestFinish[p]
			}
		}
		earliestStart[id] = es
		earliestFinish[id] = es + duration[id]
		if earliestFinish[id] > totalDuration {
			totalDuration = earliestFinish[id]
		}
	}

	// Backward pass: latest finish is the earliest latest-start of any
	// successor, or the project end for sinks.
	latestStart := make(map[string]float64, len(order))
	latestFinish := make(map[string]float64, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		lf := totalDuration
		for _, s := range succs[id] {
			if latestStart[s] < lf {
				lf = latestStart[s]
			}
		}
		latestFinish[id] = lf
		latestStart[id] = lf - duration[id]
	}

	critical := make(map[string]bool, len(order))
	for _, n := range graph.Nodes {
		id := n.ID
		slack := latestStart[id] - earliestStart[id]
		result.Nodes = append(result.Nodes, models.NodeSchedule{
			ID:             id,
			Duration:       duration[id],
			EarliestStart:  earliestStart[id],
			EarliestFinish: earliestFinish[id],
			LatestStart:    latestStart[id],
			LatestFinish:   latestFinish[id],
			Slack:          slack,
		})
		if slack <= SlackEpsilon {
			critical[id] = true
			result.CriticalNodes = append(result.CriticalNodes, id)
		}
	}
	result.TotalDuration = totalDuration
	result.Path = criticalChain(graph, prereqs, succs, critical)
	return result, nil
}

// topologicalOrder drains the graph with Kahn's algorithm, seeding and
// visiting in id order. graph.Nodes is already sorted.
func topologicalOrder(graph *models.DependencyGraph, succs map[string][]string) ([]string, error) {
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

	order := make([]string, 0, len(graph.Nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)
		for _, next := range succs[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(order) != len(graph.Nodes) {
		var remaining []string
		for _, n := range graph.Nodes {
			if inDegree[n.ID] > 0 {
				remaining = append(remaining, n.ID)
			}
		}
		sort.Strings(remaining)
		return nil, &models.CycleError{Members: remaining}
	}
	return order, nil
}

// criticalChain walks one maximal chain from a critical source to a sink,
// following only critical nodes and existing edges, lowest id first.
func criticalChain(graph *models.DependencyGraph, prereqs, succs map[string][]string, critical map[string]bool) []string {
	start := ""
	for _, n := range graph.Nodes {
		if critical[n.ID] && len(prereqs[n.ID]) == 0 {
			start = n.ID
			break
		}
	}
	if start == "" {
		return []string{}
	}

	path := []string{}
	visited := make(map[string]bool)
	current := start
	for current != "" && !visited[current] {
		visited[current] = true
		path = append(path, current)
		next := ""
		for _, s := range succs[current] {
			if critical[s] && (next == "" || s < next) {
				next = s
			}
		}
		current = next
	}
	return path
}

package models

// GraphNode is one work item in the project dependency graph.
type GraphNode struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	EstimatedHours float64 `json:"estimatedHours"`
}

// GraphEdge is a finish-to-start dependency: From must finish before To
// can start.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

const EdgeFinishToStart = "finish_to_start"

// DependencyGraph is the validated, acyclic project graph. Nodes and Edges
// are sorted by id so identical input always serializes identically.
type DependencyGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Prerequisites returns dependency ids keyed by dependent item id.
func (g *DependencyGraph) Prerequisites() map[string][]string {
	prereqs := make(map[string][]string, len(g.Nodes))
	for _, n := range g.Nodes {
		prereqs[n.ID] = nil
	}
	for _, e := range g.Edges {
		prereqs[e.To] = append(prereqs[e.To], e.From)
	}
	return prereqs
}

// Successors returns dependent item ids keyed by prerequisite id.
func (g *DependencyGraph) Successors() map[string][]string {
	succs := make(map[string][]string, len(g.Nodes))
	for _, n := range g.Nodes {
		succs[n.ID] = nil
	}
	for _, e := range g.Edges {
		succs[e.From] = append(succs[e.From], e.To)
	}
	return succs
}

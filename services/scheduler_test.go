package services

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
)

func mustGraph(t *testing.T, items []models.WorkItem) *models.DependencyGraph {
	t.Helper()
	graph, err := BuildProjectGraph(items)
	if err != nil {
		t.Fatalf("BuildProjectGraph() error = %v", err)
	}
	return graph
}

func scheduleByID(t *testing.T, result *models.CriticalPathResult, id string) models.NodeSchedule {
	t.Helper()
	for _, n := range result.Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("no schedule for node %s", id)
	return models.NodeSchedule{}
}

func TestCriticalPathFanOut(t *testing.T) {
	items := []models.WorkItem{
		{ID: "A", ProjectID: "p1", EstimatedHours: 4},
		{ID: "B", ProjectID: "p1", EstimatedHours: 6, Dependencies: []string{"A"}},
		{ID: "C", ProjectID: "p1", EstimatedHours: 3, Dependencies: []string{"A"}},
	}
	result, err := ComputeCriticalPath(mustGraph(t, items))
	if err != nil {
		t.Fatalf("ComputeCriticalPath() error = %v", err)
	}

	checks := []struct {
		id     string
		es, ef float64
	}{
		{"A", 0, 4},
		{"B", 4, 10},
		{"C", 4, 7},
	}
	for _, c := range checks {
		n := scheduleByID(t, result, c.id)
		if n.EarliestStart != c.es || n.EarliestFinish != c.ef {
			t.Errorf("node %s: earliest = %v/%v, want %v/%v", c.id, n.EarliestStart, n.EarliestFinish, c.es, c.ef)
		}
	}
	if result.TotalDuration != 10 {
		t.Errorf("TotalDuration = %v, want 10", result.TotalDuration)
	}
	if !reflect.DeepEqual(result.CriticalNodes, []string{"A", "B"}) {
		t.Errorf("CriticalNodes = %v, want [A B]", result.CriticalNodes)
	}
	if !reflect.DeepEqual(result.Path, []string{"A", "B"}) {
		t.Errorf("Path = %v, want [A B]", result.Path)
	}
	if c := scheduleByID(t, result, "C"); c.Slack != 3 {
		t.Errorf("slack(C) = %v, want 3", c.Slack)
	}
}

func TestCriticalPathDeterminism(t *testing.T) {
	items := []models.WorkItem{
		{ID: "a1", EstimatedHours: 2},
		{ID: "a2", EstimatedHours: 2},
		{ID: "b1", EstimatedHours: 5, Dependencies: []string{"a1", "a2"}},
		{ID: "b2", EstimatedHours: 5, Dependencies: []string{"a2", "a1"}},
		{ID: "c1", EstimatedHours: 1, Dependencies: []string{"b1", "b2"}},
	}

	first, err := ComputeCriticalPath(mustGraph(t, items))
	if err != nil {
		t.Fatalf("ComputeCriticalPath() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := ComputeCriticalPath(mustGraph(t, items))
		if err != nil {
			t.Fatalf("ComputeCriticalPath() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestCriticalPathTieBreaksOnLowestID(t *testing.T) {
	// Two identical parallel chains; both are fully critical, the reported
	// path must follow the lexicographically lowest ids.
	items := []models.WorkItem{
		{ID: "a", EstimatedHours: 3},
		{ID: "b", EstimatedHours: 3},
		{ID: "x", EstimatedHours: 2, Dependencies: []string{"a"}},
		{ID: "y", EstimatedHours: 2, Dependencies: []string{"b"}},
	}
	result, err := ComputeCriticalPath(mustGraph(t, items))
	if err != nil {
		t.Fatalf("ComputeCriticalPath() error = %v", err)
	}
	if !reflect.DeepEqual(result.CriticalNodes, []string{"a", "b", "x", "y"}) {
		t.Errorf("CriticalNodes = %v, want all four", result.CriticalNodes)
	}
	if !reflect.DeepEqual(result.Path, []string{"a", "x"}) {
		t.Errorf("Path = %v, want [a x]", result.Path)
	}
}

func TestRedundantEdgeChangesNothing(t *testing.T) {
	chain := []models.WorkItem{
		{ID: "A", EstimatedHours: 1},
		{ID: "B", EstimatedHours: 2, Dependencies: []string{"A"}},
		{ID: "C", EstimatedHours: 3, Dependencies: []string{"B"}},
	}
	withShortcut := []models.WorkItem{
		{ID: "A", EstimatedHours: 1},
		{ID: "B", EstimatedHours: 2, Dependencies: []string{"A"}},
		{ID: "C", EstimatedHours: 3, Dependencies: []string{"B", "A"}},
	}

	base, err := ComputeCriticalPath(mustGraph(t, chain))
	if err != nil {
		t.Fatalf("ComputeCriticalPath() error = %v", err)
	}
	shortcut, err := ComputeCriticalPath(mustGraph(t, withShortcut))
	if err != nil {
		t.Fatalf("ComputeCriticalPath() error = %v", err)
	}

	if base.TotalDuration != shortcut.TotalDuration {
		t.Errorf("TotalDuration changed: %v vs %v", base.TotalDuration, shortcut.TotalDuration)
	}
	if !reflect.DeepEqual(base.CriticalNodes, shortcut.CriticalNodes) {
		t.Errorf("CriticalNodes changed: %v vs %v", base.CriticalNodes, shortcut.CriticalNodes)
	}
}

func TestSlackNeverNegativeAndCriticalNonEmpty(t *testing.T) {
	items := []models.WorkItem{
		{ID: "design", EstimatedHours: 8},
		{ID: "fab", EstimatedHours: 16, Dependencies: []string{"design"}},
		{ID: "sim", EstimatedHours: 4, Dependencies: []string{"design"}},
		{ID: "review", EstimatedHours: 2, Dependencies: []string{"fab", "sim"}},
		{ID: "docs", EstimatedHours: 1},
	}
	result, err := ComputeCriticalPath(mustGraph(t, items))
	if err != nil {
		t.Fatalf("ComputeCriticalPath() error = %v", err)
	}
	if len(result.CriticalNodes) == 0 {
		t.Fatal("expected a non-empty critical node set")
	}
	for _, n := range result.Nodes {
		if n.Slack < 0 {
			t.Errorf("node %s has negative slack %v", n.ID, n.Slack)
		}
		if n.LatestFinish-n.LatestStart-n.Duration > 1e-9 {
			t.Errorf("node %s: latest window inconsistent with duration", n.ID)
		}
	}
}

func TestZeroDurationGetsEpsilon(t *testing.T) {
	items := []models.WorkItem{
		{ID: "gate", EstimatedHours: 0},
		{ID: "work", EstimatedHours: 5, Dependencies: []string{"gate"}},
	}
	result, err := ComputeCriticalPath(mustGraph(t, items))
	if err != nil {
		t.Fatalf("ComputeCriticalPath() error = %v", err)
	}
	gate := scheduleByID(t, result, "gate")
	if gate.Duration != SlackEpsilon {
		t.Errorf("gate duration = %v, want epsilon", gate.Duration)
	}
	if math.Abs(result.TotalDuration-(5+SlackEpsilon)) > 1e-9 {
		t.Errorf("TotalDuration = %v, want 5+epsilon", result.TotalDuration)
	}
	if len(result.CriticalNodes) != 2 {
		t.Errorf("CriticalNodes = %v, want both nodes", result.CriticalNodes)
	}
}

func TestSchedulerRejectsCyclicInput(t *testing.T) {
	// Hand-built cyclic graph: the builder would never emit this, but the
	// scheduler must not trust its callers.
	graph := &models.DependencyGraph{
		Nodes: []models.GraphNode{{ID: "A", EstimatedHours: 1}, {ID: "B", EstimatedHours: 1}},
		Edges: []models.GraphEdge{
			{From: "A", To: "B", Type: models.EdgeFinishToStart},
			{From: "B", To: "A", Type: models.EdgeFinishToStart},
		},
	}
	_, err := ComputeCriticalPath(graph)
	var cycle *models.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}
}

func TestEmptyGraph(t *testing.T) {
	result, err := ComputeCriticalPath(&models.DependencyGraph{})
	if err != nil {
		t.Fatalf("ComputeCriticalPath() error = %v", err)
	}
	if result.TotalDuration != 0 || len(result.Nodes) != 0 || len(result.CriticalNodes) != 0 || len(result.Path) != 0 {
		t.Errorf("unexpected non-zero result for empty graph: %+v", result)
	}
}

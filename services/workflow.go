package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/logging"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/repositories"
)

// ProjectWorkflow is the composed read-path view of one project.
type ProjectWorkflow struct {
	WorkUnits       []models.WorkItem          `json:"workUnits"`
	DependencyGraph *models.DependencyGraph    `json:"dependencyGraph"`
	CriticalPath    *models.CriticalPathResult `json:"criticalPath"`
	Metrics         models.WorkflowMetrics     `json:"metrics"`
}

// WorkflowService composes the graph builder, scheduler and metrics
// aggregator over repository snapshots, and serializes dependency edits per
// project to protect the acyclicity invariant. Reads take no lock: they are
// pure over the snapshot they fetch.
type WorkflowService struct {
	repo   repositories.WorkItemRepository
	mirror repositories.GraphMirror

	mu           sync.Mutex
	projectLocks map[string]*sync.Mutex
}

func NewWorkflowService(repo repositories.WorkItemRepository, mirror repositories.GraphMirror) *WorkflowService {
	return &WorkflowService{
		repo:         repo,
		mirror:       mirror,
		projectLocks: make(map[string]*sync.Mutex),
	}
}

// ProjectWorkflow fetches a snapshot and derives graph, schedule and
// metrics. A cycle or unknown dependency here means the stored data breached
// an invariant the edit path should have protected; it fails loudly.
func (s *WorkflowService) ProjectWorkflow(ctx context.Context, projectID string) (*ProjectWorkflow, error) {
	items, err := s.repo.ItemsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.WorkItem{}
	}

	graph, err := BuildProjectGraph(items)
	if err != nil {
		return nil, fmt.Errorf("stored graph for project %s is invalid: %w", projectID, err)
	}
	criticalPath, err := ComputeCriticalPath(graph)
	if err != nil {
		return nil, fmt.Errorf("stored graph for project %s is invalid: %w", projectID, err)
	}

	return &ProjectWorkflow{
		WorkUnits:       items,
		DependencyGraph: graph,
		CriticalPath:    criticalPath,
		Metrics:         ComputeWorkflowMetrics(items),
	}, nil
}

// KanbanBoard buckets a project's items by column; an unset column counts
// as backlog. All five columns are always present.
func (s *WorkflowService) KanbanBoard(ctx context.Context, projectID string) (map[models.BoardColumn][]models.WorkItem, error) {
	items, err := s.repo.ItemsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	board := make(map[models.BoardColumn][]models.WorkItem, len(models.Columns))
	for _, col := range models.Columns {
		board[col] = []models.WorkItem{}
	}
	for _, item := range items {
		column := item.Column
		if !models.ValidColumn(column) {
			column = models.ColumnBacklog
		}
		board[column] = append(board[column], item)
	}
	return board, nil
}

// UpdateDependencies replaces one item's dependency set after validating
// the whole project graph against the candidate edit. Edits to the same
// project are serialized; a rejected edit leaves the stored graph untouched.
func (s *WorkflowService) UpdateDependencies(ctx context.Context, itemID string, dependencies []string) (*models.WorkItem, *models.DependencyGraph, error) {
	item, err := s.repo.ItemByID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}

	lock := s.projectLock(item.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		items, err := s.repo.ItemsByProject(ctx, item.ProjectID)
		if err != nil {
			return nil, nil, err
		}

		graph, err := ValidateDependencyUpdate(items, itemID, dependencies)
		if err != nil {
			return nil, nil, err
		}

		var current *models.WorkItem
		for i := range items {
			if items[i].ID == itemID {
				current = &items[i]
				break
			}
		}
		if current == nil {
			return nil, nil, &models.NotFoundError{Resource: "work item", ID: itemID}
		}

		updated := current.Clone()
		updated.Dependencies = NormalizeDependencies(itemID, dependencies)

		err = s.repo.UpdateVersioned(ctx, updated)
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			// A lifecycle transition raced the edit; revalidate against the
			// fresh snapshot.
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		s.mirrorGraph(item.ProjectID, graph)
		return updated, graph, nil
	}
	return nil, nil, &models.ConflictError{ItemID: itemID}
}

// mirrorGraph pushes the accepted graph to the visualizer store,
// best-effort.
func (s *WorkflowService) mirrorGraph(projectID string, graph *models.DependencyGraph) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mirror.SyncProjectGraph(ctx, projectID, graph); err != nil {
			logging.Logger.Warnf("Event ID: GRAPH_MIRROR_FAILED, Description: Failed to mirror graph for project %s: %v", projectID, err)
		}
	}()
}

func (s *WorkflowService) projectLock(projectID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.projectLocks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		s.projectLocks[projectID] = lock
	}
	return lock
}

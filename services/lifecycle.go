package services

import (
	"context"
	"errors"
	"time"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/logging"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/repositories"
)

// Event types published after successful transitions.
const (
	EventItemStarted   = "item_started"
	EventItemCompleted = "item_completed"
	EventItemDeleted   = "item_deleted"
	EventKanbanUpdate  = "kanban_update"
)

// maxTransitionRetries bounds the optimistic-concurrency loop. A conflict
// means another writer won the version race; the transition is re-validated
// against the fresh item before retrying.
const maxTransitionRetries = 3

// LifecycleService owns every status/column mutation of a work item. Each
// transition is atomic per item: validate against a fresh read, then write
// with a version compare-and-swap, so concurrent writers resolve to exactly
// one winner.
type LifecycleService struct {
	repo     repositories.WorkItemRepository
	notifier Notifier
	now      func() time.Time
}

func NewLifecycleService(repo repositories.WorkItemRepository, notifier Notifier) *LifecycleService {
	return &LifecycleService{repo: repo, notifier: notifier, now: time.Now}
}

// CreateItemInput carries the caller-settable fields of a new item.
type CreateItemInput struct {
	ProjectID      string          `json:"projectId"`
	Kind           models.ItemKind `json:"kind"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Priority       string          `json:"priority"`
	EstimatedHours float64         `json:"estimatedHours"`
	AssigneeID     string          `json:"assigneeId"`
	DueDate        *time.Time      `json:"dueDate"`
}

// Create inserts a new item in column backlog / status pending.
func (s *LifecycleService) Create(ctx context.Context, input CreateItemInput) (*models.WorkItem, error) {
	if input.ProjectID == "" {
		return nil, &models.ValidationError{Field: "projectId", Message: "is required"}
	}
	if input.Name == "" {
		return nil, &models.ValidationError{Field: "name", Message: "is required"}
	}
	if input.EstimatedHours < 0 {
		return nil, &models.ValidationError{Field: "estimatedHours", Message: "must be non-negative"}
	}
	kind := input.Kind
	if kind == "" {
		kind = models.KindTask
	}
	if kind != models.KindTask && kind != models.KindWorkUnit {
		return nil, &models.ValidationError{Field: "kind", Message: "must be task or work_unit"}
	}
	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}

	now := s.now().UTC()
	item := &models.WorkItem{
		ProjectID:      input.ProjectID,
		Kind:           kind,
		Name:           input.Name,
		Description:    input.Description,
		Priority:       priority,
		Status:         models.StatusPending,
		Column:         models.ColumnBacklog,
		EstimatedHours: input.EstimatedHours,
		AssigneeID:     input.AssigneeID,
		DueDate:        input.DueDate,
		Dependencies:   []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Start moves a pending item into progress and stamps startedAt.
func (s *LifecycleService) Start(ctx context.Context, id string) (*models.WorkItem, error) {
	return s.transition(ctx, id, "start", func(item *models.WorkItem) error {
		if item.Status != models.StatusPending {
			return &models.TransitionError{ItemID: id, From: item.Status, Action: "start"}
		}
		item.Status = models.StatusInProgress
		if item.StartedAt == nil {
			t := s.now().UTC()
			item.StartedAt = &t
		}
		return nil
	}, EventItemStarted)
}

// Complete finishes an in-progress item: status completed, column done,
// progress 100, and the derived time/efficiency figures.
func (s *LifecycleService) Complete(ctx context.Context, id string) (*models.WorkItem, error) {
	return s.transition(ctx, id, "complete", func(item *models.WorkItem) error {
		if item.Status != models.StatusInProgress {
			return &models.TransitionError{ItemID: id, From: item.Status, Action: "complete"}
		}
		now := s.now().UTC()
		item.Status = models.StatusCompleted
		item.Column = models.ColumnDone
		item.Progress = 100
		item.CompletedAt = &now

		item.TimeSpentHours = 0
		if item.StartedAt != nil {
			item.TimeSpentHours = now.Sub(*item.StartedAt).Hours()
		}
		item.EfficiencyScore = nil
		if item.TimeSpentHours > 0 {
			score := item.EstimatedHours / item.TimeSpentHours
			item.EfficiencyScore = &score
		}
		return nil
	}, EventItemCompleted)
}

// Move places an item in a board column and derives its status from the
// target. Moving out of done reopens the item: completedAt and the derived
// completion figures are cleared.
func (s *LifecycleService) Move(ctx context.Context, id string, target models.BoardColumn) (*models.WorkItem, error) {
	if !models.ValidColumn(target) {
		return nil, &models.ValidationError{Field: "column", Message: "unknown column"}
	}
	return s.transition(ctx, id, "move", func(item *models.WorkItem) error {
		item.Column = target
		switch target {
		case models.ColumnDone:
			item.Status = models.StatusCompleted
			if item.CompletedAt == nil {
				t := s.now().UTC()
				item.CompletedAt = &t
			}
		case models.ColumnBacklog, models.ColumnTodo:
			item.Status = models.StatusPending
			s.reopen(item)
		default:
			item.Status = models.StatusInProgress
			s.reopen(item)
			if item.StartedAt == nil {
				t := s.now().UTC()
				item.StartedAt = &t
			}
		}
		return nil
	}, EventKanbanUpdate)
}

// reopen clears the completion stamps of a previously completed item being
// moved backward on the board.
func (s *LifecycleService) reopen(item *models.WorkItem) {
	if item.CompletedAt == nil {
		return
	}
	item.CompletedAt = nil
	item.TimeSpentHours = 0
	item.EfficiencyScore = nil
}

// UpdateItemInput holds the direct field edits that bypass the state
// machine. Nil pointers leave the field untouched.
type UpdateItemInput struct {
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	Priority       *string    `json:"priority"`
	EstimatedHours *float64   `json:"estimatedHours"`
	Progress       *float64   `json:"progress"`
	AssigneeID     *string    `json:"assigneeId"`
	DueDate        *time.Time `json:"dueDate"`
}

// UpdateFields applies direct edits; status and column are untouched.
func (s *LifecycleService) UpdateFields(ctx context.Context, id string, input UpdateItemInput) (*models.WorkItem, error) {
	if input.EstimatedHours != nil && *input.EstimatedHours < 0 {
		return nil, &models.ValidationError{Field: "estimatedHours", Message: "must be non-negative"}
	}
	if input.Progress != nil && (*input.Progress < 0 || *input.Progress > 100) {
		return nil, &models.ValidationError{Field: "progress", Message: "must be between 0 and 100"}
	}
	if input.Name != nil && *input.Name == "" {
		return nil, &models.ValidationError{Field: "name", Message: "must not be empty"}
	}
	return s.transition(ctx, id, "update", func(item *models.WorkItem) error {
		if input.Name != nil {
			item.Name = *input.Name
		}
		if input.Description != nil {
			item.Description = *input.Description
		}
		if input.Priority != nil {
			item.Priority = *input.Priority
		}
		if input.EstimatedHours != nil {
			item.EstimatedHours = *input.EstimatedHours
		}
		if input.Progress != nil {
			item.Progress = *input.Progress
		}
		if input.AssigneeID != nil {
			item.AssigneeID = *input.AssigneeID
		}
		if input.DueDate != nil {
			item.DueDate = input.DueDate
		}
		return nil
	}, "")
}

// UpdateTimeTracking records actual hours and recomputes the efficiency
// score from them.
func (s *LifecycleService) UpdateTimeTracking(ctx context.Context, id string, actualHours float64) (*models.WorkItem, error) {
	if actualHours < 0 {
		return nil, &models.ValidationError{Field: "actualHours", Message: "must be non-negative"}
	}
	return s.transition(ctx, id, "time-tracking", func(item *models.WorkItem) error {
		item.ActualHours = actualHours
		if item.EstimatedHours > 0 && actualHours > 0 {
			score := item.EstimatedHours / actualHours
			item.EfficiencyScore = &score
		}
		return nil
	}, "")
}

// Delete removes the item and prunes it from every other item's dependency
// set. Dependents are kept; their graphs simply lose the edge.
func (s *LifecycleService) Delete(ctx context.Context, id string) error {
	item, err := s.repo.ItemByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.repo.PruneDependency(ctx, item.ProjectID, id); err != nil {
		return err
	}
	s.publish(item.ProjectID, EventItemDeleted, models.ChangeEvent{ItemID: id})
	return nil
}

// transition runs the read-validate-write loop. mutate sees a private clone;
// on a version conflict the item is re-read and re-validated, so a race that
// invalidates the transition surfaces as a TransitionError, never as a lost
// update.
func (s *LifecycleService) transition(ctx context.Context, id, action string, mutate func(*models.WorkItem) error, eventType string) (*models.WorkItem, error) {
	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		item, err := s.repo.ItemByID(ctx, id)
		if err != nil {
			return nil, err
		}
		previousColumn := item.Column

		updated := item.Clone()
		if err := mutate(updated); err != nil {
			return nil, err
		}

		err = s.repo.UpdateVersioned(ctx, updated)
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if eventType != "" {
			s.publish(updated.ProjectID, eventType, models.ChangeEvent{
				ItemID:         updated.ID,
				PreviousColumn: previousColumn,
				NewColumn:      updated.Column,
			})
		}
		return updated, nil
	}
	return nil, &models.ConflictError{ItemID: id}
}

// publish delivers the event asynchronously; a notifier outage never blocks
// or fails the transition that already committed.
func (s *LifecycleService) publish(projectID, eventType string, event models.ChangeEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.Publish(ctx, projectID, eventType, event); err != nil {
			logging.Logger.Warnf("Event ID: NOTIFY_FAILED, Description: Failed to publish %s for item %s: %v", eventType, event.ItemID, err)
		}
	}()
}

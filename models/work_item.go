package models

import "time"

type ItemKind string

const (
	KindTask     ItemKind = "task"
	KindWorkUnit ItemKind = "work_unit"
)

type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusInProgress ItemStatus = "in_progress"
	StatusReview     ItemStatus = "review"
	StatusCompleted  ItemStatus = "completed"
)

type BoardColumn string

const (
	ColumnBacklog    BoardColumn = "backlog"
	ColumnTodo       BoardColumn = "todo"
	ColumnInProgress BoardColumn = "in_progress"
	ColumnReview     BoardColumn = "review"
	ColumnDone       BoardColumn = "done"
)

// Columns lists every board column in display order.
var Columns = []BoardColumn{ColumnBacklog, ColumnTodo, ColumnInProgress, ColumnReview, ColumnDone}

func ValidColumn(c BoardColumn) bool {
	for _, col := range Columns {
		if col == c {
			return true
		}
	}
	return false
}

// WorkItem is a single unit of engineering work, either a fine-grained task
// or a larger work unit. Version is the optimistic concurrency stamp; every
// successful write increments it.
type WorkItem struct {
	ID              string      `json:"id" bson:"_id,omitempty"`
	ProjectID       string      `json:"projectId" bson:"projectId"`
	Kind            ItemKind    `json:"kind" bson:"kind"`
	Name            string      `json:"name" bson:"name"`
	Description     string      `json:"description" bson:"description"`
	Status          ItemStatus  `json:"status" bson:"status"`
	Column          BoardColumn `json:"column" bson:"column"`
	Priority        string      `json:"priority" bson:"priority"`
	EstimatedHours  float64     `json:"estimatedHours" bson:"estimatedHours"`
	ActualHours     float64     `json:"actualHours" bson:"actualHours"`
	Progress        float64     `json:"progress" bson:"progress"`
	TimeSpentHours  float64     `json:"timeSpentHours" bson:"timeSpentHours"`
	EfficiencyScore *float64    `json:"efficiencyScore" bson:"efficiencyScore,omitempty"`
	StartedAt       *time.Time  `json:"startedAt" bson:"startedAt,omitempty"`
	CompletedAt     *time.Time  `json:"completedAt" bson:"completedAt,omitempty"`
	DueDate         *time.Time  `json:"dueDate" bson:"dueDate,omitempty"`
	AssigneeID      string      `json:"assigneeId" bson:"assigneeId,omitempty"`
	Dependencies    []string    `json:"dependencies" bson:"dependencies"`
	CreatedAt       time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt" bson:"updatedAt"`
	Version         int64       `json:"version" bson:"version"`
}

// Active reports whether the item counts toward its assignee's workload.
func (w *WorkItem) Active() bool {
	return w.Status == StatusPending || w.Status == StatusInProgress
}

// Clone returns a deep copy; lifecycle transitions mutate copies so a failed
// validation never leaks partial changes.
func (w *WorkItem) Clone() *WorkItem {
	c := *w
	if w.Dependencies != nil {
		c.Dependencies = append([]string(nil), w.Dependencies...)
	}
	if w.EfficiencyScore != nil {
		v := *w.EfficiencyScore
		c.EfficiencyScore = &v
	}
	if w.StartedAt != nil {
		t := *w.StartedAt
		c.StartedAt = &t
	}
	if w.CompletedAt != nil {
		t := *w.CompletedAt
		c.CompletedAt = &t
	}
	if w.DueDate != nil {
		t := *w.DueDate
		c.DueDate = &t
	}
	return &c
}

// ChangeEvent is published to the real-time notifier after a successful
// board move or lifecycle transition.
type ChangeEvent struct {
	ItemID         string      `json:"itemId"`
	PreviousColumn BoardColumn `json:"previousColumn,omitempty"`
	NewColumn      BoardColumn `json:"newColumn,omitempty"`
}

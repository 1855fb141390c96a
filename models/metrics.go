package models

// WorkflowMetrics is a pure function of the current item and edge set,
// recomputed on every query and never persisted. Every field is always
// present; zero-item projects yield the documented sentinel defaults.
type WorkflowMetrics struct {
	TotalItems             int     `json:"totalItems"`
	PendingItems           int     `json:"pendingItems"`
	InProgressItems        int     `json:"inProgressItems"`
	ReviewItems            int     `json:"reviewItems"`
	CompletedItems         int     `json:"completedItems"`
	CompletionRate         float64 `json:"completionRate"`
	TotalEstimatedHours    float64 `json:"totalEstimatedHours"`
	TotalActualHours       float64 `json:"totalActualHours"`
	Efficiency             float64 `json:"efficiency"`
	AvgProgress            float64 `json:"avgProgress"`
	DependencyCount        int     `json:"dependencyCount"`
	AvgDependenciesPerItem float64 `json:"avgDependenciesPerItem"`
}

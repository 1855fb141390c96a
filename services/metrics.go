package services

import "github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"

// ComputeWorkflowMetrics derives the scalar project health figures from the
// current item snapshot. Pure and O(items + edges); recomputed on every
// query, never cached.
func ComputeWorkflowMetrics(items []models.WorkItem) models.WorkflowMetrics {
	m := models.WorkflowMetrics{
		TotalItems: len(items),
		Efficiency: 1.0,
	}

	totalProgress := 0.0
	for _, item := range items {
		switch item.Status {
		case models.StatusPending:
			m.PendingItems++
		case models.StatusInProgress:
			m.InProgressItems++
		case models.StatusReview:
			m.ReviewItems++
		case models.StatusCompleted:
			m.CompletedItems++
		}
		m.TotalEstimatedHours += item.EstimatedHours
		m.TotalActualHours += item.ActualHours
		totalProgress += item.Progress
		m.DependencyCount += len(item.Dependencies)
	}

	if m.TotalItems > 0 {
		m.CompletionRate = float64(m.CompletedItems) / float64(m.TotalItems) * 100
		m.AvgProgress = totalProgress / float64(m.TotalItems)
		m.AvgDependenciesPerItem = float64(m.DependencyCount) / float64(m.TotalItems)
	}
	if m.TotalActualHours > 0 {
		m.Efficiency = m.TotalEstimatedHours / m.TotalActualHours
	}
	return m
}

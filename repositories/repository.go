package repositories

import (
	"context"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
)

// WorkItemRepository is the persistence boundary for work items. The
// workflow core never touches storage directly; implementations must honor
// versioned compare-and-swap semantics on UpdateVersioned.
type WorkItemRepository interface {
	ItemsByProject(ctx context.Context, projectID string) ([]models.WorkItem, error)
	ItemByID(ctx context.Context, id string) (*models.WorkItem, error)
	ActiveItems(ctx context.Context) ([]models.WorkItem, error)
	Insert(ctx context.Context, item *models.WorkItem) error

	// UpdateVersioned writes the full item iff the stored version still
	// equals item.Version, then increments the version. Returns
	// *models.ConflictError on a stale version and *models.NotFoundError
	// for an unknown id.
	UpdateVersioned(ctx context.Context, item *models.WorkItem) error

	Delete(ctx context.Context, id string) error

	// PruneDependency removes itemID from every other item's dependency set
	// within the project.
	PruneDependency(ctx context.Context, projectID, itemID string) error
}

// MemberRepository supplies the team directory consumed by the capacity
// engine.
type MemberRepository interface {
	ActiveMembers(ctx context.Context) ([]models.TeamMember, error)
	MemberByID(ctx context.Context, id string) (*models.TeamMember, error)
}

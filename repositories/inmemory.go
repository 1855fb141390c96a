package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
)

// InMemoryRepository keeps items and members in process memory. Used by the
// tests and as the fallback store when no MongoDB is configured.
type InMemoryRepository struct {
	mu      sync.RWMutex
	items   map[string]*models.WorkItem
	members map[string]*models.TeamMember
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		items:   make(map[string]*models.WorkItem),
		members: make(map[string]*models.TeamMember),
	}
}

func (r *InMemoryRepository) ItemsByProject(ctx context.Context, projectID string) ([]models.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []models.WorkItem
	for _, item := range r.items {
		if item.ProjectID == projectID {
			items = append(items, *item.Clone())
		}
	}
	sortItems(items)
	return items, nil
}

func (r *InMemoryRepository) ActiveItems(ctx context.Context) ([]models.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []models.WorkItem
	for _, item := range r.items {
		if item.Active() {
			items = append(items, *item.Clone())
		}
	}
	sortItems(items)
	return items, nil
}

func (r *InMemoryRepository) ItemByID(ctx context.Context, id string) (*models.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "work item", ID: id}
	}
	return item.Clone(), nil
}

func (r *InMemoryRepository) Insert(ctx context.Context, item *models.WorkItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("work item %s already exists", item.ID)
	}
	r.items[item.ID] = item.Clone()
	return nil
}

func (r *InMemoryRepository) UpdateVersioned(ctx context.Context, item *models.WorkItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok {
		return &models.NotFoundError{Resource: "work item", ID: item.ID}
	}
	if stored.Version != item.Version {
		return &models.ConflictError{ItemID: item.ID}
	}

	updated := item.Clone()
	updated.Version = item.Version + 1
	updated.UpdatedAt = time.Now().UTC()
	r.items[item.ID] = updated
	*item = *updated.Clone()
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return &models.NotFoundError{Resource: "work item", ID: id}
	}
	delete(r.items, id)
	return nil
}

func (r *InMemoryRepository) PruneDependency(ctx context.Context, projectID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if item.ProjectID != projectID {
			continue
		}
		pruned := item.Dependencies[:0]
		changed := false
		for _, dep := range item.Dependencies {
			if dep == itemID {
				changed = true
				continue
			}
			pruned = append(pruned, dep)
		}
		if changed {
			item.Dependencies = pruned
			item.Version++
			item.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (r *InMemoryRepository) ActiveMembers(ctx context.Context) ([]models.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []models.TeamMember
	for _, m := range r.members {
		if m.IsActive {
			members = append(members, *m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (r *InMemoryRepository) MemberByID(ctx context.Context, id string) (*models.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "member", ID: id}
	}
	member := *m
	return &member, nil
}

func (r *InMemoryRepository) PutMember(member models.TeamMember) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[member.ID] = &member
}

func sortItems(items []models.WorkItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}

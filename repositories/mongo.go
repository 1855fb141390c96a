package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
)

// MongoWorkItemRepository stores work items in a MongoDB collection.
type MongoWorkItemRepository struct {
	items *mongo.Collection
}

func NewMongoWorkItemRepository(db *mongo.Database) *MongoWorkItemRepository {
	return &MongoWorkItemRepository{items: db.Collection("work_items")}
}

func (r *MongoWorkItemRepository) ItemsByProject(ctx context.Context, projectID string) ([]models.WorkItem, error) {
	return r.find(ctx, bson.M{"projectId": projectID})
}

func (r *MongoWorkItemRepository) ActiveItems(ctx context.Context) ([]models.WorkItem, error) {
	return r.find(ctx, bson.M{"status": bson.M{"$in": []models.ItemStatus{models.StatusPending, models.StatusInProgress}}})
}

func (r *MongoWorkItemRepository) find(ctx context.Context, filter bson.M) ([]models.WorkItem, error) {
	cursor, err := r.items.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve work items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.WorkItem
	for cursor.Next(ctx) {
		var item models.WorkItem
		if err := cursor.Decode(&item); err != nil {
			return nil, fmt.Errorf("failed to decode work item: %w", err)
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return items, nil
}

func (r *MongoWorkItemRepository) ItemByID(ctx context.Context, id string) (*models.WorkItem, error) {
	var item models.WorkItem
	err := r.items.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &models.NotFoundError{Resource: "work item", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve work item: %w", err)
	}
	return &item, nil
}

func (r *MongoWorkItemRepository) Insert(ctx context.Context, item *models.WorkItem) error {
	if item.ID == "" {
		item.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.items.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to create work item: %w", err)
	}
	return nil
}

func (r *MongoWorkItemRepository) UpdateVersioned(ctx context.Context, item *models.WorkItem) error {
	updated := item.Clone()
	updated.Version = item.Version + 1
	updated.UpdatedAt = time.Now().UTC()

	result, err := r.items.ReplaceOne(ctx, bson.M{"_id": item.ID, "version": item.Version}, updated)
	if err != nil {
		return fmt.Errorf("failed to update work item: %w", err)
	}
	if result.MatchedCount == 0 {
		// Distinguish a stale version from a deleted item.
		count, err := r.items.CountDocuments(ctx, bson.M{"_id": item.ID})
		if err != nil {
			return fmt.Errorf("failed to check work item existence: %w", err)
		}
		if count == 0 {
			return &models.NotFoundError{Resource: "work item", ID: item.ID}
		}
		return &models.ConflictError{ItemID: item.ID}
	}

	*item = *updated
	return nil
}

func (r *MongoWorkItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.items.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete work item: %w", err)
	}
	if result.DeletedCount == 0 {
		return &models.NotFoundError{Resource: "work item", ID: id}
	}
	return nil
}

func (r *MongoWorkItemRepository) PruneDependency(ctx context.Context, projectID, itemID string) error {
	_, err := r.items.UpdateMany(ctx,
		bson.M{"projectId": projectID, "dependencies": itemID},
		bson.M{
			"$pull": bson.M{"dependencies": itemID},
			"$inc":  bson.M{"version": 1},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return fmt.Errorf("failed to prune dependency %s: %w", itemID, err)
	}
	return nil
}

// MongoMemberRepository reads the team directory maintained by the users
// service.
type MongoMemberRepository struct {
	members *mongo.Collection
}

func NewMongoMemberRepository(db *mongo.Database) *MongoMemberRepository {
	return &MongoMemberRepository{members: db.Collection("members")}
}

func (r *MongoMemberRepository) ActiveMembers(ctx context.Context) ([]models.TeamMember, error) {
	cursor, err := r.members.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.TeamMember
	for cursor.Next(ctx) {
		var m models.TeamMember
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode member: %w", err)
		}
		members = append(members, m)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return members, nil
}

func (r *MongoMemberRepository) MemberByID(ctx context.Context, id string) (*models.TeamMember, error) {
	var m models.TeamMember
	err := r.members.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &models.NotFoundError{Resource: "member", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve member: %w", err)
	}
	return &m, nil
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sathvik89/task-manager-api/internal/core/domain"
	"github.com/sathvik89/task-manager-api/internal/core/ports"
)

const tasksCollection = "tasks"

// TaskRepository implements ports.TaskRepository using MongoDB.
type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Status      string             `bson:"status"`
	Category    string             `bson:"category"`
	DueDate     *time.Time         `bson:"due_date,omitempty"`
	IsDeleted   bool               `bson:"is_deleted"`
	DeletedAt   *time.Time         `bson:"deleted_at,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (t *mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:          t.ID.Hex(),
		Title:       t.Title,
		Description: t.Description,
		Status:      domain.TaskStatus(t.Status),
		Category:    domain.TaskCategory(t.Category),
		DueDate:     t.DueDate,
		IsDeleted:   t.IsDeleted,
		DeletedAt:   t.DeletedAt,
		OwnerID:     t.OwnerID.Hex(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ownerScope builds the base filter every task query starts from. Invalid ids
// are mapped to ErrTaskNotFound so malformed input never reaches the driver.
func ownerScope(ownerID, taskID string, deleted bool) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	return bson.M{"_id": oid, "owner_id": owner, "is_deleted": deleted}, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(t.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("insert task: invalid owner id: %w", err)
	}

	doc := mongoTask{
		ID:          primitive.NewObjectID(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Category:    string(t.Category),
		DueDate:     t.DueDate,
		IsDeleted:   false,
		OwnerID:     owner,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *TaskRepository) FindByID(ctx context.Context, ownerID, taskID string, deleted bool) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownerScope(ownerID, taskID, deleted)
	if err != nil {
		return nil, err
	}

	var doc mongoTask
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) List(ctx context.Context, f ports.ListTasksFilter) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(f.OwnerID)
	if err != nil {
		return []*domain.Task{}, nil
	}

	filter := bson.M{"owner_id": owner, "is_deleted": f.Deleted}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	sort := bson.D{{Key: "created_at", Value: -1}}
	if f.SortBy == ports.SortByDueDate {
		sort = bson.D{{Key: "due_date", Value: 1}}
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cur.Close(ctx)

	tasks := []*domain.Task{}
	for cur.Next(ctx) {
		var doc mongoTask
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, ownerID, taskID string, fields ports.UpdateTaskFields) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownerScope(ownerID, taskID, false)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"title":      fields.Title,
		"updated_at": time.Now().UTC(),
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Status != nil {
		set["status"] = string(*fields.Status)
	}
	if fields.Category != nil {
		set["category"] = string(*fields.Category)
	}
	if fields.DueDate != nil {
		set["due_date"] = *fields.DueDate
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoTask
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return doc.toDomain(), nil
}

// SetDeleted atomically flips the trash flag. The filter matches only tasks in
// the opposite state, so deleting twice (or restoring an active task) is a miss.
func (r *TaskRepository) SetDeleted(ctx context.Context, ownerID, taskID string, deleted bool, deletedAt *time.Time) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownerScope(ownerID, taskID, !deleted)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"is_deleted": deleted,
		"updated_at": time.Now().UTC(),
	}}
	if deleted {
		update["$set"].(bson.M)["deleted_at"] = deletedAt
	} else {
		update["$unset"] = bson.M{"deleted_at": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoTask
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("set deleted: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) DeletePermanently(ctx context.Context, ownerID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// Only trashed tasks are eligible for permanent deletion.
	filter, err := ownerScope(ownerID, taskID, true)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) CountByStatus(ctx context.Context, ownerID string) (ports.StatusCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return ports.StatusCounts{}, nil
	}

	base := bson.M{"owner_id": owner, "is_deleted": false}

	var counts ports.StatusCounts
	counts.Total, err = r.coll.CountDocuments(ctx, base)
	if err != nil {
		return counts, fmt.Errorf("count tasks: %w", err)
	}

	byStatus := []struct {
		status string
		dst    *int64
	}{
		{string(domain.StatusTodo), &counts.Todo},
		{string(domain.StatusInProgress), &counts.InProgress},
		{string(domain.StatusCompleted), &counts.Completed},
	}
	for _, q := range byStatus {
		filter := bson.M{"owner_id": owner, "is_deleted": false, "status": q.status}
		n, err := r.coll.CountDocuments(ctx, filter)
		if err != nil {
			return counts, fmt.Errorf("count %s tasks: %w", q.status, err)
		}
		*q.dst = n
	}
	return counts, nil
}

func (r *TaskRepository) FindUpcoming(ctx context.Context, ownerID string, from time.Time, limit int) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []*domain.Task{}, nil
	}

	filter := bson.M{
		"owner_id":   owner,
		"is_deleted": false,
		"status":     bson.M{"$ne": string(domain.StatusCompleted)},
		"due_date":   bson.M{"$gte": from},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "due_date", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find upcoming: %w", err)
	}
	defer cur.Close(ctx)

	tasks := []*domain.Task{}
	for cur.Next(ctx) {
		var doc mongoTask
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("find upcoming: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) DeleteTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{
		"is_deleted": true,
		"deleted_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("purge trash: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the indexes backing owner-scoped queries.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "is_deleted", Value: 1}}},
		{Keys: bson.D{{Key: "due_date", Value: 1}}},
		{Keys: bson.D{{Key: "deleted_at", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

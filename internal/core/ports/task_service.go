package ports

import (
	"context"
	"time"

	"github.com/sathvik89/task-manager-api/internal/core/domain"
)

// CreateTaskInput carries the data needed to create a task.
// Status and Category fall back to "todo" / "Other" when empty.
type CreateTaskInput struct {
	OwnerID     string
	Title       string
	Description string
	Status      string
	Category    string
	DueDate     *time.Time
}

// UpdateTaskInput carries a partial update. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       string
	Description *string
	Status      *string
	Category    *string
	DueDate     *time.Time
}

// ListTasksInput carries the caller identity and list filters.
type ListTasksInput struct {
	OwnerID  string
	Status   string
	Category string
	Search   string
	SortBy   string
}

// TaskStats is the per-owner dashboard aggregate.
type TaskStats struct {
	TotalTasks      int64
	TodoTasks       int64
	InProgressTasks int64
	CompletedTasks  int64
	Upcoming        []*domain.Task
}

// TaskService defines the owner-scoped use cases of the task store.
type TaskService interface {
	List(ctx context.Context, input ListTasksInput) ([]*domain.Task, error)
	ListTrash(ctx context.Context, ownerID string) ([]*domain.Task, error)
	Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error)
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, ownerID, taskID string, input UpdateTaskInput) (*domain.Task, error)
	SoftDelete(ctx context.Context, ownerID, taskID string) error
	Restore(ctx context.Context, ownerID, taskID string) error
	DeletePermanently(ctx context.Context, ownerID, taskID string) error
	Stats(ctx context.Context, ownerID string) (*TaskStats, error)
}

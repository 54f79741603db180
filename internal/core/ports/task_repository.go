package ports

import (
	"context"
	"time"

	"github.com/sathvik89/task-manager-api/internal/core/domain"
)

// Sort keys accepted by ListTasksFilter.SortBy.
const (
	SortByDueDate   = "dueDate"   // ascending, soonest first
	SortByCreatedAt = "createdAt" // descending, newest first (default)
)

// ListTasksFilter carries all query parameters for listing tasks.
// OwnerID is always enforced by the service layer (owner scoping).
type ListTasksFilter struct {
	OwnerID  string
	Deleted  bool   // false = active tasks, true = trash
	Status   string // optional: exact match
	Category string // optional: exact match
	Search   string // optional: case-insensitive substring over title or description
	SortBy   string // SortByDueDate or SortByCreatedAt
}

// UpdateTaskFields holds the partial replacement applied by Update.
// Nil pointers leave the stored value unchanged.
type UpdateTaskFields struct {
	Title       string // required, always replaced
	Description *string
	Status      *domain.TaskStatus
	Category    *domain.TaskCategory
	DueDate     *time.Time
}

// StatusCounts aggregates active tasks by workflow state.
type StatusCounts struct {
	Total      int64
	Todo       int64
	InProgress int64
	Completed  int64
}

// TaskRepository defines persistence operations for tasks. Every lookup that
// takes an ownerID is scoped to that owner: a miss for any reason (wrong id,
// wrong owner, wrong lifecycle state) surfaces as domain.ErrTaskNotFound.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	// FindByID retrieves a single task; deleted selects trash (true) or active (false).
	FindByID(ctx context.Context, ownerID, taskID string, deleted bool) (*domain.Task, error)
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, error)
	// Update applies fields to an active task and returns the updated document.
	Update(ctx context.Context, ownerID, taskID string, fields UpdateTaskFields) (*domain.Task, error)
	// SetDeleted flips the trash flag atomically. deletedAt must be non-nil iff
	// deleted is true. Only matches tasks currently in the opposite state.
	SetDeleted(ctx context.Context, ownerID, taskID string, deleted bool, deletedAt *time.Time) (*domain.Task, error)
	// DeletePermanently removes a trashed task irreversibly.
	DeletePermanently(ctx context.Context, ownerID, taskID string) error
	CountByStatus(ctx context.Context, ownerID string) (StatusCounts, error)
	// FindUpcoming returns non-completed active tasks due at or after from,
	// ordered by due date ascending, capped at limit.
	FindUpcoming(ctx context.Context, ownerID string, from time.Time, limit int) ([]*domain.Task, error)
	// DeleteTrashedBefore purges tasks trashed before cutoff, for all owners.
	DeleteTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

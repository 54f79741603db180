package handler

import "time"

// Task JSON uses the camelCase field names the front end was built against.

type createTaskRequest struct {
	Title       string     `json:"title"       validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"      validate:"omitempty,oneof=todo in-progress completed"`
	Category    string     `json:"category"    validate:"omitempty,oneof=Personal Work Urgent Other"`
	DueDate     *time.Time `json:"dueDate"`
}

// updateTaskRequest is a partial replacement: nil fields keep their stored
// value. Title is always required on update.
type updateTaskRequest struct {
	Title       string     `json:"title"       validate:"required"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=todo in-progress completed"`
	Category    *string    `json:"category"    validate:"omitempty,oneof=Personal Work Urgent Other"`
	DueDate     *time.Time `json:"dueDate"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsDeleted   bool       `json:"isDeleted"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	OwnerID     string     `json:"ownerId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type statsResponse struct {
	TotalTasks      int64          `json:"totalTasks"`
	TodoTasks       int64          `json:"todoTasks"`
	InProgressTasks int64          `json:"inProgressTasks"`
	CompletedTasks  int64          `json:"completedTasks"`
	UpcomingTasks   []taskResponse `json:"upcomingTasks"`
}

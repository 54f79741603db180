package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the workflow state of an active task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// TaskCategory is the user-facing grouping of a task.
type TaskCategory string

const (
	CategoryPersonal TaskCategory = "Personal"
	CategoryWork     TaskCategory = "Work"
	CategoryUrgent   TaskCategory = "Urgent"
	CategoryOther    TaskCategory = "Other"
)

var ErrTaskNotFound = errors.New("task not found")
var ErrTitleRequired = errors.New("title is required")
var ErrForbidden = errors.New("access forbidden")

// ValidStatus reports whether s is one of the three workflow states.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c TaskCategory) bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryUrgent, CategoryOther:
		return true
	}
	return false
}

// Task is the core aggregate. A task always has exactly one owner; ownership
// never changes. DeletedAt is set iff IsDeleted is true.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	Category    TaskCategory
	DueDate     *time.Time
	IsDeleted   bool
	DeletedAt   *time.Time
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

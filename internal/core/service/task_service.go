package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sathvik89/task-manager-api/internal/core/domain"
	"github.com/sathvik89/task-manager-api/internal/core/ports"
)

const upcomingLimit = 5

// TaskService implements the owner-scoped task store use cases.
type TaskService struct {
	repo   ports.TaskRepository
	cache  ports.StatsCache
	logger zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, cache ports.StatsCache, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, cache: cache, logger: logger}
}

func (s *TaskService) List(ctx context.Context, input ports.ListTasksInput) ([]*domain.Task, error) {
	return s.repo.List(ctx, ports.ListTasksFilter{
		OwnerID:  input.OwnerID,
		Deleted:  false,
		Status:   input.Status,
		Category: input.Category,
		Search:   input.Search,
		SortBy:   input.SortBy,
	})
}

func (s *TaskService) ListTrash(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	return s.repo.List(ctx, ports.ListTasksFilter{OwnerID: ownerID, Deleted: true})
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	return s.repo.FindByID(ctx, ownerID, taskID, false)
}

// Create persists a new task owned by the caller. Status and category fall
// back to their defaults when absent.
func (s *TaskService) Create(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.ErrTitleRequired
	}

	status := domain.TaskStatus(input.Status)
	if status == "" {
		status = domain.StatusTodo
	}
	category := domain.TaskCategory(input.Category)
	if category == "" {
		category = domain.CategoryOther
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      status,
		Category:    category,
		DueDate:     input.DueDate,
		OwnerID:     input.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to create task")
		return nil, err
	}

	s.invalidateStats(ctx, input.OwnerID)
	s.logger.Info().Str("task_id", created.ID).Str("owner_id", input.OwnerID).Msg("task created")
	return created, nil
}

// Update applies a partial replacement to an active task.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, input ports.UpdateTaskInput) (*domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.ErrTitleRequired
	}

	fields := ports.UpdateTaskFields{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		DueDate:     input.DueDate,
	}
	if input.Status != nil {
		st := domain.TaskStatus(*input.Status)
		fields.Status = &st
	}
	if input.Category != nil {
		cat := domain.TaskCategory(*input.Category)
		fields.Category = &cat
	}

	updated, err := s.repo.Update(ctx, ownerID, taskID, fields)
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return updated, nil
}

// SoftDelete moves an active task to the trash. Re-deleting an already
// trashed task yields ErrTaskNotFound.
func (s *TaskService) SoftDelete(ctx context.Context, ownerID, taskID string) error {
	now := time.Now().UTC()
	if _, err := s.repo.SetDeleted(ctx, ownerID, taskID, true, &now); err != nil {
		return err
	}

	s.invalidateStats(ctx, ownerID)
	s.logger.Info().Str("task_id", taskID).Str("owner_id", ownerID).Msg("task moved to trash")
	return nil
}

// Restore returns a trashed task to the active set with its status unchanged.
func (s *TaskService) Restore(ctx context.Context, ownerID, taskID string) error {
	if _, err := s.repo.SetDeleted(ctx, ownerID, taskID, false, nil); err != nil {
		return err
	}

	s.invalidateStats(ctx, ownerID)
	s.logger.Info().Str("task_id", taskID).Str("owner_id", ownerID).Msg("task restored")
	return nil
}

// DeletePermanently removes a trashed task irreversibly. Active tasks are not
// matched, so a permanent delete on a non-trashed id yields ErrTaskNotFound.
func (s *TaskService) DeletePermanently(ctx context.Context, ownerID, taskID string) error {
	if err := s.repo.DeletePermanently(ctx, ownerID, taskID); err != nil {
		return err
	}

	s.invalidateStats(ctx, ownerID)
	s.logger.Info().Str("task_id", taskID).Str("owner_id", ownerID).Msg("task permanently deleted")
	return nil
}

// Stats returns the per-owner dashboard aggregate, served from the cache when
// a fresh entry exists. Upcoming excludes completed tasks and tasks already
// past due.
func (s *TaskService) Stats(ctx context.Context, ownerID string) (*ports.TaskStats, error) {
	if cached, err := s.cache.Get(ctx, ownerID); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("stats cache read failed, falling back to store")
	} else if cached != nil {
		return cached, nil
	}

	counts, err := s.repo.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.repo.FindUpcoming(ctx, ownerID, time.Now().UTC(), upcomingLimit)
	if err != nil {
		return nil, err
	}

	stats := &ports.TaskStats{
		TotalTasks:      counts.Total,
		TodoTasks:       counts.Todo,
		InProgressTasks: counts.InProgress,
		CompletedTasks:  counts.Completed,
		Upcoming:        upcoming,
	}

	if err := s.cache.Set(ctx, ownerID, stats); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("failed to set stats cache")
	}

	return stats, nil
}

// invalidateStats drops the cached aggregate after any write. Cache failures
// are logged and swallowed: the entry expires on its own TTL anyway.
func (s *TaskService) invalidateStats(ctx context.Context, ownerID string) {
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("failed to invalidate stats cache")
	}
}

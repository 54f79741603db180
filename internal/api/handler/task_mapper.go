package handler

import (
	"github.com/sathvik89/task-manager-api/internal/core/domain"
	"github.com/sathvik89/task-manager-api/internal/core/ports"
)

// toTaskResponse maps the domain task to the transport representation.
func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Category:    string(t.Category),
		DueDate:     t.DueDate,
		IsDeleted:   t.IsDeleted,
		DeletedAt:   t.DeletedAt,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toStatsResponse(s *ports.TaskStats) statsResponse {
	return statsResponse{
		TotalTasks:      s.TotalTasks,
		TodoTasks:       s.TodoTasks,
		InProgressTasks: s.InProgressTasks,
		CompletedTasks:  s.CompletedTasks,
		UpcomingTasks:   toTaskResponses(s.Upcoming),
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStats summarizes every task by status.
type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

// Add counts one task. A task still open after its due date is overdue.
func (s *TaskStats) Add(t *Task, now time.Time) {
	s.Total++
	switch t.Status {
	case TaskStatusPending:
		s.Pending++
	case TaskStatusInProgress:
		s.InProgress++
	case TaskStatusCompleted:
		s.Completed++
	}
	if t.IsOverdue(now) {
		s.Overdue++
	}
}

// EmployeeTaskStats summarizes the tasks assigned to one user.
type EmployeeTaskStats struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Total      int       `json:"total"`
	Pending    int       `json:"pending"`
	InProgress int       `json:"in_progress"`
	Completed  int       `json:"completed"`
}

// IsOverdue reports whether the task is unfinished past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskStatusCompleted && t.DueDate.Before(now)
}

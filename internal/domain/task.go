package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task validation errors
var (
	ErrEmptyTitle      = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrEmptyCreator    = fmt.Errorf("%w: task creator cannot be empty", ErrValidation)
	ErrInvalidPriority = fmt.Errorf("%w: invalid task priority", ErrValidation)
	ErrInvalidStatus   = fmt.Errorf("%w: invalid task status", ErrValidation)
	ErrMissingDueDate  = fmt.Errorf("%w: task due date is required", ErrValidation)
)

// TaskStatus is the progress state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In-Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority ranks tasks.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work created by one user and optionally assigned to another.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	DueDate     time.Time    `json:"due_date"`
	AssignedTo  *uuid.UUID   `json:"assigned_to,omitempty"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a pending task. An empty priority defaults to PriorityMedium.
func NewTask(
	title, description string,
	priority TaskPriority,
	dueDate time.Time,
	createdBy uuid.UUID,
	assignedTo *uuid.UUID,
) (*Task, error) {
	if priority == "" {
		priority = PriorityMedium
	}
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: description,
		Priority:    priority,
		Status:      TaskStatusPending,
		DueDate:     dueDate.UTC(),
		AssignedTo:  assignedTo,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrInvalidID
	}
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if t.CreatedBy == uuid.Nil {
		return ErrEmptyCreator
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if t.DueDate.IsZero() {
		return ErrMissingDueDate
	}
	return nil
}

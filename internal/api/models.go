package api

import (
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/google/uuid"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// CreateUserRequest is the admin variant of RegisterRequest; it may set a role.
type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin employee"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      domain.PublicUser `json:"user"`
}

// ChangePasswordRequest defines the payload for changing one's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72"`
}

// ChangeRoleRequest defines the payload for changing a user's role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin employee"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=Low Medium High"`
	DueDate     time.Time  `json:"due_date"    validate:"required"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
}

// AssignTaskRequest defines the payload for assigning a task.
type AssignTaskRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" validate:"required"`
}

// UpdateStatusRequest defines the payload for changing a task's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending In-Progress Completed"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    domain.TaskPriority `json:"priority"`
	Status      domain.TaskStatus   `json:"status"`
	DueDate     time.Time           `json:"due_date"`
	AssignedTo  *uuid.UUID          `json:"assigned_to,omitempty"`
	CreatedBy   uuid.UUID           `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     t.DueDate,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TaskStatsResponse counts every task by status.
type TaskStatsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

func taskStatsToResponse(s *domain.TaskStats) TaskStatsResponse {
	return TaskStatsResponse{
		Total:      s.Total,
		Pending:    s.Pending,
		InProgress: s.InProgress,
		Completed:  s.Completed,
		Overdue:    s.Overdue,
	}
}

// EmployeeStatsResponse counts one user's assigned tasks by status.
type EmployeeStatsResponse struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Total      int       `json:"total"`
	Pending    int       `json:"pending"`
	InProgress int       `json:"in_progress"`
	Completed  int       `json:"completed"`
}

func employeeStatsToResponse(s *domain.EmployeeTaskStats) EmployeeStatsResponse {
	return EmployeeStatsResponse{
		UserID:     s.UserID,
		Name:       s.Name,
		Email:      s.Email,
		Total:      s.Total,
		Pending:    s.Pending,
		InProgress: s.InProgress,
		Completed:  s.Completed,
	}
}

// NotificationResponse is the wire form of a notification.
type NotificationResponse struct {
	ID        uuid.UUID               `json:"id"`
	TaskID    *uuid.UUID              `json:"task_id,omitempty"`
	Kind      domain.NotificationKind `json:"kind"`
	Message   string                  `json:"message"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}

func notificationToResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		TaskID:    n.TaskID,
		Kind:      n.Kind,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

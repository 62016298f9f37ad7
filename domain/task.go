package domain

import (
	"time"

	"github.com/google/uuid"
)

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsHigh reports whether the priority counts as high for analytics (High or Critical).
func (p Priority) IsHigh() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusPaused     Status = "paused"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusPaused, StatusCancelled:
		return true
	}
	return false
}

// Task represents a single unit of tracked work.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	Priority      Priority   `json:"priority"`
	Status        Status     `json:"status"`
	Category      string     `json:"category"`
	EstimatedTime int        `json:"estimated_time"`
	ActualTime    *int       `json:"actual_time,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// CreateTaskRequest carries the fields accepted when a task is created.
type CreateTaskRequest struct {
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	Priority      Priority   `json:"priority"`
	Category      string     `json:"category"`
	EstimatedTime int        `json:"estimated_time"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

// UpdateTaskRequest is a partial update; nil fields are left untouched.
type UpdateTaskRequest struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Priority      *Priority  `json:"priority,omitempty"`
	Status        *Status    `json:"status,omitempty"`
	Category      *string    `json:"category,omitempty"`
	EstimatedTime *int       `json:"estimated_time,omitempty"`
	ActualTime    *int       `json:"actual_time,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

// NewTask builds a pending task from a creation request.
func NewTask(req CreateTaskRequest, now time.Time) Task {
	return Task{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		Status:        StatusPending,
		Category:      req.Category,
		EstimatedTime: req.EstimatedTime,
		DueDate:       req.DueDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ApplyUpdate overwrites every field present in req and refreshes UpdatedAt.
// The first transition into Completed stamps CompletedAt; later transitions, in or
// out of Completed, never change it.
func (t *Task) ApplyUpdate(req UpdateTaskRequest, now time.Time) {
	if t == nil {
		return
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		description := *req.Description
		t.Description = &description
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Status != nil {
		if *req.Status == StatusCompleted && t.Status != StatusCompleted && t.CompletedAt == nil {
			completedAt := now
			t.CompletedAt = &completedAt
		}
		t.Status = *req.Status
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.EstimatedTime != nil {
		t.EstimatedTime = *req.EstimatedTime
	}
	if req.ActualTime != nil {
		actual := *req.ActualTime
		t.ActualTime = &actual
	}
	if req.DueDate != nil {
		due := *req.DueDate
		t.DueDate = &due
	}
	t.touch(now)
}

func (t *Task) touch(now time.Time) {
	if now.Before(t.UpdatedAt) {
		return
	}
	t.UpdatedAt = now
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// IsOverdue is true when the due date has passed and the task is not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t == nil || t.DueDate == nil {
		return false
	}
	return now.After(*t.DueDate) && t.Status != StatusCompleted
}

// DaysUntilDue returns whole days until the due date (negative when past), or false without one.
func (t *Task) DaysUntilDue(now time.Time) (int, bool) {
	if t == nil || t.DueDate == nil {
		return 0, false
	}
	return int(t.DueDate.Sub(now) / (24 * time.Hour)), true
}

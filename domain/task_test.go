package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestNewTask_Defaults(t *testing.T) {
	due := base.Add(48 * time.Hour)
	task := NewTask(CreateTaskRequest{
		Title:         "write report",
		Priority:      PriorityHigh,
		Category:      "work",
		EstimatedTime: 90,
		DueDate:       &due,
	}, base)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, StatusPending, task.Status)
	assert.Nil(t, task.ActualTime)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, base, task.CreatedAt)
	assert.Equal(t, base, task.UpdatedAt)
	assert.Equal(t, &due, task.DueDate)
}

func TestNewTask_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		task := NewTask(CreateTaskRequest{Title: "x"}, base)
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}
}

func TestApplyUpdate_PartialMerge(t *testing.T) {
	task := NewTask(CreateTaskRequest{
		Title:         "plan sprint",
		Priority:      PriorityMedium,
		Category:      "work",
		EstimatedTime: 30,
	}, base)

	later := base.Add(time.Hour)
	task.ApplyUpdate(UpdateTaskRequest{Status: ptr(StatusCompleted)}, later)

	assert.Equal(t, "plan sprint", task.Title)
	assert.Equal(t, "work", task.Category)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, 30, task.EstimatedTime)
	assert.Equal(t, StatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, later, *task.CompletedAt)
	assert.Equal(t, later, task.UpdatedAt)
	assert.Equal(t, base, task.CreatedAt)
}

func TestApplyUpdate_CompletedAtIsNeverCleared(t *testing.T) {
	task := NewTask(CreateTaskRequest{Title: "ship"}, base)

	first := base.Add(time.Minute)
	task.ApplyUpdate(UpdateTaskRequest{Status: ptr(StatusCompleted)}, first)
	task.ApplyUpdate(UpdateTaskRequest{Status: ptr(StatusPaused)}, base.Add(2*time.Minute))
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, first, *task.CompletedAt)

	// Completing again after leaving Completed keeps the original stamp.
	task.ApplyUpdate(UpdateTaskRequest{Status: ptr(StatusCompleted)}, base.Add(3*time.Minute))
	assert.Equal(t, first, *task.CompletedAt)
	assert.Equal(t, StatusCompleted, task.Status)

	// Completed -> Completed keeps the stamp.
	task.ApplyUpdate(UpdateTaskRequest{Status: ptr(StatusCompleted)}, base.Add(4*time.Minute))
	assert.Equal(t, first, *task.CompletedAt)
}

func TestApplyUpdate_CompletedAtSurvivesPendingRoundTrip(t *testing.T) {
	task := NewTask(CreateTaskRequest{Title: "report"}, base)

	first := base.Add(time.Minute)
	task.ApplyUpdate(UpdateTaskRequest{Status: ptr(StatusCompleted)}, first)
	task.ApplyUpdate(UpdateTaskRequest{Status: ptr(StatusPending)}, base.Add(2*time.Minute))
	task.ApplyUpdate(UpdateTaskRequest{Status: ptr(StatusCompleted)}, base.Add(3*time.Minute))

	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, first, *task.CompletedAt)
	assert.Equal(t, base.Add(3*time.Minute), task.UpdatedAt)
}

func TestApplyUpdate_RefreshesUpdatedAtWithoutChanges(t *testing.T) {
	task := NewTask(CreateTaskRequest{Title: "noop"}, base)
	later := base.Add(time.Second)

	task.ApplyUpdate(UpdateTaskRequest{}, later)

	assert.Equal(t, later, task.UpdatedAt)
}

func TestApplyUpdate_UpdatedAtNeverMovesBackwards(t *testing.T) {
	task := NewTask(CreateTaskRequest{Title: "clock skew"}, base)

	task.ApplyUpdate(UpdateTaskRequest{Title: ptr("renamed")}, base.Add(-time.Hour))

	assert.Equal(t, "renamed", task.Title)
	assert.Equal(t, base, task.UpdatedAt)
}

func TestApplyUpdate_OptionalFields(t *testing.T) {
	task := NewTask(CreateTaskRequest{Title: "read"}, base)
	due := base.Add(24 * time.Hour)

	task.ApplyUpdate(UpdateTaskRequest{
		Description: ptr("chapter 3"),
		ActualTime:  ptr(45),
		DueDate:     &due,
		Category:    ptr("learning"),
	}, base)

	require.NotNil(t, task.Description)
	assert.Equal(t, "chapter 3", *task.Description)
	require.NotNil(t, task.ActualTime)
	assert.Equal(t, 45, *task.ActualTime)
	assert.Equal(t, due, *task.DueDate)
	assert.Equal(t, "learning", task.Category)
}

func TestIsOverdue(t *testing.T) {
	due := base.Add(-time.Second)
	task := Task{Status: StatusPending, DueDate: &due}

	assert.True(t, task.IsOverdue(base))

	task.Status = StatusCompleted
	assert.False(t, task.IsOverdue(base))

	task.Status = StatusPending
	assert.False(t, task.IsOverdue(due), "due exactly now is not overdue")

	task.DueDate = nil
	assert.False(t, task.IsOverdue(base))
}

func TestDaysUntilDue(t *testing.T) {
	due := base.Add(72*time.Hour + time.Hour)
	task := Task{DueDate: &due}

	days, ok := task.DaysUntilDue(base)
	assert.True(t, ok)
	assert.Equal(t, 3, days)

	_, ok = (&Task{}).DaysUntilDue(base)
	assert.False(t, ok)
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0.0, CompletionRate(0, 0))
	assert.Equal(t, 80.0, CompletionRate(8, 10))
}

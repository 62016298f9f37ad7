package repository

import (
	"sort"

	"github.com/fastygo/productivity/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ClampLimit bounds page sizes for paginated reads.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// SortNewestFirst orders tasks by creation time descending, ties by id ascending.
func SortNewestFirst(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// SortByDueDate orders tasks by due date ascending, ties by id ascending. Tasks without a due date sort last.
func SortByDueDate(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].DueDate, tasks[j].DueDate
		switch {
		case a == nil && b == nil:
			return tasks[i].ID < tasks[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

package domain

import "time"

// ProductivityStats is an aggregate view over the task set. It is derived, never stored.
type ProductivityStats struct {
	TotalTasks            int             `json:"total_tasks"`
	CompletedTasks        int             `json:"completed_tasks"`
	PendingTasks          int             `json:"pending_tasks"`
	OverdueTasks          int             `json:"overdue_tasks"`
	CompletionRate        float64         `json:"completion_rate"`
	AverageCompletionTime *float64        `json:"average_completion_time,omitempty"`
	MostProductiveHours   []int           `json:"most_productive_hours"`
	CommonCategories      []string        `json:"common_categories"`
	WeeklyProgress        []DailyProgress `json:"weekly_progress"`
}

// DailyProgress summarises one calendar day.
type DailyProgress struct {
	Date      time.Time `json:"date"`
	Completed int       `json:"completed"`
	Created   int       `json:"created"`
	TotalTime int       `json:"total_time"`
}

// CompletionRate returns completed/total as a percentage, 0 for an empty set.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

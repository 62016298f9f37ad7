// Package analytics derives productivity statistics and behavioural patterns from a task snapshot.
// Every function is pure: the caller supplies the tasks and the current time.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/fastygo/productivity/domain"
)

const (
	topCategories = 3
	weekDays      = 7
)

// ComputeStats aggregates counts, completion rate and average actual time, plus the
// hour, category and weekly breakdowns.
func ComputeStats(tasks []domain.Task, now time.Time) domain.ProductivityStats {
	stats := domain.ProductivityStats{
		TotalTasks:          len(tasks),
		MostProductiveHours: []int{},
		CommonCategories:    []string{},
	}

	var timed, sum int
	for i := range tasks {
		t := &tasks[i]
		switch t.Status {
		case domain.StatusCompleted:
			stats.CompletedTasks++
			if t.ActualTime != nil {
				timed++
				sum += *t.ActualTime
			}
		case domain.StatusPending:
			stats.PendingTasks++
		}
		if t.IsOverdue(now) {
			stats.OverdueTasks++
		}
	}

	stats.CompletionRate = domain.CompletionRate(stats.CompletedTasks, stats.TotalTasks)
	if timed > 0 {
		avg := float64(sum) / float64(timed)
		stats.AverageCompletionTime = &avg
	}

	stats.MostProductiveHours = MostProductiveHours(tasks, now.Location())
	stats.CommonCategories = CommonCategories(tasks, topCategories)
	stats.WeeklyProgress = WeeklyProgress(tasks, now)
	return stats
}

// MostProductiveHours returns the hours of day (in loc) holding the most completions, ascending.
func MostProductiveHours(tasks []domain.Task, loc *time.Location) []int {
	var perHour [24]int
	best := 0
	for i := range tasks {
		t := &tasks[i]
		if t.CompletedAt == nil || t.Status != domain.StatusCompleted {
			continue
		}
		h := t.CompletedAt.In(loc).Hour()
		perHour[h]++
		if perHour[h] > best {
			best = perHour[h]
		}
	}

	hours := []int{}
	if best == 0 {
		return hours
	}
	for h, n := range perHour {
		if n == best {
			hours = append(hours, h)
		}
	}
	return hours
}

type categoryCount struct {
	name  string
	count int
}

// rankCategories orders categories by count descending; equal counts sort by name ascending.
func rankCategories(tasks []domain.Task) []categoryCount {
	counts := make(map[string]int)
	for i := range tasks {
		counts[tasks[i].Category]++
	}

	ranked := make([]categoryCount, 0, len(counts))
	for name, n := range counts {
		ranked = append(ranked, categoryCount{name: name, count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].name < ranked[j].name
	})
	return ranked
}

// CommonCategories returns up to limit category names, most used first.
func CommonCategories(tasks []domain.Task, limit int) []string {
	ranked := rankCategories(tasks)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	names := make([]string, 0, len(ranked))
	for _, c := range ranked {
		names = append(names, c.name)
	}
	return names
}

// WeeklyProgress returns seven days ending with the day containing now, oldest first.
func WeeklyProgress(tasks []domain.Task, now time.Time) []domain.DailyProgress {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	days := make([]domain.DailyProgress, weekDays)
	for i := range days {
		days[i].Date = today.AddDate(0, 0, i-(weekDays-1))
	}

	index := func(ts time.Time) int {
		ts = ts.In(loc)
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc)
		for i := range days {
			if days[i].Date.Equal(day) {
				return i
			}
		}
		return -1
	}

	for i := range tasks {
		t := &tasks[i]
		if d := index(t.CreatedAt); d >= 0 {
			days[d].Created++
		}
		if t.Status != domain.StatusCompleted || t.CompletedAt == nil {
			continue
		}
		if d := index(*t.CompletedAt); d >= 0 {
			days[d].Completed++
			if t.ActualTime != nil {
				days[d].TotalTime += *t.ActualTime
			}
		}
	}
	return days
}

// AnalyzePatterns reports, in detection order: the most frequent category, the mean actual
// time of completed tasks, and the share of high or critical priority tasks. A finding is
// omitted when it has no data. Category ties go to the lexicographically smallest name.
func AnalyzePatterns(tasks []domain.Task) []string {
	patterns := []string{}

	if ranked := rankCategories(tasks); len(ranked) > 0 {
		top := ranked[0]
		patterns = append(patterns, fmt.Sprintf("Most frequent category: %s (%d tasks)", top.name, top.count))
	}

	var timed, sum int
	high := 0
	for i := range tasks {
		t := &tasks[i]
		if t.Status == domain.StatusCompleted && t.ActualTime != nil {
			timed++
			sum += *t.ActualTime
		}
		if t.Priority.IsHigh() {
			high++
		}
	}

	if timed > 0 {
		patterns = append(patterns, fmt.Sprintf("Average completion time: %.1f minutes", float64(sum)/float64(timed)))
	}
	if high > 0 {
		pct := float64(high) / float64(len(tasks)) * 100
		patterns = append(patterns, fmt.Sprintf("%.0f%% of tasks are high priority", pct))
	}
	return patterns
}

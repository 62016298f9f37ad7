package insight

import (
	"fmt"
	"time"

	"github.com/fastygo/productivity/domain"
)

const maxInsights = 3

type summary struct {
	total       int
	completed   int
	highPending int
	overdue     int
}

func summarize(tasks []domain.Task, now time.Time) summary {
	s := summary{total: len(tasks)}
	for i := range tasks {
		t := &tasks[i]
		done := t.Status == domain.StatusCompleted
		if done {
			s.completed++
		}
		if t.Priority.IsHigh() && !done {
			s.highPending++
		}
		if t.IsOverdue(now) {
			s.overdue++
		}
	}
	return s
}

// FallbackInsights is the rule-based insight list. The first matching rule supplies the
// primary line; overdue and time-of-day lines follow; the result holds one to three lines.
func FallbackInsights(tasks []domain.Task, now time.Time) []string {
	s := summarize(tasks, now)
	insights := make([]string, 0, maxInsights)

	if s.total == 0 {
		insights = append(insights, "Start by adding your daily tasks to track progress effectively.")
	} else {
		rate := domain.CompletionRate(s.completed, s.total)
		switch {
		case rate >= 80:
			insights = append(insights, fmt.Sprintf("Excellent progress! You've completed %.0f%% of your tasks. 🎉", rate))
		case rate >= 50:
			insights = append(insights, fmt.Sprintf("Good momentum! Focus on completing the remaining %d tasks.", s.total-s.completed))
		case s.highPending > 0:
			insights = append(insights, fmt.Sprintf("%d high-priority tasks need attention. Consider tackling these first.", s.highPending))
		default:
			insights = append(insights, "Break down large tasks into smaller, manageable chunks for better progress.")
		}
	}

	if s.overdue > 0 {
		insights = append(insights, fmt.Sprintf("%d tasks are overdue. Prioritize these to get back on track.", s.overdue))
	}

	if tip := timeOfDayTip(now.Hour()); tip != "" {
		insights = append(insights, tip)
	}

	if len(insights) == 0 {
		insights = append(insights, "Stay focused on your goals. Small consistent progress leads to big results!")
	}
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

func timeOfDayTip(hour int) string {
	switch {
	case hour >= 9 && hour <= 11:
		return "Peak productivity hours: 9-11 AM. Use this time for challenging tasks."
	case hour >= 14 && hour <= 16:
		return "Post-lunch dip is normal. Consider lighter tasks or a short break."
	case hour >= 17 && hour <= 19:
		return "End of workday approaching. Review what you've accomplished today."
	}
	return ""
}

// FallbackAccountability picks one of five check-in templates by now.Unix() mod 5,
// so the choice changes every second and repeats every five.
func FallbackAccountability(completed, pending int, now time.Time) string {
	messages := [...]string{
		fmt.Sprintf("Great job completing %d tasks! %d more to go - you've got this! 💪", completed, pending),
		fmt.Sprintf("Time check! You've finished %d tasks. Which one will you tackle next?", completed),
		fmt.Sprintf("Progress update: %d/%d tasks done. Keep up the momentum! 🚀", completed, completed+pending),
		"Accountability moment: Focus on your next priority task. You're making solid progress! ✨",
		fmt.Sprintf("You're %d tasks closer to your goals! Stay focused and keep pushing forward.", completed),
	}
	n := int64(len(messages))
	index := ((now.Unix() % n) + n) % n
	return messages[index]
}

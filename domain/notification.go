package domain

import "time"

type NotificationType string

const (
	NotificationAccountability NotificationType = "accountability"
	NotificationTaskReminder   NotificationType = "task_reminder"
	NotificationDeadline       NotificationType = "deadline"
	NotificationAchievement    NotificationType = "achievement"
	NotificationCommunication  NotificationType = "communication"
	NotificationInsight        NotificationType = "insight"
)

// NotificationItem records a user-facing alert. Only IsRead ever changes, and only to true.
type NotificationItem struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Message          string           `json:"message"`
	NotificationType NotificationType `json:"notification_type"`
	IsRead           bool             `json:"is_read"`
	CreatedAt        time.Time        `json:"created_at"`
	ActionURL        *string          `json:"action_url,omitempty"`
}

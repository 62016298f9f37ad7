package domain

import "time"

// CommunicationActivity is the status summary reported by an external connector.
// Snapshots are upserted by Service; ID and CreatedAt are set by the first save and kept after.
type CommunicationActivity struct {
	ID               string     `json:"id"`
	Service          string     `json:"service"`
	MessageCount     int        `json:"message_count"`
	UnreadCount      int        `json:"unread_count"`
	LastActivity     *time.Time `json:"last_activity,omitempty"`
	Mentions         int        `json:"mentions"`
	KeywordsDetected []string   `json:"keywords_detected"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

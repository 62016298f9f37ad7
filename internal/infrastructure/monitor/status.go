package monitor

import "time"

// Status is the latest health snapshot reported by /health.
type Status struct {
	Storage       bool      `json:"storage"`
	StorageDriver string    `json:"storage_driver"`
	Redis         bool      `json:"redis"`
	RedisEnabled  bool      `json:"redis_enabled"`
	RemoteModel   bool      `json:"remote_model_configured"`
	LastCheck     time.Time `json:"last_check"`
}

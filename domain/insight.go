package domain

import "time"

type InsightType string

const (
	InsightProductivityTip    InsightType = "productivity_tip"
	InsightTaskPrioritization InsightType = "task_prioritization"
	InsightTimeManagement     InsightType = "time_management"
	InsightPatternRecognition InsightType = "pattern_recognition"
	InsightAccountability     InsightType = "accountability"
)

// Insight is one generated guidance line. Insights are append-only.
type Insight struct {
	ID          string      `json:"id"`
	Message     string      `json:"message"`
	InsightType InsightType `json:"insight_type"`
	Confidence  float64     `json:"confidence"`
	CreatedAt   time.Time   `json:"created_at"`
}

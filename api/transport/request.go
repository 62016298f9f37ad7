package transport

import (
	"time"

	"github.com/fastygo/productivity/domain"
)

// TaskCreateRequest is the body of POST /api/v1/tasks.
type TaskCreateRequest struct {
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	Priority      string  `json:"priority"`
	Category      string  `json:"category"`
	EstimatedTime int     `json:"estimated_time"`
	DueDate       *string `json:"due_date"`
}

// TaskUpdateRequest is the body of PUT /api/v1/tasks/{id}. Omitted fields stay unchanged.
type TaskUpdateRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Priority      *string `json:"priority"`
	Status        *string `json:"status"`
	Category      *string `json:"category"`
	EstimatedTime *int    `json:"estimated_time"`
	ActualTime    *int    `json:"actual_time"`
	DueDate       *string `json:"due_date"`
}

// ToDomain converts the request. Only the shape is checked: enum values and timestamps.
func (r TaskCreateRequest) ToDomain() (domain.CreateTaskRequest, error) {
	priority := domain.Priority(r.Priority)
	if r.Priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return domain.CreateTaskRequest{}, invalid("unknown priority " + r.Priority)
	}
	due, err := parseTime(r.DueDate)
	if err != nil {
		return domain.CreateTaskRequest{}, err
	}
	if r.EstimatedTime < 0 {
		return domain.CreateTaskRequest{}, invalid("estimated_time must not be negative")
	}
	return domain.CreateTaskRequest{
		Title:         r.Title,
		Description:   r.Description,
		Priority:      priority,
		Category:      r.Category,
		EstimatedTime: r.EstimatedTime,
		DueDate:       due,
	}, nil
}

func (r TaskUpdateRequest) ToDomain() (domain.UpdateTaskRequest, error) {
	out := domain.UpdateTaskRequest{
		Title:         r.Title,
		Description:   r.Description,
		Category:      r.Category,
		EstimatedTime: r.EstimatedTime,
		ActualTime:    r.ActualTime,
	}
	if r.Priority != nil {
		p := domain.Priority(*r.Priority)
		if !p.Valid() {
			return out, invalid("unknown priority " + *r.Priority)
		}
		out.Priority = &p
	}
	if r.Status != nil {
		s := domain.Status(*r.Status)
		if !s.Valid() {
			return out, invalid("unknown status " + *r.Status)
		}
		out.Status = &s
	}
	if (r.EstimatedTime != nil && *r.EstimatedTime < 0) || (r.ActualTime != nil && *r.ActualTime < 0) {
		return out, invalid("durations must not be negative")
	}
	due, err := parseTime(r.DueDate)
	if err != nil {
		return out, err
	}
	out.DueDate = due
	return out, nil
}

func parseTime(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "due_date must be RFC3339", err)
	}
	return &parsed, nil
}

func invalid(msg string) error {
	return domain.NewError(domain.ErrCodeInvalid, msg)
}

package transport

import (
	"encoding/json"
	"errors"

	"github.com/fastygo/productivity/domain"
)

// CodeDegraded marks a health response with at least one dependency down.
const CodeDegraded domain.ErrorCode = "DEGRADED"

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string           `json:"status"`
	Code   domain.ErrorCode `json:"code,omitempty"`
	Data   interface{}      `json:"data,omitempty"`
	Error  interface{}      `json:"error,omitempty"`
	Meta   interface{}      `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code domain.ErrorCode, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// FromError builds an error envelope whose code is taken from the domain error in
// err's chain. Anything else is reported as INTERNAL.
func FromError(err error) Envelope {
	if err == nil {
		return NewError(domain.ErrCodeInternal, "unknown error", nil)
	}
	return NewError(CodeOf(err), err.Error(), nil)
}

// CodeOf returns the code of the first domain error in err's chain, or INTERNAL.
func CodeOf(err error) domain.ErrorCode {
	var dErr *domain.Error
	if errors.As(err, &dErr) && dErr.Code != "" {
		return dErr.Code
	}
	return domain.ErrCodeInternal
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

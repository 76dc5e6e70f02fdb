package dto

import apperrors "kuku/internal/errors"

// Envelope wraps every HTTP response body.
type Envelope struct {
	Success bool                         `json:"success"`
	Data    interface{}                  `json:"data,omitempty"`
	Error   string                       `json:"error,omitempty"`
	Code    string                       `json:"code,omitempty"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
	TraceID string                       `json:"traceId"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

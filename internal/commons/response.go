package commons

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kuku/internal/dto"
	apperrors "kuku/internal/errors"
)

type traceIDKey struct{}

// WithTraceID stores the request trace id on ctx.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID returns the trace id carried by ctx, or a fresh one when the request
// did not pass through the tracing middleware.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, logger *zap.Logger) {
	WriteJSON(w, status, dto.Envelope{
		Success: true,
		Data:    data,
		TraceID: TraceID(r.Context()),
	}, logger)
}

// WriteError maps a typed application error onto its HTTP status. Anything
// untyped is logged and answered with a sanitized 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	traceID := TraceID(r.Context())
	env := dto.Envelope{TraceID: traceID}
	status := http.StatusInternalServerError

	if ve, ok := apperrors.IsValidationError(err); ok {
		status, env.Code, env.Error, env.Details = http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details
	} else if nfe, ok := apperrors.IsNotFoundError(err); ok {
		status, env.Code, env.Error = http.StatusNotFound, "NOT_FOUND", nfe.Message
	} else if ae, ok := apperrors.IsAuthError(err); ok {
		status, env.Code, env.Error = http.StatusUnauthorized, "UNAUTHORIZED", ae.Message
	} else if fe, ok := apperrors.IsForbiddenError(err); ok {
		status, env.Code, env.Error = http.StatusForbidden, "FORBIDDEN", fe.Message
	} else if ce, ok := apperrors.IsConflictError(err); ok {
		status, env.Code, env.Error = http.StatusConflict, "CONFLICT", ce.Message
	} else {
		logger.Error("unexpected error",
			zap.String("traceId", traceID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		env.Code, env.Error = "INTERNAL_ERROR", "an unexpected error occurred"
	}

	WriteJSON(w, status, env, logger)
}

func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return nil
}

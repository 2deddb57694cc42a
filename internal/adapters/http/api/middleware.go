package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/okian/simonev/pkg/logger"
	"github.com/okian/simonev/pkg/metrics"
)

var tracer = otel.Tracer("github.com/okian/simonev/internal/adapters/http/api") //nolint:gochecknoglobals // package tracer

// MetricsMiddleware wraps a handler with a span, request metrics and panic
// recovery. endpoint is the low-cardinality label recorded for the route.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := tracer.Start(r.Context(), "http."+endpoint)
		defer span.End()
		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", r.Pattern),
		)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					metrics.RecordErrorByComponent("http", "panic")
					logger.Get().Error(ctx, "handler panicked",
						logger.String("endpoint", endpoint),
						logger.Any("panic", rec))
					if !wrapped.wroteHeader {
						writeError(wrapped, http.StatusInternalServerError, "internal_error", fmt.Errorf("panic: %v", rec))
					}
				}
			}()
			next.ServeHTTP(wrapped, r.WithContext(ctx))
		}()

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		status := strconv.Itoa(wrapped.statusCode)
		span.SetAttributes(attribute.Int("http.status_code", wrapped.statusCode))

		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)

		if wrapped.statusCode >= http.StatusBadRequest {
			errorType := errorType(wrapped.statusCode)
			metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType)
			metrics.RecordErrorByType(errorType, severity(wrapped.statusCode))
			metrics.RecordErrorLatency("http", errorType, durationMs)
			if wrapped.statusCode >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, errorType)
			}
		}
	}
}

// errorType labels an error status for the error metrics.
func errorType(statusCode int) string {
	switch statusCode {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	}
	if statusCode >= http.StatusInternalServerError {
		return "server_error"
	}
	return "client_error"
}

// severity is high for server errors and medium for client errors.
func severity(statusCode int) string {
	if statusCode >= http.StatusInternalServerError {
		return "high"
	}
	return "medium"
}

// responseWriter records the status code written by the handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"nlp-master/internal/workflow"
)

// Error kinds carried in JSON error bodies.
const (
	KindValidation = "validation"
	KindService    = "service"
	KindInternal   = "internal"
)

// Validator is shared by all handlers; validator.Validate caches struct metadata.
var Validator = validator.New(validator.WithRequiredStructEnabled())

// ErrorBody is the JSON shape of every API error.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// RequestObserver receives one call per served request. metrics.Metrics implements it.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// NewRouter creates a chi router with standard middleware (RequestID, RealIP, Timeout, Recoverer, Logger).
func NewRouter(log *slog.Logger, timeout time.Duration) *chi.Mux {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(timeout))
	r.Use(Recoverer(log))
	r.Use(RequestLogger(log))

	return r
}

// WriteJSON writes a JSON response with proper headers.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}

// HealthHandler reports ok plus optional details, e.g. the loaded model handles.
func HealthHandler(details func() map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "ok"}
		if details != nil {
			for k, v := range details() {
				body[k] = v
			}
		}
		WriteJSON(w, http.StatusOK, body)
	}
}

// RequestLogger is a lightweight HTTP logger that uses slog.
func RequestLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// Observe reports each request to obs labelled with its chi route pattern,
// so path parameters do not explode label cardinality.
func Observe(obs RequestObserver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			obs.ObserveRequest(r.Method, route, status, time.Since(start))
		})
	}
}

// Recoverer logs panics via slog while preserving chi's Recoverer behavior.
func Recoverer(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("panic recovered", "panic", rec, "path", r.URL.Path, "method", r.Method, "request_id", middleware.GetReqID(r.Context()))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Fail writes a plain text error response with consistent logging.
func Fail(log *slog.Logger, w http.ResponseWriter, message string, err error, status int) {
	log.Error(message, "err", err)
	if status == 0 {
		status = http.StatusInternalServerError
	}
	http.Error(w, message, status)
}

// FailJSON writes an ErrorBody. Client errors are logged at warn level.
func FailJSON(log *slog.Logger, w http.ResponseWriter, kind, message string, err error, status int) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		log.Error(message, "kind", kind, "err", err)
	} else {
		log.Warn(message, "kind", kind, "err", err)
	}
	WriteJSON(w, status, ErrorBody{Kind: kind, Message: message})
}

// ValidationError writes a 400 for a failed validator.Struct call.
func ValidationError(log *slog.Logger, w http.ResponseWriter, err error) {
	body := ErrorBody{Kind: KindValidation, Message: "invalid request"}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		body.Field = jsonName(verrs[0].Field())
		body.Message = describe(verrs[0])
	}
	log.Warn("validation failed", "field", body.Field, "err", err)
	WriteJSON(w, http.StatusBadRequest, body)
}

// WorkflowError maps workflow errors: ValidationError to 400, ServiceError to 502.
func WorkflowError(log *slog.Logger, w http.ResponseWriter, err error) {
	var verr *workflow.ValidationError
	var serr *workflow.ServiceError
	switch {
	case errors.As(err, &verr):
		log.Warn("missing input", "field", verr.Field)
		WriteJSON(w, http.StatusBadRequest, ErrorBody{Kind: KindValidation, Message: verr.Hint, Field: verr.Field})
	case errors.As(err, &serr):
		log.Error("model service failed", "op", serr.Op, "err", serr.Err)
		WriteJSON(w, http.StatusBadGateway, ErrorBody{Kind: KindService, Message: serr.Message()})
	default:
		FailJSON(log, w, KindInternal, "internal error", err, http.StatusInternalServerError)
	}
}

// describe renders a single field error for display next to the sliders.
func describe(fe validator.FieldError) string {
	field := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, jsonName(fe.Param()))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// jsonName converts a Go field name such as MinLength to min_length.
func jsonName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

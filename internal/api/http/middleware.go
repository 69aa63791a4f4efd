package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-api/internal/observability"
	"github.com/spec-kit/helpdesk-api/pkg/apperrors"
)

// errorResponse is the outward failure envelope.
type errorResponse struct {
	Status  int                 `json:"status"`
	Title   string              `json:"title"`
	Detail  string              `json:"detail"`
	TraceID string              `json:"traceId"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// RegisterMiddlewares attaches global middlewares: request ids, timeouts,
// error rendering and request logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(requestid.New())
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware is the single boundary where failures become HTTP
// responses. NotFound and ValidationFailed pass through with their specific
// codes; everything else, panics included, is logged in full and rendered as
// a generic 500 carrying only a correlation id. Fiber buffers the response
// body until the handler chain returns, so writing here never corrupts
// output that a handler already produced.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				err = apperrors.Unexpected(fiber.ErrInternalServerError)
			}
			if err != nil {
				err = renderError(c, logger, metrics, err)
			}
		}()
		return c.Next()
	}
}

func renderError(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, err error) error {
	// Errors raised by fiber itself (route misses, oversized bodies) keep
	// their own status instead of degrading to a 500. Checked after the
	// application taxonomy: a wrapped fiber error inside an Unexpected must
	// still render as Unexpected.
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			metrics.RecordError(c.Path(), c.Method(), strconv.Itoa(fiberErr.Code))
			return c.Status(fiberErr.Code).JSON(errorResponse{
				Status:  fiberErr.Code,
				Title:   http.StatusText(fiberErr.Code),
				Detail:  fiberErr.Message,
				TraceID: requestID(c),
			})
		}
	}

	appErr = apperrors.From(err)
	status, title, code := classify(appErr.Kind)

	traceID := requestID(c)
	if appErr.CorrelationID != "" {
		traceID = appErr.CorrelationID
	}

	if appErr.Kind == apperrors.KindUnexpected {
		logger.Error("unhandled error",
			zap.String("trace_id", traceID),
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Error(appErr))
	}
	metrics.RecordError(c.Path(), c.Method(), code)

	c.Status(status)
	return c.JSON(errorResponse{
		Status:  status,
		Title:   title,
		Detail:  appErr.Message,
		TraceID: traceID,
		Errors:  appErr.Fields,
	})
}

// classify is the exhaustive Kind to HTTP mapping. Unknown kinds cannot occur
// for errors built through apperrors, but the switch still terminates with
// the 500 branch.
func classify(kind apperrors.Kind) (status int, title, code string) {
	switch kind {
	case apperrors.KindNotFound:
		return fiber.StatusNotFound, "Resource not found", "NOT_FOUND"
	case apperrors.KindValidation:
		return fiber.StatusBadRequest, "Validation error", "VALIDATION_FAILED"
	default:
		return fiber.StatusInternalServerError, "Internal server error", "UNEXPECTED"
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return ""
}

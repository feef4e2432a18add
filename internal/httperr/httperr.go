// Package httperr implements the uniform error envelope every non-2xx
// response carries, and the Echo error handler that produces it. All
// failure kinds end up in the same shape so clients can always read
// statusCode and message without cause-specific parsing. Internal detail
// (driver errors, stack traces) is logged server-side and never leaks
// into the response body.
package httperr

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devkoalaa/cs2-smokes-hub-api/internal/repository"
)

// Envelope is the JSON body of every error response.
// Message is a single string, except for multi-field validation failures
// where it is an array of grouped field messages.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Message    interface{} `json:"message"`
	Error      string      `json:"error"`
	Timestamp  string      `json:"timestamp"`
	Path       string      `json:"path"`
}

// ValidationError aggregates one or more boundary validation failures. It
// is raised before any store access happens.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Validation builds a ValidationError from individual field messages.
func Validation(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// fieldPattern recognizes messages shaped "<field> must/should/cannot/is/has
// <detail>" so failures for the same field can be grouped into one entry.
var fieldPattern = regexp.MustCompile(`^(\w+) (must|should|cannot|is|has) (.+)$`)

// GroupMessages merges validation messages by field name. Messages
// matching the field pattern collapse into a single entry per field with
// the details joined; anything else passes through verbatim in first-seen
// order.
func GroupMessages(messages []string) []string {
	type group struct {
		field   string
		details []string
	}
	var order []string
	groups := map[string]*group{}
	var passthrough []string

	for _, msg := range messages {
		m := fieldPattern.FindStringSubmatch(msg)
		if m == nil {
			passthrough = append(passthrough, msg)
			continue
		}
		field := m[1]
		detail := m[2] + " " + m[3]
		g, ok := groups[field]
		if !ok {
			g = &group{field: field}
			groups[field] = g
			order = append(order, field)
		}
		g.details = append(g.details, detail)
	}

	out := make([]string, 0, len(order)+len(passthrough))
	for _, f := range order {
		g := groups[f]
		out = append(out, g.field+" "+strings.Join(g.details, ", "))
	}
	return append(out, passthrough...)
}

// Handler returns the Echo HTTPErrorHandler that maps the application's
// closed error set onto HTTP statuses and writes the envelope:
//
//	ValidationError          -> 400 (message is the grouped array)
//	repository.ErrNotFound   -> 404
//	repository.ErrForbidden  -> 403
//	repository.ErrDuplicate  -> 409
//	*echo.HTTPError          -> its own code
//	anything else            -> 500, cause logged, body generic
func Handler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		var message interface{} = "internal server error"

		var ve *ValidationError
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ve):
			status = http.StatusBadRequest
			grouped := GroupMessages(ve.Messages)
			if len(grouped) == 1 {
				message = grouped[0]
			} else {
				message = grouped
			}
		case errors.Is(err, repository.ErrNotFound):
			status = http.StatusNotFound
			message = err.Error()
		case errors.Is(err, repository.ErrForbidden):
			status = http.StatusForbidden
			message = err.Error()
		case errors.Is(err, repository.ErrDuplicate):
			status = http.StatusConflict
			message = err.Error()
		case errors.As(err, &he):
			status = he.Code
			if s, ok := he.Message.(string); ok {
				message = s
			} else {
				message = http.StatusText(status)
			}
		default:
			// Unexpected failure: keep the cause out of the response.
			c.Logger().Errorf("unhandled error on %s %s: %v",
				c.Request().Method, c.Request().URL.Path, err)
		}

		env := Envelope{
			StatusCode: status,
			Message:    message,
			Error:      http.StatusText(status),
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Path:       c.Request().URL.Path,
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, env)
	}
}

// NotFoundf wraps ErrNotFound with an entity-specific message, keeping the
// sentinel matchable with errors.Is.
func NotFoundf(entity string) error {
	return &kindError{kind: repository.ErrNotFound, msg: entity + " not found"}
}

// Forbiddenf wraps ErrForbidden with a human-readable message.
func Forbiddenf(msg string) error {
	return &kindError{kind: repository.ErrForbidden, msg: msg}
}

// Conflictf wraps ErrDuplicate with a human-readable message.
func Conflictf(msg string) error {
	return &kindError{kind: repository.ErrDuplicate, msg: msg}
}

// kindError carries a presentable message while staying errors.Is-equal to
// its sentinel kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

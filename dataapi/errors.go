package dataapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Common errors
var (
	// ErrUnauthorized matches a StatusError for a 401 or 403 response
	ErrUnauthorized = errors.New("unauthorized")
	// ErrServerError matches a StatusError for a 5xx response
	ErrServerError = errors.New("data api server error")
)

// Upload validation messages, returned inside an error Result.
const (
	msgSiteIDRequired = "site_id is required"
	msgFileRequired   = "file is required"
)

// StatusError is returned for HTTP failures that are not normalized into an
// error Result: 5xx responses and failed token exchanges.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("data api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("data api error: status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound checks if the error indicates a not found response
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Is implements errors.Is for sentinel error matching.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.IsUnauthorized()
	case ErrServerError:
		return e.StatusCode >= 500
	}
	return false
}

func newStatusError(resp *resty.Response) *StatusError {
	return &StatusError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       string(resp.Body()),
	}
}

// dumpResponse renders the status line, headers and body of resp as they
// appeared on the wire.
func dumpResponse(resp *resty.Response) string {
	var b strings.Builder
	if raw := resp.RawResponse; raw != nil {
		proto := raw.Proto
		if proto == "" {
			proto = "HTTP/1.1"
		}
		fmt.Fprintf(&b, "%s %s\r\n", proto, raw.Status)
		_ = raw.Header.Write(&b)
		b.WriteString("\r\n")
	}
	b.Write(resp.Body())
	return b.String()
}

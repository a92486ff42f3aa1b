package transport

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotJSON     = errors.New("transport: response is not JSON")
	ErrMissingBase = errors.New("transport: base URL is required")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("transport: %s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Unauthorized reports whether the token was rejected.
func (e *StatusError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSchema is returned when a response does not match the expected shape.
// Such payloads are never handed to the ledgers.
var ErrSchema = errors.New("unexpected response schema")

// StatusError is a non-2xx answer from the remote API
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("api: %d %s", e.Code, e.Message)
}

// IsStatus reports whether err carries the given HTTP status
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// schemaCheck collects missing or invalid fields of one response
type schemaCheck struct {
	problems []string
}

func (s *schemaCheck) require(ok bool, field string) {
	if !ok {
		s.problems = append(s.problems, field)
	}
}

func (s *schemaCheck) err() error {
	if len(s.problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(s.problems, ", "))
}

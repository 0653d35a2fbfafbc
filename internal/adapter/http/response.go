package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/YelzhanWeb/storefront/internal/adapter/api"
	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

const maxBodyBytes = 1 << 20

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func respondOK(w http.ResponseWriter, statusCode int, message string, data any) {
	respondJSON(w, statusCode, Response{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, message string, statusCode int, validationErrors []ValidationError) {
	respondJSON(w, statusCode, Response{Error: message, Errors: validationErrors})
}

// StatusFor maps a service error to the HTTP status returned to the UI
func StatusFor(err error) int {
	var se *api.StatusError
	var ue *url.Error
	switch {
	case errors.As(err, &se):
		return se.Code
	case errors.Is(err, api.ErrSchema):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrInvalidStatusTransition), errors.Is(err, domain.ErrItemPending):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPaymentMethod),
		errors.Is(err, domain.ErrInvalidReview):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &ue):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError logs the failure and writes the mapped status
func respondServiceError(w http.ResponseWriter, r *http.Request, lgr logger.Logger, action string, err error) {
	code := StatusFor(err)
	requestID := interfaces.SessionFrom(r.Context()).RequestID
	details := map[string]interface{}{
		"path":   r.URL.Path,
		"status": code,
	}

	message := err.Error()
	var se *api.StatusError
	if errors.As(err, &se) && se.Message != "" {
		message = se.Message
	}
	if code >= http.StatusInternalServerError {
		lgr.Error(action, "Request failed", requestID, details, err)
		if code == http.StatusInternalServerError {
			message = "internal server error"
		}
	} else {
		lgr.Debug(action, "Request rejected", requestID, details)
	}

	respondError(w, message, code, nil)
}

// decodeJSON reads an optional JSON body; an empty body leaves dst untouched
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// queryReader parses query parameters and collects every malformed one
type queryReader struct {
	values url.Values
	errs   []ValidationError
}

func newQueryReader(r *http.Request) *queryReader {
	return &queryReader{values: r.URL.Query()}
}

func (q *queryReader) String(name string) string {
	return strings.TrimSpace(q.values.Get(name))
}

func (q *queryReader) Int(name string) int {
	raw := q.String(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		q.errs = append(q.errs, ValidationError{Field: name, Message: name + " must be a non-negative integer"})
		return 0
	}
	return n
}

func (q *queryReader) OptInt64(name string) *int64 {
	raw := q.String(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		q.errs = append(q.errs, ValidationError{Field: name, Message: name + " must be an integer"})
		return nil
	}
	return &n
}

func (q *queryReader) OptFloat(name string) *float64 {
	raw := q.String(name)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.errs = append(q.errs, ValidationError{Field: name, Message: name + " must be a number"})
		return nil
	}
	return &f
}

func (q *queryReader) Bool(name string) bool {
	raw := q.String(name)
	if raw == "" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		q.errs = append(q.errs, ValidationError{Field: name, Message: name + " must be true or false"})
		return false
	}
	return b
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// cartItemID also accepts the negative ids of pending lines
func cartItemID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

package matcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const duplicateEntryMarker = "Duplicate entry"

var (
	// ErrNotFound is matched by any 404 response.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when the backend rejects a consultant
	// because the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	// Detail is the human readable message reported by the backend, if any.
	Detail string
	Body   []byte
}

func newAPIError(req *http.Request, resp *http.Response, body []byte) *APIError {
	return &APIError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Detail:     parseDetail(body),
		Body:       body,
	}
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("bad status: %s: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("bad status: %s", e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// DuplicateEntry reports a 500 caused by a unique constraint on the backend.
func (e *APIError) DuplicateEntry() bool {
	return e.StatusCode == http.StatusInternalServerError && strings.Contains(e.Detail, duplicateEntryMarker)
}

// DetailOr returns the backend-provided message carried by err, or fallback
// when the backend sent none.
func DetailOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// parseDetail understands {"detail": "..."}, {"message": "..."} and the
// validation shape {"detail": [{"msg": "..."}]}.
func parseDetail(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil {
			return strings.TrimSpace(detail)
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if msg := strings.TrimSpace(item.Msg); msg != "" {
					msgs = append(msgs, msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}

	return strings.TrimSpace(payload.Message)
}

func consultantWriteError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.DuplicateEntry() {
		return fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
	}
	return err
}

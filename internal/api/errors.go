package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error is a non-2xx response from the API. Message comes from the JSON
// error body when one is present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// IsUnauthorized reports whether err is an authentication failure, the cue
// for callers to send the user back to login.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}

// errorFromResponse extracts the {"error": "..."} body the API sends on
// failures. A missing or unparseable body must not crash the caller, so it
// falls back to the HTTP status text.
func errorFromResponse(resp *http.Response) error {
	apiErr := &Error{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}

	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		apiErr.Message = parsed.Error
	}
	return apiErr
}

package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the backend.
type Error struct {
	Method  string
	Route   string
	Status  int
	Message string
	Body    []byte
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("apiclient: %s %s: %d: %s", e.Method, e.Route, e.Status, e.Message)
	}
	return fmt.Sprintf("apiclient: %s %s: %d %s", e.Method, e.Route, e.Status, http.StatusText(e.Status))
}

func newError(method, route string, status int, body []byte) *Error {
	return &Error{
		Method:  method,
		Route:   route,
		Status:  status,
		Message: backendMessage(body),
		Body:    body,
	}
}

// backendMessage pulls a human message out of the common error body shapes.
func backendMessage(body []byte) string {
	var shape struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		text := strings.TrimSpace(string(body))
		if len(text) > 200 || strings.HasPrefix(text, "<") {
			return ""
		}
		return text
	}
	for _, m := range []string{shape.Message, shape.Error, shape.Msg} {
		if strings.TrimSpace(m) != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0 for transport failures.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports a 401 or 403 from the backend.
func IsUnauthorized(err error) bool {
	s := StatusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}

// Message returns the text to show a user for err.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.Status)
	}
	return "Không thể kết nối tới máy chủ."
}

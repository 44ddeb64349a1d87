package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront/internal/apiclient"
	"storefront/internal/toast"
)

const (
	maxFormBytes   = 64 << 10
	msgInvalidForm = "Dữ liệu không hợp lệ."
)

var errInvalidForm = errors.New("handlers: invalid form")

// fieldError names the form field that failed to parse.
type fieldError struct {
	Label string
}

func (e *fieldError) Error() string {
	return "handlers: invalid field " + e.Label
}

// formMessage is the toast text shown for a rejected form.
func formMessage(err error) string {
	var fe *fieldError
	if errors.As(err, &fe) {
		return fe.Label + " không hợp lệ."
	}
	return msgInvalidForm
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return errInvalidForm
	}
	return nil
}

func formString(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostForm.Get(name))
}

func formInt(r *http.Request, name, label string) (int64, error) {
	v, err := strconv.ParseInt(formString(r, name), 10, 64)
	if err != nil {
		return 0, &fieldError{Label: label}
	}
	return v, nil
}

func formFloat(r *http.Request, name, label string) (float64, error) {
	v, err := strconv.ParseFloat(formString(r, name), 64)
	if err != nil || v < 0 {
		return 0, &fieldError{Label: label}
	}
	return v, nil
}

// routeID returns the {id} URL parameter when it is a positive integer.
func routeID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return "", false
	}
	return id, true
}

// rejectForm answers a form that failed validation without calling the backend.
func (c *Console) rejectForm(w http.ResponseWriter, r *http.Request, back string, err error) {
	c.notify(r.Context(), toast.Error, formMessage(err))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func idString(n apiclient.Number) string {
	return strconv.FormatInt(n.Int(), 10)
}

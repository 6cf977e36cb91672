package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/licensetower/pkg/deptree"
	apperrors "github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/license"
	"github.com/matzehuels/licensetower/pkg/session"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := classify(err)
	status := apperrors.HTTPStatus(e.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Code: e.Code, Message: e.Message})
}

// classify maps err onto a coded error. Internal causes are not exposed.
func classify(err error) *apperrors.Error {
	var coded *apperrors.Error
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &coded):
		return coded
	case errors.Is(err, session.ErrNotFound):
		return apperrors.New(apperrors.ErrCodeSessionNotFound, "session not found")
	case errors.Is(err, deptree.ErrInvalidDocument):
		return apperrors.New(apperrors.ErrCodeInvalidDocument, "request body is not a pipdeptree JSON array")
	case errors.As(err, &tooLarge):
		return apperrors.New(apperrors.ErrCodeTooLarge, "upload exceeds %d bytes", tooLarge.Limit)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.New(apperrors.ErrCodeTimeout, "request timed out")
	case errors.Is(err, context.Canceled):
		return apperrors.New(apperrors.ErrCodeCanceled, "request canceled")
	default:
		return apperrors.New(apperrors.ErrCodeInternal, "internal error")
	}
}

func errNotFound(path string) error {
	return apperrors.New(apperrors.ErrCodeNotFound, "no route for %s", path)
}

func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{
		Code:    apperrors.ErrCodeUnsupported,
		Message: "method " + r.Method + " not allowed",
	})
}

// blacklistParam reads every blacklist query value.
func blacklistParam(r *http.Request) (license.Set, error) {
	names := r.URL.Query()["blacklist"]
	if err := apperrors.ValidateLicenseNames(names); err != nil {
		return nil, err
	}
	return license.NewSet(names...), nil
}

// boolParam treats a bare flag (?hide_dependents) as true.
func boolParam(r *http.Request, name string) bool {
	q := r.URL.Query()
	if !q.Has(name) {
		return false
	}
	v := q.Get(name)
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

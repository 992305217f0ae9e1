package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/crucial707/changelog-browser/internal/client"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// writeJSON sends v with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// UpstreamError maps a failed fetch to a response: 404 when the upstream
// has no such document, 502 for every other FetchFailure, 500 otherwise.
func UpstreamError(w http.ResponseWriter, log *logrus.Logger, err error) {
	f, ok := client.AsFetchFailure(err)
	if !ok {
		log.WithError(err).Error("unexpected error")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	log.WithFields(logrus.Fields{
		"resource": f.Resource,
		"cause":    f.Detail(),
	}).Warn(f.Error())
	if client.IsNotFound(err) {
		JSONError(w, f.Error(), http.StatusNotFound)
		return
	}
	JSONError(w, f.Error(), http.StatusBadGateway)
}

// validationFields turns validator errors into a field -> rule map keyed by
// the json/query name.
func validationFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fe.Field()] = rule
	}
	return fields
}

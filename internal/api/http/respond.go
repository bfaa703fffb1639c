package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the error taxonomy onto HTTP status codes. Anything outside
// the taxonomy is a 500 with a generic body.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case apperr.IsAlreadyExists(err):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case apperr.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case apperr.IsRuleViolation(err):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case apperr.IsConflict(err):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// decode unmarshals the body into dst and runs struct-tag validation.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.NewValidation("bad json: " + err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			flds := make([]apperr.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				flds = append(flds, apperr.FieldError{Field: fe.Field(), Error: fe.Tag()})
			}
			return apperr.NewValidation("invalid request body", flds...)
		}
		return apperr.NewValidation(err.Error())
	}
	return nil
}

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"coursework_service/internal/errdefs"
)

var ErrBadRequest = errors.New("bad request")

func mapErr(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, errdefs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errdefs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errdefs.ErrNotCollected),
		errors.Is(err, errdefs.ErrNotGraded),
		errors.Is(err, errdefs.ErrAlreadyReturned):
		return http.StatusConflict
	case errors.Is(err, errdefs.ErrMalformed), errors.Is(err, errdefs.ErrNoGradableWork):
		return http.StatusUnprocessableEntity
	case errdefs.IsSinkFailure(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorMessage hides internal error text behind the status text.
func errorMessage(statusCode int, err error) string {
	if statusCode == http.StatusInternalServerError {
		return http.StatusText(statusCode)
	}
	return err.Error()
}

func writeErrorJSON(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp, _ := json.Marshal(map[string]string{"error": message})
	w.Write(resp)
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		writeErrorJSON(w, http.StatusInternalServerError, "failed to serialize response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data)
}

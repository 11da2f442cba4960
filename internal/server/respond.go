package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/EthanGF7/SkillsTracker/internal/apperr"
)

// errorBody is the failure envelope returned by every endpoint.
type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, e *apperr.Error) {
	respondWithJSON(w, e.Status, errorBody{Error: e.Message, Code: string(e.Code), Details: e.Details})
}

// fail maps err onto the envelope and logs server-side failures.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.From(err)
	if e.Status >= http.StatusInternalServerError {
		log.Printf("%s %s [%s]: %v", r.Method, r.URL.Path, RequestID(r.Context()), err)
	}
	respondWithError(w, e)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) *apperr.Error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		e := apperr.InvalidRequest("invalid JSON body")
		e.Details = err.Error()
		return e
	}
	return nil
}

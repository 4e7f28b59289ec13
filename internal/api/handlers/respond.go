package handlers

import (
	"encoding/json"
	"net/http"
)

// Envelope is the JSON shape of every API response
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondData(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Envelope{Success: false, Error: message})
}

// RespondError is shared with the router's middleware
func RespondError(w http.ResponseWriter, status int, message string) {
	respondError(w, status, message)
}

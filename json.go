package main

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
)

func UnmarshalJSON[T any](data []byte) T {
	var parsed T
	json.Unmarshal(data, &parsed)
	return parsed
}

// DecodeBody parses a request body, tolerating empty or malformed
// JSON by returning the zero value. Handlers validate the fields they
// actually need.
func DecodeBody[T any](r *http.Request) T {
	data, _ := io.ReadAll(r.Body)
	return UnmarshalJSON[T](data)
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoded, _ := json.Marshal(payload)
	w.Write(encoded)
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, httpStatusFor(err), errorResponse{Status: "error", Message: err.Error()})
}

// Round2 is the display rounding applied at the HTTP boundary only.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

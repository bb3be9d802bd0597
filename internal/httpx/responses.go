package httpx

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorDetail ties a message to one input field.
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type meta struct {
	RequestID string `json:"request_id,omitempty"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
	Meta    *meta     `json:"meta,omitempty"`
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError answers a request that never reached the GraphQL executor.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string, details ...ErrorDetail) {
	env := errorEnvelope{Error: errorBody{Code: code, Message: message, Details: details}}
	if id := RequestIDFrom(r); id != "" {
		env.Meta = &meta{RequestID: id}
	}
	WriteJSON(w, statusCode, env)
}

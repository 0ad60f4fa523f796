package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Code is the machine-readable error vocabulary of the evaluation API.
// Handlers map domain sentinels onto these; clients branch on them.
type Code string

const (
	CodeInvalidRequest     Code = "invalid_request"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUnauthorized       Code = "unauthorized"
	CodeNotFound           Code = "not_found"
	// CodeExcludedTarget marks an employee who is mapped to the period but
	// excluded from evaluation. Distinct from CodeNotFound so clients can
	// render a dedicated message.
	CodeExcludedTarget    Code = "excluded_target"
	CodeInvalidImportance Code = "invalid_importance"
	CodeNotReady          Code = "not_ready"
	CodeInternalError     Code = "internal_error"
)

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code Code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

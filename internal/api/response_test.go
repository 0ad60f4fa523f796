package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFailEncodesTypedCode(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, http.StatusUnprocessableEntity, CodeExcludedTarget, "employee is excluded from evaluation", "req-1")

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var envelope Envelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Success {
		t.Fatal("expected failure envelope")
	}
	if envelope.Error == nil || envelope.Error.Code != CodeExcludedTarget {
		t.Fatalf("error = %+v, want code excluded_target", envelope.Error)
	}
	if envelope.RequestID != "req-1" {
		t.Fatalf("requestId = %q, want req-1", envelope.RequestID)
	}
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"k": "v"}, "req-2")

	var envelope Envelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success || envelope.Error != nil {
		t.Fatalf("envelope = %+v, want success without error", envelope)
	}
}

package tests

import (
	"net/http"
	"testing"
)

func TestMailerDispatch(t *testing.T) {

	// Arrange
	payload := map[string]string{
		"recipient": "inbox@example.com",
		"body":      "<p>hello from the real suite</p>",
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/mailer/dispatch", payload)

	// Assert
	if status != http.StatusNoContent {
		errEnv := decodeError(t, body)
		t.Fatalf("dispatch failed: status=%d message=%q", status, errEnv.Message)
	}
}

func TestMailerDispatchFullPayload(t *testing.T) {

	// Arrange
	payload := map[string]string{
		"recipient": "inbox@example.com",
		"body":      "<p>hello</p>",
		"subject":   "real suite",
		"sender":    "sender@example.com",
		"smtp_host": "localhost",
		"smtp_port": "1025",
	}

	// Act
	status, body := doJSON(t, http.MethodPost, "/api/v1/mailer/dispatch", payload)

	// Assert
	if status != http.StatusNoContent {
		errEnv := decodeError(t, body)
		t.Fatalf("dispatch failed: status=%d message=%q", status, errEnv.Message)
	}
}

func TestMailerDispatchValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]string
	}{
		{name: "missing recipient", payload: map[string]string{"body": "hi"}},
		{name: "invalid recipient", payload: map[string]string{"recipient": "nope", "body": "hi"}},
		{name: "missing body", payload: map[string]string{"recipient": "inbox@example.com"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			status, _ := doJSON(t, http.MethodPost, "/api/v1/mailer/dispatch", tc.payload)

			// Assert
			if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
				t.Fatalf("expected 4xx for invalid payload, got %d", status)
			}
		})
	}
}

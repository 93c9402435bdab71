package restapi

import (
	"encoding/json"
	"strings"
)

// FallbackMessage is reported when the backend gives no readable reason.
const FallbackMessage = "operation failed"

// APIError is any failed call to the backend: a non-2xx response, a
// transport failure or an unreadable body.
type APIError struct {
	// StatusCode is zero when no response was received.
	StatusCode int
	// Message is the backend's own text when it sent one.
	Message string
	err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.err
}

func newAPIError(statusCode int, body []byte) *APIError {
	var payload struct {
		Error   flexString `json:"error"`
		Message flexString `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	message := FallbackMessage
	for _, candidate := range []flexString{payload.Error, payload.Message} {
		if text := strings.TrimSpace(string(candidate)); text != "" {
			message = text

			break
		}
	}

	return &APIError{StatusCode: statusCode, Message: message}
}

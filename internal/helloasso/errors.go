package helloasso

import (
	"errors"
	"fmt"
)

var (
	ErrAuthentication     = errors.New("authentication failed")
	ErrAPI                = errors.New("API error")
	ErrMalformedResponse  = errors.New("malformed API response")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// APIError reports a non-2xx response
type APIError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API returned status %d", e.StatusCode)
	if e.URL != "" {
		msg += " for " + e.URL
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return ErrAPI
}

// errorBody covers both the API error shape and the OAuth2 one
type errorBody struct {
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (b *errorBody) text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.ErrorDescription != "":
		return b.ErrorDescription
	default:
		return b.Error
	}
}

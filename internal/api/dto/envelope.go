package dto

import "time"

// Envelope wraps every API response.
type Envelope[T any] struct {
	Success   bool       `json:"success"`
	Data      *T         `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	Timestamp string     `json:"timestamp"`
}

// ErrorBody describes a failed call.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Success wraps data in a successful envelope.
func Success[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: &data, Timestamp: Timestamp()}
}

// Failure builds an error envelope without data.
func Failure(code, message string, details map[string]any) Envelope[struct{}] {
	return Envelope[struct{}]{
		Success:   false,
		Error:     &ErrorBody{Code: code, Message: message, Details: details},
		Timestamp: Timestamp(),
	}
}

// Timestamp renders the current UTC time as an ISO-8601 string.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

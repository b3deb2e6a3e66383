package yandex

import "fmt"

// APIError is a non-2xx response from the compute API. The status code and
// body are passed through unmodified so the caller can surface them.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// AuthError is a failed IAM token exchange. It propagates to the request
// handler as a server error; no retry happens underneath.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("IAM token exchange failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

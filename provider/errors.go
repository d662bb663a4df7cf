package provider

import "fmt"

// ProviderError indicates a failed oracle call (API error, rate limit,
// timeout).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// EmptyResponseError indicates the model answered with no usable content.
type EmptyResponseError struct{}

func (e *EmptyResponseError) Error() string {
	return "empty response from model"
}

package furthermore

import "fmt"

// ConfigError reports an unusable client configuration detected at construction.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "furthermore: invalid configuration: " + e.Reason
}

// TransportError reports that the underlying HTTP transport could not complete
// the request (DNS failure, connection refused, timeout).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("furthermore: request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response from the API. Body holds a bounded
// snippet of the response body for diagnostics.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("furthermore: %s returned status %d body: %s", e.URL, e.Code, e.Body)
}

// DecodeError reports a response body that is not valid JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("furthermore: decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

package registry

import (
	"errors"
	"fmt"
	"strings"
)

// NotInitializedError is returned when the client for a service family was
// never built.
type NotInitializedError struct {
	Service string // display name: Gmail, Calendar, Maps
}

func (e *NotInitializedError) Error() string {
	return e.Service + " service not initialized"
}

// ValidationError reports bad or missing arguments.
type ValidationError struct {
	Missing []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "missing required arguments: " + strings.Join(e.Missing, ", ")
	}
	return e.Message
}

// UnknownToolError is returned for a name that is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return "unknown tool: " + e.Name
}

// RemoteServiceError wraps a failure reported by a remote service. Message,
// when set, replaces the wrapped error's text.
type RemoteServiceError struct {
	Service string
	Message string
	Err     error
}

func (e *RemoteServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Service + " request failed"
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// NotFound is a RemoteServiceError for an empty upstream answer, such as
// "Address not found".
func NotFound(service, message string) *RemoteServiceError {
	return &RemoteServiceError{Service: service, Message: message}
}

// Remote wraps err from service.
func Remote(service string, err error) *RemoteServiceError {
	return &RemoteServiceError{Service: service, Err: err}
}

// MappingError reports an upstream record that could not be normalized.
type MappingError struct {
	Record string
	Err    error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("unexpected %s record: %v", e.Record, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// DuplicateToolError is returned by Register for a name already taken.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return "tool already registered: " + e.Name
}

// FromError converts err into an Err result. The message is the error text,
// verbatim.
func FromError(err error) Result {
	if err == nil {
		return Err("unknown error")
	}

	var notInit *NotInitializedError
	if errors.As(err, &notInit) {
		return Err(notInit.Error())
	}

	return Err(err.Error())
}

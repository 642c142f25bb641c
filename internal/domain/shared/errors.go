package shared

import (
	"errors"
	"fmt"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Session errors

// NoSessionError is returned when an operation needs a token and planet id but none is held
type NoSessionError struct {
	*DomainError
}

func NewNoSessionError() *NoSessionError {
	return &NoSessionError{DomainError: NewDomainError("no active session")}
}

// AuthorizationError means the server rejected the bearer token.
// The session must be terminated; it is never retried.
type AuthorizationError struct {
	*DomainError
	StatusCode int
}

func NewAuthorizationError(statusCode int, message string) *AuthorizationError {
	if message == "" {
		message = "authorization denied"
	}
	return &AuthorizationError{
		DomainError: NewDomainError(message),
		StatusCode:  statusCode,
	}
}

// Business errors

// BusinessError is a rejection of a well-formed request, either by the server
// (non-auth 4xx) or by local pre-flight checks.
type BusinessError struct {
	*DomainError
	StatusCode int
}

func NewBusinessError(statusCode int, message string) *BusinessError {
	return &BusinessError{
		DomainError: NewDomainError(message),
		StatusCode:  statusCode,
	}
}

type InsufficientResourcesError struct {
	*BusinessError
	Resource  string
	Required  float64
	Available float64
}

func NewInsufficientResourcesError(resource string, required, available float64) *InsufficientResourcesError {
	return &InsufficientResourcesError{
		BusinessError: NewBusinessError(0, fmt.Sprintf("insufficient %s: need %.0f, have %.0f", resource, required, available)),
		Resource:      resource,
		Required:      required,
		Available:     available,
	}
}

// QueueBusyError is returned when the building or shipyard queue already holds an item
type QueueBusyError struct {
	*BusinessError
	Queue string
}

func NewQueueBusyError(queue string) *QueueBusyError {
	return &QueueBusyError{
		BusinessError: NewBusinessError(0, fmt.Sprintf("%s queue is busy", queue)),
		Queue:         queue,
	}
}

// Network errors

// NetworkError wraps transport failures and server-side (5xx) faults
type NetworkError struct {
	*DomainError
	Err error
}

func NewNetworkError(err error) *NetworkError {
	return &NetworkError{
		DomainError: NewDomainError(fmt.Sprintf("network error: %v", err)),
		Err:         err,
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MalformedPayloadError marks a secondary field that could not be decoded
type MalformedPayloadError struct {
	*DomainError
	Field string
	Err   error
}

func NewMalformedPayloadError(field string, err error) *MalformedPayloadError {
	return &MalformedPayloadError{
		DomainError: NewDomainError(fmt.Sprintf("malformed %s: %v", field, err)),
		Field:       field,
		Err:         err,
	}
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Classification helpers

func IsAuthorizationError(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

func IsNoSessionError(err error) bool {
	var target *NoSessionError
	return errors.As(err, &target)
}

// IsBusinessError reports whether err is a server or local business rejection,
// including validation failures.
func IsBusinessError(err error) bool {
	var business *BusinessError
	if errors.As(err, &business) {
		return true
	}
	var insufficient *InsufficientResourcesError
	if errors.As(err, &insufficient) {
		return true
	}
	var busy *QueueBusyError
	if errors.As(err, &busy) {
		return true
	}
	var validation *ValidationError
	return errors.As(err, &validation)
}

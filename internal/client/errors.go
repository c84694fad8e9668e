package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode categorizes a failed submission.
type ErrorCode string

const (
	// ErrCodeInvalidQuery means the query failed validation. Nothing was sent.
	ErrCodeInvalidQuery ErrorCode = "INVALID_QUERY"

	// ErrCodeSerialization means the query could not be encoded. Nothing was sent.
	ErrCodeSerialization ErrorCode = "SERIALIZATION_FAILURE"

	// ErrCodeTransport means no response was obtained, or its body could not be read.
	ErrCodeTransport ErrorCode = "TRANSPORT_FAILURE"

	// ErrCodeDomain means the engine rejected the query with a known error.
	// Kind says which one.
	ErrCodeDomain ErrorCode = "DOMAIN_ERROR"

	// ErrCodeUnmarshal means the response status or body was not one the
	// protocol recognizes.
	ErrCodeUnmarshal ErrorCode = "UNMARSHAL_FAILURE"
)

// DomainErrorKind is an error the engine reports in the "error" field of
// its error body.
type DomainErrorKind string

const (
	KindSQLParseFailed           DomainErrorKind = "SQLParseFailed"
	KindPlanValidationFailed     DomainErrorKind = "PlanValidationFailed"
	KindResourceLimitExceeded    DomainErrorKind = "ResourceLimitExceeded"
	KindQueryCapacityExceeded    DomainErrorKind = "QueryCapacityExceeded"
	KindUnsupportedOperation     DomainErrorKind = "UnsupportedOperation"
	KindQueryTimeout             DomainErrorKind = "QueryTimeout"
	KindQueryInterrupted         DomainErrorKind = "QueryInterrupted"
	KindQueryCancelled           DomainErrorKind = "QueryCancelled"
	KindTruncatedResponseContext DomainErrorKind = "TruncatedResponseContext"
	KindUnknownException         DomainErrorKind = "UnknownException"
)

type domainError struct {
	kind   DomainErrorKind
	status int
}

// domainErrors is keyed by the engine's error string. The status is what the
// engine documents for the error; classification does not depend on it.
var domainErrors = map[string]domainError{
	"SQL parse failed":           {KindSQLParseFailed, http.StatusBadRequest},
	"Plan validation failed":     {KindPlanValidationFailed, http.StatusBadRequest},
	"Resource limit exceeded":    {KindResourceLimitExceeded, http.StatusBadRequest},
	"Query capacity exceeded":    {KindQueryCapacityExceeded, http.StatusTooManyRequests},
	"Unsupported operation":      {KindUnsupportedOperation, http.StatusNotImplemented},
	"Query timeout":              {KindQueryTimeout, http.StatusGatewayTimeout},
	"Query interrupted":          {KindQueryInterrupted, http.StatusInternalServerError},
	"Query cancelled":            {KindQueryCancelled, http.StatusInternalServerError},
	"Truncated response context": {KindTruncatedResponseContext, http.StatusInternalServerError},
	"Unknown exception":          {KindUnknownException, http.StatusInternalServerError},
}

// LookupDomainErrorKind maps the engine's error string to its kind.
func LookupDomainErrorKind(message string) (DomainErrorKind, bool) {
	de, ok := domainErrors[message]
	return de.kind, ok
}

// NominalStatus is the HTTP status the engine documents for k, or 0 for an
// unknown kind.
func (k DomainErrorKind) NominalStatus() int {
	for _, de := range domainErrors {
		if de.kind == k {
			return de.status
		}
	}
	return 0
}

// ErrorResponse is the JSON body the engine sends with a failed query.
type ErrorResponse struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	ErrorClass   string `json:"errorClass,omitempty"`
	Host         string `json:"host,omitempty"`
}

// Error is returned by Client.Query for every failed submission.
type Error struct {
	// Code identifies the stage that failed.
	Code ErrorCode

	// Kind is set when Code is ErrCodeDomain.
	Kind DomainErrorKind

	// StatusCode is the HTTP status, or 0 when no response was obtained.
	StatusCode int

	// Message is a human-readable description.
	Message string

	// Response is the decoded error body, when there was one.
	Response *ErrorResponse

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Kind != "" {
		msg = fmt.Sprintf("%s: %s: %s", e.Code, e.Kind, e.Message)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsInvalidQuery reports whether err is a validation failure.
func IsInvalidQuery(err error) bool { return hasCode(err, ErrCodeInvalidQuery) }

// IsSerializationFailure reports whether err is an encoding failure.
func IsSerializationFailure(err error) bool { return hasCode(err, ErrCodeSerialization) }

// IsTransportFailure reports whether err is a transport failure.
func IsTransportFailure(err error) bool { return hasCode(err, ErrCodeTransport) }

// IsUnmarshalFailure reports whether err is an unrecognized response.
func IsUnmarshalFailure(err error) bool { return hasCode(err, ErrCodeUnmarshal) }

// DomainKind returns the kind of a domain error.
// Uses errors.As to handle wrapped errors.
func DomainKind(err error) (DomainErrorKind, bool) {
	var ce *Error
	if errors.As(err, &ce) && ce.Code == ErrCodeDomain {
		return ce.Kind, true
	}
	return "", false
}

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeRemote represents a non-success answer from the upstream API
	ErrorTypeRemote ErrorType = "remote"
	// ErrorTypeNetwork represents transport failures before any answer arrived
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeDecode represents response bodies that do not match the expected shape
	ErrorTypeDecode ErrorType = "decode"
	// ErrorTypeRateLimit represents calls refused because of an upstream cooldown
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCriteria represents malformed user-supplied search criteria
	ErrorTypeCriteria ErrorType = "criteria"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeUnknown is returned by TypeOf for errors outside this taxonomy
	ErrorTypeUnknown ErrorType = "unknown"
)

// Typed is implemented by every error of this package
type Typed interface {
	error
	Type() ErrorType
}

// TypeOf returns the ErrorType of the first typed error in err's chain
func TypeOf(err error) ErrorType {
	var typed Typed
	if stderrors.As(err, &typed) {
		return typed.Type()
	}
	return ErrorTypeUnknown
}

// RemoteRequestError is returned when the upstream answers with a non-success status
type RemoteRequestError struct {
	Resource string
	URL      string
	Status   int
	Body     string
	// Summary is a short human-readable digest of Body, e.g. the title of an HTML error page
	Summary string
	Time    time.Time
}

func (e *RemoteRequestError) Error() string {
	detail := e.Summary
	if detail == "" {
		detail = truncate(e.Body, 200)
	}
	return fmt.Sprintf("[%s] %s: status %d: %s", ErrorTypeRemote, e.Resource, e.Status, detail)
}

func (e *RemoteRequestError) Type() ErrorType { return ErrorTypeRemote }

// IsRateLimited reports whether the upstream signalled too many requests
func (e *RemoteRequestError) IsRateLimited() bool {
	return e.Status == http.StatusTooManyRequests || e.Status == 430
}

// NewRemoteRequest creates a new RemoteRequestError
func NewRemoteRequest(resource, url string, status int, body, summary string) *RemoteRequestError {
	return &RemoteRequestError{
		Resource: resource,
		URL:      url,
		Status:   status,
		Body:     body,
		Summary:  summary,
		Time:     time.Now(),
	}
}

// FieldIssue is one missing or mismatched field found while decoding
type FieldIssue struct {
	Field  string
	Reason string
}

func (i FieldIssue) String() string {
	return i.Field + ": " + i.Reason
}

// DecodeError lists every field of a response body that failed validation
type DecodeError struct {
	Resource string
	Issues   []FieldIssue
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", ErrorTypeDecode, e.Resource, e.Err)
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("[%s] %s: %s", ErrorTypeDecode, e.Resource, strings.Join(parts, "; "))
}

func (e *DecodeError) Type() ErrorType { return ErrorTypeDecode }

func (e *DecodeError) Unwrap() error { return e.Err }

// HasField reports whether field is among the issues
func (e *DecodeError) HasField(field string) bool {
	for _, issue := range e.Issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

// NewDecode creates a DecodeError from collected issues
func NewDecode(resource string, issues []FieldIssue) *DecodeError {
	return &DecodeError{Resource: resource, Issues: issues}
}

// NewMalformed creates a DecodeError for a body that is not JSON at all
func NewMalformed(resource string, err error) *DecodeError {
	return &DecodeError{
		Resource: resource,
		Issues:   []FieldIssue{{Field: "$", Reason: "malformed JSON"}},
		Err:      err,
	}
}

// InvalidCriteriaError is returned for user-supplied criteria that cannot be used
type InvalidCriteriaError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidCriteriaError) Error() string {
	return fmt.Sprintf("[%s] %s=%q: %s", ErrorTypeCriteria, e.Field, e.Value, e.Reason)
}

func (e *InvalidCriteriaError) Type() ErrorType { return ErrorTypeCriteria }

// NewInvalidCriteria creates a new InvalidCriteriaError
func NewInvalidCriteria(field, value, reason string) *InvalidCriteriaError {
	return &InvalidCriteriaError{Field: field, Value: value, Reason: reason}
}

// RateLimitedError is returned when a call is refused during an upstream cooldown
type RateLimitedError struct {
	Resource string
	Key      string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("[%s] %s: upstream cooldown active (%s)", ErrorTypeRateLimit, e.Resource, e.Key)
}

func (e *RateLimitedError) Type() ErrorType { return ErrorTypeRateLimit }

// NewRateLimited creates a new RateLimitedError
func NewRateLimited(resource, key string) *RateLimitedError {
	return &RateLimitedError{Resource: resource, Key: key}
}

// NetworkError wraps transport failures
type NetworkError struct {
	Resource string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", ErrorTypeNetwork, e.Resource, e.Err)
}

func (e *NetworkError) Type() ErrorType { return ErrorTypeNetwork }

func (e *NetworkError) Unwrap() error { return e.Err }

// NewNetwork creates a new network error
func NewNetwork(resource string, err error) *NetworkError {
	return &NetworkError{Resource: resource, Err: err}
}

// ConfigurationError represents an unusable configuration value
type ConfigurationError struct {
	Key     string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ErrorTypeConfiguration, e.Key, e.Message)
}

func (e *ConfigurationError) Type() ErrorType { return ErrorTypeConfiguration }

// NewConfiguration creates a new configuration error
func NewConfiguration(key, message string) *ConfigurationError {
	return &ConfigurationError{Key: key, Message: message}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

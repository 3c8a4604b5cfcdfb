package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrConfiguration is returned when fingerprint settings are invalid
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument is returned when a document has no lines to measure against
	ErrEmptyDocument = errors.New("empty document")

	// ErrDocumentNotFound is returned when a document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentAlreadyExists is returned when registering a document id twice
	ErrDocumentAlreadyExists = errors.New("document already exists")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")
)

// ConfigurationError reports an invalid fingerprint setting.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for '%s': %s", e.Setting, e.Message)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(setting, message string) *ConfigurationError {
	return &ConfigurationError{Setting: setting, Message: message}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// EmptyDocumentError is returned when a match percentage would divide by zero lines.
type EmptyDocumentError struct {
	DocumentID string
}

func (e *EmptyDocumentError) Error() string {
	if e.DocumentID != "" {
		return fmt.Sprintf("document with ID '%s' has no lines", e.DocumentID)
	}
	return "document has no lines"
}

func (e *EmptyDocumentError) Is(target error) bool {
	return target == ErrEmptyDocument
}

// NewEmptyDocumentError creates a new EmptyDocumentError
func NewEmptyDocumentError(documentID string) *EmptyDocumentError {
	return &EmptyDocumentError{DocumentID: documentID}
}

// DocumentNotFoundError represents a document not found error with context
type DocumentNotFoundError struct {
	DocumentID string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document with ID '%s' not found", e.DocumentID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(documentID string) *DocumentNotFoundError {
	return &DocumentNotFoundError{DocumentID: documentID}
}

// DocumentAlreadyExistsError represents a duplicate document registration
type DocumentAlreadyExistsError struct {
	DocumentID string
}

func (e *DocumentAlreadyExistsError) Error() string {
	return fmt.Sprintf("document with ID '%s' already exists", e.DocumentID)
}

func (e *DocumentAlreadyExistsError) Is(target error) bool {
	return target == ErrDocumentAlreadyExists
}

// NewDocumentAlreadyExistsError creates a new DocumentAlreadyExistsError
func NewDocumentAlreadyExistsError(documentID string) *DocumentAlreadyExistsError {
	return &DocumentAlreadyExistsError{DocumentID: documentID}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

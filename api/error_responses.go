package api

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-winnow/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInvalidSettings  ErrorCode = "INVALID_SETTINGS"
	ErrorCodeDocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrorCodeDocumentExists   ErrorCode = "DOCUMENT_ALREADY_EXISTS"
	ErrorCodeEmptyDocument    ErrorCode = "EMPTY_DOCUMENT"
	ErrorCodeJobNotFound      ErrorCode = "JOB_NOT_FOUND"
	ErrorCodeJobNotActive     ErrorCode = "JOB_NOT_ACTIVE"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"

	// Server Error Codes (5xx)
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrorCodeComparisonFailed   ErrorCode = "COMPARISON_FAILED"
	ErrorCodeJobExecutionFailed ErrorCode = "JOB_EXECUTION_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with structured details
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendJobExecutionError sends a standardized job execution error
func SendJobExecutionError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeJobExecutionFailed,
		"Failed to start "+operation+" job: "+err.Error())
}

// SendEngineError maps an engine error onto its HTTP status and error code.
func SendEngineError(c *gin.Context, operation string, err error) {
	var configErr *errors.ConfigurationError
	var validationErr *errors.ValidationError

	switch {
	case stderrors.As(err, &configErr):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidSettings, err.Error(),
			ErrorDetail{Field: configErr.Setting, Message: configErr.Message, Code: "CONFIGURATION_ERROR"})
	case stderrors.As(err, &validationErr):
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error(),
			ErrorDetail{Field: validationErr.Field, Message: validationErr.Message, Code: "VALIDATION_ERROR"})
	case stderrors.Is(err, errors.ErrInvalidInput):
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	case stderrors.Is(err, errors.ErrDocumentNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeDocumentNotFound, err.Error())
	case stderrors.Is(err, errors.ErrDocumentAlreadyExists):
		SendError(c, http.StatusConflict, ErrorCodeDocumentExists, err.Error())
	case stderrors.Is(err, errors.ErrEmptyDocument):
		SendError(c, http.StatusUnprocessableEntity, ErrorCodeEmptyDocument, err.Error())
	case stderrors.Is(err, errors.ErrJobNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeJobNotFound, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
			"Internal error during "+operation+": "+err.Error())
	}
}

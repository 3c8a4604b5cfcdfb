// Package api exposes the fingerprinting engine over HTTP.
package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-winnow/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateDocumentID validates a document ID
func ValidateDocumentID(documentID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if documentID == "" {
		result.AddError("id", "Document ID is required")
		return result
	}

	if strings.TrimSpace(documentID) != documentID {
		result.AddError("id", "Document ID cannot have leading or trailing whitespace")
		return result
	}

	return result
}

// ValidateDocuments validates a slice of documents for registration
func ValidateDocuments(docs []model.Document) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(docs) == 0 {
		result.AddError("documents", "No documents provided")
		return result
	}

	seen := make(map[string]int, len(docs))
	for i, doc := range docs {
		field := fmt.Sprintf("documents[%d].id", i)
		docID, ok := doc.GetDocumentID()
		if !ok {
			result.AddError(field, "Document ID cannot be empty or whitespace-only")
			continue
		}
		if first, dup := seen[docID]; dup {
			result.AddError(field, fmt.Sprintf("Document ID '%s' already used by documents[%d]", docID, first))
			continue
		}
		seen[docID] = i
	}

	return result
}

// ValidateComparisonPairs validates the pairs of a batch comparison
func ValidateComparisonPairs(pairs []model.ComparisonPair) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(pairs) == 0 {
		result.AddError("pairs", "At least one pair is required")
		return result
	}

	for i, pair := range pairs {
		if strings.TrimSpace(pair.SourceID) == "" {
			result.AddError(fmt.Sprintf("pairs[%d].source_id", i), "Source document ID is required")
		}
		if strings.TrimSpace(pair.TargetID) == "" {
			result.AddError(fmt.Sprintf("pairs[%d].target_id", i), "Target document ID is required")
		}
	}

	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateJSONBinding validates JSON binding and returns a standardized error
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}

	return result
}

// Package schemas validates comparison output against its published JSON Schema.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/gcbaptista/go-winnow/model"
)

//go:embed comparison_result.schema.json
var comparisonResultSchema string

// ComparisonResultSchema returns the JSON Schema of a serialized ComparisonResult.
func ComparisonResultSchema() string {
	return comparisonResultSchema
}

// ValidationError lists every schema violation of a document
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing a schema or document
type SchemaLoadError struct {
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compileOnce    sync.Once
	compiledSchema *gojsonschema.Schema
	compileErr     error
)

func comparisonSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(comparisonResultSchema))
	})
	return compiledSchema, compileErr
}

// ValidateComparisonResult checks the JSON encoding of result against the schema.
func ValidateComparisonResult(result *model.ComparisonResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode comparison result: %w", err)
	}
	return ValidateComparisonJSON(data)
}

// ValidateComparisonJSON checks serialized comparison output against the schema.
func ValidateComparisonJSON(data []byte) error {
	schema, err := comparisonSchema()
	if err != nil {
		return &SchemaLoadError{Message: "failed to compile comparison result schema", Cause: err}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &SchemaLoadError{Message: "failed to load comparison result", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

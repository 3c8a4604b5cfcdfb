// Package config provides configuration structures for the fingerprinting engine.
// It defines the winnowing settings and the application-level configuration.
package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/gcbaptista/go-winnow/internal/errors"
)

const (
	// DefaultKValue is the number of tokens per k-gram
	DefaultKValue = 15
	// DefaultWindowSizeValue is the number of consecutive k-grams per winnowing window
	DefaultWindowSizeValue = 10

	HashXXHash = "xxhash"
	HashBlake3 = "blake3"
)

// FingerprintSettings controls how a token stream is turned into fingerprints.
// Two documents can only be compared if their fingerprints were produced with
// identical settings.
type FingerprintSettings struct {
	KValue           int    `json:"k_value" validate:"min=1"`                      // Tokens per k-gram
	WindowSizeValue  int    `json:"window_size_value" validate:"min=1"`            // K-grams per winnowing window
	HashAlgorithm    string `json:"hash_algorithm" validate:"oneof=xxhash blake3"` // K-gram hash function
	IgnoreCase       bool   `json:"ignore_case"`                                   // Lower-case tokens before hashing
	SplitIdentifiers bool   `json:"split_identifiers"`                             // Break camelCase identifiers into words
}

// DefaultFingerprintSettings returns the default winnowing configuration (k=15, w=10, xxhash).
func DefaultFingerprintSettings() FingerprintSettings {
	return FingerprintSettings{
		KValue:          DefaultKValue,
		WindowSizeValue: DefaultWindowSizeValue,
		HashAlgorithm:   HashXXHash,
	}
}

// ApplyDefaults fills unset values with their defaults.
// Negative values are left alone so Validate can reject them.
func (settings *FingerprintSettings) ApplyDefaults() {
	if settings.KValue == 0 {
		settings.KValue = DefaultKValue
	}
	if settings.WindowSizeValue == 0 {
		settings.WindowSizeValue = DefaultWindowSizeValue
	}
	if settings.HashAlgorithm == "" {
		settings.HashAlgorithm = HashXXHash
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func settingsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Report json names so errors match what users configure
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks the settings and returns a *errors.ConfigurationError for the
// first invalid value.
func (settings FingerprintSettings) Validate() error {
	err := settingsValidator().Struct(settings)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return errors.NewConfigurationError("settings", err.Error())
	}

	fe := validationErrors[0]
	switch fe.Tag() {
	case "min":
		return errors.NewConfigurationError(fe.Field(), fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value()))
	case "oneof":
		return errors.NewConfigurationError(fe.Field(), fmt.Sprintf("must be one of [%s], got '%v'", fe.Param(), fe.Value()))
	default:
		return errors.NewConfigurationError(fe.Field(), fmt.Sprintf("failed '%s' check", fe.Tag()))
	}
}

// Signature returns a stable string identifying the settings. Cached fingerprints
// are keyed by document id and signature so that differently configured
// fingerprints never alias.
func (settings FingerprintSettings) Signature() string {
	signature := fmt.Sprintf("%s:k%d:w%d", settings.HashAlgorithm, settings.KValue, settings.WindowSizeValue)
	if settings.IgnoreCase {
		signature += ":ci"
	}
	if settings.SplitIdentifiers {
		signature += ":split"
	}
	return signature
}

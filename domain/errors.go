package domain

import (
	"errors"
	"fmt"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Cause   error  `json:"-" yaml:"-"`
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Domain error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeCancelled         = "CANCELLED"

	// Per-file and per-pair conditions; these degrade results but never abort a batch.
	ErrCodeUnparseableSource = "UNPARSEABLE_SOURCE"
	ErrCodeASTParse          = "AST_PARSE_ERROR"
	ErrCodeDetectorInternal  = "DETECTOR_INTERNAL_ERROR"

	// Fatal at job start.
	ErrCodeInvalidPresetName = "INVALID_PRESET_NAME"
	ErrCodeInvalidWeight     = "INVALID_WEIGHT_OR_THRESHOLD"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

// NewCancelledError reports that a batch stopped dispatching pairs
func NewCancelledError(cause error) error {
	return NewDomainError(ErrCodeCancelled, "comparison cancelled", cause)
}

// NewUnparseableSourceError reports a file that could not be lexed
func NewUnparseableSourceError(file string, cause error) error {
	return NewDomainError(ErrCodeUnparseableSource, fmt.Sprintf("cannot tokenize %s", file), cause)
}

// NewASTParseError reports a file whose syntax tree contains errors
func NewASTParseError(file string, cause error) error {
	return NewDomainError(ErrCodeASTParse, fmt.Sprintf("syntax errors in %s", file), cause)
}

// NewDetectorInternalError reports a failure inside one detector for one pair
func NewDetectorInternalError(kind DetectorKind, cause error) error {
	return NewDomainError(ErrCodeDetectorInternal, fmt.Sprintf("%s detector failed", kind), cause)
}

// NewInvalidPresetNameError reports an unknown preset name
func NewInvalidPresetNameError(name string) error {
	return NewDomainError(ErrCodeInvalidPresetName, fmt.Sprintf("unknown preset: %q", name), nil)
}

// NewInvalidWeightError reports an out-of-range weight or threshold
func NewInvalidWeightError(message string) error {
	return NewDomainError(ErrCodeInvalidWeight, message, nil)
}

// IsCode reports whether err wraps a DomainError with the given code.
func IsCode(err error, code string) bool {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// AsDomainError unwraps err into a DomainError, wrapping foreign errors with
// the fallback code.
func AsDomainError(err error, fallbackCode string) DomainError {
	var de DomainError
	if errors.As(err, &de) {
		return de
	}
	return DomainError{Code: fallbackCode, Message: err.Error(), Cause: err}
}

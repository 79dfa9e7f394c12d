package common

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Machine-readable error codes surfaced to callers.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeParse      = "PARSE_ERROR"
	CodeSchema     = "SCHEMA_ERROR"
	CodeConversion = "CONVERSION_ERROR"
	CodeCache      = "CACHE_ERROR"
)

// ValidationError means the input document itself is unusable (missing,
// wrong extension, empty, oversized, not a PDF). Never retried.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", CodeValidation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", CodeValidation, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ParseError means no valid JSON could be recovered from the agent response.
// Snippet holds at most 200 characters of the offending content.
type ParseError struct {
	Message string
	Snippet string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("%s: %s: %q", CodeParse, e.Message, e.Snippet)
	}
	return fmt.Sprintf("%s: %s", CodeParse, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

func NewParseError(message, content string) *ParseError {
	const snippetLimit = 200
	if len(content) > snippetLimit {
		cut := snippetLimit
		// Back up to a rune boundary so the snippet stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}
	return &ParseError{Message: message, Snippet: content}
}

// SchemaError means the extracted result violates the trade/fee contract.
// Index is the offending record's position, or -1 for document-level
// violations; Field names the offending key when known.
type SchemaError struct {
	Index   int
	Field   string
	Message string
	Cause   error
}

func (e *SchemaError) Error() string {
	switch {
	case e.Index >= 0 && e.Field != "":
		return fmt.Sprintf("%s: record %d, field %q: %s", CodeSchema, e.Index, e.Field, e.Message)
	case e.Index >= 0:
		return fmt.Sprintf("%s: record %d: %s", CodeSchema, e.Index, e.Message)
	default:
		return fmt.Sprintf("%s: %s", CodeSchema, e.Message)
	}
}

func (e *SchemaError) Unwrap() error { return e.Cause }

func NewSchemaError(index int, field, message string) *SchemaError {
	return &SchemaError{Index: index, Field: field, Message: message}
}

// ConversionError is the terminal failure of a whole extraction or
// conversion: exhausted retries, unreachable layout engine, or a
// post-success business-rule violation. Always wraps the trigger.
type ConversionError struct {
	Message string
	Cause   error
}

func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", CodeConversion, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", CodeConversion, e.Message)
}

func (e *ConversionError) Unwrap() error { return e.Cause }

func NewConversionError(message string, cause error) *ConversionError {
	return &ConversionError{Message: message, Cause: cause}
}

// CacheError is always logged and swallowed by the cache layer; it never
// propagates to callers.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", CodeCache, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", CodeCache, e.Message)
}

func (e *CacheError) Unwrap() error { return e.Cause }

func NewCacheError(message string, cause error) *CacheError {
	return &CacheError{Message: message, Cause: cause}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsParse(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}

func IsSchema(err error) bool {
	var e *SchemaError
	return errors.As(err, &e)
}

func IsConversion(err error) bool {
	var e *ConversionError
	return errors.As(err, &e)
}

// ErrorCode maps an error to its machine-readable code; unknown errors
// report as conversion failures.
func ErrorCode(err error) string {
	switch {
	case IsValidation(err):
		return CodeValidation
	case IsParse(err):
		return CodeParse
	case IsSchema(err):
		return CodeSchema
	case IsConversion(err):
		return CodeConversion
	default:
		var ce *CacheError
		if errors.As(err, &ce) {
			return CodeCache
		}
		return CodeConversion
	}
}

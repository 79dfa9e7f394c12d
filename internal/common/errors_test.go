package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorSnippetTruncated(t *testing.T) {
	long := strings.Repeat("x", 500)

	err := NewParseError("no json found", long)

	assert.Len(t, err.Snippet, 200)
	assert.Contains(t, err.Error(), CodeParse)
}

func TestParseErrorSnippetKeepsRunesWhole(t *testing.T) {
	// 100 three-byte runes: the byte cap falls mid-rune and must back up.
	content := strings.Repeat("日", 100)

	err := NewParseError("no json found", content)

	assert.True(t, utf8.ValidString(err.Snippet))
	assert.Equal(t, strings.Repeat("日", 66), err.Snippet)
}

func TestSchemaErrorMessages(t *testing.T) {
	rec := NewSchemaError(2, "quantity", "must be positive")
	assert.Equal(t, `SCHEMA_ERROR: record 2, field "quantity": must be positive`, rec.Error())

	doc := NewSchemaError(-1, "", "missing trades key")
	assert.Equal(t, "SCHEMA_ERROR: missing trades key", doc.Error())
}

func TestErrorCodeUnwrapsChains(t *testing.T) {
	inner := NewParseError("bad json", "{oops")
	outer := NewConversionError("extraction failed", inner)
	wrapped := fmt.Errorf("pipeline: %w", outer)

	assert.True(t, IsConversion(wrapped))
	assert.True(t, IsParse(wrapped))

	var pe *ParseError
	require.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, "{oops", pe.Snippet)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeValidation, ErrorCode(NewValidationError("bad file")))
	assert.Equal(t, CodeParse, ErrorCode(NewParseError("m", "c")))
	assert.Equal(t, CodeSchema, ErrorCode(NewSchemaError(0, "ticker", "required")))
	assert.Equal(t, CodeConversion, ErrorCode(NewConversionError("m", nil)))
	assert.Equal(t, CodeCache, ErrorCode(NewCacheError("setex", errors.New("down"))))
	assert.Equal(t, CodeConversion, ErrorCode(errors.New("anything else")))
}

func TestErrorCodePrecedence(t *testing.T) {
	// A conversion wrapping a validation error still reports as validation,
	// since that is the actionable cause.
	err := NewConversionError("wrapped", NewValidationError("not a pdf"))
	assert.Equal(t, CodeValidation, ErrorCode(err))
}

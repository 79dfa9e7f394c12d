package digest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvbarbosa/pdfdigest/internal/common"
)

var pdfMagic = []byte("%PDF-")

// ValidateFile rejects unusable input before anything touches the retry
// loop: the file must exist, be a regular .pdf, be non-empty, fit the
// size cap, and open with the PDF magic bytes.
func ValidateFile(path string, maxSize int64) error {
	st, err := os.Stat(path)
	if err != nil {
		return &common.ValidationError{Message: fmt.Sprintf("file not found: %s", path), Cause: err}
	}
	if !st.Mode().IsRegular() {
		return common.NewValidationError(fmt.Sprintf("not a regular file: %s", path))
	}
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return common.NewValidationError(fmt.Sprintf("file must have a .pdf extension: %s", path))
	}
	if st.Size() == 0 {
		return common.NewValidationError("file is empty")
	}
	if st.Size() > maxSize {
		return common.NewValidationError(
			fmt.Sprintf("file too large: %d bytes (max %d)", st.Size(), maxSize))
	}

	f, err := os.Open(path)
	if err != nil {
		return &common.ValidationError{Message: fmt.Sprintf("open %s", path), Cause: err}
	}
	defer func() {
		_ = f.Close()
	}()

	header := make([]byte, 8)
	n, _ := f.Read(header)
	if !bytes.HasPrefix(header[:n], pdfMagic) {
		return common.NewValidationError(
			fmt.Sprintf("file lacks a valid PDF header, found %q", header[:n]))
	}
	return nil
}

// Package extract turns an uploaded resume file into plain text.
package extract

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned before any parsing when the file is not a PDF.
var ErrNotPDF = errors.New("only PDF resumes are supported")

// ExtractionError wraps any failure while turning a resume file into text.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting text from %q: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// FromPDF reads the PDF at path and returns its plain text. Non-PDF files and
// parse failures are reported as an ExtractionError; the caller decides
// whether to ask the user for another file.
func FromPDF(path string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", &ExtractionError{Path: path, Err: ErrNotPDF}
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &ExtractionError{Path: path, Err: errors.New("no extractable text")}
	}

	return text, nil
}

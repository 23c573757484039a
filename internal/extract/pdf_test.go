package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFromPDFRejectsNonPDF(t *testing.T) {
	_, err := FromPDF("resume.docx")
	if err == nil {
		t.Fatal("expected error for non-PDF file")
	}

	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError, got %T", err)
	}
	if !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}

func TestFromPDFMissingFile(t *testing.T) {
	_, err := FromPDF(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError, got %T", err)
	}
}

func TestFromPDFCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := FromPDF(path)
	if err == nil {
		t.Fatal("expected error for corrupt file")
	}

	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError, got %T", err)
	}
}

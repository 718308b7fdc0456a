package pdftext

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractUnreadablePDFYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	text, err := NewExtractor(nil).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("unreadable pdf must not error, got %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestExtractMissingFile(t *testing.T) {
	_, err := NewExtractor(nil).Extract(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestExtractCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewExtractor(nil).Extract(ctx, "whatever.pdf"); err == nil {
		t.Fatalf("expected context error")
	}
}

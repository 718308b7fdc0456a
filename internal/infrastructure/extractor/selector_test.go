package extractor

import (
	"context"
	"testing"

	"github.com/akarpovich/health-analytics/internal/core/domain"
	"github.com/akarpovich/health-analytics/internal/core/ports"
)

type strategyStub struct{ name string }

func (s *strategyStub) Extract(context.Context, string) (string, error) { return s.name, nil }

func newTestSelector() (*Selector, *strategyStub, *strategyStub, *strategyStub) {
	image := &strategyStub{name: "image"}
	pdf := &strategyStub{name: "pdf"}
	csv := &strategyStub{name: "csv"}
	return NewSelector(image, pdf, csv), image, pdf, csv
}

func TestSelectByContentType(t *testing.T) {
	selector, image, pdf, csv := newTestSelector()

	cases := []struct {
		contentType string
		want        ports.TextExtractor
	}{
		{"image/png", image},
		{"image/jpeg", image},
		{"IMAGE/TIFF", image},
		{"application/pdf", pdf},
		{"text/csv", csv},
		{"text/csv; charset=utf-8", csv},
	}
	for _, tc := range cases {
		got, err := selector.Select(tc.contentType)
		if err != nil {
			t.Fatalf("Select(%q) error = %v", tc.contentType, err)
		}
		if got != tc.want {
			t.Fatalf("Select(%q) picked the wrong strategy", tc.contentType)
		}
	}
}

func TestSelectUnsupported(t *testing.T) {
	selector, _, _, _ := newTestSelector()

	for _, ct := range []string{"application/msword", "text/plain", "", "pdf"} {
		_, err := selector.Select(ct)
		if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
			t.Fatalf("Select(%q): expected ErrUnsupportedFormat, got %v", ct, err)
		}
	}
}

func TestContentTypeForPath(t *testing.T) {
	cases := []struct {
		path string
		want string
		ok   bool
	}{
		{"/in/scan.PNG", "image/png", true},
		{"report.jpeg", "image/jpeg", true},
		{"report.pdf", "application/pdf", true},
		{"panel.csv", "text/csv", true},
		{"notes.txt", "", false},
		{"noext", "", false},
	}
	for _, tc := range cases {
		got, ok := ContentTypeForPath(tc.path)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ContentTypeForPath(%q) = %q, %v; want %q, %v", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}

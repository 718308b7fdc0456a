// Package extractor routes a declared content type to a text extraction
// strategy. Routing looks only at the declaration; file bytes are never
// sniffed.
package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akarpovich/health-analytics/internal/core/domain"
	"github.com/akarpovich/health-analytics/internal/core/ports"
)

const (
	ContentTypePDF = "application/pdf"
	ContentTypeCSV = "text/csv"

	imagePrefix = "image/"
)

// contentTypeByExt maps known report file extensions to the content type the
// selector dispatches on. Used by callers that work from paths (CLI, watcher)
// rather than declared upload types.
var contentTypeByExt = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"bmp":  "image/bmp",
	"pdf":  ContentTypePDF,
	"csv":  ContentTypeCSV,
}

// ContentTypeForPath infers the declared content type from a file extension.
func ContentTypeForPath(path string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	ct, ok := contentTypeByExt[ext]
	return ct, ok
}

// SupportedExtensions returns the lowercase extensions (without dot) the
// pipeline can extract, for path-based discovery.
func SupportedExtensions() map[string]struct{} {
	out := make(map[string]struct{}, len(contentTypeByExt))
	for ext := range contentTypeByExt {
		out[ext] = struct{}{}
	}
	return out
}

type Selector struct {
	image ports.TextExtractor
	pdf   ports.TextExtractor
	csv   ports.TextExtractor
}

func NewSelector(image, pdf, csv ports.TextExtractor) *Selector {
	return &Selector{image: image, pdf: pdf, csv: csv}
}

func (s *Selector) Select(contentType string) (ports.TextExtractor, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	switch {
	case strings.HasPrefix(ct, imagePrefix):
		return s.image, nil
	case ct == ContentTypePDF:
		return s.pdf, nil
	case ct == ContentTypeCSV:
		return s.csv, nil
	default:
		return nil, domain.WrapError(domain.ErrUnsupportedFormat, "select extractor", fmt.Errorf("content type %q", contentType))
	}
}

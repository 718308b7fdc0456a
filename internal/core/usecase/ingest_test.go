package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

type ingestRepoFake struct {
	created   *domain.ReportResult
	createErr error
}

func (f *ingestRepoFake) Create(_ context.Context, result *domain.ReportResult) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = result
	return nil
}

func (f *ingestRepoFake) GetByID(context.Context, string) (*domain.ReportResult, error) {
	return nil, domain.ErrReportNotFound
}

func (f *ingestRepoFake) ListByOwner(context.Context, string) ([]domain.ReportResult, error) {
	return nil, nil
}

type storageFake struct {
	saveErr   error
	removeErr error
	savedKeys []string
	removed   []string
	content   string
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", err
	}
	f.content = buf.String()
	f.savedKeys = append(f.savedKeys, key)
	return "/staged/" + key, nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.content)), nil
}

func (f *storageFake) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	return f.removeErr
}

type analyzerFake struct {
	analysis *domain.Analysis
	err      error
	paths    []string
}

func (f *analyzerFake) Analyze(_ context.Context, path, _ string) (*domain.Analysis, error) {
	f.paths = append(f.paths, path)
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

func TestIngestSuccess(t *testing.T) {
	repo := &ingestRepoFake{}
	storage := &storageFake{}
	analyzer := &analyzerFake{analysis: &domain.Analysis{
		Parameters: []domain.ClassifiedParameter{{Parameter: "Glucose", Value: 90, Classification: domain.ClassificationNormal}},
		Risk:       domain.RiskAssessment{Score: 0, Source: domain.RiskSourceRule},
	}}
	uc := NewIngestReportUseCase(analyzer, repo, storage, nil)

	result, err := uc.Ingest(context.Background(), "user-1", "blood test.pdf", "application/pdf", strings.NewReader("raw"))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if result.ID == "" || result.OwnerID != "user-1" || result.Filename != "blood test.pdf" {
		t.Fatalf("unexpected result metadata: %+v", result)
	}
	if repo.created == nil || repo.created.ID != result.ID {
		t.Fatalf("expected result persisted, got %+v", repo.created)
	}
	if len(storage.savedKeys) != 1 {
		t.Fatalf("expected one staged file, got %v", storage.savedKeys)
	}
	if !strings.HasSuffix(storage.savedKeys[0], "_blood_test.pdf") {
		t.Fatalf("expected sanitized staging key, got %q", storage.savedKeys[0])
	}
	if len(storage.removed) != 1 || storage.removed[0] != storage.savedKeys[0] {
		t.Fatalf("expected staged file removed, got %v", storage.removed)
	}
	if len(analyzer.paths) != 1 || analyzer.paths[0] != "/staged/"+storage.savedKeys[0] {
		t.Fatalf("expected analyzer to receive staged path, got %v", analyzer.paths)
	}
}

func TestIngestRemovesStagedFileOnAnalyzeFailure(t *testing.T) {
	storage := &storageFake{}
	analyzer := &analyzerFake{err: domain.WrapError(domain.ErrExtractionFailed, "extract text", errors.New("ocr exited 1"))}
	uc := NewIngestReportUseCase(analyzer, &ingestRepoFake{}, storage, nil)

	_, err := uc.Ingest(context.Background(), "user-1", "scan.png", "image/png", strings.NewReader("raw"))
	if !domain.IsKind(err, domain.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if len(storage.removed) != 1 {
		t.Fatalf("staged file must be removed on failure, removed = %v", storage.removed)
	}
}

func TestIngestRemovesStagedFileOnPersistFailure(t *testing.T) {
	storage := &storageFake{}
	repo := &ingestRepoFake{createErr: errors.New("connection refused")}
	analyzer := &analyzerFake{analysis: &domain.Analysis{Risk: domain.RiskAssessment{Score: 0, Source: domain.RiskSourceRule}}}
	uc := NewIngestReportUseCase(analyzer, repo, storage, nil)

	_, err := uc.Ingest(context.Background(), "user-1", "scan.png", "image/png", strings.NewReader("raw"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(storage.removed) != 1 {
		t.Fatalf("staged file must be removed on persist failure, removed = %v", storage.removed)
	}
}

func TestIngestRejectsEmptyOwner(t *testing.T) {
	storage := &storageFake{}
	uc := NewIngestReportUseCase(&analyzerFake{}, &ingestRepoFake{}, storage, nil)

	_, err := uc.Ingest(context.Background(), "", "scan.png", "image/png", strings.NewReader("raw"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(storage.savedKeys) != 0 {
		t.Fatalf("nothing should be staged for rejected input, got %v", storage.savedKeys)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"blood test.pdf", "blood_test.pdf"},
		{"../../etc/passwd", "passwd"},
		{"отчёт.pdf", "_____.pdf"},
		{"", "report.bin"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ReportRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across CLI/daemon startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026081501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	content_type TEXT NOT NULL,
	parameters JSONB NOT NULL DEFAULT '[]'::jsonb,
	insights JSONB NOT NULL DEFAULT '[]'::jsonb,
	risk_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	risk_source TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_owner_created ON reports(owner_id, created_at);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ReportRepository) Create(ctx context.Context, result *domain.ReportResult) error {
	parametersJSON, err := json.Marshal(result.Parameters)
	if err != nil {
		return fmt.Errorf("marshal parameters: %w", err)
	}
	insightsJSON, err := json.Marshal(result.Insights)
	if err != nil {
		return fmt.Errorf("marshal insights: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO reports (
	id, owner_id, filename, content_type, parameters, insights, risk_score, risk_source, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		result.ID, result.OwnerID, result.Filename, result.ContentType, parametersJSON,
		insightsJSON, result.Risk.Score, string(result.Risk.Source), result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id string) (*domain.ReportResult, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, filename, content_type, parameters, insights, risk_score, risk_source, created_at
FROM reports
WHERE id = $1
`, id)

	result, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrReportNotFound, "get report by id", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}
	return &result, nil
}

// ListByOwner returns the owner's reports oldest first, so trend series come
// back in chronological ingest order.
func (r *ReportRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.ReportResult, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, owner_id, filename, content_type, parameters, insights, risk_score, risk_source, created_at
FROM reports
WHERE owner_id = $1
ORDER BY created_at ASC
`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ReportResult, 0)
	for rows.Next() {
		result, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

type reportScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row reportScanner) (domain.ReportResult, error) {
	var result domain.ReportResult
	var parametersRaw, insightsRaw []byte
	var riskSource string

	err := row.Scan(
		&result.ID,
		&result.OwnerID,
		&result.Filename,
		&result.ContentType,
		&parametersRaw,
		&insightsRaw,
		&result.Risk.Score,
		&riskSource,
		&result.CreatedAt,
	)
	if err != nil {
		return domain.ReportResult{}, err
	}

	if err := json.Unmarshal(parametersRaw, &result.Parameters); err != nil {
		return domain.ReportResult{}, fmt.Errorf("unmarshal parameters: %w", err)
	}
	if err := json.Unmarshal(insightsRaw, &result.Insights); err != nil {
		return domain.ReportResult{}, fmt.Errorf("unmarshal insights: %w", err)
	}
	result.Risk.Source = domain.RiskSource(riskSource)
	return result, nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/geo-analyzer/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id         TEXT PRIMARY KEY,
	business   TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'queued',
	result     TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS content_cache (
	id          TEXT PRIMARY KEY,
	website_url TEXT NOT NULL,
	content     TEXT NOT NULL,
	fetched_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(status);
CREATE INDEX IF NOT EXISTS idx_analyses_business ON analyses(business);
CREATE INDEX IF NOT EXISTS idx_content_cache_website_url ON content_cache(website_url);
CREATE INDEX IF NOT EXISTS idx_content_cache_expires_at ON content_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateAnalysis(ctx context.Context, business model.Business) (*model.Analysis, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	businessJSON, err := json.Marshal(business)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal business")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, business, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(businessJSON), string(model.AnalysisStatusQueued), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert analysis")
	}

	return &model.Analysis{
		ID:        id,
		Business:  business,
		Status:    model.AnalysisStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateAnalysisStatus(ctx context.Context, id string, status model.AnalysisStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE analyses SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update analysis status %s", id)
	}
	return checkRowsAffected(res, "analysis", id)
}

func (s *SQLiteStore) UpdateAnalysisResult(ctx context.Context, id string, result *model.AnalysisResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE analyses SET result = ?, status = ?, updated_at = ? WHERE id = ?`,
		string(resultJSON), string(model.AnalysisStatusCompleted), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update analysis result %s", id)
	}
	return checkRowsAffected(res, "analysis", id)
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, business, status, result, created_at, updated_at FROM analyses WHERE id = ?`,
		id,
	)
	return scanAnalysis(row)
}

func (s *SQLiteStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.Analysis, error) {
	query := `SELECT id, business, status, result, created_at, updated_at FROM analyses WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.WebsiteURL != "" {
		query += ` AND json_extract(business, '$.url') = ?`
		args = append(args, filter.WebsiteURL)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analyses")
	}
	defer rows.Close()

	var analyses []model.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, *a)
	}
	return analyses, eris.Wrap(rows.Err(), "sqlite: list analyses iterate")
}

func (s *SQLiteStore) GetCachedContent(ctx context.Context, websiteURL string) (*model.WebsiteContent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT content FROM content_cache
		 WHERE website_url = ? AND expires_at > datetime('now')
		 ORDER BY fetched_at DESC LIMIT 1`,
		websiteURL,
	)

	var contentJSON string
	err := row.Scan(&contentJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get cached content")
	}

	var content model.WebsiteContent
	if err := json.Unmarshal([]byte(contentJSON), &content); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal cached content")
	}
	return &content, nil
}

func (s *SQLiteStore) SetCachedContent(ctx context.Context, websiteURL string, content model.WebsiteContent, ttl time.Duration) error {
	id := uuid.New().String()
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal content")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO content_cache (id, website_url, content, fetched_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		id, websiteURL, string(contentJSON), now, expiresAt,
	)
	return eris.Wrap(err, "sqlite: set cached content")
}

func (s *SQLiteStore) DeleteExpiredContent(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM content_cache WHERE expires_at <= datetime('now')`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired content")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scannable) (*model.Analysis, error) {
	var a model.Analysis
	var businessJSON string
	var resultJSON sql.NullString

	err := row.Scan(&a.ID, &businessJSON, &a.Status, &resultJSON, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("analysis not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan analysis")
	}

	if err := json.Unmarshal([]byte(businessJSON), &a.Business); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal business")
	}
	if resultJSON.Valid {
		a.Result = &model.AnalysisResult{}
		if err := json.Unmarshal([]byte(resultJSON.String), a.Result); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal result")
		}
	}
	return &a, nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/geo-analyzer/internal/model"
)

// Pool abstracts the pgx pool so tests can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	business   JSONB NOT NULL,
	status     TEXT NOT NULL DEFAULT 'queued',
	result     JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS content_cache (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	website_url TEXT NOT NULL UNIQUE,
	content     JSONB NOT NULL,
	fetched_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(status);
CREATE INDEX IF NOT EXISTS idx_content_cache_website_url ON content_cache(website_url);
CREATE INDEX IF NOT EXISTS idx_content_cache_expires_at ON content_cache(expires_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) CreateAnalysis(ctx context.Context, business model.Business) (*model.Analysis, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	businessJSON, err := json.Marshal(business)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal business")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO analyses (id, business, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, businessJSON, string(model.AnalysisStatusQueued), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert analysis")
	}

	return &model.Analysis{
		ID:        id,
		Business:  business,
		Status:    model.AnalysisStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateAnalysisStatus(ctx context.Context, id string, status model.AnalysisStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE analyses SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update analysis status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("analysis not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateAnalysisResult(ctx context.Context, id string, result *model.AnalysisResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE analyses SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		resultJSON, string(model.AnalysisStatusCompleted), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update analysis result %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("analysis not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	var a model.Analysis
	var businessJSON []byte
	var resultNull *[]byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, business, status, result, created_at, updated_at FROM analyses WHERE id = $1`,
		id,
	).Scan(&a.ID, &businessJSON, &a.Status, &resultNull, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get analysis %s", id)
	}

	if err := json.Unmarshal(businessJSON, &a.Business); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal business")
	}
	if resultNull != nil {
		a.Result = &model.AnalysisResult{}
		if err := json.Unmarshal(*resultNull, a.Result); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
	}
	return &a, nil
}

func (s *PostgresStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.Analysis, error) {
	query := `SELECT id, business, status, result, created_at, updated_at FROM analyses WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.WebsiteURL != "" {
		query += fmt.Sprintf(` AND business->>'url' = $%d`, argIdx)
		args = append(args, filter.WebsiteURL)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list analyses")
	}
	defer rows.Close()

	var analyses []model.Analysis
	for rows.Next() {
		var a model.Analysis
		var businessJSON []byte
		var resultNull *[]byte

		if err := rows.Scan(&a.ID, &businessJSON, &a.Status, &resultNull, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan analysis")
		}
		if err := json.Unmarshal(businessJSON, &a.Business); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal business")
		}
		if resultNull != nil {
			a.Result = &model.AnalysisResult{}
			if err := json.Unmarshal(*resultNull, a.Result); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal result")
			}
		}
		analyses = append(analyses, a)
	}
	return analyses, eris.Wrap(rows.Err(), "postgres: list analyses iterate")
}

func (s *PostgresStore) GetCachedContent(ctx context.Context, websiteURL string) (*model.WebsiteContent, error) {
	var contentJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT content FROM content_cache
		 WHERE website_url = $1 AND expires_at > now()
		 ORDER BY fetched_at DESC LIMIT 1`,
		websiteURL,
	).Scan(&contentJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get cached content")
	}

	var content model.WebsiteContent
	if err := json.Unmarshal(contentJSON, &content); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal cached content")
	}
	return &content, nil
}

func (s *PostgresStore) SetCachedContent(ctx context.Context, websiteURL string, content model.WebsiteContent, ttl time.Duration) error {
	id := uuid.New().String()
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal content")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO content_cache (id, website_url, content, fetched_at, expires_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (website_url) DO UPDATE SET content = $3, fetched_at = $4, expires_at = $5`,
		id, websiteURL, contentJSON, now, expiresAt,
	)
	return eris.Wrap(err, "postgres: set cached content")
}

func (s *PostgresStore) DeleteExpiredContent(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM content_cache WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired content")
	}
	return int(tag.RowsAffected()), nil
}

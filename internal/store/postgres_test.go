package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/geo-analyzer/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_CreateAnalysis(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO analyses`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "queued", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	a, err := s.CreateAnalysis(context.Background(), model.Business{Name: "Acme", URL: "https://acme.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, model.AnalysisStatusQueued, a.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAnalysis(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	businessJSON, _ := json.Marshal(model.Business{Name: "Acme", URL: "https://acme.com"})
	resultJSON, _ := json.Marshal(model.AnalysisResult{BusinessName: "Acme", GeoScore: 6.5})
	resultBytes := []byte(resultJSON)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, business, status, result, created_at, updated_at FROM analyses WHERE id = \$1`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "business", "status", "result", "created_at", "updated_at"}).
			AddRow("run-1", businessJSON, "completed", &resultBytes, now, now))

	a, err := s.GetAnalysis(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", a.Business.Name)
	require.NotNil(t, a.Result)
	assert.InDelta(t, 6.5, a.Result.GeoScore, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAnalysis_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, business, status, result, created_at, updated_at FROM analyses WHERE id = \$1`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetAnalysis(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get analysis")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateAnalysisStatus_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE analyses SET status`).
		WithArgs("failed", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateAnalysisStatus(context.Background(), "missing", model.AnalysisStatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateAnalysisResult(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE analyses SET result`).
		WithArgs(pgxmock.AnyArg(), "completed", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.UpdateAnalysisResult(context.Background(), "run-1", &model.AnalysisResult{BusinessName: "Acme"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAnalyses(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	businessJSON, _ := json.Marshal(model.Business{Name: "Acme"})
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, business, status, result, created_at, updated_at FROM analyses`).
		WithArgs("completed", 100).
		WillReturnRows(pgxmock.NewRows([]string{"id", "business", "status", "result", "created_at", "updated_at"}).
			AddRow("run-1", businessJSON, "completed", (*[]byte)(nil), now, now))

	got, err := s.ListAnalyses(context.Background(), AnalysisFilter{Status: model.AnalysisStatusCompleted})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].Business.Name)
	assert.Nil(t, got[0].Result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCachedContent_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT content FROM content_cache`).
		WithArgs("https://unknown.com").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetCachedContent(context.Background(), "https://unknown.com")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetCachedContent(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO content_cache`).
		WithArgs(pgxmock.AnyArg(), "https://acme.com", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SetCachedContent(context.Background(), "https://acme.com",
		model.WebsiteContent{Title: "Acme"}, time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteExpiredContent(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM content_cache`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteExpiredContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

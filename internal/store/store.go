// Package store persists analysis runs and cached website content.
package store

import (
	"context"
	"time"

	"github.com/sells-group/geo-analyzer/internal/model"
)

// AnalysisFilter specifies criteria for listing analyses.
type AnalysisFilter struct {
	Status     model.AnalysisStatus `json:"status,omitempty"`
	WebsiteURL string               `json:"website_url,omitempty"`
	Limit      int                  `json:"limit,omitempty"`
	Offset     int                  `json:"offset,omitempty"`
}

// Store defines the persistence interface for the analyzer.
type Store interface {
	// Analyses
	CreateAnalysis(ctx context.Context, business model.Business) (*model.Analysis, error)
	UpdateAnalysisStatus(ctx context.Context, id string, status model.AnalysisStatus) error
	UpdateAnalysisResult(ctx context.Context, id string, result *model.AnalysisResult) error
	GetAnalysis(ctx context.Context, id string) (*model.Analysis, error)
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.Analysis, error)

	// Website content cache
	GetCachedContent(ctx context.Context, websiteURL string) (*model.WebsiteContent, error)
	SetCachedContent(ctx context.Context, websiteURL string, content model.WebsiteContent, ttl time.Duration) error
	DeleteExpiredContent(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

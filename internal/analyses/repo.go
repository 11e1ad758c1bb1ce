package analyses

import "context"

// Repo defines persistence operations for analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	UpdateResult(ctx context.Context, analysisID, status string, result map[string]any, dataQuality string) error
	List(ctx context.Context, niche string, limit, offset int) ([]Analysis, error)
	ListNiches(ctx context.Context) ([]string, error)
}

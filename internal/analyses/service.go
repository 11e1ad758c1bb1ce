package analyses

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"avatar-backend/internal/avatar"
	"avatar-backend/internal/shared/telemetry"
)

// Service coordinates analysis generation and persistence. Persistence is
// best-effort: a storage failure is logged but never blocks returning the
// generated document to the caller.
type Service struct {
	Repo      Repo
	Generator *avatar.Generator
}

// NewService constructs a Service.
func NewService(repo Repo, generator *avatar.Generator) *Service {
	return &Service{Repo: repo, Generator: generator}
}

// Create runs the full pipeline for a request and persists the outcome.
// The returned analysis is already completed; generation is synchronous.
func (s *Service) Create(ctx context.Context, req avatar.Request) (Analysis, error) {
	now := time.Now().UTC()
	analysis := Analysis{
		ID:        uuid.NewString(),
		Request:   req,
		Status:    StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		telemetry.Warn("analysis.persist_failed", map[string]any{
			"analysis_id": analysis.ID,
			"stage":       "create",
			"error":       err.Error(),
		})
	}

	result := s.Generator.Generate(ctx, req)

	analysis.Status = StatusCompleted
	analysis.Result = result.Document
	analysis.DataQuality = result.DataQuality
	analysis.UpdatedAt = time.Now().UTC()

	if err := s.Repo.UpdateResult(ctx, analysis.ID, analysis.Status, analysis.Result, analysis.DataQuality); err != nil {
		telemetry.Warn("analysis.persist_failed", map[string]any{
			"analysis_id": analysis.ID,
			"stage":       "update",
			"error":       err.Error(),
		})
	}

	telemetry.Info("analysis.completed", map[string]any{
		"analysis_id":  analysis.ID,
		"niche":        req.Niche,
		"data_quality": analysis.DataQuality,
		"fallback":     result.Fallback,
	})
	return analysis, nil
}

// Get returns an analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns stored analyses newest first, optionally filtered by niche.
func (s *Service) List(ctx context.Context, niche string, limit, offset int) ([]Analysis, error) {
	return s.Repo.List(ctx, strings.TrimSpace(niche), limit, offset)
}

// ListNiches returns the distinct niches analyzed so far.
func (s *Service) ListNiches(ctx context.Context) ([]string, error) {
	return s.Repo.ListNiches(ctx)
}

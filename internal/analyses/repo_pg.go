package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `
id, nicho, produto, descricao, preco, publico, concorrentes, dados_adicionais,
objetivo_receita, orcamento_marketing, prazo_lancamento, status, result, data_quality,
created_at, updated_at`

// Create inserts a new analysis row.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
	id, nicho, produto, descricao, preco, publico, concorrentes, dados_adicionais,
	objetivo_receita, orcamento_marketing, prazo_lancamento, status, result, data_quality,
	created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	resultPayload, err := marshalJSONB(analysis.Result)
	if err != nil {
		return err
	}
	req := analysis.Request
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		req.Niche,
		req.Product,
		req.Description,
		nullFloat(req.Price),
		req.Audience,
		req.Competitors,
		req.ExtraNotes,
		nullFloat(req.RevenueGoal),
		nullFloat(req.MarketingBudget),
		req.LaunchDeadline,
		analysis.Status,
		resultPayload,
		analysis.DataQuality,
		analysis.CreatedAt,
		analysis.UpdatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	query := `SELECT ` + analysisColumns + `
FROM analyses
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, analysisID)
	analysis, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return analysis, err
}

// UpdateResult sets status, result document, and data quality.
func (r *PGRepo) UpdateResult(ctx context.Context, analysisID, status string, result map[string]any, dataQuality string) error {
	const query = `
UPDATE analyses
SET status = $2, result = COALESCE($3, result), data_quality = $4, updated_at = now()
WHERE id = $1`
	resultPayload, err := marshalJSONB(result)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, analysisID, status, resultPayload, dataQuality)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns analyses newest first, optionally filtered by niche.
func (r *PGRepo) List(ctx context.Context, niche string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + analysisColumns + `
FROM analyses
WHERE ($1 = '' OR nicho = $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, niche, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	analyses := []Analysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}
	return analyses, rows.Err()
}

// ListNiches returns the distinct niches stored, sorted.
func (r *PGRepo) ListNiches(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT nicho FROM analyses WHERE nicho <> '' ORDER BY nicho`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	niches := []string{}
	for rows.Next() {
		var niche string
		if err := rows.Scan(&niche); err != nil {
			return nil, err
		}
		niches = append(niches, niche)
	}
	return niches, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var preco, objetivoReceita, orcamentoMarketing sql.NullFloat64
	var result sql.NullString
	err := row.Scan(
		&a.ID,
		&a.Request.Niche,
		&a.Request.Product,
		&a.Request.Description,
		&preco,
		&a.Request.Audience,
		&a.Request.Competitors,
		&a.Request.ExtraNotes,
		&objetivoReceita,
		&orcamentoMarketing,
		&a.Request.LaunchDeadline,
		&a.Status,
		&result,
		&a.DataQuality,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	if preco.Valid {
		a.Request.Price = &preco.Float64
	}
	if objetivoReceita.Valid {
		a.Request.RevenueGoal = &objetivoReceita.Float64
	}
	if orcamentoMarketing.Valid {
		a.Request.MarketingBudget = &orcamentoMarketing.Float64
	}
	if result.Valid && result.String != "" {
		if err := json.Unmarshal([]byte(result.String), &a.Result); err != nil {
			return Analysis{}, err
		}
	}
	return a, nil
}

func marshalJSONB(doc map[string]any) (any, error) {
	if doc == nil {
		return nil, nil
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

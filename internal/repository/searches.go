package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadscope/opportunity-finder/api/internal/entity"
)

// SearchesRepository records completed searches and answers quota queries.
// Rows are append-only; nothing here updates or deletes.
type SearchesRepository interface {
	CountMonthToDate(ctx context.Context, userID uuid.UUID) (int, error)
	Insert(ctx context.Context, record *entity.SearchRecord) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.SearchRecord, error)
}

// PGXSearchesRepository implements SearchesRepository with pgx.
type PGXSearchesRepository struct {
	pool pgxPool
}

// NewPGXSearchesRepository instantiates a search history repository.
func NewPGXSearchesRepository(pool *pgxpool.Pool) *PGXSearchesRepository {
	return &PGXSearchesRepository{pool: pool}
}

// CountMonthToDate counts the user's searches in the current calendar month.
func (r *PGXSearchesRepository) CountMonthToDate(ctx context.Context, userID uuid.UUID) (int, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM search_history
        WHERE user_id = $1 AND searched_at >= date_trunc('month', CURRENT_TIMESTAMP)
    `, userID)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count monthly searches: %w", err)
	}

	return count, nil
}

// Insert appends one usage record.
func (r *PGXSearchesRepository) Insert(ctx context.Context, record *entity.SearchRecord) error {
	if record == nil {
		return fmt.Errorf("search record is nil")
	}

	_, err := r.pool.Exec(ctx, `
        INSERT INTO search_history (user_id, location, business_type, radius_miles, max_results, results_count)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, record.UserID, record.Location, record.BusinessType, record.RadiusMiles, record.MaxResults, record.ResultsCount)
	if err != nil {
		return fmt.Errorf("insert search record: %w", err)
	}

	return nil
}

// ListRecent returns the user's searches ordered newest first.
func (r *PGXSearchesRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, user_id, location, business_type, radius_miles, max_results, results_count, searched_at
        FROM search_history
        WHERE user_id = $1
        ORDER BY searched_at DESC
        LIMIT $2 OFFSET $3
    `, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	var records []entity.SearchRecord
	for rows.Next() {
		var rec entity.SearchRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Location, &rec.BusinessType, &rec.RadiusMiles, &rec.MaxResults, &rec.ResultsCount, &rec.SearchedAt); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate searches: %w", err)
	}
	return records, nil
}

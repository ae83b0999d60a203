package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/luct-reporting-api/internal/models"
)

// StreamRepository reads faculty streams.
type StreamRepository struct {
	db *sqlx.DB
}

// NewStreamRepository constructs the repository.
func NewStreamRepository(db *sqlx.DB) *StreamRepository {
	return &StreamRepository{db: db}
}

// List returns every stream ordered by code.
func (r *StreamRepository) List(ctx context.Context) ([]models.Stream, error) {
	const query = `SELECT id, stream_name, stream_code FROM streams ORDER BY stream_code`
	var streams []models.Stream
	if err := r.db.SelectContext(ctx, &streams, query); err != nil {
		return nil, fmt.Errorf("list streams: %w", err)
	}
	return streams, nil
}

// FindByID returns one stream.
func (r *StreamRepository) FindByID(ctx context.Context, id string) (*models.Stream, error) {
	const query = `SELECT id, stream_name, stream_code FROM streams WHERE id = $1`
	var stream models.Stream
	if err := r.db.GetContext(ctx, &stream, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find stream: %w", err)
	}
	return &stream, nil
}

// ListForLecturer returns the streams a lecturer is linked to.
func (r *StreamRepository) ListForLecturer(ctx context.Context, lecturerID string) ([]models.Stream, error) {
	const query = `SELECT s.id, s.stream_name, s.stream_code
FROM streams s
JOIN lecturer_streams ls ON ls.stream_id = s.id
WHERE ls.lecturer_id = $1
ORDER BY s.stream_code`
	var streams []models.Stream
	if err := r.db.SelectContext(ctx, &streams, query, lecturerID); err != nil {
		return nil, fmt.Errorf("list lecturer streams: %w", err)
	}
	return streams, nil
}

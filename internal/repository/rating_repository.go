package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/luct-reporting-api/internal/models"
)

const ratingViewSelect = `SELECT rt.id, rt.rater_id, rt.ratee_id, rt.rating_type, rt.score, rt.comments, rt.created_at,
ra.first_name || ' ' || ra.last_name AS rater_name, ra.role AS rater_role,
re.first_name || ' ' || re.last_name AS ratee_name, re.role AS ratee_role
FROM ratings rt
JOIN users ra ON ra.id = rt.rater_id
JOIN users re ON re.id = rt.ratee_id`

// RatingRepository persists ratings.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository constructs the repository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create inserts an immutable rating.
func (r *RatingRepository) Create(ctx context.Context, exec sqlx.ExtContext, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO ratings (id, rater_id, ratee_id, rating_type, score, comments, created_at)
VALUES (:id, :rater_id, :ratee_id, :rating_type, :score, :comments, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, rating); err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

// Aggregate returns the mean score and count for a ratee.
func (r *RatingRepository) Aggregate(ctx context.Context, rateeID string) (float64, int, error) {
	const query = `SELECT COALESCE(AVG(score), 0) AS avg_rating, COUNT(*) AS total_ratings FROM ratings WHERE ratee_id = $1`
	var row struct {
		Avg   float64 `db:"avg_rating"`
		Count int     `db:"total_ratings"`
	}
	if err := r.db.GetContext(ctx, &row, query, rateeID); err != nil {
		return 0, 0, fmt.Errorf("aggregate ratings: %w", err)
	}
	return row.Avg, row.Count, nil
}

// ListForRatee returns ratings received by a user, newest first.
func (r *RatingRepository) ListForRatee(ctx context.Context, rateeID string) ([]models.RatingView, error) {
	return r.list(ctx, "list received ratings", ratingViewSelect+` WHERE rt.ratee_id = $1 ORDER BY rt.created_at DESC`, rateeID)
}

// ListByRater returns ratings a user has given, newest first.
func (r *RatingRepository) ListByRater(ctx context.Context, raterID string) ([]models.RatingView, error) {
	return r.list(ctx, "list given ratings", ratingViewSelect+` WHERE rt.rater_id = $1 ORDER BY rt.created_at DESC`, raterID)
}

// ListAll returns every rating, newest first.
func (r *RatingRepository) ListAll(ctx context.Context) ([]models.RatingView, error) {
	return r.list(ctx, "list ratings", ratingViewSelect+` ORDER BY rt.created_at DESC`)
}

// ListRecent returns the latest ratings.
func (r *RatingRepository) ListRecent(ctx context.Context, limit int) ([]models.RatingView, error) {
	return r.list(ctx, "list recent ratings", ratingViewSelect+` ORDER BY rt.created_at DESC LIMIT $1`, limit)
}

func (r *RatingRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.RatingView, error) {
	var ratings []models.RatingView
	if err := r.db.SelectContext(ctx, &ratings, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ratings, nil
}

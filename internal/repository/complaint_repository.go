package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/luct-reporting-api/internal/models"
)

// ComplaintRepository persists student complaints.
type ComplaintRepository struct {
	db *sqlx.DB
}

// NewComplaintRepository constructs the repository.
func NewComplaintRepository(db *sqlx.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// Create inserts a complaint.
func (r *ComplaintRepository) Create(ctx context.Context, exec sqlx.ExtContext, c *models.Complaint) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.ComplaintStatusPending
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO complaints (id, student_id, module_id, lecturer_id, complaint_type, description, status, created_at)
VALUES (:id, :student_id, :module_id, :lecturer_id, :complaint_type, :description, :status, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, c); err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

// ListForStudent returns complaints filed by a student, newest first.
func (r *ComplaintRepository) ListForStudent(ctx context.Context, studentID string) ([]models.ComplaintView, error) {
	const query = `SELECT c.id, c.student_id, c.module_id, c.lecturer_id, c.complaint_type, c.description, c.status, c.created_at,
m.module_name, m.module_code,
l.first_name || ' ' || l.last_name AS lecturer_name
FROM complaints c
JOIN modules m ON m.id = c.module_id
LEFT JOIN users l ON l.id = c.lecturer_id
WHERE c.student_id = $1
ORDER BY c.created_at DESC`
	var items []models.ComplaintView
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return items, nil
}

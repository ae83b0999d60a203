package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/luct-reporting-api/internal/models"
)

// EnrollmentRepository manages module_students rows.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListStudents returns the roster of a module.
func (r *EnrollmentRepository) ListStudents(ctx context.Context, moduleID string) ([]models.StudentSummary, error) {
	const query = `SELECT u.id, u.first_name, u.last_name, u.student_number
FROM module_students ms
JOIN users u ON u.id = ms.student_id
WHERE ms.module_id = $1
ORDER BY u.last_name, u.first_name`
	var students []models.StudentSummary
	if err := r.db.SelectContext(ctx, &students, query, moduleID); err != nil {
		return nil, fmt.Errorf("list module students: %w", err)
	}
	return students, nil
}

// IsEnrolled reports whether the student is already on the module roster.
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, exec sqlx.ExtContext, moduleID, studentID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM module_students WHERE module_id = $1 AND student_id = $2)`
	var found bool
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &found, query, moduleID, studentID); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return found, nil
}

// Enroll adds a student to a module.
func (r *EnrollmentRepository) Enroll(ctx context.Context, exec sqlx.ExtContext, moduleID, studentID string) error {
	const query = `INSERT INTO module_students (module_id, student_id, enrolled_at) VALUES ($1, $2, $3)`
	if _, err := pick(r.db, exec).ExecContext(ctx, query, moduleID, studentID, time.Now().UTC()); err != nil {
		return fmt.Errorf("enroll student: %w", err)
	}
	return nil
}

// Remove drops a student from a module. Missing rows are ignored.
func (r *EnrollmentRepository) Remove(ctx context.Context, moduleID, studentID string) error {
	const query = `DELETE FROM module_students WHERE module_id = $1 AND student_id = $2`
	if _, err := r.db.ExecContext(ctx, query, moduleID, studentID); err != nil {
		return fmt.Errorf("remove enrollment: %w", err)
	}
	return nil
}

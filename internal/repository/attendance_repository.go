package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/luct-reporting-api/internal/models"
)

const attendanceViewSelect = `SELECT a.id, a.student_id, a.module_id, a.lecturer_id, a.lecture_date, a.status, a.created_at,
m.module_name, m.module_code,
st.first_name || ' ' || st.last_name AS student_name, st.student_number,
l.first_name || ' ' || l.last_name AS lecturer_name
FROM attendance a
JOIN modules m ON m.id = a.module_id
JOIN users st ON st.id = a.student_id
LEFT JOIN users l ON l.id = a.lecturer_id`

// AttendanceRepository persists student attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Exists reports whether the student already marked attendance for the module on that date.
func (r *AttendanceRepository) Exists(ctx context.Context, exec sqlx.ExtContext, studentID, moduleID string, lectureDate time.Time) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM attendance WHERE student_id = $1 AND module_id = $2 AND lecture_date = $3)`
	var found bool
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &found, query, studentID, moduleID, lectureDate); err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return found, nil
}

// Create inserts an attendance mark.
func (r *AttendanceRepository) Create(ctx context.Context, exec sqlx.ExtContext, a *models.Attendance) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = models.AttendancePresent
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance (id, student_id, module_id, lecturer_id, lecture_date, status, created_at)
VALUES (:id, :student_id, :module_id, :lecturer_id, :lecture_date, :status, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, a); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// ListForStudent returns a student's attendance history, latest lecture first.
func (r *AttendanceRepository) ListForStudent(ctx context.Context, studentID string) ([]models.AttendanceView, error) {
	return r.list(ctx, "list student attendance", attendanceViewSelect+` WHERE a.student_id = $1 ORDER BY a.lecture_date DESC, a.created_at DESC`, studentID)
}

// ListForLecturer returns attendance marks on the lecturer's modules.
func (r *AttendanceRepository) ListForLecturer(ctx context.Context, lecturerID string) ([]models.AttendanceView, error) {
	return r.list(ctx, "list lecturer attendance", attendanceViewSelect+` WHERE a.lecturer_id = $1 OR m.lecturer_id = $1 ORDER BY a.lecture_date DESC, a.created_at DESC`, lecturerID)
}

func (r *AttendanceRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.AttendanceView, error) {
	var items []models.AttendanceView
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/luct-reporting-api/internal/models"
)

const reportDetailSelect = `SELECT r.id, r.module_id, r.lecturer_id, r.week_of_reporting, r.date_of_lecture, r.actual_students_present,
r.venue, r.scheduled_time, r.topic_taught, r.learning_outcomes, r.recommendations, r.prl_id, r.status,
r.prl_feedback, r.pl_feedback, r.reviewed_at, r.approved_at, r.created_at,
m.module_name, m.module_code, m.class_name, s.id AS stream_id, s.stream_name, s.stream_code,
l.first_name || ' ' || l.last_name AS lecturer_name,
COALESCE(p.first_name || ' ' || p.last_name, 'No PRL') AS prl_name
FROM reports r
JOIN modules m ON m.id = r.module_id
JOIN streams s ON s.id = m.stream_id
JOIN users l ON l.id = r.lecturer_id
LEFT JOIN users p ON p.id = r.prl_id`

// ReportRepository persists lecturer reports and their review state.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a report.
func (r *ReportRepository) Create(ctx context.Context, exec sqlx.ExtContext, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.Status == "" {
		report.Status = models.ReportStatusPending
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO reports (id, module_id, lecturer_id, week_of_reporting, date_of_lecture, actual_students_present, venue,
scheduled_time, topic_taught, learning_outcomes, recommendations, prl_id, status, created_at)
VALUES (:id, :module_id, :lecturer_id, :week_of_reporting, :date_of_lecture, :actual_students_present, :venue,
:scheduled_time, :topic_taught, :learning_outcomes, :recommendations, :prl_id, :status, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// SetPRLFeedback records the PRL review. sql.ErrNoRows is returned for unknown reports.
func (r *ReportRepository) SetPRLFeedback(ctx context.Context, update models.ReportFeedbackUpdate) error {
	const query = `UPDATE reports SET prl_feedback = $2, status = $3, reviewed_at = $4 WHERE id = $1`
	return r.applyFeedback(ctx, "set prl feedback", query, update)
}

// SetPLFeedback records the PL approval. sql.ErrNoRows is returned for unknown reports.
func (r *ReportRepository) SetPLFeedback(ctx context.Context, update models.ReportFeedbackUpdate) error {
	const query = `UPDATE reports SET pl_feedback = $2, status = $3, approved_at = $4 WHERE id = $1`
	return r.applyFeedback(ctx, "set pl feedback", query, update)
}

func (r *ReportRepository) applyFeedback(ctx context.Context, op, query string, update models.ReportFeedbackUpdate) error {
	res, err := r.db.ExecContext(ctx, query, update.ReportID, update.Feedback, update.Status, update.At)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindDetail returns a report joined with its module, stream and people.
func (r *ReportRepository) FindDetail(ctx context.Context, id string) (*models.ReportDetail, error) {
	var report models.ReportDetail
	if err := r.db.GetContext(ctx, &report, reportDetailSelect+` WHERE r.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return &report, nil
}

// ListByLecturer returns a lecturer's reports, newest first.
func (r *ReportRepository) ListByLecturer(ctx context.Context, lecturerID string) ([]models.ReportDetail, error) {
	return r.list(ctx, "list lecturer reports", reportDetailSelect+` WHERE r.lecturer_id = $1 ORDER BY r.created_at DESC`, lecturerID)
}

// ListByStream returns the reports for modules of a stream, newest first.
func (r *ReportRepository) ListByStream(ctx context.Context, streamID string) ([]models.ReportDetail, error) {
	return r.list(ctx, "list stream reports", reportDetailSelect+` WHERE m.stream_id = $1 ORDER BY r.created_at DESC`, streamID)
}

// ListAll returns every report, newest first.
func (r *ReportRepository) ListAll(ctx context.Context) ([]models.ReportDetail, error) {
	return r.list(ctx, "list reports", reportDetailSelect+` ORDER BY r.created_at DESC`)
}

func (r *ReportRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.ReportDetail, error) {
	var reports []models.ReportDetail
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reports, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/luct-reporting-api/internal/models"
)

// MonitoringRepository runs the aggregate queries behind the PL dashboard.
type MonitoringRepository struct {
	db *sqlx.DB
}

// NewMonitoringRepository constructs the repository.
func NewMonitoringRepository(db *sqlx.DB) *MonitoringRepository {
	return &MonitoringRepository{db: db}
}

// DashboardCounts returns portal-wide totals.
func (r *MonitoringRepository) DashboardCounts(ctx context.Context) (*models.DashboardCounts, error) {
	const query = `SELECT
(SELECT COUNT(*) FROM streams) AS streams,
(SELECT COUNT(*) FROM modules) AS modules,
(SELECT COUNT(*) FROM users WHERE role = 'lecturer') AS lecturers,
(SELECT COUNT(*) FROM users WHERE role = 'PRL') AS prls,
(SELECT COUNT(*) FROM users WHERE role = 'student') AS students,
(SELECT COUNT(*) FROM reports) AS total_reports,
(SELECT COUNT(*) FROM reports WHERE status = 'pending') AS pending_reports`
	var counts models.DashboardCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &counts, nil
}

// RecentReports returns the latest submitted reports.
func (r *MonitoringRepository) RecentReports(ctx context.Context, limit int) ([]models.RecentReport, error) {
	const query = `SELECT r.id, m.module_code, m.module_name, l.first_name || ' ' || l.last_name AS lecturer_name,
r.week_of_reporting, r.status, r.created_at
FROM reports r
JOIN modules m ON m.id = r.module_id
JOIN users l ON l.id = r.lecturer_id
ORDER BY r.created_at DESC
LIMIT $1`
	var reports []models.RecentReport
	if err := r.db.SelectContext(ctx, &reports, query, limit); err != nil {
		return nil, fmt.Errorf("recent reports: %w", err)
	}
	return reports, nil
}

// StreamStats returns activity totals per stream.
func (r *MonitoringRepository) StreamStats(ctx context.Context) ([]models.StreamStats, error) {
	const query = `SELECT s.id AS stream_id, s.stream_name, s.stream_code,
(SELECT COUNT(*) FROM modules m WHERE m.stream_id = s.id) AS modules,
(SELECT COUNT(DISTINCT ls.lecturer_id) FROM lecturer_streams ls WHERE ls.stream_id = s.id) AS lecturers,
(SELECT COUNT(*) FROM users u WHERE u.role = 'student' AND u.primary_stream_id = s.id) AS students,
(SELECT COUNT(*) FROM reports r JOIN modules m ON m.id = r.module_id WHERE m.stream_id = s.id) AS reports
FROM streams s
ORDER BY s.stream_code`
	var stats []models.StreamStats
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("stream stats: %w", err)
	}
	return stats, nil
}

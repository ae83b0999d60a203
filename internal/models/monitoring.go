package models

import "time"

// DashboardCounts is the PL overview of the portal.
type DashboardCounts struct {
	Streams        int `db:"streams" json:"streams"`
	Modules        int `db:"modules" json:"modules"`
	Lecturers      int `db:"lecturers" json:"lecturers"`
	PRLs           int `db:"prls" json:"prls"`
	Students       int `db:"students" json:"students"`
	TotalReports   int `db:"total_reports" json:"total_reports"`
	PendingReports int `db:"pending_reports" json:"pending_reports"`
}

// RecentReport is a compact entry of the activity feed.
type RecentReport struct {
	ID              string       `db:"id" json:"id"`
	ModuleCode      string       `db:"module_code" json:"module_code"`
	ModuleName      string       `db:"module_name" json:"module_name"`
	LecturerName    string       `db:"lecturer_name" json:"lecturer_name"`
	WeekOfReporting int          `db:"week_of_reporting" json:"week_of_reporting"`
	Status          ReportStatus `db:"status" json:"status"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
}

// RecentActivity bundles the latest reports and ratings.
type RecentActivity struct {
	Reports []RecentReport `json:"reports"`
	Ratings []RatingView   `json:"ratings"`
}

// StreamStats summarises activity per stream.
type StreamStats struct {
	StreamID   string `db:"stream_id" json:"stream_id"`
	StreamName string `db:"stream_name" json:"stream_name"`
	StreamCode string `db:"stream_code" json:"stream_code"`
	Modules    int    `db:"modules" json:"modules"`
	Lecturers  int    `db:"lecturers" json:"lecturers"`
	Students   int    `db:"students" json:"students"`
	Reports    int    `db:"reports" json:"reports"`
}

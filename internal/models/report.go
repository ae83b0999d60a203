package models

import "time"

// ReportStatus captures the review stage of a lecturer report.
type ReportStatus string

const (
	ReportStatusPending       ReportStatus = "pending"
	ReportStatusReviewedByPRL ReportStatus = "reviewed_by_prl"
	ReportStatusApproved      ReportStatus = "approved"
)

// Valid reports whether s is a known report status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusReviewedByPRL, ReportStatusApproved:
		return true
	default:
		return false
	}
}

// Report is a weekly teaching report submitted by a lecturer.
type Report struct {
	ID                    string       `db:"id" json:"id"`
	ModuleID              string       `db:"module_id" json:"module_id"`
	LecturerID            string       `db:"lecturer_id" json:"lecturer_id"`
	WeekOfReporting       int          `db:"week_of_reporting" json:"week_of_reporting"`
	DateOfLecture         time.Time    `db:"date_of_lecture" json:"date_of_lecture"`
	ActualStudentsPresent int          `db:"actual_students_present" json:"actual_students_present"`
	Venue                 string       `db:"venue" json:"venue"`
	ScheduledTime         string       `db:"scheduled_time" json:"scheduled_time"`
	TopicTaught           string       `db:"topic_taught" json:"topic_taught"`
	LearningOutcomes      string       `db:"learning_outcomes" json:"learning_outcomes"`
	Recommendations       string       `db:"recommendations" json:"recommendations"`
	PRLID                 *string      `db:"prl_id" json:"prl_id,omitempty"`
	Status                ReportStatus `db:"status" json:"status"`
	PRLFeedback           *string      `db:"prl_feedback" json:"prl_feedback,omitempty"`
	PLFeedback            *string      `db:"pl_feedback" json:"pl_feedback,omitempty"`
	ReviewedAt            *time.Time   `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ApprovedAt            *time.Time   `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt             time.Time    `db:"created_at" json:"created_at"`
}

// ReportDetail is a report joined with its module, stream and people.
type ReportDetail struct {
	Report
	ModuleName   string `db:"module_name" json:"module_name"`
	ModuleCode   string `db:"module_code" json:"module_code"`
	ClassName    string `db:"class_name" json:"class_name"`
	StreamID     string `db:"stream_id" json:"stream_id"`
	StreamName   string `db:"stream_name" json:"stream_name"`
	StreamCode   string `db:"stream_code" json:"stream_code"`
	LecturerName string `db:"lecturer_name" json:"lecturer_name"`
	PRLName      string `db:"prl_name" json:"prl_name"`
}

// ReportFeedbackUpdate describes a review transition applied to a report.
type ReportFeedbackUpdate struct {
	ReportID string
	Status   ReportStatus
	Feedback string
	At       time.Time
}

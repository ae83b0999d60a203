package dto

// SubmitReportRequest is the lecturer's weekly report form.
type SubmitReportRequest struct {
	StreamID              string `json:"stream_id"`
	ModuleID              string `json:"module_id"`
	WeekOfReporting       int    `json:"week_of_reporting" validate:"gte=0"`
	DateOfLecture         string `json:"date_of_lecture" validate:"omitempty,datetime=2006-01-02"`
	ActualStudentsPresent int    `json:"actual_students_present" validate:"gte=0"`
	Venue                 string `json:"venue"`
	ScheduledTime         string `json:"scheduled_time"`
	TopicTaught           string `json:"topic_taught"`
	LearningOutcomes      string `json:"learning_outcomes"`
	Recommendations       string `json:"recommendations"`
}

// PRLFeedbackRequest carries the PRL review comment.
type PRLFeedbackRequest struct {
	PRLFeedback string `json:"prl_feedback"`
}

// PLFeedbackRequest carries the PL approval comment.
type PLFeedbackRequest struct {
	PLFeedback string `json:"pl_feedback"`
}

// ExportReportsQuery selects the export format for GET /pl/reports/export.
type ExportReportsQuery struct {
	Format string `form:"format"`
}

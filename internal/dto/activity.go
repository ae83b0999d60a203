package dto

// MarkAttendanceRequest records a student's presence for one lecture.
type MarkAttendanceRequest struct {
	ModuleID    string `json:"module_id" validate:"required"`
	LecturerID  string `json:"lecturer_id"`
	LectureDate string `json:"lecture_date" validate:"required,datetime=2006-01-02"`
	Status      string `json:"status"`
}

// SubmitComplaintRequest files a complaint against a module or lecturer.
type SubmitComplaintRequest struct {
	ModuleID      string `json:"module_id" validate:"required"`
	LecturerID    string `json:"lecturer_id"`
	ComplaintType string `json:"complaint_type" validate:"required"`
	Description   string `json:"description" validate:"required"`
}

package dto

// CreateModuleRequest is the PL form for adding a module.
type CreateModuleRequest struct {
	ModuleName string `json:"module_name" validate:"required"`
	ModuleCode string `json:"module_code" validate:"required"`
	ClassName  string `json:"class_name"`
	StreamID   string `json:"stream_id" validate:"required"`
	LecturerID string `json:"lecturer_id"`
}

// AssignLecturerRequest assigns a lecturer to a module.
type AssignLecturerRequest struct {
	LecturerID string `json:"lecturer_id" validate:"required"`
}

// EnrollStudentRequest adds a student to a module by student number.
type EnrollStudentRequest struct {
	StudentNumber string `json:"student_number" validate:"required"`
}

// UnreadCountResponse is returned by GET /notifications/unread-count.
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

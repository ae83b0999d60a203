package models

import "time"

// ComplaintStatusPending is the initial state of every complaint.
const ComplaintStatusPending = "pending"

// Complaint is a student grievance about a module or lecturer.
type Complaint struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	ModuleID      string    `db:"module_id" json:"module_id"`
	LecturerID    *string   `db:"lecturer_id" json:"lecturer_id,omitempty"`
	ComplaintType string    `db:"complaint_type" json:"complaint_type"`
	Description   string    `db:"description" json:"description"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ComplaintView joins a complaint with module and lecturer names.
type ComplaintView struct {
	Complaint
	ModuleName   string  `db:"module_name" json:"module_name"`
	ModuleCode   string  `db:"module_code" json:"module_code"`
	LecturerName *string `db:"lecturer_name" json:"lecturer_name,omitempty"`
}

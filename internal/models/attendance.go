package models

import "time"

// AttendanceStatus is the presence state a student reports for a lecture.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// Attendance is one student's presence record for a module on a date.
type Attendance struct {
	ID          string           `db:"id" json:"id"`
	StudentID   string           `db:"student_id" json:"student_id"`
	ModuleID    string           `db:"module_id" json:"module_id"`
	LecturerID  *string          `db:"lecturer_id" json:"lecturer_id,omitempty"`
	LectureDate time.Time        `db:"lecture_date" json:"lecture_date"`
	Status      AttendanceStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// AttendanceView joins attendance with module and people names.
type AttendanceView struct {
	Attendance
	ModuleName    string  `db:"module_name" json:"module_name"`
	ModuleCode    string  `db:"module_code" json:"module_code"`
	StudentName   string  `db:"student_name" json:"student_name,omitempty"`
	StudentNumber *string `db:"student_number" json:"student_number,omitempty"`
	LecturerName  *string `db:"lecturer_name" json:"lecturer_name,omitempty"`
}

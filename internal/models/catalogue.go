package models

import "time"

// Stream is a faculty programme grouping modules and staff.
type Stream struct {
	ID         string `db:"id" json:"id"`
	StreamName string `db:"stream_name" json:"stream_name"`
	StreamCode string `db:"stream_code" json:"stream_code"`
}

// Module is a taught course within a stream.
type Module struct {
	ID         string    `db:"id" json:"id"`
	ModuleCode string    `db:"module_code" json:"module_code"`
	ModuleName string    `db:"module_name" json:"module_name"`
	ClassName  string    `db:"class_name" json:"class_name"`
	StreamID   string    `db:"stream_id" json:"stream_id"`
	LecturerID *string   `db:"lecturer_id" json:"lecturer_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ModuleView joins a module with its stream and lecturer.
type ModuleView struct {
	Module
	StreamName   string `db:"stream_name" json:"stream_name"`
	StreamCode   string `db:"stream_code" json:"stream_code"`
	LecturerName string `db:"lecturer_name" json:"lecturer_name"`
}

// ModuleLabel is the short description used in notification messages.
type ModuleLabel struct {
	ModuleCode string `db:"module_code"`
	ModuleName string `db:"module_name"`
	StreamID   string `db:"stream_id"`
}

// StreamLecturer is a lecturer teaching in a student's stream with the modules they hold.
type StreamLecturer struct {
	ID        string  `db:"id" json:"id"`
	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	Email     *string `db:"email" json:"email,omitempty"`
	Modules   *string `db:"modules" json:"modules,omitempty"`
}

package models

import (
	"strings"
	"time"
)

// User represents any portal actor stored in the users table.
type User struct {
	ID              string    `db:"id" json:"id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	Username        string    `db:"username" json:"username"`
	Email           *string   `db:"email" json:"email,omitempty"`
	StudentNumber   *string   `db:"student_number" json:"student_number,omitempty"`
	Role            Role      `db:"role" json:"role"`
	PrimaryStreamID *string   `db:"primary_stream_id" json:"primary_stream_id,omitempty"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// StaffMember is a directory entry for lecturers and PRLs.
type StaffMember struct {
	ID              string  `db:"id" json:"id"`
	FirstName       string  `db:"first_name" json:"first_name"`
	LastName        string  `db:"last_name" json:"last_name"`
	Email           *string `db:"email" json:"email,omitempty"`
	PrimaryStreamID *string `db:"primary_stream_id" json:"primary_stream_id,omitempty"`
	StreamName      *string `db:"stream_name" json:"stream_name,omitempty"`
	StreamCode      *string `db:"stream_code" json:"stream_code,omitempty"`
}

// StudentSummary is the roster view of an enrolled student.
type StudentSummary struct {
	ID            string  `db:"id" json:"id"`
	FirstName     string  `db:"first_name" json:"first_name"`
	LastName      string  `db:"last_name" json:"last_name"`
	StudentNumber *string `db:"student_number" json:"student_number,omitempty"`
}

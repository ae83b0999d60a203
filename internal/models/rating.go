package models

import "time"

// RatingType names the direction of a rating between roles.
type RatingType string

const (
	RatingStudentToLecturer RatingType = "student_to_lecturer"
	RatingLecturerToPRL     RatingType = "lecturer_to_prl"
	RatingPRLToLecturer     RatingType = "prl_to_lecturer"
	RatingPLToPRL           RatingType = "pl_to_prl"
)

// Valid reports whether t is a known rating direction.
func (t RatingType) Valid() bool {
	switch t {
	case RatingStudentToLecturer, RatingLecturerToPRL, RatingPRLToLecturer, RatingPLToPRL:
		return true
	default:
		return false
	}
}

// Rating is a score one user gives another.
type Rating struct {
	ID         string     `db:"id" json:"id"`
	RaterID    string     `db:"rater_id" json:"rater_id"`
	RateeID    string     `db:"ratee_id" json:"ratee_id"`
	RatingType RatingType `db:"rating_type" json:"rating_type"`
	Score      int        `db:"score" json:"score"`
	Comments   string     `db:"comments" json:"comments"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// RatingView is a rating joined with rater and ratee details.
type RatingView struct {
	Rating
	RaterName string `db:"rater_name" json:"rater_name"`
	RaterRole Role   `db:"rater_role" json:"rater_role"`
	RateeName string `db:"ratee_name" json:"ratee_name"`
	RateeRole Role   `db:"ratee_role" json:"ratee_role"`
}

// RatingSummary aggregates the ratings received by one user.
type RatingSummary struct {
	AvgRating    float64      `json:"avg_rating"`
	TotalRatings int          `json:"total_ratings"`
	Ratings      []RatingView `json:"ratings"`
}

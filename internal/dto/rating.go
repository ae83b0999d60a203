package dto

import "github.com/noah-isme/luct-reporting-api/internal/models"

// SubmitRatingRequest is the generic rating payload.
type SubmitRatingRequest struct {
	RateeID    string            `json:"ratee_id"`
	Score      int               `json:"score"`
	Comments   string            `json:"comments"`
	RatingType models.RatingType `json:"rating_type"`
}

// RatePRLRequest is used by lecturers and PLs rating a PRL.
type RatePRLRequest struct {
	PRLID    string `json:"prl_id"`
	Score    int    `json:"score"`
	Comments string `json:"comments"`
}

// RateLecturerRequest is used by PRLs rating a lecturer.
type RateLecturerRequest struct {
	LecturerID string `json:"lecturer_id"`
	Score      int    `json:"score"`
	Comments   string `json:"comments"`
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	"github.com/noah-isme/luct-reporting-api/pkg/response"
)

type ratingReader interface {
	ratingSubmitter
	Summary(ctx context.Context, rateeID string) (*models.RatingSummary, error)
	ListGiven(ctx context.Context, raterID string) ([]models.RatingView, error)
}

type reportReader interface {
	Get(ctx context.Context, reportID string) (*models.ReportDetail, error)
}

type activityMonitor interface {
	Recent(ctx context.Context) (*models.RecentActivity, error)
	StreamStats(ctx context.Context) ([]models.StreamStats, error)
}

// ReportingHandler exposes the cross-role rating and monitoring endpoints.
type ReportingHandler struct {
	ratings    ratingReader
	reports    reportReader
	monitoring activityMonitor
}

// NewReportingHandler constructs the handler.
func NewReportingHandler(ratings ratingReader, reports reportReader, monitoring activityMonitor) *ReportingHandler {
	return &ReportingHandler{ratings: ratings, reports: reports, monitoring: monitoring}
}

// SubmitRating godoc
// @Summary Submit a rating
// @Description rating_type defaults to student_to_lecturer
// @Tags Reporting
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SubmitRatingRequest true "Rating"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reporting/ratings [post]
func (h *ReportingHandler) SubmitRating(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	var req dto.SubmitRatingRequest
	if !bindJSON(c, &req, "invalid rating payload") {
		return
	}
	if _, err := h.ratings.Submit(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Rating submitted successfully")
}

// UserRatings godoc
// @Summary Ratings received by a user
// @Tags Reporting
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /reporting/ratings/{userId} [get]
func (h *ReportingHandler) UserRatings(c *gin.Context) {
	summary, err := h.ratings.Summary(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, summary)
}

// MyRatings godoc
// @Summary Ratings the caller has given
// @Tags Reporting
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /reporting/my-ratings [get]
func (h *ReportingHandler) MyRatings(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	ratings, err := h.ratings.ListGiven(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, ratings)
}

// Report godoc
// @Summary Report detail
// @Tags Reporting
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reporting/reports/{id} [get]
func (h *ReportingHandler) Report(c *gin.Context) {
	report, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, report)
}

// Recent godoc
// @Summary Latest reports and ratings
// @Tags Reporting
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /reporting/monitoring/recent [get]
func (h *ReportingHandler) Recent(c *gin.Context) {
	activity, err := h.monitoring.Recent(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, activity)
}

// StreamStats godoc
// @Summary Per-stream totals
// @Tags Reporting
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /reporting/monitoring/streams [get]
func (h *ReportingHandler) StreamStats(c *gin.Context) {
	stats, err := h.monitoring.StreamStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, stats)
}

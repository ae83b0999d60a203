package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	"github.com/noah-isme/luct-reporting-api/pkg/response"
)

type prlReports interface {
	ListForPRL(ctx context.Context, prlID string) ([]models.ReportDetail, error)
	AddPRLFeedback(ctx context.Context, reportID, feedback string) error
}

type prlCatalogue interface {
	PRLModules(ctx context.Context, prlID string) ([]models.ModuleView, error)
	PRLLecturers(ctx context.Context, prlID string) ([]models.StaffMember, error)
	PRLStream(ctx context.Context, prlID string) (*models.Stream, error)
}

// PRLHandler serves the principal lecturer workspace.
type PRLHandler struct {
	reports   prlReports
	catalogue prlCatalogue
	ratings   ratingSubmitter
}

// NewPRLHandler constructs the handler.
func NewPRLHandler(reports prlReports, catalogue prlCatalogue, ratings ratingSubmitter) *PRLHandler {
	return &PRLHandler{reports: reports, catalogue: catalogue, ratings: ratings}
}

// Courses godoc
// @Summary Modules in the PRL's stream
// @Tags PRL
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /prl/courses [get]
func (h *PRLHandler) Courses(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	modules, err := h.catalogue.PRLModules(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, modules)
}

// Reports godoc
// @Summary Reports awaiting the PRL's review
// @Tags PRL
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /prl/reports [get]
func (h *PRLHandler) Reports(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	reports, err := h.reports.ListForPRL(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, reports)
}

// Feedback godoc
// @Summary Review a report
// @Description Records PRL feedback and moves the report to reviewed_by_prl
// @Tags PRL
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param payload body dto.PRLFeedbackRequest true "Feedback"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /prl/reports/{id}/feedback [put]
func (h *PRLHandler) Feedback(c *gin.Context) {
	var req dto.PRLFeedbackRequest
	if !bindJSON(c, &req, "invalid feedback payload") {
		return
	}
	if err := h.reports.AddPRLFeedback(c.Request.Context(), c.Param("id"), req.PRLFeedback); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Feedback added successfully")
}

// Lecturers godoc
// @Summary Lecturers in the PRL's stream
// @Tags PRL
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /prl/lecturers [get]
func (h *PRLHandler) Lecturers(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	lecturers, err := h.catalogue.PRLLecturers(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, lecturers)
}

// Stream godoc
// @Summary The stream the PRL supervises
// @Tags PRL
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /prl/stream [get]
func (h *PRLHandler) Stream(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	stream, err := h.catalogue.PRLStream(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, stream)
}

// RateLecturer godoc
// @Summary Rate a lecturer
// @Tags PRL
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.RateLecturerRequest true "Rating"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /prl/rate-lecturer [post]
func (h *PRLHandler) RateLecturer(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	var req dto.RateLecturerRequest
	if !bindJSON(c, &req, "invalid rating payload") {
		return
	}
	_, err := h.ratings.Submit(c.Request.Context(), claims.UserID, dto.SubmitRatingRequest{
		RateeID:    req.LecturerID,
		Score:      req.Score,
		Comments:   req.Comments,
		RatingType: models.RatingPRLToLecturer,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Rating submitted successfully")
}

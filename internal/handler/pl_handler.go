package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/middleware"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	"github.com/noah-isme/luct-reporting-api/internal/service"
	"github.com/noah-isme/luct-reporting-api/pkg/response"
)

type plReports interface {
	ListAll(ctx context.Context) ([]models.ReportDetail, error)
	AddPLFeedback(ctx context.Context, reportID, feedback string) error
}

type plCatalogue interface {
	ListModules(ctx context.Context) ([]models.ModuleView, error)
	CreateModule(ctx context.Context, req dto.CreateModuleRequest) (*models.Module, error)
	AssignLecturer(ctx context.Context, moduleID string, req dto.AssignLecturerRequest) error
	ListLecturers(ctx context.Context) ([]models.StaffMember, error)
	ListPRLs(ctx context.Context) ([]models.StaffMember, error)
	ListStreams(ctx context.Context) ([]models.Stream, error)
}

type ratingDirectory interface {
	ratingSubmitter
	ListAll(ctx context.Context) ([]models.RatingView, error)
}

type dashboardService interface {
	Dashboard(ctx context.Context) (*models.DashboardCounts, bool, error)
}

type reportExporter interface {
	ExportReports(ctx context.Context, format string) (*service.ExportFile, error)
}

// PLHandler serves the programme leader workspace.
type PLHandler struct {
	reports   plReports
	catalogue plCatalogue
	ratings   ratingDirectory
	dashboard dashboardService
	exporter  reportExporter
}

// PLHandlerParams groups constructor dependencies.
type PLHandlerParams struct {
	Reports   plReports
	Catalogue plCatalogue
	Ratings   ratingDirectory
	Dashboard dashboardService
	Exporter  reportExporter
}

// NewPLHandler constructs the handler.
func NewPLHandler(params PLHandlerParams) *PLHandler {
	return &PLHandler{
		reports:   params.Reports,
		catalogue: params.Catalogue,
		ratings:   params.Ratings,
		dashboard: params.Dashboard,
		exporter:  params.Exporter,
	}
}

// Courses godoc
// @Summary List every module
// @Tags PL
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /pl/courses [get]
func (h *PLHandler) Courses(c *gin.Context) {
	modules, err := h.catalogue.ListModules(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, modules)
}

// CreateCourse godoc
// @Summary Add a module
// @Tags PL
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateModuleRequest true "Module"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /pl/courses [post]
func (h *PLHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateModuleRequest
	if !bindJSON(c, &req, "invalid module payload") {
		return
	}
	if _, err := h.catalogue.CreateModule(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Course added successfully")
}

// AssignLecturer godoc
// @Summary Assign a lecturer to a module
// @Tags PL
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Param payload body dto.AssignLecturerRequest true "Lecturer"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pl/courses/{id}/assign-lecturer [put]
func (h *PLHandler) AssignLecturer(c *gin.Context) {
	var req dto.AssignLecturerRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	if err := h.catalogue.AssignLecturer(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Lecturer assigned successfully")
}

// Reports godoc
// @Summary Every report with lecturer and PRL names
// @Tags PL
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /pl/reports [get]
func (h *PLHandler) Reports(c *gin.Context) {
	reports, err := h.reports.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, reports)
}

// ExportReports godoc
// @Summary Download every report
// @Tags PL
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /pl/reports/export [get]
func (h *PLHandler) ExportReports(c *gin.Context) {
	var query dto.ExportReportsQuery
	_ = c.ShouldBindQuery(&query)
	file, err := h.exporter.ExportReports(c.Request.Context(), query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Feedback godoc
// @Summary Approve a report
// @Description Records PL feedback and marks the report approved
// @Tags PL
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param payload body dto.PLFeedbackRequest true "Feedback"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pl/reports/{id}/feedback [put]
func (h *PLHandler) Feedback(c *gin.Context) {
	var req dto.PLFeedbackRequest
	if !bindJSON(c, &req, "invalid feedback payload") {
		return
	}
	if err := h.reports.AddPLFeedback(c.Request.Context(), c.Param("id"), req.PLFeedback); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Feedback added successfully")
}

// Lecturers godoc
// @Summary Lecturer directory
// @Tags PL
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /pl/lecturers [get]
func (h *PLHandler) Lecturers(c *gin.Context) {
	lecturers, err := h.catalogue.ListLecturers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, lecturers)
}

// PRLs godoc
// @Summary PRL directory
// @Tags PL
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /pl/prls [get]
func (h *PLHandler) PRLs(c *gin.Context) {
	prls, err := h.catalogue.ListPRLs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, prls)
}

// Streams godoc
// @Summary Stream list
// @Tags PL
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /pl/streams [get]
func (h *PLHandler) Streams(c *gin.Context) {
	streams, err := h.catalogue.ListStreams(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, streams)
}

// Dashboard godoc
// @Summary Portal totals
// @Tags PL
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /pl/dashboard [get]
func (h *PLHandler) Dashboard(c *gin.Context) {
	counts, cacheHit, err := h.dashboard.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, counts, middleware.ExtractMeta(c))
}

// AllRatings godoc
// @Summary Every rating with rater and ratee
// @Tags PL
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /pl/all-ratings [get]
func (h *PLHandler) AllRatings(c *gin.Context) {
	ratings, err := h.ratings.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, ratings)
}

// RatePRL godoc
// @Summary Rate a PRL
// @Tags PL
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.RatePRLRequest true "Rating"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /pl/rate-prl [post]
func (h *PLHandler) RatePRL(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	var req dto.RatePRLRequest
	if !bindJSON(c, &req, "invalid rating payload") {
		return
	}
	_, err := h.ratings.Submit(c.Request.Context(), claims.UserID, dto.SubmitRatingRequest{
		RateeID:    req.PRLID,
		Score:      req.Score,
		Comments:   req.Comments,
		RatingType: models.RatingPLToPRL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Rating submitted successfully")
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	"github.com/noah-isme/luct-reporting-api/pkg/response"
)

type reportSubmitter interface {
	Submit(ctx context.Context, lecturerID string, req dto.SubmitReportRequest) (*models.Report, error)
	ListForLecturer(ctx context.Context, lecturerID string) ([]models.ReportDetail, error)
}

type lecturerCatalogue interface {
	LecturerModules(ctx context.Context, lecturerID string) ([]models.ModuleView, error)
	LecturerStreams(ctx context.Context, lecturerID string) ([]models.Stream, error)
	LecturerStreamModules(ctx context.Context, lecturerID, streamID string) ([]models.ModuleView, error)
	LecturerPRLs(ctx context.Context, lecturerID string) ([]models.StaffMember, error)
}

type ratingSubmitter interface {
	Submit(ctx context.Context, raterID string, req dto.SubmitRatingRequest) (*models.Rating, error)
}

type rosterReader interface {
	ListStudents(ctx context.Context, moduleID string) ([]models.StudentSummary, error)
}

type lecturerAttendance interface {
	ListForLecturer(ctx context.Context, lecturerID string) ([]models.AttendanceView, error)
}

// LecturerHandler serves the lecturer workspace.
type LecturerHandler struct {
	reports    reportSubmitter
	catalogue  lecturerCatalogue
	ratings    ratingSubmitter
	roster     rosterReader
	attendance lecturerAttendance
}

// NewLecturerHandler constructs the handler.
func NewLecturerHandler(reports reportSubmitter, catalogue lecturerCatalogue, ratings ratingSubmitter, roster rosterReader, attendance lecturerAttendance) *LecturerHandler {
	return &LecturerHandler{reports: reports, catalogue: catalogue, ratings: ratings, roster: roster, attendance: attendance}
}

// Classes godoc
// @Summary Modules assigned to the lecturer
// @Tags Lecturer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /lecturer/classes [get]
func (h *LecturerHandler) Classes(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	modules, err := h.catalogue.LecturerModules(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, modules)
}

// Streams godoc
// @Summary Streams the lecturer teaches in
// @Tags Lecturer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /lecturer/streams [get]
func (h *LecturerHandler) Streams(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	streams, err := h.catalogue.LecturerStreams(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, streams)
}

// StreamModules godoc
// @Summary Lecturer modules within one stream
// @Tags Lecturer
// @Produce json
// @Security BearerAuth
// @Param streamId path string true "Stream ID"
// @Success 200 {object} response.Envelope
// @Router /lecturer/streams/{streamId}/modules [get]
func (h *LecturerHandler) StreamModules(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	modules, err := h.catalogue.LecturerStreamModules(c.Request.Context(), claims.UserID, c.Param("streamId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, modules)
}

// Reports godoc
// @Summary Reports submitted by the lecturer
// @Tags Lecturer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /lecturer/reports [get]
func (h *LecturerHandler) Reports(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	reports, err := h.reports.ListForLecturer(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, reports)
}

// SubmitReport godoc
// @Summary Submit a weekly lecture report
// @Description The report is routed to the PRL of the given stream
// @Tags Lecturer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SubmitReportRequest true "Report"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lecturer/reports [post]
func (h *LecturerHandler) SubmitReport(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	var req dto.SubmitReportRequest
	if !bindJSON(c, &req, "invalid report payload") {
		return
	}
	if _, err := h.reports.Submit(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Report submitted successfully to your PRL")
}

// ModuleStudents godoc
// @Summary Students enrolled in a module
// @Tags Lecturer
// @Produce json
// @Security BearerAuth
// @Param moduleId path string true "Module ID"
// @Success 200 {object} response.Envelope
// @Router /lecturer/modules/{moduleId}/students [get]
func (h *LecturerHandler) ModuleStudents(c *gin.Context) {
	students, err := h.roster.ListStudents(c.Request.Context(), c.Param("moduleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, students)
}

// Monitoring godoc
// @Summary Attendance marked on the lecturer's modules
// @Tags Lecturer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /lecturer/monitoring [get]
func (h *LecturerHandler) Monitoring(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	records, err := h.attendance.ListForLecturer(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, records)
}

// PRLs godoc
// @Summary PRLs of the lecturer's streams
// @Tags Lecturer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /lecturer/prls [get]
func (h *LecturerHandler) PRLs(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	prls, err := h.catalogue.LecturerPRLs(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, prls)
}

// RatePRL godoc
// @Summary Rate a PRL
// @Description Stored as lecturer_to_prl; the programme leader is notified
// @Tags Lecturer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.RatePRLRequest true "Rating"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lecturer/rate-prl [post]
func (h *LecturerHandler) RatePRL(c *gin.Context) {
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
		RatingType: models.RatingLecturerToPRL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Rating submitted successfully to Program Leader")
}

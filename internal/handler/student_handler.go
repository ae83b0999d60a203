package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	"github.com/noah-isme/luct-reporting-api/pkg/response"
)

type studentCatalogue interface {
	StudentModules(ctx context.Context, studentID string) ([]models.ModuleView, error)
	StudentStreamLecturers(ctx context.Context, studentID string) ([]models.StreamLecturer, error)
}

type attendanceService interface {
	Mark(ctx context.Context, studentID string, req dto.MarkAttendanceRequest) (*models.Attendance, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.AttendanceView, error)
}

type complaintService interface {
	Submit(ctx context.Context, studentID string, req dto.SubmitComplaintRequest) (*models.Complaint, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.ComplaintView, error)
}

// StudentHandler serves the student workspace.
type StudentHandler struct {
	catalogue  studentCatalogue
	attendance attendanceService
	complaints complaintService
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(catalogue studentCatalogue, attendance attendanceService, complaints complaintService) *StudentHandler {
	return &StudentHandler{catalogue: catalogue, attendance: attendance, complaints: complaints}
}

// Modules godoc
// @Summary Modules the student is enrolled in
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/modules [get]
func (h *StudentHandler) Modules(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	modules, err := h.catalogue.StudentModules(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, modules)
}

// StreamLecturers godoc
// @Summary Lecturers teaching in the student's stream
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/stream-lecturers [get]
func (h *StudentHandler) StreamLecturers(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	lecturers, err := h.catalogue.StudentStreamLecturers(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, lecturers)
}

// Attendance godoc
// @Summary The student's attendance history
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/attendance [get]
func (h *StudentHandler) Attendance(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	records, err := h.attendance.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, records)
}

// MarkAttendance godoc
// @Summary Mark attendance for a lecture
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.MarkAttendanceRequest true "Attendance"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/attendance [post]
func (h *StudentHandler) MarkAttendance(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	var req dto.MarkAttendanceRequest
	if !bindJSON(c, &req, "invalid attendance payload") {
		return
	}
	if _, err := h.attendance.Mark(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Attendance marked successfully")
}

// Complaints godoc
// @Summary The student's complaints
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/complaints [get]
func (h *StudentHandler) Complaints(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	items, err := h.complaints.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, items)
}

// SubmitComplaint godoc
// @Summary File a complaint
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SubmitComplaintRequest true "Complaint"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/complaints [post]
func (h *StudentHandler) SubmitComplaint(c *gin.Context) {
	claims, authed := currentUser(c)
	if !authed {
		return
	}
	var req dto.SubmitComplaintRequest
	if !bindJSON(c, &req, "invalid complaint payload") {
		return
	}
	if _, err := h.complaints.Submit(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Complaint submitted successfully")
}

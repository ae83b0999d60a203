package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	"github.com/noah-isme/luct-reporting-api/pkg/response"
)

type enrollmentService interface {
	rosterReader
	Enroll(ctx context.Context, moduleID string, req dto.EnrollStudentRequest) (*models.StudentSummary, error)
	Remove(ctx context.Context, moduleID, studentID string) error
}

// ClassHandler manages module rosters for staff.
type ClassHandler struct {
	service enrollmentService
}

// NewClassHandler constructs the handler.
func NewClassHandler(svc enrollmentService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// Students godoc
// @Summary Module roster
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param moduleId path string true "Module ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{moduleId}/students [get]
func (h *ClassHandler) Students(c *gin.Context) {
	students, err := h.service.ListStudents(c.Request.Context(), c.Param("moduleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, students)
}

// Enroll godoc
// @Summary Add a student to a module by student number
// @Tags Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param moduleId path string true "Module ID"
// @Param payload body dto.EnrollStudentRequest true "Student"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /classes/{moduleId}/students [post]
func (h *ClassHandler) Enroll(c *gin.Context) {
	var req dto.EnrollStudentRequest
	if !bindJSON(c, &req, "invalid enrollment payload") {
		return
	}
	if _, err := h.service.Enroll(c.Request.Context(), c.Param("moduleId"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Student added successfully")
}

// Remove godoc
// @Summary Remove a student from a module
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param moduleId path string true "Module ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{moduleId}/students/{studentId} [delete]
func (h *ClassHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("moduleId"), c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Student removed successfully")
}

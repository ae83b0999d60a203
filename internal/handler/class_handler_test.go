package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

type enrollmentStub struct {
	rosterStub
	removed []string
}

func (s *enrollmentStub) Enroll(ctx context.Context, moduleID string, req dto.EnrollStudentRequest) (*models.StudentSummary, error) {
	if req.StudentNumber != "901234" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Student not found")
	}
	return &models.StudentSummary{ID: "ST1"}, nil
}

func (s *enrollmentStub) Remove(ctx context.Context, moduleID, studentID string) error {
	s.removed = append(s.removed, moduleID+"/"+studentID)
	return nil
}

func TestClassHandlerEnroll(t *testing.T) {
	h := NewClassHandler(&enrollmentStub{})

	c, w := newGinContext(http.MethodPost, "/classes/M1/students", `{"student_number":"901234"}`, lecturerClaims)
	c.AddParam("moduleId", "M1")
	h.Enroll(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Student added successfully", messageOf(t, w))

	c, w = newGinContext(http.MethodPost, "/classes/M1/students", `{"student_number":"000000"}`, lecturerClaims)
	c.AddParam("moduleId", "M1")
	h.Enroll(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Student not found", decode(t, w).Error["message"])
}

func TestClassHandlerRemove(t *testing.T) {
	svc := &enrollmentStub{}
	h := NewClassHandler(svc)

	c, w := newGinContext(http.MethodDelete, "/classes/M1/students/ST1", "", plClaims)
	c.AddParam("moduleId", "M1")
	c.AddParam("studentId", "ST1")
	h.Remove(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Student removed successfully", messageOf(t, w))
	assert.Equal(t, []string{"M1/ST1"}, svc.removed)
}

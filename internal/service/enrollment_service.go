package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

type enrollmentStore interface {
	ListStudents(ctx context.Context, moduleID string) ([]models.StudentSummary, error)
	IsEnrolled(ctx context.Context, exec sqlx.ExtContext, moduleID, studentID string) (bool, error)
	Enroll(ctx context.Context, exec sqlx.ExtContext, moduleID, studentID string) error
	Remove(ctx context.Context, moduleID, studentID string) error
}

type studentFinder interface {
	FindStudentByNumber(ctx context.Context, exec sqlx.ExtContext, studentNumber string) (*models.User, error)
}

// EnrollmentService manages module rosters.
type EnrollmentService struct {
	enrollments enrollmentStore
	students    studentFinder
	tx          txProvider
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(enrollments enrollmentStore, students studentFinder, tx txProvider, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{enrollments: enrollments, students: students, tx: tx, validator: validate, logger: logger}
}

// ListStudents returns the module roster.
func (s *EnrollmentService) ListStudents(ctx context.Context, moduleID string) ([]models.StudentSummary, error) {
	students, err := s.enrollments.ListStudents(ctx, moduleID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load students")
	}
	if students == nil {
		students = []models.StudentSummary{}
	}
	return students, nil
}

// Enroll adds the student with the given number to the module.
func (s *EnrollmentService) Enroll(ctx context.Context, moduleID string, req dto.EnrollStudentRequest) (*models.StudentSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "student number is required")
	}
	var enrolled *models.StudentSummary
	err := inTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		student, err := s.students.FindStudentByNumber(ctx, tx, req.StudentNumber)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, "Student not found")
			}
			return appErrors.Internal(err, "failed to find student")
		}
		already, err := s.enrollments.IsEnrolled(ctx, tx, moduleID, student.ID)
		if err != nil {
			return appErrors.Internal(err, "failed to check enrollment")
		}
		if already {
			return appErrors.Clone(appErrors.ErrDuplicate, "Student already enrolled in this module")
		}
		if err := s.enrollments.Enroll(ctx, tx, moduleID, student.ID); err != nil {
			return appErrors.Internal(err, "failed to enroll student")
		}
		enrolled = &models.StudentSummary{ID: student.ID, FirstName: student.FirstName, LastName: student.LastName, StudentNumber: student.StudentNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("student enrolled", zap.String("module_id", moduleID), zap.String("student_id", enrolled.ID))
	return enrolled, nil
}

// Remove drops a student from the module roster.
func (s *EnrollmentService) Remove(ctx context.Context, moduleID, studentID string) error {
	if err := s.enrollments.Remove(ctx, moduleID, studentID); err != nil {
		return appErrors.Internal(err, "failed to remove student")
	}
	return nil
}

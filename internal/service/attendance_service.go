package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	"github.com/noah-isme/luct-reporting-api/pkg/database"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

const duplicateAttendanceMessage = "Attendance already marked for this date"

type attendanceStore interface {
	Exists(ctx context.Context, exec sqlx.ExtContext, studentID, moduleID string, lectureDate time.Time) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, a *models.Attendance) error
	ListForStudent(ctx context.Context, studentID string) ([]models.AttendanceView, error)
	ListForLecturer(ctx context.Context, lecturerID string) ([]models.AttendanceView, error)
}

// AttendanceService records student attendance, one mark per module and lecture date.
type AttendanceService struct {
	attendance attendanceStore
	modules    moduleLabeler
	recipients *RecipientResolver
	notifier   Notifier
	tx         txProvider
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(attendance attendanceStore, modules moduleLabeler, recipients *RecipientResolver, notifier Notifier, tx txProvider, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{attendance: attendance, modules: modules, recipients: recipients, notifier: notifier, tx: tx, validator: validate, logger: logger}
}

// Mark stores the student's attendance and notifies the named lecturer.
func (s *AttendanceService) Mark(ctx context.Context, studentID string, req dto.MarkAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "module and lecture date are required")
	}
	lectureDate, err := time.Parse(dateLayout, req.LectureDate)
	if err != nil {
		return nil, appErrors.Validation(err, "lecture_date must be YYYY-MM-DD")
	}

	record := &models.Attendance{
		StudentID:   studentID,
		ModuleID:    strings.TrimSpace(req.ModuleID),
		LectureDate: lectureDate,
		Status:      models.AttendanceStatus(strings.ToLower(strings.TrimSpace(req.Status))),
	}
	if record.Status == "" {
		record.Status = models.AttendancePresent
	}
	if lecturer := strings.TrimSpace(req.LecturerID); lecturer != "" {
		record.LecturerID = &lecturer
	}

	err = inTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		exists, err := s.attendance.Exists(ctx, tx, studentID, record.ModuleID, lectureDate)
		if err != nil {
			return appErrors.Internal(err, "failed to check attendance")
		}
		if exists {
			return appErrors.Clone(appErrors.ErrDuplicate, duplicateAttendanceMessage)
		}
		if err := s.attendance.Create(ctx, tx, record); err != nil {
			if database.IsUniqueViolation(err) {
				return appErrors.Wrap(err, appErrors.ErrDuplicate.Code, appErrors.ErrDuplicate.Status, duplicateAttendanceMessage)
			}
			return appErrors.Internal(err, "failed to mark attendance")
		}
		if record.LecturerID == nil {
			return nil
		}

		student, err := s.recipients.User(ctx, tx, studentID)
		if err != nil {
			return err
		}
		label, err := s.modules.Label(ctx, tx, record.ModuleID)
		if err != nil {
			return appErrors.Internal(err, "failed to load module")
		}
		return s.notifier.Notify(ctx, tx, &models.Notification{
			RecipientID: *record.LecturerID,
			SenderID:    &studentID,
			Type:        models.NotificationAttendance,
			Title:       "New Attendance Marked",
			Message:     fmt.Sprintf("%s marked %s for %s - %s on %s", student.FullName(), record.Status, label.ModuleCode, label.ModuleName, req.LectureDate),
			RelatedID:   &record.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	if record.LecturerID != nil {
		s.notifier.Flush(ctx, *record.LecturerID)
	}
	return record, nil
}

// ListForStudent returns the student's attendance history.
func (s *AttendanceService) ListForStudent(ctx context.Context, studentID string) ([]models.AttendanceView, error) {
	return attendanceList(s.attendance.ListForStudent(ctx, studentID))
}

// ListForLecturer returns attendance on the lecturer's modules.
func (s *AttendanceService) ListForLecturer(ctx context.Context, lecturerID string) ([]models.AttendanceView, error) {
	return attendanceList(s.attendance.ListForLecturer(ctx, lecturerID))
}

func attendanceList(items []models.AttendanceView, err error) ([]models.AttendanceView, error) {
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance")
	}
	if items == nil {
		items = []models.AttendanceView{}
	}
	return items, nil
}

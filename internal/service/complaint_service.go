package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

type complaintStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, c *models.Complaint) error
	ListForStudent(ctx context.Context, studentID string) ([]models.ComplaintView, error)
}

// ComplaintService files student complaints and alerts the stream PRL.
type ComplaintService struct {
	complaints complaintStore
	modules    moduleLabeler
	recipients *RecipientResolver
	notifier   Notifier
	tx         txProvider
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewComplaintService constructs the service.
func NewComplaintService(complaints complaintStore, modules moduleLabeler, recipients *RecipientResolver, notifier Notifier, tx txProvider, validate *validator.Validate, logger *zap.Logger) *ComplaintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ComplaintService{complaints: complaints, modules: modules, recipients: recipients, notifier: notifier, tx: tx, validator: validate, logger: logger}
}

// Submit stores a pending complaint and notifies the PRL of the student's stream.
func (s *ComplaintService) Submit(ctx context.Context, studentID string, req dto.SubmitComplaintRequest) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "module, complaint type and description are required")
	}
	complaint := &models.Complaint{
		StudentID:     studentID,
		ModuleID:      strings.TrimSpace(req.ModuleID),
		ComplaintType: strings.TrimSpace(req.ComplaintType),
		Description:   strings.TrimSpace(req.Description),
		Status:        models.ComplaintStatusPending,
	}
	if lecturer := strings.TrimSpace(req.LecturerID); lecturer != "" {
		complaint.LecturerID = &lecturer
	}

	var recipient string
	err := inTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.complaints.Create(ctx, tx, complaint); err != nil {
			return appErrors.Internal(err, "failed to submit complaint")
		}
		student, err := s.recipients.User(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if student.PrimaryStreamID == nil {
			return nil
		}
		prlID, err := s.recipients.PRLForStream(ctx, tx, *student.PrimaryStreamID)
		if err != nil || prlID == nil {
			return err
		}
		label, err := s.modules.Label(ctx, tx, complaint.ModuleID)
		if err != nil {
			return appErrors.Internal(err, "failed to load module")
		}
		recipient = *prlID
		return s.notifier.Notify(ctx, tx, &models.Notification{
			RecipientID: recipient,
			SenderID:    &studentID,
			Type:        models.NotificationComplaint,
			Title:       "New Lecturer Complaint",
			Message:     fmt.Sprintf("%s filed a %s complaint for %s - %s", student.FullName(), complaint.ComplaintType, label.ModuleCode, label.ModuleName),
			RelatedID:   &complaint.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	if recipient != "" {
		s.notifier.Flush(ctx, recipient)
	}
	s.logger.Info("complaint filed", zap.String("complaint_id", complaint.ID), zap.Bool("notified", recipient != ""))
	return complaint, nil
}

// ListForStudent returns the student's complaints.
func (s *ComplaintService) ListForStudent(ctx context.Context, studentID string) ([]models.ComplaintView, error) {
	items, err := s.complaints.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load complaints")
	}
	if items == nil {
		items = []models.ComplaintView{}
	}
	return items, nil
}

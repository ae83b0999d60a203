package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type reportStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, report *models.Report) error
	SetPRLFeedback(ctx context.Context, update models.ReportFeedbackUpdate) error
	SetPLFeedback(ctx context.Context, update models.ReportFeedbackUpdate) error
	FindDetail(ctx context.Context, id string) (*models.ReportDetail, error)
	ListByLecturer(ctx context.Context, lecturerID string) ([]models.ReportDetail, error)
	ListByStream(ctx context.Context, streamID string) ([]models.ReportDetail, error)
	ListAll(ctx context.Context) ([]models.ReportDetail, error)
}

type moduleLabeler interface {
	Label(ctx context.Context, exec sqlx.ExtContext, id string) (*models.ModuleLabel, error)
}

// ReportServiceParams groups constructor dependencies.
type ReportServiceParams struct {
	Reports    reportStore
	Modules    moduleLabeler
	Recipients *RecipientResolver
	Notifier   Notifier
	Tx         txProvider
	Cache      *CacheService
	Metrics    *MetricsService
	Validator  *validator.Validate
	Logger     *zap.Logger
}

// ReportService drives the pending -> reviewed_by_prl -> approved workflow.
type ReportService struct {
	reports    reportStore
	modules    moduleLabeler
	recipients *RecipientResolver
	notifier   Notifier
	tx         txProvider
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService constructs the service.
func NewReportService(params ReportServiceParams) *ReportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &ReportService{
		reports:    params.Reports,
		modules:    params.Modules,
		recipients: params.Recipients,
		notifier:   params.Notifier,
		tx:         params.Tx,
		cache:      params.Cache,
		metrics:    params.Metrics,
		validator:  validate,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit stores a pending report routed to the PRL of the given stream and notifies that PRL.
func (s *ReportService) Submit(ctx context.Context, lecturerID string, req dto.SubmitReportRequest) (*models.Report, error) {
	streamID := strings.TrimSpace(req.StreamID)
	moduleID := strings.TrimSpace(req.ModuleID)
	if streamID == "" || moduleID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "stream and module are required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid report payload")
	}

	lectureDate := s.now().UTC().Truncate(24 * time.Hour)
	if req.DateOfLecture != "" {
		parsed, err := time.Parse(dateLayout, req.DateOfLecture)
		if err != nil {
			return nil, appErrors.Validation(err, "date_of_lecture must be YYYY-MM-DD")
		}
		lectureDate = parsed
	}

	report := &models.Report{
		ModuleID:              moduleID,
		LecturerID:            lecturerID,
		WeekOfReporting:       req.WeekOfReporting,
		DateOfLecture:         lectureDate,
		ActualStudentsPresent: req.ActualStudentsPresent,
		Venue:                 req.Venue,
		ScheduledTime:         req.ScheduledTime,
		TopicTaught:           req.TopicTaught,
		LearningOutcomes:      req.LearningOutcomes,
		Recommendations:       req.Recommendations,
		Status:                models.ReportStatusPending,
	}

	err := inTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		prlID, err := s.recipients.PRLForStream(ctx, tx, streamID)
		if err != nil {
			return err
		}
		report.PRLID = prlID

		if err := s.reports.Create(ctx, tx, report); err != nil {
			return appErrors.Internal(err, "failed to submit report")
		}
		if prlID == nil {
			return nil
		}

		lecturer, err := s.recipients.User(ctx, tx, lecturerID)
		if err != nil {
			return err
		}
		label, err := s.modules.Label(ctx, tx, moduleID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "module not found")
			}
			return appErrors.Internal(err, "failed to load module")
		}

		return s.notifier.Notify(ctx, tx, &models.Notification{
			RecipientID: *prlID,
			SenderID:    &lecturerID,
			Type:        models.NotificationReport,
			Title:       "New Lecturer Report",
			Message:     fmt.Sprintf("%s submitted a report for %s - %s - Week %d", lecturer.FullName(), label.ModuleCode, label.ModuleName, report.WeekOfReporting),
			RelatedID:   &report.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	if report.PRLID != nil {
		s.notifier.Flush(ctx, *report.PRLID)
	}
	s.evictDashboard(ctx)
	s.metrics.ReportSubmitted()
	s.logger.Info("report submitted",
		zap.String("report_id", report.ID),
		zap.String("lecturer_id", lecturerID),
		zap.Bool("routed", report.PRLID != nil))
	return report, nil
}

// AddPRLFeedback records the PRL review and moves the report to reviewed_by_prl.
// The lecturer is not notified.
func (s *ReportService) AddPRLFeedback(ctx context.Context, reportID, feedback string) error {
	return s.review(ctx, reportID, feedback, models.ReportStatusReviewedByPRL, s.reports.SetPRLFeedback)
}

// AddPLFeedback records the PL decision and marks the report approved. Approved reports may be overwritten.
func (s *ReportService) AddPLFeedback(ctx context.Context, reportID, feedback string) error {
	return s.review(ctx, reportID, feedback, models.ReportStatusApproved, s.reports.SetPLFeedback)
}

func (s *ReportService) review(ctx context.Context, reportID, feedback string, status models.ReportStatus, apply func(context.Context, models.ReportFeedbackUpdate) error) error {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return appErrors.Clone(appErrors.ErrValidation, "feedback is required")
	}
	err := apply(ctx, models.ReportFeedbackUpdate{
		ReportID: reportID,
		Status:   status,
		Feedback: feedback,
		At:       s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return appErrors.Internal(err, "failed to record feedback")
	}
	s.evictDashboard(ctx)
	s.metrics.ReportReviewed(status)
	s.logger.Info("report feedback recorded", zap.String("report_id", reportID), zap.String("status", string(status)))
	return nil
}

// ListForLecturer returns the lecturer's own reports.
func (s *ReportService) ListForLecturer(ctx context.Context, lecturerID string) ([]models.ReportDetail, error) {
	return reportList(s.reports.ListByLecturer(ctx, lecturerID))
}

// ListForPRL returns the reports of the PRL's primary stream.
func (s *ReportService) ListForPRL(ctx context.Context, prlID string) ([]models.ReportDetail, error) {
	prl, err := s.recipients.User(ctx, nil, prlID)
	if err != nil {
		return nil, err
	}
	if prl.PrimaryStreamID == nil || *prl.PrimaryStreamID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "PRL not assigned to a stream")
	}
	return reportList(s.reports.ListByStream(ctx, *prl.PrimaryStreamID))
}

// ListAll returns every report for the PL.
func (s *ReportService) ListAll(ctx context.Context) ([]models.ReportDetail, error) {
	return reportList(s.reports.ListAll(ctx))
}

// Get returns one report with its joined details.
func (s *ReportService) Get(ctx context.Context, reportID string) (*models.ReportDetail, error) {
	report, err := s.reports.FindDetail(ctx, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Internal(err, "failed to load report")
	}
	return report, nil
}

func (s *ReportService) evictDashboard(ctx context.Context) {
	if err := s.cache.Evict(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("failed to evict dashboard cache", zap.Error(err))
	}
}

func reportList(reports []models.ReportDetail, err error) ([]models.ReportDetail, error) {
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load reports")
	}
	if reports == nil {
		reports = []models.ReportDetail{}
	}
	return reports, nil
}

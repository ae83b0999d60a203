package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
	"github.com/noah-isme/luct-reporting-api/pkg/export"
)

type reportLister interface {
	ListAll(ctx context.Context) ([]models.ReportDetail, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

var reportExportHeaders = []string{
	"Week", "Date", "Stream", "Module Code", "Module", "Class", "Lecturer", "Venue", "Time",
	"Present", "Topic", "Status", "PRL", "PRL Feedback", "PL Feedback",
}

// ExportService renders report listings to downloadable files.
type ExportService struct {
	reports reportLister
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(reports reportLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{reports: reports, logger: logger, now: time.Now}
}

// ExportReports renders every report in the requested format. An empty format means csv.
func (s *ExportService) ExportReports(ctx context.Context, format string) (*ExportFile, error) {
	if strings.TrimSpace(format) == "" {
		format = "csv"
	}
	renderer, ok := export.ForFormat(format)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	reports, err := s.reports.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load reports")
	}

	body, err := renderer.Render(reportDataset(reports), "LUCT Lecturer Reports")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	s.logger.Info("reports exported", zap.String("format", renderer.Extension()), zap.Int("rows", len(reports)))
	return &ExportFile{
		Filename:    fmt.Sprintf("reports-%s.%s", s.now().UTC().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func reportDataset(reports []models.ReportDetail) export.Dataset {
	rows := make([]map[string]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, map[string]string{
			"Week":         strconv.Itoa(r.WeekOfReporting),
			"Date":         r.DateOfLecture.Format(dateLayout),
			"Stream":       r.StreamCode,
			"Module Code":  r.ModuleCode,
			"Module":       r.ModuleName,
			"Class":        r.ClassName,
			"Lecturer":     r.LecturerName,
			"Venue":        r.Venue,
			"Time":         r.ScheduledTime,
			"Present":      strconv.Itoa(r.ActualStudentsPresent),
			"Topic":        r.TopicTaught,
			"Status":       string(r.Status),
			"PRL":          r.PRLName,
			"PRL Feedback": deref(r.PRLFeedback),
			"PL Feedback":  deref(r.PLFeedback),
		})
	}
	return export.Dataset{Headers: reportExportHeaders, Rows: rows}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

type stubReportLister []models.ReportDetail

func (s stubReportLister) ListAll(ctx context.Context) ([]models.ReportDetail, error) {
	return s, nil
}

func sampleReports() stubReportLister {
	feedback := "Good session"
	return stubReportLister{{
		Report: models.Report{
			ID:                    "R1",
			WeekOfReporting:       5,
			DateOfLecture:         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			ActualStudentsPresent: 40,
			Venue:                 "Hall 6",
			ScheduledTime:         "08:30",
			TopicTaught:           "Inheritance, polymorphism",
			Status:                models.ReportStatusReviewedByPRL,
			PRLFeedback:           &feedback,
		},
		ModuleCode:   "BIMP2210",
		ModuleName:   "Object Oriented Programming",
		StreamCode:   "IT",
		LecturerName: "Lerato Mokoena",
		PRLName:      "Thabo Lebona",
	}}
}

func TestExportReportsCSV(t *testing.T) {
	svc := NewExportService(sampleReports(), nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }

	file, err := svc.ExportReports(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "reports-20250314.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	body := bytes.TrimPrefix(file.Body, []byte("\xef\xbb\xbf"))
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, reportExportHeaders, records[0])
	row := records[1]
	assert.Equal(t, "5", row[0])
	assert.Equal(t, "2025-03-10", row[1])
	assert.Equal(t, "Inheritance, polymorphism", row[10])
	assert.Equal(t, "reviewed_by_prl", row[11])
	assert.Equal(t, "Good session", row[13])
	assert.Equal(t, "", row[14])
}

func TestExportReportsPDF(t *testing.T) {
	svc := NewExportService(sampleReports(), nil)

	file, err := svc.ExportReports(context.Background(), "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestExportReportsRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(sampleReports(), nil)

	_, err := svc.ExportReports(context.Background(), "xlsx")
	requireAppError(t, err, appErrors.ErrValidation, "format must be csv or pdf")
}

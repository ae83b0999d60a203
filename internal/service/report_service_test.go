package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

// memoryReports keeps reports in memory and joins them against the fake directory.
type memoryReports struct {
	dir       *fakeDirectory
	labels    labelStub
	reports   map[string]*models.Report
	order     []string
	createErr error
}

func newMemoryReports(dir *fakeDirectory, labels labelStub) *memoryReports {
	return &memoryReports{dir: dir, labels: labels, reports: map[string]*models.Report{}}
}

func (m *memoryReports) Create(ctx context.Context, exec sqlx.ExtContext, report *models.Report) error {
	if m.createErr != nil {
		return m.createErr
	}
	if report.ID == "" {
		report.ID = "report-" + string(rune('a'+len(m.order)))
	}
	stored := *report
	m.reports[report.ID] = &stored
	m.order = append(m.order, report.ID)
	return nil
}

func (m *memoryReports) SetPRLFeedback(ctx context.Context, update models.ReportFeedbackUpdate) error {
	r, ok := m.reports[update.ReportID]
	if !ok {
		return sql.ErrNoRows
	}
	r.PRLFeedback = &update.Feedback
	r.Status = update.Status
	at := update.At
	r.ReviewedAt = &at
	return nil
}

func (m *memoryReports) SetPLFeedback(ctx context.Context, update models.ReportFeedbackUpdate) error {
	r, ok := m.reports[update.ReportID]
	if !ok {
		return sql.ErrNoRows
	}
	r.PLFeedback = &update.Feedback
	r.Status = update.Status
	at := update.At
	r.ApprovedAt = &at
	return nil
}

func (m *memoryReports) detail(r *models.Report) models.ReportDetail {
	d := models.ReportDetail{Report: *r, PRLName: "No PRL"}
	if label, ok := m.labels[r.ModuleID]; ok {
		d.ModuleCode, d.ModuleName, d.StreamID = label.ModuleCode, label.ModuleName, label.StreamID
	}
	if l, err := m.dir.FindByID(context.Background(), nil, r.LecturerID); err == nil {
		d.LecturerName = l.FullName()
	}
	if r.PRLID != nil {
		if p, err := m.dir.FindByID(context.Background(), nil, *r.PRLID); err == nil {
			d.PRLName = p.FullName()
		}
	}
	return d
}

func (m *memoryReports) FindDetail(ctx context.Context, id string) (*models.ReportDetail, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d := m.detail(r)
	return &d, nil
}

func (m *memoryReports) filter(keep func(models.ReportDetail) bool) []models.ReportDetail {
	var out []models.ReportDetail
	for i := len(m.order) - 1; i >= 0; i-- {
		d := m.detail(m.reports[m.order[i]])
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func (m *memoryReports) ListByLecturer(ctx context.Context, lecturerID string) ([]models.ReportDetail, error) {
	return m.filter(func(d models.ReportDetail) bool { return d.LecturerID == lecturerID }), nil
}

func (m *memoryReports) ListByStream(ctx context.Context, streamID string) ([]models.ReportDetail, error) {
	return m.filter(func(d models.ReportDetail) bool { return d.StreamID == streamID }), nil
}

func (m *memoryReports) ListAll(ctx context.Context) ([]models.ReportDetail, error) {
	return m.filter(func(models.ReportDetail) bool { return true }), nil
}

type reportFixture struct {
	svc      *ReportService
	dir      *fakeDirectory
	reports  *memoryReports
	notifier *recordingNotifier
}

func newReportFixture(t *testing.T, tx txProvider) reportFixture {
	t.Helper()
	dir := &fakeDirectory{}
	dir.add(lecturer("L1", "Lerato", "Mokoena", "S1"))
	dir.add(prl("P1", "Thabo", "Lebona", "S1"))
	dir.add(programmeLeader("PL1", "Mpho", "Sello"))
	dir.add(lecturer("L2", "Kamohelo", "Phiri", "S2"))
	labels := labelStub{
		"M1": {ModuleCode: "BIMP2210", ModuleName: "Object Oriented Programming", StreamID: "S1"},
		"M2": {ModuleCode: "BIDC2110", ModuleName: "Data Communication", StreamID: "S2"},
	}
	reports := newMemoryReports(dir, labels)
	notifier := &recordingNotifier{}
	svc := NewReportService(ReportServiceParams{
		Reports:    reports,
		Modules:    labels,
		Recipients: NewRecipientResolver(dir),
		Notifier:   notifier,
		Tx:         tx,
		Metrics:    NewMetricsService(),
	})
	return reportFixture{svc: svc, dir: dir, reports: reports, notifier: notifier}
}

func TestSubmitReportRequiresStreamAndModule(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	fx := newReportFixture(t, tx)

	_, err := fx.svc.Submit(context.Background(), "L1", dto.SubmitReportRequest{ModuleID: "M1"})
	requireAppError(t, err, appErrors.ErrValidation, "stream and module are required")

	_, err = fx.svc.Submit(context.Background(), "L1", dto.SubmitReportRequest{StreamID: "S1", ModuleID: "  "})
	requireAppError(t, err, appErrors.ErrValidation, "stream and module are required")

	assert.Empty(t, fx.reports.order)
	assert.Empty(t, fx.notifier.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitReportRoutesToStreamPRL(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	fx := newReportFixture(t, tx)
	mock.ExpectBegin()
	mock.ExpectCommit()

	report, err := fx.svc.Submit(context.Background(), "L1", dto.SubmitReportRequest{
		StreamID: "S1", ModuleID: "M1", WeekOfReporting: 5, DateOfLecture: "2025-03-10", ActualStudentsPresent: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, report.Status)
	require.NotNil(t, report.PRLID)
	assert.Equal(t, "P1", *report.PRLID)
	assert.Equal(t, "2025-03-10", report.DateOfLecture.Format(dateLayout))

	require.Len(t, fx.notifier.sent, 1)
	n := fx.notifier.sent[0]
	assert.Equal(t, "P1", n.RecipientID)
	assert.Equal(t, models.NotificationReport, n.Type)
	assert.Equal(t, "New Lecturer Report", n.Title)
	assert.Equal(t, "Lerato Mokoena submitted a report for BIMP2210 - Object Oriented Programming - Week 5", n.Message)
	assert.Equal(t, report.ID, *n.RelatedID)
	assert.Equal(t, []string{"P1"}, fx.notifier.flushed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitReportWithoutPRLStoresNullRecipient(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	fx := newReportFixture(t, tx)
	mock.ExpectBegin()
	mock.ExpectCommit()

	report, err := fx.svc.Submit(context.Background(), "L2", dto.SubmitReportRequest{StreamID: "S2", ModuleID: "M2", WeekOfReporting: 1})
	require.NoError(t, err)
	assert.Nil(t, report.PRLID)
	assert.Empty(t, fx.notifier.sent)
	assert.Empty(t, fx.notifier.flushed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitReportRollsBackWhenNotificationFails(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	fx := newReportFixture(t, tx)
	fx.notifier.err = appErrors.Internal(errors.New("insert failed"), "failed to create notification")
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := fx.svc.Submit(context.Background(), "L1", dto.SubmitReportRequest{StreamID: "S1", ModuleID: "M1", WeekOfReporting: 2})
	requireAppError(t, err, appErrors.ErrInternal, "")
	assert.Empty(t, fx.notifier.flushed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitReportRejectsMalformedDate(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	fx := newReportFixture(t, tx)

	_, err := fx.svc.Submit(context.Background(), "L1", dto.SubmitReportRequest{StreamID: "S1", ModuleID: "M1", DateOfLecture: "10/03/2025"})
	requireAppError(t, err, appErrors.ErrValidation, "")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackUnknownReportIsNotFound(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	fx := newReportFixture(t, tx)

	err := fx.svc.AddPRLFeedback(context.Background(), "missing", "Good session")
	requireAppError(t, err, appErrors.ErrNotFound, "report not found")

	err = fx.svc.AddPLFeedback(context.Background(), "missing", "Approved")
	requireAppError(t, err, appErrors.ErrNotFound, "report not found")
}

func TestFeedbackRequiresText(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	fx := newReportFixture(t, tx)

	err := fx.svc.AddPRLFeedback(context.Background(), "any", "   ")
	requireAppError(t, err, appErrors.ErrValidation, "feedback is required")
}

func TestReportWorkflowEndToEnd(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	fx := newReportFixture(t, tx)
	ctx := context.Background()
	mock.ExpectBegin()
	mock.ExpectCommit()

	report, err := fx.svc.Submit(ctx, "L1", dto.SubmitReportRequest{
		StreamID: "S1", ModuleID: "M1", WeekOfReporting: 5, DateOfLecture: "2025-03-10", ActualStudentsPresent: 40,
		Venue: "Hall 6", ScheduledTime: "08:30", TopicTaught: "Inheritance",
	})
	require.NoError(t, err)
	require.Len(t, fx.notifier.sent, 1)
	assert.Equal(t, "P1", fx.notifier.sent[0].RecipientID)
	assert.Contains(t, fx.notifier.sent[0].Title, "New Lecturer Report")

	prlQueue, err := fx.svc.ListForPRL(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, prlQueue, 1)
	assert.Equal(t, report.ID, prlQueue[0].ID)

	require.NoError(t, fx.svc.AddPRLFeedback(ctx, report.ID, "Good session"))
	reviewed, err := fx.svc.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusReviewedByPRL, reviewed.Status)
	assert.NotNil(t, reviewed.ReviewedAt)
	assert.Len(t, fx.notifier.sent, 1, "PRL feedback does not notify the lecturer")

	require.NoError(t, fx.svc.AddPLFeedback(ctx, report.ID, "Approved"))
	approved, err := fx.svc.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusApproved, approved.Status)
	assert.Equal(t, "Good session", *approved.PRLFeedback)
	assert.Equal(t, "Approved", *approved.PLFeedback)
	assert.Equal(t, "Thabo Lebona", approved.PRLName)

	require.NoError(t, fx.svc.AddPLFeedback(ctx, report.ID, "Approved again"))
	again, err := fx.svc.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusApproved, again.Status)
	assert.Equal(t, "Approved again", *again.PLFeedback)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPLFeedbackApprovesPendingReport(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	fx := newReportFixture(t, tx)
	ctx := context.Background()
	mock.ExpectBegin()
	mock.ExpectCommit()

	report, err := fx.svc.Submit(ctx, "L1", dto.SubmitReportRequest{StreamID: "S1", ModuleID: "M1", WeekOfReporting: 4})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusPending, report.Status)

	require.NoError(t, fx.svc.AddPLFeedback(ctx, report.ID, "Approved without PRL review"))
	approved, err := fx.svc.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusApproved, approved.Status)
	assert.Nil(t, approved.PRLFeedback)
	assert.Nil(t, approved.ReviewedAt)
	require.NotNil(t, approved.PLFeedback)
	assert.Equal(t, "Approved without PRL review", *approved.PLFeedback)
	assert.NotNil(t, approved.ApprovedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPRLRoutingIsFixedAtCreation(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	fx := newReportFixture(t, tx)
	ctx := context.Background()
	mock.ExpectBegin()
	mock.ExpectCommit()

	report, err := fx.svc.Submit(ctx, "L1", dto.SubmitReportRequest{StreamID: "S1", ModuleID: "M1", WeekOfReporting: 3})
	require.NoError(t, err)

	for _, u := range fx.dir.users {
		if u.ID == "P1" {
			u.PrimaryStreamID = strPtr("S9")
		}
	}
	fx.dir.add(prl("P2", "Nthabiseng", "Molapo", "S1"))

	stored, err := fx.svc.Get(ctx, report.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PRLID)
	assert.Equal(t, "P1", *stored.PRLID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForPRLWithoutStream(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	fx := newReportFixture(t, tx)
	fx.dir.add(&models.User{ID: "P9", FirstName: "No", LastName: "Stream", Role: models.RolePRL})

	_, err := fx.svc.ListForPRL(context.Background(), "P9")
	requireAppError(t, err, appErrors.ErrValidation, "PRL not assigned to a stream")
}

func TestListAllReturnsEmptySlice(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	fx := newReportFixture(t, tx)

	reports, err := fx.svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
}

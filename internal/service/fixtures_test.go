package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

type txProviderMock struct {
	db   *sqlx.DB
	mock sqlmock.Sqlmock
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb, mock: mock}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

// fakeDirectory is an in-memory users table keeping registration order.
type fakeDirectory struct {
	users []*models.User
}

func (d *fakeDirectory) add(u *models.User) *models.User {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().Add(time.Duration(len(d.users)) * time.Second)
	}
	d.users = append(d.users, u)
	return u
}

func (d *fakeDirectory) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error) {
	for _, u := range d.users {
		if u.ID == id {
			found := *u
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (d *fakeDirectory) FindPRLForStream(ctx context.Context, exec sqlx.ExtContext, streamID string) (string, error) {
	for _, u := range d.users {
		if u.Role == models.RolePRL && u.PrimaryStreamID != nil && *u.PrimaryStreamID == streamID {
			return u.ID, nil
		}
	}
	return "", sql.ErrNoRows
}

func (d *fakeDirectory) FindFirstPL(ctx context.Context, exec sqlx.ExtContext) (string, error) {
	for _, u := range d.users {
		if u.Role == models.RolePL {
			return u.ID, nil
		}
	}
	return "", sql.ErrNoRows
}

type recordingNotifier struct {
	sent    []*models.Notification
	flushed []string
	err     error
}

func (n *recordingNotifier) Notify(ctx context.Context, exec sqlx.ExtContext, notification *models.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notification)
	return nil
}

func (n *recordingNotifier) Flush(ctx context.Context, recipientIDs ...string) {
	n.flushed = append(n.flushed, recipientIDs...)
}

type labelStub map[string]models.ModuleLabel

func (l labelStub) Label(ctx context.Context, exec sqlx.ExtContext, id string) (*models.ModuleLabel, error) {
	label, ok := l[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &label, nil
}

func strPtr(v string) *string { return &v }

func lecturer(id, first, last, stream string) *models.User {
	return &models.User{ID: id, FirstName: first, LastName: last, Username: id, Role: models.RoleLecturer, PrimaryStreamID: strPtr(stream)}
}

func prl(id, first, last, stream string) *models.User {
	return &models.User{ID: id, FirstName: first, LastName: last, Username: id, Role: models.RolePRL, PrimaryStreamID: strPtr(stream)}
}

func student(id, first, last, number, stream string) *models.User {
	return &models.User{ID: id, FirstName: first, LastName: last, Username: id, Role: models.RoleStudent, StudentNumber: strPtr(number), PrimaryStreamID: strPtr(stream)}
}

func programmeLeader(id, first, last string) *models.User {
	return &models.User{ID: id, FirstName: first, LastName: last, Username: id, Role: models.RolePL}
}

func requireAppError(t *testing.T, err error, want *appErrors.Error, message string) {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, want.Code, appErr.Code)
	require.Equal(t, want.Status, appErr.Status)
	if message != "" {
		require.Equal(t, message, appErr.Message)
	}
}

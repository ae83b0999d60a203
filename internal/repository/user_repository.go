package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/luct-reporting-api/internal/models"
)

const userColumns = `id, first_name, last_name, username, email, student_number, role, primary_stream_id, password_hash, created_at`

// UserRepository provides database access for portal users and their stream links.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByUsernameAndRole looks a user up for login. Username is matched case-insensitively.
func (r *UserRepository) FindByUsernameAndRole(ctx context.Context, username string, role models.Role) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1) AND role = $2 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, strings.TrimSpace(username), role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindStudentByNumber returns the student holding the given student number.
func (r *UserRepository) FindStudentByNumber(ctx context.Context, exec sqlx.ExtContext, studentNumber string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE student_number = $1 AND role = 'student' LIMIT 1`
	var user models.User
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &user, query, strings.TrimSpace(studentNumber)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student by number: %w", err)
	}
	return &user, nil
}

// UsernameExists reports whether a username is already registered.
func (r *UserRepository) UsernameExists(ctx context.Context, exec sqlx.ExtContext, username string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`
	return r.exists(ctx, exec, query, "check username", username)
}

// EmailExists reports whether an email is already registered.
func (r *UserRepository) EmailExists(ctx context.Context, exec sqlx.ExtContext, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`
	return r.exists(ctx, exec, query, "check email", email)
}

// StudentNumberExists reports whether a student number is already registered.
func (r *UserRepository) StudentNumberExists(ctx context.Context, exec sqlx.ExtContext, studentNumber string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE student_number = $1)`
	return r.exists(ctx, exec, query, "check student number", studentNumber)
}

func (r *UserRepository) exists(ctx context.Context, exec sqlx.ExtContext, query, op, arg string) (bool, error) {
	var found bool
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &found, query, strings.TrimSpace(arg)); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return found, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*user.Email))
		user.Email = &lowered
	}
	const query = `INSERT INTO users (id, first_name, last_name, username, email, student_number, role, primary_stream_id, password_hash, created_at)
VALUES (:id, :first_name, :last_name, :username, :email, :student_number, :role, :primary_stream_id, :password_hash, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// LinkStreams associates a lecturer or PRL with streams. Existing links are kept.
func (r *UserRepository) LinkStreams(ctx context.Context, exec sqlx.ExtContext, lecturerID string, streamIDs []string) error {
	if len(streamIDs) == 0 {
		return nil
	}
	const query = `INSERT INTO lecturer_streams (lecturer_id, stream_id)
SELECT $1, unnest($2::uuid[])
ON CONFLICT (lecturer_id, stream_id) DO NOTHING`
	if _, err := pick(r.db, exec).ExecContext(ctx, query, lecturerID, pq.Array(streamIDs)); err != nil {
		return fmt.Errorf("link lecturer streams: %w", err)
	}
	return nil
}

// FindPRLForStream returns the id of the PRL whose primary stream is streamID.
// sql.ErrNoRows means the stream has no PRL.
func (r *UserRepository) FindPRLForStream(ctx context.Context, exec sqlx.ExtContext, streamID string) (string, error) {
	const query = `SELECT id FROM users WHERE role = 'PRL' AND primary_stream_id = $1 ORDER BY created_at LIMIT 1`
	var id string
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &id, query, streamID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
		return "", fmt.Errorf("find prl for stream: %w", err)
	}
	return id, nil
}

// FindFirstPL returns the id of the earliest registered PL.
func (r *UserRepository) FindFirstPL(ctx context.Context, exec sqlx.ExtContext) (string, error) {
	const query = `SELECT id FROM users WHERE role = 'PL' ORDER BY created_at LIMIT 1`
	var id string
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &id, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
		return "", fmt.Errorf("find pl: %w", err)
	}
	return id, nil
}

// ListStaffByRole returns the directory of lecturers or PRLs with their primary stream.
func (r *UserRepository) ListStaffByRole(ctx context.Context, role models.Role) ([]models.StaffMember, error) {
	const query = `SELECT u.id, u.first_name, u.last_name, u.email, u.primary_stream_id, s.stream_name, s.stream_code
FROM users u
LEFT JOIN streams s ON s.id = u.primary_stream_id
WHERE u.role = $1
ORDER BY u.first_name, u.last_name`
	var staff []models.StaffMember
	if err := r.db.SelectContext(ctx, &staff, query, role); err != nil {
		return nil, fmt.Errorf("list staff by role: %w", err)
	}
	return staff, nil
}

// ListLecturersInStream returns lecturers linked to a stream.
func (r *UserRepository) ListLecturersInStream(ctx context.Context, streamID string) ([]models.StaffMember, error) {
	const query = `SELECT DISTINCT u.id, u.first_name, u.last_name, u.email, u.primary_stream_id, s.stream_name, s.stream_code
FROM users u
JOIN lecturer_streams ls ON ls.lecturer_id = u.id
JOIN streams s ON s.id = ls.stream_id
WHERE u.role = 'lecturer' AND ls.stream_id = $1
ORDER BY u.first_name, u.last_name`
	var staff []models.StaffMember
	if err := r.db.SelectContext(ctx, &staff, query, streamID); err != nil {
		return nil, fmt.Errorf("list lecturers in stream: %w", err)
	}
	return staff, nil
}

// ListPRLsForLecturer returns the PRLs of every stream the lecturer teaches in.
func (r *UserRepository) ListPRLsForLecturer(ctx context.Context, lecturerID string) ([]models.StaffMember, error) {
	const query = `SELECT DISTINCT u.id, u.first_name, u.last_name, u.email, u.primary_stream_id, s.stream_name, s.stream_code
FROM users u
JOIN streams s ON s.id = u.primary_stream_id
JOIN lecturer_streams ls ON ls.stream_id = u.primary_stream_id
WHERE u.role = 'PRL' AND ls.lecturer_id = $1
ORDER BY u.first_name, u.last_name`
	var staff []models.StaffMember
	if err := r.db.SelectContext(ctx, &staff, query, lecturerID); err != nil {
		return nil, fmt.Errorf("list prls for lecturer: %w", err)
	}
	return staff, nil
}

// ListStreamLecturers returns lecturers teaching modules in a stream with their module codes.
func (r *UserRepository) ListStreamLecturers(ctx context.Context, streamID string) ([]models.StreamLecturer, error) {
	const query = `SELECT u.id, u.first_name, u.last_name, u.email, STRING_AGG(m.module_code || ' - ' || m.module_name, ', ' ORDER BY m.module_code) AS modules
FROM users u
JOIN modules m ON m.lecturer_id = u.id
WHERE m.stream_id = $1
GROUP BY u.id, u.first_name, u.last_name, u.email
ORDER BY u.first_name, u.last_name`
	var lecturers []models.StreamLecturer
	if err := r.db.SelectContext(ctx, &lecturers, query, streamID); err != nil {
		return nil, fmt.Errorf("list stream lecturers: %w", err)
	}
	return lecturers, nil
}

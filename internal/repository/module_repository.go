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

	"github.com/noah-isme/luct-reporting-api/internal/models"
)

const moduleViewSelect = `SELECT m.id, m.module_code, m.module_name, m.class_name, m.stream_id, m.lecturer_id, m.created_at,
s.stream_name, s.stream_code,
COALESCE(u.first_name || ' ' || u.last_name, 'Not Assigned') AS lecturer_name
FROM modules m
JOIN streams s ON s.id = m.stream_id
LEFT JOIN users u ON u.id = m.lecturer_id`

// ModuleRepository manages modules and their lecturer assignment.
type ModuleRepository struct {
	db *sqlx.DB
}

// NewModuleRepository constructs the repository.
func NewModuleRepository(db *sqlx.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

// ListAll returns every module with stream and lecturer names.
func (r *ModuleRepository) ListAll(ctx context.Context) ([]models.ModuleView, error) {
	return r.list(ctx, "list modules", moduleViewSelect+` ORDER BY s.stream_code, m.module_code`)
}

// ListByLecturer returns the modules assigned to a lecturer.
func (r *ModuleRepository) ListByLecturer(ctx context.Context, lecturerID string) ([]models.ModuleView, error) {
	return r.list(ctx, "list lecturer modules", moduleViewSelect+` WHERE m.lecturer_id = $1 ORDER BY m.module_code`, lecturerID)
}

// ListByStream returns the modules of a stream.
func (r *ModuleRepository) ListByStream(ctx context.Context, streamID string) ([]models.ModuleView, error) {
	return r.list(ctx, "list stream modules", moduleViewSelect+` WHERE m.stream_id = $1 ORDER BY m.module_code`, streamID)
}

// ListByLecturerAndStream narrows a lecturer's modules to one stream.
func (r *ModuleRepository) ListByLecturerAndStream(ctx context.Context, lecturerID, streamID string) ([]models.ModuleView, error) {
	return r.list(ctx, "list lecturer stream modules", moduleViewSelect+` WHERE m.lecturer_id = $1 AND m.stream_id = $2 ORDER BY m.module_code`, lecturerID, streamID)
}

// ListForStudent returns modules the student is enrolled in.
func (r *ModuleRepository) ListForStudent(ctx context.Context, studentID string) ([]models.ModuleView, error) {
	return r.list(ctx, "list student modules", moduleViewSelect+` JOIN module_students ms ON ms.module_id = m.id WHERE ms.student_id = $1 ORDER BY m.module_code`, studentID)
}

func (r *ModuleRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.ModuleView, error) {
	var modules []models.ModuleView
	if err := r.db.SelectContext(ctx, &modules, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return modules, nil
}

// FindByID returns the stored module.
func (r *ModuleRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Module, error) {
	const query = `SELECT id, module_code, module_name, class_name, stream_id, lecturer_id, created_at FROM modules WHERE id = $1`
	var module models.Module
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &module, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find module: %w", err)
	}
	return &module, nil
}

// Label returns the code and name used when describing a module in messages.
func (r *ModuleRepository) Label(ctx context.Context, exec sqlx.ExtContext, id string) (*models.ModuleLabel, error) {
	const query = `SELECT module_code, module_name, stream_id FROM modules WHERE id = $1`
	var label models.ModuleLabel
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &label, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("load module label: %w", err)
	}
	return &label, nil
}

// CodeExists reports whether a module code is taken.
func (r *ModuleRepository) CodeExists(ctx context.Context, exec sqlx.ExtContext, code string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM modules WHERE UPPER(module_code) = UPPER($1))`
	var found bool
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &found, query, strings.TrimSpace(code)); err != nil {
		return false, fmt.Errorf("check module code: %w", err)
	}
	return found, nil
}

// Create inserts a module.
func (r *ModuleRepository) Create(ctx context.Context, exec sqlx.ExtContext, module *models.Module) error {
	if module.ID == "" {
		module.ID = uuid.NewString()
	}
	if module.CreatedAt.IsZero() {
		module.CreatedAt = time.Now().UTC()
	}
	module.ModuleCode = strings.ToUpper(strings.TrimSpace(module.ModuleCode))
	const query = `INSERT INTO modules (id, module_code, module_name, class_name, stream_id, lecturer_id, created_at)
VALUES (:id, :module_code, :module_name, :class_name, :stream_id, :lecturer_id, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, module); err != nil {
		return fmt.Errorf("create module: %w", err)
	}
	return nil
}

// AssignLecturer sets the module's lecturer. sql.ErrNoRows is returned for unknown modules.
func (r *ModuleRepository) AssignLecturer(ctx context.Context, exec sqlx.ExtContext, moduleID, lecturerID string) error {
	const query = `UPDATE modules SET lecturer_id = $2 WHERE id = $1`
	res, err := pick(r.db, exec).ExecContext(ctx, query, moduleID, lecturerID)
	if err != nil {
		return fmt.Errorf("assign module lecturer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign module lecturer rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/luct-reporting-api/internal/dto"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	"github.com/noah-isme/luct-reporting-api/pkg/database"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

type streamStore interface {
	List(ctx context.Context) ([]models.Stream, error)
	FindByID(ctx context.Context, id string) (*models.Stream, error)
	ListForLecturer(ctx context.Context, lecturerID string) ([]models.Stream, error)
}

type moduleStore interface {
	ListAll(ctx context.Context) ([]models.ModuleView, error)
	ListByLecturer(ctx context.Context, lecturerID string) ([]models.ModuleView, error)
	ListByStream(ctx context.Context, streamID string) ([]models.ModuleView, error)
	ListByLecturerAndStream(ctx context.Context, lecturerID, streamID string) ([]models.ModuleView, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.ModuleView, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Module, error)
	CodeExists(ctx context.Context, exec sqlx.ExtContext, code string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, module *models.Module) error
	AssignLecturer(ctx context.Context, exec sqlx.ExtContext, moduleID, lecturerID string) error
}

type staffStore interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error)
	ListStaffByRole(ctx context.Context, role models.Role) ([]models.StaffMember, error)
	ListLecturersInStream(ctx context.Context, streamID string) ([]models.StaffMember, error)
	ListPRLsForLecturer(ctx context.Context, lecturerID string) ([]models.StaffMember, error)
	ListStreamLecturers(ctx context.Context, streamID string) ([]models.StreamLecturer, error)
	LinkStreams(ctx context.Context, exec sqlx.ExtContext, lecturerID string, streamIDs []string) error
}

// CourseServiceParams groups constructor dependencies.
type CourseServiceParams struct {
	Streams   streamStore
	Modules   moduleStore
	Staff     staffStore
	Tx        txProvider
	Cache     *CacheService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// CourseService exposes the academic catalogue: streams, modules and staff directories.
type CourseService struct {
	streams   streamStore
	modules   moduleStore
	staff     staffStore
	tx        txProvider
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(params CourseServiceParams) *CourseService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{
		streams:   params.Streams,
		modules:   params.Modules,
		staff:     params.Staff,
		tx:        params.Tx,
		cache:     params.Cache,
		validator: validate,
		logger:    logger,
	}
}

// ListStreams returns every stream.
func (s *CourseService) ListStreams(ctx context.Context) ([]models.Stream, error) {
	streams, err := s.streams.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load streams")
	}
	if streams == nil {
		streams = []models.Stream{}
	}
	return streams, nil
}

// PRLStream returns the stream a PRL supervises.
func (s *CourseService) PRLStream(ctx context.Context, prlID string) (*models.Stream, error) {
	streamID, err := s.primaryStream(ctx, prlID, "PRL not assigned to a stream")
	if err != nil {
		return nil, err
	}
	stream, err := s.streams.FindByID(ctx, streamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stream not found")
		}
		return nil, appErrors.Internal(err, "failed to load stream")
	}
	return stream, nil
}

// LecturerStreams returns the streams a lecturer teaches in.
func (s *CourseService) LecturerStreams(ctx context.Context, lecturerID string) ([]models.Stream, error) {
	streams, err := s.streams.ListForLecturer(ctx, lecturerID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load streams")
	}
	if streams == nil {
		streams = []models.Stream{}
	}
	return streams, nil
}

// ListModules returns every module.
func (s *CourseService) ListModules(ctx context.Context) ([]models.ModuleView, error) {
	return moduleList(s.modules.ListAll(ctx))
}

// LecturerModules returns the lecturer's assigned modules.
func (s *CourseService) LecturerModules(ctx context.Context, lecturerID string) ([]models.ModuleView, error) {
	return moduleList(s.modules.ListByLecturer(ctx, lecturerID))
}

// LecturerStreamModules returns the lecturer's modules within one stream.
func (s *CourseService) LecturerStreamModules(ctx context.Context, lecturerID, streamID string) ([]models.ModuleView, error) {
	return moduleList(s.modules.ListByLecturerAndStream(ctx, lecturerID, streamID))
}

// PRLModules returns the modules of the PRL's stream.
func (s *CourseService) PRLModules(ctx context.Context, prlID string) ([]models.ModuleView, error) {
	streamID, err := s.primaryStream(ctx, prlID, "PRL not assigned to a stream")
	if err != nil {
		return nil, err
	}
	return moduleList(s.modules.ListByStream(ctx, streamID))
}

// StudentModules returns the modules a student is enrolled in.
func (s *CourseService) StudentModules(ctx context.Context, studentID string) ([]models.ModuleView, error) {
	return moduleList(s.modules.ListForStudent(ctx, studentID))
}

// CreateModule adds a module and links its lecturer to the stream.
func (s *CourseService) CreateModule(ctx context.Context, req dto.CreateModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "module name, code and stream are required")
	}
	module := &models.Module{
		ModuleCode: req.ModuleCode,
		ModuleName: strings.TrimSpace(req.ModuleName),
		ClassName:  strings.TrimSpace(req.ClassName),
		StreamID:   strings.TrimSpace(req.StreamID),
	}
	if lecturer := strings.TrimSpace(req.LecturerID); lecturer != "" {
		module.LecturerID = &lecturer
	}

	err := inTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		taken, err := s.modules.CodeExists(ctx, tx, req.ModuleCode)
		if err != nil {
			return appErrors.Internal(err, "failed to check module code")
		}
		if taken {
			return appErrors.Clone(appErrors.ErrDuplicate, "Module code already exists")
		}
		if err := s.modules.Create(ctx, tx, module); err != nil {
			if database.IsUniqueViolation(err) {
				return appErrors.Wrap(err, appErrors.ErrDuplicate.Code, appErrors.ErrDuplicate.Status, "Module code already exists")
			}
			return appErrors.Internal(err, "failed to create module")
		}
		if module.LecturerID == nil {
			return nil
		}
		if err := s.staff.LinkStreams(ctx, tx, *module.LecturerID, []string{module.StreamID}); err != nil {
			return appErrors.Internal(err, "failed to link lecturer stream")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.evictDashboard(ctx)
	s.logger.Info("module created", zap.String("module_id", module.ID), zap.String("module_code", module.ModuleCode))
	return module, nil
}

// AssignLecturer assigns a lecturer to a module and links them to its stream.
func (s *CourseService) AssignLecturer(ctx context.Context, moduleID string, req dto.AssignLecturerRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(err, "lecturer is required")
	}
	lecturerID := strings.TrimSpace(req.LecturerID)
	return inTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		module, err := s.modules.FindByID(ctx, tx, moduleID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "module not found")
			}
			return appErrors.Internal(err, "failed to load module")
		}
		if err := s.modules.AssignLecturer(ctx, tx, module.ID, lecturerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "module not found")
			}
			return appErrors.Internal(err, "failed to assign lecturer")
		}
		if err := s.staff.LinkStreams(ctx, tx, lecturerID, []string{module.StreamID}); err != nil {
			return appErrors.Internal(err, "failed to link lecturer stream")
		}
		return nil
	})
}

// ListLecturers returns the lecturer directory.
func (s *CourseService) ListLecturers(ctx context.Context) ([]models.StaffMember, error) {
	return staffList(s.staff.ListStaffByRole(ctx, models.RoleLecturer))
}

// ListPRLs returns the PRL directory.
func (s *CourseService) ListPRLs(ctx context.Context) ([]models.StaffMember, error) {
	return staffList(s.staff.ListStaffByRole(ctx, models.RolePRL))
}

// PRLLecturers returns the lecturers of the PRL's stream.
func (s *CourseService) PRLLecturers(ctx context.Context, prlID string) ([]models.StaffMember, error) {
	streamID, err := s.primaryStream(ctx, prlID, "PRL not assigned to a stream")
	if err != nil {
		return nil, err
	}
	return staffList(s.staff.ListLecturersInStream(ctx, streamID))
}

// LecturerPRLs returns the PRLs of the streams a lecturer teaches in.
func (s *CourseService) LecturerPRLs(ctx context.Context, lecturerID string) ([]models.StaffMember, error) {
	return staffList(s.staff.ListPRLsForLecturer(ctx, lecturerID))
}

// StudentStreamLecturers returns the lecturers teaching in the student's stream.
func (s *CourseService) StudentStreamLecturers(ctx context.Context, studentID string) ([]models.StreamLecturer, error) {
	streamID, err := s.primaryStream(ctx, studentID, "student not assigned to a stream")
	if err != nil {
		return nil, err
	}
	lecturers, err := s.staff.ListStreamLecturers(ctx, streamID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load lecturers")
	}
	if lecturers == nil {
		lecturers = []models.StreamLecturer{}
	}
	return lecturers, nil
}

func (s *CourseService) primaryStream(ctx context.Context, userID, missing string) (string, error) {
	user, err := s.staff.FindByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return "", appErrors.Internal(err, "failed to load user")
	}
	if user.PrimaryStreamID == nil || *user.PrimaryStreamID == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, missing)
	}
	return *user.PrimaryStreamID, nil
}

func (s *CourseService) evictDashboard(ctx context.Context) {
	if err := s.cache.Evict(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("failed to evict dashboard cache", zap.Error(err))
	}
}

func moduleList(modules []models.ModuleView, err error) ([]models.ModuleView, error) {
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load modules")
	}
	if modules == nil {
		modules = []models.ModuleView{}
	}
	return modules, nil
}

func staffList(staff []models.StaffMember, err error) ([]models.StaffMember, error) {
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load staff")
	}
	if staff == nil {
		staff = []models.StaffMember{}
	}
	return staff, nil
}

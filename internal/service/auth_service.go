package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

type authUserStore interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error)
	FindByUsernameAndRole(ctx context.Context, username string, role models.Role) (*models.User, error)
	UsernameExists(ctx context.Context, exec sqlx.ExtContext, username string) (bool, error)
	EmailExists(ctx context.Context, exec sqlx.ExtContext, email string) (bool, error)
	StudentNumberExists(ctx context.Context, exec sqlx.ExtContext, studentNumber string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error
	LinkStreams(ctx context.Context, exec sqlx.ExtContext, lecturerID string, streamIDs []string) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	BcryptCost        int
}

// AuthService provides registration, login and token validation.
type AuthService struct {
	repo      authUserStore
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserStore, tx txProvider, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, tx: tx, validator: validate, logger: logger, config: config, now: time.Now}
}

// Register creates an account for any of the four roles and returns the stored role.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (models.Role, error) {
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, "a valid role is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Validation(err, "all required fields must be provided")
	}
	if req.Password != req.PasswordConfirm {
		return "", appErrors.Clone(appErrors.ErrValidation, "passwords do not match")
	}

	user := &models.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Username:  req.Username,
		Role:      role,
	}
	if stream := strings.TrimSpace(req.PrimaryStreamID); stream != "" {
		user.PrimaryStreamID = &stream
	}

	if role == models.RoleStudent {
		number := strings.TrimSpace(req.StudentNumber)
		if number == "" || user.PrimaryStreamID == nil {
			return "", appErrors.Clone(appErrors.ErrValidation, "student number and stream are required for students")
		}
		user.StudentNumber = &number
	} else {
		email := strings.TrimSpace(req.Email)
		if email == "" {
			return "", appErrors.Clone(appErrors.ErrValidation, "email is required for staff")
		}
		user.Email = &email
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return "", appErrors.Internal(err, "failed to hash password")
	}
	user.PasswordHash = string(hash)

	streams := registrationStreams(role, req)

	err = inTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.ensureUnique(ctx, tx, user); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, tx, user); err != nil {
			return appErrors.Internal(err, "failed to create user")
		}
		if err := s.repo.LinkStreams(ctx, tx, user.ID, streams); err != nil {
			return appErrors.Internal(err, "failed to link streams")
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return role, nil
}

func (s *AuthService) ensureUnique(ctx context.Context, exec sqlx.ExtContext, user *models.User) error {
	taken, err := s.repo.UsernameExists(ctx, exec, user.Username)
	if err != nil {
		return appErrors.Internal(err, "failed to check username")
	}
	if taken {
		return appErrors.Clone(appErrors.ErrDuplicate, "Username already taken")
	}
	if user.StudentNumber != nil {
		taken, err = s.repo.StudentNumberExists(ctx, exec, *user.StudentNumber)
		if err != nil {
			return appErrors.Internal(err, "failed to check student number")
		}
		if taken {
			return appErrors.Clone(appErrors.ErrDuplicate, "Student number already registered")
		}
	}
	if user.Email != nil {
		taken, err = s.repo.EmailExists(ctx, exec, *user.Email)
		if err != nil {
			return appErrors.Internal(err, "failed to check email")
		}
		if taken {
			return appErrors.Clone(appErrors.ErrDuplicate, "Email already registered")
		}
	}
	return nil
}

// registrationStreams lists the streams a lecturer or PRL teaches in.
func registrationStreams(role models.Role, req models.RegisterRequest) []string {
	if !role.TeachesInStreams() {
		return nil
	}
	seen := make(map[string]struct{}, len(req.Streams))
	streams := make([]string, 0, len(req.Streams))
	for _, id := range req.Streams {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		streams = append(streams, id)
	}
	if len(streams) == 0 {
		if primary := strings.TrimSpace(req.PrimaryStreamID); primary != "" {
			streams = append(streams, primary)
		}
	}
	return streams
}

// Login authenticates a user under the requested role and issues an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "username, password and role are required")
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or role")
	}

	user, err := s.repo.FindByUsernameAndRole(ctx, req.Username, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or role")
		}
		return nil, appErrors.Internal(err, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid password")
	}

	token, issuedAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:  issuedAt,
		User:      userInfo(user),
	}, nil
}

// Profile returns the stored details of the authenticated user.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.UserInfo, error) {
	user, err := s.repo.FindByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to load user")
	}
	info := userInfo(user)
	return &info, nil
}

// ValidateToken parses and validates an access token. Every failure yields the same unauthorized error.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, appErrors.ErrUnauthorized.Message)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	return claims, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		UserID:   user.ID,
		Role:     user.Role,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

func userInfo(user *models.User) models.UserInfo {
	return models.UserInfo{
		ID:              user.ID,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Username:        user.Username,
		Email:           user.Email,
		Role:            user.Role,
		PrimaryStreamID: user.PrimaryStreamID,
	}
}

package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmtenga/attendance-api/internal/models"
	appErrors "github.com/jmtenga/attendance-api/pkg/errors"
)

type authStudentRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret   string
	TokenExpiry   time.Duration
	Issuer        string
	AdminUsername string
	AdminPassword string
}

// AuthService authenticates the administrator and student accounts and issues
// the session tokens carried by subsequent requests.
type AuthService struct {
	repo      authStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authStudentRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config}
}

// Login authenticates per the requested role and returns an issued token.
// Unconfirmed students are rejected with PENDING_APPROVAL.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	switch strings.ToLower(req.Role) {
	case "admin":
		return s.loginAdmin(req)
	case "student":
		return s.loginStudent(ctx, req)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role selector")
	}
}

func (s *AuthService) loginAdmin(req models.LoginRequest) (*models.LoginResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(req.Username)), []byte(s.config.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.config.AdminPassword)) == 1
	if !userOK || !passOK {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid admin credentials")
	}

	token, issuedAt, err := s.generateToken(models.RoleAdmin, "", "", s.config.AdminUsername)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		Session:     models.SessionInfo{Role: models.RoleAdmin},
	}, nil
}

func (s *AuthService) loginStudent(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Username))

	student, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
	}

	if !student.Confirmed {
		return nil, appErrors.Clone(appErrors.ErrPendingApproval, "your account is pending admin approval")
	}

	token, issuedAt, err := s.generateToken(models.RoleStudent, student.ID, student.Email, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		Session: models.SessionInfo{
			Role:      models.RoleStudent,
			StudentID: student.ID,
			FullName:  student.FullName,
			Email:     student.Email,
		},
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateToken(role models.Role, studentID, email, subject string) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.JWTClaims{
		Role:      role,
		StudentID: studentID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

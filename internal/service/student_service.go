package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmtenga/attendance-api/internal/models"
	appErrors "github.com/jmtenga/attendance-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Counts(ctx context.Context) (*models.StudentCounts, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	ExistsByStudentID(ctx context.Context, studentID string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Confirm(ctx context.Context, id string, confirmedAt time.Time) error
	DeleteCascade(ctx context.Context, id string) error
}

// RegisterRequest holds the self-registration payload. The password is
// entered twice; mismatches are rejected before anything is stored.
type RegisterRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	FullName   string `json:"full_name" validate:"required"`
	Course     string `json:"course" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Gender     string `json:"gender" validate:"required"`
	Password   string `json:"password" validate:"required,min=6"`
	RePassword string `json:"re_password" validate:"required"`
}

// UpdateStudentRequest holds the admin-editable identity fields.
type UpdateStudentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	FullName  string `json:"full_name" validate:"required"`
	Course    string `json:"course" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Gender    string `json:"gender" validate:"required"`
}

// StudentService covers the registration/approval workflow and admin account
// management.
type StudentService struct {
	repo      studentRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// Register creates a new unconfirmed account. Email uniqueness is
// case-insensitive; the stored email is lowercased.
func (s *StudentService) Register(ctx context.Context, req RegisterRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	if req.Password != req.RePassword {
		return nil, appErrors.Clone(appErrors.ErrPasswordMismatch, "")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	studentID := strings.TrimSpace(req.StudentID)

	if taken, err := s.repo.ExistsByEmail(ctx, email, ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicateIdentity, "email already registered")
	}
	if taken, err := s.repo.ExistsByStudentID(ctx, studentID, ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student id")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicateIdentity, "student id already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	student := &models.Student{
		StudentID:        studentID,
		FullName:         strings.TrimSpace(req.FullName),
		Course:           strings.TrimSpace(req.Course),
		Email:            email,
		Gender:           req.Gender,
		PasswordHash:     string(hash),
		Confirmed:        false,
		RegistrationDate: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}

	s.invalidateRoster(ctx)
	s.logger.Info("student registered", zap.String("student_id", student.StudentID), zap.String("email", student.Email))
	return student, nil
}

// List returns accounts matching the filter plus pagination and population counts.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, *models.StudentCounts, error) {
	if filter.Status == "" {
		filter.Status = models.StudentStatusAll
	}
	if !filter.Status.Valid() {
		return nil, nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
	}
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return students, pagination, counts, nil
}

// Get returns a single account.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Confirm approves a pending registration. Confirming an already confirmed
// account is a no-op.
func (s *StudentService) Confirm(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if student.Confirmed {
		return student, nil
	}

	confirmedAt := s.now().UTC()
	if err := s.repo.Confirm(ctx, id, confirmedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to confirm student")
	}
	student.Confirmed = true
	student.ConfirmationDate = &confirmedAt
	s.logger.Info("student confirmed", zap.String("student_id", student.StudentID))
	return student, nil
}

// Update edits the identity fields; uniqueness checks exclude the account itself.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	studentID := strings.TrimSpace(req.StudentID)

	if taken, err := s.repo.ExistsByEmail(ctx, email, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicateIdentity, "email already registered")
	}
	if taken, err := s.repo.ExistsByStudentID(ctx, studentID, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student id")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicateIdentity, "student id already exists")
	}

	student.StudentID = studentID
	student.FullName = strings.TrimSpace(req.FullName)
	student.Course = strings.TrimSpace(req.Course)
	student.Email = email
	student.Gender = req.Gender
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	s.invalidateRoster(ctx)
	return student, nil
}

// Delete removes the account and all of its attendance records.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	student, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.invalidateRoster(ctx)
	s.logger.Info("student deleted", zap.String("student_id", student.StudentID))
	return nil
}

func (s *StudentService) invalidateRoster(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "roster:*"); err != nil {
		s.logger.Warn("roster cache invalidation failed", zap.Error(err))
	}
}

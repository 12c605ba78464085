package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jmtenga/attendance-api/internal/models"
	appErrors "github.com/jmtenga/attendance-api/pkg/errors"
)

type attendanceRepository interface {
	FindByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*models.AttendanceRecord, error)
	Insert(ctx context.Context, record *models.AttendanceRecord) error
	HistoryByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error)
	Roster(ctx context.Context, date time.Time) ([]models.RosterRow, error)
}

type attendanceAccountLookup interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// AttendanceService owns the daily ledger: marking, per-student history and
// the synthesized roster view.
type AttendanceService struct {
	repo      attendanceRepository
	accounts  attendanceAccountLookup
	cache     *CacheService
	rosterTTL time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, accounts attendanceAccountLookup, cache *CacheService, rosterTTL time.Duration, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, accounts: accounts, cache: cache, rosterTTL: rosterTTL, logger: logger, now: time.Now}
}

// Mark records today's presence for the student. The operation is idempotent
// per calendar day: a second call the same day reports the existing record as
// already marked. The existence check and the insert are two statements, so a
// same-instant double submit can still race; the unique index on
// (student_id, date) is the backstop.
func (s *AttendanceService) Mark(ctx context.Context, accountID string) (*models.MarkResult, error) {
	student, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if !student.Confirmed {
		return nil, appErrors.Clone(appErrors.ErrNotAuthorized, "you are not authorized to mark attendance")
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	existing, err := s.repo.FindByStudentAndDate(ctx, accountID, today)
	if err == nil {
		return &models.MarkResult{Record: existing, AlreadyMarked: true}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check attendance")
	}

	record := &models.AttendanceRecord{
		StudentID: accountID,
		Date:      today,
		TimeIn:    now,
		Status:    models.AttendanceStatusPresent,
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark attendance")
	}

	s.invalidateRoster(ctx, today)
	s.logger.Info("attendance marked", zap.String("student_id", student.StudentID), zap.Time("date", today))
	return &models.MarkResult{Record: record, AlreadyMarked: false}, nil
}

// History returns the student's own records, most recent day first.
func (s *AttendanceService) History(ctx context.Context, accountID string) ([]models.AttendanceRecord, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	records, err := s.repo.HistoryByStudent(ctx, accountID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance history")
	}
	return records, nil
}

// Roster returns the present/absent view over all students for the given day.
// Results are cached per day when caching is enabled.
func (s *AttendanceService) Roster(ctx context.Context, date time.Time) ([]models.RosterRow, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	key := rosterCacheKey(day)

	var cached []models.RosterRow
	if s.cache != nil {
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached, nil
		}
	}

	rows, err := s.repo.Roster(ctx, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build roster")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rows, s.rosterTTL); err != nil {
			s.logger.Warn("roster cache set failed", zap.Error(err))
		}
	}
	return rows, nil
}

func (s *AttendanceService) invalidateRoster(ctx context.Context, day time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, rosterCacheKey(day)); err != nil {
		s.logger.Warn("roster cache invalidation failed", zap.Error(err))
	}
}

func rosterCacheKey(day time.Time) string {
	return fmt.Sprintf("roster:%s", day.Format("2006-01-02"))
}

package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jmtenga/attendance-api/internal/models"
	appErrors "github.com/jmtenga/attendance-api/pkg/errors"
)

type recordRepository interface {
	Query(ctx context.Context, filter models.RecordFilter) ([]models.RecordDetail, error)
	All(ctx context.Context) ([]models.RecordDetail, error)
}

// RecordQuery carries the raw period selector and date inputs of a record
// query as received at the boundary.
type RecordQuery struct {
	Period        string
	Date          string
	Start         string
	End           string
	StudentNumber string
}

// RecordService resolves period selectors into date ranges and reads the
// ledger accordingly.
type RecordService struct {
	repo   recordRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewRecordService constructs the record query service.
func NewRecordService(repo recordRepository, logger *zap.Logger) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{repo: repo, logger: logger, now: time.Now}
}

// Query resolves the selector and returns matching records, most recent day
// first, together with the concrete range that was queried.
func (s *RecordService) Query(ctx context.Context, q RecordQuery) ([]models.RecordDetail, models.DateRange, error) {
	period := models.Period(strings.ToLower(strings.TrimSpace(q.Period)))
	if period == "" {
		period = models.PeriodDaily
	}
	if !period.Valid() {
		return nil, models.DateRange{}, appErrors.Clone(appErrors.ErrValidation, "unknown period selector")
	}

	rng, err := models.ResolveRange(period, q.Date, q.Start, q.End, s.now())
	if err != nil {
		return nil, models.DateRange{}, err
	}

	records, err := s.repo.Query(ctx, models.RecordFilter{
		StudentNumber: strings.TrimSpace(q.StudentNumber),
		From:          rng.From,
		To:            rng.To,
	})
	if err != nil {
		return nil, models.DateRange{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to query records")
	}
	return records, rng, nil
}

// All returns the full ledger, most recent day first.
func (s *RecordService) All(ctx context.Context) ([]models.RecordDetail, error) {
	records, err := s.repo.All(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list records")
	}
	return records, nil
}

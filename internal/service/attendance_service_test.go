package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jmtenga/attendance-api/internal/models"
	appErrors "github.com/jmtenga/attendance-api/pkg/errors"
)

type mockAttendanceRepo struct {
	records map[string]models.AttendanceRecord
	roster  []models.RosterRow
	inserts int
}

func attendanceKey(studentID string, date time.Time) string {
	return studentID + "|" + date.Format("2006-01-02")
}

func (m *mockAttendanceRepo) FindByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*models.AttendanceRecord, error) {
	if rec, ok := m.records[attendanceKey(studentID, date)]; ok {
		return &rec, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	if m.records == nil {
		m.records = make(map[string]models.AttendanceRecord)
	}
	if record.ID == "" {
		record.ID = "generated"
	}
	m.inserts++
	m.records[attendanceKey(record.StudentID, record.Date)] = *record
	return nil
}

func (m *mockAttendanceRepo) HistoryByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	out := make([]models.AttendanceRecord, 0)
	for _, rec := range m.records {
		if rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepo) Roster(ctx context.Context, date time.Time) ([]models.RosterRow, error) {
	return m.roster, nil
}

func confirmedAccounts(ids ...string) *mockStudentRepo {
	students := make(map[string]models.Student, len(ids))
	for _, id := range ids {
		students[id] = models.Student{ID: id, StudentID: "S-" + id, FullName: "Student " + id, Confirmed: true}
	}
	return &mockStudentRepo{students: students}
}

func TestAttendanceServiceMark(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, confirmedAccounts("acc-1"), nil, 0, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC) }

	result, err := svc.Mark(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.False(t, result.AlreadyMarked)
	assert.Equal(t, models.AttendanceStatusPresent, result.Record.Status)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), result.Record.Date)
	assert.Equal(t, time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC), result.Record.TimeIn)
	assert.Nil(t, result.Record.TimeOut)
	assert.Equal(t, 1, repo.inserts)
}

func TestAttendanceServiceMarkTwiceSameDay(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, confirmedAccounts("acc-1"), nil, 0, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC) }

	first, err := svc.Mark(context.Background(), "acc-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC) }
	second, err := svc.Mark(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.True(t, second.AlreadyMarked)
	assert.Equal(t, first.Record.ID, second.Record.ID)
	assert.Equal(t, first.Record.TimeIn, second.Record.TimeIn)
	assert.Equal(t, 1, repo.inserts)
}

func TestAttendanceServiceMarkNextDayCreatesNewRecord(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, confirmedAccounts("acc-1"), nil, 0, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC) }

	_, err := svc.Mark(context.Background(), "acc-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2024, 3, 16, 8, 30, 0, 0, time.UTC) }
	result, err := svc.Mark(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.False(t, result.AlreadyMarked)
	assert.Equal(t, 2, repo.inserts)
}

func TestAttendanceServiceMarkUnconfirmed(t *testing.T) {
	accounts := &mockStudentRepo{students: map[string]models.Student{
		"acc-1": {ID: "acc-1", StudentID: "S-001", Confirmed: false},
	}}
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, accounts, nil, 0, zap.NewNop())

	_, err := svc.Mark(context.Background(), "acc-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotAuthorized.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, repo.inserts)
}

func TestAttendanceServiceMarkUnknownStudent(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, &mockStudentRepo{}, nil, 0, zap.NewNop())

	_, err := svc.Mark(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceHistory(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	repo := &mockAttendanceRepo{records: map[string]models.AttendanceRecord{
		attendanceKey("acc-1", day): {ID: "rec-1", StudentID: "acc-1", Date: day, Status: models.AttendanceStatusPresent},
	}}
	svc := NewAttendanceService(repo, confirmedAccounts("acc-1"), nil, 0, zap.NewNop())

	records, err := svc.History(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "rec-1", records[0].ID)
}

func TestAttendanceServiceHistoryUnknownStudent(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, &mockStudentRepo{}, nil, 0, zap.NewNop())

	_, err := svc.History(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceRoster(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	repo := &mockAttendanceRepo{roster: []models.RosterRow{
		{StudentName: "Amina Hassan", Date: day, Status: models.AttendanceStatusPresent},
		{StudentName: "Brian Otieno", Date: day, Status: models.AttendanceStatusAbsent},
	}}
	svc := NewAttendanceService(repo, confirmedAccounts(), nil, 0, zap.NewNop())

	rows, err := svc.Roster(context.Background(), day.Add(13*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.AttendanceStatusAbsent, rows[1].Status)
}

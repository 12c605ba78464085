package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmtenga/attendance-api/internal/models"
)

func newAttendanceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositoryFindByStudentAndDate(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "student_id", "date", "time_in", "time_out", "status"}).
		AddRow("rec-1", "acc-1", day, day.Add(8*time.Hour), nil, "Present")
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_records WHERE student_id = $1 AND date = $2")).
		WithArgs("acc-1", day).
		WillReturnRows(rows)

	record, err := repo.FindByStudentAndDate(context.Background(), "acc-1", day)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", record.ID)
	assert.Equal(t, models.AttendanceStatusPresent, record.Status)
	assert.Nil(t, record.TimeOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryFindByStudentAndDateNoRows(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_records WHERE student_id = $1 AND date = $2")).
		WithArgs("acc-1", day).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByStudentAndDate(context.Background(), "acc-1", day)
	require.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance_records").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.AttendanceRecord{StudentID: "acc-1", Date: time.Now(), TimeIn: time.Now(), Status: models.AttendanceStatusPresent}
	err := repo.Insert(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryHistoryByStudent(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "student_id", "date", "time_in", "time_out", "status"}).
		AddRow("rec-2", "acc-1", day, day.Add(8*time.Hour), nil, "Present").
		AddRow("rec-1", "acc-1", day.AddDate(0, 0, -1), day.Add(-16*time.Hour), nil, "Present")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1 ORDER BY date DESC")).
		WithArgs("acc-1").
		WillReturnRows(rows)

	records, err := repo.HistoryByStudent(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec-2", records[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryRoster(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"student_name", "date", "status"}).
		AddRow("Amina Hassan", day, "Present").
		AddRow("Brian Otieno", day, "Absent")
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(a.status, 'Absent')")).
		WithArgs(day).
		WillReturnRows(rows)

	roster, err := repo.Roster(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, models.AttendanceStatusAbsent, roster[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryQueryWithStudentFilter(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "student_id", "date", "time_in", "time_out", "status", "student_number", "student_name", "course"}).
		AddRow("rec-1", "acc-1", from, from.Add(8*time.Hour), nil, "Present", "S-001", "Amina Hassan", "Computer Science")
	mock.ExpectQuery(regexp.QuoteMeta("a.date BETWEEN $1 AND $2 AND s.student_id = $3")).
		WithArgs(from, to, "S-001").
		WillReturnRows(rows)

	records, err := repo.Query(context.Background(), models.RecordFilter{From: from, To: to, StudentNumber: "S-001"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "S-001", records[0].StudentNumber)
	assert.Equal(t, "Computer Science", records[0].Course)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryAll(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "student_id", "date", "time_in", "time_out", "status", "student_number", "student_name", "course"}).
		AddRow("rec-1", "acc-1", day, day.Add(8*time.Hour), nil, "Present", "S-001", "Amina Hassan", "Computer Science")
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.date DESC, a.time_in DESC")).
		WillReturnRows(rows)

	records, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

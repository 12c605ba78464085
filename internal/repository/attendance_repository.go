package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jmtenga/attendance-api/internal/models"
)

// AttendanceRepository handles persistence for the attendance ledger.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// FindByStudentAndDate fetches the record for (student, calendar day) if one
// exists. Returns sql.ErrNoRows when the day is unmarked.
func (r *AttendanceRepository) FindByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*models.AttendanceRecord, error) {
	const query = `SELECT id, student_id, date, time_in, time_out, status
        FROM attendance_records WHERE student_id = $1 AND date = $2`
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, studentID, date); err != nil {
		return nil, err
	}
	return &record, nil
}

// Insert appends a new record to the ledger.
func (r *AttendanceRepository) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	const query = `INSERT INTO attendance_records (id, student_id, date, time_in, time_out, status)
        VALUES (:id, :student_id, :date, :time_in, :time_out, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert attendance record: %w", err)
	}
	return nil
}

// HistoryByStudent returns a student's records, most recent day first.
func (r *AttendanceRepository) HistoryByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, student_id, date, time_in, time_out, status
        FROM attendance_records WHERE student_id = $1 ORDER BY date DESC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("student attendance history: %w", err)
	}
	return records, nil
}

// Roster emits one row per existing student for the given day, synthesizing
// Absent for students with no stored record. The join happens at read time;
// absence is never persisted.
func (r *AttendanceRepository) Roster(ctx context.Context, date time.Time) ([]models.RosterRow, error) {
	const query = `SELECT s.full_name AS student_name, $1::date AS date, COALESCE(a.status, 'Absent') AS status
        FROM students s
        LEFT JOIN attendance_records a ON a.student_id = s.id AND a.date = $1
        ORDER BY s.full_name ASC`
	var rows []models.RosterRow
	if err := r.db.SelectContext(ctx, &rows, query, date); err != nil {
		return nil, fmt.Errorf("daily roster: %w", err)
	}
	return rows, nil
}

// Query returns ledger rows within the filter's inclusive date range joined
// with student identity, most recent day first.
func (r *AttendanceRepository) Query(ctx context.Context, filter models.RecordFilter) ([]models.RecordDetail, error) {
	where := []string{"a.date BETWEEN $1 AND $2"}
	args := []interface{}{filter.From, filter.To}
	if filter.StudentNumber != "" {
		where = append(where, fmt.Sprintf("s.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentNumber)
	}
	query := fmt.Sprintf(`SELECT a.id, a.student_id, a.date, a.time_in, a.time_out, a.status,
        s.student_id AS student_number, s.full_name AS student_name, s.course
        FROM attendance_records a
        JOIN students s ON s.id = a.student_id
        WHERE %s
        ORDER BY a.date DESC, a.time_in DESC`, strings.Join(where, " AND "))

	var records []models.RecordDetail
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("query attendance records: %w", err)
	}
	return records, nil
}

// All returns the entire ledger joined with student identity, most recent
// day first.
func (r *AttendanceRepository) All(ctx context.Context) ([]models.RecordDetail, error) {
	const query = `SELECT a.id, a.student_id, a.date, a.time_in, a.time_out, a.status,
        s.student_id AS student_number, s.full_name AS student_name, s.course
        FROM attendance_records a
        JOIN students s ON s.id = a.student_id
        ORDER BY a.date DESC, a.time_in DESC`
	var records []models.RecordDetail
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return records, nil
}

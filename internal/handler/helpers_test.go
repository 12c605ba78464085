package handler

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jmtenga/attendance-api/internal/models"
)

// fakeStudentRepo backs the account-facing services with an in-memory map.
type fakeStudentRepo struct {
	students  map[string]models.Student
	deleted   []string
	confirmed []string
}

func (f *fakeStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	out := make([]models.Student, 0, len(f.students))
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (f *fakeStudentRepo) Counts(ctx context.Context) (*models.StudentCounts, error) {
	counts := &models.StudentCounts{}
	for _, s := range f.students {
		counts.Total++
		if s.Confirmed {
			counts.Confirmed++
		} else {
			counts.Pending++
		}
	}
	return counts, nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	for _, s := range f.students {
		if s.Email == email {
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	for _, s := range f.students {
		if s.Email == email && (excludeID == "" || s.ID != excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentRepo) ExistsByStudentID(ctx context.Context, studentID string, excludeID string) (bool, error) {
	for _, s := range f.students {
		if s.StudentID == studentID && (excludeID == "" || s.ID != excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if f.students == nil {
		f.students = make(map[string]models.Student)
	}
	if student.ID == "" {
		student.ID = "generated"
	}
	f.students[student.ID] = *student
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	f.students[student.ID] = *student
	return nil
}

func (f *fakeStudentRepo) Confirm(ctx context.Context, id string, confirmedAt time.Time) error {
	f.confirmed = append(f.confirmed, id)
	if s, ok := f.students[id]; ok {
		s.Confirmed = true
		s.ConfirmationDate = &confirmedAt
		f.students[id] = s
	}
	return nil
}

func (f *fakeStudentRepo) DeleteCascade(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.students, id)
	return nil
}

// fakeAttendanceRepo keeps ledger rows keyed by student and day.
type fakeAttendanceRepo struct {
	records map[string]models.AttendanceRecord
	roster  []models.RosterRow
	details []models.RecordDetail
}

func ledgerKey(studentID string, date time.Time) string {
	return studentID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) FindByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*models.AttendanceRecord, error) {
	if rec, ok := f.records[ledgerKey(studentID, date)]; ok {
		return &rec, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAttendanceRepo) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	if f.records == nil {
		f.records = make(map[string]models.AttendanceRecord)
	}
	if record.ID == "" {
		record.ID = "generated"
	}
	f.records[ledgerKey(record.StudentID, record.Date)] = *record
	return nil
}

func (f *fakeAttendanceRepo) HistoryByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	out := make([]models.AttendanceRecord, 0)
	for _, rec := range f.records {
		if rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) Roster(ctx context.Context, date time.Time) ([]models.RosterRow, error) {
	return f.roster, nil
}

func (f *fakeAttendanceRepo) Query(ctx context.Context, filter models.RecordFilter) ([]models.RecordDetail, error) {
	return f.details, nil
}

func (f *fakeAttendanceRepo) All(ctx context.Context) ([]models.RecordDetail, error) {
	return f.details, nil
}

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jmtenga/attendance-api/internal/models"
)

// StudentRepository manages persistence for student accounts.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns accounts matching the provided filters, newest registrations first.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students s"
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		idx := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.full_name) LIKE $%d OR LOWER(s.email) LIKE $%d OR LOWER(s.student_id) LIKE $%d OR LOWER(s.course) LIKE $%d)", idx, idx, idx, idx))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	switch filter.Status {
	case models.StudentStatusPending:
		conditions = append(conditions, "s.confirmed = false")
	case models.StudentStatusConfirmed:
		conditions = append(conditions, "s.confirmed = true")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.student_id, s.full_name, s.course, s.email, s.gender, s.password_hash, s.confirmed, s.confirmation_date, s.registration_date
        %s ORDER BY s.registration_date DESC LIMIT %d OFFSET %d`, base, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// Counts summarises the account population by approval state.
func (r *StudentRepository) Counts(ctx context.Context) (*models.StudentCounts, error) {
	const query = `SELECT COUNT(*) AS total,
        COUNT(*) FILTER (WHERE confirmed = false) AS pending,
        COUNT(*) FILTER (WHERE confirmed = true) AS confirmed
        FROM students`
	var counts models.StudentCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count students by status: %w", err)
	}
	return &counts, nil
}

// FindByID fetches an account by primary key.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, student_id, full_name, course, email, gender, password_hash, confirmed, confirmation_date, registration_date
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEmail fetches an account by email. Emails are stored lowercase; the
// caller is expected to normalise before lookup.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	const query = `SELECT id, student_id, full_name, course, email, gender, password_hash, confirmed, confirmation_date, registration_date
        FROM students WHERE email = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEmail checks whether the email is taken, optionally excluding an account.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE email = $1"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

// ExistsByStudentID checks whether the business identifier is taken,
// optionally excluding an account.
func (r *StudentRepository) ExistsByStudentID(ctx context.Context, studentID string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE student_id = $1"
	args := []interface{}{studentID}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student id: %w", err)
	}
	return true, nil
}

// Create inserts a new, unconfirmed account.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.RegistrationDate.IsZero() {
		student.RegistrationDate = time.Now().UTC()
	}
	const query = `INSERT INTO students (id, student_id, full_name, course, email, gender, password_hash, confirmed, confirmation_date, registration_date)
        VALUES (:id, :student_id, :full_name, :course, :email, :gender, :password_hash, :confirmed, :confirmation_date, :registration_date)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies the identity fields of an existing account.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET student_id = :student_id, full_name = :full_name, course = :course, email = :email, gender = :gender WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Confirm flips the account to confirmed and stamps the approval time.
func (r *StudentRepository) Confirm(ctx context.Context, id string, confirmedAt time.Time) error {
	const query = `UPDATE students SET confirmed = true, confirmation_date = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, confirmedAt); err != nil {
		return fmt.Errorf("confirm student: %w", err)
	}
	return nil
}

// DeleteCascade removes the account and all of its attendance records inside
// one transaction. Attendance rows go first so the store is never left with
// orphans regardless of schema-level referential actions.
func (r *StudentRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete student: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_records WHERE student_id = $1`, id); err != nil {
		return fmt.Errorf("delete attendance for student: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete student: %w", err)
	}
	committed = true
	return nil
}

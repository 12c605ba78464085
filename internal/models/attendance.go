package models

import "time"

// AttendanceStatus represents the status recorded for a day.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Present"
	AttendanceStatusAbsent  AttendanceStatus = "Absent"
	// AttendanceStatusLate is part of the vocabulary but no operation writes
	// it yet; kept for forward compatibility with check-out tracking.
	AttendanceStatusLate AttendanceStatus = "Late"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one stored presence event. Absent days are never
// persisted; they are synthesized when building the roster. TimeOut is
// reserved for a future check-out flow.
type AttendanceRecord struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	Date      time.Time        `db:"date" json:"date"`
	TimeIn    time.Time        `db:"time_in" json:"time_in"`
	TimeOut   *time.Time       `db:"time_out" json:"time_out,omitempty"`
	Status    AttendanceStatus `db:"status" json:"status"`
}

// RecordDetail joins an attendance record with the owning student's identity.
type RecordDetail struct {
	AttendanceRecord
	StudentNumber string `db:"student_number" json:"student_number"`
	StudentName   string `db:"student_name" json:"student_name"`
	Course        string `db:"course" json:"course"`
}

// RecordFilter bounds a ledger query to an inclusive date range, optionally
// narrowed to one student business identifier.
type RecordFilter struct {
	StudentNumber string
	From          time.Time
	To            time.Time
}

// RosterRow is one synthesized line of the daily roster.
type RosterRow struct {
	StudentName string           `db:"student_name" json:"student_name"`
	Date        time.Time        `db:"date" json:"date"`
	Status      AttendanceStatus `db:"status" json:"status"`
}

// MarkResult reports the outcome of a mark-attendance call.
type MarkResult struct {
	Record        *AttendanceRecord `json:"record"`
	AlreadyMarked bool              `json:"already_marked"`
}

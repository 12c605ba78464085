package models

import "time"

// StudentStatus filters account listings by approval state.
type StudentStatus string

const (
	StudentStatusAll       StudentStatus = "all"
	StudentStatusPending   StudentStatus = "pending"
	StudentStatusConfirmed StudentStatus = "confirmed"
)

// Valid reports whether the status filter is a supported value.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusAll, StudentStatusPending, StudentStatusConfirmed:
		return true
	default:
		return false
	}
}

// Student represents a registered student account. PasswordHash is opaque and
// never serialised.
type Student struct {
	ID               string     `db:"id" json:"id"`
	StudentID        string     `db:"student_id" json:"student_id"`
	FullName         string     `db:"full_name" json:"full_name"`
	Course           string     `db:"course" json:"course"`
	Email            string     `db:"email" json:"email"`
	Gender           string     `db:"gender" json:"gender"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Confirmed        bool       `db:"confirmed" json:"confirmed"`
	ConfirmationDate *time.Time `db:"confirmation_date" json:"confirmation_date,omitempty"`
	RegistrationDate time.Time  `db:"registration_date" json:"registration_date"`
}

// StudentFilter encapsulates search parameters for listing accounts.
type StudentFilter struct {
	Search   string
	Status   StudentStatus
	Page     int
	PageSize int
}

// StudentCounts summarises the account population by approval state.
type StudentCounts struct {
	Total     int `db:"total" json:"total"`
	Pending   int `db:"pending" json:"pending"`
	Confirmed int `db:"confirmed" json:"confirmed"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role distinguishes the two session kinds the service knows about.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStudent Role = "STUDENT"
)

// LoginRequest holds the role selector and credentials. Students log in with
// their email address; the admin uses the configured username.
type LoginRequest struct {
	Role     string `json:"role" validate:"required,oneof=admin student"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionInfo describes the authenticated subject in responses.
type SessionInfo struct {
	Role      Role   `json:"role"`
	StudentID string `json:"student_id,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// LoginResponse returns the issued token and session description.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	IssuedAt    time.Time   `json:"issued_at"`
	Session     SessionInfo `json:"session"`
}

// JWTClaims is the explicit session object carried by each request: role plus
// subject account id, nothing process-global.
type JWTClaims struct {
	Role      Role   `json:"role"`
	StudentID string `json:"student_id,omitempty"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

package models

import "time"

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type UserClaims struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Phone    string `json:"phone_number,omitempty"`
	IsActive bool   `json:"is_active"`
	IsStaff  bool   `json:"is_staff"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// VerifiedToken: результат успешной проверки подписи/срока/типа.
type VerifiedToken struct {
	Subject   string
	Claims    *UserClaims
	JTI       string
	Type      string
	ExpiresAt time.Time
}

package models

import "time"

// VerificationCode: одноразовый код для сброса пароля.
// Validation=true пока код не использован.
type VerificationCode struct {
	ID             int64     `json:"id"`
	UserID         int       `json:"user_id"`
	Code           string    `json:"-"`
	Validation     bool      `json:"validation"`
	ExpirationTime time.Time `json:"expiration_time"`
	CreatedAt      time.Time `json:"created_at"`
}

package models

type User struct {
	ID           int     `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone_number,omitempty"`
	PasswordHash string  `json:"-"` // не отдаём наружу
	IsActive     bool    `json:"is_active"`
	IsStaff      bool    `json:"is_staff"`
}

// Claims: снимок флагов пользователя, который кладём в токен.
func (u *User) Claims() UserClaims {
	c := UserClaims{
		ID:       u.ID,
		Email:    u.Email,
		IsActive: u.IsActive,
		IsStaff:  u.IsStaff,
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	return c
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	Username    string  `json:"username" binding:"required"`
	Email       string  `json:"email" binding:"required"`
	PhoneNumber *string `json:"phone_number"`
	Password    string  `json:"password" binding:"required"`
	Password2   string  `json:"password2"`
}

type ResetPasswordRequest struct {
	Username     string `json:"username" binding:"required"`
	Code         string `json:"code" binding:"required"`
	NewPassword  string `json:"new_password" binding:"required"`
	NewPassword2 string `json:"new_password2"`
}

type ChangePasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

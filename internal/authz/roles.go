package authz

import "shopauth/internal/models"

const (
	RoleUser  = "user"
	RoleStaff = "staff"
)

// RoleOf: роль по claims из токена. Без claims считаем обычным пользователем.
func RoleOf(c *models.UserClaims) string {
	if c != nil && c.IsStaff {
		return RoleStaff
	}
	return RoleUser
}

func IsStaff(c *models.UserClaims) bool {
	return RoleOf(c) == RoleStaff
}

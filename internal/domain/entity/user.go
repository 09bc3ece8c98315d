package entity

import "time"

// Roles válidos para User.
const (
	RoleOrganization = "organization"
	RoleMentor       = "mentor"
	RoleAdmin        = "admin"
	RoleOwner        = "owner"
)

// User representa un actor de la plataforma identificado por su Telegram ID.
type User struct {
	ID         string
	TelegramID int64
	Username   string
	FullName   string
	Role       string // organization, mentor, admin, owner
	IsBlocked  bool
	CreatedAt  time.Time
}

// IsStaff indica si el usuario puede moderar (admin u owner).
func (u *User) IsStaff() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleOwner)
}

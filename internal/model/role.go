package model

// Role — роль пользователя. Хранится прямо в users.role (одна роль на пользователя).
type Role string

const (
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}

// IsStaff — сотрудники и администраторы.
func (r Role) IsStaff() bool { return r == RoleEmployee || r == RoleAdmin }

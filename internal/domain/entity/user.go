package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
)

// User representa un usuario del sistema: administrador o autor con contrato.
type User struct {
	ID           string
	Username     string
	PasswordHash string  // bcrypt hash, nunca plano en dominio después de persistir
	Role         string  // admin, author
	ContractID   *string // obligatorio para autores
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Contract devuelve el contrato del usuario o "" si no tiene.
func (u *User) Contract() string {
	if u == nil || u.ContractID == nil {
		return ""
	}
	return *u.ContractID
}

// IsValidRole indica si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleAuthor
}

package models

import "time"

// Role is the single role a user holds for the lifetime of the account.
type Role string

const (
	RoleClient   Role = "client"
	RoleBailleur Role = "bailleur"
	RoleAgent    Role = "agent"
	RoleManager  Role = "manager"
)

// Roles lists every role in display order.
var Roles = []Role{RoleClient, RoleBailleur, RoleAgent, RoleManager}

// SelfServiceRoles are the roles offered by the public registration form.
var SelfServiceRoles = []Role{RoleClient, RoleBailleur}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User is an account. Users are deactivated, never deleted.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Username      string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email         string    `gorm:"size:255;not null" json:"email"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	Role          Role      `gorm:"size:20;not null;index" json:"role"`
	Nom           string    `gorm:"size:100;not null" json:"nom"`
	Prenom        string    `gorm:"size:100" json:"prenom,omitempty"`
	RaisonSociale string    `gorm:"size:255" json:"raison_sociale,omitempty"`
	Telephone     string    `gorm:"size:50" json:"telephone,omitempty"`
	Adresse       string    `gorm:"type:text" json:"adresse,omitempty"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
}

// FullName returns "Prenom Nom", or just Nom when no first name is set.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	if u.Prenom == "" {
		return u.Nom
	}
	return u.Prenom + " " + u.Nom
}

// Is reports whether the user holds one of the given roles.
func (u *User) Is(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

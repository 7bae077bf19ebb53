package models

import "time"

// ClientAssignment links a client to an agent. At most one row per client
// is active, enforced by a partial unique index; reassignment deactivates
// the previous rows.
type ClientAssignment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	ClientID   uint      `gorm:"index;not null;uniqueIndex:idx_client_assignments_active,where:is_active" json:"client_id"`
	Client     *User     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	AgentID    uint      `gorm:"index;not null" json:"agent_id"`
	Agent      *User     `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	AssignedBy uint      `gorm:"not null" json:"assigned_by"`
	IsActive   bool      `gorm:"not null;default:true;index" json:"is_active"`
}

// All returns every model for schema migration.
func All() []any {
	return []any{
		&User{},
		&Property{},
		&Appointment{},
		&Favorite{},
		&ClientAssignment{},
	}
}

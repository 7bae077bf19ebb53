package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// AppointmentStatuses lists every status in lifecycle order.
var AppointmentStatuses = []AppointmentStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// Appointment kinds.
const (
	AppointmentVisit       = "visite"
	AppointmentTransaction = "transaction"
)

// AppointmentTypes lists the kinds a client can request.
var AppointmentTypes = []string{AppointmentVisit, AppointmentTransaction}

// Appointment is a client's request to meet the agent of a property.
type Appointment struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	ClientID   uint              `gorm:"index;not null" json:"client_id"`
	Client     *User             `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	PropertyID uint              `gorm:"index;not null" json:"property_id"`
	Property   *Property         `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	AgentID    uint              `gorm:"index;not null" json:"agent_id"`
	Agent      *User             `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	DateRdv    time.Time         `gorm:"not null;index" json:"date_rdv"`
	TypeRdv    string            `gorm:"size:20;not null" json:"type_rdv"`
	Notes      string            `gorm:"type:text" json:"notes,omitempty"`
	Status     AppointmentStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
}

// transitions maps a source status to the targets each role may move it to.
var transitions = map[AppointmentStatus]map[AppointmentStatus][]Role{
	StatusPending: {
		StatusCancelled: {RoleClient},
		StatusConfirmed: {RoleAgent, RoleManager},
		StatusCompleted: {RoleAgent, RoleManager},
	},
	StatusConfirmed: {
		StatusCompleted: {RoleAgent, RoleManager},
	},
}

// CanTransition reports whether a user with role may move an appointment
// from one status to another. Cancelled and completed are terminal.
func CanTransition(role Role, from, to AppointmentStatus) bool {
	for _, r := range transitions[from][to] {
		if r == role {
			return true
		}
	}
	return false
}

// NextStatuses returns the targets role may pick from the current status.
func (a *Appointment) NextStatuses(role Role) []AppointmentStatus {
	var out []AppointmentStatus
	for _, to := range AppointmentStatuses {
		if CanTransition(role, a.Status, to) {
			out = append(out, to)
		}
	}
	return out
}

// Involves reports whether uid is the client or the agent of the appointment.
func (a *Appointment) Involves(uid uint) bool {
	return a != nil && uid != 0 && (a.ClientID == uid || a.AgentID == uid)
}

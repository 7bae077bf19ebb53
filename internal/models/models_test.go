package models

import (
	"testing"
)

func uintPtr(v uint) *uint { return &v }

func TestProperty_OwnedBy(t *testing.T) {
	p := &Property{BailleurID: uintPtr(3), AgentID: uintPtr(7)}
	tests := []struct {
		name string
		uid  uint
		want bool
	}{
		{"landlord", 3, true},
		{"agent", 7, true},
		{"stranger", 9, false},
		{"anonymous", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.OwnedBy(tt.uid); got != tt.want {
				t.Errorf("OwnedBy(%d) = %v, want %v", tt.uid, got, tt.want)
			}
		})
	}

	var nilProp *Property
	if nilProp.OwnedBy(3) {
		t.Error("nil property should not be owned")
	}
}

func TestProperty_HasAgent(t *testing.T) {
	if (&Property{}).HasAgent() {
		t.Error("property without agent reported HasAgent")
	}
	if !(&Property{AgentID: uintPtr(2)}).HasAgent() {
		t.Error("property with agent reported no agent")
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		role     Role
		from, to AppointmentStatus
		want     bool
	}{
		{RoleClient, StatusPending, StatusCancelled, true},
		{RoleClient, StatusPending, StatusConfirmed, false},
		{RoleClient, StatusConfirmed, StatusCancelled, false},
		{RoleAgent, StatusPending, StatusConfirmed, true},
		{RoleAgent, StatusPending, StatusCompleted, true},
		{RoleAgent, StatusConfirmed, StatusCompleted, true},
		{RoleAgent, StatusPending, StatusCancelled, false},
		{RoleManager, StatusPending, StatusConfirmed, true},
		{RoleManager, StatusConfirmed, StatusCompleted, true},
		{RoleAgent, StatusCompleted, StatusPending, false},
		{RoleAgent, StatusCancelled, StatusConfirmed, false},
		{RoleAgent, StatusCompleted, StatusConfirmed, false},
		{RoleBailleur, StatusPending, StatusConfirmed, false},
	}
	for _, tt := range tests {
		name := string(tt.role) + ":" + string(tt.from) + "->" + string(tt.to)
		t.Run(name, func(t *testing.T) {
			if got := CanTransition(tt.role, tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppointment_NextStatuses(t *testing.T) {
	a := &Appointment{Status: StatusPending}
	got := a.NextStatuses(RoleAgent)
	if len(got) != 2 || got[0] != StatusConfirmed || got[1] != StatusCompleted {
		t.Errorf("NextStatuses(agent) = %v", got)
	}
	a.Status = StatusCompleted
	if got := a.NextStatuses(RoleManager); len(got) != 0 {
		t.Errorf("completed appointment should be terminal, got %v", got)
	}
}

func TestUser_FullName(t *testing.T) {
	if got := (&User{Nom: "Martin", Prenom: "Alice"}).FullName(); got != "Alice Martin" {
		t.Errorf("FullName() = %q", got)
	}
	if got := (&User{Nom: "Martin"}).FullName(); got != "Martin" {
		t.Errorf("FullName() = %q", got)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if Role("admin").Valid() {
		t.Error("admin is not a role")
	}
}

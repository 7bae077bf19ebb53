package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/diewo77/immo-gestion/internal/db"
	"github.com/diewo77/immo-gestion/internal/models"
	"github.com/diewo77/immo-gestion/validation"
	"gorm.io/gorm"
)

// BookingInput is the appointment request form of a property card.
type BookingInput struct {
	PropertyID uint
	DateRdv    time.Time
	TypeRdv    string
	Notes      string
}

// Validate checks the form against today's date.
func (in BookingInput) Validate(now time.Time) validation.Violations {
	v := validation.Violations{}
	if in.DateRdv.IsZero() {
		v["date_rdv"] = "required"
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		validation.NotBefore("date_rdv", in.DateRdv, today, v)
	}
	validation.Required("type_rdv", in.TypeRdv, v)
	validation.OneOf("type_rdv", in.TypeRdv, models.AppointmentTypes, v)
	return v
}

// AppointmentService books visits and moves them through their lifecycle.
type AppointmentService struct {
	gw *db.Gateway
}

func NewAppointmentService(gw *db.Gateway) *AppointmentService {
	return &AppointmentService{gw: gw}
}

// Create books a pending appointment with the property's agent. A property
// without an agent yields ErrNoAgentAssigned and nothing is stored.
func (s *AppointmentService) Create(ctx context.Context, clientID uint, in BookingInput) (uint, error) {
	var p models.Property
	if err := s.gw.DB(ctx).First(&p, in.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, s.gw.Fail(ctx, "create appointment", err)
	}
	if !p.HasAgent() {
		return 0, ErrNoAgentAssigned
	}
	if !p.IsAvailable {
		return 0, ErrPropertyUnavailable
	}

	a := models.Appointment{
		ClientID:   clientID,
		PropertyID: p.ID,
		AgentID:    *p.AgentID,
		DateRdv:    in.DateRdv,
		TypeRdv:    in.TypeRdv,
		Notes:      strings.TrimSpace(in.Notes),
		Status:     models.StatusPending,
	}
	if err := s.gw.DB(ctx).Create(&a).Error; err != nil {
		return 0, s.gw.Fail(ctx, "create appointment", err)
	}
	return a.ID, nil
}

// Get returns one appointment.
func (s *AppointmentService) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	var a models.Appointment
	if err := s.gw.DB(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.gw.Fail(ctx, "get appointment", err)
	}
	return &a, nil
}

// ListForClient returns a client's appointments with property and agent,
// latest date first.
func (s *AppointmentService) ListForClient(ctx context.Context, clientID uint) ([]models.Appointment, error) {
	return s.list(ctx, "list client appointments",
		s.gw.DB(ctx).Preload("Property").Preload("Agent").Where("client_id = ?", clientID))
}

// ListForAgent returns the appointments an agent handles with property and
// client, latest date first.
func (s *AppointmentService) ListForAgent(ctx context.Context, agentID uint) ([]models.Appointment, error) {
	return s.list(ctx, "list agent appointments",
		s.gw.DB(ctx).Preload("Property").Preload("Client").Where("agent_id = ?", agentID))
}

// ListAll returns every appointment. Used by the manager view.
func (s *AppointmentService) ListAll(ctx context.Context) ([]models.Appointment, error) {
	return s.list(ctx, "list appointments",
		s.gw.DB(ctx).Preload("Property").Preload("Client").Preload("Agent"))
}

func (s *AppointmentService) list(ctx context.Context, op string, q *gorm.DB) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := q.Order("date_rdv DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, s.gw.Fail(ctx, op, err)
	}
	return out, nil
}

// Transition moves an appointment to status to, if role may do so from its
// current status.
func (s *AppointmentService) Transition(ctx context.Context, id uint, role models.Role, to models.AppointmentStatus) error {
	return s.gw.Transaction(ctx, func(tx *gorm.DB) error {
		var a models.Appointment
		if err := tx.First(&a, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return s.gw.Fail(ctx, "transition appointment", err)
		}
		if !models.CanTransition(role, a.Status, to) {
			return ErrInvalidTransition
		}
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", id, a.Status).
			Update("status", to)
		if res.Error != nil {
			return s.gw.Fail(ctx, "transition appointment", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return nil
	})
}

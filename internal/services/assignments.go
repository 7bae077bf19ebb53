package services

import (
	"context"
	"errors"

	"github.com/diewo77/immo-gestion/internal/db"
	"github.com/diewo77/immo-gestion/internal/models"
	"gorm.io/gorm"
)

// AssignmentService links clients to agents.
type AssignmentService struct {
	gw *db.Gateway
}

func NewAssignmentService(gw *db.Gateway) *AssignmentService {
	return &AssignmentService{gw: gw}
}

// Assign makes agentID the client's only active agent. Previous active rows
// are deactivated in the same transaction as the insert.
func (s *AssignmentService) Assign(ctx context.Context, clientID, agentID, managerID uint) error {
	return s.gw.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.requireActiveRole(ctx, tx, clientID, models.RoleClient); err != nil {
			return err
		}
		if err := s.requireActiveRole(ctx, tx, agentID, models.RoleAgent); err != nil {
			return err
		}

		err := tx.Model(&models.ClientAssignment{}).
			Where("client_id = ? AND is_active = ?", clientID, true).
			Update("is_active", false).Error
		if err != nil {
			return s.gw.Fail(ctx, "assign client", err)
		}
		row := models.ClientAssignment{
			ClientID:   clientID,
			AgentID:    agentID,
			AssignedBy: managerID,
			IsActive:   true,
		}
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAssignmentConflict
			}
			return s.gw.Fail(ctx, "assign client", err)
		}
		return nil
	})
}

func (s *AssignmentService) requireActiveRole(ctx context.Context, tx *gorm.DB, id uint, role models.Role) error {
	var u models.User
	err := tx.Where("id = ? AND role = ? AND is_active = ?", id, role, true).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return s.gw.Fail(ctx, "assign client", err)
	}
	return nil
}

// ClientsOf returns the active assignments of an agent with the client
// loaded, most recent first.
func (s *AssignmentService) ClientsOf(ctx context.Context, agentID uint) ([]models.ClientAssignment, error) {
	var out []models.ClientAssignment
	err := s.gw.DB(ctx).Preload("Client").
		Where("agent_id = ? AND is_active = ?", agentID, true).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, s.gw.Fail(ctx, "list agent clients", err)
	}
	return out, nil
}

// ListActive returns every active assignment with both parties loaded.
func (s *AssignmentService) ListActive(ctx context.Context) ([]models.ClientAssignment, error) {
	var out []models.ClientAssignment
	err := s.gw.DB(ctx).Preload("Client").Preload("Agent").
		Where("is_active = ?", true).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, s.gw.Fail(ctx, "list assignments", err)
	}
	return out, nil
}

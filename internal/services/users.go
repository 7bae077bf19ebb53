package services

import (
	"context"
	"errors"

	"github.com/diewo77/immo-gestion/internal/db"
	"github.com/diewo77/immo-gestion/internal/models"
	"gorm.io/gorm"
)

// UserService reads accounts and toggles their active flag.
type UserService struct {
	gw *db.Gateway
}

func NewUserService(gw *db.Gateway) *UserService {
	return &UserService{gw: gw}
}

// ByID returns the account with id, active or not.
func (s *UserService) ByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.gw.DB(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.gw.Fail(ctx, "user by id", err)
	}
	return &u, nil
}

// ListByRole returns active accounts with role, ordered by last name.
func (s *UserService) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := s.gw.DB(ctx).
		Where("role = ? AND is_active = ?", role, true).
		Order("nom").Order("id").
		Find(&users).Error
	if err != nil {
		return nil, s.gw.Fail(ctx, "list users by role", err)
	}
	return users, nil
}

// ListAll returns every account ordered by role then last name.
func (s *UserService) ListAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.gw.DB(ctx).Order("role").Order("nom").Order("id").Find(&users).Error; err != nil {
		return nil, s.gw.Fail(ctx, "list users", err)
	}
	return users, nil
}

// IsActive reports whether id names an existing, active account.
func (s *UserService) IsActive(ctx context.Context, id uint) bool {
	u, err := s.ByID(ctx, id)
	return err == nil && u.IsActive
}

// SetActive activates or deactivates an account. Managers cannot be
// toggled.
func (s *UserService) SetActive(ctx context.Context, id uint, active bool) error {
	u, err := s.ByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == models.RoleManager {
		return ErrForbidden
	}
	return s.gw.Execute(ctx, db.FetchNone, nil, "UPDATE users SET is_active = ? WHERE id = ?", active, id)
}

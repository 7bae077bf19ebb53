package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/immo-gestion/internal/db"
	"github.com/diewo77/immo-gestion/internal/models"
	"github.com/diewo77/immo-gestion/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService registers accounts and checks credentials.
type AuthService struct {
	gw   *db.Gateway
	cost int
}

func NewAuthService(gw *db.Gateway) *AuthService {
	return &AuthService{gw: gw, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// RegisterInput carries the public sign-up form.
type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	Role          models.Role
	Nom           string
	Prenom        string
	RaisonSociale string
	Telephone     string
	Adresse       string
}

// Validate checks the mandatory fields of the sign-up form.
func (in RegisterInput) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("username", in.Username, v)
	validation.Required("password", in.Password, v)
	validation.Required("nom", in.Nom, v)
	validation.Required("email", in.Email, v)
	if !in.Role.Valid() {
		v["role"] = "invalid_choice"
	}
	return v
}

// Register creates an active account and returns its id. An existing
// username yields ErrUsernameTaken and no row is written.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uint, error) {
	in.Username = strings.TrimSpace(in.Username)

	var count int64
	if err := s.gw.DB(ctx).Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return 0, s.gw.Fail(ctx, "register", err)
	}
	if count > 0 {
		return 0, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		Username:      in.Username,
		Email:         strings.TrimSpace(in.Email),
		PasswordHash:  string(hash),
		Role:          in.Role,
		Nom:           in.Nom,
		Prenom:        in.Prenom,
		RaisonSociale: in.RaisonSociale,
		Telephone:     in.Telephone,
		Adresse:       in.Adresse,
		IsActive:      true,
	}
	if err := s.gw.DB(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrUsernameTaken
		}
		return 0, s.gw.Fail(ctx, "register", err)
	}
	return u.ID, nil
}

// Login returns the account matching the credentials. Unknown usernames,
// wrong passwords and deactivated accounts all yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	var u models.User
	err := s.gw.DB(ctx).Where("username = ?", strings.TrimSpace(username)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, s.gw.Fail(ctx, "login", err)
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

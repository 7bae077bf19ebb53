package services

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/immo-gestion/internal/db"
	"github.com/diewo77/immo-gestion/internal/models"
	"github.com/diewo77/immo-gestion/validation"
	"gorm.io/gorm"
)

// PropertyFilter narrows the public listing. Zero fields are ignored and
// set fields are AND-combined.
type PropertyFilter struct {
	TypeBien        string
	TransactionType string
	PrixMin         *float64
	PrixMax         *float64
}

// PropertyInput is the add-listing form.
type PropertyInput struct {
	Titre           string
	TypeBien        string
	UsagePossible   string
	TransactionType string
	SituationGeo    string
	Taille          float64
	Prix            float64
	Description     string
	IsFeatured      bool
}

func (in PropertyInput) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("titre", in.Titre, v)
	validation.Required("type_bien", in.TypeBien, v)
	validation.OneOf("type_bien", in.TypeBien, models.PropertyTypes, v)
	validation.Required("usage_possible", in.UsagePossible, v)
	validation.OneOf("usage_possible", in.UsagePossible, models.PropertyUsages, v)
	validation.Required("transaction_type", in.TransactionType, v)
	validation.OneOf("transaction_type", in.TransactionType, models.TransactionTypes, v)
	validation.Required("situation_geo", in.SituationGeo, v)
	validation.Required("description", in.Description, v)
	validation.PositiveFloat("prix", in.Prix, v)
	validation.NonNegativeFloat("taille", in.Taille, v)
	return v
}

// PropertyUpdate is the inline edit form of the landlord page.
type PropertyUpdate struct {
	Titre           string
	TypeBien        string
	TransactionType string
	Taille          float64
	Prix            float64
	Description     string
	IsFeatured      bool
}

func (in PropertyUpdate) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("titre", in.Titre, v)
	validation.OneOf("type_bien", in.TypeBien, models.PropertyTypes, v)
	validation.OneOf("transaction_type", in.TransactionType, models.TransactionTypes, v)
	validation.PositiveFloat("prix", in.Prix, v)
	validation.NonNegativeFloat("taille", in.Taille, v)
	return v
}

// PropertyService manages listings.
type PropertyService struct {
	gw *db.Gateway
}

func NewPropertyService(gw *db.Gateway) *PropertyService {
	return &PropertyService{gw: gw}
}

// List returns available listings matching f, featured first then newest.
func (s *PropertyService) List(ctx context.Context, f PropertyFilter) ([]models.Property, error) {
	q := s.gw.DB(ctx).Preload("Bailleur").Preload("Agent").Where("is_available = ?", true)
	if f.TypeBien != "" {
		q = q.Where("type_bien = ?", f.TypeBien)
	}
	if f.TransactionType != "" {
		q = q.Where("transaction_type = ?", f.TransactionType)
	}
	if f.PrixMin != nil {
		q = q.Where("prix >= ?", *f.PrixMin)
	}
	if f.PrixMax != nil {
		q = q.Where("prix <= ?", *f.PrixMax)
	}

	var out []models.Property
	if err := q.Order("is_featured DESC").Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, s.gw.Fail(ctx, "list properties", err)
	}
	return out, nil
}

// Get returns one listing with its landlord and agent loaded.
func (s *PropertyService) Get(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	if err := s.gw.DB(ctx).Preload("Bailleur").Preload("Agent").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.gw.Fail(ctx, "get property", err)
	}
	return &p, nil
}

// ListByLandlord returns every listing of a landlord, available or not.
func (s *PropertyService) ListByLandlord(ctx context.Context, bailleurID uint) ([]models.Property, error) {
	var out []models.Property
	err := s.gw.DB(ctx).Preload("Agent").
		Where("bailleur_id = ?", bailleurID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, s.gw.Fail(ctx, "list landlord properties", err)
	}
	return out, nil
}

// Create stores a new available listing and returns its id.
func (s *PropertyService) Create(ctx context.Context, in PropertyInput, bailleurID, agentID *uint) (uint, error) {
	p := models.Property{
		BailleurID:      bailleurID,
		AgentID:         agentID,
		Titre:           strings.TrimSpace(in.Titre),
		TypeBien:        in.TypeBien,
		UsagePossible:   in.UsagePossible,
		TransactionType: in.TransactionType,
		SituationGeo:    strings.TrimSpace(in.SituationGeo),
		Taille:          in.Taille,
		Prix:            in.Prix,
		Description:     in.Description,
		IsFeatured:      in.IsFeatured,
		IsAvailable:     true,
	}
	if err := s.gw.DB(ctx).Create(&p).Error; err != nil {
		return 0, s.gw.Fail(ctx, "create property", err)
	}
	return p.ID, nil
}

// Update overwrites the editable fields of a listing.
func (s *PropertyService) Update(ctx context.Context, id uint, in PropertyUpdate) error {
	res := s.gw.DB(ctx).Model(&models.Property{}).Where("id = ?", id).Updates(map[string]any{
		"titre":            strings.TrimSpace(in.Titre),
		"type_bien":        in.TypeBien,
		"transaction_type": in.TransactionType,
		"taille":           in.Taille,
		"prix":             in.Prix,
		"description":      in.Description,
		"is_featured":      in.IsFeatured,
	})
	if res.Error != nil {
		return s.gw.Fail(ctx, "update property", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAvailable publishes or withdraws a listing.
func (s *PropertyService) SetAvailable(ctx context.Context, id uint, available bool) error {
	return s.gw.Execute(ctx, db.FetchNone, nil, "UPDATE properties SET is_available = ? WHERE id = ?", available, id)
}

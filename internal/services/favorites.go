package services

import (
	"context"
	"time"

	"github.com/diewo77/immo-gestion/internal/db"
	"github.com/diewo77/immo-gestion/internal/models"
)

// FavoriteService keeps each client's shortlist. Adding twice is a no-op.
type FavoriteService struct {
	gw *db.Gateway
}

func NewFavoriteService(gw *db.Gateway) *FavoriteService {
	return &FavoriteService{gw: gw}
}

// Add puts propertyID in the client's favorites.
func (s *FavoriteService) Add(ctx context.Context, clientID, propertyID uint) error {
	var exists int64
	if err := s.gw.DB(ctx).Model(&models.Property{}).Where("id = ?", propertyID).Count(&exists).Error; err != nil {
		return s.gw.Fail(ctx, "add favorite", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	return s.gw.Execute(ctx, db.FetchNone, nil,
		"INSERT INTO favorites (client_id, property_id, created_at) VALUES (?, ?, ?) ON CONFLICT (client_id, property_id) DO NOTHING",
		clientID, propertyID, time.Now())
}

// Remove deletes the pair if present.
func (s *FavoriteService) Remove(ctx context.Context, clientID, propertyID uint) error {
	return s.gw.Execute(ctx, db.FetchNone, nil,
		"DELETE FROM favorites WHERE client_id = ? AND property_id = ?", clientID, propertyID)
}

// List returns the client's favorites with their property, most recent first.
func (s *FavoriteService) List(ctx context.Context, clientID uint) ([]models.Favorite, error) {
	var favs []models.Favorite
	err := s.gw.DB(ctx).Preload("Property").
		Where("client_id = ?", clientID).
		Order("created_at DESC").Order("id DESC").
		Find(&favs).Error
	if err != nil {
		return nil, s.gw.Fail(ctx, "list favorites", err)
	}
	return favs, nil
}

// PropertyIDs returns the set of property ids the client has favorited.
func (s *FavoriteService) PropertyIDs(ctx context.Context, clientID uint) (map[uint]bool, error) {
	var ids []uint
	if err := s.gw.Execute(ctx, db.FetchAll, &ids, "SELECT property_id FROM favorites WHERE client_id = ?", clientID); err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

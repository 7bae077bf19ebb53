package models

import "time"

// Favorite marks a property in a client's shortlist. The (client, property)
// pair is unique.
type Favorite struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	ClientID   uint      `gorm:"not null;uniqueIndex:idx_favorite_client_property" json:"client_id"`
	PropertyID uint      `gorm:"not null;uniqueIndex:idx_favorite_client_property" json:"property_id"`
	Property   *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

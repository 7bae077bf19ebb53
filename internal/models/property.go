package models

import "time"

// Property kinds, usages and transaction types offered by the listing forms.
var (
	PropertyTypes    = []string{"Appartement", "Maison", "Bureau", "Commercial", "Terrain"}
	PropertyUsages   = []string{"Résidentiel", "Commercial", "Industriel", "Mixte"}
	TransactionTypes = []string{TransactionSale, TransactionRent}
)

const (
	TransactionSale = "vente"
	TransactionRent = "location"
)

// Property is a listing. BailleurID is nil for agent-authored listings;
// AgentID must be set before a client can book a visit.
type Property struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	BailleurID      *uint     `gorm:"index" json:"bailleur_id,omitempty"`
	Bailleur        *User     `gorm:"foreignKey:BailleurID" json:"bailleur,omitempty"`
	AgentID         *uint     `gorm:"index" json:"agent_id,omitempty"`
	Agent           *User     `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	Titre           string    `gorm:"size:255;not null" json:"titre"`
	TypeBien        string    `gorm:"size:50;not null;index" json:"type_bien"`
	UsagePossible   string    `gorm:"size:50" json:"usage_possible"`
	TransactionType string    `gorm:"size:20;not null;index" json:"transaction_type"`
	SituationGeo    string    `gorm:"size:255" json:"situation_geo"`
	Taille          float64   `json:"taille"`
	Prix            float64   `gorm:"not null" json:"prix"`
	Description     string    `gorm:"type:text" json:"description"`
	IsFeatured      bool      `gorm:"not null;default:false" json:"is_featured"`
	IsAvailable     bool      `gorm:"not null;default:true;index" json:"is_available"`
}

// OwnedBy reports whether uid is the landlord or the responsible agent.
func (p *Property) OwnedBy(uid uint) bool {
	if p == nil || uid == 0 {
		return false
	}
	return (p.BailleurID != nil && *p.BailleurID == uid) || (p.AgentID != nil && *p.AgentID == uid)
}

// HasAgent reports whether an agent is responsible for the listing.
func (p *Property) HasAgent() bool {
	return p != nil && p.AgentID != nil && *p.AgentID != 0
}

// IsRental reports whether the listing is offered for rent.
func (p *Property) IsRental() bool {
	return p.TransactionType == TransactionRent
}

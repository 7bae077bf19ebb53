package db

import (
	"errors"
	"fmt"

	"github.com/diewo77/immo-gestion/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password"

var seedUsers = []models.User{
	{Username: "admin", Email: "admin@immo.com", Role: models.RoleManager, Nom: "Admin", Prenom: "Istrateur"},
	{Username: "agent1", Email: "agent1@immo.com", Role: models.RoleAgent, Nom: "Dupont", Prenom: "Jean"},
	{Username: "bailleur1", Email: "bailleur1@immo.com", Role: models.RoleBailleur, Nom: "Martin", Prenom: "Sophie"},
	{Username: "client1", Email: "client1@immo.com", Role: models.RoleClient, Nom: "Durand", Prenom: "Paul"},
}

var seedProperties = []models.Property{
	{
		Titre: "Superbe Appartement T3 Lumineux - Centre-ville", TypeBien: "Appartement", UsagePossible: "Résidentiel",
		TransactionType: models.TransactionSale, SituationGeo: "Paris 15ème", Taille: 75, Prix: 680000,
		Description: "Description détaillée...", IsFeatured: true,
	},
	{
		Titre: "Maison Familiale avec Jardin", TypeBien: "Maison", UsagePossible: "Résidentiel",
		TransactionType: models.TransactionRent, SituationGeo: "Versailles", Taille: 150, Prix: 2500,
		Description: "Description détaillée...",
	},
}

// Seed creates the demo accounts and listings. Existing usernames and
// titles are skipped, so running it twice changes nothing.
func Seed(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	ids := make(map[string]uint, len(seedUsers))
	for _, u := range seedUsers {
		var existing models.User
		err := db.Where("username = ?", u.Username).First(&existing).Error
		switch {
		case err == nil:
			ids[u.Username] = existing.ID
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		u.PasswordHash = string(hash)
		u.IsActive = true
		if err := db.Create(&u).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		ids[u.Username] = u.ID
	}

	bailleurID, agentID := ids["bailleur1"], ids["agent1"]
	for _, p := range seedProperties {
		var count int64
		if err := db.Model(&models.Property{}).Where("titre = ?", p.Titre).Count(&count).Error; err != nil {
			return fmt.Errorf("seed property: %w", err)
		}
		if count > 0 {
			continue
		}
		p.BailleurID = &bailleurID
		p.AgentID = &agentID
		p.IsAvailable = true
		if err := db.Create(&p).Error; err != nil {
			return fmt.Errorf("seed property %q: %w", p.Titre, err)
		}
	}
	return nil
}

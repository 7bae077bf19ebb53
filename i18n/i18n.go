// Package i18n holds the French and English message catalogue.
package i18n

import (
	"context"
	"strings"
)

const (
	French  = "fr"
	English = "en"
	// Default is used when a code is missing in the requested language.
	Default = French
)

var messages = map[string]map[string]string{
	French: {
		"app_title": "Immo Gestion",
		"tagline":   "Annonces immobilières et rendez-vous",

		// validation
		"required":             "Requis",
		"must_be_positive":     "Doit être positif",
		"must_not_be_negative": "Ne peut pas être négatif",
		"invalid_choice":       "Choix invalide",
		"date_in_past":         "La date ne peut pas être dans le passé",

		// fields
		"username":         "Nom d'utilisateur",
		"password":         "Mot de passe",
		"email":            "Email",
		"role":             "Rôle",
		"nom":              "Nom",
		"prenom":           "Prénom",
		"raison_sociale":   "Raison sociale",
		"telephone":        "Téléphone",
		"adresse":          "Adresse",
		"titre":            "Titre",
		"type_bien":        "Type de bien",
		"usage_possible":   "Usage possible",
		"transaction_type": "Transaction",
		"situation_geo":    "Situation géographique",
		"taille":           "Taille (m²)",
		"prix":             "Prix (€)",
		"prix_min":         "Prix minimum",
		"prix_max":         "Prix maximum",
		"description":      "Description",
		"is_featured":      "Mise en avant",
		"images":           "Images",
		"agent_id":         "Agent responsable",
		"client_id":        "Client",
		"date_rdv":         "Date du rendez-vous",
		"time_rdv":         "Heure",
		"type_rdv":         "Type de rendez-vous",
		"notes":            "Notes",
		"status":           "Statut",
		"created_at":       "Créé le",
		"assigned_at":      "Assigné le",
		"landlord":         "Bailleur",
		"agent":            "Agent",
		"client":           "Client",
		"property":         "Bien",
		"active":           "Actif",
		"actions":          "Actions",

		// roles
		"role_client":   "Client",
		"role_bailleur": "Bailleur",
		"role_agent":    "Agent",
		"role_manager":  "Manager",

		// pages
		"page_properties":    "Biens disponibles",
		"page_favorites":     "Mes favoris",
		"page_appointments":  "Rendez-vous",
		"page_add_property":  "Ajouter un bien",
		"page_my_properties": "Mes biens",
		"page_my_clients":    "Mes clients",
		"page_manage_users":  "Gestion des utilisateurs",
		"page_statistics":    "Statistiques",

		// appointment statuses and types
		"status_pending":   "En attente",
		"status_confirmed": "Confirmé",
		"status_cancelled": "Annulé",
		"status_completed": "Terminé",
		"action_cancelled": "Annuler",
		"action_confirmed": "Confirmer",
		"action_completed": "Terminer",
		"visite":           "Visite",
		"transaction":      "Transaction",
		"vente":            "Vente",
		"location":         "Location",

		// actions and labels
		"login":               "Connexion",
		"logout":              "Déconnexion",
		"register":            "Inscription",
		"submit":              "Valider",
		"save":                "Enregistrer",
		"cancel":              "Annuler",
		"edit":                "Modifier",
		"filter":              "Filtrer",
		"filters":             "Filtres",
		"all":                 "Tous",
		"none":                "Aucun",
		"show_details":        "Voir les détails",
		"hide_details":        "Masquer les détails",
		"book":                "Prendre rendez-vous",
		"close":               "Fermer",
		"add_favorite":        "Ajouter aux favoris",
		"remove_favorite":     "Retirer des favoris",
		"featured":            "En vue",
		"available":           "Disponible",
		"unavailable":         "Indisponible",
		"make_available":      "Remettre en ligne",
		"make_unavailable":    "Retirer de la vente",
		"activate":            "Activer",
		"deactivate":          "Désactiver",
		"assign":              "Assigner",
		"assign_client":       "Assigner un client à un agent",
		"current_assignments": "Affectations en cours",
		"welcome":             "Bienvenue",
		"no_properties":       "Aucun bien ne correspond.",
		"no_favorites":        "Vous n'avez pas encore de favoris.",
		"no_appointments":     "Aucun rendez-vous.",
		"no_clients":          "Aucun client assigné.",
		"no_users":            "Aucun utilisateur.",
		"no_data":             "Pas encore de données.",
		"no_active_clients":   "Aucun client actif.",
		"no_active_agents":    "Aucun agent actif.",
		"login_to_book":       "Connectez-vous pour prendre rendez-vous.",
		"forbidden":           "Accès refusé",
		"not_found":           "Page introuvable",
		"server_error":        "Erreur interne",
		"back_home":           "Retour à l'accueil",

		// statistics
		"total_properties":   "Biens",
		"active_users":       "Utilisateurs actifs",
		"total_appointments": "Rendez-vous",
		"portfolio_value":    "Valeur du portefeuille",
		"average_price":      "Prix moyen",
		"conversion_rate":    "Taux de conversion",
		"tab_properties":     "Biens",
		"tab_users":          "Utilisateurs",
		"tab_appointments":   "Rendez-vous",
		"tab_business":       "Activité",
		"property_types":     "Répartition par type",
		"price_stats":        "Prix par type",
		"geography":          "Répartition géographique",
		"user_roles":         "Répartition par rôle",
		"assignments":        "Affectations",
		"unique_clients":     "Clients distincts",
		"unique_agents":      "Agents distincts",
		"appointment_status": "Rendez-vous par statut",
		"appointment_types":  "Rendez-vous par type",
		"agent_performance":  "Performance des agents",
		"combinations":       "Type × transaction",
		"most_favorited":     "Biens les plus favoris",
		"count":              "Nombre",
		"total":              "Total",
		"completed":          "Terminés",
		"min_price":          "Prix min",
		"max_price":          "Prix max",
		"avg_price":          "Prix moyen",
		"handled":            "Rendez-vous traités",
		"favorite_count":     "Favoris",

		// flash messages
		"flash_login_required":       "Veuillez vous connecter.",
		"flash_login_success":        "Connexion réussie.",
		"flash_logout_success":       "Vous êtes déconnecté.",
		"flash_invalid_credentials":  "Identifiants invalides.",
		"flash_register_success":     "Compte créé, vous pouvez vous connecter.",
		"flash_username_taken":       "Ce nom d'utilisateur est déjà pris.",
		"flash_property_created":     "Bien ajouté.",
		"flash_property_updated":     "Bien mis à jour.",
		"flash_property_available":   "Bien remis en ligne.",
		"flash_property_hidden":      "Bien retiré de la vente.",
		"flash_images_failed":        "Le bien est créé mais les images n'ont pas pu être enregistrées.",
		"flash_invalid_image":        "Formats d'image acceptés : png, jpg, jpeg.",
		"flash_favorite_added":       "Ajouté aux favoris.",
		"flash_favorite_removed":     "Retiré des favoris.",
		"flash_appointment_booked":   "Rendez-vous demandé.",
		"flash_appointment_updated":  "Rendez-vous mis à jour.",
		"flash_no_agent":             "Aucun agent n'est associé à ce bien.",
		"flash_property_unavailable": "Ce bien n'est plus disponible.",
		"flash_invalid_transition":   "Changement de statut impossible.",
		"flash_user_updated":         "Utilisateur mis à jour.",
		"flash_manager_protected":    "Un manager ne peut pas être désactivé.",
		"flash_assignment_saved":     "Client assigné.",
		"flash_assignment_conflict":  "Ce client vient d'être réassigné, veuillez réessayer.",
		"flash_forbidden":            "Action non autorisée.",
		"flash_not_found":            "Élément introuvable.",
		"flash_error":                "Une erreur est survenue, veuillez réessayer.",
	},
	English: {
		"app_title": "Immo Gestion",
		"tagline":   "Property listings and appointments",

		"required":             "Required",
		"must_be_positive":     "Must be positive",
		"must_not_be_negative": "Must not be negative",
		"invalid_choice":       "Invalid choice",
		"date_in_past":         "The date cannot be in the past",

		"username":         "Username",
		"password":         "Password",
		"email":            "Email",
		"role":             "Role",
		"nom":              "Last name",
		"prenom":           "First name",
		"raison_sociale":   "Company name",
		"telephone":        "Phone",
		"adresse":          "Address",
		"titre":            "Title",
		"type_bien":        "Property type",
		"usage_possible":   "Possible use",
		"transaction_type": "Transaction",
		"situation_geo":    "Location",
		"taille":           "Size (m²)",
		"prix":             "Price (€)",
		"prix_min":         "Minimum price",
		"prix_max":         "Maximum price",
		"description":      "Description",
		"is_featured":      "Featured",
		"images":           "Images",
		"agent_id":         "Responsible agent",
		"client_id":        "Client",
		"date_rdv":         "Appointment date",
		"time_rdv":         "Time",
		"type_rdv":         "Appointment type",
		"notes":            "Notes",
		"status":           "Status",
		"created_at":       "Created",
		"assigned_at":      "Assigned",
		"landlord":         "Landlord",
		"agent":            "Agent",
		"client":           "Client",
		"property":         "Property",
		"active":           "Active",
		"actions":          "Actions",

		"role_client":   "Client",
		"role_bailleur": "Landlord",
		"role_agent":    "Agent",
		"role_manager":  "Manager",

		"page_properties":    "Available properties",
		"page_favorites":     "My favorites",
		"page_appointments":  "Appointments",
		"page_add_property":  "Add a property",
		"page_my_properties": "My properties",
		"page_my_clients":    "My clients",
		"page_manage_users":  "User management",
		"page_statistics":    "Statistics",

		"status_pending":   "Pending",
		"status_confirmed": "Confirmed",
		"status_cancelled": "Cancelled",
		"status_completed": "Completed",
		"action_cancelled": "Cancel",
		"action_confirmed": "Confirm",
		"action_completed": "Complete",
		"visite":           "Visit",
		"transaction":      "Transaction",
		"vente":            "Sale",
		"location":         "Rental",

		"login":               "Log in",
		"logout":              "Log out",
		"register":            "Sign up",
		"submit":              "Submit",
		"save":                "Save",
		"cancel":              "Cancel",
		"edit":                "Edit",
		"filter":              "Filter",
		"filters":             "Filters",
		"all":                 "All",
		"none":                "None",
		"show_details":        "Show details",
		"hide_details":        "Hide details",
		"book":                "Book an appointment",
		"close":               "Close",
		"add_favorite":        "Add to favorites",
		"remove_favorite":     "Remove from favorites",
		"featured":            "Featured",
		"available":           "Available",
		"unavailable":         "Unavailable",
		"make_available":      "Put back online",
		"make_unavailable":    "Take offline",
		"activate":            "Activate",
		"deactivate":          "Deactivate",
		"assign":              "Assign",
		"assign_client":       "Assign a client to an agent",
		"current_assignments": "Current assignments",
		"welcome":             "Welcome",
		"no_properties":       "No matching property.",
		"no_favorites":        "You have no favorites yet.",
		"no_appointments":     "No appointments.",
		"no_clients":          "No assigned clients.",
		"no_users":            "No users.",
		"no_data":             "No data yet.",
		"no_active_clients":   "No active clients.",
		"no_active_agents":    "No active agents.",
		"login_to_book":       "Log in to book an appointment.",
		"forbidden":           "Forbidden",
		"not_found":           "Page not found",
		"server_error":        "Internal error",
		"back_home":           "Back home",

		"total_properties":   "Properties",
		"active_users":       "Active users",
		"total_appointments": "Appointments",
		"portfolio_value":    "Portfolio value",
		"average_price":      "Average price",
		"conversion_rate":    "Conversion rate",
		"tab_properties":     "Properties",
		"tab_users":          "Users",
		"tab_appointments":   "Appointments",
		"tab_business":       "Business",
		"property_types":     "By type",
		"price_stats":        "Price by type",
		"geography":          "By location",
		"user_roles":         "By role",
		"assignments":        "Assignments",
		"unique_clients":     "Distinct clients",
		"unique_agents":      "Distinct agents",
		"appointment_status": "Appointments by status",
		"appointment_types":  "Appointments by type",
		"agent_performance":  "Agent performance",
		"combinations":       "Type × transaction",
		"most_favorited":     "Most favorited",
		"count":              "Count",
		"total":              "Total",
		"completed":          "Completed",
		"min_price":          "Min price",
		"max_price":          "Max price",
		"avg_price":          "Average price",
		"handled":            "Appointments handled",
		"favorite_count":     "Favorites",

		"flash_login_required":       "Please log in.",
		"flash_login_success":        "Logged in.",
		"flash_logout_success":       "You are logged out.",
		"flash_invalid_credentials":  "Invalid credentials.",
		"flash_register_success":     "Account created, you can now log in.",
		"flash_username_taken":       "This username is already taken.",
		"flash_property_created":     "Property added.",
		"flash_property_updated":     "Property updated.",
		"flash_property_available":   "Property back online.",
		"flash_property_hidden":      "Property taken offline.",
		"flash_images_failed":        "The property was created but its images could not be saved.",
		"flash_invalid_image":        "Accepted image formats: png, jpg, jpeg.",
		"flash_favorite_added":       "Added to favorites.",
		"flash_favorite_removed":     "Removed from favorites.",
		"flash_appointment_booked":   "Appointment requested.",
		"flash_appointment_updated":  "Appointment updated.",
		"flash_no_agent":             "No agent is assigned to this property.",
		"flash_property_unavailable": "This property is no longer available.",
		"flash_invalid_transition":   "This status change is not allowed.",
		"flash_user_updated":         "User updated.",
		"flash_manager_protected":    "A manager cannot be deactivated.",
		"flash_assignment_saved":     "Client assigned.",
		"flash_assignment_conflict":  "This client was just reassigned, please try again.",
		"flash_forbidden":            "Action not allowed.",
		"flash_not_found":            "Item not found.",
		"flash_error":                "Something went wrong, please try again.",
	},
}

// T translates code into lang, falling back to French and then to the
// code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[Default][code]; ok {
		return s
	}
	return code
}

// Supported reports whether lang has a catalogue.
func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

// DetectLanguage picks a catalogue from an Accept-Language header.
func DetectLanguage(accept string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(accept)), English) {
		return English
	}
	return French
}

type ctxKey struct{}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the request language, French by default.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(ctxKey{}).(string); ok && l != "" {
		return l
	}
	return Default
}

package policy

import "github.com/diewo77/immo-gestion/internal/models"

// Page identifies one screen of the authenticated area.
type Page string

const (
	PageProperties   Page = "properties"
	PageFavorites    Page = "favorites"
	PageAppointments Page = "appointments"
	PageAddProperty  Page = "add_property"
	PageMyProperties Page = "my_properties"
	PageMyClients    Page = "my_clients"
	PageManageUsers  Page = "manage_users"
	PageStatistics   Page = "statistics"
)

// DefaultPage is shown right after login.
const DefaultPage = PageProperties

// menus lists, per role, the pages of its navigation in display order.
var menus = map[models.Role][]Page{
	models.RoleClient:   {PageProperties, PageFavorites, PageAppointments},
	models.RoleBailleur: {PageProperties, PageAddProperty, PageMyProperties},
	models.RoleAgent:    {PageProperties, PageAddProperty, PageMyClients, PageAppointments},
	models.RoleManager:  {PageProperties, PageAddProperty, PageManageUsers, PageStatistics, PageAppointments, PageMyClients},
}

// Menu returns the navigation entries of role.
func Menu(role models.Role) []Page {
	return menus[role]
}

// CanView reports whether role may open page.
func CanView(page Page, role models.Role) bool {
	for _, p := range menus[role] {
		if p == page {
			return true
		}
	}
	return false
}

// ParsePage returns the page named s, or DefaultPage for unknown names.
func ParsePage(s string) Page {
	switch p := Page(s); p {
	case PageProperties, PageFavorites, PageAppointments, PageAddProperty,
		PageMyProperties, PageMyClients, PageManageUsers, PageStatistics:
		return p
	}
	return DefaultPage
}

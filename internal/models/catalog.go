package models

// Regions is the fixed set of regions a profile may reference.
var Regions = map[int]string{
	1:  "Addis Ababa",
	2:  "Afar",
	3:  "Amhara",
	4:  "Benishangul-Gumuz",
	5:  "Central Ethiopia",
	6:  "Dire Dawa",
	7:  "Gambela",
	8:  "Harari",
	9:  "Oromia",
	10: "Sidama",
	11: "Somali",
	12: "South Ethiopia",
	13: "South West Ethiopia",
	14: "Tigray",
}

// RegionExists reports whether the given region ID is part of the fixed set.
func RegionExists(id int) bool {
	_, ok := Regions[id]
	return ok
}

// Category is one specialization entry of the global category list.
// Categories are not globally unique per role; each carries the set of
// roles it applies to, and membership is re-validated by the engine even
// though the UI pre-filters the list.
type Category struct {
	ID    int
	Name  string
	Roles []Role
}

// CategoryCatalog is the role-filtered view over the global category list.
type CategoryCatalog struct {
	byID map[int]Category
}

// NewCategoryCatalog builds a catalog from the given categories.
func NewCategoryCatalog(categories []Category) *CategoryCatalog {
	byID := make(map[int]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return &CategoryCatalog{byID: byID}
}

// AllowedForRole reports whether the category exists and applies to the role.
func (c *CategoryCatalog) AllowedForRole(role Role, categoryID int) bool {
	cat, ok := c.byID[categoryID]
	if !ok {
		return false
	}
	for _, r := range cat.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Categories returns every category that applies to the role.
func (c *CategoryCatalog) Categories(role Role) []Category {
	var out []Category
	for _, cat := range c.byID {
		for _, r := range cat.Roles {
			if r == role {
				out = append(out, cat)
				break
			}
		}
	}
	return out
}

// DefaultCatalog returns the built-in specialization list. The devserver
// and the CLI use it as the global category list; a real deployment would
// fetch this from the categories endpoint instead.
func DefaultCatalog() *CategoryCatalog {
	contracting := []Role{RoleContractor, RoleSubcontractor}
	broad := []Role{RoleContractor, RoleSubcontractor, RoleConsultant, RoleSupplier, RoleAgency, RoleInvestor, RoleProfessional, RoleIndividual}

	return NewCategoryCatalog([]Category{
		{ID: 1, Name: "Building Construction", Roles: contracting},
		{ID: 2, Name: "Road Construction", Roles: contracting},
		{ID: 3, Name: "Water Works", Roles: contracting},
		{ID: 4, Name: "Electromechanical", Roles: contracting},
		{ID: 5, Name: "Finishing Works", Roles: []Role{RoleSubcontractor, RoleProfessional}},
		{ID: 6, Name: "Construction Materials", Roles: []Role{RoleSupplier}},
		{ID: 7, Name: "Machinery Rental", Roles: []Role{RoleSupplier, RoleContractor}},
		{ID: 8, Name: "Design and Supervision", Roles: []Role{RoleConsultant, RoleProfessional}},
		{ID: 9, Name: "Project Management", Roles: []Role{RoleConsultant, RoleProfessional, RoleAgency}},
		{ID: 10, Name: "General", Roles: broad},
	})
}

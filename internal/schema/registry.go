// Package schema derives which profile fields are required, optional or
// suppressed for a role, and which nested collections the role may edit.
// Everything here is a pure lookup; no state, no I/O.
package schema

import (
	"fmt"

	"github.com/gebeyahub/profile-engine/internal/models"
)

// Mode selects between the two screen variants that share this engine.
// They differ only in a handful of role exclusions.
type Mode string

const (
	ModeEdit       Mode = "edit"
	ModeOnboarding Mode = "onboarding"
)

// FieldStatus is the per-role verdict for one top-level field.
type FieldStatus string

const (
	StatusRequired FieldStatus = "required"
	StatusOptional FieldStatus = "optional"
	StatusHidden   FieldStatus = "hidden"
)

// Field path constants. These are the wire-format part names, so both
// the payload builder and the server error mapper can address fields by
// the same keys.
const (
	FieldFirstName          = "first_name"
	FieldLastName           = "last_name"
	FieldPhone              = "phone_number"
	FieldEmail              = "email"
	FieldProfilePicture     = "profile_picture"
	FieldCompanyName        = "company_name"
	FieldCompanyAddress     = "company_address"
	FieldWebsite            = "website"
	FieldDescription        = "description"
	FieldContactPerson      = "contact_person"
	FieldContactPersonPhone = "contact_person_phone"
	FieldRegion             = "region"
	FieldEstablishedYear    = "established_year"
	FieldTeamSize           = "team_size"
	FieldCategory           = "category"
	FieldGrade              = "grade"

	FieldEmploymentStatus     = "employment_status"
	FieldMaritalStatus        = "marital_status"
	FieldAge                  = "age"
	FieldJobType              = "job_type"
	FieldGender               = "gender"
	FieldHighestQualification = "highest_qualification"
	FieldYearsOfExperience    = "years_of_experience"
	FieldSalaryMin            = "salary_min"
	FieldSalaryMax            = "salary_max"
	FieldSalaryNegotiable     = "salary_negotiable"
	FieldReferences           = "references"
	FieldSkills               = "skills"
	FieldLanguages            = "languages"
)

// Collection name constants, matching the wire-format part names.
const (
	CollectionEquipment       = "equipment"
	CollectionLaborCategories = "labor_categories"
	CollectionKeyProjects     = "key_projects"
	CollectionDocuments       = "documents"
)

// organizationalFields are the members of the user_details block shared
// by company-like roles.
var organizationalFields = []string{
	FieldCompanyName, FieldCompanyAddress, FieldWebsite, FieldDescription,
	FieldContactPerson, FieldContactPersonPhone, FieldRegion,
	FieldEstablishedYear, FieldTeamSize,
}

// professionalFields are the members of the user_details block that exist
// only for the professional role.
var professionalFields = []string{
	FieldEmploymentStatus, FieldMaritalStatus, FieldAge, FieldJobType,
	FieldGender, FieldHighestQualification, FieldYearsOfExperience,
	FieldSalaryMin, FieldSalaryMax, FieldSalaryNegotiable, FieldReferences,
	FieldSkills, FieldLanguages,
}

// CollectionRule describes whether a role may edit a nested collection
// and which sub-fields every item must carry.
type CollectionRule struct {
	Editable        bool
	PerItemRequired []string
}

// FieldRuleSet is the full rule set for one role in one mode.
type FieldRuleSet struct {
	Fields      map[string]FieldStatus
	Collections map[string]CollectionRule
}

// FieldNames returns every top-level field the registry rules on.
func FieldNames() []string {
	names := []string{FieldFirstName, FieldLastName, FieldPhone, FieldEmail, FieldProfilePicture, FieldCategory, FieldGrade}
	names = append(names, organizationalFields...)
	names = append(names, professionalFields...)
	return names
}

// CollectionNames returns every nested collection the registry rules on.
func CollectionNames() []string {
	return []string{CollectionEquipment, CollectionLaborCategories, CollectionKeyProjects, CollectionDocuments}
}

// RulesFor returns the rule set for the role in the given mode. The
// mapping is total over the known roles; an unknown role is a programmer
// error and panics.
func RulesFor(role models.Role, mode Mode) FieldRuleSet {
	if _, ok := models.ValidRoles[role]; !ok {
		panic(fmt.Sprintf("schema: unknown role %q", role))
	}

	rules := FieldRuleSet{
		Fields:      make(map[string]FieldStatus),
		Collections: make(map[string]CollectionRule),
	}

	// Identity fields are required for everyone; email travels read-only
	// and is never part of a submission.
	rules.Fields[FieldFirstName] = StatusRequired
	rules.Fields[FieldLastName] = StatusRequired
	rules.Fields[FieldPhone] = StatusRequired
	rules.Fields[FieldEmail] = StatusHidden
	rules.Fields[FieldProfilePicture] = StatusOptional

	// Organizational block: required unless admin or professional; admin
	// never sees it at all.
	for _, f := range organizationalFields {
		if role == models.RoleAdmin {
			rules.Fields[f] = StatusHidden
		} else {
			rules.Fields[f] = StatusOptional
		}
	}
	if role != models.RoleAdmin && role != models.RoleProfessional {
		rules.Fields[FieldCompanyName] = StatusRequired
		rules.Fields[FieldCompanyAddress] = StatusRequired
		rules.Fields[FieldContactPerson] = StatusRequired
		rules.Fields[FieldContactPersonPhone] = StatusRequired
	}

	// Specialization category: required for contracting roles, editable
	// for everyone except admin.
	switch {
	case role == models.RoleContractor || role == models.RoleSubcontractor:
		rules.Fields[FieldCategory] = StatusRequired
	case role == models.RoleAdmin:
		rules.Fields[FieldCategory] = StatusHidden
	default:
		rules.Fields[FieldCategory] = StatusOptional
	}

	// Grade is meaningful only for contractors and never required.
	if role == models.RoleContractor {
		rules.Fields[FieldGrade] = StatusOptional
	} else {
		rules.Fields[FieldGrade] = StatusHidden
	}

	// Professional-only scalar block.
	for _, f := range professionalFields {
		if role == models.RoleProfessional {
			rules.Fields[f] = StatusOptional
		} else {
			rules.Fields[f] = StatusHidden
		}
	}

	rules.Collections[CollectionEquipment] = CollectionRule{
		Editable:        role == models.RoleContractor || role == models.RoleSubcontractor,
		PerItemRequired: []string{"name", "quantity"},
	}
	rules.Collections[CollectionLaborCategories] = CollectionRule{
		Editable:        role == models.RoleAgency,
		PerItemRequired: []string{"category_id", "team_size"},
	}
	rules.Collections[CollectionKeyProjects] = CollectionRule{
		Editable:        keyProjectsEditable(role, mode),
		PerItemRequired: []string{"name", "location", "year", "description"},
	}
	rules.Collections[CollectionDocuments] = CollectionRule{
		Editable:        documentsEditable(role, mode),
		PerItemRequired: []string{"file_type"},
	}

	return rules
}

func keyProjectsEditable(role models.Role, mode Mode) bool {
	switch role {
	case models.RoleSupplier, models.RoleIndividual, models.RoleAgency, models.RoleAdmin:
		return false
	case models.RoleInvestor:
		// The onboarding screen additionally excludes investors. Kept as
		// a distinct mode rule pending product clarification.
		return mode != ModeOnboarding
	default:
		return true
	}
}

func documentsEditable(role models.Role, mode Mode) bool {
	switch role {
	case models.RoleIndividual, models.RoleAdmin:
		return false
	case models.RoleInvestor:
		return mode != ModeOnboarding
	default:
		return true
	}
}

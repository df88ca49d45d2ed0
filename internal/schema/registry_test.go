package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gebeyahub/profile-engine/internal/models"
)

func TestRulesFor_TotalForAllRoles(t *testing.T) {
	for role := range models.ValidRoles {
		for _, mode := range []Mode{ModeEdit, ModeOnboarding} {
			rules := RulesFor(role, mode)

			for _, field := range FieldNames() {
				_, ok := rules.Fields[field]
				require.True(t, ok, "role %s mode %s leaves field %s unspecified", role, mode, field)
			}
			for _, collection := range CollectionNames() {
				_, ok := rules.Collections[collection]
				require.True(t, ok, "role %s mode %s leaves collection %s unspecified", role, mode, collection)
			}
		}
	}
}

func TestRulesFor_UnknownRolePanics(t *testing.T) {
	assert.Panics(t, func() {
		RulesFor(models.Role("astronaut"), ModeEdit)
	})
}

func TestRulesFor_OrganizationalBlock(t *testing.T) {
	tests := []struct {
		role models.Role
		want FieldStatus
	}{
		{models.RoleContractor, StatusRequired},
		{models.RoleSupplier, StatusRequired},
		{models.RoleAgency, StatusRequired},
		{models.RoleIndividual, StatusRequired},
		{models.RoleProfessional, StatusOptional},
		{models.RoleAdmin, StatusHidden},
	}

	for _, tt := range tests {
		rules := RulesFor(tt.role, ModeEdit)
		assert.Equal(t, tt.want, rules.Fields[FieldCompanyName], "company_name for %s", tt.role)
		assert.Equal(t, tt.want, rules.Fields[FieldCompanyAddress], "company_address for %s", tt.role)
		assert.Equal(t, tt.want, rules.Fields[FieldContactPerson], "contact_person for %s", tt.role)
		assert.Equal(t, tt.want, rules.Fields[FieldContactPersonPhone], "contact_person_phone for %s", tt.role)
	}
}

func TestRulesFor_CategoryAndGrade(t *testing.T) {
	assert.Equal(t, StatusRequired, RulesFor(models.RoleContractor, ModeEdit).Fields[FieldCategory])
	assert.Equal(t, StatusRequired, RulesFor(models.RoleSubcontractor, ModeEdit).Fields[FieldCategory])
	assert.Equal(t, StatusOptional, RulesFor(models.RoleSupplier, ModeEdit).Fields[FieldCategory])
	assert.Equal(t, StatusOptional, RulesFor(models.RoleProfessional, ModeEdit).Fields[FieldCategory])
	assert.Equal(t, StatusHidden, RulesFor(models.RoleAdmin, ModeEdit).Fields[FieldCategory])

	assert.Equal(t, StatusOptional, RulesFor(models.RoleContractor, ModeEdit).Fields[FieldGrade])
	assert.Equal(t, StatusHidden, RulesFor(models.RoleSubcontractor, ModeEdit).Fields[FieldGrade])
	assert.Equal(t, StatusHidden, RulesFor(models.RoleSupplier, ModeEdit).Fields[FieldGrade])
}

func TestRulesFor_ProfessionalBlock(t *testing.T) {
	professional := RulesFor(models.RoleProfessional, ModeEdit)
	contractor := RulesFor(models.RoleContractor, ModeEdit)

	for _, field := range []string{FieldEmploymentStatus, FieldAge, FieldSkills, FieldLanguages, FieldSalaryMin} {
		assert.Equal(t, StatusOptional, professional.Fields[field], "professional %s", field)
		assert.Equal(t, StatusHidden, contractor.Fields[field], "contractor %s", field)
	}
}

func TestRulesFor_Collections(t *testing.T) {
	tests := []struct {
		role        models.Role
		mode        Mode
		collection  string
		wantEditable bool
	}{
		{models.RoleContractor, ModeEdit, CollectionEquipment, true},
		{models.RoleSubcontractor, ModeEdit, CollectionEquipment, true},
		{models.RoleSupplier, ModeEdit, CollectionEquipment, false},
		{models.RoleAgency, ModeEdit, CollectionLaborCategories, true},
		{models.RoleContractor, ModeEdit, CollectionLaborCategories, false},
		{models.RoleContractor, ModeEdit, CollectionKeyProjects, true},
		{models.RoleConsultant, ModeEdit, CollectionKeyProjects, true},
		{models.RoleSupplier, ModeEdit, CollectionKeyProjects, false},
		{models.RoleIndividual, ModeEdit, CollectionKeyProjects, false},
		{models.RoleAgency, ModeEdit, CollectionKeyProjects, false},
		{models.RoleAdmin, ModeEdit, CollectionKeyProjects, false},
		{models.RoleContractor, ModeEdit, CollectionDocuments, true},
		{models.RoleIndividual, ModeEdit, CollectionDocuments, false},
		{models.RoleAdmin, ModeEdit, CollectionDocuments, false},

		// The onboarding screen additionally excludes investors.
		{models.RoleInvestor, ModeEdit, CollectionKeyProjects, true},
		{models.RoleInvestor, ModeOnboarding, CollectionKeyProjects, false},
		{models.RoleInvestor, ModeEdit, CollectionDocuments, true},
		{models.RoleInvestor, ModeOnboarding, CollectionDocuments, false},
	}

	for _, tt := range tests {
		rules := RulesFor(tt.role, tt.mode)
		assert.Equal(t, tt.wantEditable, rules.Collections[tt.collection].Editable,
			"%s editable for %s in %s mode", tt.collection, tt.role, tt.mode)
	}
}

func TestRulesFor_PerItemRequiredFields(t *testing.T) {
	rules := RulesFor(models.RoleContractor, ModeEdit)

	assert.Equal(t, []string{"name", "quantity"}, rules.Collections[CollectionEquipment].PerItemRequired)
	assert.Equal(t, []string{"file_type"}, rules.Collections[CollectionDocuments].PerItemRequired)
	assert.Equal(t, []string{"name", "location", "year", "description"}, rules.Collections[CollectionKeyProjects].PerItemRequired)

	agency := RulesFor(models.RoleAgency, ModeEdit)
	assert.Equal(t, []string{"category_id", "team_size"}, agency.Collections[CollectionLaborCategories].PerItemRequired)
}

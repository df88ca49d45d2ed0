package validation

import (
	"fmt"

	"github.com/gebeyahub/profile-engine/internal/models"
	"github.com/gebeyahub/profile-engine/internal/schema"
)

// ValidateSnapshot runs every applicable field rule over the snapshot
// for the given role and mode. Hidden fields are skipped entirely;
// collections are checked only when the role may edit them. An empty
// result means the snapshot may be submitted.
func ValidateSnapshot(role models.Role, mode schema.Mode, snap *models.ProfileSnapshot, catalog *models.CategoryCatalog) []FieldError {
	rules := schema.RulesFor(role, mode)

	var errs []FieldError
	add := func(e *FieldError) {
		if e != nil {
			errs = append(errs, *e)
		}
	}
	visible := func(f string) bool { return rules.Fields[f] != schema.StatusHidden }
	required := func(f string) bool { return rules.Fields[f] == schema.StatusRequired }

	// checkString handles the common presence+length+pattern chain for a
	// string field. Later rules only run on non-empty values that passed
	// the earlier ones.
	checkString := func(field, value string, max int, pattern func(string, string) *FieldError) {
		if !visible(field) {
			return
		}
		if required(field) {
			if e := ValidateRequired(field, value); e != nil {
				add(e)
				return
			}
		}
		if value == "" {
			return
		}
		if max > 0 {
			if e := ValidateMaxLength(field, value, max); e != nil {
				add(e)
				return
			}
		}
		if pattern != nil {
			add(pattern(field, value))
		}
	}

	checkString(schema.FieldFirstName, snap.FirstName, MaxNameLength, nil)
	checkString(schema.FieldLastName, snap.LastName, MaxNameLength, nil)
	checkString(schema.FieldPhone, snap.Phone, 0, ValidatePrimaryPhone)

	d := &snap.Details
	checkString(schema.FieldCompanyName, d.CompanyName, MaxCompanyNameLength, nil)
	checkString(schema.FieldCompanyAddress, d.CompanyAddress, MaxAddressLength, nil)
	checkString(schema.FieldWebsite, d.Website, 0, ValidateWebsite)
	checkString(schema.FieldDescription, d.Description, MaxDescriptionLength, nil)
	checkString(schema.FieldContactPerson, d.ContactPerson, MaxContactPersonLength, nil)
	checkString(schema.FieldContactPersonPhone, d.ContactPersonPhone, 0, ValidateContactPhone)

	if visible(schema.FieldRegion) && d.RegionID != nil && !models.RegionExists(*d.RegionID) {
		add(&FieldError{Field: schema.FieldRegion, Code: CodeInvalidChoice, Message: "is not a valid region"})
	}
	if visible(schema.FieldEstablishedYear) {
		add(ValidateEstablishedYear(schema.FieldEstablishedYear, d.EstablishedYear))
	}
	if visible(schema.FieldTeamSize) {
		add(ValidateNonNegativeInt(schema.FieldTeamSize, d.TeamSize))
	}

	if visible(schema.FieldCategory) {
		if d.CategoryID == nil {
			if required(schema.FieldCategory) {
				add(missing(schema.FieldCategory))
			}
		} else if catalog != nil && !catalog.AllowedForRole(role, *d.CategoryID) {
			add(&FieldError{Field: schema.FieldCategory, Code: CodeInvalidChoice, Message: "is not a valid category for this account"})
		}
	}
	if visible(schema.FieldGrade) {
		add(ValidateChoice(schema.FieldGrade, d.Grade, models.ValidGrades))
	}

	if visible(schema.FieldAge) {
		add(ValidateNonNegativeInt(schema.FieldAge, d.Age))
	}
	if visible(schema.FieldYearsOfExperience) {
		add(ValidateNonNegativeInt(schema.FieldYearsOfExperience, d.YearsOfExperience))
	}
	if visible(schema.FieldSalaryMin) {
		add(ValidateNonNegativeFloat(schema.FieldSalaryMin, d.SalaryMin))
	}
	if visible(schema.FieldSalaryMax) {
		add(ValidateNonNegativeFloat(schema.FieldSalaryMax, d.SalaryMax))
	}
	if visible(schema.FieldReferences) {
		add(ValidateMaxLength(schema.FieldReferences, d.References, MaxReferencesLength))
	}

	if rules.Collections[schema.CollectionEquipment].Editable {
		for i, item := range snap.Equipment {
			add(ValidateRequired(itemField(schema.CollectionEquipment, i, "name"), item.Name))
			if item.Quantity <= 0 {
				add(&FieldError{Field: itemField(schema.CollectionEquipment, i, "quantity"), Code: CodeOutOfRange, Message: "must be a positive number"})
			}
		}
	}

	if rules.Collections[schema.CollectionLaborCategories].Editable {
		for i, item := range snap.LaborCategories {
			if catalog != nil && !catalog.AllowedForRole(role, item.CategoryID) {
				add(&FieldError{Field: itemField(schema.CollectionLaborCategories, i, "category_id"), Code: CodeInvalidChoice, Message: "is not a valid category for this account"})
			}
			if item.TeamSize <= 0 {
				add(&FieldError{Field: itemField(schema.CollectionLaborCategories, i, "team_size"), Code: CodeOutOfRange, Message: "must be a positive number"})
			}
		}
	}

	if rules.Collections[schema.CollectionKeyProjects].Editable {
		for i, item := range snap.KeyProjects {
			add(ValidateRequired(itemField(schema.CollectionKeyProjects, i, "name"), item.Name))
			add(ValidateMaxLength(itemField(schema.CollectionKeyProjects, i, "name"), item.Name, MaxNameLength))
			add(ValidateRequired(itemField(schema.CollectionKeyProjects, i, "location"), item.Location))
			add(ValidateRequired(itemField(schema.CollectionKeyProjects, i, "description"), item.Description))
			add(ValidateMaxLength(itemField(schema.CollectionKeyProjects, i, "description"), item.Description, MaxDescriptionLength))
			year := item.Year
			if year == 0 {
				add(missing(itemField(schema.CollectionKeyProjects, i, "year")))
			} else {
				add(ValidateEstablishedYear(itemField(schema.CollectionKeyProjects, i, "year"), &year))
			}
		}
	}

	if rules.Collections[schema.CollectionDocuments].Editable {
		for i, item := range snap.Documents {
			field := itemField(schema.CollectionDocuments, i, "file_type")
			if item.FileType == "" {
				add(missing(field))
			} else {
				add(ValidateChoice(field, item.FileType, models.ValidDocumentTypes))
			}
			add(ValidateMaxLength(itemField(schema.CollectionDocuments, i, "issued_by"), item.IssuedBy, MaxIssuedByLength))
			// A new document must carry a file; an existing one keeps its
			// stored file unless replaced.
			if item.ID == nil && item.File == nil && item.FileURL == nil {
				add(missing(itemField(schema.CollectionDocuments, i, "file")))
			}
		}
	}

	return errs
}

func itemField(collection string, index int, sub string) string {
	return fmt.Sprintf("%s[%d].%s", collection, index, sub)
}

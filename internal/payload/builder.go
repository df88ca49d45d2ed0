// Package payload serializes a profile snapshot plus its pending file
// attachments into the multipart/form-data wire format the marketplace
// API accepts. The builder consults the schema registry so a submission
// never carries data the role cannot edit.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/gebeyahub/profile-engine/internal/models"
	"github.com/gebeyahub/profile-engine/internal/schema"
)

// Payload is a fully assembled submit request body.
type Payload struct {
	Body        []byte
	ContentType string
}

// Wire shapes of the JSON array parts. File content never travels
// inline; it goes into separately named file parts.
type equipmentPart struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type laborCategoryPart struct {
	CategoryID int `json:"category_id"`
	TeamSize   int `json:"team_size"`
}

type keyProjectPart struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Year        int    `json:"year"`
	Description string `json:"description"`
}

type documentPart struct {
	ID         *int64 `json:"id,omitempty"`
	FileType   string `json:"file_type"`
	IssuedBy   string `json:"issued_by,omitempty"`
	IssuedDate string `json:"issued_date,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
}

// Build serializes the snapshot for the given role and mode.
//
// Flat identity fields become plain text parts; the visible
// organizational and professional scalars travel as one JSON blob part
// named user_details, with hidden fields omitted entirely (no nulls).
// Each editable collection becomes one JSON array part; a file attached
// to an item becomes a file part keyed by the item's position in that
// array, e.g. documents[2][file]. In memory files bind to item UIDs, so
// the index is computed here and always matches the emitted array.
func Build(role models.Role, mode schema.Mode, snap *models.ProfileSnapshot) (*Payload, error) {
	rules := schema.RulesFor(role, mode)
	visible := func(f string) bool { return rules.Fields[f] != schema.StatusHidden }

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if visible(schema.FieldFirstName) {
		if err := w.WriteField(schema.FieldFirstName, snap.FirstName); err != nil {
			return nil, fmt.Errorf("payload: write %s: %w", schema.FieldFirstName, err)
		}
	}
	if visible(schema.FieldLastName) {
		if err := w.WriteField(schema.FieldLastName, snap.LastName); err != nil {
			return nil, fmt.Errorf("payload: write %s: %w", schema.FieldLastName, err)
		}
	}
	if visible(schema.FieldPhone) {
		if err := w.WriteField(schema.FieldPhone, snap.Phone); err != nil {
			return nil, fmt.Errorf("payload: write %s: %w", schema.FieldPhone, err)
		}
	}

	details := buildUserDetails(&snap.Details, visible)
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("payload: encode user_details: %w", err)
	}
	if err := w.WriteField("user_details", string(detailsJSON)); err != nil {
		return nil, fmt.Errorf("payload: write user_details: %w", err)
	}

	if rules.Collections[schema.CollectionEquipment].Editable {
		items := make([]equipmentPart, len(snap.Equipment))
		for i, e := range snap.Equipment {
			items[i] = equipmentPart{Name: e.Name, Quantity: e.Quantity}
		}
		if err := writeJSONPart(w, schema.CollectionEquipment, items); err != nil {
			return nil, err
		}
	}

	if rules.Collections[schema.CollectionLaborCategories].Editable {
		items := make([]laborCategoryPart, len(snap.LaborCategories))
		for i, lc := range snap.LaborCategories {
			items[i] = laborCategoryPart{CategoryID: lc.CategoryID, TeamSize: lc.TeamSize}
		}
		if err := writeJSONPart(w, schema.CollectionLaborCategories, items); err != nil {
			return nil, err
		}
	}

	if rules.Collections[schema.CollectionKeyProjects].Editable {
		items := make([]keyProjectPart, len(snap.KeyProjects))
		for i, p := range snap.KeyProjects {
			items[i] = keyProjectPart{ID: p.ID, Name: p.Name, Location: p.Location, Year: p.Year, Description: p.Description}
		}
		if err := writeJSONPart(w, schema.CollectionKeyProjects, items); err != nil {
			return nil, err
		}
		// File parts follow their owning array so the positional keys are
		// read against the array just emitted.
		for i, p := range snap.KeyProjects {
			if p.Image == nil {
				continue
			}
			name := fmt.Sprintf("%s[%d][image]", schema.CollectionKeyProjects, i)
			if err := writeFilePart(w, name, p.Image, imageMimeTypes); err != nil {
				return nil, err
			}
		}
	}

	if rules.Collections[schema.CollectionDocuments].Editable {
		items := make([]documentPart, len(snap.Documents))
		for i, d := range snap.Documents {
			items[i] = documentPart{ID: d.ID, FileType: d.FileType, IssuedBy: d.IssuedBy, IssuedDate: d.IssuedDate, ExpiryDate: d.ExpiryDate}
		}
		if err := writeJSONPart(w, schema.CollectionDocuments, items); err != nil {
			return nil, err
		}
		for i, d := range snap.Documents {
			if d.File == nil {
				continue
			}
			name := fmt.Sprintf("%s[%d][file]", schema.CollectionDocuments, i)
			if err := writeFilePart(w, name, d.File, documentMimeTypes); err != nil {
				return nil, err
			}
		}
	}

	if snap.ProfilePicture != nil {
		if err := writeFilePart(w, schema.FieldProfilePicture, snap.ProfilePicture, imageMimeTypes); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("payload: close writer: %w", err)
	}

	return &Payload{Body: buf.Bytes(), ContentType: w.FormDataContentType()}, nil
}

// buildUserDetails assembles the user_details object from the visible
// members only. String members are always carried (an empty string
// clears the server-side value); nil pointers are omitted rather than
// sent as nulls.
func buildUserDetails(d *models.UserDetails, visible func(string) bool) map[string]any {
	details := make(map[string]any)

	setString := func(field, value string) {
		if visible(field) {
			details[field] = value
		}
	}
	setInt := func(field string, value *int) {
		if visible(field) && value != nil {
			details[field] = *value
		}
	}
	setFloat := func(field string, value *float64) {
		if visible(field) && value != nil {
			details[field] = *value
		}
	}

	setString(schema.FieldCompanyName, d.CompanyName)
	setString(schema.FieldCompanyAddress, d.CompanyAddress)
	setString(schema.FieldWebsite, d.Website)
	setString(schema.FieldDescription, d.Description)
	setString(schema.FieldContactPerson, d.ContactPerson)
	setString(schema.FieldContactPersonPhone, d.ContactPersonPhone)
	setInt(schema.FieldRegion, d.RegionID)
	setInt(schema.FieldEstablishedYear, d.EstablishedYear)
	setInt(schema.FieldTeamSize, d.TeamSize)
	setInt(schema.FieldCategory, d.CategoryID)
	setString(schema.FieldGrade, d.Grade)

	setString(schema.FieldEmploymentStatus, d.EmploymentStatus)
	setString(schema.FieldMaritalStatus, d.MaritalStatus)
	setInt(schema.FieldAge, d.Age)
	setString(schema.FieldJobType, d.JobType)
	setString(schema.FieldGender, d.Gender)
	setString(schema.FieldHighestQualification, d.HighestQualification)
	setInt(schema.FieldYearsOfExperience, d.YearsOfExperience)
	setFloat(schema.FieldSalaryMin, d.SalaryMin)
	setFloat(schema.FieldSalaryMax, d.SalaryMax)
	if visible(schema.FieldSalaryNegotiable) {
		details[schema.FieldSalaryNegotiable] = d.SalaryNegotiable
	}
	setString(schema.FieldReferences, d.References)
	if visible(schema.FieldSkills) {
		details[schema.FieldSkills] = emptyIfNil(d.Skills)
	}
	if visible(schema.FieldLanguages) {
		details[schema.FieldLanguages] = emptyIfNil(d.Languages)
	}

	return details
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func writeJSONPart(w *multipart.Writer, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("payload: encode %s: %w", name, err)
	}
	if err := w.WriteField(name, string(data)); err != nil {
		return fmt.Errorf("payload: write %s: %w", name, err)
	}
	return nil
}

func writeFilePart(w *multipart.Writer, name string, att *models.Attachment, allowed map[string]bool) error {
	contentType, err := sniffAttachment(att, allowed)
	if err != nil {
		return err
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, escapeQuotes(name), escapeQuotes(att.Filename)))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("payload: create part %s: %w", name, err)
	}
	if _, err := io.Copy(part, bytes.NewReader(att.Data)); err != nil {
		return fmt.Errorf("payload: write part %s: %w", name, err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/gebeyahub/profile-engine/internal/models"
	"github.com/gebeyahub/profile-engine/internal/schema"
)

var (
	uploadImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}

	uploadDocumentTypes = map[string]bool{
		"image/jpeg":      true,
		"image/png":       true,
		"image/gif":       true,
		"image/webp":      true,
		"application/pdf": true,
	}
)

// decodeSubmission merges one multipart submission onto the stored
// profile. Collections the role cannot edit are carried over from the
// stored profile untouched, whatever the request claims. Parse errors
// surface as non_field_errors to the client.
func decodeSubmission(form *multipart.Form, base *models.ProfileSnapshot, role models.Role, mode schema.Mode) (*models.ProfileSnapshot, error) {
	rules := schema.RulesFor(role, mode)

	snap := &models.ProfileSnapshot{
		ID:                base.ID,
		Email:             base.Email,
		ProfilePictureURL: base.ProfilePictureURL,
		Equipment:         base.Equipment,
		LaborCategories:   base.LaborCategories,
		KeyProjects:       base.KeyProjects,
		Documents:         base.Documents,
	}

	snap.FirstName = firstValue(form, schema.FieldFirstName)
	snap.LastName = firstValue(form, schema.FieldLastName)
	snap.Phone = firstValue(form, schema.FieldPhone)

	if raw := firstValue(form, "user_details"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &snap.Details); err != nil {
			return nil, fmt.Errorf("user_details is not valid JSON")
		}
	}

	if rules.Collections[schema.CollectionEquipment].Editable {
		if raw, ok := formPart(form, schema.CollectionEquipment); ok {
			if err := json.Unmarshal([]byte(raw), &snap.Equipment); err != nil {
				return nil, fmt.Errorf("equipment is not valid JSON")
			}
		}
	}

	if rules.Collections[schema.CollectionLaborCategories].Editable {
		if raw, ok := formPart(form, schema.CollectionLaborCategories); ok {
			if err := json.Unmarshal([]byte(raw), &snap.LaborCategories); err != nil {
				return nil, fmt.Errorf("labor_categories is not valid JSON")
			}
		}
	}

	if rules.Collections[schema.CollectionKeyProjects].Editable {
		if raw, ok := formPart(form, schema.CollectionKeyProjects); ok {
			var projects []models.KeyProject
			if err := json.Unmarshal([]byte(raw), &projects); err != nil {
				return nil, fmt.Errorf("key_projects is not valid JSON")
			}
			carryOverProjectImages(projects, base.KeyProjects)
			for i := range projects {
				name := fmt.Sprintf("%s[%d][image]", schema.CollectionKeyProjects, i)
				url, err := storeUpload(form, name, uploadImageTypes)
				if err != nil {
					return nil, err
				}
				if url != nil {
					projects[i].ImageURL = url
				}
			}
			snap.KeyProjects = projects
		}
	}

	if rules.Collections[schema.CollectionDocuments].Editable {
		if raw, ok := formPart(form, schema.CollectionDocuments); ok {
			var docs []models.Document
			if err := json.Unmarshal([]byte(raw), &docs); err != nil {
				return nil, fmt.Errorf("documents is not valid JSON")
			}
			carryOverDocumentFiles(docs, base.Documents)
			for i := range docs {
				name := fmt.Sprintf("%s[%d][file]", schema.CollectionDocuments, i)
				url, err := storeUpload(form, name, uploadDocumentTypes)
				if err != nil {
					return nil, err
				}
				if url != nil {
					docs[i].FileURL = url
				}
			}
			snap.Documents = docs
		}
	}

	if url, err := storeUpload(form, schema.FieldProfilePicture, uploadImageTypes); err != nil {
		return nil, err
	} else if url != nil {
		snap.ProfilePictureURL = url
	}

	snap.EnsureItemUIDs()
	return snap, nil
}

// assignRecordIDs gives server-side IDs to items created by this
// submission, continuing after the highest existing ID.
func assignRecordIDs(snap *models.ProfileSnapshot) {
	next := int64(0)
	for _, p := range snap.KeyProjects {
		if p.ID != nil && *p.ID > next {
			next = *p.ID
		}
	}
	for _, d := range snap.Documents {
		if d.ID != nil && *d.ID > next {
			next = *d.ID
		}
	}
	for i := range snap.KeyProjects {
		if snap.KeyProjects[i].ID == nil {
			next++
			id := next
			snap.KeyProjects[i].ID = &id
		}
	}
	for i := range snap.Documents {
		if snap.Documents[i].ID == nil {
			next++
			id := next
			snap.Documents[i].ID = &id
		}
	}
}

// carryOverDocumentFiles keeps the stored file URL of documents that were
// edited without a re-upload.
func carryOverDocumentFiles(docs []models.Document, stored []models.Document) {
	byID := make(map[int64]*models.Document, len(stored))
	for i := range stored {
		if stored[i].ID != nil {
			byID[*stored[i].ID] = &stored[i]
		}
	}
	for i := range docs {
		if docs[i].ID == nil {
			continue
		}
		if prev, ok := byID[*docs[i].ID]; ok {
			docs[i].FileURL = prev.FileURL
		}
	}
}

func carryOverProjectImages(projects []models.KeyProject, stored []models.KeyProject) {
	byID := make(map[int64]*models.KeyProject, len(stored))
	for i := range stored {
		if stored[i].ID != nil {
			byID[*stored[i].ID] = &stored[i]
		}
	}
	for i := range projects {
		if projects[i].ID == nil {
			continue
		}
		if prev, ok := byID[*projects[i].ID]; ok {
			projects[i].ImageURL = prev.ImageURL
		}
	}
}

// storeUpload validates an uploaded file part by its magic bytes and
// returns the URL it would be served under. Returns nil when the part
// is absent.
func storeUpload(form *multipart.Form, name string, allowed map[string]bool) (*string, error) {
	headers := form.File[name]
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("could not read the uploaded file %q", fh.Filename)
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not read the uploaded file %q", fh.Filename)
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown || !allowed[kind.MIME.Value] {
		return nil, fmt.Errorf("unsupported file type for %q", fh.Filename)
	}

	url := fmt.Sprintf("/media/uploads/%s_%s", uuid.NewString(), fh.Filename)
	return &url, nil
}

func firstValue(form *multipart.Form, name string) string {
	if values := form.Value[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func formPart(form *multipart.Form, name string) (string, bool) {
	if values := form.Value[name]; len(values) > 0 {
		return values[0], true
	}
	return "", false
}

package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Attachment is a user-selected file pending upload. The bytes are read
// fully before a submit is issued; files here are small (pictures,
// certificates), so no streaming is involved.
type Attachment struct {
	Filename string
	Data     []byte
}

// ProfileSnapshot is the in-memory representation of the profile under
// edit. It is fetched once per session from the profile read endpoint,
// mutated through the session's setters and written back only through
// the payload builder. Email travels read-only and is never serialized
// back to the server.
type ProfileSnapshot struct {
	ID                uuid.UUID   `json:"id"`
	Email             string      `json:"email"`
	FirstName         string      `json:"first_name"`
	LastName          string      `json:"last_name"`
	Phone             string      `json:"phone_number"`
	ProfilePictureURL *string     `json:"profile_picture,omitempty"`
	ProfilePicture    *Attachment `json:"-"`

	Details UserDetails `json:"user_details"`

	Equipment       []EquipmentItem `json:"equipment,omitempty"`
	LaborCategories []LaborCategory `json:"labor_categories,omitempty"`
	KeyProjects     []KeyProject    `json:"key_projects,omitempty"`
	Documents       []Document      `json:"documents,omitempty"`
}

// UserDetails holds the organizational block plus the professional-only
// scalar block. Which members are meaningful for a given role is decided
// by the schema registry, not here.
type UserDetails struct {
	CompanyName        string `json:"company_name,omitempty"`
	CompanyAddress     string `json:"company_address,omitempty"`
	Website            string `json:"website,omitempty"`
	Description        string `json:"description,omitempty"`
	ContactPerson      string `json:"contact_person,omitempty"`
	ContactPersonPhone string `json:"contact_person_phone,omitempty"`
	RegionID           *int   `json:"region,omitempty"`
	EstablishedYear    *int   `json:"established_year,omitempty"`
	TeamSize           *int   `json:"team_size,omitempty"`

	CategoryID *int   `json:"category,omitempty"`
	Grade      string `json:"grade,omitempty"`

	// Populated only for the professional role.
	EmploymentStatus     string   `json:"employment_status,omitempty"`
	MaritalStatus        string   `json:"marital_status,omitempty"`
	Age                  *int     `json:"age,omitempty"`
	JobType              string   `json:"job_type,omitempty"`
	Gender               string   `json:"gender,omitempty"`
	HighestQualification string   `json:"highest_qualification,omitempty"`
	YearsOfExperience    *int     `json:"years_of_experience,omitempty"`
	SalaryMin            *float64 `json:"salary_min,omitempty"`
	SalaryMax            *float64 `json:"salary_max,omitempty"`
	SalaryNegotiable     bool     `json:"salary_negotiable,omitempty"`
	References           string   `json:"references,omitempty"`
	Skills               []string `json:"skills,omitempty"`
	Languages            []string `json:"languages,omitempty"`
}

// EquipmentItem is one owned-equipment entry (contractor/subcontractor).
type EquipmentItem struct {
	UID      uuid.UUID `json:"-"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
}

// LaborCategory is one labor-supply entry (agency only).
type LaborCategory struct {
	UID        uuid.UUID `json:"-"`
	CategoryID int       `json:"category_id"`
	TeamSize   int       `json:"team_size"`
}

// KeyProject is one reference project. A nil ID marks a pending creation;
// a non-nil ID marks an existing server-side record.
type KeyProject struct {
	UID         uuid.UUID   `json:"-"`
	ID          *int64      `json:"id,omitempty"`
	Name        string      `json:"name"`
	Location    string      `json:"location"`
	Year        int         `json:"year"`
	Description string      `json:"description"`
	ImageURL    *string     `json:"image,omitempty"`
	Image       *Attachment `json:"-"`
}

// Document is one company/personal document. A new document (nil ID) must
// carry a file; an existing one may be edited without re-uploading.
type Document struct {
	UID        uuid.UUID   `json:"-"`
	ID         *int64      `json:"id,omitempty"`
	FileType   string      `json:"file_type"`
	FileURL    *string     `json:"file,omitempty"`
	File       *Attachment `json:"-"`
	IssuedBy   string      `json:"issued_by,omitempty"`
	IssuedDate string      `json:"issued_date,omitempty"`
	ExpiryDate string      `json:"expiry_date,omitempty"`
}

// EnsureItemUIDs assigns a stable client-side identifier to every nested
// item that does not have one yet. File attachments bind to these UIDs,
// so items can be reordered or removed before submit without corrupting
// the file-to-item coupling.
func (s *ProfileSnapshot) EnsureItemUIDs() {
	for i := range s.Equipment {
		if s.Equipment[i].UID == uuid.Nil {
			s.Equipment[i].UID = uuid.New()
		}
	}
	for i := range s.LaborCategories {
		if s.LaborCategories[i].UID == uuid.Nil {
			s.LaborCategories[i].UID = uuid.New()
		}
	}
	for i := range s.KeyProjects {
		if s.KeyProjects[i].UID == uuid.Nil {
			s.KeyProjects[i].UID = uuid.New()
		}
	}
	for i := range s.Documents {
		if s.Documents[i].UID == uuid.Nil {
			s.Documents[i].UID = uuid.New()
		}
	}
}

// HasDocumentType reports whether at least one document of the given
// file type is present.
func (s *ProfileSnapshot) HasDocumentType(fileType string) bool {
	for _, d := range s.Documents {
		if d.FileType == fileType {
			return true
		}
	}
	return false
}

// DecodeProfile parses the profile read endpoint's response body into a
// snapshot and assigns item UIDs.
func DecodeProfile(data []byte) (*ProfileSnapshot, error) {
	var snap ProfileSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("models: decode profile: %w", err)
	}
	snap.EnsureItemUIDs()
	return &snap, nil
}

// EncodeProfile renders a snapshot in the read endpoint's shape.
func EncodeProfile(snap *ProfileSnapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("models: encode profile: %w", err)
	}
	return data, nil
}

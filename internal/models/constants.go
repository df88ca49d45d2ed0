package models

// Role is the account tag that selects which profile schema variant applies.
// It is assigned at registration and never changes afterwards.
type Role string

const (
	RoleContractor    Role = "contractor"
	RoleSupplier      Role = "supplier"
	RoleSubcontractor Role = "subcontractor"
	RoleConsultant    Role = "consultant"
	RoleInvestor      Role = "investor"
	RoleProfessional  Role = "professional"
	RoleAgency        Role = "agency"
	RoleIndividual    Role = "individual"
	RoleAdmin         Role = "admin"
)

// ValidRoles lists every role the platform knows about.
var ValidRoles = map[Role]struct{}{
	RoleContractor:    {},
	RoleSupplier:      {},
	RoleSubcontractor: {},
	RoleConsultant:    {},
	RoleInvestor:      {},
	RoleProfessional:  {},
	RoleAgency:        {},
	RoleIndividual:    {},
	RoleAdmin:         {},
}

// Document file type constants
const (
	DocumentTypeLicense          = "license"
	DocumentTypeGradeCertificate = "grade_certificate"
	DocumentTypeCertificate      = "certificate"
	DocumentTypeTestimonials     = "testimonials"
	DocumentTypeAwards           = "awardsAndRecognitions"
	DocumentTypeOther            = "other"
)

// ValidDocumentTypes lists the accepted document file types.
var ValidDocumentTypes = map[string]struct{}{
	DocumentTypeLicense:          {},
	DocumentTypeGradeCertificate: {},
	DocumentTypeCertificate:      {},
	DocumentTypeTestimonials:     {},
	DocumentTypeAwards:           {},
	DocumentTypeOther:            {},
}

// Contractor grade constants
const (
	Grade1  = "grade_1"
	Grade2  = "grade_2"
	Grade3  = "grade_3"
	Grade4  = "grade_4"
	Grade5  = "grade_5"
	Grade6  = "grade_6"
	Grade7  = "grade_7"
	Grade8  = "grade_8"
	Grade9  = "grade_9"
	Grade10 = "grade_10"
	Grade11 = "grade_11"
)

// ValidGrades lists the contractor grades grade_1..grade_11.
var ValidGrades = map[string]struct{}{
	Grade1: {}, Grade2: {}, Grade3: {}, Grade4: {}, Grade5: {}, Grade6: {},
	Grade7: {}, Grade8: {}, Grade9: {}, Grade10: {}, Grade11: {},
}

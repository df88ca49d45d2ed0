package schema

import (
	"strings"

	"github.com/gebeyahub/profile-engine/internal/models"
)

// IsComplete reports whether the profile is usable yet, i.e. whether the
// account may proceed past onboarding. Pure predicate; the UI gates
// navigation and messaging on the result.
//
// A profile is complete iff:
//  1. for roles other than admin/professional: company name and contact
//     person are filled in;
//  2. the company address is filled in for every role except admin
//     (the professional screens still collect it);
//  3. a contractor has uploaded a grade certificate;
//  4. every role except professional and investor has uploaded a license.
func IsComplete(role models.Role, snap *models.ProfileSnapshot) bool {
	if role != models.RoleAdmin && isBlank(snap.Details.CompanyAddress) {
		return false
	}

	if role != models.RoleAdmin && role != models.RoleProfessional {
		if isBlank(snap.Details.CompanyName) || isBlank(snap.Details.ContactPerson) {
			return false
		}
	}

	if role == models.RoleContractor && !snap.HasDocumentType(models.DocumentTypeGradeCertificate) {
		return false
	}

	if role != models.RoleProfessional && role != models.RoleInvestor {
		if !snap.HasDocumentType(models.DocumentTypeLicense) {
			return false
		}
	}

	return true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Package session orchestrates one profile-editing session: it holds
// the snapshot under edit, validates it, serializes it and drives the
// exchange with the marketplace API through an injected transport.
// One session serves one profile; there is no cross-session state.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gebeyahub/profile-engine/internal/errmap"
	"github.com/gebeyahub/profile-engine/internal/models"
	"github.com/gebeyahub/profile-engine/internal/payload"
	"github.com/gebeyahub/profile-engine/internal/pkg/apperror"
	"github.com/gebeyahub/profile-engine/internal/schema"
	"github.com/gebeyahub/profile-engine/internal/validation"
)

// ErrSubmitInFlight is returned when a submit is attempted while an
// earlier one has not resolved yet.
var ErrSubmitInFlight = errors.New("session: a submit is already in flight")

// ErrNotLoaded is returned when an operation needs a snapshot and none
// has been loaded or restored.
var ErrNotLoaded = errors.New("session: no profile loaded")

// ErrItemNotFound is returned when a collection helper is given an
// unknown item UID.
var ErrItemNotFound = errors.New("session: item not found")

// ValidationError carries the client-side field failures that blocked a
// submission. Nothing reached the network.
type ValidationError struct {
	Errors []validation.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("session: validation failed for %d field(s)", len(e.Errors))
}

// SubmitError is a submission the server rejected, or a transport
// failure. The snapshot is left untouched so the user can retry.
type SubmitError struct {
	Code        apperror.ErrorCode
	Status      int
	FieldErrors map[string][]string
	Aggregate   []string
	Cause       error
}

func (e *SubmitError) Error() string {
	if len(e.Aggregate) > 0 {
		return e.Aggregate[0]
	}
	return errmap.GenericMessage
}

func (e *SubmitError) Unwrap() error {
	return e.Cause
}

// Session is the profile-editing orchestrator.
type Session struct {
	role      models.Role
	mode      schema.Mode
	catalog   *models.CategoryCatalog
	transport Transport
	log       *logrus.Entry

	mu       sync.Mutex
	snap     *models.ProfileSnapshot
	inFlight bool
}

// New creates a session for one account. The role is immutable for the
// session's lifetime, mirroring the account itself.
func New(role models.Role, mode schema.Mode, catalog *models.CategoryCatalog, transport Transport, log *logrus.Entry) *Session {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Session{
		role:      role,
		mode:      mode,
		catalog:   catalog,
		transport: transport,
		log:       log.WithField("component", "profile_session"),
	}
}

// Load fetches the profile from the read endpoint and builds the
// snapshot under edit.
func (s *Session) Load(ctx context.Context) error {
	status, body, err := s.transport.FetchProfile(ctx)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeTransport, "could not load the profile")
	}
	if status < 200 || status >= 300 {
		if status == 401 {
			return apperror.ErrUnauthorized
		}
		return apperror.New(apperror.ErrCodeTransport, fmt.Sprintf("profile load failed with status %d", status))
	}

	snap, err := models.DecodeProfile(body)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeTransport, "profile response was not understood")
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.log.WithField("profile_id", snap.ID).Debug("profile loaded")
	return nil
}

// Restore installs an already-decoded snapshot, e.g. one read from disk
// by the CLI. Item UIDs are assigned if missing.
func (s *Session) Restore(snap *models.ProfileSnapshot) {
	snap.EnsureItemUIDs()
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Snapshot returns the snapshot under edit, nil before Load/Restore.
// Mutate it through the session's setters only.
func (s *Session) Snapshot() *models.ProfileSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Role returns the session's role.
func (s *Session) Role() models.Role { return s.role }

// Rules returns the field rule set that applies to this session.
func (s *Session) Rules() schema.FieldRuleSet {
	return schema.RulesFor(s.role, s.mode)
}

// SetIdentity updates the mutable identity fields. Email is read-only
// and deliberately has no setter.
func (s *Session) SetIdentity(firstName, lastName, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return
	}
	s.snap.FirstName = firstName
	s.snap.LastName = lastName
	s.snap.Phone = phone
}

// SetDetails replaces the organizational/professional scalar block.
func (s *Session) SetDetails(details models.UserDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return
	}
	s.snap.Details = details
}

// SetProfilePicture stages a newly selected profile picture.
func (s *Session) SetProfilePicture(att *models.Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return
	}
	s.snap.ProfilePicture = att
}

// AddEquipment appends an equipment entry and returns its UID.
func (s *Session) AddEquipment(name string, quantity int) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := uuid.New()
	s.snap.Equipment = append(s.snap.Equipment, models.EquipmentItem{UID: uid, Name: name, Quantity: quantity})
	return uid
}

// RemoveEquipment deletes an equipment entry by UID.
func (s *Session) RemoveEquipment(uid uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.snap.Equipment {
		if item.UID == uid {
			s.snap.Equipment = append(s.snap.Equipment[:i], s.snap.Equipment[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// AddLaborCategory appends a labor-supply entry and returns its UID.
func (s *Session) AddLaborCategory(categoryID, teamSize int) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := uuid.New()
	s.snap.LaborCategories = append(s.snap.LaborCategories, models.LaborCategory{UID: uid, CategoryID: categoryID, TeamSize: teamSize})
	return uid
}

// RemoveLaborCategory deletes a labor-supply entry by UID.
func (s *Session) RemoveLaborCategory(uid uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.snap.LaborCategories {
		if item.UID == uid {
			s.snap.LaborCategories = append(s.snap.LaborCategories[:i], s.snap.LaborCategories[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// AddKeyProject appends a key project and returns its UID.
func (s *Session) AddKeyProject(project models.KeyProject) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	project.UID = uuid.New()
	s.snap.KeyProjects = append(s.snap.KeyProjects, project)
	return project.UID
}

// RemoveKeyProject deletes a key project by UID.
func (s *Session) RemoveKeyProject(uid uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.snap.KeyProjects {
		if item.UID == uid {
			s.snap.KeyProjects = append(s.snap.KeyProjects[:i], s.snap.KeyProjects[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// AttachProjectImage stages an image for the key project with the given
// UID. The file follows the item even if items are reordered later.
func (s *Session) AttachProjectImage(uid uuid.UUID, att *models.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snap.KeyProjects {
		if s.snap.KeyProjects[i].UID == uid {
			s.snap.KeyProjects[i].Image = att
			return nil
		}
	}
	return ErrItemNotFound
}

// AddDocument appends a document and returns its UID.
func (s *Session) AddDocument(doc models.Document) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.UID = uuid.New()
	s.snap.Documents = append(s.snap.Documents, doc)
	return doc.UID
}

// RemoveDocument deletes a document by UID.
func (s *Session) RemoveDocument(uid uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.snap.Documents {
		if item.UID == uid {
			s.snap.Documents = append(s.snap.Documents[:i], s.snap.Documents[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// AttachDocumentFile stages a file for the document with the given UID.
func (s *Session) AttachDocumentFile(uid uuid.UUID, att *models.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snap.Documents {
		if s.snap.Documents[i].UID == uid {
			s.snap.Documents[i].File = att
			return nil
		}
	}
	return ErrItemNotFound
}

// Validate runs the field validator over the current snapshot.
func (s *Session) Validate() []validation.FieldError {
	s.mu.Lock()
	snap := s.snap
	s.mu.Unlock()
	if snap == nil {
		return nil
	}
	return validation.ValidateSnapshot(s.role, s.mode, snap, s.catalog)
}

// IsComplete reports the completeness verdict for the current snapshot.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	snap := s.snap
	s.mu.Unlock()
	if snap == nil {
		return false
	}
	return schema.IsComplete(s.role, snap)
}

// Submit validates the snapshot, serializes it and sends it. On success
// the snapshot is replaced wholesale with the server's response; on any
// failure it is left untouched. Validation failures never reach the
// network. Only one submit may be in flight at a time.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	if s.snap == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	s.inFlight = true
	snap := s.snap
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if errs := validation.ValidateSnapshot(s.role, s.mode, snap, s.catalog); len(errs) > 0 {
		s.log.WithField("fields", len(errs)).Debug("submit blocked by client validation")
		return &ValidationError{Errors: errs}
	}

	pl, err := payload.Build(s.role, s.mode, snap)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeClientValidation, "could not assemble the submission")
	}

	status, body, err := s.transport.SubmitProfile(ctx, pl.ContentType, bytes.NewReader(pl.Body))
	if err != nil {
		s.log.WithError(err).Warn("profile submit failed in transport")
		return &SubmitError{
			Code:      apperror.ErrCodeTransport,
			Aggregate: []string{errmap.GenericMessage},
			Cause:     err,
		}
	}

	if status >= 200 && status < 300 {
		updated, decodeErr := models.DecodeProfile(body)
		if decodeErr != nil {
			// The save went through but the response is unusable; keep
			// the local snapshot rather than corrupt it.
			s.log.WithError(decodeErr).Warn("submit succeeded but response was not understood")
			return &SubmitError{
				Code:      apperror.ErrCodeTransport,
				Status:    status,
				Aggregate: []string{errmap.GenericMessage},
				Cause:     decodeErr,
			}
		}

		s.mu.Lock()
		s.snap = updated
		s.mu.Unlock()

		s.log.WithFields(logrus.Fields{
			"profile_id": updated.ID,
			"complete":   schema.IsComplete(s.role, updated),
		}).Info("profile saved")
		return nil
	}

	result := errmap.Map(body)
	code := apperror.ErrCodeServerAggregate
	if len(result.FieldErrors) > 0 {
		code = apperror.ErrCodeServerField
	}
	s.log.WithFields(logrus.Fields{
		"status": status,
		"fields": len(result.FieldErrors),
	}).Warn("profile submit rejected")
	return &SubmitError{
		Code:        code,
		Status:      status,
		FieldErrors: result.FieldErrors,
		Aggregate:   result.Aggregate,
	}
}

// ChangePassword validates and sends a password change. The cross-field
// rules run first: the confirmation must match and the new password must
// differ from the old one.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmation string) error {
	var errs []validation.FieldError
	if e := validation.ValidatePasswordChange("new_password", oldPassword, newPassword); e != nil {
		errs = append(errs, *e)
	}
	if e := validation.ValidatePasswordConfirmation("confirm_password", newPassword, confirmation); e != nil {
		errs = append(errs, *e)
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	status, body, err := s.transport.ChangePassword(ctx, oldPassword, newPassword)
	if err != nil {
		return &SubmitError{
			Code:      apperror.ErrCodeTransport,
			Aggregate: []string{errmap.GenericMessage},
			Cause:     err,
		}
	}
	if status >= 200 && status < 300 {
		return nil
	}

	result := errmap.Map(body)
	return &SubmitError{
		Code:        apperror.ErrCodeServerField,
		Status:      status,
		FieldErrors: result.FieldErrors,
		Aggregate:   result.Aggregate,
	}
}

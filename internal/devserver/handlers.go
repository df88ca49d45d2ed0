package devserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/gebeyahub/profile-engine/internal/models"
	"github.com/gebeyahub/profile-engine/internal/schema"
	"github.com/gebeyahub/profile-engine/internal/validation"
)

var validate = validator.New()

// Handler serves the devserver's profile and auth endpoints.
type Handler struct {
	store          Store
	tokens         *TokenManager
	catalog        *models.CategoryCatalog
	log            *logrus.Entry
	maxUploadBytes int64
}

// NewHandler creates the handler set.
func NewHandler(store Store, tokens *TokenManager, catalog *models.CategoryCatalog, log *logrus.Entry, maxUploadMB int64) *Handler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &Handler{
		store:          store,
		tokens:         tokens,
		catalog:        catalog,
		log:            log.WithField("component", "devserver"),
		maxUploadBytes: maxUploadMB << 20,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "request body was not understood"})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"email and password are required"}})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"non_field_errors": []string{"invalid credentials"}})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"non_field_errors": []string{"invalid credentials"}})
		return
	}

	token, err := h.tokens.IssueToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not issue a token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"role":         user.Role,
	})
}

// GetProfile handles GET /users/me/profile, the read endpoint the
// engine builds its snapshot from.
func (h *Handler) GetProfile(c *gin.Context) {
	userID := currentUserID(c)

	snap, err := h.store.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load the profile"})
		return
	}

	data, err := models.EncodeProfile(snap)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not encode the profile"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// UpdateProfile handles PUT /users/me/profile. It parses the engine's
// multipart wire format, re-validates it with the same rules the client
// runs, and answers either the saved profile or the per-field error
// shape the engine's error mapper consumes.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := currentUserID(c)
	role := currentRole(c)
	mode := schema.ModeEdit
	if c.Query("mode") == string(schema.ModeOnboarding) {
		mode = schema.ModeOnboarding
	}

	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"the submission was not a valid multipart request"}})
		return
	}
	form := c.Request.MultipartForm

	base, err := h.store.GetProfile(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load the profile"})
		return
	}
	if base == nil {
		user, userErr := h.store.GetUserByID(c.Request.Context(), userID)
		if userErr != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		base = &models.ProfileSnapshot{ID: userID, Email: user.Email}
	}

	snap, err := decodeSubmission(form, base, role, mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{err.Error()}})
		return
	}

	if errs := validation.ValidateSnapshot(role, mode, snap, h.catalog); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, fieldErrorResponse(errs))
		return
	}

	assignRecordIDs(snap)
	if err := h.store.SaveProfile(c.Request.Context(), userID, snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not save the profile"})
		return
	}

	h.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"role":     role,
		"complete": schema.IsComplete(role, snap),
	}).Info("profile updated")

	data, err := models.EncodeProfile(snap)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not encode the profile"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ChangePassword handles POST /users/me/password.
func (h *Handler) ChangePassword(c *gin.Context) {
	userID := currentUserID(c)

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "request body was not understood"})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"old and new passwords are required"}})
		return
	}

	user, err := h.store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"old_password": []string{"the old password is not correct"}})
		return
	}
	if fieldErr := validation.ValidatePasswordChange("new_password", req.OldPassword, req.NewPassword); fieldErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{fieldErr.Field: []string{fieldErr.Message}})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update the password"})
		return
	}
	if err := h.store.UpdatePassword(c.Request.Context(), userID, string(hash)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update the password"})
		return
	}

	c.Status(http.StatusNoContent)
}

// fieldErrorResponse renders client-visible validation failures in the
// wire error shape: field path keys with message arrays.
func fieldErrorResponse(errs []validation.FieldError) gin.H {
	grouped := make(map[string][]string)
	for _, e := range errs {
		grouped[e.Field] = append(grouped[e.Field], e.Message)
	}
	resp := gin.H{}
	for field, messages := range grouped {
		resp[field] = messages
	}
	return resp
}

func currentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func currentRole(c *gin.Context) models.Role {
	if v, ok := c.Get(ContextRoleKey); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}

package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gebeyahub/profile-engine/internal/config"
	"github.com/gebeyahub/profile-engine/internal/errmap"
	"github.com/gebeyahub/profile-engine/internal/models"
	"github.com/gebeyahub/profile-engine/internal/payload"
	"github.com/gebeyahub/profile-engine/internal/schema"
	"github.com/gebeyahub/profile-engine/internal/session"
)

const testPassword = "OldPass123"

type testEnv struct {
	router *gin.Engine
	store  *MemoryStore
	tokens *TokenManager
	userID uuid.UUID
	token  string
}

func newTestEnv(t *testing.T, role models.Role) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewMemoryStore()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &User{Email: "demo@example.com", PasswordHash: string(hash), Role: role}
	require.NoError(t, store.CreateUser(context.Background(), user))

	tokens := NewTokenManager("test-secret", time.Hour)
	handler := NewHandler(store, tokens, models.DefaultCatalog(), nil, 10)
	cfg := &config.Config{
		Env:             "test",
		AllowedOrigins:  []string{"http://localhost:3000"},
		RateLimitLimit:  100,
		RateLimitPeriod: time.Minute,
	}

	token, err := tokens.IssueToken(user.ID, role)
	require.NoError(t, err)

	return &testEnv{
		router: SetupRouter(cfg, handler, tokens),
		store:  store,
		tokens: tokens,
		userID: user.ID,
		token:  token,
	}
}

func (e *testEnv) do(t *testing.T, method, path, contentType string, body []byte, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedProfile(t *testing.T, snap *models.ProfileSnapshot) {
	t.Helper()
	snap.ID = e.userID
	snap.Email = "demo@example.com"
	snap.EnsureItemUIDs()
	require.NoError(t, e.store.SaveProfile(context.Background(), e.userID, snap))
}

func storedContractorProfile() *models.ProfileSnapshot {
	id := int64(1)
	url := "/media/uploads/license.pdf"
	region := 1
	category := 1
	return &models.ProfileSnapshot{
		FirstName: "Abebe",
		LastName:  "Bekele",
		Phone:     "+251912345678",
		Details: models.UserDetails{
			CompanyName:        "Bekele Construction PLC",
			CompanyAddress:     "Bole Road, Addis Ababa",
			ContactPerson:      "Abebe Bekele",
			ContactPersonPhone: "0912345678",
			RegionID:           &region,
			CategoryID:         &category,
		},
		Documents: []models.Document{
			{ID: &id, FileType: models.DocumentTypeLicense, FileURL: &url},
		},
	}
}

func pngUpload() []byte {
	return []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}
}

func pdfUpload() []byte {
	return []byte("%PDF-1.4\n%test")
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, models.RoleContractor)

	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "demo@example.com", "password": testPassword})
		w := env.do(t, http.MethodPost, "/api/auth/login", "application/json", body, false)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["access_token"])
		assert.Equal(t, string(models.RoleContractor), resp["role"])

		userID, role, err := env.tokens.ParseAccess(resp["access_token"])
		require.NoError(t, err)
		assert.Equal(t, env.userID, userID)
		assert.Equal(t, models.RoleContractor, role)
	})

	t.Run("wrong password", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "demo@example.com", "password": "WrongPass1"})
		w := env.do(t, http.MethodPost, "/api/auth/login", "application/json", body, false)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid credentials", errmap.Map(w.Body.Bytes()).Primary())
	})

	t.Run("unknown email", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "nobody@example.com", "password": testPassword})
		w := env.do(t, http.MethodPost, "/api/auth/login", "application/json", body, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", "application/json", []byte(`{"email":"demo@example.com"}`), false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t, models.RoleContractor)
	env.seedProfile(t, storedContractorProfile())

	t.Run("requires auth", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/users/me/profile", "", nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("returns the stored profile", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/users/me/profile", "", nil, true)
		require.Equal(t, http.StatusOK, w.Code)

		snap, err := models.DecodeProfile(w.Body.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "demo@example.com", snap.Email)
		assert.Equal(t, "Bekele Construction PLC", snap.Details.CompanyName)
		require.Len(t, snap.Documents, 1)
	})
}

func TestUpdateProfile_RoundTrip(t *testing.T) {
	env := newTestEnv(t, models.RoleContractor)
	env.seedProfile(t, storedContractorProfile())

	snap := storedContractorProfile()
	snap.Details.Description = "General contractor since 2012"
	snap.Equipment = []models.EquipmentItem{{Name: "Excavator", Quantity: 2}}
	snap.Documents = append(snap.Documents, models.Document{
		FileType: models.DocumentTypeGradeCertificate,
		File:     &models.Attachment{Filename: "grade.pdf", Data: pdfUpload()},
	})

	pl, err := payload.Build(models.RoleContractor, schema.ModeEdit, snap)
	require.NoError(t, err)

	w := env.do(t, http.MethodPut, "/api/users/me/profile", pl.ContentType, pl.Body, true)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	saved, err := models.DecodeProfile(w.Body.Bytes())
	require.NoError(t, err)

	// Every visible field of the submitted snapshot comes back unchanged.
	assert.Equal(t, snap.FirstName, saved.FirstName)
	assert.Equal(t, snap.LastName, saved.LastName)
	assert.Equal(t, snap.Phone, saved.Phone)
	assert.Equal(t, snap.Details.CompanyName, saved.Details.CompanyName)
	assert.Equal(t, snap.Details.Description, saved.Details.Description)
	require.Len(t, saved.Equipment, 1)
	assert.Equal(t, "Excavator", saved.Equipment[0].Name)

	// The email is owned by the account, never by the submission.
	assert.Equal(t, "demo@example.com", saved.Email)

	// The new document got a record ID and a stored file; the existing one
	// kept its file without a re-upload.
	require.Len(t, saved.Documents, 2)
	assert.Equal(t, int64(1), *saved.Documents[0].ID)
	require.NotNil(t, saved.Documents[0].FileURL)
	assert.Equal(t, "/media/uploads/license.pdf", *saved.Documents[0].FileURL)
	require.NotNil(t, saved.Documents[1].ID)
	assert.Equal(t, int64(2), *saved.Documents[1].ID)
	require.NotNil(t, saved.Documents[1].FileURL)
	assert.Contains(t, *saved.Documents[1].FileURL, "grade.pdf")

	// A follow-up read observes the same state.
	r := env.do(t, http.MethodGet, "/api/users/me/profile", "", nil, true)
	require.Equal(t, http.StatusOK, r.Code)
	reread, err := models.DecodeProfile(r.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, saved.Details, reread.Details)
	require.Len(t, reread.Documents, 2)
}

func TestUpdateProfile_FieldErrorShape(t *testing.T) {
	env := newTestEnv(t, models.RoleContractor)
	env.seedProfile(t, storedContractorProfile())

	snap := storedContractorProfile()
	snap.Details.CompanyName = ""
	snap.Phone = "12345"

	pl, err := payload.Build(models.RoleContractor, schema.ModeEdit, snap)
	require.NoError(t, err)

	w := env.do(t, http.MethodPut, "/api/users/me/profile", pl.ContentType, pl.Body, true)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The error body is in the exact shape the engine's mapper consumes.
	result := errmap.Map(w.Body.Bytes())
	assert.NotEmpty(t, result.FieldErrors["company_name"])
	assert.NotEmpty(t, result.FieldErrors["phone_number"])
	assert.Empty(t, result.Aggregate)
}

func TestUpdateProfile_GarbageBody(t *testing.T) {
	env := newTestEnv(t, models.RoleContractor)
	env.seedProfile(t, storedContractorProfile())

	w := env.do(t, http.MethodPut, "/api/users/me/profile", "multipart/form-data; boundary=x", []byte("not multipart"), true)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, errmap.Map(w.Body.Bytes()).Primary())
}

func TestUpdateProfile_NonEditableCollectionsCarriedOver(t *testing.T) {
	env := newTestEnv(t, models.RoleContractor)

	stored := storedContractorProfile()
	stored.LaborCategories = []models.LaborCategory{{CategoryID: 9, TeamSize: 12}}
	env.seedProfile(t, stored)

	snap := storedContractorProfile()
	snap.LaborCategories = nil // contractors cannot edit this; emptiness must not clear it

	pl, err := payload.Build(models.RoleContractor, schema.ModeEdit, snap)
	require.NoError(t, err)

	w := env.do(t, http.MethodPut, "/api/users/me/profile", pl.ContentType, pl.Body, true)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	saved, err := models.DecodeProfile(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, saved.LaborCategories, 1)
	assert.Equal(t, 9, saved.LaborCategories[0].CategoryID)
}

func TestUpdateProfile_InvestorOnboardingKeepsDocuments(t *testing.T) {
	env := newTestEnv(t, models.RoleInvestor)

	stored := storedContractorProfile()
	stored.Details.CategoryID = nil
	env.seedProfile(t, stored)

	snap := storedContractorProfile()
	snap.Details.CategoryID = nil
	snap.Documents = nil

	pl, err := payload.Build(models.RoleInvestor, schema.ModeOnboarding, snap)
	require.NoError(t, err)

	w := env.do(t, http.MethodPut, "/api/users/me/profile?mode=onboarding", pl.ContentType, pl.Body, true)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	saved, err := models.DecodeProfile(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, saved.Documents, 1, "onboarding submits must not touch investor documents")
}

func TestChangePassword(t *testing.T) {
	t.Run("wrong old password", func(t *testing.T) {
		env := newTestEnv(t, models.RoleContractor)
		body, _ := json.Marshal(map[string]string{"old_password": "WrongPass1", "new_password": "NewPass456"})
		w := env.do(t, http.MethodPost, "/api/users/me/password", "application/json", body, true)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, errmap.Map(w.Body.Bytes()).FieldErrors["old_password"])
	})

	t.Run("new equals old", func(t *testing.T) {
		env := newTestEnv(t, models.RoleContractor)
		body, _ := json.Marshal(map[string]string{"old_password": testPassword, "new_password": testPassword})
		w := env.do(t, http.MethodPost, "/api/users/me/password", "application/json", body, true)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, errmap.Map(w.Body.Bytes()).FieldErrors["new_password"])
	})

	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t, models.RoleContractor)
		body, _ := json.Marshal(map[string]string{"old_password": testPassword, "new_password": "NewPass456"})
		w := env.do(t, http.MethodPost, "/api/users/me/password", "application/json", body, true)
		require.Equal(t, http.StatusNoContent, w.Code)

		// The old password no longer works, the new one does.
		login, _ := json.Marshal(map[string]string{"email": "demo@example.com", "password": testPassword})
		assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/auth/login", "application/json", login, false).Code)

		login, _ = json.Marshal(map[string]string{"email": "demo@example.com", "password": "NewPass456"})
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/auth/login", "application/json", login, false).Code)
	})
}

// TestSessionEndToEnd drives the whole engine against an in-process
// server: load, edit, submit, observe the refreshed snapshot.
func TestSessionEndToEnd(t *testing.T) {
	env := newTestEnv(t, models.RoleContractor)
	env.seedProfile(t, storedContractorProfile())

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	transport := session.NewHTTPTransport(srv.URL+"/api", env.token, 5*time.Second)
	s := session.New(models.RoleContractor, schema.ModeEdit, models.DefaultCatalog(), transport, nil)

	require.NoError(t, s.Load(context.Background()))
	require.NotNil(t, s.Snapshot())
	assert.False(t, s.IsComplete(), "a contractor without a grade certificate is not complete")

	details := s.Snapshot().Details
	details.Description = "General contractor since 2012"
	s.SetDetails(details)

	docUID := s.AddDocument(models.Document{FileType: models.DocumentTypeGradeCertificate})
	require.NoError(t, s.AttachDocumentFile(docUID, &models.Attachment{Filename: "grade.pdf", Data: pdfUpload()}))
	s.SetProfilePicture(&models.Attachment{Filename: "me.png", Data: pngUpload()})

	require.NoError(t, s.Submit(context.Background()))

	refreshed := s.Snapshot()
	assert.Equal(t, "General contractor since 2012", refreshed.Details.Description)
	require.Len(t, refreshed.Documents, 2)
	assert.NotNil(t, refreshed.Documents[1].ID, "the server assigns record IDs")
	require.NotNil(t, refreshed.ProfilePictureURL)
	assert.Contains(t, *refreshed.ProfilePictureURL, "me.png")
	assert.True(t, s.IsComplete(), "the grade certificate completes the contractor profile")
}

package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	partnerapp "github.com/promoshop/backend/internal/application/partner"
	"github.com/promoshop/backend/internal/domain/partner"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupProfileHandler(profileRepo *MockClientProfileRepository) *ProfileHandler {
	profileService := partnerapp.NewProfileService(profileRepo)
	return NewProfileHandler(profileService)
}

func createTestProfile(clientID string) *partner.ClientProfile {
	profile, _ := partner.NewClientProfile(clientID)
	_ = profile.SetContact("Marie", "Dupont", "marie@example.com", "+41 21 555 01 01")
	_ = profile.SetShop("Boutique Cadeaux", "Rue du Lac 3", "Lausanne", "1003")
	return profile
}

func TestProfileHandler_Upsert_CreatesProfile(t *testing.T) {
	profileRepo := new(MockClientProfileRepository)
	handler := setupProfileHandler(profileRepo)

	profileRepo.On("FindByClientID", mock.Anything, "alice").Return(nil, shared.ErrNotFound)
	profileRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.ClientProfile")).Return(nil)

	router := setupTestRouter()
	router.PUT("/profiles/:client_id", handler.Upsert)

	reqBody := partnerapp.UpsertProfileRequest{
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie@example.com",
		ShopName:  "Boutique Cadeaux",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPut, "/profiles/alice", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	profileRepo.AssertExpectations(t)
}

func TestProfileHandler_Upsert_ReplacesExistingProfile(t *testing.T) {
	profileRepo := new(MockClientProfileRepository)
	handler := setupProfileHandler(profileRepo)

	existing := createTestProfile("alice")
	profileRepo.On("FindByClientID", mock.Anything, "alice").Return(existing, nil)
	profileRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.ClientProfile")).Return(nil)

	router := setupTestRouter()
	router.PUT("/profiles/:client_id", handler.Upsert)

	reqBody := partnerapp.UpsertProfileRequest{
		FirstName: "Anna",
		LastName:  "Keller",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPut, "/profiles/alice", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Anna", data["first_name"])

	profileRepo.AssertExpectations(t)
}

func TestProfileHandler_Upsert_InvalidEmail(t *testing.T) {
	profileRepo := new(MockClientProfileRepository)
	handler := setupProfileHandler(profileRepo)

	router := setupTestRouter()
	router.PUT("/profiles/:client_id", handler.Upsert)

	req := httptest.NewRequest(http.MethodPut, "/profiles/alice",
		bytes.NewBufferString(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileHandler_Get_Success(t *testing.T) {
	profileRepo := new(MockClientProfileRepository)
	handler := setupProfileHandler(profileRepo)

	profile := createTestProfile("alice")
	profileRepo.On("FindByClientID", mock.Anything, "alice").Return(profile, nil)

	router := setupTestRouter()
	router.GET("/profiles/:client_id", handler.Get)

	req := httptest.NewRequest(http.MethodGet, "/profiles/alice", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	profileRepo.AssertExpectations(t)
}

func TestProfileHandler_Get_NotFound(t *testing.T) {
	profileRepo := new(MockClientProfileRepository)
	handler := setupProfileHandler(profileRepo)

	profileRepo.On("FindByClientID", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/profiles/:client_id", handler.Get)

	req := httptest.NewRequest(http.MethodGet, "/profiles/ghost", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	profileRepo.AssertExpectations(t)
}

func TestProfileHandler_List_Success(t *testing.T) {
	profileRepo := new(MockClientProfileRepository)
	handler := setupProfileHandler(profileRepo)

	profiles := []partner.ClientProfile{*createTestProfile("alice"), *createTestProfile("bob")}

	profileRepo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(profiles, nil)
	profileRepo.On("Count", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(int64(2), nil)

	router := setupTestRouter()
	router.GET("/profiles", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/profiles?page=1&page_size=20", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response["success"].(bool))
	assert.NotNil(t, response["meta"])

	profileRepo.AssertExpectations(t)
}

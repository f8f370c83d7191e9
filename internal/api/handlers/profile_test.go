package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/api/handlers"
	appErrors "github.com/malaura/storefront/internal/errors"
	"github.com/malaura/storefront/internal/loyalty"
	"github.com/malaura/storefront/internal/models"
	svcMocks "github.com/malaura/storefront/internal/services/mocks"
	"github.com/malaura/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		profiles := svcMocks.NewMockProfileService(t)
		h := handlers.NewProfileHandler(profiles)

		resp := &models.ProfileResponse{
			Profile: &models.Profile{ID: userID, FullName: "Lucía Pérez"},
			Email:   testutils.TestEmail,
			Loyalty: loyalty.Summarize(31),
		}
		profiles.On("GetProfile", mock.Anything, userID, testutils.TestEmail).Return(resp, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/profile", nil, userID, nil)
		rr := httptest.NewRecorder()

		// Act
		h.GetProfile().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Lucía Pérez")
		assert.Contains(t, rr.Body.String(), loyalty.Gold.Name)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		profiles := svcMocks.NewMockProfileService(t)
		h := handlers.NewProfileHandler(profiles)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/profile", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		h.GetProfile().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestUpdateProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		profiles := svcMocks.NewMockProfileService(t)
		h := handlers.NewProfileHandler(profiles)

		expectedReq := &models.UpdateProfileRequest{FullName: "Lucía Pérez", Phone: "600000000"}
		profiles.On("UpdateProfile", mock.Anything, userID, testutils.TestEmail, expectedReq).
			Return(&models.ProfileResponse{Profile: &models.Profile{ID: userID, FullName: "Lucía Pérez"}}, nil).Once()

		body := []byte(`{"full_name":"Lucía Pérez","phone":"600000000"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/profile", bytes.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		h.UpdateProfile().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Invalid Avatar URL", func(t *testing.T) {
		// Arrange
		profiles := svcMocks.NewMockProfileService(t)
		h := handlers.NewProfileHandler(profiles)

		body := []byte(`{"avatar_url":"not a url"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/profile", bytes.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		h.UpdateProfile().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeValidation)
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		// Arrange
		profiles := svcMocks.NewMockProfileService(t)
		h := handlers.NewProfileHandler(profiles)

		profiles.On("UpdateProfile", mock.Anything, userID, mock.Anything, mock.Anything).
			Return(nil, appErrors.DatabaseError("Failed to save profile")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/profile", bytes.NewReader([]byte(`{"full_name":"L"}`)), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		h.UpdateProfile().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

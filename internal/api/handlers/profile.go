package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/malaura/storefront/internal/models"
	service "github.com/malaura/storefront/internal/services"
	"github.com/malaura/storefront/internal/utils"
	"github.com/malaura/storefront/internal/utils/response"
)

type ProfileHandler struct {
	profileService service.ProfileService
	validator      *validator.Validate
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, validator: validator.New()}
}

// GetProfile godoc
//
//	@Summary		Get the caller's profile
//	@Description	Returns the stored profile together with the loyalty tier earned from paid orders.
//	@Tags			Profile
//	@Produce		json
//	@Success		200	{object}	models.ProfileResponse	"Profile and loyalty summary"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/profile [get]
func (h *ProfileHandler) GetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		profile, err := h.profileService.GetProfile(r.Context(), claims.UserID, claims.Email)
		if err != nil {
			logger.Error("Failed to get profile",
				slog.String("userID", claims.UserID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, profile)
	}
}

// UpdateProfile godoc
//
//	@Summary		Update the caller's profile
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Param			profile	body		models.UpdateProfileRequest	true	"Profile fields"
//	@Success		200		{object}	models.ProfileResponse		"Updated profile"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/profile [put]
func (h *ProfileHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, logger, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req models.UpdateProfileRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid profile update input")
			return
		}

		profile, err := h.profileService.UpdateProfile(r.Context(), claims.UserID, claims.Email, &req)
		if err != nil {
			logger.Error("Failed to update profile", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Profile updated")
		response.Success(w, http.StatusOK, profile)
	}
}

package api

import (
	"net/http"

	"github.com/HamidMoopen/memo-ai-sub000/internal/api/respond"
	"github.com/HamidMoopen/memo-ai-sub000/internal/api/validate"
	"github.com/HamidMoopen/memo-ai-sub000/internal/services"
)

// ProfileHandler serves the caller's contact profile.
type ProfileHandler struct {
	svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProfile(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

type updateProfileRequest struct {
	// Loose input; the service normalizes it to E.164.
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// UpdateProfile handles PATCH /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := validate.Decode(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	p, err := h.svc.UpdatePhone(r.Context(), userID(r), req.PhoneNumber)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

package api

import (
	"net/http"

	"healthportal/m/internal/identity"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, err)
		return
	}
	grant, err := h.Identity.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, grant)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, err)
		return
	}
	grant, err := h.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, grant)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Identity.SignOut(r.Context(), sessionFrom(r)); err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, found, err := h.Identity.Profile(r.Context(), sessionFrom(r))
	if err != nil {
		respondFailure(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "profile not found")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req identity.ProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		h.mutationFailed(w, r, "Profile updated", err)
		return
	}
	profile, err := h.Identity.UpdateProfile(r.Context(), sessionFrom(r), req)
	h.notifyOutcome(r, "Profile updated", "Your profile changes were saved", err)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

package api

import (
	"net/http"

	"healthportal/m/internal/appointment"
)

func (h *Handler) listDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.Scheduler.Doctors(r.Context())
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doctors)
}

func (h *Handler) listSlots(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, appointment.Slots())
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.Scheduler.ListForUser(r.Context(), sessionFrom(r))
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, appts)
}

func (h *Handler) bookAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointment.BookRequest
	if err := decodeJSON(r, &req); err != nil {
		h.mutationFailed(w, r, "Appointment booked", err)
		return
	}
	appt, err := h.Scheduler.Book(r.Context(), sessionFrom(r), req)
	h.notifyOutcome(r, "Appointment booked", "Your appointment on "+req.Date+" at "+req.TimeSlot+" is scheduled", err)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, appt)
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) transitionAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.mutationFailed(w, r, "Appointment updated", err)
		return
	}
	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.mutationFailed(w, r, "Appointment updated", err)
		return
	}
	appt, err := h.Scheduler.Transition(r.Context(), sessionFrom(r), id, req.Status)
	h.notifyOutcome(r, "Appointment updated", "Your appointment is now "+req.Status, err)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, appt)
}

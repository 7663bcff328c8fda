package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"healthportal/m/domain"
	"healthportal/m/internal/records"
)

func (h *Handler) listSymptomChecks(w http.ResponseWriter, r *http.Request) {
	checks, err := h.Symptoms.History(r.Context(), sessionFrom(r))
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, checks)
}

type analyzeRequest struct {
	Symptoms []string `json:"symptoms"`
}

type analyzeResponse struct {
	Check          domain.SymptomCheck   `json:"check"`
	Classification domain.Classification `json:"classification"`
}

func (h *Handler) analyzeSymptoms(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.mutationFailed(w, r, "Symptoms analyzed", err)
		return
	}
	check, c, err := h.Symptoms.Check(r.Context(), sessionFrom(r), req.Symptoms)
	h.notifyOutcome(r, "Symptoms analyzed", "Possible condition: "+c.Condition, err)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, analyzeResponse{Check: check, Classification: c})
}

func (h *Handler) listHealthRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Records.List(r.Context(), sessionFrom(r))
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

type createRecordRequest struct {
	Type        domain.RecordType `json:"record_type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	FileURL     string            `json:"file_url"`
	Data        json.RawMessage   `json:"data"`
}

func (h *Handler) createHealthRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.mutationFailed(w, r, "Health record saved", err)
		return
	}
	rec, err := h.createRecord(r, req)
	h.notifyOutcome(r, "Health record saved", strings.TrimSpace(req.Title), err)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

func (h *Handler) createRecord(r *http.Request, req createRecordRequest) (domain.HealthRecord, error) {
	in := records.NewRecord{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
	}
	if req.Type.Valid() {
		payload, err := domain.DecodePayload(req.Type, req.Data)
		if err != nil {
			return domain.HealthRecord{}, err
		}
		in.Payload = payload
	}
	return h.Records.Create(r.Context(), sessionFrom(r), in)
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HamidMoopen/memo-ai-sub000/internal/api/respond"
	"github.com/HamidMoopen/memo-ai-sub000/internal/api/validate"
	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/services"
)

type RecordingHandler struct {
	svc *services.RecordingService
}

func NewRecordingHandler(svc *services.RecordingService) *RecordingHandler {
	return &RecordingHandler{svc: svc}
}

type createRecordingRequest struct {
	SessionID   string  `json:"sessionId" validate:"required"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description"`
}

// CreateRecording handles POST /api/recordings
func (h *RecordingHandler) CreateRecording(w http.ResponseWriter, r *http.Request) {
	var req createRecordingRequest
	if err := validate.Decode(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	rec, err := h.svc.CreateRecording(r.Context(), &model.Recording{
		UserID:      userID(r),
		SessionID:   req.SessionID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, rec)
}

type completeRecordingRequest struct {
	Transcript string `json:"transcript"`
}

// CompleteRecording handles POST /api/recordings/{recordingId}/complete
func (h *RecordingHandler) CompleteRecording(w http.ResponseWriter, r *http.Request) {
	var req completeRecordingRequest
	if err := validate.DecodeJSON(r, &req, true); err != nil {
		writeServiceError(w, r, err)
		return
	}
	rec, err := h.svc.CompleteRecording(r.Context(), userID(r), mux.Vars(r)["recordingId"], req.Transcript)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}

// ListRecordings handles GET /api/recordings
func (h *RecordingHandler) ListRecordings(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListRecordings(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if recs == nil {
		recs = []*model.Recording{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"recordings": recs, "count": len(recs)})
}

// GetRecording handles GET /api/recordings/{recordingId}
func (h *RecordingHandler) GetRecording(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetRecording(r.Context(), userID(r), mux.Vars(r)["recordingId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HamidMoopen/memo-ai-sub000/internal/api/respond"
	"github.com/HamidMoopen/memo-ai-sub000/internal/api/validate"
	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/services"
)

// CallHandler starts phone capture sessions and reads them back.
type CallHandler struct {
	svc *services.CallService
}

func NewCallHandler(svc *services.CallService) *CallHandler {
	return &CallHandler{svc: svc}
}

type initiateCallRequest struct {
	CustomerPhoneNumber string `json:"customerPhoneNumber" validate:"required,e164us"`
	AssistantID         string `json:"assistantId"`
	PhoneNumberID       string `json:"phoneNumberId"`
}

// InitiateCall handles POST /api/call
func (h *CallHandler) InitiateCall(w http.ResponseWriter, r *http.Request) {
	var req initiateCallRequest
	if err := validate.Decode(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	call, err := h.svc.InitiateCall(r.Context(), services.InitiateCallRequest{
		UserID:         userID(r),
		CustomerNumber: req.CustomerPhoneNumber,
		AssistantID:    req.AssistantID,
		PhoneNumberID:  req.PhoneNumberID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "vapiCallId": call.CallID})
}

// ListCalls handles GET /api/calls
func (h *CallHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	calls, err := h.svc.ListCalls(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if calls == nil {
		calls = []*model.Call{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"calls": calls, "count": len(calls)})
}

// GetCall handles GET /api/calls/{callId}
func (h *CallHandler) GetCall(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetCallDetail(r.Context(), userID(r), mux.Vars(r)["callId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, detail)
}

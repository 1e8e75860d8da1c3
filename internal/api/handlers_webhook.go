package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/HamidMoopen/memo-ai-sub000/internal/api/respond"
	"github.com/HamidMoopen/memo-ai-sub000/internal/api/validate"
	"github.com/HamidMoopen/memo-ai-sub000/internal/callevents"
	"github.com/HamidMoopen/memo-ai-sub000/internal/metrics"
)

// WebhookHandler receives call events from the voice platform.
type WebhookHandler struct {
	dispatcher *callevents.Dispatcher
}

func NewWebhookHandler(d *callevents.Dispatcher) *WebhookHandler {
	return &WebhookHandler{dispatcher: d}
}

// HandleVapi handles POST /api/webhook/vapi. Only undecodable bodies and
// write failures are reported as errors; unknown or incomplete events are
// acknowledged so the platform does not retry them.
func (h *WebhookHandler) HandleVapi(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, validate.MaxBodyBytes))
	if err != nil {
		respond.WriteBadRequest(w, "unreadable request body")
		return
	}
	ev, err := callevents.Parse(body)
	if err != nil {
		metrics.RecordWebhookEvent(string(callevents.KindUnknown), "malformed")
		hlog.FromRequest(r).Warn().Err(err).Msg("malformed call event")
		msg := "invalid event payload"
		if errors.Is(err, callevents.ErrMalformedEvent) {
			msg = err.Error()
		}
		respond.WriteBadRequest(w, msg)
		return
	}

	out, err := h.dispatcher.Dispatch(r.Context(), ev)
	if err != nil {
		metrics.RecordWebhookEvent(string(ev.Kind), "error")
		writeServiceError(w, r, err)
		return
	}

	metrics.RecordWebhookEvent(string(ev.Kind), "ok")
	metrics.WebhookToolCalls.Add(float64(out.ToolsRun))
	if ev.Kind == callevents.KindUnknown {
		metrics.RecordWebhookIgnored("event_type", len(out.Ignored))
	} else {
		metrics.RecordWebhookIgnored("tool_name", len(out.Ignored))
	}
	metrics.RecordWebhookIgnored("invalid", len(out.Dropped))

	hlog.FromRequest(r).Info().
		Str("kind", string(ev.Kind)).
		Str("call_id", ev.CallID).
		Int("tools_run", out.ToolsRun).
		Strs("ignored", out.Ignored).
		Strs("dropped", out.Dropped).
		Msg("call event handled")
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

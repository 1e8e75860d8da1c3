package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/HamidMoopen/memo-ai-sub000/internal/api/respond"
	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/voice"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, voice.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError logs err and writes the mapped status. Client and upstream
// errors carry their message; other server errors stay generic.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= 500 {
		hlog.FromRequest(r).Error().Stack().Err(err).Int("status", code).Msg("request failed")
		msg := "Internal Server Error"
		switch {
		case code == http.StatusServiceUnavailable:
			msg = "Voice platform unavailable"
		case errors.Is(err, model.ErrUpstream):
			msg = err.Error()
		}
		respond.WriteError(w, code, msg)
		return
	}
	hlog.FromRequest(r).Debug().Err(err).Int("status", code).Msg("request rejected")
	respond.WriteError(w, code, clientMessage(err))
}

func clientMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{model.ErrValidation, model.ErrNotFound, model.ErrConflict, model.ErrUnauthorized} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	return msg
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/HamidMoopen/memo-ai-sub000/internal/api/respond"
	"github.com/HamidMoopen/memo-ai-sub000/internal/api/validate"
	"github.com/HamidMoopen/memo-ai-sub000/internal/services"
)

// BookHandler exports the caller's stories as a PDF.
type BookHandler struct {
	svc *services.BookService
}

func NewBookHandler(svc *services.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

type exportBookRequest struct {
	Title string `json:"title" validate:"max=200"`
}

// ExportBook handles POST /api/generate-pdf
func (h *BookHandler) ExportBook(w http.ResponseWriter, r *http.Request) {
	var req exportBookRequest
	if err := validate.DecodeJSON(r, &req, true); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	b, err := h.svc.ExportBook(r.Context(), userID(r), req.Title)
	switch {
	case errors.Is(err, services.ErrNoStories):
		respond.WriteNotFound(w, "No stories found")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Stack().Err(err).Msg("book export failed")
		respond.WriteInternalError(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", b.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(b.PDF)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.PDF)
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HamidMoopen/memo-ai-sub000/internal/api/respond"
	"github.com/HamidMoopen/memo-ai-sub000/internal/api/validate"
	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/narrator"
	"github.com/HamidMoopen/memo-ai-sub000/internal/services"
)

// StoryHandler serves story CRUD, the life-chapter catalogue and generation.
type StoryHandler struct {
	svc *services.StoryService
}

func NewStoryHandler(svc *services.StoryService) *StoryHandler {
	return &StoryHandler{svc: svc}
}

type storyRequest struct {
	Title           string                `json:"title" validate:"required,max=200"`
	Content         string                `json:"content" validate:"required"`
	Category        string                `json:"category" validate:"required,lifechapter"`
	Emotion         string                `json:"emotion" validate:"max=100"`
	Themes          []string              `json:"themes"`
	ChapterMetadata model.ChapterMetadata `json:"chapterMetadata"`
}

func (req storyRequest) toStory(userID, storyID string) *model.Story {
	themes := req.Themes
	if themes == nil {
		themes = []string{}
	}
	return &model.Story{
		StoryID:         storyID,
		UserID:          userID,
		Title:           req.Title,
		Content:         req.Content,
		Category:        model.LifeChapter(req.Category),
		Emotion:         req.Emotion,
		Themes:          themes,
		ChapterMetadata: req.ChapterMetadata,
	}
}

// ListStories handles GET /api/stories
func (h *StoryHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.svc.ListStories(r.Context(), model.ListStoriesRequest{
		UserID:   userID(r),
		Category: model.LifeChapter(r.URL.Query().Get("chapter")),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if stories == nil {
		stories = []*model.Story{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"stories": stories, "count": len(stories)})
}

// CreateStory handles POST /api/stories
func (h *StoryHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := validate.Decode(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	st, err := h.svc.CreateStory(r.Context(), req.toStory(userID(r), ""))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, st)
}

// GetStory handles GET /api/stories/{storyId}
func (h *StoryHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.GetStory(r.Context(), userID(r), mux.Vars(r)["storyId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, st)
}

// UpdateStory handles PUT /api/stories/{storyId}
func (h *StoryHandler) UpdateStory(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := validate.Decode(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	st, err := h.svc.UpdateStory(r.Context(), req.toStory(userID(r), mux.Vars(r)["storyId"]))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, st)
}

// DeleteStory handles DELETE /api/stories/{storyId}
func (h *StoryHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteStory(r.Context(), userID(r), mux.Vars(r)["storyId"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LifeChapters handles GET /api/life-chapters
func (h *StoryHandler) LifeChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.svc.LifeChapters(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"chapters": chapters})
}

type generateRequest struct {
	Options     narrator.Options       `json:"options"`
	Stories     []narrator.SourceStory `json:"stories"`
	CallID      string                 `json:"callId"`
	RecordingID string                 `json:"recordingId"`
}

// GenerateStory handles POST /api/generate-story
func (h *StoryHandler) GenerateStory(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := validate.DecodeJSON(r, &req, true); err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := h.svc.GenerateStory(r.Context(), services.GenerateRequest{
		UserID:      userID(r),
		Options:     req.Options,
		Stories:     req.Stories,
		CallID:      req.CallID,
		RecordingID: req.RecordingID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

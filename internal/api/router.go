package api

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/HamidMoopen/memo-ai-sub000/internal/api/recovery"
	"github.com/HamidMoopen/memo-ai-sub000/internal/api/respond"
	"github.com/HamidMoopen/memo-ai-sub000/internal/auth"
	"github.com/HamidMoopen/memo-ai-sub000/internal/callevents"
	"github.com/HamidMoopen/memo-ai-sub000/internal/services"
)

// Deps are the constructed components the router wires to handlers.
type Deps struct {
	Log           zerolog.Logger
	Auth          auth.Authenticator
	WebhookSecret string
	// Requests per minute per client IP on POST /api/generate-story; <= 0 disables.
	GenerateRateLimit int

	Users      *services.UserService
	Profiles   *services.ProfileService
	Stories    *services.StoryService
	Calls      *services.CallService
	Recordings *services.RecordingService
	Books      *services.BookService
	Dispatcher *callevents.Dispatcher
	Health     HealthSource
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	root := mux.NewRouter()

	// Global middlewares
	for _, mw := range requestLogging(d.Log) {
		root.Use(mw)
	}
	root.Use(recovery.Middleware)
	root.Use(instrument)

	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteNotFound(w, "Not Found")
	})

	// Unauthenticated
	root.HandleFunc("/api/health", NewHealthHandler(d.Health).CheckHealth).Methods("GET")
	root.Handle("/metrics", promhttp.Handler()).Methods("GET")

	webhook := root.PathPrefix("/api/webhook").Subrouter()
	webhook.Use(requireWebhookSecret(d.WebhookSecret))
	webhook.HandleFunc("/vapi", NewWebhookHandler(d.Dispatcher).HandleVapi).Methods("POST")

	// Session-authenticated
	sec := root.PathPrefix("/api").Subrouter()
	sec.Use(requireSession(d.Auth, d.Users))

	stories := NewStoryHandler(d.Stories)
	sec.HandleFunc("/stories", stories.ListStories).Methods("GET")
	sec.HandleFunc("/stories", stories.CreateStory).Methods("POST")
	sec.HandleFunc("/stories/{storyId}", stories.GetStory).Methods("GET")
	sec.HandleFunc("/stories/{storyId}", stories.UpdateStory).Methods("PUT")
	sec.HandleFunc("/stories/{storyId}", stories.DeleteStory).Methods("DELETE")
	sec.HandleFunc("/life-chapters", stories.LifeChapters).Methods("GET")

	var generate http.Handler = http.HandlerFunc(stories.GenerateStory)
	if d.GenerateRateLimit > 0 {
		generate = httprate.LimitByIP(d.GenerateRateLimit, time.Minute)(generate)
	}
	sec.Handle("/generate-story", generate).Methods("POST")

	sec.HandleFunc("/generate-pdf", NewBookHandler(d.Books).ExportBook).Methods("POST")

	calls := NewCallHandler(d.Calls)
	sec.HandleFunc("/call", calls.InitiateCall).Methods("POST")
	sec.HandleFunc("/calls", calls.ListCalls).Methods("GET")
	sec.HandleFunc("/calls/{callId}", calls.GetCall).Methods("GET")

	profile := NewProfileHandler(d.Profiles)
	sec.HandleFunc("/profile", profile.GetProfile).Methods("GET")
	sec.HandleFunc("/profile", profile.UpdateProfile).Methods("PATCH")

	recs := NewRecordingHandler(d.Recordings)
	sec.HandleFunc("/recordings", recs.ListRecordings).Methods("GET")
	sec.HandleFunc("/recordings", recs.CreateRecording).Methods("POST")
	sec.HandleFunc("/recordings/{recordingId}", recs.GetRecording).Methods("GET")
	sec.HandleFunc("/recordings/{recordingId}/complete", recs.CompleteRecording).Methods("POST")

	return root
}

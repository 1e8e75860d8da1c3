package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamidMoopen/memo-ai-sub000/internal/auth"
	"github.com/HamidMoopen/memo-ai-sub000/internal/callevents"
	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/narrator"
	"github.com/HamidMoopen/memo-ai-sub000/internal/services"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store/sqlite"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store/sqlstore"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store/storetest"
	"github.com/HamidMoopen/memo-ai-sub000/internal/voice"
)

const testSecret = "router-test-secret"

type stubNarrator struct{ chapters []narrator.Chapter }

func (s *stubNarrator) Compose(context.Context, []narrator.SourceStory, narrator.Options) ([]narrator.Chapter, error) {
	return s.chapters, nil
}

type stubDialer struct {
	id  string
	err error
}

func (s *stubDialer) CreateCall(context.Context, voice.CallRequest) (string, error) {
	return s.id, s.err
}

type testEnv struct {
	t      *testing.T
	router http.Handler
	store  store.Store
	jwt    *auth.JWTAuthenticator
	dialer *stubDialer
}

func newTestEnv(t *testing.T, webhookSecret string) *testEnv {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))
	st := sqlite.NewWithDB(db, sqlstore.WithClock(storetest.TickingClock()))

	jwtAuth, err := auth.NewJWTAuthenticator(testSecret)
	require.NoError(t, err)

	log := zerolog.Nop()
	dialer := &stubDialer{id: "vapi-call-1"}
	narr := &stubNarrator{chapters: []narrator.Chapter{{
		Title:       "The Orchard",
		Content:     "We picked apples every autumn.",
		LifeChapter: model.ChapterChildhood,
		Themes:      []string{"family"},
	}}}

	router := NewRouter(Deps{
		Log:           log,
		Auth:          jwtAuth,
		WebhookSecret: webhookSecret,
		Users:         services.NewUserService(st),
		Profiles:      services.NewProfileService(st),
		Stories:       services.NewStoryService(st, narr, log),
		Calls: services.NewCallService(st, dialer, services.CallDefaults{
			AssistantID: "asst-1", PhoneNumberID: "pn-1",
		}, log),
		Recordings: services.NewRecordingService(st),
		Books:      services.NewBookService(st),
		Dispatcher: callevents.NewDispatcher(services.NewCallEventWriter(st), log),
	})
	return &testEnv{t: t, router: router, store: st, jwt: jwtAuth, dialer: dialer}
}

func (e *testEnv) token(userID string) string {
	tok, err := e.jwt.IssueToken(userID, userID+"@example.test", time.Hour)
	require.NoError(e.t, err)
	return tok
}

func (e *testEnv) do(method, path, userID string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(e.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+e.token(userID))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestAuth_Required(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("GET", "/api/stories", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized","code":401}`, w.Body.String())

	req := httptest.NewRequest("GET", "/api/stories", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_EnsuresUserRow(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.do("GET", "/api/profile", "u-new", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	u, err := env.store.Users().Get(context.Background(), "u-new")
	require.NoError(t, err)
	assert.Equal(t, "u-new@example.test", u.Email)
}

func TestWebhook_ToolCallSavesContext(t *testing.T) {
	env := newTestEnv(t, "")
	body := `{"type":"tool-call","data":{"callId":"c1","toolCalls":[{"name":"saveContext","parameters":{"time":"1965","location":"Ohio","people":["Mom"]}}]}}`

	w := env.do("POST", "/api/webhook/vapi", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	ctxs, err := env.store.Contexts().ListByCall(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, ctxs, 1)
	assert.Equal(t, "1965", ctxs[0].TimePeriod)
	assert.Equal(t, "Ohio", ctxs[0].Location)
	assert.Equal(t, []string{"Mom"}, ctxs[0].PeopleInvolved)
}

func TestWebhook_ErrorsAndUnknowns(t *testing.T) {
	env := newTestEnv(t, "")

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"type":`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"known kind without call id acknowledged", `{"type":"conversation-update","data":{"transcript":"hi"}}`, http.StatusOK},
		{"tool call missing emotion acknowledged", `{"type":"tool-call","data":{"callId":"c2","toolCalls":[{"name":"markEmotionalMoment","parameters":{"intensity":2}}]}}`, http.StatusOK},
		{"unknown type acknowledged", `{"type":"speech-update","data":{"callId":"c2"}}`, http.StatusOK},
		{"unknown tool acknowledged", `{"type":"tool-call","data":{"callId":"c2","toolCalls":[{"name":"dance","parameters":{}}]}}`, http.StatusOK},
		{"end of call for unknown call", `{"type":"end-of-call-report","data":{"callId":"ghost","summary":"s"}}`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do("POST", "/api/webhook/vapi", "", tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}

	moments, err := env.store.Emotions().ListByCall(context.Background(), "c2")
	require.NoError(t, err)
	assert.Empty(t, moments)
}

func TestWebhook_Secret(t *testing.T) {
	env := newTestEnv(t, "shh")
	body := `{"type":"conversation-update","data":{"callId":"c3","transcript":"hello"}}`

	w := env.do("POST", "/api/webhook/vapi", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest("POST", "/api/webhook/vapi", bytes.NewBufferString(body))
	req.Header.Set("X-Vapi-Secret", "shh")
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestStories_CRUDAndOwnership(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("POST", "/api/stories", "alice", map[string]any{
		"title": "First bike", "content": "It was red.", "category": "childhood",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.Story](t, w)
	assert.Equal(t, model.SourceManual, created.Source)

	w = env.do("POST", "/api/stories", "alice", map[string]any{
		"title": "Bad", "content": "x", "category": "space_travel",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("GET", "/api/stories?chapter=childhood", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Stories []model.Story `json:"stories"`
		Count   int           `json:"count"`
	}](t, w)
	assert.Equal(t, 1, list.Count)

	path := "/api/stories/" + created.StoryID
	assert.Equal(t, http.StatusNotFound, env.do("GET", path, "mallory", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do("DELETE", path, "mallory", nil).Code)
	assert.Equal(t, http.StatusOK, env.do("GET", path, "alice", nil).Code)

	w = env.do("PUT", path, "alice", map[string]any{
		"title": "First bike", "content": "It was blue.", "category": "childhood",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "It was blue.", decode[model.Story](t, w).Content)

	assert.Equal(t, http.StatusNoContent, env.do("DELETE", path, "alice", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do("DELETE", path, "alice", nil).Code)
}

func TestLifeChapters(t *testing.T) {
	env := newTestEnv(t, "")
	env.do("POST", "/api/stories", "alice", map[string]any{"title": "t", "content": "c", "category": "college"})

	w := env.do("GET", "/api/life-chapters", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Chapters []services.ChapterSummary `json:"chapters"`
	}](t, w)
	require.Len(t, body.Chapters, 12)
	assert.Equal(t, model.ChapterCollege, body.Chapters[4].Chapter)
	assert.Equal(t, 1, body.Chapters[4].StoryCount)
}

func TestGenerateStory(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("POST", "/api/generate-story", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "no sources")

	w = env.do("POST", "/api/generate-story", "alice", map[string]any{
		"options": map[string]any{"tone": "grim"},
		"stories": []map[string]string{{"title": "t", "content": "c"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "bad tone")

	w = env.do("POST", "/api/generate-story", "alice", map[string]any{
		"stories": []map[string]string{{"title": "Apples", "content": "Autumn in the orchard."}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[services.GenerateResult](t, w)
	require.Len(t, res.Chapters, 1)
	require.NotNil(t, res.Story)
	assert.Equal(t, model.SourceGenerated, res.Story.Source)
	assert.Equal(t, "The Orchard", res.Story.Title)
}

func TestExportBook(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("POST", "/api/generate-pdf", "alice", map[string]any{"title": "Ann's Life"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"No stories found","code":404}`, w.Body.String())

	env.do("POST", "/api/stories", "alice", map[string]any{"title": "t", "content": "c", "category": "legacy"})
	w = env.do("POST", "/api/generate-pdf", "alice", map[string]any{"title": "Ann's Life"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="ann-s-life.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestProfile_Phone(t *testing.T) {
	env := newTestEnv(t, "")

	cases := []struct {
		in   string
		want int
		norm string
	}{
		{"(555) 123-4567", http.StatusOK, "+15551234567"},
		{"1-555-123-4567", http.StatusOK, "+15551234567"},
		{"+1 555 123 4567", http.StatusOK, "+15551234567"},
		{"555-1234", http.StatusBadRequest, ""},
		{"2-555-123-4567", http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			w := env.do("PATCH", "/api/profile", "alice", map[string]string{"phoneNumber": tc.in})
			require.Equal(t, tc.want, w.Code, w.Body.String())
			if tc.want == http.StatusOK {
				p := decode[model.Profile](t, w)
				assert.Equal(t, tc.norm, p.PhoneNumber)
				assert.False(t, p.PhoneVerified)
			}
		})
	}
}

func TestCalls(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("POST", "/api/call", "alice", map[string]string{"customerPhoneNumber": "555-123-4567"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("POST", "/api/call", "alice", map[string]string{"customerPhoneNumber": "+15551234567"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"vapiCallId":"vapi-call-1"}`, w.Body.String())

	w = env.do("GET", "/api/calls/vapi-call-1", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[model.CallDetail](t, w)
	assert.Equal(t, model.CallInitiated, detail.Call.Status)
	assert.Equal(t, http.StatusNotFound, env.do("GET", "/api/calls/vapi-call-1", "mallory", nil).Code)

	env.dialer.err = fmt.Errorf("%w: voice platform status 400: bad number", model.ErrUpstream)
	w = env.do("POST", "/api/call", "alice", map[string]string{"customerPhoneNumber": "+15551234567"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "bad number")

	env.dialer.err = voice.ErrUnavailable
	w = env.do("POST", "/api/call", "alice", map[string]string{"customerPhoneNumber": "+15551234567"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRecordings(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do("POST", "/api/recordings", "alice", map[string]string{"sessionId": "s1", "title": "Kitchen chat"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rec := decode[model.Recording](t, w)
	assert.Equal(t, model.RecordingCreated, rec.Status)

	path := "/api/recordings/" + rec.RecordingID + "/complete"
	w = env.do("POST", path, "alice", map[string]string{"transcript": "we talked"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.RecordingCompleted, decode[model.Recording](t, w).Status)

	assert.Equal(t, http.StatusConflict, env.do("POST", path, "alice", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do("GET", "/api/recordings/"+rec.RecordingID, "mallory", nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.do("GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

//go:build e2e

package e2e

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDevEnv_StoryLifecycle creates, lists, exports and deletes a story
// against a locally running service.
func TestDevEnv_StoryLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	c := newClient(t)
	waitForHealthy(t, c, 10*time.Second)

	var created struct {
		StoryID string `json:"storyId"`
	}
	title := fmt.Sprintf("Smoke-%d", time.Now().UnixNano())
	resp, err := c.R().
		SetBody(map[string]string{"title": title, "content": "A day at the lake.", "category": "childhood"}).
		SetResult(&created).
		Post("/api/stories")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())
	defer func() { _, _ = c.R().Delete("/api/stories/" + created.StoryID) }()

	var list struct {
		Count int `json:"count"`
	}
	resp, err = c.R().SetQueryParam("chapter", "childhood").SetResult(&list).Get("/api/stories")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.GreaterOrEqual(t, list.Count, 1)

	resp, err = c.R().SetBody(map[string]string{"title": "Smoke Book"}).Post("/api/generate-pdf")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(resp.Body(), []byte("%PDF-")))
}

// TestDevEnv_WebhookRoundTrip posts a running transcript and a tool call for
// a call the service never initiated; both must be acknowledged.
func TestDevEnv_WebhookRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	c := newClient(t)
	callID := fmt.Sprintf("smoke-%d", time.Now().UnixNano())

	for _, body := range []string{
		fmt.Sprintf(`{"type":"conversation-update","data":{"callId":%q,"transcript":"hello"}}`, callID),
		fmt.Sprintf(`{"type":"tool-call","data":{"callId":%q,"toolCalls":[{"name":"markEmotionalMoment","parameters":{"emotion":"joy","intensity":7}}]}}`, callID),
		fmt.Sprintf(`{"type":"status-update","data":{"callId":%q}}`, callID),
	} {
		resp, err := c.R().
			SetHeader("Content-Type", "application/json").
			SetHeader("X-Vapi-Secret", env("ETERNA_VAPI_WEBHOOK_SECRET", "")).
			SetBody(body).
			Post("/api/webhook/vapi")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
	}
}

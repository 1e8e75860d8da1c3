package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordWebhookIgnored(t *testing.T) {
	before := testutil.ToFloat64(WebhookIgnored.WithLabelValues("tool_name"))
	RecordWebhookIgnored("tool_name", 2)
	RecordWebhookIgnored("tool_name", 0)
	assert.Equal(t, before+2, testutil.ToFloat64(WebhookIgnored.WithLabelValues("tool_name")))
}

func TestRecordStoryGeneration(t *testing.T) {
	ok := testutil.ToFloat64(StoryGenerations.WithLabelValues("success"))
	bad := testutil.ToFloat64(StoryGenerations.WithLabelValues("error"))

	RecordStoryGeneration(time.Second, nil)
	RecordStoryGeneration(time.Second, errors.New("boom"))

	assert.Equal(t, ok+1, testutil.ToFloat64(StoryGenerations.WithLabelValues("success")))
	assert.Equal(t, bad+1, testutil.ToFloat64(StoryGenerations.WithLabelValues("error")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("/api/stories", "GET", "200"))
	RecordHTTPRequest("/api/stories", "GET", 200, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("/api/stories", "GET", "200")))
}

func TestRecordBookExport(t *testing.T) {
	before := testutil.ToFloat64(BookExports.WithLabelValues("error"))
	RecordBookExport(0, errors.New("x"))
	assert.Equal(t, before+1, testutil.ToFloat64(BookExports.WithLabelValues("error")))
}

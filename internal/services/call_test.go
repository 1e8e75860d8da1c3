package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamidMoopen/memo-ai-sub000/internal/callevents"
	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

func TestInitiateCall(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "ann")
	d := &fakeDialer{id: "vapi-1"}
	svc := NewCallService(st, d, CallDefaults{AssistantID: "asst", PhoneNumberID: "pn", WebhookURL: "https://x/api/webhook/vapi"}, zerolog.Nop())

	_, err := svc.InitiateCall(ctx, InitiateCallRequest{UserID: "ann", CustomerNumber: "555-123-4567"})
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, d.reqs, "invalid numbers never reach the platform")

	call, err := svc.InitiateCall(ctx, InitiateCallRequest{UserID: "ann", CustomerNumber: "+15551234567", AssistantID: "asst-override"})
	require.NoError(t, err)
	assert.Equal(t, "vapi-1", call.CallID)
	assert.Equal(t, model.CallInitiated, call.Status)
	require.Len(t, d.reqs, 1)
	assert.Equal(t, "asst-override", d.reqs[0].AssistantID)
	assert.Equal(t, "pn", d.reqs[0].PhoneNumberID)
	assert.Equal(t, "https://x/api/webhook/vapi", d.reqs[0].ServerURL)
	assert.Equal(t, "ann", d.reqs[0].Metadata["userId"])

	calls, err := svc.ListCalls(ctx, "ann")
	require.NoError(t, err)
	assert.Len(t, calls, 1)
}

func TestInitiateCall_MissingDefaults(t *testing.T) {
	svc := NewCallService(newTestStore(t, "ann"), &fakeDialer{id: "x"}, CallDefaults{}, zerolog.Nop())
	_, err := svc.InitiateCall(context.Background(), InitiateCallRequest{UserID: "ann", CustomerNumber: "+15551234567"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestInitiateCall_UpstreamFailureRecordsNothing(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "ann")
	svc := NewCallService(st, &fakeDialer{err: model.ErrUpstream}, CallDefaults{AssistantID: "a", PhoneNumberID: "p"}, zerolog.Nop())
	_, err := svc.InitiateCall(ctx, InitiateCallRequest{UserID: "ann", CustomerNumber: "+15551234567"})
	require.ErrorIs(t, err, model.ErrUpstream)
	calls, err := st.Calls().List(ctx, "ann")
	require.NoError(t, err)
	assert.Empty(t, calls)
}

// TestWebhookLifecycle drives the dispatcher over the real store.
func TestWebhookLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "ann", "bob")
	calls := NewCallService(st, &fakeDialer{id: "c1"}, CallDefaults{AssistantID: "a", PhoneNumberID: "p"}, zerolog.Nop())
	_, err := calls.InitiateCall(ctx, InitiateCallRequest{UserID: "ann", CustomerNumber: "+15551234567"})
	require.NoError(t, err)

	d := callevents.NewDispatcher(NewCallEventWriter(st), zerolog.Nop())
	send := func(body string) {
		t.Helper()
		ev, err := callevents.Parse([]byte(body))
		require.NoError(t, err)
		_, err = d.Dispatch(ctx, ev)
		require.NoError(t, err)
	}

	send(`{"type":"tool-call","data":{"callId":"c1","toolCalls":[{"name":"saveContext","parameters":{"time":"1995","location":"Chicago","people":["Mom"]}}]}}`)
	send(`{"type":"tool-call","data":{"callId":"c1","toolCalls":[{"name":"markEmotionalMoment","parameters":{"emotion":"joy","intensity":0.8,"context":"graduation"}}]}}`)
	send(`{"type":"conversation-update","data":{"callId":"c1","transcript":"Hi"}}`)
	send(`{"type":"conversation-update","data":{"callId":"c1","transcript":"Hi there"}}`)

	detail, err := calls.GetCallDetail(ctx, "ann", "c1")
	require.NoError(t, err)
	require.Len(t, detail.Contexts, 1)
	mc := detail.Contexts[0]
	assert.Equal(t, "c1", mc.CallID)
	assert.Equal(t, "1995", mc.TimePeriod)
	assert.Equal(t, "Chicago", mc.Location)
	assert.Equal(t, []string{"Mom"}, mc.PeopleInvolved)
	require.Len(t, detail.EmotionalMoments, 1)
	require.NotNil(t, detail.Transcript)
	assert.Equal(t, "Hi there", detail.Transcript.Content)
	assert.Equal(t, model.CallInitiated, detail.Call.Status)

	send(`{"type":"end-of-call-report","data":{"callId":"c1","summary":"We talked about Chicago","transcript":"Hi there, bye"}}`)
	send(`{"type":"end-of-call-report","data":{"callId":"c1","summary":"We talked about Chicago"}}`)

	list, err := calls.ListCalls(ctx, "ann")
	require.NoError(t, err)
	require.Len(t, list, 1, "repeated reports update the same call")
	done := list[0]
	assert.Equal(t, model.CallCompleted, done.Status)
	assert.NotNil(t, done.CompletedTime)
	assert.JSONEq(t, `{"summary":"We talked about Chicago"}`, string(done.Summary))
	assert.Equal(t, "Hi there, bye", done.Transcript)

	_, err = calls.GetCallDetail(ctx, "bob", "c1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

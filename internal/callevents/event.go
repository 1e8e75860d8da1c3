// Package callevents turns voice-platform webhook payloads into typed events
// and routes them to persistence writers.
package callevents

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ErrMalformedEvent is returned for payloads that cannot be decoded.
var ErrMalformedEvent = errors.New("malformed call event")

// Kind is the closed set of event types the service understands.
type Kind string

const (
	KindToolCall           Kind = "tool-call"
	KindConversationUpdate Kind = "conversation-update"
	KindEndOfCallReport    Kind = "end-of-call-report"
	KindUnknown            Kind = "unknown"
)

// kindOf maps the wire discriminator onto Kind.
func kindOf(s string) Kind {
	switch k := Kind(s); k {
	case KindToolCall, KindConversationUpdate, KindEndOfCallReport:
		return k
	default:
		return KindUnknown
	}
}

// ToolName is the closed set of tool invocations the assistant may emit.
type ToolName string

const (
	ToolSaveContext         ToolName = "saveContext"
	ToolMarkEmotionalMoment ToolName = "markEmotionalMoment"
)

// ToolCall is one named tool invocation. Parameters stay raw until the
// dispatcher knows which shape to decode.
type ToolCall struct {
	Name       string          `json:"name"`
	Parameters json.RawMessage `json:"parameters"`
}

// Event is the normalized webhook payload.
type Event struct {
	Kind       Kind
	RawType    string
	CallID     string
	ToolCalls  []ToolCall
	Transcript string
	Summary    json.RawMessage
}

type wireEvent struct {
	Type string `json:"type"`
	Data struct {
		CallID     string          `json:"callId"`
		ToolCalls  []ToolCall      `json:"toolCalls"`
		Transcript string          `json:"transcript"`
		Summary    json.RawMessage `json:"summary"`
	} `json:"data"`
}

// Parse decodes a webhook body. Unknown types parse successfully as KindUnknown;
// a missing callId is left for the dispatcher to drop.
func Parse(body []byte) (*Event, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedEvent)
	}
	var w wireEvent
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	ev := &Event{
		Kind:       kindOf(w.Type),
		RawType:    w.Type,
		CallID:     strings.TrimSpace(w.Data.CallID),
		ToolCalls:  w.Data.ToolCalls,
		Transcript: w.Data.Transcript,
		Summary:    normalizeSummary(w.Data.Summary),
	}
	return ev, nil
}

// normalizeSummary keeps objects and arrays as-is and wraps bare strings so the
// stored summary is always a JSON document. null and absent both yield nil.
func normalizeSummary(raw json.RawMessage) json.RawMessage {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out, _ := json.Marshal(map[string]string{"summary": s})
			return out
		}
	}
	return json.RawMessage(trimmed)
}

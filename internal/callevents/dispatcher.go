package callevents

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

// Writers persists the facts carried by call events. Each method is one insert
// or upsert; nothing groups them into a transaction.
type Writers interface {
	SaveContext(ctx context.Context, c *model.MemoryContext) error
	SaveEmotionalMoment(ctx context.Context, e *model.EmotionalMoment) error
	UpsertTranscript(ctx context.Context, callID, content string) error
	// CompleteCall reports whether a call row matched.
	CompleteCall(ctx context.Context, c model.CallCompletion) (bool, error)
}

// Outcome summarizes what a dispatch did, for logging and metrics.
type Outcome struct {
	Kind Kind
	// ToolsRun counts tool invocations that reached a writer.
	ToolsRun int
	// Ignored lists unrecognized event types or tool names routed to the no-op handler.
	Ignored []string
	// Dropped lists known events or tool calls skipped for missing or invalid data.
	Dropped []string
	// CallMatched is false when an end-of-call report named no stored call.
	CallMatched bool
}

type eventHandler func(ctx context.Context, ev *Event, out *Outcome) error
type toolHandler func(ctx context.Context, callID string, params []byte) error

// Dispatcher routes events by kind and tool invocations by name.
type Dispatcher struct {
	w      Writers
	log    zerolog.Logger
	events map[Kind]eventHandler
	tools  map[ToolName]toolHandler
}

// NewDispatcher wires the fixed event and tool tables to w.
func NewDispatcher(w Writers, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{w: w, log: log}
	d.events = map[Kind]eventHandler{
		KindToolCall:           d.handleToolCalls,
		KindConversationUpdate: d.handleConversationUpdate,
		KindEndOfCallReport:    d.handleEndOfCall,
		KindUnknown:            d.ignoreEvent,
	}
	d.tools = map[ToolName]toolHandler{
		ToolSaveContext:         d.saveContext,
		ToolMarkEmotionalMoment: d.markEmotionalMoment,
	}
	return d
}

// Dispatch handles one event. Tool calls run in order; one with invalid
// parameters is dropped, and the first write failure aborts the rest. Writes
// already made stay in place.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *Event) (Outcome, error) {
	out := Outcome{Kind: ev.Kind}
	if ev.Kind != KindUnknown && ev.CallID == "" {
		out.Dropped = append(out.Dropped, string(ev.Kind))
		d.log.Warn().Str("type", ev.RawType).Msg("dropping call event without callId")
		return out, nil
	}
	h, ok := d.events[ev.Kind]
	if !ok {
		h = d.ignoreEvent
	}
	err := h(ctx, ev, &out)
	return out, err
}

func (d *Dispatcher) ignoreEvent(_ context.Context, ev *Event, out *Outcome) error {
	out.Ignored = append(out.Ignored, ev.RawType)
	d.log.Info().Str("type", ev.RawType).Str("call_id", ev.CallID).Msg("ignoring unknown call event type")
	return nil
}

func (d *Dispatcher) handleToolCalls(ctx context.Context, ev *Event, out *Outcome) error {
	for i, tc := range ev.ToolCalls {
		h, ok := d.tools[ToolName(tc.Name)]
		if !ok {
			out.Ignored = append(out.Ignored, tc.Name)
			d.log.Info().Str("tool", tc.Name).Str("call_id", ev.CallID).Msg("ignoring unknown tool call")
			continue
		}
		err := h(ctx, ev.CallID, tc.Parameters)
		if errors.Is(err, model.ErrValidation) {
			out.Dropped = append(out.Dropped, tc.Name)
			d.log.Warn().Err(err).Str("tool", tc.Name).Str("call_id", ev.CallID).Msg("dropping tool call with invalid parameters")
			continue
		}
		if err != nil {
			return fmt.Errorf("tool call %d (%s): %w", i, tc.Name, err)
		}
		out.ToolsRun++
	}
	return nil
}

func (d *Dispatcher) saveContext(ctx context.Context, callID string, params []byte) error {
	mc, err := memoryContextFrom(callID, params)
	if err != nil {
		return err
	}
	return d.w.SaveContext(ctx, mc)
}

func (d *Dispatcher) markEmotionalMoment(ctx context.Context, callID string, params []byte) error {
	em, err := emotionalMomentFrom(callID, params)
	if err != nil {
		return err
	}
	return d.w.SaveEmotionalMoment(ctx, em)
}

func (d *Dispatcher) handleConversationUpdate(ctx context.Context, ev *Event, _ *Outcome) error {
	return d.w.UpsertTranscript(ctx, ev.CallID, ev.Transcript)
}

func (d *Dispatcher) handleEndOfCall(ctx context.Context, ev *Event, out *Outcome) error {
	matched, err := d.w.CompleteCall(ctx, model.CallCompletion{
		CallID:     ev.CallID,
		Summary:    []byte(ev.Summary),
		Transcript: ev.Transcript,
	})
	if err != nil {
		return err
	}
	out.CallMatched = matched
	if !matched {
		d.log.Warn().Str("call_id", ev.CallID).Msg("end-of-call report for unknown call")
	}
	return nil
}

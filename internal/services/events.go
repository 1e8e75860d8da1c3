package services

import (
	"context"

	"github.com/HamidMoopen/memo-ai-sub000/internal/callevents"
	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store"
)

var _ callevents.Writers = (*CallEventWriter)(nil)

// CallEventWriter persists webhook facts, one store call per write.
type CallEventWriter struct {
	store store.Store
}

func NewCallEventWriter(s store.Store) *CallEventWriter { return &CallEventWriter{store: s} }

func (w *CallEventWriter) SaveContext(ctx context.Context, c *model.MemoryContext) error {
	_, err := w.store.Contexts().Create(ctx, c)
	return err
}

func (w *CallEventWriter) SaveEmotionalMoment(ctx context.Context, e *model.EmotionalMoment) error {
	_, err := w.store.Emotions().Create(ctx, e)
	return err
}

func (w *CallEventWriter) UpsertTranscript(ctx context.Context, callID, content string) error {
	_, err := w.store.Transcripts().Upsert(ctx, &model.Transcript{CallID: callID, Content: content})
	return err
}

func (w *CallEventWriter) CompleteCall(ctx context.Context, c model.CallCompletion) (bool, error) {
	return w.store.Calls().Complete(ctx, c)
}

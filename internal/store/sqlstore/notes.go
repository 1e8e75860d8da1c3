package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

// --- Memory contexts ---
type contexts struct{ s *Store }

func (c *contexts) Create(ctx context.Context, m *model.MemoryContext) (*model.MemoryContext, error) {
	out := *m
	if out.ContextID == "" {
		out.ContextID = uuid.New().String()
	}
	out.PeopleInvolved = stringsOrEmpty(out.PeopleInvolved)
	out.CreationTime = c.s.timestamp()
	people, err := encodeJSON(out.PeopleInvolved)
	if err != nil {
		return nil, fmt.Errorf("encode people: %w", err)
	}
	if _, err := c.s.exec(ctx, `
        INSERT INTO memory_contexts (id, call_id, time_period, location, people_involved, created_at)
        VALUES (?,?,?,?,?,?)
    `, out.ContextID, out.CallID, out.TimePeriod, out.Location, people, out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *contexts) ListByCall(ctx context.Context, callID string) ([]*model.MemoryContext, error) {
	rows, err := c.s.query(ctx, `
        SELECT id, call_id, time_period, location, people_involved, created_at
        FROM memory_contexts WHERE call_id=? ORDER BY created_at ASC, id ASC
    `, callID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var res []*model.MemoryContext
	for rows.Next() {
		var m model.MemoryContext
		var period, location sql.NullString
		var people []byte
		if err := rows.Scan(&m.ContextID, &m.CallID, &period, &location, &people, &m.CreationTime); err != nil {
			return nil, err
		}
		m.TimePeriod, m.Location = period.String, location.String
		if err := decodeJSON(people, &m.PeopleInvolved); err != nil {
			return nil, fmt.Errorf("decode people: %w", err)
		}
		m.PeopleInvolved = stringsOrEmpty(m.PeopleInvolved)
		m.CreationTime = m.CreationTime.UTC()
		res = append(res, &m)
	}
	return res, rows.Err()
}

// --- Emotional moments ---
type emotions struct{ s *Store }

func (e *emotions) Create(ctx context.Context, m *model.EmotionalMoment) (*model.EmotionalMoment, error) {
	out := *m
	if out.MomentID == "" {
		out.MomentID = uuid.New().String()
	}
	out.CreationTime = e.s.timestamp()
	if _, err := e.s.exec(ctx, `
        INSERT INTO emotional_moments (id, call_id, emotion, intensity, context, created_at)
        VALUES (?,?,?,?,?,?)
    `, out.MomentID, out.CallID, out.Emotion, out.Intensity, out.Context, out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *emotions) ListByCall(ctx context.Context, callID string) ([]*model.EmotionalMoment, error) {
	rows, err := e.s.query(ctx, `
        SELECT id, call_id, emotion, intensity, context, created_at
        FROM emotional_moments WHERE call_id=? ORDER BY created_at ASC, id ASC
    `, callID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var res []*model.EmotionalMoment
	for rows.Next() {
		var m model.EmotionalMoment
		var note sql.NullString
		if err := rows.Scan(&m.MomentID, &m.CallID, &m.Emotion, &m.Intensity, &note, &m.CreationTime); err != nil {
			return nil, err
		}
		m.Context = note.String
		m.CreationTime = m.CreationTime.UTC()
		res = append(res, &m)
	}
	return res, rows.Err()
}

// --- Transcripts ---
type transcripts struct{ s *Store }

func (t *transcripts) Upsert(ctx context.Context, m *model.Transcript) (*model.Transcript, error) {
	now := t.s.timestamp()
	if _, err := t.s.exec(ctx, `
        INSERT INTO transcripts (call_id, content, created_at, updated_at)
        VALUES (?,?,?,?)
        ON CONFLICT (call_id) DO UPDATE SET
            content = excluded.content,
            updated_at = excluded.updated_at
    `, m.CallID, m.Content, now, now); err != nil {
		return nil, err
	}
	return t.Get(ctx, m.CallID)
}

func (t *transcripts) Get(ctx context.Context, callID string) (*model.Transcript, error) {
	var out model.Transcript
	row := t.s.queryRow(ctx, `SELECT call_id, content, created_at, updated_at FROM transcripts WHERE call_id=?`, callID)
	if err := row.Scan(&out.CallID, &out.Content, &out.CreationTime, &out.UpdatedTime); err != nil {
		return nil, notFound(err, "transcript")
	}
	out.CreationTime = out.CreationTime.UTC()
	out.UpdatedTime = out.UpdatedTime.UTC()
	return &out, nil
}

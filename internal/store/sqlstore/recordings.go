package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

const recordingColumns = `id, user_id, session_id, title, description, status, transcript, created_at, completed_at`

type recordings struct{ s *Store }

func (r *recordings) Create(ctx context.Context, m *model.Recording) (*model.Recording, error) {
	out := *m
	if out.RecordingID == "" {
		out.RecordingID = uuid.New().String()
	}
	out.Status = model.RecordingCreated
	out.CreationTime = r.s.timestamp()
	out.CompletedTime = nil
	if _, err := r.s.exec(ctx, `
        INSERT INTO recordings (id, user_id, session_id, title, description, status, transcript, created_at)
        VALUES (?,?,?,?,?,?,?,?)
    `, out.RecordingID, out.UserID, out.SessionID, out.Title, out.Description, string(out.Status), out.Transcript, out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *recordings) GetByID(ctx context.Context, userID, recordingID string) (*model.Recording, error) {
	row := r.s.queryRow(ctx, `SELECT `+recordingColumns+` FROM recordings WHERE id=? AND user_id=?`, recordingID, userID)
	out, err := scanRecording(row)
	if err != nil {
		return nil, notFound(err, "recording")
	}
	return out, nil
}

func (r *recordings) List(ctx context.Context, userID string) ([]*model.Recording, error) {
	rows, err := r.s.query(ctx, `SELECT `+recordingColumns+` FROM recordings WHERE user_id=? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var res []*model.Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

func (r *recordings) Complete(ctx context.Context, userID, recordingID, transcript string) (*model.Recording, error) {
	current, err := r.GetByID(ctx, userID, recordingID)
	if err != nil {
		return nil, err
	}
	if current.Status == model.RecordingCompleted {
		return nil, fmt.Errorf("recording %s already completed: %w", recordingID, model.ErrConflict)
	}
	if _, err := r.s.exec(ctx, `
        UPDATE recordings
        SET status=?, completed_at=?, transcript=COALESCE(NULLIF(?, ''), transcript)
        WHERE id=? AND user_id=?
    `, string(model.RecordingCompleted), r.s.timestamp(), transcript, recordingID, userID); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, userID, recordingID)
}

func scanRecording(r rowScanner) (*model.Recording, error) {
	var out model.Recording
	var status string
	var desc, transcript sql.NullString
	var completed sql.NullTime
	if err := r.Scan(&out.RecordingID, &out.UserID, &out.SessionID, &out.Title, &desc, &status,
		&transcript, &out.CreationTime, &completed); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		out.Description = &d
	}
	out.Status = model.RecordingStatus(status)
	out.Transcript = transcript.String
	out.CreationTime = out.CreationTime.UTC()
	out.CompletedTime = nullTimePtr(completed)
	return &out, nil
}

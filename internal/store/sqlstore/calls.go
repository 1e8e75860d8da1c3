package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

const callColumns = `id, user_id, phone_number, status, summary, transcript, created_at, completed_at`

type calls struct{ s *Store }

func (c *calls) Create(ctx context.Context, m *model.Call) (*model.Call, error) {
	out := *m
	out.Status = model.CallInitiated
	out.CreationTime = c.s.timestamp()
	out.CompletedTime = nil
	if _, err := c.s.exec(ctx, `
        INSERT INTO calls (id, user_id, phone_number, status, transcript, created_at)
        VALUES (?,?,?,?,?,?)
    `, out.CallID, out.UserID, out.PhoneNumber, string(out.Status), "", out.CreationTime); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("call %s: %w", out.CallID, model.ErrConflict)
		}
		return nil, err
	}
	return &out, nil
}

func (c *calls) GetByID(ctx context.Context, userID, callID string) (*model.Call, error) {
	row := c.s.queryRow(ctx, `SELECT `+callColumns+` FROM calls WHERE id=? AND user_id=?`, callID, userID)
	out, err := scanCall(row)
	if err != nil {
		return nil, notFound(err, "call")
	}
	return out, nil
}

func (c *calls) List(ctx context.Context, userID string) ([]*model.Call, error) {
	rows, err := c.s.query(ctx, `SELECT `+callColumns+` FROM calls WHERE user_id=? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var res []*model.Call
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, call)
	}
	return res, rows.Err()
}

func (c *calls) Complete(ctx context.Context, m model.CallCompletion) (bool, error) {
	var summary any
	if len(m.Summary) > 0 {
		summary = string(m.Summary)
	}
	res, err := c.s.exec(ctx, `
        UPDATE calls
        SET status=?, completed_at=?, summary=COALESCE(?, summary), transcript=COALESCE(NULLIF(?, ''), transcript)
        WHERE id=?
    `, string(model.CallCompleted), c.s.timestamp(), summary, m.Transcript, m.CallID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanCall(r rowScanner) (*model.Call, error) {
	var out model.Call
	var status string
	var phone, transcript sql.NullString
	var summary []byte
	var completed sql.NullTime
	if err := r.Scan(&out.CallID, &out.UserID, &phone, &status, &summary, &transcript, &out.CreationTime, &completed); err != nil {
		return nil, err
	}
	out.Status = model.CallStatus(status)
	out.PhoneNumber = phone.String
	out.Transcript = transcript.String
	if len(summary) > 0 {
		out.Summary = append([]byte(nil), summary...)
	}
	out.CreationTime = out.CreationTime.UTC()
	out.CompletedTime = nullTimePtr(completed)
	return &out, nil
}

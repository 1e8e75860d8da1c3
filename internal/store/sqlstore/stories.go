package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

const storyColumns = `id, user_id, title, content, category, emotion, themes, chapter_metadata, source, call_id, created_at, updated_at`

type stories struct{ s *Store }

func (st *stories) Create(ctx context.Context, m *model.Story) (*model.Story, error) {
	out := *m
	if out.StoryID == "" {
		out.StoryID = uuid.New().String()
	}
	if out.Source == "" {
		out.Source = model.SourceManual
	}
	out.Themes = stringsOrEmpty(out.Themes)
	now := st.s.timestamp()
	out.CreationTime = now
	out.UpdatedTime = now

	themes, meta, err := encodeStoryJSON(&out)
	if err != nil {
		return nil, err
	}
	if _, err := st.s.exec(ctx, `
        INSERT INTO stories (`+storyColumns+`)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
    `, out.StoryID, out.UserID, out.Title, out.Content, string(out.Category), out.Emotion,
		themes, meta, string(out.Source), out.CallID, now, now); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("story %s: %w", out.StoryID, model.ErrConflict)
		}
		return nil, err
	}
	return &out, nil
}

func (st *stories) GetByID(ctx context.Context, userID, storyID string) (*model.Story, error) {
	row := st.s.queryRow(ctx, `SELECT `+storyColumns+` FROM stories WHERE id=? AND user_id=?`, storyID, userID)
	out, err := scanStory(row)
	if err != nil {
		return nil, notFound(err, "story")
	}
	return out, nil
}

func (st *stories) List(ctx context.Context, req model.ListStoriesRequest) ([]*model.Story, error) {
	q := `SELECT ` + storyColumns + ` FROM stories WHERE user_id=?`
	args := []any{req.UserID}
	if req.Category != "" {
		q += ` AND category=?`
		args = append(args, string(req.Category))
	}
	if req.Oldest {
		q += ` ORDER BY created_at ASC, id ASC`
	} else {
		q += ` ORDER BY created_at DESC, id DESC`
	}

	rows, err := st.s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var res []*model.Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (st *stories) Update(ctx context.Context, m *model.Story) (*model.Story, error) {
	in := *m
	in.Themes = stringsOrEmpty(in.Themes)
	themes, meta, err := encodeStoryJSON(&in)
	if err != nil {
		return nil, err
	}
	res, err := st.s.exec(ctx, `
        UPDATE stories
        SET title=?, content=?, category=?, emotion=?, themes=?, chapter_metadata=?, updated_at=?
        WHERE id=? AND user_id=?
    `, in.Title, in.Content, string(in.Category), in.Emotion, themes, meta, st.s.timestamp(), in.StoryID, in.UserID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("story %s: %w", in.StoryID, model.ErrNotFound)
	}
	return st.GetByID(ctx, in.UserID, in.StoryID)
}

func (st *stories) Delete(ctx context.Context, userID, storyID string) error {
	res, err := st.s.exec(ctx, `DELETE FROM stories WHERE id=? AND user_id=?`, storyID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("story %s: %w", storyID, model.ErrNotFound)
	}
	return nil
}

func (st *stories) CountByCategory(ctx context.Context, userID string) (map[model.LifeChapter]int, error) {
	rows, err := st.s.query(ctx, `SELECT category, COUNT(*) FROM stories WHERE user_id=? GROUP BY category`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := map[model.LifeChapter]int{}
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		out[model.LifeChapter(cat)] = n
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(r rowScanner) (*model.Story, error) {
	var out model.Story
	var category, source string
	var emotion, callID sql.NullString
	var themes, meta []byte
	if err := r.Scan(&out.StoryID, &out.UserID, &out.Title, &out.Content, &category, &emotion,
		&themes, &meta, &source, &callID, &out.CreationTime, &out.UpdatedTime); err != nil {
		return nil, err
	}
	out.Category = model.LifeChapter(category)
	out.Source = model.StorySource(source)
	out.Emotion = emotion.String
	if callID.Valid {
		id := callID.String
		out.CallID = &id
	}
	if err := decodeJSON(themes, &out.Themes); err != nil {
		return nil, fmt.Errorf("decode themes: %w", err)
	}
	if err := decodeJSON(meta, &out.ChapterMetadata); err != nil {
		return nil, fmt.Errorf("decode chapter metadata: %w", err)
	}
	out.Themes = stringsOrEmpty(out.Themes)
	out.CreationTime = out.CreationTime.UTC()
	out.UpdatedTime = out.UpdatedTime.UTC()
	return &out, nil
}

func encodeStoryJSON(s *model.Story) (themes, meta string, err error) {
	if themes, err = encodeJSON(s.Themes); err != nil {
		return "", "", fmt.Errorf("encode themes: %w", err)
	}
	if meta, err = encodeJSON(s.ChapterMetadata); err != nil {
		return "", "", fmt.Errorf("encode chapter metadata: %w", err)
	}
	return themes, meta, nil
}

package sqlstore

import (
	"context"
	"database/sql"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

// --- Users ---
type users struct{ s *Store }

func (u *users) Ensure(ctx context.Context, m *model.User) (*model.User, error) {
	if _, err := u.s.exec(ctx, `
        INSERT INTO users (id, email, created_at)
        VALUES (?,?,?)
        ON CONFLICT (id) DO NOTHING
    `, m.UserID, m.Email, u.s.timestamp()); err != nil {
		return nil, err
	}
	return u.Get(ctx, m.UserID)
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	var out model.User
	row := u.s.queryRow(ctx, `SELECT id, email, created_at FROM users WHERE id=?`, userID)
	if err := row.Scan(&out.UserID, &out.Email, &out.CreationTime); err != nil {
		return nil, notFound(err, "user")
	}
	out.CreationTime = out.CreationTime.UTC()
	return &out, nil
}

// --- Profiles ---
type profiles struct{ s *Store }

func (p *profiles) Get(ctx context.Context, userID string) (*model.Profile, error) {
	var out model.Profile
	var phone sql.NullString
	row := p.s.queryRow(ctx, `
        SELECT user_id, phone_number, phone_verified, updated_at
        FROM profiles WHERE user_id=?
    `, userID)
	if err := row.Scan(&out.UserID, &phone, &out.PhoneVerified, &out.UpdatedTime); err != nil {
		return nil, notFound(err, "profile")
	}
	out.PhoneNumber = phone.String
	out.UpdatedTime = out.UpdatedTime.UTC()
	return &out, nil
}

func (p *profiles) Upsert(ctx context.Context, m *model.Profile) (*model.Profile, error) {
	if _, err := p.s.exec(ctx, `
        INSERT INTO profiles (user_id, phone_number, phone_verified, updated_at)
        VALUES (?,?,?,?)
        ON CONFLICT (user_id) DO UPDATE SET
            phone_number = excluded.phone_number,
            phone_verified = excluded.phone_verified,
            updated_at = excluded.updated_at
    `, m.UserID, m.PhoneNumber, m.PhoneVerified, p.s.timestamp()); err != nil {
		return nil, err
	}
	return p.Get(ctx, m.UserID)
}

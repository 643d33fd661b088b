package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gravitalia/nido/model"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `id, username, email, bio, location, website, avatar_url, cover_url, is_verified,
	followers_count, following_count, posts_count, suspended, created_at, updated_at`

func scanProfile(row pgx.Row, extra ...any) (model.Profile, error) {
	var p model.Profile
	dest := []any{
		&p.ID, &p.Username, &p.Email, &p.Bio, &p.Location, &p.Website, &p.AvatarURL, &p.CoverURL, &p.IsVerified,
		&p.FollowersCount, &p.FollowingCount, &p.PostsCount, &p.Suspended, &p.CreatedAt, &p.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return p, err
}

func collectProfiles(rows pgx.Rows) ([]model.Profile, error) {
	defer rows.Close()

	list := make([]model.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	return list, rows.Err()
}

// CreateProfile inserts a new profile with its password hash
func (db *Postgres) CreateProfile(ctx context.Context, profile model.Profile, passwordHash string) (model.Profile, error) {
	row := db.pool.QueryRow(ctx,
		"INSERT INTO profiles (id, username, email, password_hash) VALUES ($1, $2, lower($3), $4) RETURNING "+profileColumns+";",
		profile.ID, profile.Username, profile.Email, passwordHash)

	created, err := scanProfile(row)
	if isUniqueViolation(err) {
		return model.Profile{}, ErrAlreadyExists
	} else if err != nil {
		return model.Profile{}, fmt.Errorf("create profile: %w", err)
	}

	return created, nil
}

// GetProfile returns a profile by ID
func (db *Postgres) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	profile, err := scanProfile(db.pool.QueryRow(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = $1;", id))
	if err != nil {
		return model.Profile{}, notFound(err)
	}

	return profile, nil
}

// GetCredentials returns the profile and password hash bound to an email
func (db *Postgres) GetCredentials(ctx context.Context, email string) (model.Profile, string, error) {
	var hash string
	profile, err := scanProfile(
		db.pool.QueryRow(ctx, "SELECT "+profileColumns+", password_hash FROM profiles WHERE lower(email) = lower($1);", email),
		&hash,
	)
	if err != nil {
		return model.Profile{}, "", notFound(err)
	}

	return profile, hash, nil
}

// ProfilesByUsernames returns the profiles matching lowercased usernames
func (db *Postgres) ProfilesByUsernames(ctx context.Context, names []string) ([]model.Profile, error) {
	if len(names) == 0 {
		return []model.Profile{}, nil
	}

	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(name)
	}

	rows, err := db.pool.Query(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE lower(username) = ANY($1) AND NOT suspended;", lowered)
	if err != nil {
		return nil, err
	}

	return collectProfiles(rows)
}

// ProfilesByIDs returns non suspended profiles, in the order of ids
func (db *Postgres) ProfilesByIDs(ctx context.Context, ids []string) ([]model.Profile, error) {
	if len(ids) == 0 {
		return []model.Profile{}, nil
	}

	rows, err := db.pool.Query(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id = ANY($1) AND NOT suspended;", ids)
	if err != nil {
		return nil, err
	}

	found, err := collectProfiles(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Profile, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	list := make([]model.Profile, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			list = append(list, p)
		}
	}

	return list, nil
}

// UpdateProfile applies every non nil field of the body
func (db *Postgres) UpdateProfile(ctx context.Context, id string, body model.UpdateBody) (model.Profile, error) {
	row := db.pool.QueryRow(ctx, `UPDATE profiles SET
		username = coalesce($2, username),
		email = coalesce(lower($3), email),
		bio = coalesce($4, bio),
		location = coalesce($5, location),
		website = coalesce($6, website),
		avatar_url = coalesce($7, avatar_url),
		cover_url = coalesce($8, cover_url),
		updated_at = now()
	WHERE id = $1 RETURNING `+profileColumns+";",
		id, body.Username, body.Email, body.Bio, body.Location, body.Website, body.AvatarURL, body.CoverURL)

	profile, err := scanProfile(row)
	if isUniqueViolation(err) {
		return model.Profile{}, ErrAlreadyExists
	} else if err != nil {
		return model.Profile{}, notFound(err)
	}

	return profile, nil
}

// DeleteProfile allows to remove a profile, its posts and every relation,
// keeping the counters of other profiles and posts right
func (db *Postgres) DeleteProfile(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		queries := []string{
			"UPDATE profiles SET followers_count = GREATEST(followers_count - 1, 0) WHERE id IN (SELECT following_id FROM follows WHERE follower_id = $1);",
			"UPDATE profiles SET following_count = GREATEST(following_count - 1, 0) WHERE id IN (SELECT follower_id FROM follows WHERE following_id = $1);",
			"UPDATE posts SET likes_count = GREATEST(likes_count - 1, 0) WHERE id IN (SELECT post_id FROM likes WHERE user_id = $1);",
			`UPDATE posts p SET replies_count = GREATEST(p.replies_count - r.n, 0)
				FROM (SELECT reply_to, count(*) AS n FROM posts WHERE author_id = $1 AND reply_to IS NOT NULL GROUP BY reply_to) r
				WHERE p.id = r.reply_to;`,
		}
		for _, query := range queries {
			if _, err := tx.Exec(ctx, query, id); err != nil {
				return err
			}
		}

		tag, err := tx.Exec(ctx, "DELETE FROM profiles WHERE id = $1;", id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		return nil
	})
}

// SetSuspended suspends or restores a profile
func (db *Postgres) SetSuspended(ctx context.Context, id string, suspended bool) error {
	tag, err := db.pool.Exec(ctx, "UPDATE profiles SET suspended = $2, updated_at = now() WHERE id = $1;", id, suspended)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// PopularProfiles returns the most followed profiles that exclude
// does not follow yet and has no block with
func (db *Postgres) PopularProfiles(ctx context.Context, exclude string, limit int) ([]model.Profile, error) {
	rows, err := db.pool.Query(ctx, "SELECT "+profileColumns+` FROM profiles p
		WHERE NOT p.suspended AND p.id <> $1
			AND NOT EXISTS (SELECT 1 FROM follows f WHERE f.follower_id = $1 AND f.following_id = p.id)
			AND NOT EXISTS (SELECT 1 FROM blocks b WHERE (b.blocker_id = $1 AND b.blocked_id = p.id) OR (b.blocker_id = p.id AND b.blocked_id = $1))
		ORDER BY p.followers_count DESC, p.created_at DESC
		LIMIT $2;`, exclude, limit)
	if err != nil {
		return nil, err
	}

	return collectProfiles(rows)
}

package database

import (
	"context"

	"github.com/Gravitalia/nido/model"
	"github.com/jackc/pgx/v5"
)

// Mode tells a relation setter what to do
type Mode int

const (
	Toggle Mode = iota
	Create
	Remove
)

// Want resolves the mode against the current state
func (m Mode) Want(exists bool) bool {
	switch m {
	case Create:
		return true
	case Remove:
		return false
	default:
		return !exists
	}
}

func blockedBetween(ctx context.Context, q querier, a, b string) (bool, error) {
	var blocked bool
	err := q.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM blocks WHERE (blocker_id = $1 AND blocked_id = $2) OR (blocker_id = $2 AND blocked_id = $1));",
		a, b).Scan(&blocked)
	return blocked, err
}

func exists(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var found bool
	err := q.QueryRow(ctx, "SELECT EXISTS ("+query+");", args...).Scan(&found)
	return found, err
}

// SetLike likes or unlikes a post and returns the new like state
// with the number of likes of the post
func (db *Postgres) SetLike(ctx context.Context, user, post string, mode Mode) (model.RelationState, error) {
	var state model.RelationState

	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		var author string
		if err := tx.QueryRow(ctx, "SELECT author_id FROM posts WHERE id = $1;", post).Scan(&author); err != nil {
			return notFound(err)
		}

		liked, err := exists(ctx, tx, "SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2", post, user)
		if err != nil {
			return err
		}

		delta := 0
		state.Active = mode.Want(liked)
		switch {
		case state.Active && !liked:
			blocked, err := blockedBetween(ctx, tx, user, author)
			if err != nil {
				return err
			} else if blocked {
				return ErrBlocked
			}

			allowed, err := canSeePosts(ctx, tx, user, author)
			if err != nil {
				return err
			} else if !allowed {
				return ErrForbidden
			}

			tag, err := tx.Exec(ctx, "INSERT INTO likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;", post, user)
			if err != nil {
				return err
			}
			delta = int(tag.RowsAffected())
		case !state.Active && liked:
			tag, err := tx.Exec(ctx, "DELETE FROM likes WHERE post_id = $1 AND user_id = $2;", post, user)
			if err != nil {
				return err
			}
			delta = -int(tag.RowsAffected())
		}

		return tx.QueryRow(ctx,
			"UPDATE posts SET likes_count = GREATEST(likes_count + $2, 0) WHERE id = $1 RETURNING likes_count;",
			post, delta).Scan(&state.Count)
	})
	if err != nil {
		return model.RelationState{}, err
	}

	return state, nil
}

// ToggleLike flips the like of user on post
func (db *Postgres) ToggleLike(ctx context.Context, user, post string) (model.RelationState, error) {
	return db.SetLike(ctx, user, post, Toggle)
}

// Like makes user like post, doing nothing when already liked
func (db *Postgres) Like(ctx context.Context, user, post string) (model.RelationState, error) {
	return db.SetLike(ctx, user, post, Create)
}

// Unlike removes the like of user on post, if any
func (db *Postgres) Unlike(ctx context.Context, user, post string) (model.RelationState, error) {
	return db.SetLike(ctx, user, post, Remove)
}

// IsLiked checks if user likes post
func (db *Postgres) IsLiked(ctx context.Context, user, post string) (bool, error) {
	return exists(ctx, db.pool, "SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2", post, user)
}

// removeFollow deletes a follow edge and keeps both counters right
func removeFollow(ctx context.Context, tx pgx.Tx, follower, following string) (bool, error) {
	tag, err := tx.Exec(ctx, "DELETE FROM follows WHERE follower_id = $1 AND following_id = $2;", follower, following)
	if err != nil || tag.RowsAffected() == 0 {
		return false, err
	}

	if _, err := tx.Exec(ctx, "UPDATE profiles SET following_count = GREATEST(following_count - 1, 0) WHERE id = $1;", follower); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, "UPDATE profiles SET followers_count = GREATEST(followers_count - 1, 0) WHERE id = $1;", following); err != nil {
		return false, err
	}

	return true, nil
}

// SetFollow follows or unfollows a profile and returns the new state
// with the number of followers of the target
func (db *Postgres) SetFollow(ctx context.Context, follower, following string, mode Mode) (model.RelationState, error) {
	if follower == following {
		return model.RelationState{}, ErrSelfRelation
	}

	var state model.RelationState
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM profiles WHERE id = $1 AND NOT suspended", following)
		if err != nil {
			return err
		} else if !found {
			return ErrNotFound
		}

		followed, err := exists(ctx, tx, "SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2", follower, following)
		if err != nil {
			return err
		}

		state.Active = mode.Want(followed)
		switch {
		case state.Active && !followed:
			blocked, err := blockedBetween(ctx, tx, follower, following)
			if err != nil {
				return err
			} else if blocked {
				return ErrBlocked
			}

			tag, err := tx.Exec(ctx, "INSERT INTO follows (follower_id, following_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;", follower, following)
			if err != nil {
				return err
			}
			if tag.RowsAffected() > 0 {
				if _, err := tx.Exec(ctx, "UPDATE profiles SET following_count = following_count + 1 WHERE id = $1;", follower); err != nil {
					return err
				}
				if _, err := tx.Exec(ctx, "UPDATE profiles SET followers_count = followers_count + 1 WHERE id = $1;", following); err != nil {
					return err
				}
			}
		case !state.Active && followed:
			if _, err := removeFollow(ctx, tx, follower, following); err != nil {
				return err
			}
		}

		return tx.QueryRow(ctx, "SELECT followers_count FROM profiles WHERE id = $1;", following).Scan(&state.Count)
	})
	if err != nil {
		return model.RelationState{}, err
	}

	return state, nil
}

// ToggleFollow flips the follow of follower on following
func (db *Postgres) ToggleFollow(ctx context.Context, follower, following string) (model.RelationState, error) {
	return db.SetFollow(ctx, follower, following, Toggle)
}

func (db *Postgres) Follow(ctx context.Context, follower, following string) (model.RelationState, error) {
	return db.SetFollow(ctx, follower, following, Create)
}

func (db *Postgres) Unfollow(ctx context.Context, follower, following string) (model.RelationState, error) {
	return db.SetFollow(ctx, follower, following, Remove)
}

// IsFollowing check if follower is subscribed to following
func (db *Postgres) IsFollowing(ctx context.Context, follower, following string) (bool, error) {
	return exists(ctx, db.pool, "SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2", follower, following)
}

// Followers returns the IDs following id, newest first
func (db *Postgres) Followers(ctx context.Context, id string) ([]string, error) {
	return db.ids(ctx, "SELECT follower_id FROM follows WHERE following_id = $1 ORDER BY created_at DESC;", id)
}

// Following returns the IDs id follows, newest first
func (db *Postgres) Following(ctx context.Context, id string) ([]string, error) {
	return db.ids(ctx, "SELECT following_id FROM follows WHERE follower_id = $1 ORDER BY created_at DESC;", id)
}

// SetBlock blocks or unblocks a profile. Blocking removes follows
// in both directions. Count is the number of profiles blocker blocks
func (db *Postgres) SetBlock(ctx context.Context, blocker, blocked string, mode Mode) (model.RelationState, error) {
	if blocker == blocked {
		return model.RelationState{}, ErrSelfRelation
	}

	var state model.RelationState
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM profiles WHERE id = $1", blocked)
		if err != nil {
			return err
		} else if !found {
			return ErrNotFound
		}

		isBlocked, err := exists(ctx, tx, "SELECT 1 FROM blocks WHERE blocker_id = $1 AND blocked_id = $2", blocker, blocked)
		if err != nil {
			return err
		}

		state.Active = mode.Want(isBlocked)
		switch {
		case state.Active && !isBlocked:
			if _, err := tx.Exec(ctx, "INSERT INTO blocks (blocker_id, blocked_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;", blocker, blocked); err != nil {
				return err
			}
			if _, err := removeFollow(ctx, tx, blocker, blocked); err != nil {
				return err
			}
			if _, err := removeFollow(ctx, tx, blocked, blocker); err != nil {
				return err
			}
		case !state.Active && isBlocked:
			if _, err := tx.Exec(ctx, "DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2;", blocker, blocked); err != nil {
				return err
			}
		}

		return tx.QueryRow(ctx, "SELECT count(*) FROM blocks WHERE blocker_id = $1;", blocker).Scan(&state.Count)
	})
	if err != nil {
		return model.RelationState{}, err
	}

	return state, nil
}

// ToggleBlock flips the block of blocker on blocked
func (db *Postgres) ToggleBlock(ctx context.Context, blocker, blocked string) (model.RelationState, error) {
	return db.SetBlock(ctx, blocker, blocked, Toggle)
}

func (db *Postgres) Block(ctx context.Context, blocker, blocked string) (model.RelationState, error) {
	return db.SetBlock(ctx, blocker, blocked, Create)
}

func (db *Postgres) Unblock(ctx context.Context, blocker, blocked string) (model.RelationState, error) {
	return db.SetBlock(ctx, blocker, blocked, Remove)
}

// IsBlocked check if blocker blocked the other user
func (db *Postgres) IsBlocked(ctx context.Context, blocker, blocked string) (bool, error) {
	return exists(ctx, db.pool, "SELECT 1 FROM blocks WHERE blocker_id = $1 AND blocked_id = $2", blocker, blocked)
}

// BlockedBetween reports a block in either direction
func (db *Postgres) BlockedBetween(ctx context.Context, a, b string) (bool, error) {
	return blockedBetween(ctx, db.pool, a, b)
}

// Blocked returns the IDs blocked by id
func (db *Postgres) Blocked(ctx context.Context, id string) ([]string, error) {
	return db.ids(ctx, "SELECT blocked_id FROM blocks WHERE blocker_id = $1 ORDER BY created_at DESC;", id)
}

func (db *Postgres) ids(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		list = append(list, id)
	}

	return list, rows.Err()
}

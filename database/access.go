package database

import "context"

// CanSeePosts is the visibility rule of the posts of author: the
// author, anyone when the account is public, followers otherwise
func CanSeePosts(viewer, author string, private, following bool) bool {
	return viewer == author || !private || following
}

// visiblePosts filters posts p for the viewer bound at $1
const visiblePosts = `(p.author_id = $1
	OR NOT EXISTS (SELECT 1 FROM settings s WHERE s.user_id = p.author_id AND s.private_account)
	OR EXISTS (SELECT 1 FROM follows f WHERE f.follower_id = $1 AND f.following_id = p.author_id))`

func canSeePosts(ctx context.Context, q querier, viewer, author string) (bool, error) {
	var allowed bool
	err := q.QueryRow(ctx, `SELECT $1::text = $2::text
		OR NOT EXISTS (SELECT 1 FROM settings WHERE user_id = $2 AND private_account)
		OR EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2);`,
		viewer, author).Scan(&allowed)
	return allowed, err
}

// CanAccessPosts reports whether viewer may read the posts of author.
// An empty viewer is an anonymous reader
func (db *Postgres) CanAccessPosts(ctx context.Context, viewer, author string) (bool, error) {
	return canSeePosts(ctx, db.pool, viewer, author)
}

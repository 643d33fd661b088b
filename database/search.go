package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Gravitalia/nido/helpers"
	"github.com/Gravitalia/nido/model"
)

// SearchUsers ranks profiles with the search_users procedure and falls
// back on a plain pattern search when the procedure fails
func (db *Postgres) SearchUsers(ctx context.Context, query string, limit int) ([]model.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Profile{}, nil
	}

	rows, err := db.pool.Query(ctx, "SELECT * FROM search_users($1, $2);", query, limit)
	if err == nil {
		var list []model.Profile
		if list, err = collectProfiles(rows); err == nil {
			return list, nil
		}
	}

	log.Printf("(SearchUsers) Procedure failed, using fallback: %v", err)
	helpers.IncrementSearchFallback("users")
	return db.SearchUsersSimple(ctx, query, limit)
}

// SearchUsersSimple matches usernames and bios containing the query,
// ignoring case and accents on both sides
func (db *Postgres) SearchUsersSimple(ctx context.Context, query string, limit int) ([]model.Profile, error) {
	rows, err := db.pool.Query(ctx,
		"SELECT "+profileColumns+` FROM profiles
		WHERE NOT suspended AND (username ILIKE $1 OR bio ILIKE $1 OR fold(username) LIKE $2 OR fold(bio) LIKE $2)
		ORDER BY followers_count DESC, username LIMIT $3;`,
		likePattern(query), likePattern(helpers.Fold(query)), limit)
	if err != nil {
		return nil, err
	}

	list, err := collectProfiles(rows)
	if err != nil {
		return nil, err
	}

	for i := range list {
		list[i].Email = ""
	}
	return list, nil
}

// SearchPosts ranks the posts viewer may read with the search_posts
// procedure
func (db *Postgres) SearchPosts(ctx context.Context, viewer, query string, limit int) ([]model.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Post{}, nil
	}

	rows, err := db.pool.Query(ctx, "SELECT * FROM search_posts($1, $2, $3);", query, limit, viewer)
	if err == nil {
		var list []model.Post
		if list, err = collectPosts(rows); err == nil {
			return list, nil
		}
	}

	log.Printf("(SearchPosts) Procedure failed, using fallback: %v", err)
	helpers.IncrementSearchFallback("posts")
	return db.SearchPostsSimple(ctx, viewer, query, limit)
}

// SearchPostsSimple matches the content of the posts viewer may read,
// ignoring case and accents on both sides
func (db *Postgres) SearchPostsSimple(ctx context.Context, viewer, query string, limit int) ([]model.Post, error) {
	rows, err := db.pool.Query(ctx,
		"SELECT "+postColumns+` FROM posts p JOIN profiles a ON a.id = p.author_id
		WHERE NOT a.suspended AND (p.content ILIKE $2 OR fold(p.content) LIKE $3) AND `+visiblePosts+`
		ORDER BY p.created_at DESC LIMIT $4;`,
		viewer, likePattern(query), likePattern(helpers.Fold(query)), limit)
	if err != nil {
		return nil, err
	}

	return collectPosts(rows)
}

// ValidHistoryType reports a known search history type, defaulting to all
func ValidHistoryType(kind string) (string, error) {
	switch kind {
	case "":
		return model.SearchAll, nil
	case model.SearchAll, model.SearchPeople, model.SearchPosts:
		return kind, nil
	}
	return "", fmt.Errorf("%w: search type %q", ErrInvalid, kind)
}

// SaveSearchHistory stores a query. Saving the same query again
// only moves it to the top
func (db *Postgres) SaveSearchHistory(ctx context.Context, user, query, kind string) (model.SearchHistory, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.SearchHistory{}, fmt.Errorf("%w: empty query", ErrInvalid)
	}

	kind, err := ValidHistoryType(kind)
	if err != nil {
		return model.SearchHistory{}, err
	}

	entry := model.SearchHistory{UserID: user, Query: query, Type: kind}

	err = db.pool.QueryRow(ctx,
		"UPDATE search_history SET created_at = now() WHERE user_id = $1 AND query = $2 AND type = $3 RETURNING id, created_at;",
		user, query, kind).Scan(&entry.ID, &entry.CreatedAt)
	if err == nil {
		return entry, nil
	} else if !errors.Is(notFound(err), ErrNotFound) {
		return model.SearchHistory{}, err
	}

	entry.ID = helpers.NewID()
	err = db.pool.QueryRow(ctx,
		"INSERT INTO search_history (id, user_id, query, type) VALUES ($1, $2, $3, $4) RETURNING created_at;",
		entry.ID, user, query, kind).Scan(&entry.CreatedAt)
	if err != nil {
		return model.SearchHistory{}, err
	}

	return entry, nil
}

// GetSearchHistory returns the last searches of user
func (db *Postgres) GetSearchHistory(ctx context.Context, user string, limit int) ([]model.SearchHistory, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.pool.Query(ctx,
		"SELECT id, user_id, query, type, created_at FROM search_history WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2;",
		user, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]model.SearchHistory, 0)
	for rows.Next() {
		var entry model.SearchHistory
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Query, &entry.Type, &entry.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, entry)
	}

	return list, rows.Err()
}

func (db *Postgres) DeleteSearchHistory(ctx context.Context, id, user string) error {
	tag, err := db.pool.Exec(ctx, "DELETE FROM search_history WHERE id = $1 AND user_id = $2;", id, user)
	if err != nil {
		return err
	} else if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *Postgres) ClearSearchHistory(ctx context.Context, user string) error {
	_, err := db.pool.Exec(ctx, "DELETE FROM search_history WHERE user_id = $1;", user)
	return err
}

// TrimSearchHistory keeps only the newest entries of every user
func (db *Postgres) TrimSearchHistory(ctx context.Context, keep int) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM search_history WHERE id IN (
		SELECT id FROM (
			SELECT id, row_number() OVER (PARTITION BY user_id ORDER BY created_at DESC, id DESC) AS n
			FROM search_history
		) ranked WHERE n > $1);`, keep)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

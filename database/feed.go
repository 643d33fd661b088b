package database

import (
	"context"

	"github.com/Gravitalia/nido/helpers"
	"github.com/Gravitalia/nido/model"
)

// TimelineFeed returns posts of user and of the accounts they follow
func (db *Postgres) TimelineFeed(ctx context.Context, user string, limit, offset int) ([]model.Post, error) {
	limit, offset = helpers.Page(limit, offset, 20, 50)

	rows, err := db.pool.Query(ctx, "SELECT * FROM get_timeline_feed($1, $2, $3);", user, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectPosts(rows)
}

package database

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Gravitalia/nido/helpers"
	"github.com/Gravitalia/nido/model"
	"github.com/jackc/pgx/v5"
)

// postColumns expects the viewer as $1, for liked_by_user
const postColumns = `p.id, p.author_id, p.content, coalesce(p.image_url, ''), coalesce(p.reply_to, ''),
	p.likes_count, p.replies_count, p.created_at,
	a.id, a.username, a.avatar_url, a.is_verified,
	EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1)`

func scanPost(row pgx.Row) (model.Post, error) {
	var post model.Post
	author := &model.Author{}

	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Content, &post.ImageURL, &post.ReplyTo,
		&post.LikesCount, &post.RepliesCount, &post.CreatedAt,
		&author.ID, &author.Username, &author.AvatarURL, &author.IsVerified,
		&post.LikedByUser,
	)
	post.Author = author

	return post, err
}

func collectPosts(rows pgx.Rows) ([]model.Post, error) {
	defer rows.Close()

	list := make([]model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, post)
	}

	return list, rows.Err()
}

// ValidatePost trims the content and checks its length. A post
// needs content unless it carries an image
func ValidatePost(body model.PostBody) (model.PostBody, error) {
	body.Content = strings.TrimSpace(body.Content)
	body.ImageURL = strings.TrimSpace(body.ImageURL)
	body.ReplyTo = strings.TrimSpace(body.ReplyTo)

	if utf8.RuneCountInString(body.Content) > model.MaxPostLength {
		return body, fmt.Errorf("%w: content longer than %d characters", ErrInvalid, model.MaxPostLength)
	}
	if body.Content == "" && body.ImageURL == "" {
		return body, fmt.Errorf("%w: empty post", ErrInvalid)
	}

	return body, nil
}

// CreatePost publishes a post, optionally as a reply
func (db *Postgres) CreatePost(ctx context.Context, author string, body model.PostBody) (model.Post, error) {
	body, err := ValidatePost(body)
	if err != nil {
		return model.Post{}, err
	}

	id := helpers.NewID()
	err = pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		if body.ReplyTo != "" {
			var parentAuthor string
			err := tx.QueryRow(ctx, "SELECT author_id FROM posts WHERE id = $1;", body.ReplyTo).Scan(&parentAuthor)
			if err != nil {
				return notFound(err)
			}

			blocked, err := blockedBetween(ctx, tx, author, parentAuthor)
			if err != nil {
				return err
			} else if blocked {
				return ErrBlocked
			}
		}

		var image, replyTo *string
		if body.ImageURL != "" {
			image = &body.ImageURL
		}
		if body.ReplyTo != "" {
			replyTo = &body.ReplyTo
		}

		if _, err := tx.Exec(ctx, "INSERT INTO posts (id, author_id, content, image_url, reply_to) VALUES ($1, $2, $3, $4, $5);",
			id, author, body.Content, image, replyTo); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, "UPDATE profiles SET posts_count = posts_count + 1 WHERE id = $1;", author); err != nil {
			return err
		}

		if replyTo != nil {
			if _, err := tx.Exec(ctx, "UPDATE posts SET replies_count = replies_count + 1 WHERE id = $1;", body.ReplyTo); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return model.Post{}, err
	}

	return db.GetPost(ctx, id, author)
}

// GetPost allows to get data of a post, seen by viewer
func (db *Postgres) GetPost(ctx context.Context, id, viewer string) (model.Post, error) {
	post, err := scanPost(db.pool.QueryRow(ctx,
		"SELECT "+postColumns+" FROM posts p JOIN profiles a ON a.id = p.author_id WHERE p.id = $2;", viewer, id))
	if err != nil {
		return model.Post{}, notFound(err)
	}

	return post, nil
}

// GetUserPosts is a function for getting posts of a user,
// newest first, and see their likes
func (db *Postgres) GetUserPosts(ctx context.Context, author, viewer string, limit, offset int) ([]model.Post, error) {
	rows, err := db.pool.Query(ctx,
		"SELECT "+postColumns+` FROM posts p JOIN profiles a ON a.id = p.author_id
		WHERE p.author_id = $2 ORDER BY p.created_at DESC, p.id DESC LIMIT $3 OFFSET $4;`,
		viewer, author, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectPosts(rows)
}

// DeletePost removes a post written by author
func (db *Postgres) DeletePost(ctx context.Context, id, author string) error {
	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		var replyTo string
		err := tx.QueryRow(ctx, "DELETE FROM posts WHERE id = $1 AND author_id = $2 RETURNING coalesce(reply_to, '');", id, author).Scan(&replyTo)
		if err != nil {
			return notFound(err)
		}

		if _, err := tx.Exec(ctx, "UPDATE profiles SET posts_count = GREATEST(posts_count - 1, 0) WHERE id = $1;", author); err != nil {
			return err
		}

		if replyTo != "" {
			if _, err := tx.Exec(ctx, "UPDATE posts SET replies_count = GREATEST(replies_count - 1, 0) WHERE id = $1;", replyTo); err != nil {
				return err
			}
		}

		return nil
	})
}

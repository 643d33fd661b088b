package database

import (
	"context"
	"time"

	"github.com/Gravitalia/nido/helpers"
	"github.com/Gravitalia/nido/model"
)

// CreateNotification inserts a notification and returns it with its ID
func (db *Postgres) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	n.ID = helpers.NewID()

	var post *string
	if n.PostID != "" {
		post = &n.PostID
	}

	err := db.pool.QueryRow(ctx,
		"INSERT INTO notifications (id, user_id, actor_id, type, post_id) VALUES ($1, $2, $3, $4, $5) RETURNING read, created_at;",
		n.ID, n.UserID, n.ActorID, n.Type, post).Scan(&n.Read, &n.CreatedAt)
	if err != nil {
		return model.Notification{}, err
	}

	return n, nil
}

// GetNotifications lists the notifications of user, newest first, with
// the actor and a preview of the post they are about
func (db *Postgres) GetNotifications(ctx context.Context, user string, limit, offset int) ([]model.Notification, error) {
	rows, err := db.pool.Query(ctx, `SELECT n.id, n.user_id, n.actor_id, n.type, coalesce(n.post_id, ''), n.read, n.created_at,
		a.id, a.username, a.avatar_url, a.is_verified,
		coalesce(p.content, ''), coalesce(p.image_url, '')
		FROM notifications n
		JOIN profiles a ON a.id = n.actor_id
		LEFT JOIN posts p ON p.id = n.post_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC, n.id DESC LIMIT $2 OFFSET $3;`, user, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]model.Notification, 0)
	for rows.Next() {
		var (
			n              model.Notification
			actor          model.Author
			content, image string
		)
		err := rows.Scan(&n.ID, &n.UserID, &n.ActorID, &n.Type, &n.PostID, &n.Read, &n.CreatedAt,
			&actor.ID, &actor.Username, &actor.AvatarURL, &actor.IsVerified,
			&content, &image)
		if err != nil {
			return nil, err
		}

		n.Actor = &actor
		if n.PostID != "" {
			n.Post = &model.Post{ID: n.PostID, Content: content, ImageURL: image}
		}
		list = append(list, n)
	}

	return list, rows.Err()
}

// UnreadCount returns the number of unread notifications of user
func (db *Postgres) UnreadCount(ctx context.Context, user string) (int64, error) {
	var count int64
	err := db.pool.QueryRow(ctx, "SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT read;", user).Scan(&count)
	return count, err
}

// MarkAsRead marks one notification of user as read
func (db *Postgres) MarkAsRead(ctx context.Context, id, user string) error {
	tag, err := db.pool.Exec(ctx, "UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2;", id, user)
	if err != nil {
		return err
	} else if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllAsRead marks every notification of user as read
func (db *Postgres) MarkAllAsRead(ctx context.Context, user string) error {
	_, err := db.pool.Exec(ctx, "UPDATE notifications SET read = true WHERE user_id = $1 AND NOT read;", user)
	return err
}

func (db *Postgres) DeleteNotification(ctx context.Context, id, user string) error {
	tag, err := db.pool.Exec(ctx, "DELETE FROM notifications WHERE id = $1 AND user_id = $2;", id, user)
	if err != nil {
		return err
	} else if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeReadNotifications deletes read notifications created before
// olderThan and returns how many were removed
func (db *Postgres) PurgeReadNotifications(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx, "DELETE FROM notifications WHERE read AND created_at < $1;", olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

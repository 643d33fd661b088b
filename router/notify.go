package router

import (
	"context"
	"errors"
	"log"

	"github.com/Gravitalia/nido/database"
	"github.com/Gravitalia/nido/helpers"
	"github.com/Gravitalia/nido/model"
)

// notifyStore is what the notifier needs from the store
type notifyStore interface {
	GetProfile(ctx context.Context, id string) (model.Profile, error)
	GetSettings(ctx context.Context, user string) (model.Settings, error)
	BlockedBetween(ctx context.Context, a, b string) (bool, error)
	CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error)
}

// Notifier records notifications and sends them to the recipient
type Notifier struct {
	store     notifyStore
	cache     Cache
	publisher Publisher
}

func NewNotifier(store notifyStore, cache Cache, publisher Publisher) *Notifier {
	return &Notifier{store: store, cache: cache, publisher: publisher}
}

// Notify tells recipient that actor did something. Nothing is sent
// to the actor itself, from a suspended or deleted actor, to a user
// who disabled notifications, or across a block. The returned bool
// reports a sent notification
func (n *Notifier) Notify(ctx context.Context, recipient, actor, kind, post string) (bool, error) {
	if recipient == "" || recipient == actor {
		return false, nil
	}

	from, err := n.store.GetProfile(ctx, actor)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	} else if from.Suspended {
		return false, nil
	}

	settings, err := n.store.GetSettings(ctx, recipient)
	if err != nil {
		return false, err
	} else if !settings.AllowNotifications {
		return false, nil
	}

	blocked, err := n.store.BlockedBetween(ctx, recipient, actor)
	if err != nil {
		return false, err
	} else if blocked {
		return false, nil
	}

	notification, err := n.store.CreateNotification(ctx, model.Notification{
		UserID:  recipient,
		ActorID: actor,
		Type:    kind,
		PostID:  post,
	})
	if err != nil {
		return false, err
	}

	n.cache.Delete(unreadKey(recipient))
	n.publisher.Publish(helpers.NotificationSubject(recipient), model.Message{
		Type:      notification.Type,
		From:      actor,
		To:        recipient,
		Post:      post,
		Important: kind == model.NotificationFollow || kind == model.NotificationMention,
	})
	helpers.IncrementNotifications(kind)

	return true, nil
}

// notify sends a notification after a successful write. Failures
// are logged and never reach the client
func (rt *Router) notify(ctx context.Context, recipient, actor, kind, post string) {
	if _, err := rt.notifier.Notify(ctx, recipient, actor, kind, post); err != nil {
		log.Printf("(Notify) Cannot send %s notification to %s: %v", kind, recipient, err)
	}
}

// notifyPost sends the reply and mention notifications of a new post
func (rt *Router) notifyPost(ctx context.Context, post model.Post) {
	notified := map[string]bool{post.AuthorID: true}

	if post.ReplyTo != "" {
		parent, err := rt.store.GetPost(ctx, post.ReplyTo, post.AuthorID)
		if err != nil {
			log.Printf("(Notify) Cannot get replied post %s: %v", post.ReplyTo, err)
		} else {
			notified[parent.AuthorID] = true
			rt.notify(ctx, parent.AuthorID, post.AuthorID, model.NotificationReply, post.ID)
		}
	}

	names := helpers.Mentions(post.Content)
	if len(names) == 0 {
		return
	}

	profiles, err := rt.store.ProfilesByUsernames(ctx, names)
	if err != nil {
		log.Printf("(Notify) Cannot get mentioned users: %v", err)
		return
	}

	for _, profile := range profiles {
		if notified[profile.ID] {
			continue
		}
		notified[profile.ID] = true
		rt.notify(ctx, profile.ID, post.AuthorID, model.NotificationMention, post.ID)
	}
}

package router

import (
	"context"
	"testing"

	"github.com/Gravitalia/nido/model"
	"github.com/stretchr/testify/require"
)

func TestNotifier(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := newFakeCache()
	publisher := &fakePublisher{}
	notifier := NewNotifier(store, cache, publisher)

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.CreateProfile(ctx, model.Profile{ID: id, Username: "user_" + id, Email: id + "@gravitalia.com"}, "")
		require.NoError(t, err)
	}

	cache.Set(unreadKey("b"), model.UnreadCount{Count: 4}, unreadTTL)

	sent, err := notifier.Notify(ctx, "b", "a", model.NotificationFollow, "")
	require.NoError(t, err)
	require.True(t, sent)
	require.False(t, cache.has(unreadKey("b")))

	messages := publisher.on("notifications.b")
	require.Len(t, messages, 1)
	require.Equal(t, model.Message{Type: "follow", From: "a", To: "b", Important: true}, messages[0])

	// never to the actor
	sent, err = notifier.Notify(ctx, "a", "a", model.NotificationLike, "p")
	require.NoError(t, err)
	require.False(t, sent)

	// not across a block, in either direction
	_, err = store.ToggleBlock(ctx, "c", "a")
	require.NoError(t, err)
	sent, _ = notifier.Notify(ctx, "c", "a", model.NotificationMention, "p")
	require.False(t, sent)
	sent, _ = notifier.Notify(ctx, "a", "c", model.NotificationMention, "p")
	require.False(t, sent)

	off := false
	_, err = store.UpdateSettings(ctx, "b", model.SettingsBody{AllowNotifications: &off})
	require.NoError(t, err)
	sent, _ = notifier.Notify(ctx, "b", "c", model.NotificationLike, "p")
	require.False(t, sent)

	// nothing from a suspended or deleted actor
	on := true
	_, err = store.UpdateSettings(ctx, "b", model.SettingsBody{AllowNotifications: &on})
	require.NoError(t, err)
	require.NoError(t, store.SetSuspended(ctx, "a", true))
	sent, err = notifier.Notify(ctx, "b", "a", model.NotificationFollow, "")
	require.NoError(t, err)
	require.False(t, sent)

	sent, err = notifier.Notify(ctx, "b", "ghost", model.NotificationFollow, "")
	require.NoError(t, err)
	require.False(t, sent)

	require.NoError(t, store.SetSuspended(ctx, "a", false))
	sent, err = notifier.Notify(ctx, "b", "a", model.NotificationLike, "p")
	require.NoError(t, err)
	require.True(t, sent)

	require.Len(t, store.notifications, 2)
}

package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	// NotificationRetention is how long read notifications are kept
	NotificationRetention = 30 * 24 * time.Hour
	// HistoryKeep is the number of searches kept per user
	HistoryKeep = 50

	timeout = 10 * time.Minute
)

// Ranker computes the rank of every user of the graph
type Ranker interface {
	PageRank(ctx context.Context) error
}

// Store removes stale rows
type Store interface {
	PurgeReadNotifications(ctx context.Context, olderThan time.Time) (int64, error)
	TrimSearchHistory(ctx context.Context, keep int) (int64, error)
}

// Jobs are the maintenance tasks run in background
type Jobs struct {
	ranker Ranker
	store  Store
	now    func() time.Time
}

func New(ranker Ranker, store Store) *Jobs {
	return &Jobs{ranker: ranker, store: store, now: time.Now}
}

// Start schedules every job on a new cron and starts it
func (j *Jobs) Start() (*cron.Cron, error) {
	c := cron.New()

	schedule := []struct {
		spec string
		job  func(context.Context) error
	}{
		{"@hourly", j.Rank}, // switch to @daily or @weekly when the graph grows
		{"@daily", j.PurgeNotifications},
		{"@daily", j.TrimHistory},
	}

	for _, s := range schedule {
		job := s.job
		if _, err := c.AddFunc(s.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			if err := job(ctx); err != nil {
				log.Printf("(Jobs) %v", err)
			}
		}); err != nil {
			return nil, err
		}
	}

	c.Start()
	return c, nil
}

// Rank starts a new calculation of PageRank
func (j *Jobs) Rank(ctx context.Context) error {
	log.Println("Starting PageRank...")
	return j.ranker.PageRank(ctx)
}

// PurgeNotifications deletes old read notifications
func (j *Jobs) PurgeNotifications(ctx context.Context) error {
	n, err := j.store.PurgeReadNotifications(ctx, j.now().Add(-NotificationRetention))
	if err != nil {
		return err
	}

	log.Printf("Purged %d read notifications", n)
	return nil
}

// TrimHistory keeps the last searches of every user
func (j *Jobs) TrimHistory(ctx context.Context) error {
	n, err := j.store.TrimSearchHistory(ctx, HistoryKeep)
	if err != nil {
		return err
	}

	log.Printf("Trimmed %d search history entries", n)
	return nil
}

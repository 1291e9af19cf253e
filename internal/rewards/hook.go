// Package rewards is the boundary to the external points/achievement ledger.
// Deliveries are fire-and-forget: a failed notification is logged and
// counted, never surfaced to the forum mutation that triggered it.
package rewards

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"guildhall/internal/middleware"
	"guildhall/internal/observability"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventKind identifies a point-worthy forum event.
type EventKind string

const (
	// EventThreadCreation is emitted when a user starts a thread.
	EventThreadCreation EventKind = "thread_creation"
	// EventPostCreation is emitted when a user publishes a post.
	EventPostCreation EventKind = "post_creation"
	// EventSolutionMarked is emitted for the author of a post marked as solution.
	EventSolutionMarked EventKind = "solution_marked"
)

// Hook notifies the reward system of point-worthy events. Implementations
// must never return delivery failures to callers; the interface has no error
// return to make the fire-and-forget contract explicit.
type Hook interface {
	Notify(ctx context.Context, userID uint, kind EventKind, subjectID uint)
}

// Event is the wire envelope published for the reward consumer.
type Event struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Kind      EventKind `json:"kind"`
	SubjectID uint      `json:"subject_id"`
	At        time.Time `json:"at"`
}

// RedisHook publishes reward events on a Redis pub/sub channel. The reward
// ledger consumes them out of band.
type RedisHook struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// NewRedisHook creates a RedisHook publishing on the given channel.
func NewRedisHook(client *redis.Client, channel string) *RedisHook {
	return &RedisHook{
		client:  client,
		channel: channel,
		logger:  middleware.Logger,
	}
}

// Notify publishes the event. Failures are logged and counted, never returned.
func (h *RedisHook) Notify(ctx context.Context, userID uint, kind EventKind, subjectID uint) {
	if h.client == nil {
		return
	}

	event := Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		SubjectID: subjectID,
		At:        time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		h.dropped(ctx, event, err)
		return
	}

	if err := h.client.Publish(ctx, h.channel, payload).Err(); err != nil {
		h.dropped(ctx, event, err)
		return
	}

	observability.RewardEventsPublished.WithLabelValues(string(kind)).Inc()
}

func (h *RedisHook) dropped(ctx context.Context, event Event, err error) {
	observability.RewardEventsFailed.WithLabelValues(string(event.Kind)).Inc()
	h.logger.WarnContext(ctx, "reward event dropped",
		slog.String("kind", string(event.Kind)),
		slog.Uint64("user_id", uint64(event.UserID)),
		slog.Uint64("subject_id", uint64(event.SubjectID)),
		slog.String("error", err.Error()),
	)
}

// NopHook discards all events. Used in tests and cache-less deployments.
type NopHook struct{}

// Notify implements Hook.
func (NopHook) Notify(context.Context, uint, EventKind, uint) {}

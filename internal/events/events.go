// Package events publishes matching notifications on Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	ChannelMatchingCompleted = "EVENT_MATCHING_COMPLETED"
	ChannelStatusChanged     = "EVENT_MATCH_STATUS_CHANGED"
)

// MatchingCompleted is published after a run stored its results.
type MatchingCompleted struct {
	JobID       int64 `json:"jobId"`
	RequesterID int64 `json:"requesterId"`
	MatchCount  int   `json:"matchCount"`
}

// StatusChanged is published after a recruiter changed a match status.
type StatusChanged struct {
	MatchID    string `json:"matchId"`
	JobID      int64  `json:"jobId"`
	From       string `json:"from"`
	To         string `json:"to"`
	ReviewerID int64  `json:"reviewerId"`
}

// envelope carries the channel name as "type" so subscribers on a pattern
// can tell events apart.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Publisher sends events to Redis. The channel name doubles as event type.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher wraps an existing client.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// Publish encodes payload as JSON and publishes it on channel.
func (p *Publisher) Publish(ctx context.Context, channel string, payload any) error {
	body, err := Encode(channel, payload)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

// Encode renders the wire form of an event.
func Encode(channel string, payload any) ([]byte, error) {
	body, err := json.Marshal(envelope{Type: channel, Data: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", channel, err)
	}
	return body, nil
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

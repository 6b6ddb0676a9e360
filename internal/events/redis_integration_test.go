//go:build integration

package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublisherDeliversToSubscribers(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	sub := rdb.Subscribe(ctx, ChannelStatusChanged)
	t.Cleanup(func() { _ = sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	payload := StatusChanged{MatchID: "m-1", JobID: 1, From: "pending", To: "shortlisted", ReviewerID: 2}
	require.NoError(t, NewPublisher(rdb).Publish(ctx, ChannelStatusChanged, payload))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	want, err := Encode(ChannelStatusChanged, payload)
	require.NoError(t, err)
	require.JSONEq(t, string(want), msg.Payload)
}

package publisher

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This test requires a running Redis instance
// If Redis is not available, the test will be skipped
func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()
	stream := "test_stream_vintedscout"

	publisher := NewRedisPublisher(ctx, "localhost:6379", 0, stream, 2)
	defer publisher.Close()

	// Test if Redis is available
	if err := publisher.Ping(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 0})
	defer client.Close()
	client.Del(ctx, stream)
	defer client.Del(ctx, stream)

	for _, msg := range []string{`{"title":"a"}`, `{"title":"b"}`, `{"title":"c"}`} {
		require.NoError(t, publisher.Publish("run-1", []byte(msg)))
	}

	require.NoError(t, publisher.TrimStreams())

	entries, err := client.XRange(ctx, stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].Values["run_id"])
	assert.Equal(t, `{"title":"b"}`, entries[0].Values["match"])
	assert.Equal(t, `{"title":"c"}`, entries[1].Values["match"])
}

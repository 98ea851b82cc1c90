package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestParseWindowResult(t *testing.T) {
	now := time.UnixMilli(1_700_000_060_000)
	window := time.Minute

	res, err := parseWindowResult([]interface{}{int64(1), int64(4)}, now, window)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(4), res.Remaining)
	assert.Equal(t, now.Add(window), res.ResetAt)

	res, err = parseWindowResult([]interface{}{int64(0), int64(0), "1700000030000"}, now, window)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 30*time.Second, res.RetryIn)

	_, err = parseWindowResult([]interface{}{int64(1)}, now, window)
	assert.Error(t, err)

	_, err = parseWindowResult([]interface{}{true, int64(1)}, now, window)
	assert.Error(t, err)
}

func TestToInt64(t *testing.T) {
	for input, want := range map[interface{}]int64{int64(3): 3, 4: 4, 5.9: 5, "6": 6, "7.5": 7} {
		got, err := toInt64(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := toInt64("abc")
	assert.Error(t, err)
}

func TestRateLimiter_Allow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	var portNum int
	_, err = fmt.Sscanf(port.Port(), "%d", &portNum)
	require.NoError(t, err)

	client := NewClient(Config{Host: host, Port: portNum}, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	require.NoError(t, client.Start(ctx))
	t.Cleanup(func() { _ = client.Stop(context.Background()) })

	limiter := NewRateLimiter(client, "test:")
	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, "POST /api/gardens:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, int64(2-i), res.Remaining)
	}

	res, err := limiter.Allow(ctx, "POST /api/gardens:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryIn, time.Duration(0))

	require.NoError(t, limiter.Reset(ctx, "POST /api/gardens:1.2.3.4"))
	res, err = limiter.Allow(ctx, "POST /api/gardens:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

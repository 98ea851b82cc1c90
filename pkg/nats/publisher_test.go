package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/events"
)

func newLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestSubject(t *testing.T) {
	p := NewPublisher(Config{SubjectPrefix: "neogarden."}, newLogger())
	assert.Equal(t, "neogarden.garden.created", p.Subject(events.TypeGardenCreated))

	p = NewPublisher(Config{}, newLogger())
	assert.Equal(t, "garden.deleted", p.Subject(events.TypeGardenDeleted))
}

func TestBuildMsg(t *testing.T) {
	p := NewPublisher(Config{SubjectPrefix: "neogarden"}, newLogger())
	msg, err := p.buildMsg(context.Background(), events.Event{ID: "evt-1", Type: events.TypeStatusCheckCreated, Resource: events.ResourceStatusCheck, ResourceID: "s-1"})
	require.NoError(t, err)

	assert.Equal(t, "neogarden.status_check.created", msg.Subject)
	assert.Equal(t, "evt-1", msg.Header.Get("Nats-Msg-Id"))

	var decoded events.Event
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, "s-1", decoded.ResourceID)
}

func TestPublishEvent_NotConnected(t *testing.T) {
	p := NewPublisher(Config{URL: "nats://localhost:1"}, newLogger())
	assert.ErrorIs(t, p.PublishEvent(context.Background(), events.Event{Type: events.TypeGardenCreated}), ErrNotConnected)
	assert.NoError(t, p.Stop(context.Background()))
}

func TestPublisher_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping NATS container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2-alpine",
			ExposedPorts: []string{"4222/tcp"},
			WaitingFor:   wait.ForLog("Server is ready").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "4222")
	require.NoError(t, err)
	url := fmt.Sprintf("nats://%s:%s", host, port.Port())

	sub, err := nats.Connect(url)
	require.NoError(t, err)
	defer sub.Close()
	received := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe("neogarden.>", received)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	p := NewPublisher(Config{URL: url, SubjectPrefix: "neogarden"}, newLogger())
	require.NoError(t, p.Start(ctx))
	t.Cleanup(func() { _ = p.Stop(context.Background()) })

	require.NoError(t, p.PublishEvent(ctx, events.Event{ID: "evt-9", Type: events.TypeGardenDeleted, ResourceID: "g-9"}))

	select {
	case msg := <-received:
		assert.Equal(t, "neogarden.garden.deleted", msg.Subject)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
}

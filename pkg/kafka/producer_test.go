package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/events"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newTestProducer(w *fakeWriter) *Producer {
	return &Producer{
		writer: w,
		logger: ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}),
		topic:  "neogarden-events",
	}
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092", "c:9092"}, ParseBrokers([]string{" a:9092,b:9092", "", "c:9092 "}))
	assert.Empty(t, ParseBrokers(nil))
}

func TestProducer_PublishEvent(t *testing.T) {
	w := &fakeWriter{}
	p := newTestProducer(w)

	evt := events.Event{
		ID:         "evt-1",
		Type:       events.TypeGardenCreated,
		Resource:   events.ResourceGarden,
		ResourceID: "g-1",
		Timestamp:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishEvent(context.Background(), evt))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "g-1", string(msg.Key))
	assert.Equal(t, evt.Timestamp, msg.Time)

	var decoded events.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.ResourceID, decoded.ResourceID)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "garden.created", headers["type"])
	assert.Equal(t, "evt-1", headers["event_id"])
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := newTestProducer(w)

	err := p.PublishEvent(context.Background(), events.Event{ID: "evt-2", Type: events.TypeGardenDeleted})
	assert.Error(t, err)

	require.NoError(t, p.Stop(context.Background()))
	assert.True(t, w.closed)
}

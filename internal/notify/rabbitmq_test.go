package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	closed     bool
	publishErr error
	published  []amqp.Publishing
	keys       []string
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) IsClosed() bool { return c.closed }

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type fakeConn struct{ closed bool }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeBroker struct {
	channels []*fakeChannel
	dialErr  error
}

func (b *fakeBroker) dial() (amqpChannel, io.Closer, error) {
	if b.dialErr != nil {
		return nil, nil, b.dialErr
	}
	ch := &fakeChannel{}
	b.channels = append(b.channels, ch)
	return ch, &fakeConn{}, nil
}

func TestRabbitPublisher_Publish(t *testing.T) {
	broker := &fakeBroker{}
	p, err := newRabbitPublisher(DefaultQueue, broker.dial)
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), Event{Type: EventInterviewBooked, BookingID: "b-1"}))

	require.Len(t, broker.channels, 1)
	ch := broker.channels[0]
	require.Len(t, ch.published, 1)
	assert.Equal(t, DefaultQueue, ch.keys[0])
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.Equal(t, string(EventInterviewBooked), ch.published[0].Type)

	var got Event
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &got))
	assert.Equal(t, "b-1", got.BookingID)
}

func TestRabbitPublisher_ReconnectsAfterChannelClosed(t *testing.T) {
	broker := &fakeBroker{}
	p, err := newRabbitPublisher(DefaultQueue, broker.dial)
	require.NoError(t, err)

	// брокер перезапустился
	broker.channels[0].closed = true

	require.NoError(t, p.Publish(context.Background(), Event{Type: EventInterviewCancelled}))
	require.Len(t, broker.channels, 2)
	assert.Len(t, broker.channels[1].published, 1)
}

func TestRabbitPublisher_FailedPublishRedialsNextTime(t *testing.T) {
	broker := &fakeBroker{}
	p, err := newRabbitPublisher(DefaultQueue, broker.dial)
	require.NoError(t, err)

	broker.channels[0].publishErr = errors.New("connection reset")
	require.Error(t, p.Publish(context.Background(), Event{Type: EventInterviewBooked}))

	// брокер недоступен: ошибка, но без паники
	broker.dialErr = errors.New("connection refused")
	require.Error(t, p.Publish(context.Background(), Event{Type: EventInterviewBooked}))

	broker.dialErr = nil
	require.NoError(t, p.Publish(context.Background(), Event{Type: EventInterviewBooked}))
	require.Len(t, broker.channels, 2)
	assert.Len(t, broker.channels[1].published, 1)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}

func TestNewRabbitPublisher_DialError(t *testing.T) {
	broker := &fakeBroker{dialErr: errors.New("connection refused")}
	_, err := newRabbitPublisher(DefaultQueue, broker.dial)
	require.Error(t, err)
}

package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.events = append(p.events, event)
	return p.err
}

func TestMulti_PublishesToAll(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("broker down")}
	ok := &recordingPublisher{}

	err := Multi{failing, ok}.Publish(context.Background(), Event{Type: EventInterviewBooked})
	require.Error(t, err)
	assert.Len(t, failing.events, 1)
	assert.Len(t, ok.events, 1)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{}))
}

func TestFormatEvent(t *testing.T) {
	text := FormatEvent(Event{
		Type:  EventInterviewBooked,
		Name:  "Yamada",
		Date:  "2026-03-10",
		Time:  "15:00",
		Topic: "学習相談",
	})
	assert.Contains(t, text, "2026-03-10 15:00")
	assert.Contains(t, text, "Yamada")
	assert.Contains(t, text, "学習相談")

	assert.Equal(t, "custom", FormatEvent(Event{Type: "custom"}))
}

package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestManager() (*Manager, *time.Time) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	sm := NewManager(10 * time.Minute)
	sm.now = func() time.Time { return now }
	return sm, &now
}

func TestManager_StateAndData(t *testing.T) {
	sm, _ := newTestManager()

	assert.Equal(t, StateNone, sm.GetState(1))

	sm.SetData(1, KeyDate, "2026-04-10")
	_, ok := sm.GetData(1, KeyDate)
	assert.False(t, ok, "data without a dialog is dropped")

	sm.SetState(1, StateBookDate)
	sm.SetData(1, KeyDate, "2026-04-10")
	sm.SetState(1, StateBookTime)

	assert.Equal(t, StateBookTime, sm.GetState(1))
	date, ok := sm.GetData(1, KeyDate)
	assert.True(t, ok)
	assert.Equal(t, "2026-04-10", date)
	assert.Equal(t, map[string]string{KeyDate: "2026-04-10"}, sm.GetAllData(1))

	sm.SetState(1, StateNone)
	assert.Equal(t, StateNone, sm.GetState(1))
	assert.Nil(t, sm.GetAllData(1))
}

func TestManager_Expiry(t *testing.T) {
	sm, now := newTestManager()

	sm.SetState(1, StateBookName)
	sm.SetState(2, StateAbsentReason)

	*now = now.Add(5 * time.Minute)
	sm.SetState(2, StateAbsentReason)

	*now = now.Add(6 * time.Minute)
	assert.Equal(t, StateNone, sm.GetState(1))
	assert.Equal(t, StateAbsentReason, sm.GetState(2))

	assert.Equal(t, 1, sm.Sweep())
	assert.Equal(t, StateAbsentReason, sm.GetState(2))
}

func TestManager_ExpiredDialogStartsFresh(t *testing.T) {
	sm, now := newTestManager()

	sm.SetState(1, StateBookDate)
	sm.SetData(1, KeyDate, "2026-04-10")

	*now = now.Add(time.Hour)
	sm.SetState(1, StateBookDate)

	_, ok := sm.GetData(1, KeyDate)
	assert.False(t, ok)
}

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetAbsent(t *testing.T) {
	value, err := NewMemoryStore().Get(context.Background(), KeyInterviewSlots)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	in := []byte(`[1]`)
	require.NoError(t, s.Set(ctx, "k", in))
	in[1] = '2'

	out, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(out))

	out[1] = '3'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(again))
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemoryStore().Set(ctx, "k", []byte(`[]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

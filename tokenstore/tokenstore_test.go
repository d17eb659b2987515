package tokenstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushAtAndLen(t *testing.T) {
	s := NewRAM(8)
	for _, tok := range []uint16{10, 20, 30} {
		require.NoError(t, s.Push(tok))
	}
	assert.Equal(t, 3, s.Len())

	got, err := s.At(1)
	require.NoError(t, err)
	assert.Equal(t, uint16(20), got)
}

func TestSpanRejectsOutOfRange(t *testing.T) {
	s := NewRAM(8)
	for _, tok := range []uint16{1, 2, 3, 4} {
		require.NoError(t, s.Push(tok))
	}

	span, err := s.Span(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint16{2, 3}, span)

	_, err = s.Span(0, 5)
	assert.Error(t, err)
	_, err = s.Span(3, 1)
	assert.Error(t, err)
}

func TestFreezeThenPushFails(t *testing.T) {
	s := NewRAM(4)
	require.NoError(t, s.Push(7))
	require.NoError(t, s.Freeze())
	assert.Error(t, s.Push(8))
}

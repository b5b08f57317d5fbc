package sinkdag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreAllocatesRootThenSink(t *testing.T) {
	s := newStore()
	assert.Equal(t, NodeID(0), s.root)
	assert.Equal(t, NodeID(1), s.sink)
	assert.False(t, s.isTerminal(s.root))
	assert.True(t, s.isTerminal(s.sink))
}

func TestAddForwardRejectsConflictingTransition(t *testing.T) {
	s := newStore()
	a := s.newNodeID(false)
	b := s.newNodeID(false)
	require.NoError(t, s.addForward(s.root, 'x', a))
	// Re-adding the same (parent, char, child) triple is a no-op.
	require.NoError(t, s.addForward(s.root, 'x', a))

	err := s.addForward(s.root, 'x', b)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestReplaceForwardUpdatesReverseIndex(t *testing.T) {
	s := newStore()
	a := s.newNodeID(false)
	b := s.newNodeID(false)
	require.NoError(t, s.addForward(s.root, 'x', a))

	old := s.replaceForward(s.root, 'x', b)
	assert.Equal(t, a, old)
	assert.False(t, s.hasParents(a))
	assert.True(t, s.hasParents(b))
}

func TestIterForwardIsSortedByCodePoint(t *testing.T) {
	s := newStore()
	c := s.newNodeID(false)
	b := s.newNodeID(false)
	a := s.newNodeID(false)
	require.NoError(t, s.addForward(s.root, 'c', c))
	require.NoError(t, s.addForward(s.root, 'b', b))
	require.NoError(t, s.addForward(s.root, 'a', a))

	var seen []rune
	s.iterForward(s.root, func(r rune, _ NodeID) { seen = append(seen, r) })
	assert.Equal(t, []rune{'a', 'b', 'c'}, seen)
}

func TestFreezeDropsReverseIndex(t *testing.T) {
	s := newStore()
	a := s.newNodeID(false)
	require.NoError(t, s.addForward(s.root, 'x', a))
	require.True(t, s.hasParents(a))

	s.freeze()
	assert.False(t, s.hasParents(a))
}

package sinkdag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSuffixesSharesCommonTail(t *testing.T) {
	a, err := Build([]string{"cat", "bat", "hat"})
	require.NoError(t, err)
	defer Teardown(a)

	info := Info(a)
	// root, sink, and the two nodes of the merged "at" chain: every first
	// letter leads from root to the same "at" head, so 4 nodes and 5 edges
	// (3 out of root, then 'a', then 't' into sink).
	assert.Equal(t, 4, info.Nodes)
	assert.Equal(t, 5, info.Edges)
	assert.Equal(t, 3, info.Heads)
	assert.Equal(t, 1, info.Terminals) // only sink accepts
	assert.Equal(t, 1, info.Branches)  // only root branches

	assert.True(t, Match(a, "cat"))
	assert.True(t, Match(a, "bat"))
	assert.True(t, Match(a, "hat"))
	assert.False(t, Match(a, "at"))
	assert.False(t, Match(a, "rat"))
}

func TestMergeSuffixesCompressesBelowPrefixTree(t *testing.T) {
	merged, err := Build([]string{"cat", "bat", "hat"})
	require.NoError(t, err)
	defer Teardown(merged)

	unmerged, err := Build([]string{"cat"})
	require.NoError(t, err)
	defer Teardown(unmerged)

	// Property 7 (compression bound): three independent 3-letter words
	// sharing a 2-letter tail compress to fewer nodes than a naive
	// prefix tree (root + sink + 2 nodes per word = 8) would need.
	assert.Less(t, Info(merged).Nodes, 8)
}

func TestMergeSuffixesLeavesUnshareableWordsAlone(t *testing.T) {
	a, err := Build([]string{"ab", "cd"})
	require.NoError(t, err)
	defer Teardown(a)

	info := Info(a)
	assert.Equal(t, 4, info.Nodes) // root, sink, one internal node per word
	assert.Equal(t, 4, info.Edges)
	assert.True(t, Match(a, "ab"))
	assert.True(t, Match(a, "cd"))
	assert.False(t, Match(a, "ac"))
}

func TestMergeSuffixesDoesNotShareThroughTerminalNode(t *testing.T) {
	a, err := Build([]string{"page", "pages"})
	require.NoError(t, err)
	defer Teardown(a)

	assert.True(t, Match(a, "page"))
	assert.True(t, Match(a, "pages"))
	assert.False(t, Match(a, "pag"))
	assert.False(t, Match(a, "pagess"))
}

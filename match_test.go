package sinkdag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchE1(t *testing.T) {
	a, err := Build([]string{"abc", "a", "xyz", "abcdef", "abcpqr"})
	require.NoError(t, err)
	defer Teardown(a)

	cases := map[string]bool{
		"a": true, "abc": true, "abcdef": true, "abcpqr": true, "xyz": true,
		"":        false,
		"x":       false,
		"b":       false,
		"ab":      false,
		"abcd":    false,
		"abcdxyz": false,
		"xyzabc":  false,
	}
	for q, want := range cases {
		assert.Equal(t, want, Match(a, q), "query %q", q)
	}
}

func TestMatchE2Unicode(t *testing.T) {
	a, err := Build([]string{"好久不见", "龙年"})
	require.NoError(t, err)
	defer Teardown(a)

	cases := map[string]bool{
		"好久不见": true,
		"龙年":    true,
		"好久":    false,
		"龙":     false,
		"黑龙江":   false,
		"":      false,
	}
	for q, want := range cases {
		assert.Equal(t, want, Match(a, q), "query %q", q)
	}
}

func TestMatchE4PageDistinctFromSink(t *testing.T) {
	a, err := Build([]string{"page", "pages"})
	require.NoError(t, err)
	defer Teardown(a)

	assert.True(t, Match(a, "page"))
	assert.True(t, Match(a, "pages"))
	assert.False(t, Match(a, "pag"))
	assert.False(t, Match(a, "pagess"))

	n := a.s.root
	for _, r := range "page" {
		n = a.s.nodes[n].out[r]
	}
	assert.NotEqual(t, a.s.sink, n)
	assert.True(t, a.s.nodes[n].terminal)
}

func TestMatchE5NoShareableTails(t *testing.T) {
	a, err := Build([]string{"ab", "cd"})
	require.NoError(t, err)
	defer Teardown(a)

	assert.True(t, Match(a, "ab"))
	assert.True(t, Match(a, "cd"))
	assert.False(t, Match(a, "ac"))
	assert.Equal(t, 4, Info(a).Nodes)
}

func TestMatchManyE6GroupingPreservesInputOrder(t *testing.T) {
	a, err := Build([]string{"nunc", "nulla", "magna", "ipsum"})
	require.NoError(t, err)
	defer Teardown(a)

	type ref struct{ pos int }
	pairs := []QueryRef{
		{Query: "lorem", Ref: ref{0}},
		{Query: "nunc", Ref: ref{1}},
		{Query: "dolor", Ref: ref{2}},
		{Query: "nunc", Ref: ref{3}},
		{Query: "magna", Ref: ref{4}},
	}

	result := MatchMany(a, pairs)

	require.Contains(t, result, "nunc")
	require.Contains(t, result, "magna")
	assert.NotContains(t, result, "lorem")
	assert.NotContains(t, result, "dolor")

	require.Len(t, result["nunc"], 2)
	assert.Equal(t, ref{1}, result["nunc"][0])
	assert.Equal(t, ref{3}, result["nunc"][1])

	require.Len(t, result["magna"], 1)
	assert.Equal(t, ref{4}, result["magna"][0])
}

func TestMatchOnTornDownAutomatonReturnsFalse(t *testing.T) {
	a, err := Build([]string{"abc"})
	require.NoError(t, err)
	assert.True(t, Match(a, "abc"))
	Teardown(a)
	assert.False(t, Match(a, "abc"))
}

func TestMatchEmptyQueryNeverMatches(t *testing.T) {
	a, err := Build([]string{"a"})
	require.NoError(t, err)
	defer Teardown(a)
	assert.False(t, Match(a, ""))
}

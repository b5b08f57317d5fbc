package sinkdag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateCountsMatchInfo(t *testing.T) {
	a, err := Build([]string{"cat", "bat", "hat"})
	require.NoError(t, err)
	defer Teardown(a)

	vertices, edges := Enumerate(a)
	info := Info(a)

	assert.Len(t, vertices, info.Nodes)
	assert.Len(t, edges, info.Edges)
}

func TestEnumerateVertexKinds(t *testing.T) {
	a, err := Build([]string{"ab", "cd"})
	require.NoError(t, err)
	defer Teardown(a)

	vertices, _ := Enumerate(a)

	var initial, final, normal int
	for _, v := range vertices {
		switch v.Kind {
		case VertexInitial:
			initial++
		case VertexFinal:
			final++
		case VertexNormal:
			normal++
		}
	}
	assert.Equal(t, 1, initial)
	assert.Equal(t, 1, final) // only sink is terminal for this dictionary
	assert.Equal(t, 2, normal)
}

func TestEnumerateIsDeterministicAcrossCalls(t *testing.T) {
	a, err := Build([]string{"walk", "walking", "wall", "king"})
	require.NoError(t, err)
	defer Teardown(a)

	v1, e1 := Enumerate(a)
	v2, e2 := Enumerate(a)
	assert.Equal(t, v1, v2)
	assert.Equal(t, e1, e2)
}

func TestEnumerateOnNilAutomatonReturnsNil(t *testing.T) {
	vertices, edges := Enumerate(nil)
	assert.Nil(t, vertices)
	assert.Nil(t, edges)
}

package typeutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	set := NewSet[int](1, 2, 3)
	require.Equal(t, 3, set.Len())
	require.True(t, set.Contain(1, 2, 3))
	require.False(t, set.Contain(1, 4))

	set.Insert(4)
	require.True(t, set.Contain(4))

	set.Remove(1, 2)
	require.False(t, set.Contain(1))
	require.Equal(t, 2, set.Len())

	require.ElementsMatch(t, []int{3, 4}, set.Collect())

	clone := set.Clone()
	clone.Insert(9)
	require.False(t, set.Contain(9))
}

func TestSetRange(t *testing.T) {
	set := NewSet("a", "b", "c")
	seen := 0
	set.Range(func(string) bool {
		seen++
		return seen < 2
	})
	require.Equal(t, 2, seen)
}

func TestConcurrentSet(t *testing.T) {
	set := NewConcurrentSet[string]()
	require.True(t, set.Insert("x"))
	require.False(t, set.Insert("x"))
	require.True(t, set.Contain("x"))

	set.Remove("x")
	require.False(t, set.Contain("x"))

	set.Insert("a")
	set.Insert("b")
	require.ElementsMatch(t, []string{"a", "b"}, set.Collect())
}

package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedArrayInsertKeepsOrder(t *testing.T) {
	a := newOrderedArray[int]()
	vals := []int{5, 1, 9, 3, 7, 2, 8, 4, 6, 0}
	for _, v := range vals {
		idx, found := binarySearch(a, func(e int) int { return e - v })
		require.False(t, found)
		a.insertAt(idx, v)
	}
	require.Equal(t, 10, a.len())
	for i := 0; i < a.len(); i++ {
		require.Equal(t, i, a.at(i))
	}
}

func TestOrderedArrayRemoveAtShrinksAndPreservesOrder(t *testing.T) {
	a := newOrderedArray[int]()
	for i := 0; i < 40; i++ {
		a.insertAt(a.len(), i)
	}
	for i := 0; i < 35; i++ {
		a.removeAt(0)
	}
	require.Equal(t, 5, a.len())
	require.Equal(t, arrayInitialCapacity, cap(a.buf))
	for i := 0; i < a.len(); i++ {
		require.Equal(t, 35+i, a.at(i))
	}
}

func TestBinarySearchFindsExactAndInsertionPoint(t *testing.T) {
	a := newOrderedArray[int]()
	for _, v := range []int{10, 20, 30, 40} {
		a.insertAt(a.len(), v)
	}
	idx, found := binarySearch(a, func(e int) int { return e - 30 })
	require.True(t, found)
	require.Equal(t, 2, idx)

	idx, found = binarySearch(a, func(e int) int { return e - 25 })
	require.False(t, found)
	require.Equal(t, 2, idx)
}

func TestTokenizeCollapsesBackslashRuns(t *testing.T) {
	require.Equal(t, []string{"A", "B", "C"}, tokenize(`A\\B\C`))
	require.Nil(t, tokenize(""))
}

func TestCompareNamesFoldIsCaseInsensitive(t *testing.T) {
	require.True(t, equalFold("Software", "SOFTWARE"))
	require.False(t, equalFold("Software", "Softwares"))
	require.Equal(t, -1, compareNamesFold("abc", "abd"))
	require.Equal(t, -1, compareNamesFold("ab", "abc"))
}

package synleth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSubset(t *testing.T) {
	assert.True(t, isSubset(nil, []string{"a"}))
	assert.True(t, isSubset([]string{"a", "c"}, []string{"a", "b", "c"}))
	assert.False(t, isSubset([]string{"a", "d"}, []string{"a", "b", "c"}))
	assert.False(t, isSubset([]string{"b"}, nil))
}

func TestWithAndSortSets(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, with([]string{"a", "c"}, "b"))
	sets := [][]string{{"b", "c"}, {"z"}, {"a", "d"}, {"a"}}
	sortSets(sets)
	assert.Equal(t, [][]string{{"a"}, {"z"}, {"a", "d"}, {"b", "c"}}, sets)
	assert.True(t, containsLethal([]string{"a", "b", "z"}, [][]string{{"q"}, {"z"}}))
}

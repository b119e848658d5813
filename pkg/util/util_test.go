package util

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	got := Map([]string{"a", "b"}, func(s string, i uint64) string {
		return s + strconv.FormatUint(i, 10)
	})
	assert.Equal(t, []string{"a0", "b1"}, got)
	assert.Empty(t, Map([]int(nil), func(i int, _ uint64) int { return i }))
}

func TestFind(t *testing.T) {
	one, two := 1, 2
	coll := []*int{&one, &two}

	assert.Same(t, &two, Find(coll, func(i *int) bool { return *i == 2 }))
	assert.Nil(t, Find(coll, func(i *int) bool { return *i == 3 }))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]bool{"c": true, "a": false, "b": true}))
	assert.Empty(t, SortedKeys(map[uint64]string{}))
}

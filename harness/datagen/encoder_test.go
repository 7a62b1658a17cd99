package datagen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateWithinBound(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hello", Truncate("hello", 5))
}

func TestTruncateOverBound(t *testing.T) {
	long := strings.Repeat("x", 101)
	got := Truncate(long, 100)
	assert.Len(t, got, 100)
	assert.Equal(t, long[:100], got)
}

func TestTruncateBoundaries(t *testing.T) {
	s := strings.Repeat("a", 50)

	assert.Equal(t, s, Truncate(s, 50), "exactly at max")
	assert.Equal(t, s, Truncate(s, 51), "one under max")
	assert.Len(t, Truncate(s+"b", 50), 50, "one over max")
}

func TestTruncateEmptyAndZeroMax(t *testing.T) {
	assert.Equal(t, "", Truncate("", 10))
	assert.Equal(t, "", Truncate("anything", 0))
	assert.Equal(t, "", Truncate("anything", -1))
}

func TestTruncateMultibyte(t *testing.T) {
	s := strings.Repeat("é", 10)
	got := Truncate(s, 4)
	assert.Equal(t, 4, len([]rune(got)))
	assert.Equal(t, strings.Repeat("é", 4), got)
}

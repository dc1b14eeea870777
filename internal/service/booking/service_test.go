package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, dedupe([]int64{1, 2, 2, 3, 1}))
	assert.Equal(t, []int64{5}, dedupe([]int64{5, 5, 5}))
	assert.Empty(t, dedupe(nil))
}

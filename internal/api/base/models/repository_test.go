package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginateResult(t *testing.T) {
	r := NewPaginateResult([]int{1, 2, 3}, 2, 3, 7)
	assert.Equal(t, int64(3), r.TotalPage)
	assert.Equal(t, int64(3), r.ItemCount)

	empty := NewPaginateResult[int](nil, 1, 10, 0)
	assert.Equal(t, int64(0), empty.TotalPage)
	assert.NotNil(t, empty.Items)
}

func TestNormalizePage(t *testing.T) {
	p, l := NormalizePage(0, 0, 100)
	assert.Equal(t, int64(1), p)
	assert.Equal(t, int64(10), l)

	_, l = NormalizePage(3, 500, 100)
	assert.Equal(t, int64(100), l)
}

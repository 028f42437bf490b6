package util

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertList(t *testing.T) {
	got := ConvertList([]int{1, 2, 3}, strconv.Itoa)
	assert.Equal(t, []string{"1", "2", "3"}, got)
	assert.Empty(t, ConvertList([]int{}, strconv.Itoa))
}

func TestSliceIncludes(t *testing.T) {
	assert.True(t, SliceIncludes([]string{"a", "b"}, "b"))
	assert.False(t, SliceIncludes([]string{"a", "b"}, "c"))
}

func TestPtrVal(t *testing.T) {
	assert.Equal(t, 3, Val(Ptr(3)))
	assert.Equal(t, "", Val[string](nil))
	assert.Nil(t, NonEmpty(""))
	assert.Equal(t, "x", *NonEmpty("x"))
}

func TestNewRestyClientNeverRetries(t *testing.T) {
	c := NewRestyClient(3 * time.Second)
	assert.Equal(t, 0, c.RetryCount)
	assert.Equal(t, 3*time.Second, c.GetClient().Timeout)
}

func TestGetHistogramVecReusesRegistered(t *testing.T) {
	a, err := GetHistogramVec("util_test_duration_seconds", "op")
	require.NoError(t, err)
	b, err := GetHistogramVec("util_test_duration_seconds", "op")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

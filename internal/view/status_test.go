package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_VariantsAreExclusive(t *testing.T) {
	t.Parallel()

	idle := Idle[int]()
	assert.Equal(t, KindIdle, idle.Kind())
	assert.False(t, idle.IsLoading())

	loading := Loading[int]()
	assert.True(t, loading.IsLoading())
	_, failed := loading.Err()
	assert.False(t, failed)
	_, ready := loading.Value()
	assert.False(t, ready)

	errStatus := Failed[int]("boom")
	msg, ok := errStatus.Err()
	assert.True(t, ok)
	assert.Equal(t, "boom", msg)
	assert.False(t, errStatus.IsLoading())
	_, ready = errStatus.Value()
	assert.False(t, ready)

	readyStatus := Ready(42)
	value, ok := readyStatus.Value()
	assert.True(t, ok)
	assert.Equal(t, 42, value)
	_, failed = readyStatus.Err()
	assert.False(t, failed)
	assert.Equal(t, "ready", readyStatus.Kind().String())
}

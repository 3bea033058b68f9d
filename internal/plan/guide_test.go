package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendItem(t *testing.T) {
	list := []string{"oats"}
	out, err := AppendItem(list, "  toast ")
	require.NoError(t, err)
	assert.Equal(t, []string{"oats", "toast"}, out)
	assert.Equal(t, []string{"oats"}, list)

	_, err = AppendItem(list, "   ")
	assert.ErrorIs(t, err, ErrEmptyItem)
}

func TestReplaceItem(t *testing.T) {
	list := []string{"a", "b", "c"}
	out, err := ReplaceItem(list, 1, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "B", "c"}, out)
	assert.Equal(t, "b", list[1])

	same, err := ReplaceItem(list, 1, "")
	assert.ErrorIs(t, err, ErrEmptyItem)
	assert.Equal(t, list, same)

	_, err = ReplaceItem(list, 3, "d")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRemoveItemPreservesOrder(t *testing.T) {
	list := []string{"one", "two", "three", "four", "five"}
	out, err := RemoveItem(list, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "four", "five"}, out)
	assert.Len(t, list, 5)
	assert.Equal(t, "three", list[2])

	_, err = RemoveItem(list, 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = RemoveItem(nil, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

package plan

import (
	"errors"
	"fmt"
	"strings"

	"nutriplan/internal/types"
)

var (
	// ErrEmptyItem rejects blank food-guide entries.
	ErrEmptyItem = errors.New("food guide item is empty")
	// ErrIndexOutOfRange is returned for an index outside the list snapshot.
	ErrIndexOutOfRange = errors.New("food guide index out of range")
)

// AppendItem returns list with value appended. Whitespace is trimmed.
func AppendItem(list []string, value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return list, ErrEmptyItem
	}
	out := make([]string, len(list), len(list)+1)
	copy(out, list)
	return append(out, value), nil
}

// ReplaceItem returns list with the entry at index replaced.
func ReplaceItem(list []string, index int, value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return list, ErrEmptyItem
	}
	if index < 0 || index >= len(list) {
		return list, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(list))
	}
	out := make([]string, len(list))
	copy(out, list)
	out[index] = value
	return out, nil
}

// RemoveItem returns list without the entry at index; the remaining entries
// keep their relative order.
func RemoveItem(list []string, index int) ([]string, error) {
	if index < 0 || index >= len(list) {
		return list, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(list))
	}
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...), nil
}

// PendingRemoval is a food-guide deletion awaiting confirmation.
type PendingRemoval struct {
	Category types.GuideCategory
	Index    int
	Item     string // snapshot shown in the confirmation prompt
}

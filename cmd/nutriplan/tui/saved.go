package tui

import (
	"fmt"

	"nutriplan/internal/types"
)

// savedItem adapts a SavedPlan to list.Item.
type savedItem struct {
	plan types.SavedPlan
}

func (i savedItem) Title() string { return i.plan.Name }

func (i savedItem) Description() string {
	return fmt.Sprintf("%s · %s · %s", i.plan.CreatedAt.Local().Format("2006-01-02 15:04"), i.plan.Profile.Name, i.plan.Profile.Goal)
}

func (i savedItem) FilterValue() string { return i.plan.Name }

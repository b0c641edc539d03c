package store

import (
	"fmt"
	"sort"

	"github.com/user/mtd/internal/task"
)

// SortMode selects the presentation order of a task view. The set is
// closed; Sort panics on values outside it.
type SortMode int

const (
	// SortByCreated keeps the view in creation order.
	SortByCreated SortMode = iota
	// SortByPriority orders highest priority first, ties broken by
	// display index descending.
	SortByPriority
	// SortByPriorityReversed mirrors SortByPriority (priority ascending,
	// index ascending) for historic windows.
	SortByPriorityReversed
)

// View returns the tasks tagged with list, in creation order, with display
// indices reassigned 1..N within the view. An empty list name selects every
// task. The slice is fresh; the tasks are shared with the store.
func (s *Store) View(list string) []*task.Task {
	view := make([]*task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if list != "" && t.List != list {
			continue
		}
		view = append(view, t)
	}

	sort.SliceStable(view, func(i, j int) bool {
		return view[i].CreatedAt.Before(view[j].CreatedAt.Time)
	})
	for i, t := range view {
		t.DisplayIndex = i + 1
	}
	return view
}

// Sort reorders a view in place according to mode
func Sort(view []*task.Task, mode SortMode) {
	switch mode {
	case SortByCreated:
		// Views are built in creation order already.
	case SortByPriority:
		sort.SliceStable(view, func(i, j int) bool {
			if view[i].Priority != view[j].Priority {
				return view[i].Priority > view[j].Priority
			}
			return view[i].DisplayIndex > view[j].DisplayIndex
		})
	case SortByPriorityReversed:
		sort.SliceStable(view, func(i, j int) bool {
			if view[i].Priority != view[j].Priority {
				return view[i].Priority < view[j].Priority
			}
			return view[i].DisplayIndex < view[j].DisplayIndex
		})
	default:
		panic(fmt.Sprintf("unknown sort mode %d", mode))
	}
}

// Window returns the most recent n tasks of a view when n >= 0, or the
// oldest |n| tasks when n < 0.
func Window(view []*task.Task, n int) []*task.Task {
	if n >= 0 {
		if n > len(view) {
			n = len(view)
		}
		return view[len(view)-n:]
	}
	if -n > len(view) {
		n = -len(view)
	}
	return view[:-n]
}

// ResolveIndices maps 1-based positions onto valid positions within a view
// of the given length. Negative positions address from the end, -1 being
// the last task. Out-of-range positions are dropped from the result, not
// rejected; callers report "no tasks found" when nothing survives.
func ResolveIndices(indices []int, length int) []int {
	resolved := make([]int, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 {
			idx = length + idx + 1
		}
		if idx < 1 || idx > length {
			continue
		}
		resolved = append(resolved, idx)
	}
	return resolved
}

package reconcile

import (
	"errors"
	"fmt"

	"github.com/user/mtd/internal/store"
	"github.com/user/mtd/internal/task"
)

// ErrRemoteIntegrity marks a remote snapshot that violates the one-store
// invariant. Use errors.Is to detect it and errors.As with *IntegrityError
// for the offending ID.
var ErrRemoteIntegrity = errors.New("remote snapshot integrity violation")

// IntegrityError reports the task that appears in both remote stores
type IntegrityError struct {
	ID string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("task %s listed as both incomplete and completed in remote snapshot", e.ID)
}

func (e *IntegrityError) Unwrap() error {
	return ErrRemoteIntegrity
}

// Snapshot is one side's full task state
type Snapshot struct {
	Incomplete *store.Store
	Completed  *store.Store
}

// ActionKind says what the merge does with one task
type ActionKind int

const (
	// CompleteLocally moves an open local task to the completed store.
	CompleteLocally ActionKind = iota
	// AdoptCompleted inserts a remote completed task local has never seen.
	AdoptCompleted
	// AdoptIncomplete inserts a remote open task local has never seen.
	AdoptIncomplete
)

// Action pairs a task with the merge decision for it. For CompleteLocally
// the task is the local instance; for the adoptions it is the remote one,
// inserted verbatim.
type Action struct {
	Kind ActionKind
	Task *task.Task
}

// Describe returns the audit line for the action
func (a Action) Describe() string {
	switch a.Kind {
	case CompleteLocally:
		return fmt.Sprintf("Marking incomplete task as done: %q.", a.Task.Text)
	case AdoptCompleted:
		return fmt.Sprintf("Adding new completed task: %q.", a.Task.Text)
	case AdoptIncomplete:
		return fmt.Sprintf("Adding new incomplete task: %q.", a.Task.Text)
	default:
		panic(fmt.Sprintf("unknown action kind %d", a.Kind))
	}
}

// Outcome distinguishes a merge that changed local state from one that
// found nothing to do.
type Outcome int

const (
	// UpToDate means the plan was empty and local files were not touched.
	UpToDate Outcome = iota
	// Merged means at least one action was applied and persisted state
	// needs rewriting.
	Merged
)

func (o Outcome) String() string {
	if o == UpToDate {
		return "up to date"
	}
	return "merged"
}

// Plan computes the actions that bring local state into agreement with the
// remote snapshot. Neither side is mutated. Tasks local has completed stay
// completed regardless of the remote's view. A remote store that carries
// the same id on several lines plans one action for it, first record wins.
func Plan(local, remote Snapshot) ([]Action, error) {
	remoteIncomplete := remote.Incomplete.ByID()
	for _, t := range remote.Completed.Tasks() {
		if _, ok := remoteIncomplete[t.ID]; ok {
			return nil, &IntegrityError{ID: t.ID}
		}
	}

	localIncomplete := local.Incomplete.ByID()
	localCompleted := local.Completed.ByID()

	var actions []Action
	planned := make(map[string]bool)
	for _, t := range remote.Completed.Tasks() {
		if planned[t.ID] {
			continue
		}
		planned[t.ID] = true
		switch {
		case localIncomplete[t.ID] != nil:
			actions = append(actions, Action{Kind: CompleteLocally, Task: localIncomplete[t.ID]})
		case localCompleted[t.ID] == nil:
			actions = append(actions, Action{Kind: AdoptCompleted, Task: t})
		}
	}

	for _, t := range remote.Incomplete.Tasks() {
		if planned[t.ID] {
			continue
		}
		planned[t.ID] = true
		if localIncomplete[t.ID] == nil && localCompleted[t.ID] == nil {
			actions = append(actions, Action{Kind: AdoptIncomplete, Task: t})
		}
	}

	return actions, nil
}

// Apply executes a plan against the local stores: completions first, then
// adopted completed tasks, then adopted incomplete ones. Afterwards the
// completed store is restored to completion order and the incomplete store
// reindexed. An empty plan is a no-op.
func Apply(local Snapshot, actions []Action) Outcome {
	if len(actions) == 0 {
		return UpToDate
	}

	completing := make(map[string]bool)
	var adoptedCompleted, adoptedIncomplete []*task.Task
	for _, a := range actions {
		switch a.Kind {
		case CompleteLocally:
			completing[a.Task.ID] = true
		case AdoptCompleted:
			adoptedCompleted = append(adoptedCompleted, a.Task)
		case AdoptIncomplete:
			adoptedIncomplete = append(adoptedIncomplete, a.Task)
		}
	}

	if len(completing) > 0 {
		moved := local.Incomplete.RemoveByID(completing)
		for _, t := range moved {
			t.MarkCompleted()
		}
		local.Completed.Add(moved...)
	}

	local.Completed.Add(adoptedCompleted...)
	local.Incomplete.Add(adoptedIncomplete...)

	local.Completed.EnsureSorted()
	local.Incomplete.Reindex()

	return Merged
}

package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/user/mtd/internal/audit"
	"github.com/user/mtd/internal/config"
	"github.com/user/mtd/internal/store"
	"github.com/user/mtd/internal/task"
)

// printFormat selects how a task view is rendered. The set is closed;
// printTasks panics on values outside it.
type printFormat int

const (
	printSimple printFormat = iota
	printSimpleIndexed
	printVerbose
	printVerboseIndexed
)

// operator executes one user action over the task stores. Commands build a
// fresh operator per invocation; it never outlives a single run.
type operator struct {
	paths   config.Paths
	state   *config.State
	history *audit.Log
	out     io.Writer
	log     zerolog.Logger
}

// newOperator bootstraps the data layout and loads the list state
func newOperator() (*operator, error) {
	paths := config.DefaultPaths()
	if err := paths.EnsureLayout(); err != nil {
		return nil, fmt.Errorf("failed to prepare data layout: %w", err)
	}

	return &operator{
		paths:   paths,
		state:   config.LoadState(paths.StateFile()),
		history: audit.New(paths.HistoryLog()),
		out:     os.Stdout,
		log:     newLogger(),
	}, nil
}

// listFilter is the tag the current list selects. ALL filters nothing, and
// tasks created under it stay untagged so every list shows them.
func (o *operator) listFilter() string {
	if o.state.CurrentList == config.AllList {
		return ""
	}
	return o.state.CurrentList
}

func (o *operator) addTask(text string, priority task.Priority) error {
	s, err := store.Load(o.paths.IncompleteTasks(), o.log)
	if err != nil {
		return err
	}

	t := task.New(text, o.listFilter())
	t.Priority = priority
	s.Add(t)
	if err := s.Save(); err != nil {
		return err
	}

	o.report(fmt.Sprintf("Added task %q to %s.", text, o.state.CurrentList))
	return nil
}

func (o *operator) completeTasks(indices []int) error {
	s, err := store.Load(o.paths.IncompleteTasks(), o.log)
	if err != nil {
		return err
	}

	picked := o.pickIDs(s, indices)
	if len(picked) == 0 {
		fmt.Fprintln(o.out, "No tasks found with the specified indices.")
		return nil
	}

	removed := s.RemoveByID(picked)
	for _, t := range removed {
		t.MarkCompleted()
	}

	done, err := store.Load(o.paths.CompletedTasks(), o.log)
	if err != nil {
		return err
	}
	if err := done.Append(removed...); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	for _, t := range removed {
		o.report(fmt.Sprintf("Completed %q.", t.Text))
	}
	return nil
}

func (o *operator) deleteTasks(indices []int) error {
	s, err := store.Load(o.paths.IncompleteTasks(), o.log)
	if err != nil {
		return err
	}

	picked := o.pickIDs(s, indices)
	if len(picked) == 0 {
		fmt.Fprintln(o.out, "No tasks found with the specified indices.")
		return nil
	}

	removed := s.RemoveByID(picked)
	if err := s.Save(); err != nil {
		return err
	}

	for _, t := range removed {
		o.report(fmt.Sprintf("Deleted task %q.", t.Text))
	}
	return nil
}

func (o *operator) setPriority(index int, value task.Priority) error {
	s, err := store.Load(o.paths.IncompleteTasks(), o.log)
	if err != nil {
		return err
	}

	view := s.View(o.listFilter())
	resolved := store.ResolveIndices([]int{index}, len(view))
	if len(resolved) == 0 {
		fmt.Fprintln(o.out, "No tasks found with the specified indices.")
		return nil
	}

	t := view[resolved[0]-1]
	t.Priority = value
	if err := s.Save(); err != nil {
		return err
	}

	o.report(fmt.Sprintf("Set priority of %q to %d.", t.Text, value))
	return nil
}

// pickIDs resolves displayed indices against the current list view and
// returns the matching task IDs.
func (o *operator) pickIDs(s *store.Store, indices []int) map[string]bool {
	view := s.View(o.listFilter())
	resolved := store.ResolveIndices(indices, len(view))

	ids := make(map[string]bool, len(resolved))
	for _, idx := range resolved {
		ids[view[idx-1].ID] = true
	}
	return ids
}

func (o *operator) listIncomplete(detailed, byPriority bool) error {
	s, err := store.Load(o.paths.IncompleteTasks(), o.log)
	if err != nil {
		return err
	}

	view := s.View(o.listFilter())
	if byPriority {
		store.Sort(view, store.SortByPriority)
	}

	fmt.Fprintf(o.out, "%s *\n", o.state.CurrentList)
	o.printTasks(view, indexedFormat(detailed))
	return nil
}

func (o *operator) listCompleted(n int, all, detailed, byPriority bool) error {
	s, err := store.Load(o.paths.CompletedTasks(), o.log)
	if err != nil {
		return err
	}

	view := s.View(o.listFilter())
	if !all {
		view = store.Window(view, n)
	}
	if byPriority {
		mode := store.SortByPriority
		if !all && n < 0 {
			mode = store.SortByPriorityReversed
		}
		store.Sort(view, mode)
	}

	o.printTasks(view, indexedFormat(detailed))
	return nil
}

func (o *operator) viewLog(all bool) error {
	entries, err := o.history.Tail(5, all)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(o.out, "No log file found.")
			return nil
		}
		return err
	}

	for _, entry := range entries {
		fmt.Fprintln(o.out, entry)
	}
	return nil
}

func (o *operator) showLists() error {
	s, err := store.Load(o.paths.IncompleteTasks(), o.log)
	if err != nil {
		return err
	}

	names := append([]string{config.AllList}, o.state.AdditionalLists...)

	counts := make(map[string]int)
	for _, t := range s.Tasks() {
		if t.List != "" {
			counts[t.List]++
		}
	}
	counts[config.AllList] = s.Len()

	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	for _, name := range names {
		marker := ""
		if name == o.state.CurrentList {
			marker = " *"
		}
		plural := "s"
		if counts[name] == 1 {
			plural = ""
		}
		fmt.Fprintf(o.out, "%-*s (%d task%s)%s\n", width, name, counts[name], plural, marker)
	}
	return nil
}

func (o *operator) createList(name string) error {
	name = strings.ToUpper(name)

	if config.IsReservedList(name) {
		fmt.Fprintf(o.out, "%q is a reserved list name and cannot be created.\n", name)
		return nil
	}
	if o.state.HasList(name) {
		fmt.Fprintf(o.out, "List %q already exists.\n", name)
		return nil
	}

	o.state.AddList(name)
	if err := o.state.Save(o.paths.StateFile()); err != nil {
		return err
	}

	o.report(fmt.Sprintf("Created list %q.", name))
	return nil
}

func (o *operator) deleteList(name string) error {
	name = strings.ToUpper(name)

	if config.IsReservedList(name) {
		fmt.Fprintf(o.out, "%q is a reserved list and cannot be deleted.\n", name)
		return nil
	}
	if !o.state.HasList(name) {
		fmt.Fprintf(o.out, "List %q does not exist.\n", name)
		return nil
	}

	s, err := store.Load(o.paths.IncompleteTasks(), o.log)
	if err != nil {
		return err
	}

	ids := make(map[string]bool)
	for _, t := range s.Tasks() {
		if t.List == name {
			ids[t.ID] = true
		}
	}
	removed := 0
	if len(ids) > 0 {
		dropped := s.RemoveByID(ids)
		removed = len(dropped)
		if err := s.Save(); err != nil {
			return err
		}
		for _, t := range dropped {
			o.report(fmt.Sprintf("Deleted task %q.", t.Text))
		}
	}

	o.state.RemoveList(name)
	if err := o.state.Save(o.paths.StateFile()); err != nil {
		return err
	}

	plural := "s"
	if removed == 1 {
		plural = ""
	}
	o.report(fmt.Sprintf("Deleted list %q and %d task%s.", name, removed, plural))
	return nil
}

func (o *operator) checkout(name string) error {
	name = strings.ToUpper(name)

	if !o.state.HasList(name) {
		fmt.Fprintf(o.out, "List %q does not exist. Please use `mtd lists new %q` to create it.\n", name, name)
		return nil
	}

	o.state.CurrentList = name
	if err := o.state.Save(o.paths.StateFile()); err != nil {
		return err
	}

	o.report(fmt.Sprintf("Switched to list %q.", name))
	return nil
}

// printTasks renders a view, numbering tasks by display position
func (o *operator) printTasks(view []*task.Task, format printFormat) {
	if len(view) == 0 {
		fmt.Fprintln(o.out, "No tasks to show.")
		return
	}

	for i, t := range view {
		var line string
		switch format {
		case printSimple:
			line = t.Text
		case printSimpleIndexed:
			line = fmt.Sprintf("%d. %s", i+1, t.Text)
		case printVerbose:
			line = t.Detail()
		case printVerboseIndexed:
			line = fmt.Sprintf("%d. %s", i+1, t.Detail())
		default:
			panic(fmt.Sprintf("unknown print format %d", format))
		}
		fmt.Fprintln(o.out, line)
	}
}

func indexedFormat(detailed bool) printFormat {
	if detailed {
		return printVerboseIndexed
	}
	return printSimpleIndexed
}

// report prints a user-facing line and records it in the history log
func (o *operator) report(message string) {
	fmt.Fprintln(o.out, message)
	if err := o.history.Record(message); err != nil {
		o.log.Warn().Err(err).Msg("failed to record history entry")
	}
}

func parseIndices(args []string) ([]int, error) {
	indices := make([]int, 0, len(args))
	for _, arg := range args {
		idx, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", arg)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

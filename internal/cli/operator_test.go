package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/user/mtd/internal/audit"
	"github.com/user/mtd/internal/config"
	"github.com/user/mtd/internal/store"
	"github.com/user/mtd/internal/task"
)

func testOperator(t *testing.T) (*operator, *bytes.Buffer) {
	t.Helper()
	base := t.TempDir()
	paths := config.Paths{
		ConfigDir: filepath.Join(base, "config"),
		DataDir:   filepath.Join(base, "data"),
	}
	if err := paths.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout failed: %v", err)
	}

	out := &bytes.Buffer{}
	return &operator{
		paths:   paths,
		state:   config.LoadState(paths.StateFile()),
		history: audit.New(paths.HistoryLog()),
		out:     out,
		log:     zerolog.New(io.Discard),
	}, out
}

func loadTasks(t *testing.T, path string) *store.Store {
	t.Helper()
	s, err := store.Load(path, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}
	return s
}

func TestAddTask(t *testing.T) {
	op, out := testOperator(t)

	if err := op.addTask("buy milk", task.PriorityUnset); err != nil {
		t.Fatalf("addTask failed: %v", err)
	}

	if !strings.Contains(out.String(), `Added task "buy milk" to ALL.`) {
		t.Errorf("Unexpected output: %q", out.String())
	}

	s := loadTasks(t, op.paths.IncompleteTasks())
	if s.Len() != 1 {
		t.Fatalf("Expected 1 task, got %d", s.Len())
	}
	if s.Tasks()[0].Text != "buy milk" {
		t.Errorf("Expected task text %q, got %q", "buy milk", s.Tasks()[0].Text)
	}
	if s.Tasks()[0].List != "" {
		t.Errorf("Expected task created under ALL to stay untagged, got %q", s.Tasks()[0].List)
	}

	history, err := os.ReadFile(op.paths.HistoryLog())
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if !strings.Contains(string(history), `Added task "buy milk" to ALL.`) {
		t.Errorf("Expected history entry, got %q", string(history))
	}
}

func TestAddTaskOnNamedList(t *testing.T) {
	op, out := testOperator(t)

	if err := op.createList("errands"); err != nil {
		t.Fatalf("createList failed: %v", err)
	}
	if err := op.checkout("errands"); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if err := op.addTask("buy milk", task.PriorityUnset); err != nil {
		t.Fatalf("addTask failed: %v", err)
	}

	if !strings.Contains(out.String(), `Added task "buy milk" to ERRANDS.`) {
		t.Errorf("Unexpected output: %q", out.String())
	}

	s := loadTasks(t, op.paths.IncompleteTasks())
	if s.Tasks()[0].List != "ERRANDS" {
		t.Errorf("Expected task tagged ERRANDS, got %q", s.Tasks()[0].List)
	}
}

func TestCompleteTasks(t *testing.T) {
	op, out := testOperator(t)

	for _, text := range []string{"first", "second", "third"} {
		if err := op.addTask(text, task.PriorityUnset); err != nil {
			t.Fatalf("addTask failed: %v", err)
		}
	}

	if err := op.completeTasks([]int{2}); err != nil {
		t.Fatalf("completeTasks failed: %v", err)
	}

	if !strings.Contains(out.String(), `Completed "second".`) {
		t.Errorf("Unexpected output: %q", out.String())
	}

	incomplete := loadTasks(t, op.paths.IncompleteTasks())
	if incomplete.Len() != 2 {
		t.Fatalf("Expected 2 incomplete tasks, got %d", incomplete.Len())
	}
	for _, remaining := range incomplete.Tasks() {
		if remaining.Text == "second" {
			t.Error("Expected completed task to leave the incomplete store")
		}
	}

	completed := loadTasks(t, op.paths.CompletedTasks())
	if completed.Len() != 1 {
		t.Fatalf("Expected 1 completed task, got %d", completed.Len())
	}
	if !completed.Tasks()[0].Completed() {
		t.Error("Expected completed task to carry a completion stamp")
	}
}

func TestCompleteTasksNegativeIndex(t *testing.T) {
	op, out := testOperator(t)

	for _, text := range []string{"first", "second", "third"} {
		if err := op.addTask(text, task.PriorityUnset); err != nil {
			t.Fatalf("addTask failed: %v", err)
		}
	}

	if err := op.completeTasks([]int{-1}); err != nil {
		t.Fatalf("completeTasks failed: %v", err)
	}

	if !strings.Contains(out.String(), `Completed "third".`) {
		t.Errorf("Expected -1 to complete the last task, got %q", out.String())
	}
}

func TestCompleteTasksNoMatch(t *testing.T) {
	op, out := testOperator(t)

	if err := op.addTask("only", task.PriorityUnset); err != nil {
		t.Fatalf("addTask failed: %v", err)
	}

	if err := op.completeTasks([]int{99}); err != nil {
		t.Fatalf("completeTasks failed: %v", err)
	}

	if !strings.Contains(out.String(), "No tasks found with the specified indices.") {
		t.Errorf("Unexpected output: %q", out.String())
	}

	incomplete := loadTasks(t, op.paths.IncompleteTasks())
	if incomplete.Len() != 1 {
		t.Errorf("Expected store untouched, got %d tasks", incomplete.Len())
	}
}

func TestDeleteTasks(t *testing.T) {
	op, out := testOperator(t)

	for _, text := range []string{"first", "second"} {
		if err := op.addTask(text, task.PriorityUnset); err != nil {
			t.Fatalf("addTask failed: %v", err)
		}
	}

	if err := op.deleteTasks([]int{1}); err != nil {
		t.Fatalf("deleteTasks failed: %v", err)
	}

	if !strings.Contains(out.String(), `Deleted task "first".`) {
		t.Errorf("Unexpected output: %q", out.String())
	}

	incomplete := loadTasks(t, op.paths.IncompleteTasks())
	if incomplete.Len() != 1 {
		t.Fatalf("Expected 1 task after delete, got %d", incomplete.Len())
	}
	if incomplete.Tasks()[0].Text != "second" {
		t.Errorf("Expected %q to survive, got %q", "second", incomplete.Tasks()[0].Text)
	}

	completed := loadTasks(t, op.paths.CompletedTasks())
	if completed.Len() != 0 {
		t.Error("Expected deletion to bypass the completed store")
	}
}

func TestSetPriority(t *testing.T) {
	op, out := testOperator(t)

	if err := op.addTask("first", task.PriorityUnset); err != nil {
		t.Fatalf("addTask failed: %v", err)
	}

	if err := op.setPriority(1, 3); err != nil {
		t.Fatalf("setPriority failed: %v", err)
	}

	if !strings.Contains(out.String(), `Set priority of "first" to 3.`) {
		t.Errorf("Unexpected output: %q", out.String())
	}

	s := loadTasks(t, op.paths.IncompleteTasks())
	if s.Tasks()[0].Priority != 3 {
		t.Errorf("Expected priority 3, got %d", s.Tasks()[0].Priority)
	}
}

func TestListIncomplete(t *testing.T) {
	op, out := testOperator(t)

	for _, text := range []string{"first", "second"} {
		if err := op.addTask(text, task.PriorityUnset); err != nil {
			t.Fatalf("addTask failed: %v", err)
		}
	}
	out.Reset()

	if err := op.listIncomplete(false, false); err != nil {
		t.Fatalf("listIncomplete failed: %v", err)
	}

	expected := []string{"ALL *", "1. first", "2. second"}
	for _, line := range expected {
		if !strings.Contains(out.String(), line) {
			t.Errorf("Expected output to contain %q, got %q", line, out.String())
		}
	}
}

func TestListIncompleteEmpty(t *testing.T) {
	op, out := testOperator(t)

	if err := op.listIncomplete(false, false); err != nil {
		t.Fatalf("listIncomplete failed: %v", err)
	}

	if !strings.Contains(out.String(), "No tasks to show.") {
		t.Errorf("Unexpected output: %q", out.String())
	}
}

func TestListIncompleteVerbose(t *testing.T) {
	op, out := testOperator(t)

	if err := op.addTask("first", task.PriorityUnset); err != nil {
		t.Fatalf("addTask failed: %v", err)
	}
	out.Reset()

	if err := op.listIncomplete(true, false); err != nil {
		t.Fatalf("listIncomplete failed: %v", err)
	}

	if !strings.Contains(out.String(), "1. Task: first - Start Time: ") {
		t.Errorf("Expected verbose rendering, got %q", out.String())
	}
}

func TestListIncompleteByPriority(t *testing.T) {
	op, out := testOperator(t)

	s := loadTasks(t, op.paths.IncompleteTasks())
	low := task.New("low", "")
	low.Priority = 1
	high := task.New("high", "")
	high.Priority = 4
	mid := task.New("mid", "")
	mid.Priority = 2
	s.Add(low, high, mid)
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := op.listIncomplete(false, true); err != nil {
		t.Fatalf("listIncomplete failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	expected := []string{"ALL *", "1. high", "2. mid", "3. low"}
	if len(lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %d: %q", len(expected), len(lines), out.String())
	}
	for i, line := range expected {
		if lines[i] != line {
			t.Errorf("Line %d: expected %q, got %q", i, line, lines[i])
		}
	}
}

func completedAt(t *testing.T, text, created, done string) *task.Task {
	t.Helper()
	tk := task.New(text, "")
	start, err := task.ParseStamp(created)
	if err != nil {
		t.Fatalf("bad created stamp: %v", err)
	}
	tk.CreatedAt = start
	end, err := task.ParseStamp(done)
	if err != nil {
		t.Fatalf("bad completion stamp: %v", err)
	}
	tk.CompletedAt = &end
	return tk
}

func TestListCompletedWindows(t *testing.T) {
	op, out := testOperator(t)

	s := loadTasks(t, op.paths.CompletedTasks())
	s.Add(
		completedAt(t, "oldest", "09:00 01-01-25", "10:00 01-01-25"),
		completedAt(t, "middle", "09:00 02-01-25", "10:00 02-01-25"),
		completedAt(t, "newest", "09:00 03-01-25", "10:00 03-01-25"),
	)
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := op.listCompleted(2, false, false, false); err != nil {
		t.Fatalf("listCompleted failed: %v", err)
	}
	if strings.Contains(out.String(), "oldest") {
		t.Errorf("Expected recent window to drop the oldest task, got %q", out.String())
	}
	if !strings.Contains(out.String(), "1. middle") || !strings.Contains(out.String(), "2. newest") {
		t.Errorf("Unexpected recent window: %q", out.String())
	}

	out.Reset()
	if err := op.listCompleted(-1, false, false, false); err != nil {
		t.Fatalf("listCompleted failed: %v", err)
	}
	if !strings.Contains(out.String(), "1. oldest") || strings.Contains(out.String(), "newest") {
		t.Errorf("Unexpected historic window: %q", out.String())
	}

	out.Reset()
	if err := op.listCompleted(5, true, false, false); err != nil {
		t.Fatalf("listCompleted failed: %v", err)
	}
	for _, text := range []string{"oldest", "middle", "newest"} {
		if !strings.Contains(out.String(), text) {
			t.Errorf("Expected --all to show %q, got %q", text, out.String())
		}
	}
}

func TestViewLog(t *testing.T) {
	op, out := testOperator(t)

	for _, text := range []string{"one", "two", "three"} {
		if err := op.addTask(text, task.PriorityUnset); err != nil {
			t.Fatalf("addTask failed: %v", err)
		}
	}
	out.Reset()

	if err := op.viewLog(false); err != nil {
		t.Fatalf("viewLog failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 log lines, got %d: %q", len(lines), out.String())
	}
	if !strings.Contains(lines[0], `"three"`) {
		t.Errorf("Expected most recent entry first, got %q", lines[0])
	}
}

func TestViewLogMissingFile(t *testing.T) {
	op, out := testOperator(t)

	if err := os.Remove(op.paths.HistoryLog()); err != nil {
		t.Fatalf("Failed to remove history: %v", err)
	}

	if err := op.viewLog(false); err != nil {
		t.Fatalf("viewLog failed: %v", err)
	}

	if !strings.Contains(out.String(), "No log file found.") {
		t.Errorf("Unexpected output: %q", out.String())
	}
}

func TestShowLists(t *testing.T) {
	op, out := testOperator(t)

	if err := op.createList("errands"); err != nil {
		t.Fatalf("createList failed: %v", err)
	}
	if err := op.checkout("errands"); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if err := op.addTask("buy milk", task.PriorityUnset); err != nil {
		t.Fatalf("addTask failed: %v", err)
	}
	out.Reset()

	if err := op.showLists(); err != nil {
		t.Fatalf("showLists failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lists, got %d: %q", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "ALL") || !strings.Contains(lines[0], "(1 task)") {
		t.Errorf("Unexpected ALL line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "ERRANDS (1 task) *") {
		t.Errorf("Expected current list marked, got %q", lines[1])
	}
}

func TestCreateListReserved(t *testing.T) {
	op, out := testOperator(t)

	if err := op.createList("all"); err != nil {
		t.Fatalf("createList failed: %v", err)
	}

	if !strings.Contains(out.String(), `"ALL" is a reserved list name and cannot be created.`) {
		t.Errorf("Unexpected output: %q", out.String())
	}
	if len(op.state.AdditionalLists) != 0 {
		t.Errorf("Expected no lists registered, got %v", op.state.AdditionalLists)
	}
}

func TestCreateListDuplicate(t *testing.T) {
	op, out := testOperator(t)

	if err := op.createList("errands"); err != nil {
		t.Fatalf("createList failed: %v", err)
	}
	out.Reset()

	if err := op.createList("ERRANDS"); err != nil {
		t.Fatalf("createList failed: %v", err)
	}

	if !strings.Contains(out.String(), `List "ERRANDS" already exists.`) {
		t.Errorf("Unexpected output: %q", out.String())
	}
}

func TestDeleteListRemovesTasks(t *testing.T) {
	op, out := testOperator(t)

	if err := op.createList("errands"); err != nil {
		t.Fatalf("createList failed: %v", err)
	}
	if err := op.checkout("errands"); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	for _, text := range []string{"buy milk", "post letter"} {
		if err := op.addTask(text, task.PriorityUnset); err != nil {
			t.Fatalf("addTask failed: %v", err)
		}
	}
	out.Reset()

	if err := op.deleteList("errands"); err != nil {
		t.Fatalf("deleteList failed: %v", err)
	}

	for _, line := range []string{`Deleted task "buy milk".`, `Deleted task "post letter".`} {
		if !strings.Contains(out.String(), line) {
			t.Errorf("Expected output to contain %q, got %q", line, out.String())
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(out.String()), `Deleted list "ERRANDS" and 2 tasks.`) {
		t.Errorf("Expected the summary last, got %q", out.String())
	}
	if op.state.CurrentList != config.AllList {
		t.Errorf("Expected current list reset to ALL, got %q", op.state.CurrentList)
	}

	s := loadTasks(t, op.paths.IncompleteTasks())
	if s.Len() != 0 {
		t.Errorf("Expected the list's tasks deleted, got %d", s.Len())
	}
}

func TestDeleteListReserved(t *testing.T) {
	op, out := testOperator(t)

	if err := op.deleteList("ALL"); err != nil {
		t.Fatalf("deleteList failed: %v", err)
	}

	if !strings.Contains(out.String(), `"ALL" is a reserved list and cannot be deleted.`) {
		t.Errorf("Unexpected output: %q", out.String())
	}
}

func TestCheckoutUnknownList(t *testing.T) {
	op, out := testOperator(t)

	if err := op.checkout("nope"); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if !strings.Contains(out.String(), `List "NOPE" does not exist.`) {
		t.Errorf("Unexpected output: %q", out.String())
	}
	if !strings.Contains(out.String(), "mtd lists new") {
		t.Errorf("Expected a creation hint, got %q", out.String())
	}
	if op.state.CurrentList != config.AllList {
		t.Errorf("Expected current list unchanged, got %q", op.state.CurrentList)
	}
}

func TestCheckoutPersists(t *testing.T) {
	op, out := testOperator(t)

	if err := op.createList("errands"); err != nil {
		t.Fatalf("createList failed: %v", err)
	}
	if err := op.checkout("errands"); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if !strings.Contains(out.String(), `Switched to list "ERRANDS".`) {
		t.Errorf("Unexpected output: %q", out.String())
	}

	reloaded := config.LoadState(op.paths.StateFile())
	if reloaded.CurrentList != "ERRANDS" {
		t.Errorf("Expected persisted current list ERRANDS, got %q", reloaded.CurrentList)
	}
}

func TestTasksStayOnTheirList(t *testing.T) {
	op, out := testOperator(t)

	if err := op.addTask("everywhere", task.PriorityUnset); err != nil {
		t.Fatalf("addTask failed: %v", err)
	}
	if err := op.createList("errands"); err != nil {
		t.Fatalf("createList failed: %v", err)
	}
	if err := op.checkout("errands"); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if err := op.addTask("buy milk", task.PriorityUnset); err != nil {
		t.Fatalf("addTask failed: %v", err)
	}
	out.Reset()

	if err := op.listIncomplete(false, false); err != nil {
		t.Fatalf("listIncomplete failed: %v", err)
	}
	if strings.Contains(out.String(), "everywhere") {
		t.Errorf("Expected ERRANDS view to hide untagged tasks, got %q", out.String())
	}
	if !strings.Contains(out.String(), "1. buy milk") {
		t.Errorf("Expected ERRANDS task listed, got %q", out.String())
	}

	out.Reset()
	if err := op.checkout("ALL"); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	out.Reset()
	if err := op.listIncomplete(false, false); err != nil {
		t.Fatalf("listIncomplete failed: %v", err)
	}
	for _, line := range []string{"1. everywhere", "2. buy milk"} {
		if !strings.Contains(out.String(), line) {
			t.Errorf("Expected ALL view to contain %q, got %q", line, out.String())
		}
	}
}

func TestParseIndices(t *testing.T) {
	indices, err := parseIndices([]string{"1", "-2", "3"})
	if err != nil {
		t.Fatalf("parseIndices failed: %v", err)
	}
	if len(indices) != 3 || indices[0] != 1 || indices[1] != -2 || indices[2] != 3 {
		t.Errorf("Unexpected indices: %v", indices)
	}

	if _, err := parseIndices([]string{"two"}); err == nil {
		t.Error("Expected an error for a non-numeric index")
	}
}

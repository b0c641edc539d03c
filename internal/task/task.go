package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StampLayout is the canonical minute-precision timestamp layout used for
// task records and audit log lines.
const StampLayout = "15:04 02-01-06"

// Stamp is a minute-precision local-time timestamp that serializes as
// "HH:MM DD-MM-YY". Minted and parsed stamps share the local zone, so
// wall-clock order and instant order agree.
type Stamp struct {
	time.Time
}

// Now returns the current time truncated to the minute
func Now() Stamp {
	return Stamp{time.Now().Truncate(time.Minute)}
}

// ParseStamp parses a timestamp in the canonical layout
func ParseStamp(raw string) (Stamp, error) {
	t, err := time.ParseInLocation(StampLayout, raw, time.Local)
	if err != nil {
		return Stamp{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return Stamp{t}, nil
}

func (s Stamp) String() string {
	return s.Format(StampLayout)
}

func (s Stamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Format(StampLayout))
}

func (s *Stamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = Stamp{}
		return nil
	}
	parsed, err := ParseStamp(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Priority ranks a task from 1 (lowest) to 4 (highest). Zero means unset.
type Priority int

const (
	PriorityUnset Priority = 0
	PriorityMin   Priority = 1
	PriorityMax   Priority = 4
)

// Valid reports whether the priority is unset or within bounds
func (p Priority) Valid() bool {
	return p == PriorityUnset || (p >= PriorityMin && p <= PriorityMax)
}

// Task represents a single to-do item. The ID is the join key between the
// local and remote views of a task and never changes after assignment.
type Task struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	CreatedAt   Stamp    `json:"created_at"`
	CompletedAt *Stamp   `json:"completed_at,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	List        string   `json:"list,omitempty"`

	// DisplayIndex is the 1-based position within the currently displayed
	// collection. Recomputed on every load and listing, never persisted.
	DisplayIndex int `json:"-"`
}

// New creates a task with a fresh ID and creation stamp
func New(text, list string) *Task {
	return &Task{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: Now(),
		List:      list,
	}
}

// Completed reports whether the task has a completion stamp
func (t *Task) Completed() bool {
	return t.CompletedAt != nil
}

// MarkCompleted stamps the task with the current time. Completion is a
// one-way transition: a task that is already completed keeps its stamp.
func (t *Task) MarkCompleted() {
	if t.CompletedAt != nil {
		return
	}
	now := Now()
	t.CompletedAt = &now
}

// EnsureID assigns a fresh ID to legacy records that lack one.
// Returns true if an ID was assigned.
func (t *Task) EnsureID() bool {
	if t.ID != "" {
		return false
	}
	t.ID = uuid.New().String()
	return true
}

// Detail returns the verbose single-line rendering of the task
func (t *Task) Detail() string {
	parts := []string{fmt.Sprintf("Task: %s", t.Text)}
	if !t.CreatedAt.IsZero() {
		parts = append(parts, fmt.Sprintf("Start Time: %s", t.CreatedAt))
	}
	if t.CompletedAt != nil {
		parts = append(parts, fmt.Sprintf("End Time: %s", t.CompletedAt))
	}
	if t.Priority != PriorityUnset {
		parts = append(parts, fmt.Sprintf("Priority: %d", t.Priority))
	}
	return strings.Join(parts, " - ")
}

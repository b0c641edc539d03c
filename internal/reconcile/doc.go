// Package reconcile merges a decrypted remote task snapshot into the local
// task stores.
//
// # Model
//
// Both sides are a pair of stores: incomplete tasks and completed tasks,
// joined by task ID. Plan compares the four collections and produces the
// minimal set of actions that brings local state into agreement with what
// the remote knows:
//
//   - complete-locally: remote says done, local still has it open. The task
//     moves to the local completed store with a fresh stamp, since the
//     completion time records when this machine learned of it.
//   - adopt-completed: remote has a completed task local has never seen.
//     Inserted verbatim.
//   - adopt-incomplete: remote has an open task local has never seen.
//     Inserted verbatim.
//
// A task local has already completed never reopens, whatever the remote
// says. Completion is a one-way ratchet.
//
// # Integrity
//
// A remote snapshot that lists the same ID as both incomplete and completed
// is corrupt. Plan refuses to guess which side wins and returns an
// IntegrityError wrapping ErrRemoteIntegrity.
//
// # Determinism
//
// Plan reads frozen views of the local stores, so the final state does not
// depend on iteration order; only the order of audit lines follows the
// remote record order. Remote records sharing an id collapse to a single
// action, first record wins. An empty plan means the stores already agree,
// and callers skip persisting entirely.
package reconcile

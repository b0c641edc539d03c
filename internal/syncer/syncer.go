// Package syncer orchestrates the encrypted sync between the local task
// stores and the remote object store: download, decrypt, reconcile,
// persist, then re-encrypt and upload.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fernet/fernet-go"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/user/mtd/internal/audit"
	"github.com/user/mtd/internal/config"
	"github.com/user/mtd/internal/encryption"
	"github.com/user/mtd/internal/reconcile"
	"github.com/user/mtd/internal/remote"
	"github.com/user/mtd/internal/store"
)

// ErrNotConfigured means the encryption passphrase or the remote is not set
// up. The user-facing message is printed before this is returned; callers
// treat it as a normal outcome of an unconfigured install, not a failure.
var ErrNotConfigured = errors.New("sync is not configured")

// ErrLocked means another invocation holds the sync lock
var ErrLocked = errors.New("another sync operation is running")

// Stage is the coordinator's position in the linear sync pipeline
type Stage int

const (
	StageIdle Stage = iota
	StageDownloading
	StageDecrypting
	StageReconciling
	StagePersisting
	StageEncrypting
	StageUploading
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageDownloading:
		return "downloading"
	case StageDecrypting:
		return "decrypting"
	case StageReconciling:
		return "reconciling"
	case StagePersisting:
		return "persisting"
	case StageEncrypting:
		return "encrypting"
	case StageUploading:
		return "uploading"
	case StageDone:
		return "done"
	default:
		panic(fmt.Sprintf("unknown stage %d", int(s)))
	}
}

// Options collects the coordinator's collaborators
type Options struct {
	Paths   config.Paths
	Objects config.SyncConfig
	Remote  remote.Store
	Key     *fernet.Key
	History *audit.Log
	Out     io.Writer
	Logger  zerolog.Logger
}

// Coordinator runs pull, push, and sync over the local stores. One
// coordinator serves one invocation; it is not safe for concurrent use.
type Coordinator struct {
	paths   config.Paths
	objects config.SyncConfig
	remote  remote.Store
	key     *fernet.Key
	history *audit.Log
	out     io.Writer
	log     zerolog.Logger
	stage   Stage
}

// New builds a coordinator. A nil key means the passphrase is unset and
// every operation reports that instead of running.
func New(opts Options) *Coordinator {
	return &Coordinator{
		paths:   opts.Paths,
		objects: opts.Objects,
		remote:  opts.Remote,
		key:     opts.Key,
		history: opts.History,
		out:     opts.Out,
		log:     opts.Logger,
		stage:   StageIdle,
	}
}

// Stage returns the coordinator's current pipeline position
func (c *Coordinator) Stage() Stage {
	return c.stage
}

// Pull downloads the remote snapshot, merges it into the local stores, and
// persists the result. Local files are untouched when any stage fails.
func (c *Coordinator) Pull(ctx context.Context) error {
	return c.withLock(func() error { return c.pull(ctx) })
}

// Push encrypts the current local stores and uploads them. No
// reconciliation happens on push.
func (c *Coordinator) Push(ctx context.Context) error {
	return c.withLock(func() error { return c.push(ctx) })
}

// Sync runs Pull, then Push only if the pull succeeded, attributing the
// failed half when one aborts.
func (c *Coordinator) Sync(ctx context.Context) error {
	return c.withLock(func() error {
		if err := c.pull(ctx); err != nil {
			c.report("Aborted synchronization due to failed pull.")
			return err
		}
		if err := c.push(ctx); err != nil {
			c.report("Aborted synchronization due to failed push.")
			return err
		}
		c.report("Successfully synchronized!")
		return nil
	})
}

// withLock holds an exclusive file lock for the whole operation so two
// invocations cannot interleave store writes.
func (c *Coordinator) withLock(fn func() error) error {
	lock := flock.New(c.paths.LockFile())

	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer lock.Unlock()

	return fn()
}

func (c *Coordinator) pull(ctx context.Context) error {
	if c.key == nil {
		fmt.Fprintln(c.out, "Encryption password not set. Cannot pull from remote.")
		return ErrNotConfigured
	}

	c.setStage(StageDownloading)
	incompleteCipher, err := c.remote.Download(ctx, c.objects.IncompleteObject)
	if err != nil {
		return c.downloadFailed(err)
	}
	completedCipher, err := c.remote.Download(ctx, c.objects.CompletedObject)
	if err != nil {
		return c.downloadFailed(err)
	}

	c.setStage(StageDecrypting)
	incompletePlain, err := encryption.Decrypt(incompleteCipher, c.key)
	if err != nil {
		c.report("Failed to decrypt encrypted files. Invalid password or corrupt data.")
		return fmt.Errorf("failed to decrypt %s: %w", c.objects.IncompleteObject, err)
	}
	completedPlain, err := encryption.Decrypt(completedCipher, c.key)
	if err != nil {
		c.report("Failed to decrypt encrypted files. Invalid password or corrupt data.")
		return fmt.Errorf("failed to decrypt %s: %w", c.objects.CompletedObject, err)
	}

	c.setStage(StageReconciling)
	remoteIncomplete, err := store.Parse(incompletePlain, c.log)
	if err != nil {
		return fmt.Errorf("failed to parse remote snapshot: %w", err)
	}
	remoteCompleted, err := store.Parse(completedPlain, c.log)
	if err != nil {
		return fmt.Errorf("failed to parse remote snapshot: %w", err)
	}

	local, err := c.loadLocal()
	if err != nil {
		return err
	}
	remoteSnapshot := reconcile.Snapshot{Incomplete: remoteIncomplete, Completed: remoteCompleted}

	plan, err := reconcile.Plan(local, remoteSnapshot)
	if err != nil {
		c.report("Remote snapshot is corrupt: a task is listed as both incomplete and completed.")
		return fmt.Errorf("failed to reconcile: %w", err)
	}

	if len(plan) == 0 {
		c.report("Local files are already up to date with remote files.")
		c.setStage(StageDone)
		return nil
	}

	for _, action := range plan {
		c.report(action.Describe())
	}
	reconcile.Apply(local, plan)

	c.setStage(StagePersisting)
	if err := local.Incomplete.Save(); err != nil {
		return fmt.Errorf("failed to persist incomplete store: %w", err)
	}
	if err := local.Completed.Save(); err != nil {
		return fmt.Errorf("failed to persist completed store: %w", err)
	}

	c.report("Pulled tasks from remote and merged with local files.")
	c.setStage(StageDone)
	return nil
}

func (c *Coordinator) push(ctx context.Context) error {
	if c.key == nil {
		fmt.Fprintln(c.out, "Encryption password not set. Cannot push to remote.")
		return ErrNotConfigured
	}

	local, err := c.loadLocal()
	if err != nil {
		return err
	}

	c.setStage(StageEncrypting)
	incompleteToken, err := c.encryptStore(local.Incomplete)
	if err != nil {
		return err
	}
	completedToken, err := c.encryptStore(local.Completed)
	if err != nil {
		return err
	}

	c.setStage(StageUploading)
	if err := c.remote.Upload(ctx, c.objects.IncompleteObject, incompleteToken); err != nil {
		c.report("Failed to push encrypted files to remote.")
		return fmt.Errorf("failed to upload %s: %w", c.objects.IncompleteObject, err)
	}
	if err := c.remote.Upload(ctx, c.objects.CompletedObject, completedToken); err != nil {
		c.report("Failed to push encrypted files to remote.")
		return fmt.Errorf("failed to upload %s: %w", c.objects.CompletedObject, err)
	}

	c.report("Pushed encrypted files to remote.")
	c.setStage(StageDone)
	return nil
}

func (c *Coordinator) loadLocal() (reconcile.Snapshot, error) {
	incomplete, err := store.Load(c.paths.IncompleteTasks(), c.log)
	if err != nil {
		return reconcile.Snapshot{}, fmt.Errorf("failed to load incomplete store: %w", err)
	}
	completed, err := store.Load(c.paths.CompletedTasks(), c.log)
	if err != nil {
		return reconcile.Snapshot{}, fmt.Errorf("failed to load completed store: %w", err)
	}
	return reconcile.Snapshot{Incomplete: incomplete, Completed: completed}, nil
}

// encryptStore seals a store and keeps a scratch copy of the ciphertext in
// the encrypted directory, mirroring what was last uploaded.
func (c *Coordinator) encryptStore(s *store.Store) ([]byte, error) {
	plaintext, err := s.Serialize()
	if err != nil {
		return nil, err
	}

	token, err := encryption.Encrypt(plaintext, c.key)
	if err != nil {
		return nil, err
	}

	scratch := filepath.Join(c.paths.EncryptedDir(), filepath.Base(s.Path()))
	if err := os.WriteFile(scratch, token, 0644); err != nil {
		return nil, fmt.Errorf("failed to write encrypted copy: %w", err)
	}

	return token, nil
}

func (c *Coordinator) downloadFailed(err error) error {
	if remote.IsNotFound(err) {
		c.report("No encrypted files found to synchronize with.")
	} else {
		c.report("Failed to download encrypted files from remote.")
	}
	c.log.Warn().Str("stage", c.stage.String()).Err(err).Msg("sync failed")
	return err
}

func (c *Coordinator) setStage(stage Stage) {
	c.stage = stage
	c.log.Debug().Str("stage", stage.String()).Msg("sync stage")
}

// report prints a user-facing line and records it in the history log
func (c *Coordinator) report(message string) {
	fmt.Fprintln(c.out, message)
	if err := c.history.Record(message); err != nil {
		c.log.Warn().Err(err).Msg("failed to record history entry")
	}
}

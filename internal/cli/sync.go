package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/mtd/internal/audit"
	"github.com/user/mtd/internal/config"
	"github.com/user/mtd/internal/encryption"
	"github.com/user/mtd/internal/remote"
	"github.com/user/mtd/internal/syncer"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull encrypted files from the remote and merge with local files",
	RunE:  runPull,
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push encrypted files to the remote",
	RunE:  runPush,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull from the remote, merge with local files, then push back",
	RunE:  runSync,
}

func runPull(cmd *cobra.Command, args []string) error {
	c, err := newCoordinator(cmd)
	if err != nil {
		return finishSync(err)
	}
	return finishSync(c.Pull(cmd.Context()))
}

func runPush(cmd *cobra.Command, args []string) error {
	c, err := newCoordinator(cmd)
	if err != nil {
		return finishSync(err)
	}
	return finishSync(c.Push(cmd.Context()))
}

func runSync(cmd *cobra.Command, args []string) error {
	c, err := newCoordinator(cmd)
	if err != nil {
		return finishSync(err)
	}
	return finishSync(c.Sync(cmd.Context()))
}

// newCoordinator wires the sync pipeline from the on-disk configuration
func newCoordinator(cmd *cobra.Command) (*syncer.Coordinator, error) {
	paths := config.DefaultPaths()
	if err := paths.EnsureLayout(); err != nil {
		return nil, fmt.Errorf("failed to prepare data layout: %w", err)
	}

	cfg, err := config.Load(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	remoteStore, err := remote.NewS3(cmd.Context(), cfg.Remote.Bucket, cfg.Remote.Prefix, cfg.Remote.Region)
	if err != nil {
		if remote.IsNotConfigured(err) {
			fmt.Printf("No remote storage configured. Set the bucket in %s.\n", paths.ConfigFile())
			return nil, syncer.ErrNotConfigured
		}
		return nil, err
	}

	key, _ := encryption.DeriveKey(config.LoadSecrets(paths.EnvFile()))

	return syncer.New(syncer.Options{
		Paths:   paths,
		Objects: cfg.Sync,
		Remote:  remoteStore,
		Key:     key,
		History: audit.New(paths.HistoryLog()),
		Out:     os.Stdout,
		Logger:  newLogger(),
	}), nil
}

// finishSync keeps an unconfigured install from reading as a failure; the
// plain message has already been printed.
func finishSync(err error) error {
	if errors.Is(err, syncer.ErrNotConfigured) {
		return nil
	}
	return err
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Remote: RemoteConfig{
			Prefix: "mtd/encrypted",
		},
		Sync: SyncConfig{
			IncompleteObject: "tasks.json",
			CompletedObject:  "completed_tasks.json",
		},
	}
}

// WriteDefault writes a commented starter configuration to a file
func WriteDefault(path string) error {
	content := `# mtd configuration

# Remote object store for encrypted sync. Leave bucket empty to keep the
# tracker local-only.
remote:
  bucket: ""
  prefix: mtd/encrypted
  region: ""

# Object names for the encrypted snapshots.
sync:
  incomplete_object: tasks.json
  completed_object: completed_tasks.json

# The encryption passphrase is never read from this file. Set
# MTD_ENCRYPTION_PASSWORD in the environment or in the .env file next to
# this config.
`

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}
	return nil
}

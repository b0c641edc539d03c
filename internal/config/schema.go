package config

// Config is the tracker configuration loaded from config.yaml
type Config struct {
	Remote RemoteConfig `yaml:"remote" mapstructure:"remote"`
	Sync   SyncConfig   `yaml:"sync" mapstructure:"sync"`
}

// RemoteConfig points sync at an S3 bucket. An empty bucket means sync is
// not set up.
type RemoteConfig struct {
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
	Region string `yaml:"region" mapstructure:"region"`
}

// SyncConfig names the encrypted snapshot objects
type SyncConfig struct {
	IncompleteObject string `yaml:"incomplete_object" mapstructure:"incomplete_object"`
	CompletedObject  string `yaml:"completed_object" mapstructure:"completed_object"`
}

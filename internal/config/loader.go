package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads config.yaml from the resolved config path, falling back to
// defaults when the file does not exist yet.
func Load(paths Paths) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadFile(paths.ConfigFile(), cfg); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// EncryptionPassphraseVar is the environment variable holding the sync
// passphrase.
const EncryptionPassphraseVar = "MTD_ENCRYPTION_PASSWORD"

// LoadSecrets loads the .env file next to the config, if present, and
// returns the encryption passphrase. Variables already set in the
// environment win over the file. An absent file or unset passphrase is a
// normal state, not an error.
func LoadSecrets(envPath string) string {
	if _, err := os.Stat(envPath); err == nil {
		godotenv.Load(envPath)
	}
	return os.Getenv(EncryptionPassphraseVar)
}

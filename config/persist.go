package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/optiview/partbench/errors"
)

// Save writes the configuration to the per-user config file,
// creating ~/.partbench if needed
func Save(cfg *Config) error {
	path := UserConfigPath()
	if path == "" {
		return errors.New("unable to determine user home directory")
	}

	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	content, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	return nil
}

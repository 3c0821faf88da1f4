// Package config loads and stores CLI configuration in the XDG config dir.
// The connection DSN itself is always sourced from the DATABASE_URL
// environment variable, never persisted here, so this file never carries
// credentials.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"seedfast/cli/internal/xdg"
)

// Config holds the pipeline's runtime tunables.
type Config struct {
	LogLevel         string        `json:"log_level"`
	SlotName         string        `json:"slot_name"`
	PublicationName  string        `json:"publication_name"`
	Tables           []string      `json:"tables"`
	BatchMaxMessages int           `json:"batch_max_messages"`
	BatchMaxInterval time.Duration `json:"batch_max_interval"`
	ControlPlaneAddr string        `json:"control_plane_addr"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	var c Config
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.LogLevel = "info"
			c.SlotName = "cdc_slot"
			c.PublicationName = "cdc_publication"
			c.BatchMaxMessages = 500
			c.BatchMaxInterval = 500 * time.Millisecond
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

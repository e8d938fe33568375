package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds persistent defaults for the CLI. Flags and environment
// variables take precedence over anything stored here.
type Config struct {
	Author           string  `json:"author,omitempty"`
	DefaultSheetName string  `json:"default_sheet_name,omitempty"`
	ColumnWidth      float64 `json:"column_width,omitempty"`
}

// Keys lists the settable config keys in display order.
var Keys = []string{"author", "default_sheet_name", "column_width"}

// Get returns the string form of key, or false for an unknown key.
func (c Config) Get(key string) (string, bool) {
	switch key {
	case "author":
		return c.Author, true
	case "default_sheet_name":
		return c.DefaultSheetName, true
	case "column_width":
		if c.ColumnWidth == 0 {
			return "", true
		}
		return strconv.FormatFloat(c.ColumnWidth, 'f', -1, 64), true
	}
	return "", false
}

// Set assigns value to key. An empty value clears the key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "author":
		c.Author = value
	case "default_sheet_name":
		c.DefaultSheetName = value
	case "column_width":
		if value == "" {
			c.ColumnWidth = 0
			return nil
		}
		w, err := strconv.ParseFloat(value, 64)
		if err != nil || w <= 0 {
			return fmt.Errorf("column_width must be a positive number, got %q", value)
		}
		c.ColumnWidth = w
	default:
		return fmt.Errorf("unknown config key %q (valid keys: author, default_sheet_name, column_width)", key)
	}
	return nil
}

func dir() (string, error) {
	if v := os.Getenv("XLSXWRITER_CONFIG_DIR"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "xlsxwriter"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "xlsxwriter"), nil
}

// Path returns the location of the config file.
func Path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.json"), nil
}

// Load reads the config file. Returns a zero-value Config if the file does not exist.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", p, err)
	}
	return cfg, nil
}

// Save writes the config to disk atomically using a temp file + rename.
func Save(cfg Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	// os.Rename fails on Windows when the destination exists.
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Delete removes the config file.
func Delete() error {
	p, err := Path()
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"finderqr/internal/contact"
	"finderqr/internal/export"
	"finderqr/internal/qrcode"
)

// FormConfig represents the structure of the config.yaml file.
// It tunes what the form pre-fills and how exported codes are worded.
type FormConfig struct {
	Defaults FormDefaults   `yaml:"defaults"`
	QR       QRConfig       `yaml:"qr"`
	Export   export.Content `yaml:"export"`
}

// FormDefaults holds values the form starts with and resets to.
type FormDefaults struct {
	Message string `yaml:"message"`
}

// QRConfig controls rendered image size and error correction.
type QRConfig struct {
	Size  int    `yaml:"size"`  // Pixels, clamped to 64-1024
	Level string `yaml:"level"` // low, medium, high, highest
}

// DefaultFormConfig returns the configuration used when no file is present.
func DefaultFormConfig() *FormConfig {
	return &FormConfig{
		Defaults: FormDefaults{Message: contact.DefaultMessage},
		QR:       QRConfig{Size: qrcode.DefaultSize, Level: "low"},
		Export:   export.DefaultContent(),
	}
}

// LoadFormConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns the defaults without error if the config file doesn't exist.
func LoadFormConfig() (*FormConfig, error) {
	return LoadFormConfigFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadFormConfigFile loads form configuration from path.
func LoadFormConfigFile(path string) (*FormConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return DefaultFormConfig(), nil
		}
		return nil, err
	}

	var cfg FormConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Set defaults
	if cfg.Defaults.Message == "" {
		cfg.Defaults.Message = contact.DefaultMessage
	}
	cfg.QR.Size = qrcode.ClampSize(cfg.QR.Size)
	if _, err := qrcode.ParseLevel(cfg.QR.Level); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Export = cfg.Export.WithDefaults()

	return &cfg, nil
}

// DefaultRecord returns the record new and freshly reset forms start from.
func (c *FormConfig) DefaultRecord() contact.Record {
	r := contact.NewRecord()
	if c != nil && c.Defaults.Message != "" {
		r.Message = c.Defaults.Message
	}
	return r
}

// NewEncoder returns a QR encoder at the configured recovery level.
func (c *FormConfig) NewEncoder() *qrcode.Encoder {
	enc := qrcode.NewEncoder()
	if c == nil {
		return enc
	}
	if level, err := qrcode.ParseLevel(c.QR.Level); err == nil {
		enc.Level = level
	}
	return enc
}

// ImageSize returns the configured QR size in pixels.
func (c *FormConfig) ImageSize() int {
	if c == nil {
		return qrcode.DefaultSize
	}
	return qrcode.ClampSize(c.QR.Size)
}

// Content returns the share and print wording.
func (c *FormConfig) Content() export.Content {
	if c == nil {
		return export.DefaultContent()
	}
	return c.Export.WithDefaults()
}

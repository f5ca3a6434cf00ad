package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/thomsbg/ripple/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "ripple.json"

	// DefaultPort is the default demo server port.
	DefaultPort = 3000

	// DefaultHost is the default demo server host.
	DefaultHost = "localhost"

	// DefaultFrameInterval is the default scheduler frame interval.
	DefaultFrameInterval = 16 * time.Millisecond
)

// Config represents the complete ripple.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Template is the path to the view template served by the demo server.
	Template string `json:"template,omitempty"`

	// Data is the path to a JSON file holding the view's initial data.
	Data string `json:"data,omitempty"`

	// Server contains demo server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Scheduler contains write-scheduler configuration.
	Scheduler SchedulerConfig `json:"scheduler,omitempty"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains demo server settings.
type ServerConfig struct {
	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`
}

// SchedulerConfig contains write-scheduler settings.
type SchedulerConfig struct {
	// FrameIntervalMS is the frame-loop interval in milliseconds. Zero
	// means the default; a negative value disables the frame loop so
	// flushes only happen per event turn.
	FrameIntervalMS int `json:"frameIntervalMs,omitempty"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is exposed.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metric namespace (default "ripple").
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version:  "0.1.0",
		Template: "index.html",
		Server: ServerConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "ripple",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for ripple.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R081").
				WithDetail("No ripple.json found in " + filepath.Dir(path)).
				WithSuggestion("Create a ripple.json or pass --config")
		}
		return nil, errors.New("R080").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("R080").
			WithDetail("Failed to parse ripple.json: " + err.Error()).
			WithSuggestion("Check that ripple.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("R080").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R080").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Template == "" {
		c.Template = "index.html"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "ripple"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("R080").
			WithDetail("Port must be between 0 and 65535")
	}
	if c.Template == "" {
		return errors.New("R080").
			WithDetail("A template path is required")
	}
	return nil
}

// FrameInterval returns the configured frame-loop interval. A zero value
// in the file means the default; negative disables the loop.
func (c *Config) FrameInterval() time.Duration {
	switch {
	case c.Scheduler.FrameIntervalMS < 0:
		return 0
	case c.Scheduler.FrameIntervalMS == 0:
		return DefaultFrameInterval
	default:
		return time.Duration(c.Scheduler.FrameIntervalMS) * time.Millisecond
	}
}

// Address returns the listen address string for the demo server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the full URL for the demo server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// TemplatePath returns the absolute path to the view template.
func (c *Config) TemplatePath() string {
	if filepath.IsAbs(c.Template) {
		return c.Template
	}
	return filepath.Join(c.Dir(), c.Template)
}

// DataPath returns the absolute path to the initial data file, or "" when
// no data file is configured.
func (c *Config) DataPath() string {
	if c.Data == "" {
		return ""
	}
	if filepath.IsAbs(c.Data) {
		return c.Data
	}
	return filepath.Join(c.Dir(), c.Data)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing ripple.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("R081").
				WithDetail("No ripple.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

// Where: internal/infra/config/file.go
// What: Config file model and loader.
// Why: Let repositories commit stable defaults next to their workflows.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poruru/aca-preview/internal/meta"
	"gopkg.in/yaml.v3"
)

var errConfigNotFound = errors.New("config file not found")

// File is the on-disk configuration. Every field is optional.
type File struct {
	Version        int             `yaml:"version,omitempty"`
	ResourceGroup  string          `yaml:"resource_group,omitempty"`
	App            string          `yaml:"app,omitempty"`
	SubscriptionID string          `yaml:"subscription_id,omitempty"`
	SuffixTemplate string          `yaml:"suffix_template,omitempty"`
	Client         ClientSection   `yaml:"client,omitempty"`
	Registry       RegistrySection `yaml:"registry,omitempty"`
	Ledger         LedgerSection   `yaml:"ledger,omitempty"`
	Report         ReportSection   `yaml:"report,omitempty"`
	AWS            AWSSection      `yaml:"aws,omitempty"`
}

// ClientSection overrides the control-plane request budget.
type ClientSection struct {
	Timeout       Duration `yaml:"timeout,omitempty"`
	PollFrequency Duration `yaml:"poll_frequency,omitempty"`
	MaxRetries    *int     `yaml:"max_retries,omitempty"`
	RetryDelay    Duration `yaml:"retry_delay,omitempty"`
}

// RegistrySection configures image preflight. Passwords are never read from the file.
type RegistrySection struct {
	Verify   bool   `yaml:"verify,omitempty"`
	Username string `yaml:"username,omitempty"`
}

// LedgerSection names the DynamoDB ledger table.
type LedgerSection struct {
	Table string `yaml:"table,omitempty"`
}

// ReportSection names the S3 report location.
type ReportSection struct {
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
}

// AWSSection selects the AWS region and endpoint.
type AWSSection struct {
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Duration decodes Go duration strings such as "90s" or "10m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads, validates and decodes the config file at path.
func Load(path string) (File, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	if err := validateConfig(payload); err != nil {
		return File{}, fmt.Errorf("validate config %s: %w", path, err)
	}

	var cfg File
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return File{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Discover searches startDir and its parents for the default config file.
// It returns an empty path when none exists.
func Discover(startDir string) (string, error) {
	dir := strings.TrimSpace(startDir)
	if dir == "" {
		return "", nil
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	for {
		for _, name := range meta.ConfigFileNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
			if err != nil && !os.IsNotExist(err) {
				return "", fmt.Errorf("stat %s: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Resolve loads path when set, otherwise the discovered file under startDir.
// A missing explicit path is an error; a missing discovered file is not.
func Resolve(path, startDir string) (File, string, error) {
	if path = strings.TrimSpace(path); path != "" {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return File{}, "", fmt.Errorf("%w: %s", errConfigNotFound, path)
			}
			return File{}, "", fmt.Errorf("stat config: %w", err)
		}
		cfg, err := Load(path)
		return cfg, path, err
	}
	discovered, err := Discover(startDir)
	if err != nil || discovered == "" {
		return File{}, "", err
	}
	cfg, err := Load(discovered)
	return cfg, discovered, err
}

// Where: internal/infra/config/file_test.go
// What: Tests for config loading, validation and discovery.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDecodesAllSections(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
version: 1
resource_group: rg
app: app
subscription_id: sub-1
suffix_template: "pr{{ .PullRequest }}-{{ .CommitSHA | trunc 7 }}"
client:
  timeout: 15m
  poll_frequency: 10s
  max_retries: 0
  retry_delay: 1500ms
registry:
  verify: true
  username: bot
ledger:
  table: preview-revisions
report:
  bucket: preview-reports
  prefix: runs
aws:
  region: ap-northeast-1
  endpoint: http://localhost:4566
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	zero := 0
	want := File{
		Version:        1,
		ResourceGroup:  "rg",
		App:            "app",
		SubscriptionID: "sub-1",
		SuffixTemplate: "pr{{ .PullRequest }}-{{ .CommitSHA | trunc 7 }}",
		Client: ClientSection{
			Timeout:       Duration(15 * time.Minute),
			PollFrequency: Duration(10 * time.Second),
			MaxRetries:    &zero,
			RetryDelay:    Duration(1500 * time.Millisecond),
		},
		Registry: RegistrySection{Verify: true, Username: "bot"},
		Ledger:   LedgerSection{Table: "preview-revisions"},
		Report:   ReportSection{Bucket: "preview-reports", Prefix: "runs"},
		AWS:      AWSSection{Region: "ap-northeast-1", Endpoint: "http://localhost:4566"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAcceptsEmptyFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(File{}, cfg); diff != "" {
		t.Fatalf("expected zero config (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"unknown key":      "app: app\nreplicas: 3\n",
		"numeric duration": "client:\n  timeout: 30\n",
		"bad duration":     "client:\n  poll_frequency: soon\n",
		"negative retries": "client:\n  max_retries: -2\n",
		"password in file": "registry:\n  password: hunter2\n",
		"wrong version":    "version: 2\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.yaml", content)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestDiscoverSearchesParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := writeConfig(t, root, ".aca-preview.yml", "app: app\n")

	got, err := Discover(nested)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	cfg, path, err := Resolve("", dir)
	if err != nil || path != "" || cfg.App != "" {
		t.Fatalf("expected nothing discovered, got %q %+v %v", path, cfg, err)
	}

	explicit := writeConfig(t, dir, "custom.yaml", "app: explicit\n")
	cfg, path, err = Resolve(explicit, "")
	if err != nil {
		t.Fatalf("resolve explicit: %v", err)
	}
	if path != explicit || cfg.App != "explicit" {
		t.Fatalf("unexpected explicit resolution: %q %+v", path, cfg)
	}

	_, _, err = Resolve(filepath.Join(dir, "missing.yaml"), "")
	if !errors.Is(err, errConfigNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected path in error, got %v", err)
	}
}

// internal/commands/root_test.go
package ollamabench

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/selector"
)

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)

	rootCmd.SetArgs([]string{"nonexistent"})
	_, err := rootCmd.ExecuteC()

	if err == nil {
		t.Error("Expected an error for a nonexistent command, but got none")
	}

	expected := "unknown command \"nonexistent\" for \"ollamabench\""
	if !strings.Contains(b.String(), expected) {
		t.Errorf("Expected output to contain '%s', but got '%s'", expected, b.String())
	}
}

// TestRunConflictingFilters verifies that supplying both use and skip lists
// aborts before any request is sent: the configured host is never contacted.
func TestRunConflictingFilters(t *testing.T) {
	prevConfig := currentConfig
	prevUse, prevSkip := runUse, runSkip
	t.Cleanup(func() {
		currentConfig = prevConfig
		runUse, runSkip = prevUse, prevSkip
	})

	// Port 1 is never listening; reaching it would fail loudly anyway.
	currentConfig = &appconfig.Config{HostURL: "http://127.0.0.1:1", TimeoutSeconds: 1}
	runUse = []string{"model-a"}
	runSkip = []string{"model-b"}

	err := runBenchmark(runCmd)
	if !errors.Is(err, selector.ErrConflictingFilters) {
		t.Fatalf("expected ErrConflictingFilters, got %v", err)
	}
}

// TestInitConfigLegacyFallback verifies that when the default config path
// is absent but a root-level config.json exists, initConfig points viper at
// the legacy file.
func TestInitConfigLegacyFallback(t *testing.T) {
	prevCfgFile := cfgFile
	t.Cleanup(func() { cfgFile = prevCfgFile })

	dir := t.TempDir()
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(prevWD) })
	if err := os.WriteFile(filepath.Join(dir, appconfig.LegacyConfigPath), []byte(`{"timeout": 30}`), 0o644); err != nil {
		t.Fatalf("write legacy config: %v", err)
	}

	cfgFile = appconfig.DefaultConfigPath
	initConfig()
	if cfgFile != appconfig.LegacyConfigPath {
		t.Fatalf("expected fallback to %q, got %q", appconfig.LegacyConfigPath, cfgFile)
	}

	// With the default file present, the legacy file is ignored.
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, appconfig.DefaultConfigPath), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write default config: %v", err)
	}
	cfgFile = appconfig.DefaultConfigPath
	initConfig()
	if cfgFile != appconfig.DefaultConfigPath {
		t.Fatalf("expected default path kept, got %q", cfgFile)
	}
}

func TestRunCmdFlags(t *testing.T) {
	for _, name := range []string{"verbose", "all", "skip-models", "use-models", "prompts"} {
		if runCmd.Flags().Lookup(name) == nil {
			t.Fatalf("expected run flag %q to be registered", name)
		}
	}
	for _, name := range []string{"config", "debug", "unload", "host", "timeout", "resultsDir", "logFile"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("expected persistent flag %q to be registered", name)
		}
	}
}

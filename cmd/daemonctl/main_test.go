package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/daemonctl/internal/config"
)

//nolint:gochecknoglobals // test binary path is set in TestMain
var testBinaryPath string

// TestMain builds the CLI binary once for the entire package and reuses it.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "daemonctl-test-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1) //nolint:gocritic // Mkdir failed, nothing to cleanup
	}
	defer os.RemoveAll(dir)

	bin := filepath.Join(dir, "daemonctl-test")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build test binary: %v\nOutput: %s\n", err, string(out))
		os.Exit(1) //nolint:gocritic // Build failed, nothing to cleanup
	}
	testBinaryPath = bin

	code := m.Run()
	os.Exit(code)
}

func buildTestBinary(t *testing.T) string {
	if testBinaryPath == "" {
		t.Fatalf("test binary not built")
	}
	return testBinaryPath
}

// newCmd wraps exec.Command with an isolated config environment, so a
// developer's real config file and env overrides cannot leak into
// assertions.
func newCmd(t *testing.T, binary string, args ...string) *exec.Cmd {
	t.Helper()

	home := t.TempDir()
	cmd := exec.Command(binary, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
		config.EnvAddress+"=",
		config.EnvLogFile+"=",
	)
	return cmd
}

func TestCLI_HelpOutput(t *testing.T) {
	binary := buildTestBinary(t)

	cmd := newCmd(t, binary, "--help")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	outputStr := string(output)
	for _, expected := range []string{
		"daemonctl [ADDRESS]",
		"dashboard",
		"Start/Stop/Restart/Reload",
		"activity log",
	} {
		assert.Contains(t, outputStr, expected)
	}
}

func TestCLI_VersionOutput(t *testing.T) {
	binary := buildTestBinary(t)

	cmd := newCmd(t, binary, "--version")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	outputStr := string(output)
	assert.Contains(t, outputStr, "daemonctl dev")
	assert.Contains(t, outputStr, "commit: none")
	assert.Contains(t, outputStr, "date: unknown")
}

// All rejected invocations fail before any terminal setup, so they are safe
// to run without a TTY.
func TestCLI_RejectsBadInvocations(t *testing.T) {
	binary := buildTestBinary(t)

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{
			name:     "too many addresses",
			args:     []string{"127.0.0.1:50051", "127.0.0.1:50052"},
			contains: "accepts at most 1 arg",
		},
		{
			name:     "address without port",
			args:     []string{"not-an-address"},
			contains: "invalid daemon address",
		},
		{
			name:     "port out of range",
			args:     []string{"localhost:99999"},
			contains: "invalid daemon address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newCmd(t, binary, tt.args...)
			output, err := cmd.CombinedOutput()

			require.Error(t, err)
			assert.Contains(t, string(output), "Error:")
			assert.Contains(t, string(output), tt.contains)
		})
	}
}

func TestCLI_CorruptConfigFailsFast(t *testing.T) {
	binary := buildTestBinary(t)

	tests := []struct {
		name     string
		yaml     string
		contains string
	}{
		{
			name:     "unparseable yaml",
			yaml:     "address: [oops",
			contains: "parsing",
		},
		{
			name:     "rejected values",
			yaml:     "call_timeout: -5s\n",
			contains: "invalid config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			confDir := filepath.Join(home, ".config", "daemonctl")
			require.NoError(t, os.MkdirAll(confDir, 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte(tt.yaml), 0o600))

			cmd := exec.Command(binary, "127.0.0.1:50051")
			cmd.Env = append(os.Environ(),
				"HOME="+home,
				"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
				config.EnvAddress+"=",
				config.EnvLogFile+"=",
			)
			output, err := cmd.CombinedOutput()

			require.Error(t, err)
			assert.Contains(t, string(output), tt.contains)
		})
	}
}

func TestSetupLogging_WritesJSONToConfiguredFile(t *testing.T) {
	prevOut := logrus.StandardLogger().Out
	prevFmt := logrus.StandardLogger().Formatter
	t.Cleanup(func() {
		logrus.SetOutput(prevOut)
		logrus.SetFormatter(prevFmt)
	})

	path := filepath.Join(t.TempDir(), "console.log")
	cfg := config.Default()
	cfg.LogFile = path

	require.NoError(t, setupLogging(cfg))
	logrus.Warn("redirected entry")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"redirected entry"`)
	assert.Contains(t, string(b), `"level":"warning"`)
}

func TestSetupLogging_EmptyPathIsNoop(t *testing.T) {
	prevOut := logrus.StandardLogger().Out
	t.Cleanup(func() { logrus.SetOutput(prevOut) })

	require.NoError(t, setupLogging(config.Default()))
	assert.Equal(t, prevOut, logrus.StandardLogger().Out)
}

func TestSetupLogging_UnwritablePathErrors(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "missing", "console.log")

	err := setupLogging(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening log file")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Bridge: BridgeConfig{
			Enabled:    true,
			InputPipe:  "/tmp/fallout-cli-in",
			OutputPath: "/tmp/fallout-cli-out.txt",
		},
		Navigation: NavigationConfig{
			MaxSteps:    100,
			WaitTimeout: 60 * time.Second,
			WaitStep:    16 * time.Millisecond,
		},
		Simulation: SimulationConfig{
			Scenario:     "content/scenarios/vault13.yaml",
			TickInterval: 16 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.True(t, cfg.Bridge.Enabled)
	assert.Equal(t, "/tmp/fallout-cli-in", cfg.Bridge.InputPipe)
	assert.Equal(t, "/tmp/fallout-cli-out.txt", cfg.Bridge.OutputPath)
	assert.Equal(t, 1, cfg.Bridge.MaxCommandsPerPoll)
	assert.Equal(t, 100, cfg.Navigation.MaxSteps)
	assert.Equal(t, 60*time.Second, cfg.Navigation.WaitTimeout)
	assert.Equal(t, 16*time.Millisecond, cfg.Navigation.WaitStep)
	assert.Equal(t, 16*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Empty(t, cfg.Simulation.SavePath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
bridge:
  enabled: false
  input_pipe: /run/sim/in
  output_path: /run/sim/out.txt
  max_commands_per_poll: 4
navigation:
  max_steps: 40
  wait_timeout: 5s
simulation:
  scenario: maps/test.yaml
  save_path: /var/lib/sim/saves.db
logging:
  level: debug
  format: console
metrics:
  addr: 127.0.0.1:9100
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.False(t, cfg.Bridge.Enabled)
	assert.Equal(t, "/run/sim/in", cfg.Bridge.InputPipe)
	assert.Equal(t, 4, cfg.Bridge.MaxCommandsPerPoll)
	assert.Equal(t, 40, cfg.Navigation.MaxSteps)
	assert.Equal(t, 5*time.Second, cfg.Navigation.WaitTimeout)
	assert.Equal(t, 16*time.Millisecond, cfg.Navigation.WaitStep)
	assert.Equal(t, "maps/test.yaml", cfg.Simulation.Scenario)
	assert.Equal(t, "/var/lib/sim/saves.db", cfg.Simulation.SavePath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Addr)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml", nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SIMBRIDGE_BRIDGE_INPUT_PIPE", "/tmp/env-in")
	t.Setenv("SIMBRIDGE_NAVIGATION_MAX_STEPS", "7")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env-in", cfg.Bridge.InputPipe)
	assert.Equal(t, 7, cfg.Navigation.MaxSteps)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("SIMBRIDGE_LOGGING_LEVEL", "warn")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-level=debug", "--disabled", "--scenario", "a.yaml"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Bridge.Enabled)
	assert.Equal(t, "a.yaml", cfg.Simulation.Scenario)
}

func TestLoad_UnsetFlagsKeepDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.True(t, cfg.Bridge.Enabled)
	assert.Equal(t, "/tmp/fallout-cli-in", cfg.Bridge.InputPipe)
}

func TestLoad_InvalidValueFails(t *testing.T) {
	t.Setenv("SIMBRIDGE_LOGGING_FORMAT", "xml")
	_, err := Load("", nil)
	assert.ErrorContains(t, err, "logging.format")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateBridgePaths(t *testing.T) {
	cfg := validConfig()
	cfg.Bridge.InputPipe = ""
	assert.ErrorContains(t, cfg.Validate(), "bridge.input_pipe")

	cfg = validConfig()
	cfg.Bridge.OutputPath = ""
	assert.ErrorContains(t, cfg.Validate(), "bridge.output_path")

	cfg = validConfig()
	cfg.Bridge.OutputPath = cfg.Bridge.InputPipe
	assert.ErrorContains(t, cfg.Validate(), "must differ")
}

func TestValidateNavigation(t *testing.T) {
	cfg := validConfig()
	cfg.Navigation.MaxSteps = 0
	assert.ErrorContains(t, cfg.Validate(), "navigation.max_steps")

	cfg = validConfig()
	cfg.Navigation.WaitTimeout = 0
	assert.ErrorContains(t, cfg.Validate(), "navigation.wait_timeout")

	cfg = validConfig()
	cfg.Navigation.WaitStep = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidateSimulation(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.Scenario = ""
	assert.ErrorContains(t, cfg.Validate(), "simulation.scenario")

	cfg = validConfig()
	cfg.Simulation.TickInterval = 0
	assert.ErrorContains(t, cfg.Validate(), "simulation.tick_interval")
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	cfg := validConfig()
	cfg.Bridge.InputPipe = ""
	cfg.Logging.Level = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bridge.input_pipe")
	assert.Contains(t, err.Error(), "logging.level")
}

// Property-based tests

func TestPropertyMaxCommandsPerPoll(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-100, 100).Draw(t, "max_commands_per_poll")
		cfg := validConfig()
		cfg.Bridge.MaxCommandsPerPoll = n
		err := cfg.Validate()
		if n >= 0 && err != nil {
			t.Fatalf("valid max_commands_per_poll %d rejected: %v", n, err)
		}
		if n < 0 && err == nil {
			t.Fatalf("negative max_commands_per_poll %d accepted", n)
		}
	})
}

func TestPropertyMaxStepsAlwaysPositive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		steps := rapid.IntRange(-1000, 1000).Draw(t, "max_steps")
		cfg := validConfig()
		cfg.Navigation.MaxSteps = steps
		err := cfg.Validate()
		if (steps >= 1) != (err == nil) {
			t.Fatalf("max_steps=%d: unexpected validation result %v", steps, err)
		}
	})
}

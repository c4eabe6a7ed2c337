// Package config provides Viper-based configuration loading for the bridge host.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SIMBRIDGE_BRIDGE_INPUT_PIPE.
const EnvPrefix = "SIMBRIDGE"

// BridgeConfig holds the command channel settings.
type BridgeConfig struct {
	// Enabled turns command polling on at startup.
	Enabled bool `mapstructure:"enabled"`
	// InputPipe is the FIFO commands are read from.
	InputPipe string `mapstructure:"input_pipe"`
	// OutputPath is the file each response overwrites.
	OutputPath string `mapstructure:"output_path"`
	// MaxCommandsPerPoll bounds the commands executed per tick. The default
	// of 1 runs one command per tick; 0 drains every complete line.
	MaxCommandsPerPoll int `mapstructure:"max_commands_per_poll"`
}

// NavigationConfig bounds the goto command.
type NavigationConfig struct {
	// MaxSteps caps the tiles walked by one goto.
	MaxSteps int `mapstructure:"max_steps"`
	// WaitTimeout bounds the wait for the walk animation to finish.
	WaitTimeout time.Duration `mapstructure:"wait_timeout"`
	// WaitStep is the sleep between animation ticks while waiting.
	WaitStep time.Duration `mapstructure:"wait_step"`
}

// SimulationConfig holds reference simulation settings.
type SimulationConfig struct {
	// Scenario is the path of the scenario YAML file.
	Scenario string `mapstructure:"scenario"`
	// TickInterval is the period of the main loop.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// SavePath is the bbolt file holding save slots. Empty disables saving.
	SavePath string `mapstructure:"save_path"`
	// ScriptInstructionLimit bounds each Lua hook call; 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string `mapstructure:"addr"`
}

// Config is the top-level application configuration.
type Config struct {
	Bridge     BridgeConfig     `mapstructure:"bridge"`
	Navigation NavigationConfig `mapstructure:"navigation"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateBridge(c.Bridge); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateNavigation(c.Navigation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBridge(b BridgeConfig) error {
	var errs []string
	if b.InputPipe == "" {
		errs = append(errs, "bridge.input_pipe must not be empty")
	}
	if b.OutputPath == "" {
		errs = append(errs, "bridge.output_path must not be empty")
	}
	if b.InputPipe != "" && b.InputPipe == b.OutputPath {
		errs = append(errs, "bridge.input_pipe and bridge.output_path must differ")
	}
	if b.MaxCommandsPerPoll < 0 {
		errs = append(errs, fmt.Sprintf("bridge.max_commands_per_poll must be >= 0, got %d", b.MaxCommandsPerPoll))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateNavigation(n NavigationConfig) error {
	var errs []string
	if n.MaxSteps < 1 {
		errs = append(errs, fmt.Sprintf("navigation.max_steps must be >= 1, got %d", n.MaxSteps))
	}
	if n.WaitTimeout <= 0 {
		errs = append(errs, "navigation.wait_timeout must be positive")
	}
	if n.WaitStep < 0 {
		errs = append(errs, "navigation.wait_step must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Scenario == "" {
		errs = append(errs, "simulation.scenario must not be empty")
	}
	if s.TickInterval <= 0 {
		errs = append(errs, "simulation.tick_interval must be positive")
	}
	if s.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("simulation.script_instruction_limit must be >= 0, got %d", s.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"scenario":    "simulation.scenario",
	"save-path":   "simulation.save_path",
	"input-pipe":  "bridge.input_pipe",
	"output-path": "bridge.output_path",
	"disabled":    "bridge.enabled",
	"log-level":   "logging.level",
	"log-format":  "logging.format",
	"metrics":     "metrics.addr",
}

// RegisterFlags adds the overridable settings to fs.
//
// Postcondition: Load binds every registered flag that was set.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("scenario", "", "scenario YAML file")
	fs.String("save-path", "", "bbolt file for save slots")
	fs.String("input-pipe", "", "command FIFO path")
	fs.String("output-path", "", "response file path")
	fs.Bool("disabled", false, "start with command polling off")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-format", "", "log format: json or console")
	fs.String("metrics", "", "listen address for /metrics")
}

// Load builds a Config from defaults, the optional YAML file at path,
// SIMBRIDGE_ environment overrides and any flags in fs that were set, in
// increasing precedence, and validates the result.
//
// Precondition: fs may be nil; when non-nil it was prepared by RegisterFlags.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return Config{}, err
		}
	}

	return LoadFromViper(v)
}

// bindFlags copies every changed flag into v. The disabled flag inverts
// into bridge.enabled.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var errs []error
	fs.Visit(func(f *pflag.Flag) {
		key, known := flagKeys[f.Name]
		if !known {
			return
		}
		if f.Name == "disabled" {
			disabled, err := fs.GetBool(f.Name)
			if err != nil {
				errs = append(errs, fmt.Errorf("flag --%s: %w", f.Name, err))
				return
			}
			v.Set(key, !disabled)
			return
		}
		v.Set(key, f.Value.String())
	})
	return errors.Join(errs...)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bridge.enabled", true)
	v.SetDefault("bridge.input_pipe", "/tmp/fallout-cli-in")
	v.SetDefault("bridge.output_path", "/tmp/fallout-cli-out.txt")
	v.SetDefault("bridge.max_commands_per_poll", 1)

	v.SetDefault("navigation.max_steps", 100)
	v.SetDefault("navigation.wait_timeout", "60s")
	v.SetDefault("navigation.wait_step", "16ms")

	v.SetDefault("simulation.scenario", "content/scenarios/vault13.yaml")
	v.SetDefault("simulation.tick_interval", "16ms")
	v.SetDefault("simulation.save_path", "")
	v.SetDefault("simulation.script_instruction_limit", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("metrics.addr", "")
}

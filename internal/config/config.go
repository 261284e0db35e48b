package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the simulator configuration
type Config struct {
	// Register file and in-flight structure sizing
	NumRegs int `yaml:"numRegs"`
	NumRSs  int `yaml:"numRSs"`
	RobSize int `yaml:"robSize"`

	// Functional unit latencies (cycles)
	AluLatency int `yaml:"aluLatency"`
	LsuLatency int `yaml:"lsuLatency"`
	CsrLatency int `yaml:"csrLatency"`

	// Pipeline variant and branch prediction
	OOOEnabled    bool `yaml:"oooEnabled"`
	GshareEnabled bool `yaml:"gshareEnabled"`

	// Memory
	RamSize int `yaml:"ramSize"` // bytes

	// Workload
	WorkloadPath string `yaml:"workloadPath"`

	// Safety bound on a single run, independent of -cycles
	MaxCycles int64 `yaml:"maxCycles"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// validateConfig checks if the configuration is valid
func validateConfig(cfg *Config) error {
	if cfg.NumRegs <= 0 {
		return fmt.Errorf("number of registers must be positive")
	}

	if cfg.NumRSs <= 0 {
		return fmt.Errorf("number of reservation stations must be positive")
	}

	if cfg.RobSize <= 0 {
		return fmt.Errorf("reorder buffer size must be positive")
	}

	if cfg.RobSize < cfg.NumRSs {
		return fmt.Errorf("reorder buffer size must be at least the reservation station count (every issued instruction holds one entry of each)")
	}

	if cfg.AluLatency <= 0 || cfg.LsuLatency <= 0 || cfg.CsrLatency <= 0 {
		return fmt.Errorf("functional unit latencies must be positive")
	}

	if cfg.RamSize <= 0 {
		return fmt.Errorf("ram size must be positive")
	}

	if cfg.WorkloadPath == "" {
		return fmt.Errorf("workload path must be set")
	}

	if cfg.MaxCycles <= 0 {
		return fmt.Errorf("max cycles must be positive")
	}

	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		NumRegs: 32,
		NumRSs:  16,
		RobSize: 32,

		AluLatency: 1,
		LsuLatency: 2,
		CsrLatency: 1,

		OOOEnabled:    true,
		GshareEnabled: false,

		RamSize: 1 << 20, // 1 MB

		WorkloadPath: "workloads/default.yaml",

		MaxCycles: 1_000_000,
	}
}

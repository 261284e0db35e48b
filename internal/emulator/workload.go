package emulator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Program is a YAML-described, already-decoded instruction stream: the
// workload format this simulator accepts in place of a binary RV32I
// decoder.
type Program struct {
	Instrs []Instr `yaml:"instrs"`
}

// LoadProgram reads and parses a workload file at path.
func LoadProgram(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workload file: %w", err)
	}

	var prog Program
	if err := yaml.Unmarshal(data, &prog); err != nil {
		return nil, fmt.Errorf("failed to parse workload: %w", err)
	}

	if len(prog.Instrs) == 0 {
		return nil, fmt.Errorf("workload %s contains no instructions", path)
	}

	return &prog, nil
}

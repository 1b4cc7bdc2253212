package level

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPolicy reads a YAML tuning file. Keys missing from the file keep
// their Default values.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes a YAML policy on top of Default and validates it.
func ParsePolicy(data []byte) (Policy, error) {
	p := Default
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("decode policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate rejects policies that would stall or invert progression.
func (p Policy) Validate() error {
	var errs []error
	if p.BaseRequired < 0 || p.RequiredPerLevel < 0 || p.BaseRequired+p.RequiredPerLevel < 1 {
		errs = append(errs, errors.New("enemies required must be at least 1 at level 1"))
	}
	if p.BaseSpeed+p.SpeedPerLevel <= 0 || p.SpeedPerLevel < 0 {
		errs = append(errs, errors.New("enemy speed must be positive and non-decreasing"))
	}
	if p.MinSpawn <= 0 {
		errs = append(errs, errors.New("min_spawn must be positive"))
	}
	if p.SpawnStep < 0 || p.BaseSpawn < p.MinSpawn {
		errs = append(errs, errors.New("spawn interval must start above min_spawn and not grow"))
	}
	if p.BaseDamage < 0 || p.DamagePerLevel < 0 {
		errs = append(errs, errors.New("enemy damage must be non-negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid policy: %w", errors.Join(errs...))
	}
	return nil
}

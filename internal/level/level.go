// Package level maps a level number to its difficulty parameters.
package level

import "time"

// Config holds the difficulty parameters for a single level.
type Config struct {
	Level           int
	EnemiesRequired int           // Kills needed to clear the level
	EnemySpeed      float64       // Units per tick
	EnemyHealth     int           // Hit points at spawn
	SpawnInterval   time.Duration // Delay between enemy spawns
	EnemyDamage     int           // Health lost when an enemy reaches the bottom
}

// Policy holds the constant terms of the difficulty formulas.
// Every term grows linearly with the level number, so difficulty is
// monotonically non-decreasing.
type Policy struct {
	BaseRequired     int           `yaml:"base_required"`
	RequiredPerLevel int           `yaml:"required_per_level"`
	BaseSpeed        float64       `yaml:"base_speed"`
	SpeedPerLevel    float64       `yaml:"speed_per_level"`
	BaseSpawn        time.Duration `yaml:"base_spawn"`
	SpawnStep        time.Duration `yaml:"spawn_step"`
	MinSpawn         time.Duration `yaml:"min_spawn"`
	BaseDamage       int           `yaml:"base_damage"`
	DamagePerLevel   int           `yaml:"damage_per_level"`
}

// Default is the canonical policy. BaseDamage is 8.
var Default = Policy{
	BaseRequired:     10,
	RequiredPerLevel: 5,
	BaseSpeed:        1.5,
	SpeedPerLevel:    0.3,
	BaseSpawn:        1200 * time.Millisecond,
	SpawnStep:        100 * time.Millisecond,
	MinSpawn:         600 * time.Millisecond,
	BaseDamage:       8,
	DamagePerLevel:   2,
}

// For returns the canonical configuration for level l.
func For(l int) Config {
	return Default.Config(l)
}

// Config returns the configuration for level l. Levels below 1 are treated as 1.
func (p Policy) Config(l int) Config {
	if l < 1 {
		l = 1
	}

	spawn := p.BaseSpawn - time.Duration(l)*p.SpawnStep
	if spawn < p.MinSpawn {
		spawn = p.MinSpawn
	}

	return Config{
		Level:           l,
		EnemiesRequired: p.BaseRequired + l*p.RequiredPerLevel,
		EnemySpeed:      p.BaseSpeed + float64(l)*p.SpeedPerLevel,
		EnemyHealth:     l,
		SpawnInterval:   spawn,
		EnemyDamage:     p.BaseDamage + l*p.DamagePerLevel,
	}
}

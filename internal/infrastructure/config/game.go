package config

import "time"

// GameConfig holds gameplay-facing tuning for the construction core
type GameConfig struct {
	// How often presenters poll the registry for display updates
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"min=100ms"`

	// Seed for the skip-quest generator; 0 means derive from the clock
	QuestSeed int64 `mapstructure:"quest_seed"`
}

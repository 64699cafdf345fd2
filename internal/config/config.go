package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"live-quiz-service/internal/app"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
		Dir string `yaml:"dir"`
	} `yaml:"quiz"`
	Session struct {
		PreRoll          string `yaml:"preRoll"`
		QuestionDuration string `yaml:"questionDuration"`
		RevealDelay      string `yaml:"revealDelay"`
		CorrectReward    int    `yaml:"correctReward"`
	} `yaml:"session"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// SessionSettings fills sequencer settings from the session section, falling
// back to app.DefaultSettings for anything unset or unparsable.
func (c Config) SessionSettings() app.Settings {
	defaults := app.DefaultSettings()
	settings := app.Settings{
		PreRoll:          TTLDuration(c.Session.PreRoll, defaults.PreRoll),
		QuestionDuration: TTLDuration(c.Session.QuestionDuration, defaults.QuestionDuration),
		RevealDelay:      TTLDuration(c.Session.RevealDelay, defaults.RevealDelay),
		CorrectReward:    c.Session.CorrectReward,
	}
	if settings.CorrectReward <= 0 {
		settings.CorrectReward = defaults.CorrectReward
	}
	return settings
}

// Package config loads quizcat's application settings from an optional
// config file, a .env file and QUIZCAT_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/quizcat/internal/engine"
)

// EnvPrefix prefixes every environment variable quizcat reads.
const EnvPrefix = "QUIZCAT"

// Config holds application configuration.
type Config struct {
	Env      string `mapstructure:"env"`       // local, development or production
	LogLevel string `mapstructure:"log_level"` // zap level name
	DBPath   string `mapstructure:"db_path"`   // outcome history database; empty means the XDG default
	EnvFile  string `mapstructure:"-"`         // dotenv file that was loaded, if any
	Engine   Engine `mapstructure:"engine"`
}

// Engine mirrors engine.Config with file and environment friendly types.
type Engine struct {
	MinDifficulty float64 `mapstructure:"min_difficulty"`
	MaxDifficulty float64 `mapstructure:"max_difficulty"`
	Seed          uint64  `mapstructure:"seed"`
	StreakMode    string  `mapstructure:"streak_mode"`
	Fallback      string  `mapstructure:"fallback"`
	Mastery       bool    `mapstructure:"mastery"` // track per-objective strengths and weaknesses
}

// EngineConfig converts the engine section into an engine.Config.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		MinDifficulty: c.Engine.MinDifficulty,
		MaxDifficulty: c.Engine.MaxDifficulty,
		Seed:          c.Engine.Seed,
		StreakMode:    engine.StreakMode(c.Engine.StreakMode),
		Fallback:      engine.FallbackPolicy(c.Engine.Fallback),
	}
}

// Load reads configuration. When path is empty, quizcat.yaml is looked up
// in the working directory and then in $HOME/.config/quizcat, and a
// missing file is not an error. An explicit path must exist. The same
// rule applies to envFile, which defaults to .env in the working directory.
func Load(path, envFile string) (*Config, error) {
	dotenv := envFile
	if dotenv == "" {
		dotenv = ".env"
	}
	loaded := dotenv
	if err := godotenv.Load(dotenv); err != nil {
		if envFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenv, err)
		}
		loaded = ""
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quizcat")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/quizcat")
	}

	def := engine.DefaultConfig()
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "warn")
	v.SetDefault("db_path", "")
	v.SetDefault("engine.min_difficulty", def.MinDifficulty)
	v.SetDefault("engine.max_difficulty", def.MaxDifficulty)
	v.SetDefault("engine.seed", def.Seed)
	v.SetDefault("engine.streak_mode", string(def.StreakMode))
	v.SetDefault("engine.fallback", string(def.Fallback))
	v.SetDefault("engine.mastery", true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.EnvFile = loaded
	if err := cfg.EngineConfig().Validate(); err != nil {
		return nil, fmt.Errorf("engine section: %w", err)
	}
	return &cfg, nil
}

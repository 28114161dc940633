// Package config provides configuration for the chess tools: a YAML file,
// environment overrides and validation.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/logging"
)

// Queue backends.
const (
	QueueMemory = "memory"
	QueueRedis  = "redis"
)

// Config holds all program configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Replay ReplayConfig `yaml:"replay"`
}

// EngineConfig holds the settings handed to each game.
type EngineConfig struct {
	// AutoPromoteToQueen lets a promotion without "=X" become a Queen.
	// When false the match service rejects such moves.
	AutoPromoteToQueen bool `yaml:"auto_promote_to_queen"`

	// PlaySounds enables cues in interactive puzzle sessions. The match
	// server and the replay tool never play sounds.
	PlaySounds        bool          `yaml:"play_sounds"`
	CheckmateCueDelay time.Duration `yaml:"checkmate_cue_delay"`
}

// LogConfig mirrors logging.Options.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Options converts the section for logging.Init.
func (c LogConfig) Options() logging.Options {
	return logging.Options{Level: c.Level, Format: c.Format, File: c.File}
}

// ServerConfig holds the match server settings.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	QueueBackend string `yaml:"queue_backend"`
}

// RedisConfig locates the shared matchmaking queue.
type RedisConfig struct {
	URL      string `yaml:"url"`
	QueueKey string `yaml:"queue_key"`
}

// ReplayConfig sizes the replay worker pool.
type ReplayConfig struct {
	Workers    int `yaml:"workers"`
	BufferSize int `yaml:"buffer_size"`
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			AutoPromoteToQueen: true,
			PlaySounds:         true,
			CheckmateCueDelay:  500 * time.Millisecond,
		},
		Log: LogConfig{Level: "info", Format: "console"},
		Server: ServerConfig{
			Addr:         ":8080",
			QueueBackend: QueueMemory,
		},
		Redis:  RedisConfig{QueueKey: "chess:queue"},
		Replay: ReplayConfig{Workers: 4, BufferSize: 64},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := cfg.Decode(data); err != nil {
			return nil, &errors.ParseError{Err: err, File: path}
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode overlays YAML data on cfg. Unknown keys are rejected.
func (c *Config) Decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// ApplyEnv overrides settings from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	if v, ok := get("CHESS_LISTEN_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := get("CHESS_REDIS_URL"); ok {
		c.Redis.URL = v
		c.Server.QueueBackend = QueueRedis
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := get("CHESS_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHESS_WORKERS=%q: %w", v, errors.ErrInvalidConfig)
		}
		c.Replay.Workers = n
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	invalid := func(format string, args ...interface{}) {
		result = multierror.Append(result, fmt.Errorf(format+": %w", append(args, errors.ErrInvalidConfig)...))
	}

	if c.Engine.CheckmateCueDelay < 0 {
		invalid("engine.checkmate_cue_delay %v is negative", c.Engine.CheckmateCueDelay)
	}
	if !logging.ValidFormat(c.Log.Format) {
		invalid("log.format %q is not console or json", c.Log.Format)
	}
	switch c.Server.QueueBackend {
	case QueueMemory:
	case QueueRedis:
		if c.Redis.URL == "" {
			invalid("redis.url is required for the redis queue backend")
		}
		if c.Redis.QueueKey == "" {
			invalid("redis.queue_key is empty")
		}
	default:
		invalid("server.queue_backend %q is not %s or %s", c.Server.QueueBackend, QueueMemory, QueueRedis)
	}
	if c.Server.Addr == "" {
		invalid("server.addr is empty")
	}
	if c.Replay.Workers < 1 {
		invalid("replay.workers %d is less than 1", c.Replay.Workers)
	}
	if c.Replay.BufferSize < 0 {
		invalid("replay.buffer_size %d is negative", c.Replay.BufferSize)
	}
	return result.ErrorOrNil()
}

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/rebound/internal/core/observability/log"
	"github.com/zeusync/rebound/internal/core/systems/physics"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Environment overrides applied by ApplyEnv.
const (
	EnvListenAddr = "REBOUND_LISTEN_ADDR"
	EnvLogLevel   = "REBOUND_LOG_LEVEL"
	EnvSeed       = "REBOUND_SEED"
	EnvBalls      = "REBOUND_BALLS"
)

// Config is the root document.
type Config struct {
	Sandbox Sandbox `json:"sandbox" yaml:"sandbox"`
	Server  Server  `json:"server" yaml:"server"`
	Log     Log     `json:"log" yaml:"log"`
}

// Sandbox holds the simulation constants.
type Sandbox struct {
	ArenaWidth       float64       `json:"arena_width" yaml:"arena_width"`
	ArenaHeight      float64       `json:"arena_height" yaml:"arena_height"`
	BodySize         float64       `json:"body_size" yaml:"body_size"`
	BallCount        int           `json:"ball_count" yaml:"ball_count"`
	LaunchMultiplier float64       `json:"launch_multiplier" yaml:"launch_multiplier"`
	Friction         float64       `json:"friction" yaml:"friction"`
	StopThreshold    float64       `json:"stop_threshold" yaml:"stop_threshold"`
	TickInterval     time.Duration `json:"tick_interval" yaml:"tick_interval"`
	// Seed of the placement RNG. Zero picks a random seed.
	Seed uint64 `json:"seed" yaml:"seed"`
}

type Server struct {
	ListenAddr      string        `json:"listen_addr" yaml:"listen_addr"`
	MaxClients      int           `json:"max_clients" yaml:"max_clients"`
	ReadBufferSize  int           `json:"read_buffer_size" yaml:"read_buffer_size"`
	WriteBufferSize int           `json:"write_buffer_size" yaml:"write_buffer_size"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	SendQueueSize   int           `json:"send_queue_size" yaml:"send_queue_size"`
}

type Log struct {
	Level string `json:"level" yaml:"level"`
}

// Default returns the reference sandbox: a 1280x720 arena, ten balls of
// size 50 and a 16ms tick.
func Default() Config {
	return Config{
		Sandbox: Sandbox{
			ArenaWidth:       1280,
			ArenaHeight:      720,
			BodySize:         50,
			BallCount:        10,
			LaunchMultiplier: physics.DefaultLaunchMultiplier,
			Friction:         physics.DefaultFriction,
			StopThreshold:    physics.DefaultStopThreshold,
			TickInterval:     16 * time.Millisecond,
		},
		Server: Server{
			ListenAddr:      "127.0.0.1:8080",
			MaxClients:      64,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			WriteTimeout:    5 * time.Second,
			SendQueueSize:   64,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads YAML from r on top of Default. Missing keys keep defaults.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// Encode writes c as YAML.
func Encode(w io.Writer, c Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// ApplyEnv overrides fields from the process environment.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvListenAddr); ok && v != "" {
		c.Server.ListenAddr = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvSeed, err)
		}
		c.Sandbox.Seed = seed
	}
	if v, ok := lookup(EnvBalls); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvBalls, err)
		}
		c.Sandbox.BallCount = n
	}
	return nil
}

// Validate reports the first problem found.
func (c Config) Validate() error {
	s := c.Sandbox
	switch {
	case s.ArenaWidth <= 0 || s.ArenaHeight <= 0:
		return fmt.Errorf("%w: arena must have a positive size", ErrInvalidConfig)
	case s.BodySize <= 0:
		return fmt.Errorf("%w: body_size must be positive", ErrInvalidConfig)
	case s.BodySize > s.ArenaWidth || s.BodySize > s.ArenaHeight:
		return fmt.Errorf("%w: body_size exceeds the arena", ErrInvalidConfig)
	case s.BallCount < 0:
		return fmt.Errorf("%w: ball_count must not be negative", ErrInvalidConfig)
	case s.Friction <= 0 || s.Friction > 1:
		return fmt.Errorf("%w: friction must be in (0, 1]", ErrInvalidConfig)
	case s.StopThreshold <= 0:
		return fmt.Errorf("%w: stop_threshold must be positive", ErrInvalidConfig)
	case s.LaunchMultiplier <= 0:
		return fmt.Errorf("%w: launch_multiplier must be positive", ErrInvalidConfig)
	case s.TickInterval <= 0:
		return fmt.Errorf("%w: tick_interval must be positive", ErrInvalidConfig)
	}

	if c.Server.ListenAddr == "" {
		return fmt.Errorf("%w: server.listen_addr is required", ErrInvalidConfig)
	}
	if c.Server.MaxClients <= 0 {
		return fmt.Errorf("%w: server.max_clients must be positive", ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LogLevel returns the parsed level, defaulting to info.
func (c Config) LogLevel() log.Level {
	level, _ := log.ParseLevel(c.Log.Level)
	return level
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sgvandijk/vroom/internal/adapters/routing"
	"github.com/sgvandijk/vroom/internal/ports"
)

// Config captures everything the composition roots need: routing engine
// selection, per-profile server addresses, and run defaults.
type Config struct {
	Router      string                    `yaml:"router"`
	Geometry    bool                      `yaml:"geometry"`
	AmountSize  int                       `yaml:"amount_size"`
	Exploration int                       `yaml:"exploration"`
	Threads     int                       `yaml:"threads"`
	Port        string                    `yaml:"port"`
	Servers     map[string]routing.Server `yaml:"servers"`
}

func Default() Config {
	return Config{
		Router:      string(routing.OSRM),
		Exploration: 5,
		Threads:     4,
		Port:        "3000",
		Servers: map[string]routing.Server{
			"car": {Host: "0.0.0.0", Port: "5000"},
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file
// named by VROOM_CONFIG, and environment overrides, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("VROOM_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	}

	cfg.Router = getEnv("VROOM_ROUTER", cfg.Router)
	cfg.Port = getEnv("VROOM_PORT", cfg.Port)
	cfg.Geometry = getEnvBool("VROOM_GEOMETRY", cfg.Geometry)

	var err error
	if cfg.Threads, err = getEnvInt("VROOM_THREADS", cfg.Threads); err != nil {
		return Config{}, err
	}
	if cfg.Exploration, err = getEnvInt("VROOM_EXPLORE", cfg.Exploration); err != nil {
		return Config{}, err
	}
	if cfg.AmountSize, err = getEnvInt("VROOM_AMOUNT_SIZE", cfg.AmountSize); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// NewRouterFunc returns the per-profile adapter factory the instance
// builder uses for profiles without a user-supplied matrix.
func (c Config) NewRouterFunc() func(profile string) (ports.Router, error) {
	kind := routing.Kind(c.Router)
	servers := c.Servers
	return func(profile string) (ports.Router, error) {
		return routing.New(kind, profile, servers)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("load config: %s=%q is not a number", key, v)
	}
	return n, nil
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	MemoMemory = "memory"
	MemoRedis  = "redis"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"SOLVER_LOG_LEVEL" env-default:"info"`
	Workers  int    `yaml:"workers" env:"SOLVER_WORKERS" env-default:"1"`
	Memo     Memo   `yaml:"memo"`
	Redis    Redis  `yaml:"redis"`
	Arena    Arena  `yaml:"arena"`
	Report   Report `yaml:"report"`
}

type Memo struct {
	Backend string `yaml:"backend" env:"SOLVER_MEMO_BACKEND" env-default:"memory"`
}

type Redis struct {
	Host string        `yaml:"host" env:"SOLVER_REDIS_HOST" env-default:"localhost"`
	Port string        `yaml:"port" env:"SOLVER_REDIS_PORT" env-default:"6379"`
	TTL  time.Duration `yaml:"ttl" env:"SOLVER_REDIS_TTL" env-default:"10m"`
}

type Arena struct {
	Games int `yaml:"games" env:"SOLVER_ARENA_GAMES" env-default:"0"`
}

type Report struct {
	NoColor bool `yaml:"no-color" env:"SOLVER_NO_COLOR"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	return config
}

var (
	ErrUnknownBackend = errors.New("unknown memo backend")
	ErrNegativeGames  = errors.New("arena games must not be negative")
)

func (that *Config) Validate() error {
	switch that.Memo.Backend {
	case MemoMemory, MemoRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, that.Memo.Backend)
	}

	if that.Arena.Games < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeGames, that.Arena.Games)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	MemoryStoreFile  = "file"
	MemoryStoreRedis = "redis"
)

var (
	ErrUnknownMemoryStore = errors.New("unknown memory store")
	ErrInvalidLearning    = errors.New("invalid learning boosts")
)

type Config struct {
	LogLevel    string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	MetricsPort string   `yaml:"metrics-port" env:"METRICS_PORT" env-default:""`
	Board       Board    `yaml:"board"`
	Training    Training `yaml:"training"`
	Learning    Learning `yaml:"learning"`
	Memory      Memory   `yaml:"memory"`
	Redis       Redis    `yaml:"redis"`
}

type Board struct {
	Rows int `yaml:"rows" env:"BOARD_ROWS" env-default:"3"`
	Cols int `yaml:"cols" env:"BOARD_COLS" env-default:"3"`
}

type Training struct {
	Games     int   `yaml:"games" env:"TRAINING_GAMES" env-default:"100000"`
	BatchSize int   `yaml:"batch-size" env:"TRAINING_BATCH_SIZE" env-default:"10000"`
	Seed      int64 `yaml:"seed" env:"TRAINING_SEED" env-default:"0"`
}

type Learning struct {
	DefaultWeight    int `yaml:"default-weight" env:"LEARNING_DEFAULT_WEIGHT" env-default:"10"`
	WinBoost         int `yaml:"win-boost" env:"LEARNING_WIN_BOOST" env-default:"3"`
	WinningMoveBoost int `yaml:"winning-move-boost" env:"LEARNING_WINNING_MOVE_BOOST" env-default:"50"`
	TieBoost         int `yaml:"tie-boost" env:"LEARNING_TIE_BOOST" env-default:"1"`
	LoseBoost        int `yaml:"lose-boost" env:"LEARNING_LOSE_BOOST" env-default:"1"`
}

type Memory struct {
	Store string `yaml:"store" env:"MEMORY_STORE" env-default:"file"`
	XPath string `yaml:"x-path" env:"MEMORY_X_PATH" env-default:"memory_x.json"`
	OPath string `yaml:"o-path" env:"MEMORY_O_PATH" env-default:"memory_o.json"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Load reads path if it exists, otherwise only the environment and defaults.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("could not read config %s: %w", path, err)
		}
	} else {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("could not read environment: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	if that.Board.Rows < 1 || that.Board.Cols < 1 {
		return fmt.Errorf("board must be at least 1x1, got %dx%d", that.Board.Rows, that.Board.Cols)
	}

	if that.Training.Games < 0 {
		return fmt.Errorf("training games must not be negative, got %d", that.Training.Games)
	}

	if err := that.Learning.Validate(); err != nil {
		return err
	}

	switch that.Memory.Store {
	case MemoryStoreFile, MemoryStoreRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMemoryStore, that.Memory.Store)
	}

	return nil
}

// Validate keeps weights non-negative: boosts are never negative and the
// decisive move gains strictly more than the other moves of a win.
func (that *Learning) Validate() error {
	if that.DefaultWeight < 1 {
		return fmt.Errorf("%w: default-weight must be positive, got %d", ErrInvalidLearning, that.DefaultWeight)
	}

	if that.WinBoost < 0 || that.TieBoost < 0 || that.LoseBoost < 0 {
		return fmt.Errorf("%w: win-boost %d, tie-boost %d and lose-boost %d must not be negative",
			ErrInvalidLearning, that.WinBoost, that.TieBoost, that.LoseBoost)
	}

	if that.WinningMoveBoost <= that.WinBoost {
		return fmt.Errorf("%w: winning-move-boost %d must exceed win-boost %d",
			ErrInvalidLearning, that.WinningMoveBoost, that.WinBoost)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/nDmitry/podfeed/internal/entity"
	"gopkg.in/yaml.v3"
)

const (
	defaultLogLevel     = "info"
	defaultYtdlpPath    = "yt-dlp"
	defaultYtdlpTimeout = 30 * time.Minute
	defaultAudioFormat  = "bestaudio"
)

// Read loads the config file at configPath, applies environment overrides and fills
// in defaults. An empty configPath skips the file.
func Read(configPath string) (*entity.Config, error) {
	var config entity.Config

	if configPath != "" {
		contents, err := os.ReadFile(configPath)

		if err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}

		if err = yaml.Unmarshal(contents, &config); err != nil {
			return nil, fmt.Errorf("could not parse config file: %w", err)
		}
	}

	if err := applyEnv(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if config.RedisTTL < 0 {
		return nil, fmt.Errorf("redis_ttl must be non-negative")
	}

	return &config, nil
}

func applyEnv(config *entity.Config) error {
	if v := os.Getenv("PODFEED_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}

	if v := os.Getenv("PODFEED_HISTORY_PATH"); v != "" {
		config.HistoryPath = v
	}

	if v := os.Getenv("PODFEED_YTDLP_PATH"); v != "" {
		config.Ytdlp.Path = v
	}

	if v := os.Getenv("PODFEED_REDIS_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)

		if err != nil {
			return fmt.Errorf("PODFEED_REDIS_TTL must be a duration: %w", err)
		}

		config.RedisTTL = ttl
	}

	return nil
}

func applyDefaults(config *entity.Config) {
	if config.LogLevel == "" {
		config.LogLevel = defaultLogLevel
	}

	if config.Ytdlp.Path == "" {
		config.Ytdlp.Path = defaultYtdlpPath
	}

	if config.Ytdlp.Timeout == 0 {
		config.Ytdlp.Timeout = defaultYtdlpTimeout
	}

	if config.Ytdlp.AudioFormat == "" {
		config.Ytdlp.AudioFormat = defaultAudioFormat
	}
}

package entity

import "time"

type Config struct {
	LogLevel string `yaml:"log_level"`
	// Empty disables the run history.
	HistoryPath string      `yaml:"history_path"`
	Ytdlp       YtdlpConfig `yaml:"ytdlp"`
	// RedisTTL applies to feeds written to a redis:// target, 0 keeps them forever.
	RedisTTL time.Duration `yaml:"redis_ttl"`
}

type YtdlpConfig struct {
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
	// Format selector passed to -f when resolving media URLs.
	AudioFormat string `yaml:"audio_format"`
}

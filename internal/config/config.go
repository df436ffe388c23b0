package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	MiB = 1 << 20
	KiB = 1 << 10
)

// DownloadProfile задаёт параметры синтетического скачивания /download-{size}.
type DownloadProfile struct {
	TotalBytes int64 `yaml:"total_bytes" json:"total_bytes"`
	ChunkBytes int64 `yaml:"chunk_bytes" json:"chunk_bytes"`
}

// JSONStream задаёт параметры /stream-large-json.
type JSONStream struct {
	Items      int   `yaml:"items" json:"items"`
	FillerLen  int   `yaml:"filler_len" json:"filler_len"`
	ChunkBytes int64 `yaml:"chunk_bytes" json:"chunk_bytes"`
}

// TextStream задаёт параметры /stream-text.
type TextStream struct {
	Text       string        `yaml:"text" json:"text"`
	Repeat     int           `yaml:"repeat" json:"repeat"`
	ChunkBytes int64         `yaml:"chunk_bytes" json:"chunk_bytes"`
	Interval   time.Duration `yaml:"interval" json:"interval"`
}

type Config struct {
	ListenAddr    string                     `yaml:"listen_addr" json:"listen_addr"`
	UploadsDir    string                     `yaml:"uploads_dir" json:"uploads_dir"`
	MaxFileSize   int64                      `yaml:"max_file_size" json:"max_file_size"`
	LogLevel      string                     `yaml:"log_level" json:"log_level"`
	LogFormat     string                     `yaml:"log_format" json:"log_format"`
	GCTTLHours    int                        `yaml:"gc_ttl_hours" json:"gc_ttl_hours"`
	GCIntervalMin int                        `yaml:"gc_interval_min" json:"gc_interval_min"`
	HighWaterMark int64                      `yaml:"high_water_mark" json:"high_water_mark"`
	ProgressEvery int64                      `yaml:"progress_every" json:"progress_every"`
	Downloads     map[string]DownloadProfile `yaml:"downloads" json:"downloads"`
	JSONStream    JSONStream                 `yaml:"json_stream" json:"json_stream"`
	TextStream    TextStream                 `yaml:"text_stream" json:"text_stream"`
}

// Default возвращает конфигурацию со значениями, повторяющими исходный демо-сервер.
func Default() *Config {
	return &Config{
		ListenAddr:    ":3000",
		UploadsDir:    "uploads",
		MaxFileSize:   10 * MiB,
		LogLevel:      "info",
		LogFormat:     "text",
		HighWaterMark: 16 * KiB,
		ProgressEvery: 50 * MiB,
		Downloads: map[string]DownloadProfile{
			"500mb": {TotalBytes: 25 * MiB, ChunkBytes: 5 * MiB},
		},
		JSONStream: JSONStream{
			Items:      10_000,
			FillerLen:  1000,
			ChunkBytes: 64 * KiB,
		},
		TextStream: TextStream{
			Text:       "Hello from streaming endpoint!\n",
			Repeat:     100,
			ChunkBytes: 100,
			Interval:   50 * time.Millisecond,
		},
	}
}

// Load читает YAML-конфигурацию поверх дефолтов, применяет ENV-переопределения и проверяет результат.
func Load() (*Config, error) {
	c := Default()

	path := getenv("CONFIG_PATH", "./config.yaml")
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Без файла работаем на дефолтах.
	default:
		return nil, err
	}

	// ENV override
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("UPLOADS_DIR"); v != "" {
		c.UploadsDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	c.MaxFileSize = envInt64("MAX_FILE_SIZE", c.MaxFileSize)
	c.GCTTLHours = int(envInt64("GC_TTL_HOURS", int64(c.GCTTLHours)))
	c.GCIntervalMin = int(envInt64("GC_INTERVAL_MIN", int64(c.GCIntervalMin)))

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate проверяет, что все размеры положительные.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.UploadsDir) == "" {
		return fmt.Errorf("uploads_dir is empty")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be > 0")
	}
	if c.HighWaterMark <= 0 {
		return fmt.Errorf("high_water_mark must be > 0")
	}
	for name, p := range c.Downloads {
		if p.TotalBytes <= 0 || p.ChunkBytes <= 0 {
			return fmt.Errorf("downloads.%s: total_bytes and chunk_bytes must be > 0", name)
		}
	}
	if c.JSONStream.Items < 0 || c.JSONStream.FillerLen < 0 || c.JSONStream.ChunkBytes <= 0 {
		return fmt.Errorf("json_stream: invalid sizes")
	}
	if c.TextStream.Repeat < 0 || c.TextStream.ChunkBytes <= 0 || c.TextStream.Interval < 0 {
		return fmt.Errorf("text_stream: invalid sizes")
	}

	return nil
}

// GCTTL и GCInterval переводят часы/минуты из конфига в time.Duration.
func (c *Config) GCTTL() time.Duration { return time.Duration(c.GCTTLHours) * time.Hour }

func (c *Config) GCInterval() time.Duration { return time.Duration(c.GCIntervalMin) * time.Minute }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}

// envInt64 возвращает целочисленное значение из переменной окружения либо дефолт.
func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

// Package config loads environment configuration for cropslice.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultListenAddr        = "0.0.0.0:8787"
	defaultDataDir           = "./data"
	defaultStateFile         = "state.yaml"
	defaultOutputFile        = "cropped.png"
	defaultScreenW           = 1280
	defaultScreenH           = 800
	defaultPreviewEnabled    = true
	defaultPreviewIntervalMs = 100
	defaultPreviewQuality    = 70
	defaultDoubleTapMs       = 300
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr        string
	UIPassword        string
	DataDir           string
	StatePath         string
	ImagePath         string
	OutputPath        string
	ScreenW           int
	ScreenH           int
	PreviewEnabled    bool
	PreviewIntervalMs int
	PreviewQuality    int
	DoubleTapMs       int
}

// Load reads configuration from ./data/.env and environment variables.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	if err := loadEnvFile(filepath.Join(defaultDataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ListenAddr: envString("LISTEN_ADDR", defaultListenAddr),
		DataDir:    envString("DATA_DIR", defaultDataDir),
		ImagePath:  envString("IMAGE_PATH", ""),
		UIPassword: strings.TrimSpace(os.Getenv("UI_PASSWORD")),
	}
	cfg.StatePath = envString("STATE_PATH", filepath.Join(cfg.DataDir, defaultStateFile))
	cfg.OutputPath = envString("OUTPUT_PATH", filepath.Join(cfg.DataDir, defaultOutputFile))
	cfg.PreviewEnabled = envBool("PREVIEW_ENABLED", defaultPreviewEnabled)

	ints := []struct {
		key string
		def int
		dst *int
		ok  func(int) bool
		msg string
	}{
		{"SCREEN_W", defaultScreenW, &cfg.ScreenW, positive, "must be > 0"},
		{"SCREEN_H", defaultScreenH, &cfg.ScreenH, positive, "must be > 0"},
		{"PREVIEW_INTERVAL_MS", defaultPreviewIntervalMs, &cfg.PreviewIntervalMs, func(v int) bool { return v >= 0 }, "must be >= 0"},
		{"PREVIEW_QUALITY", defaultPreviewQuality, &cfg.PreviewQuality, func(v int) bool { return v > 0 && v <= 100 }, "must be 1-100"},
		{"DOUBLE_TAP_MS", defaultDoubleTapMs, &cfg.DoubleTapMs, positive, "must be > 0"},
	}
	for _, it := range ints {
		v, err := envInt(it.key, it.def)
		if err != nil {
			return Config{}, err
		}
		if !it.ok(v) {
			return Config{}, fmt.Errorf("%s %s", it.key, it.msg)
		}
		*it.dst = v
	}

	if cfg.ImagePath == "" {
		return Config{}, errors.New("IMAGE_PATH is required")
	}
	if cfg.UIPassword == "" {
		return Config{}, errors.New("UI_PASSWORD is required")
	}
	return cfg, nil
}

func positive(v int) bool { return v > 0 }

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// loadEnvFile loads KEY=VALUE pairs from a .env file. A missing file is
// not an error.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, value, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	return key, strings.Trim(strings.TrimSpace(value), `"'`), true
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile behaves like Load but reads the given config file instead of
// searching the working directory. An empty path falls back to the default
// search behavior.
func LoadWithFile(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults for everything a single-user install should not have to set.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("queue.file_path", "tmp/addition_queue.json")
	v.SetDefault("queue.idle_poll_interval", 5*time.Second)
	v.SetDefault("queue.item_pause", time.Second)
	v.SetDefault("queue.dedup_window", 5*time.Second)
	v.SetDefault("queue.stuck_item_age", 15*time.Minute)
	v.SetDefault("queue.monitor_interval", 10*time.Second)
	v.SetDefault("queue.completed_retention", time.Hour)
	v.SetDefault("media.ffmpeg_path", "ffmpeg")
	v.SetDefault("media.audio_dir", "media/audio")
	v.SetDefault("tts.endpoint", "https://translate.google.com/translate_tts")
	v.SetDefault("tts.language_code", "fr")

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Configure environment variables
	v.SetEnvPrefix("LEXICARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind critical environment variables
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"server.port", "LEXICARD_SERVER_PORT"},
		{"server.log_level", "LEXICARD_SERVER_LOG_LEVEL"},
		{"database.url", "LEXICARD_DATABASE_URL"},
		{"queue.file_path", "LEXICARD_QUEUE_FILE_PATH"},
		{"media.ffmpeg_path", "LEXICARD_MEDIA_FFMPEG_PATH"},
		{"media.audio_dir", "LEXICARD_MEDIA_AUDIO_DIR"},
		{"tts.endpoint", "LEXICARD_TTS_ENDPOINT"},
		{"tts.language_code", "LEXICARD_TTS_LANGUAGE_CODE"},
	}
	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Queue    QueueConfig    `mapstructure:"queue" validate:"required"`
	Media    MediaConfig    `mapstructure:"media" validate:"required"`
	TTS      TTSConfig      `mapstructure:"tts" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// QueueConfig controls the persistent work queue and its background worker.
type QueueConfig struct {
	// FilePath is the JSON queue file. The directory is created on startup.
	FilePath string `mapstructure:"file_path" validate:"required"`

	// IdlePollInterval is how long the worker sleeps when no work is pending.
	IdlePollInterval time.Duration `mapstructure:"idle_poll_interval" validate:"required"`

	// ItemPause is the pause between finalizing one item and claiming the next.
	ItemPause time.Duration `mapstructure:"item_pause" validate:"required"`

	// DedupWindow rejects re-enqueues of an identical payload within this window.
	DedupWindow time.Duration `mapstructure:"dedup_window" validate:"required"`

	// StuckItemAge is the ceiling after which a processing item is failed
	// with a timeout message by the periodic monitor.
	StuckItemAge time.Duration `mapstructure:"stuck_item_age" validate:"required"`

	// MonitorInterval is how often the periodic monitor runs.
	MonitorInterval time.Duration `mapstructure:"monitor_interval" validate:"required"`

	// CompletedRetention prunes completed items older than this age.
	CompletedRetention time.Duration `mapstructure:"completed_retention" validate:"required"`
}

// MediaConfig contains media processing settings.
type MediaConfig struct {
	// FFmpegPath is the ffmpeg binary used for trimming and transcoding.
	FFmpegPath string `mapstructure:"ffmpeg_path" validate:"required"`

	// AudioDir is the destination directory for processed clips.
	AudioDir string `mapstructure:"audio_dir" validate:"required"`
}

// TTSConfig contains text-to-speech synthesis settings.
type TTSConfig struct {
	Endpoint     string `mapstructure:"endpoint" validate:"required,url"`
	LanguageCode string `mapstructure:"language_code" validate:"required"`
}

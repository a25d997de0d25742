package conf

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig
	MinIO    MinIOConfig
	Media    MediaConfig
	FFmpeg   FFmpegConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// MediaConfig controls validation limits and variant presets for the
// gallery pipeline. Zero values fall back to the documented defaults.
type MediaConfig struct {
	KeyPrefix        string        `mapstructure:"key_prefix"`
	MaxImageSize     int64         `mapstructure:"max_image_size"`
	MaxVideoSize     int64         `mapstructure:"max_video_size"`
	ThumbnailSize    int           `mapstructure:"thumbnail_size"`
	MediumSize       int           `mapstructure:"medium_size"`
	LargeSize        int           `mapstructure:"large_size"`
	VideoThumbWidth  int           `mapstructure:"video_thumb_width"`
	VideoThumbHeight int           `mapstructure:"video_thumb_height"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
}

type FFmpegConfig struct {
	FFmpegPath    string        `mapstructure:"ffmpeg_path"`
	FFprobePath   string        `mapstructure:"ffprobe_path"`
	ThumbnailAt   time.Duration `mapstructure:"thumbnail_at"`
	ProbeTimeout  time.Duration `mapstructure:"probe_timeout"`
	EncodeTimeout time.Duration `mapstructure:"encode_timeout"`
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

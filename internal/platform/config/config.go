package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// EnvConfigFile names the settings file to read. Unset means "./.env" if present.
const EnvConfigFile = "ANICAT_CONFIG"

const defaultConfigFile = ".env"

const (
	LogLevelDebug    = "debug"
	LogLevelInfo     = "info"
	LogLevelWarn     = "warn"
	LogLevelWarning  = "warning"
	LogLevelError    = "error"
	LogLevelCritical = "critical"
)

type ServerConfig struct {
	Addr               string `mapstructure:"http_addr"`
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
}

// HTTPConfig holds the outbound client settings.
type HTTPConfig struct {
	Timeout        time.Duration `mapstructure:"http_timeout"`
	ConnectTimeout time.Duration `mapstructure:"http_connect_timeout"`
	MaxConnections int           `mapstructure:"http_max_connections"`
	HTTP2Enabled   bool          `mapstructure:"http2_enabled"`
}

type APIConfig struct {
	BaseURL  string `mapstructure:"api_base_url"`
	Key      string `mapstructure:"api_key"`
	Username string `mapstructure:"api_username"`
}

type LogConfig struct {
	Level         string `mapstructure:"log_level"`
	FilePath      string `mapstructure:"log_file_path"`
	IncludeArgs   bool   `mapstructure:"log_include_args"`
	IncludeResult bool   `mapstructure:"log_include_result"`
	Errors        bool   `mapstructure:"log_errors"`
	MaxSizeMB     int    `mapstructure:"log_file_max_size_mb"`
	MaxBackups    int    `mapstructure:"log_file_max_backups"`
	MaxAgeDays    int    `mapstructure:"log_file_max_age_days"`
	Compress      bool   `mapstructure:"log_file_compress"`
}

type NATSConfig struct {
	URL string `mapstructure:"nats_url"`
}

type AppConfig struct {
	AppName string       `mapstructure:"app_name"`
	Debug   bool         `mapstructure:"debug"`
	Server  ServerConfig `mapstructure:",squash"`
	HTTP    HTTPConfig   `mapstructure:",squash"`
	API     APIConfig    `mapstructure:",squash"`
	Log     LogConfig    `mapstructure:",squash"`
	NATS    NATSConfig   `mapstructure:",squash"`
}

var defaults = map[string]any{
	"app_name":              "anicat",
	"debug":                 false,
	"http_addr":             ":8080",
	"cors_allowed_origins":  "",
	"http_timeout":          15 * time.Second,
	"http_connect_timeout":  5 * time.Second,
	"http_max_connections":  200,
	"http2_enabled":         true,
	"api_base_url":          "https://api.jikan.moe/v4",
	"api_key":               "",
	"api_username":          "",
	"log_level":             "INFO",
	"log_file_path":         "logs/anicat.log",
	"log_include_args":      true,
	"log_include_result":    true,
	"log_errors":            true,
	"log_file_max_size_mb":  100,
	"log_file_max_backups":  3,
	"log_file_max_age_days": 7,
	"log_file_compress":     false,
	"nats_url":              "",
}

// Load reads defaults, then the optional settings file, then the environment.
// Keys are case-insensitive in both the file and the environment.
func Load() (AppConfig, error) {
	return LoadFile(os.Getenv(EnvConfigFile))
}

// LoadFile is Load with an explicit settings file. An empty path falls back
// to "./.env", which may be absent; a named file must exist.
func LoadFile(path string) (AppConfig, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	bindEnvAnyCase(v)

	path = strings.TrimSpace(path)
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, err
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, err
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// bindEnvAnyCase applies environment variables whose names match a known key
// in any casing. AutomaticEnv only looks up the upper-case form.
func bindEnvAnyCase(v *viper.Viper) {
	for _, kv := range os.Environ() {
		name, val, ok := strings.Cut(kv, "=")
		if !ok || val == "" || name == strings.ToUpper(name) {
			continue
		}
		key := strings.ToLower(name)
		if _, known := defaults[key]; known {
			v.Set(key, val)
		}
	}
}

// Defaults returns the configuration used when nothing is set.
func Defaults() AppConfig {
	return AppConfig{
		AppName: "anicat",
		Server:  ServerConfig{Addr: ":8080"},
		HTTP: HTTPConfig{
			Timeout:        15 * time.Second,
			ConnectTimeout: 5 * time.Second,
			MaxConnections: 200,
			HTTP2Enabled:   true,
		},
		API: APIConfig{BaseURL: "https://api.jikan.moe/v4"},
		Log: LogConfig{
			Level:         LogLevelInfo,
			FilePath:      "logs/anicat.log",
			IncludeArgs:   true,
			IncludeResult: true,
			Errors:        true,
			MaxSizeMB:     100,
			MaxBackups:    3,
			MaxAgeDays:    7,
		},
	}
}

func (c AppConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.AppName, validation.Required),
		validation.Field(&c.Server, validation.By(func(value interface{}) error {
			sc, ok := value.(ServerConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a ServerConfig")
			}
			return validation.ValidateStruct(&sc,
				validation.Field(&sc.Addr, validation.Required),
			)
		})),
		validation.Field(&c.HTTP, validation.By(func(value interface{}) error {
			hc, ok := value.(HTTPConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be an HTTPConfig")
			}
			return validation.ValidateStruct(&hc,
				validation.Field(&hc.Timeout, validation.Required, validation.Min(time.Millisecond)),
				validation.Field(&hc.ConnectTimeout, validation.Required, validation.Min(time.Millisecond)),
				validation.Field(&hc.MaxConnections, validation.Required, validation.Min(1)),
			)
		})),
		validation.Field(&c.API, validation.By(func(value interface{}) error {
			ac, ok := value.(APIConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be an APIConfig")
			}
			return validation.ValidateStruct(&ac,
				validation.Field(&ac.BaseURL, validation.Required, validation.By(validateBaseURL)),
			)
		})),
		validation.Field(&c.Log, validation.By(func(value interface{}) error {
			lc, ok := value.(LogConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a LogConfig")
			}
			return validation.ValidateStruct(&lc,
				validation.Field(&lc.Level,
					validation.Required,
					validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelWarning, LogLevelError, LogLevelCritical),
				),
				validation.Field(&lc.MaxSizeMB, validation.Min(0)),
				validation.Field(&lc.MaxBackups, validation.Min(0)),
				validation.Field(&lc.MaxAgeDays, validation.Min(0)),
			)
		})),
	)
}

// Redacted returns a copy safe to print.
func (c AppConfig) Redacted() AppConfig {
	if c.API.Key != "" {
		c.API.Key = "****"
	}
	return c
}

func validateBaseURL(value interface{}) error {
	raw, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}
	if u.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}
	return nil
}

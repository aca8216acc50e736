package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Конечная структура конфигурации консоли.
type Config struct {
	Server struct {
		Address         string        `mapstructure:"address"`   // 127.0.0.1
		HTTPPort        string        `mapstructure:"http_port"` // 8080
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Backend struct {
		BaseURL string        `mapstructure:"base_url"` // https://api.example.org
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"backend"`

	Logging struct {
		Level  string `mapstructure:"level"`  // trace|debug|info|warning|error|fatal
		Format string `mapstructure:"format"` // text|json
		File   string `mapstructure:"file"`   // путь/префикс файла, пусто: только stdout
	} `mapstructure:"logs"`

	Database struct {
		Driver string `mapstructure:"driver"` // "postgres" | "mysql" | "" (сессия только в памяти)
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Session struct {
		Secret string `mapstructure:"secret"` // ключ шифрования токенов в БД
		Slot   string `mapstructure:"slot"`   // имя рабочего места; одна сессия на слот
	} `mapstructure:"session"`

	Cache struct {
		Capacity     int           `mapstructure:"capacity"`
		GCTime       time.Duration `mapstructure:"gc_time"`
		FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	} `mapstructure:"cache"`

	Telemetry struct {
		ServiceName  string `mapstructure:"service_name"`
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
		Insecure     bool   `mapstructure:"insecure"`
	} `mapstructure:"telemetry"`
}

// Listen: адрес для http.Server.
func (c *Config) Listen() string { return c.Server.Address + ":" + c.Server.HTTPPort }

func defaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.http_port", "8080")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("backend.base_url", "")
	v.SetDefault("backend.timeout", "15s")

	v.SetDefault("logs.level", "info")
	v.SetDefault("logs.format", "text")
	v.SetDefault("logs.file", "")

	// DB: по умолчанию нет, сессия живёт до перезапуска
	v.SetDefault("database.driver", "")
	v.SetDefault("database.dsn", "")

	v.SetDefault("session.secret", "CHANGE_ME")
	v.SetDefault("session.slot", "default")

	v.SetDefault("cache.capacity", 1024)
	v.SetDefault("cache.gc_time", "5m")
	v.SetDefault("cache.fetch_timeout", "30s")

	v.SetDefault("telemetry.service_name", "guardhouse")
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.insecure", false)
}

// Flags: флаги командной строки; значения перекрывают файл и окружение.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("guardhouse", pflag.ContinueOnError)
	fs.String("config", "", "path to config file (yaml)")
	fs.String("backend-url", "", "backend base URL")
	fs.String("listen-port", "", "HTTP port of the console")
	fs.String("log-level", "", "log level")
	return fs
}

// Load читает конфиг: .env -> окружение -> файл -> флаги, с дефолтами.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env: %w", err)
	}

	flags := Flags()
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	defaults(v)

	for key, flag := range map[string]string{
		"backend.base_url": "backend-url",
		"server.http_port": "listen-port",
		"logs.level":       "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, err
		}
	}

	cfgFile, _ := flags.GetString("config")
	if cfgFile == "" {
		cfgFile = os.Getenv("CONFIG_FILE")
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "guardhouse"))
		}
		v.AddConfigPath("/etc/guardhouse")
	}

	// файл опционален, если не указан явно
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(args []string) *Config {
	cfg, err := Load(args)
	if err != nil {
		panic(err)
	}
	return cfg
}

func validate(c *Config) error {
	u, err := url.Parse(c.Backend.BaseURL)
	if c.Backend.BaseURL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an http(s) URL, got %q", c.Backend.BaseURL)
	}
	if strings.TrimSpace(c.Server.Address) == "" {
		return errors.New("server.address must not be empty")
	}
	if strings.TrimSpace(c.Server.HTTPPort) == "" {
		return errors.New("server.http_port must not be empty")
	}
	switch c.Database.Driver {
	case "":
	case "postgres", "mysql":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("database.dsn must be set when database.driver is set")
		}
		// токены в БД шифруются; дефолтный секрет недопустим
		if s := strings.TrimSpace(c.Session.Secret); s == "" || s == "CHANGE_ME" {
			return errors.New("session.secret must be set (not empty and not CHANGE_ME) when a database is used")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Cache.Capacity <= 0 {
		return errors.New("cache.capacity must be positive")
	}
	if c.Cache.GCTime <= 0 {
		return errors.New("cache.gc_time must be positive")
	}
	return nil
}

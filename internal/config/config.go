package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		Driver string
		DSN    string
		Reset  bool
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Session struct {
		Secret       string
		TTL          time.Duration
		CookieName   string
		CookieSecure bool
	}
	CORS struct {
		Origins []string
	}
	Log struct {
		Level  string
		Format string
	}
	Swagger struct {
		Host string
	}
}

// Load reads configuration from FORUM_* environment variables and an
// optional config.yaml in the working directory.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FORUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "5000")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/forum.db")
	v.SetDefault("database.reset", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cookiename", "session")
	v.SetDefault("session.cookiesecure", false)
	v.SetDefault("cors.origins", []string{"http://localhost:8501"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("swagger.host", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Session.Secret) == "" {
		return errors.New("session secret is required (FORUM_SESSION_SECRET)")
	}
	if len(c.Session.Secret) < 32 {
		return errors.New("session secret must be at least 32 bytes")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.Session.CookieName == "" {
		return errors.New("session cookie name is required")
	}
	return nil
}

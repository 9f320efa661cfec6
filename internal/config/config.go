package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Account is one gym login the service can book for. Token authenticates the
// inbound caller; Email/Password authenticate against the gym site itself.
type Account struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`

	// Token is the bearer token for the /book endpoint: either the raw
	// token or a bcrypt hash of it (prefix "$2", see `wodbooker token`).
	Token string `mapstructure:"token"`

	// Scheduled opts the account into the daily scheduled booking run.
	Scheduled   bool   `mapstructure:"scheduled"`
	DefaultSlot string `mapstructure:"default_slot"`
}

type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`

	// SiteURL is the login entry point of the gym scheduling site.
	SiteURL  string `mapstructure:"site_url"`
	Headless bool   `mapstructure:"headless"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	// DatabaseURL enables the Postgres attempt history when set.
	DatabaseURL string `mapstructure:"database_url"`

	// StepTimeout bounds each individual wait-for-element step.
	StepTimeout time.Duration `mapstructure:"step_timeout"`

	// BookingTTL bounds how long a booked marker lives in the store. It must
	// cover the booking's validity window; anything below 24h is rejected.
	BookingTTL time.Duration `mapstructure:"booking_ttl"`

	// ScheduleAt is the local wall-clock time ("HH:MM") of the daily
	// scheduled run. Empty disables the scheduler.
	ScheduleAt string `mapstructure:"schedule_at"`

	// CrawlSlot is the slot whose detail panel carries the day's workout.
	CrawlSlot string `mapstructure:"crawl_slot"`

	// SignUpLabels are the recognized sign-up control captions. The remote
	// UI switches language per locale, so more than one is allowed.
	SignUpLabels []string `mapstructure:"sign_up_labels"`

	LogLevel string `mapstructure:"log_level"`

	Accounts []Account `mapstructure:"accounts"`
}

// Load reads config.yaml (working dir or ./config) merged with WODBOOKER_*
// environment variables and built-in defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("WODBOOKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("site_url", "https://creativesportscompany.sportbitapp.nl/web/en/login")
	v.SetDefault("headless", true)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("step_timeout", "5s")
	v.SetDefault("booking_ttl", "48h")
	v.SetDefault("crawl_slot", "17:00-18:00")
	v.SetDefault("sign_up_labels", []string{"Sign up", "Aanmelden"})
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		// env-only operation is fine
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SiteURL == "" {
		return fmt.Errorf("site_url is required")
	}
	if c.StepTimeout <= 0 {
		return fmt.Errorf("step_timeout must be positive")
	}
	if c.BookingTTL < 24*time.Hour {
		return fmt.Errorf("booking_ttl must be at least 24h, got %s", c.BookingTTL)
	}
	if len(c.SignUpLabels) == 0 {
		return fmt.Errorf("sign_up_labels must not be empty")
	}
	seen := make(map[string]bool, len(c.Accounts))
	for i, a := range c.Accounts {
		if a.Name == "" {
			return fmt.Errorf("accounts[%d]: name is required", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("accounts[%d]: duplicate name %q", i, a.Name)
		}
		seen[a.Name] = true
		if a.Email == "" || a.Password == "" {
			return fmt.Errorf("account %q: email and password are required", a.Name)
		}
		if a.Token == "" {
			return fmt.Errorf("account %q: token is required", a.Name)
		}
	}
	return nil
}

// AccountByName returns the named account, or false when unknown.
func (c Config) AccountByName(name string) (Account, bool) {
	for _, a := range c.Accounts {
		if a.Name == name {
			return a, true
		}
	}
	return Account{}, false
}

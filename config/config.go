package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// DefaultEndpoint is the Practicum homework statuses API.
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	// DefaultRetryPeriod is the pause between two polls.
	DefaultRetryPeriod = 600 * time.Second
	// DefaultEnvFile is read when present in the working directory.
	DefaultEnvFile = ".env"
)

// Config holds everything the bot needs to start. It is built once by Load
// and handed to the components that need it.
type Config struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID string

	Endpoint       string
	RetryPeriod    time.Duration
	RequestTimeout time.Duration

	Debug       bool
	MetricsPort int
	DBPath      string
	Lang        string
}

// MissingEnvError reports a required variable that is absent or empty.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return "missing required environment variable: \"" + e.Name + "\""
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.BindEnv("practicum_token", "PRACTICUM_TOKEN")
	v.BindEnv("telegram_token", "TELEGRAM_TOKEN")
	v.BindEnv("telegram_chat_id", "TELEGRAM_CHAT_ID")
	v.BindEnv("practicum_endpoint", "PRACTICUM_ENDPOINT")
	v.BindEnv("retry_period", "RETRY_PERIOD")
	v.BindEnv("request_timeout", "REQUEST_TIMEOUT")
	v.BindEnv("debug", "DEBUG")
	v.BindEnv("metrics_port", "METRICS_PORT")
	v.BindEnv("db_path", "DB_PATH")
	v.BindEnv("bot_lang", "BOT_LANG")

	v.SetDefault("practicum_endpoint", DefaultEndpoint)
	v.SetDefault("retry_period", DefaultRetryPeriod.String())
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("debug", true)
	v.SetDefault("metrics_port", 9090)
	v.SetDefault("db_path", "data/bot.db")
	v.SetDefault("bot_lang", "ru")

	return v
}

// Load reads the configuration from the environment, falling back to envFile
// when it exists. Variables set in the environment take precedence over the
// file. The returned Config is validated.
func Load(envFile string) (Config, error) {
	v := newViper()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, errors.Wrapf(err, "could not read %s", envFile)
			}
		}
	}

	retryPeriod, err := parseDuration(v.GetString("retry_period"))
	if err != nil {
		return Config{}, errors.Wrap(err, "RETRY_PERIOD")
	}
	requestTimeout, err := parseDuration(v.GetString("request_timeout"))
	if err != nil {
		return Config{}, errors.Wrap(err, "REQUEST_TIMEOUT")
	}

	cfg := Config{
		PracticumToken: strings.TrimSpace(v.GetString("practicum_token")),
		TelegramToken:  strings.TrimSpace(v.GetString("telegram_token")),
		TelegramChatID: strings.TrimSpace(v.GetString("telegram_chat_id")),
		Endpoint:       v.GetString("practicum_endpoint"),
		RetryPeriod:    retryPeriod,
		RequestTimeout: requestTimeout,
		Debug:          v.GetBool("debug"),
		MetricsPort:    v.GetInt("metrics_port"),
		DBPath:         v.GetString("db_path"),
		Lang:           v.GetString("bot_lang"),
	}

	return cfg, cfg.Validate()
}

// Validate checks the required credentials in a fixed order and reports the
// first one that is missing.
func (c Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"PRACTICUM_TOKEN", c.PracticumToken},
		{"TELEGRAM_TOKEN", c.TelegramToken},
		{"TELEGRAM_CHAT_ID", c.TelegramChatID},
	}

	for _, r := range required {
		if r.value == "" {
			return &MissingEnvError{Name: r.name}
		}
	}

	if c.RetryPeriod <= 0 {
		return errors.New("RETRY_PERIOD must be positive")
	}
	return nil
}

// parseDuration accepts either a Go duration ("10m") or a plain number of
// seconds ("600").
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration %q", s)
	}
	return d, nil
}

// config предоставляет структуру конфигурации админки
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Remote   RemoteConfig   `yaml:"remote"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Bulk     BulkConfig     `yaml:"bulk"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// HTTPConfig — HTTP-сервер, который обслуживает дашборд.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50090"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// RemoteConfig — удалённый API контент-пайплайна.
type RemoteConfig struct {
	BaseURL string `yaml:"base_url" env:"API_BASE_URL" env-default:"http://127.0.0.1:5000"`
	// Timeout — таймаут одного запроса.
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"30s"`
	// UploadTimeout — таймаут multipart-загрузок (видео, картинки, ручные посты).
	UploadTimeout time.Duration `yaml:"upload_timeout" env:"API_UPLOAD_TIMEOUT" env-default:"10m"`
	// RetryMax — повторы только для идемпотентных GET; мутации не повторяются.
	// Нулевое значение cleanenv заменяет дефолтом, поэтому повторы отключаются отрицательным.
	RetryMax  int    `yaml:"retry_max"  env:"API_RETRY_MAX"  env-default:"2"`
	UserAgent string `yaml:"user_agent" env:"API_USER_AGENT" env-default:"kickoffzone-admin"`
}

// ScheduleConfig — политика отложенной публикации.
type ScheduleConfig struct {
	MinLead time.Duration `yaml:"min_lead" env:"SCHEDULE_MIN_LEAD" env-default:"10m"`
	// AnyDay снимает ограничение «только сегодня».
	AnyDay bool `yaml:"any_day" env:"SCHEDULE_ANY_DAY"`
	// Timezone — зона, в которой модератор вводит время; "Local" — зона процесса.
	Timezone string `yaml:"timezone" env:"SCHEDULE_TIMEZONE" env-default:"Local"`
}

// Location возвращает зону расписания.
func (s ScheduleConfig) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}

	return time.LoadLocation(s.Timezone)
}

// SameDay — действует ли ограничение «только сегодня».
func (s ScheduleConfig) SameDay() bool { return !s.AnyDay }

// BulkConfig — массовые действия.
type BulkConfig struct {
	// Concurrency — сколько запросов массового действия идут одновременно.
	Concurrency int `yaml:"concurrency" env:"BULK_CONCURRENCY" env-default:"4"`
}

// TimeoutConfig — дедлайны входящих HTTP-запросов дашборда.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"45s"`
	Upload  time.Duration `yaml:"upload" env:"UPLOAD_TIMEOUT" env-default:"10m"` // multipart-загрузки (видео, картинки)
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	u, err := url.Parse(c.Remote.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("remote.base_url must be an absolute http(s) URL, got %q", c.Remote.BaseURL)
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote.timeout must be > 0")
	}
	if c.Remote.UploadTimeout < c.Remote.Timeout {
		return fmt.Errorf("remote.upload_timeout must be >= remote.timeout")
	}
	if c.Schedule.MinLead < 0 {
		return fmt.Errorf("schedule.min_lead must be >= 0")
	}
	if _, err := c.Schedule.Location(); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	if c.Bulk.Concurrency <= 0 {
		return fmt.Errorf("bulk.concurrency must be > 0")
	}

	return nil
}

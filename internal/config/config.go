package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Addr            string `env:"ADDR" envDefault:":8080"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	DB struct {
		Host            string `env:"HOST" envDefault:"postgres"`
		Port            int    `env:"PORT" envDefault:"5432"`
		User            string `env:"USER" envDefault:"trainbook"`
		Password        string `env:"PASSWORD" envDefault:"trainbook"`
		Name            string `env:"NAME" envDefault:"trainbook_db"`
		SSLMode         string `env:"SSLMODE" envDefault:"disable"`
		TimeZone        string `env:"TIMEZONE" envDefault:"Europe/Moscow"`
		MaxOpenConns    int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns    int    `env:"MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifeTime int    `env:"CONN_MAX_LIFETIME_MIN" envDefault:"30"` // минут
	} `envPrefix:"DB_"`
	Redis struct {
		Host     string `env:"HOST" envDefault:"localhost"`
		Port     int    `env:"PORT" envDefault:"6379"`
		Password string `env:"PASSWORD" envDefault:""`
		DB       int    `env:"DB" envDefault:"0"`
	} `envPrefix:"REDIS_"`
	Telegram struct {
		Token string `env:"TOKEN,required"`
	} `envPrefix:"TELEGRAM_"`
	Reminder struct {
		// Локальный час отправки напоминания накануне тренировки.
		FireHour        int  `env:"FIRE_HOUR" envDefault:"11"`
		PollIntervalSec int  `env:"POLL_INTERVAL_SEC" envDefault:"30"`
		SweepEnabled    bool `env:"SWEEP_ENABLED" envDefault:"true"`
	} `envPrefix:"REMINDER_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) {
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}

	return cfg, nil
}

// DSN собирает строку подключения к Postgres.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name,
		c.DB.Port, c.DB.SSLMode, c.DB.TimeZone,
	)
}

// RedisAddr — адрес Redis в виде host:port.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

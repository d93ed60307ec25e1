// Package config loads and validates the application configuration from
// environment variables and an optional config file.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Session  SessionConfig  `mapstructure:"session"  validate:"required"`
}

// ServerConfig contains the server-related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the database-related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// SessionConfig contains the session lifecycle settings.
type SessionConfig struct {
	// Duration is the inactivity window after which a session expires.
	Duration time.Duration `mapstructure:"duration" validate:"required"`
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Lobby   LobbyConfig
	Logging LoggingConfig
}

// ServerConfig holds listener-related configuration
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Env  string `env:"ENV" envDefault:"development"` // "development" or "production"
}

// LobbyConfig holds session-related configuration
type LobbyConfig struct {
	ServerName       string `env:"SERVER_NAME" envDefault:"kartlobby"`
	Password         string `env:"SERVER_PASSWORD"`
	DataVersion      int    `env:"DATA_VERSION" envDefault:"1"`
	MinPlayers       int    `env:"MIN_PLAYERS" envDefault:"2"`
	MaxPlayers       int    `env:"MAX_PLAYERS" envDefault:"8"`
	MaxVotingSeconds int    `env:"MAX_VOTING_SECONDS" envDefault:"30"`
	DefaultTrack     string `env:"DEFAULT_TRACK" envDefault:"oval"`
	DefaultLaps      int    `env:"DEFAULT_LAPS" envDefault:"3"`
	TickMillis       int    `env:"TICK_MILLIS" envDefault:"50"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// ClientConfig holds the join settings for the client command
type ClientConfig struct {
	ServerURL   string `env:"SERVER_URL" envDefault:"ws://localhost:8080/ws"`
	PlayerName  string `env:"PLAYER_NAME" envDefault:"player"`
	Password    string `env:"SERVER_PASSWORD"`
	DataVersion int    `env:"DATA_VERSION" envDefault:"1"`
	Logging     LoggingConfig
}

// LoadClient parses the client command's configuration from the environment
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Load parses configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// MaxVotingTime returns the voting window as a duration
func (c *Config) MaxVotingTime() time.Duration {
	return time.Duration(c.Lobby.MaxVotingSeconds) * time.Second
}

// TickInterval returns the coordinator update period
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Lobby.TickMillis) * time.Millisecond
}

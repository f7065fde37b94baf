package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
		MaxConns int32  `mapstructure:"max_conns"`
	} `mapstructure:"database"`
	Auth struct {
		JWTSecret     string `mapstructure:"jwt_secret"`
		TokenTTLHours int    `mapstructure:"token_ttl_hours"`
	} `mapstructure:"auth"`
	Midtrans struct {
		ServerKey   string `mapstructure:"server_key"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"midtrans"`
	Email struct {
		ReputationCheck bool   `mapstructure:"reputation_check"`
		AbstractKey     string `mapstructure:"abstract_key"`
		TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"email"`
}

// Load reads configuration from config/config.yml, with environment
// variables (KRUA_THAI_*) taking precedence over file values.
func Load() (*Config, error) {
	viper.AddConfigPath("./config")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.host", "127.0.0.1")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.name", "krua_thai")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_conns", 25)
	viper.SetDefault("auth.jwt_secret", "dev-secret-please-change")
	viper.SetDefault("auth.token_ttl_hours", 24)
	viper.SetDefault("midtrans.server_key", "")
	viper.SetDefault("midtrans.environment", "sandbox")
	viper.SetDefault("email.reputation_check", false)
	viper.SetDefault("email.abstract_key", "")
	viper.SetDefault("email.timeout_seconds", 5)

	viper.SetEnvPrefix("KRUA_THAI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: defaults plus environment variables apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// DSN builds a PostgreSQL connection string from the database section.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password,
		c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.SSLMode)
}

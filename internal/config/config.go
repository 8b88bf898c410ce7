package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Report   ReportConfig   `mapstructure:"report"`
	NFSe     NFSeConfig     `mapstructure:"nfse"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds the snapshot database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// AuditConfig holds reconciliation parameters. Period and tolerance are
// defaults for a run; both can be overridden per request so concurrent
// evaluations of different periods never interfere.
type AuditConfig struct {
	Period        string  `mapstructure:"period"`    // "YYYY-MM"
	Tolerance     float64 `mapstructure:"tolerance"` // relative, 0.01 = 1%
	StatementPath string  `mapstructure:"statement_path"`
}

// ReportConfig holds report output configuration
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// NFSeConfig holds fiscal note extraction configuration
type NFSeConfig struct {
	InputDir string `mapstructure:"input_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. A .env
// file next to the binary is honored first, matching how the database
// path and credentials were historically provided.
func Load(configPath string) (*Config, error) {
	_ = gotenv.Load()

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "data/oficina.db")
	viper.SetDefault("database.max_open_conns", 4)
	viper.SetDefault("database.max_idle_conns", 2)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	viper.SetDefault("audit.tolerance", 0.01)

	viper.SetDefault("report.output_dir", "data/relatorios")
	viper.SetDefault("nfse.input_dir", "data/nfse")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("database.path", "MDB_FILE")
	viper.BindEnv("audit.period", "AUDIT_PERIOD")
	viper.BindEnv("audit.statement_path", "STATEMENT_FILE")
	viper.BindEnv("report.output_dir", "OUTPUT_DIR")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Audit.Period == "" {
		return fmt.Errorf("audit.period is required")
	}
	if c.Audit.Tolerance < 0 || c.Audit.Tolerance >= 1 {
		return fmt.Errorf("audit.tolerance must be in [0, 1)")
	}
	if c.Report.OutputDir == "" {
		return fmt.Errorf("report.output_dir is required")
	}
	return nil
}

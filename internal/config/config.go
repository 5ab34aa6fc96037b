package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DBConfig describes the database connection.
type DBConfig struct {
	Driver   string
	DSN      string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
}

// AnalysisConfig holds the default analysis parameters.
type AnalysisConfig struct {
	DemandWindowDays int
	DemandTopN       int
	AnomalyLimit     int
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DB                  DBConfig
	Analysis            AnalysisConfig
	HTTPAddr            string
	RequestTimeout      time.Duration
	DataPath            string
	LogDir              string
	EnableMermaidCharts bool
}

const databaseFile = "logistics-insights.db"

// Load loads the configuration from .env files, an optional YAML file and environment variables.
// Environment variables win over the YAML file, which wins over the defaults.
func Load(configPath string) (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	v := viper.New()
	setDefaults(v, exeDir)
	v.AutomaticEnv()

	// 3. Optional YAML file
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
		log.Debug().Str("path", configPath).Msg("Loaded configuration file")
	}

	dataPath := v.GetString("data_path")
	logDir := v.GetString("logs_folder")
	if logDir == "" {
		logDir = filepath.Join(dataPath, "logs")
	}

	if err := os.MkdirAll(dataPath, 0755); err != nil {
		log.Warn().Err(err).Str("path", dataPath).Msg("Failed to create data directory")
	}

	cfg := &AppConfig{
		DB: DBConfig{
			Driver:   v.GetString("db_driver"),
			DSN:      v.GetString("db_dsn"),
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			Name:     v.GetString("db_name"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
		},
		Analysis: AnalysisConfig{
			DemandWindowDays: v.GetInt("demand_window_days"),
			DemandTopN:       v.GetInt("demand_top_n"),
			AnomalyLimit:     v.GetInt("anomaly_limit"),
		},
		HTTPAddr:            v.GetString("http_addr"),
		RequestTimeout:      v.GetDuration("request_timeout"),
		DataPath:            dataPath,
		LogDir:              logDir,
		EnableMermaidCharts: v.GetBool("enable_mermaid_charts"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, exeDir string) {
	dataPath := exeDir
	if dataPath == "" {
		dataPath = "."
	}

	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "")
	v.SetDefault("db_host", "127.0.0.1")
	v.SetDefault("db_port", 3306)
	v.SetDefault("db_name", "logistics")
	v.SetDefault("db_user", "root")
	v.SetDefault("db_password", "")
	v.SetDefault("http_addr", ":5000")
	v.SetDefault("request_timeout", "15s")
	v.SetDefault("data_path", dataPath)
	v.SetDefault("logs_folder", "")
	v.SetDefault("enable_mermaid_charts", false)
	v.SetDefault("demand_window_days", 90)
	v.SetDefault("demand_top_n", 20)
	v.SetDefault("anomaly_limit", 50)
}

// DatabaseDSN returns the explicit DSN, or one assembled from the individual settings.
func (c *AppConfig) DatabaseDSN() string {
	if c.DB.DSN != "" {
		return c.DB.DSN
	}
	if c.DB.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
	}
	return filepath.Join(c.DataPath, databaseFile)
}

// Validate checks the configuration for values the service cannot run with.
func (c *AppConfig) Validate() error {
	switch c.DB.Driver {
	case "mysql":
		if c.DB.DSN == "" && (c.DB.Host == "" || c.DB.Name == "") {
			return fmt.Errorf("db_host and db_name are required for mysql without db_dsn")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported db_driver %q (expected mysql or sqlite)", c.DB.Driver)
	}
	if c.Analysis.DemandWindowDays <= 0 {
		return fmt.Errorf("demand_window_days must be positive, got %d", c.Analysis.DemandWindowDays)
	}
	if c.Analysis.DemandTopN <= 0 {
		return fmt.Errorf("demand_top_n must be positive, got %d", c.Analysis.DemandTopN)
	}
	if c.Analysis.AnomalyLimit <= 0 {
		return fmt.Errorf("anomaly_limit must be positive, got %d", c.Analysis.AnomalyLimit)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

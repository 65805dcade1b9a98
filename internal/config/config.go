// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration. Regulatory parameters never come
// from the environment; env vars configure only the surrounding service.
type Config struct {
	DataDir   string // Base directory for the run store and reports (always absolute)
	DBPath    string // SQLite file holding assessment runs
	Port      int
	LogLevel  string
	LogPretty bool

	// Portfolio supply: a YAML file when set, the seeded generator otherwise.
	PortfolioPath      string
	GeneratorSeed      int64
	GeneratorExposures int
	GeneratorPositions int
	GeneratorTrades    int

	// Report output and optional S3 archiving. Archiving stays disabled
	// while ReportBucket is empty.
	ReportsDir   string
	ReportBucket string
	ReportPrefix string
	ReportRegion string

	// Cron schedules (with seconds field). Empty disables the job.
	AssessmentSchedule  string
	MaintenanceSchedule string

	// System stats report "degraded" above this CPU utilisation.
	CPUWarnPct float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("BULWARK_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:   absDataDir,
		DBPath:    getEnv("BULWARK_DB_PATH", filepath.Join(absDataDir, "runs.db")),
		Port:      getEnvAsInt("BULWARK_PORT", 8080),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", false),

		PortfolioPath:      getEnv("BULWARK_PORTFOLIO", ""),
		GeneratorSeed:      getEnvAsInt64("BULWARK_GENERATOR_SEED", 1),
		GeneratorExposures: getEnvAsInt("BULWARK_GENERATOR_EXPOSURES", 0),
		GeneratorPositions: getEnvAsInt("BULWARK_GENERATOR_POSITIONS", 0),
		GeneratorTrades:    getEnvAsInt("BULWARK_GENERATOR_TRADES", 0),

		ReportsDir:   getEnv("BULWARK_REPORTS_DIR", filepath.Join(absDataDir, "reports")),
		ReportBucket: getEnv("BULWARK_REPORT_BUCKET", ""),
		ReportPrefix: getEnv("BULWARK_REPORT_PREFIX", "bulwark"),
		ReportRegion: getEnv("BULWARK_REPORT_REGION", ""),

		AssessmentSchedule:  getEnv("BULWARK_ASSESSMENT_SCHEDULE", "0 0 18 * * *"),
		MaintenanceSchedule: getEnv("BULWARK_MAINTENANCE_SCHEDULE", "0 0 2 * * *"),

		CPUWarnPct: getEnvAsFloat("BULWARK_STATS_CPU_WARN_PCT", 90.0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and in range
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.GeneratorExposures < 0 || c.GeneratorPositions < 0 || c.GeneratorTrades < 0 {
		return fmt.Errorf("generator counts must not be negative")
	}
	if c.CPUWarnPct <= 0 || c.CPUWarnPct > 100 {
		return fmt.Errorf("invalid CPU warn threshold %.1f: must be in (0, 100]", c.CPUWarnPct)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

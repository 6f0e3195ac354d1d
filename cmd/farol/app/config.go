package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/farol/internal/sources/places"
	"github.com/agentstation/farol/internal/sources/warehouse"
	"github.com/agentstation/farol/pkg/constants"
)

// EnvPrefix prefixes every environment variable farol reads.
const EnvPrefix = "FAROL"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// Files
	IncludePath string
	ExcludePath string
	LedgerPath  string
	PolicyPath  string

	// ProtectedDomains replaces the built-in protected email domains when set.
	ProtectedDomains []string

	Warehouse WarehouseConfig
	Places    PlacesConfig
}

// WarehouseConfig configures the source roster query.
type WarehouseConfig struct {
	ProjectID       string
	Table           string
	CredentialsFile string
	OverridePath    string
	MaxAttempts     int
	RetryDelay      time.Duration
}

// PlacesConfig configures the target-system collaborator. Email and
// password are only read from the environment or the config file.
type PlacesConfig struct {
	URL          string
	Email        string
	Password     string
	DownloadPath string
	BrowserBin   string
	Headless     bool
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (FAROL_ prefix)
// 3. .env files
// 4. Config file (path, or .farol.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".farol")
		// A missing default config file is fine.
		_ = v.ReadInConfig()
	}

	return &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no_color"),
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", v.GetString("log.level")),
		LogFormat: getEnvOrDefault("LOG_FORMAT", v.GetString("log.format")),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", v.GetString("log.output")),

		IncludePath:      v.GetString("files.include"),
		ExcludePath:      v.GetString("files.exclude"),
		LedgerPath:       v.GetString("files.ledger"),
		PolicyPath:       v.GetString("files.policy"),
		ProtectedDomains: v.GetStringSlice("protected_domains"),

		Warehouse: WarehouseConfig{
			ProjectID:       v.GetString("warehouse.project"),
			Table:           v.GetString("warehouse.table"),
			CredentialsFile: v.GetString("warehouse.credentials_file"),
			OverridePath:    v.GetString("warehouse.override"),
			MaxAttempts:     v.GetInt("warehouse.max_attempts"),
			RetryDelay:      v.GetDuration("warehouse.retry_delay"),
		},
		Places: PlacesConfig{
			URL:          v.GetString("places.url"),
			Email:        v.GetString("places.email"),
			Password:     v.GetString("places.password"),
			DownloadPath: v.GetString("places.download_path"),
			BrowserBin:   v.GetString("places.browser_bin"),
			Headless:     v.GetBool("places.headless"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")

	v.SetDefault("files.include", constants.DefaultIncludePath)
	v.SetDefault("files.exclude", constants.DefaultExcludePath)
	v.SetDefault("files.ledger", constants.DefaultLedgerPath)

	v.SetDefault("warehouse.project", warehouse.DefaultProjectID)
	v.SetDefault("warehouse.table", warehouse.DefaultTable)
	v.SetDefault("warehouse.override", constants.DefaultOverridePath)
	v.SetDefault("warehouse.max_attempts", constants.MaxFetchAttempts)
	v.SetDefault("warehouse.retry_delay", constants.FetchRetryDelay)

	v.SetDefault("places.url", places.DefaultURL)
	v.SetDefault("places.download_path", constants.DefaultTargetPath)
	v.SetDefault("places.headless", true)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// WarehouseSource returns the warehouse collaborator configuration.
func (c *Config) WarehouseSource() warehouse.Config {
	cfg := warehouse.DefaultConfig()
	cfg.ProjectID = c.Warehouse.ProjectID
	cfg.Table = c.Warehouse.Table
	cfg.CredentialsFile = c.Warehouse.CredentialsFile
	cfg.OverridePath = c.Warehouse.OverridePath
	if c.Warehouse.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = c.Warehouse.MaxAttempts
	}
	if c.Warehouse.RetryDelay > 0 {
		cfg.Retry.Delay = c.Warehouse.RetryDelay
	}
	return cfg
}

// PlacesClient returns the target-system collaborator configuration.
func (c *Config) PlacesClient() places.Config {
	cfg := places.DefaultConfig()
	cfg.URL = c.Places.URL
	cfg.Email = c.Places.Email
	cfg.Password = c.Places.Password
	cfg.DownloadPath = c.Places.DownloadPath
	cfg.BrowserBin = c.Places.BrowserBin
	cfg.Headless = c.Places.Headless
	return cfg
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so its values win over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

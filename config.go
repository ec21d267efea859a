package erdump

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

const (
	DefaultConfigFile          = "erdump.yaml"
	DefaultOutputDir           = "./erd"
	DefaultBaseName            = "schema"
	DefaultSingleDocumentLimit = 100
	DefaultChunkSize           = 50
)

// Config represents the erdump configuration
type Config struct {
	Output    OutputConfig        `yaml:"output"`
	Diagram   DiagramConfig       `yaml:"diagram"`
	Filter    FilterConfig        `yaml:"filter"`
	Flatten   FlattenConfig       `yaml:"flatten"`
	Export    ExportConfig        `yaml:"export"`
	Databases map[string]Database `yaml:"databases"`
}

// OutputConfig controls where rendered documents are written
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	BaseName string `yaml:"base_name"`
}

// DiagramConfig controls diagram rendering and partitioning
type DiagramConfig struct {
	Title string `yaml:"title"`

	// SingleDocumentLimit is the largest table count rendered as one document
	SingleDocumentLimit int `yaml:"single_document_limit"`

	// ChunkSize is the number of tables per partition document
	ChunkSize int `yaml:"chunk_size"`
}

// FilterConfig selects the tables that reach the renderer
type FilterConfig struct {
	Include    []string `yaml:"include"`
	Exclude    []string `yaml:"exclude"`
	Expression string   `yaml:"expression"` // CEL, must evaluate to bool
}

// FlattenConfig controls the flat statement re-serialization
type FlattenConfig struct {
	Pretty bool `yaml:"pretty"`
}

// ExportConfig controls schema export
type ExportConfig struct {
	// DriverName is recorded as the driver in tbls JSON exports
	DriverName string `yaml:"driver_name"`
}

// Database represents database connection configuration used by apply
type Database struct {
	Driver     string `yaml:"driver"`
	Connection string `yaml:"connection"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration content, applying defaults and validation
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	// Parse YAML with strict mode to detect unknown fields
	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Diagram.SingleDocumentLimit < 1 {
		return fmt.Errorf("%w: diagram.single_document_limit must be positive, got %d", ErrConfigValidation, config.Diagram.SingleDocumentLimit)
	}

	if config.Diagram.ChunkSize < 1 {
		return fmt.Errorf("%w: diagram.chunk_size must be positive, got %d", ErrConfigValidation, config.Diagram.ChunkSize)
	}

	for name, db := range config.Databases {
		if db.Driver == "" {
			return fmt.Errorf("%w: databases.%s.driver is required", ErrConfigValidation, name)
		}

		validDrivers := map[string]bool{
			"sqlite": true, "sqlite3": true,
			"postgres": true, "postgresql": true, "pgx": true,
			"mysql": true, "mariadb": true,
		}
		if !validDrivers[db.Driver] {
			return fmt.Errorf("%w: databases.%s.driver '%s' is invalid: must be one of sqlite, postgres, mysql", ErrConfigValidation, name, db.Driver)
		}
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:      DefaultOutputDir,
			BaseName: DefaultBaseName,
		},
		Diagram: DiagramConfig{
			SingleDocumentLimit: DefaultSingleDocumentLimit,
			ChunkSize:           DefaultChunkSize,
		},
		Filter: FilterConfig{
			Include: []string{"*"},
		},
		Export: ExportConfig{
			DriverName: "sqlite",
		},
		Databases: make(map[string]Database),
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.Output.Dir == "" {
		config.Output.Dir = defaults.Output.Dir
	}

	if config.Output.BaseName == "" {
		config.Output.BaseName = defaults.Output.BaseName
	}

	if config.Diagram.SingleDocumentLimit == 0 {
		config.Diagram.SingleDocumentLimit = defaults.Diagram.SingleDocumentLimit
	}

	if config.Diagram.ChunkSize == 0 {
		config.Diagram.ChunkSize = defaults.Diagram.ChunkSize
	}

	if len(config.Filter.Include) == 0 {
		config.Filter.Include = defaults.Filter.Include
	}

	if config.Export.DriverName == "" {
		config.Export.DriverName = defaults.Export.DriverName
	}

	if config.Databases == nil {
		config.Databases = make(map[string]Database)
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvRe = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvRe   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return bareEnvRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in paths and connections.
// Drivers are validated literally and never expanded.
func expandConfigEnvVars(config *Config) {
	for name, db := range config.Databases {
		db.Connection = expandEnvVars(db.Connection)
		config.Databases[name] = db
	}

	config.Output.Dir = expandEnvVars(config.Output.Dir)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

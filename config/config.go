package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Record source drivers.
const (
	DriverJSON      = "json"
	DriverFirestore = "firestore"
	DriverMongo     = "mongo"
)

// DefaultDataDir is where exported collections are looked up when DATA_DIR is unset.
const DefaultDataDir = "./REDLINE_FIREWATCH_alfas-dev"

// Config holds all application configuration
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	Source   SourceConfig
	Firebase FirebaseConfig
	Mongo    MongoConfig
	Report   ReportConfig
	Logging  LoggingConfig

	// ignored lists environment variables that could not be parsed and were replaced by defaults.
	ignored []string
}

type SourceConfig struct {
	Driver     string `env:"SOURCE_DRIVER" envDefault:"json"`
	DataDir    string `env:"DATA_DIR" envDefault:"./REDLINE_FIREWATCH_alfas-dev"`
	UsersFile  string `env:"USERS_FILE" envDefault:"users.json"`
	JobsFile   string `env:"JOBS_FILE" envDefault:"job_details.json"`
	ShiftsFile string `env:"SHIFTS_FILE" envDefault:"shifts.json"`
}

type FirebaseConfig struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
	CredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH" envDefault:"./serviceAccountKey.json"`
}

type MongoConfig struct {
	URI            string        `env:"DOC_DB_URI"`
	Stage          string        `env:"STAGE" envDefault:"alfas-dev"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Database is the per-stage database name.
func (m MongoConfig) Database() string {
	return "REDLINE_FIREWATCH_" + m.Stage
}

type ReportConfig struct {
	ImagesDir      string   `env:"IMAGES_DIR" envDefault:"./images"`
	OutputDir      string   `env:"OUTPUT_DIR" envDefault:"."`
	LogoPaths      []string `env:"LOGO_PATHS" envSeparator:","`
	Brand          string   `env:"REPORT_BRAND" envDefault:"RedLine FireWatch"`
	Title          string   `env:"REPORT_TITLE" envDefault:"RedLine FireWatch Patrol Report"`
	MaxImagePixels int      `env:"IMAGE_MAX_PIXELS" envDefault:"480"`
}

type LoggingConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"10"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

// Load reads an optional .env file and then configuration from environment variables.
// A variable that cannot be parsed is ignored in favour of its default and reported by Warnings.
func Load() *Config {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	environ := env.ToMap(os.Environ())
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		bad := invalidKeys(environ)
		for _, key := range bad {
			delete(environ, key)
		}
		cfg, err = env.ParseAsWithOptions[Config](env.Options{Environment: environ})
		if err != nil {
			cfg, _ = env.ParseAsWithOptions[Config](env.Options{Environment: map[string]string{}})
			bad = append(bad, "(all)")
		}
		cfg.ignored = bad
	}

	if len(cfg.Report.LogoPaths) == 0 {
		cfg.Report.LogoPaths = DefaultLogoPaths()
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
		if cfg.IsProduction() {
			cfg.Logging.Format = "json"
		}
	}
	return &cfg
}

// invalidKeys returns the configuration variables in environ whose values do not parse on their own.
func invalidKeys(environ map[string]string) []string {
	params, err := env.GetFieldParams(&Config{})
	if err != nil {
		return nil
	}
	var bad []string
	for _, p := range params {
		val, ok := environ[p.Key]
		if !ok {
			continue
		}
		if _, err := env.ParseAsWithOptions[Config](env.Options{Environment: map[string]string{p.Key: val}}); err != nil {
			bad = append(bad, p.Key)
		}
	}
	sort.Strings(bad)
	return bad
}

// DefaultLogoPaths lists where a logo is looked for, in order: next to the executable, in the data
// directory next to the executable, then in the data directory under the working directory.
func DefaultLogoPaths() []string {
	var paths []string
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, "logo.png"),
			filepath.Join(dir, filepath.Base(DefaultDataDir), "logo.png"),
		)
	}
	return append(paths, filepath.Join(DefaultDataDir, "logo.png"))
}

// IsProduction reports whether logs default to JSON.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate checks what a report cannot be written without. Source problems are only Warnings:
// a report is still produced, from demo data if need be.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Report.OutputDir) == "" {
		return errors.New("OUTPUT_DIR must not be empty")
	}
	return nil
}

// Warnings lists configuration problems that degrade the report without stopping it.
func (c *Config) Warnings() []string {
	var warns []string
	for _, key := range c.ignored {
		warns = append(warns, fmt.Sprintf("invalid value for %s ignored, using default", key))
	}
	switch strings.ToLower(c.Source.Driver) {
	case DriverJSON:
		if c.Source.DataDir == "" {
			warns = append(warns, "DATA_DIR is empty, no records will be read")
		}
	case DriverFirestore:
		if c.Firebase.ProjectID == "" {
			warns = append(warns, "FIREBASE_PROJECT_ID is not set")
		}
		if _, err := os.Stat(c.Firebase.CredentialsPath); os.IsNotExist(err) {
			warns = append(warns, fmt.Sprintf("firebase credentials file not found: %s", c.Firebase.CredentialsPath))
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			warns = append(warns, "DOC_DB_URI is not set for the mongo driver")
		}
	default:
		warns = append(warns, fmt.Sprintf("unknown source driver %q", c.Source.Driver))
	}
	return warns
}

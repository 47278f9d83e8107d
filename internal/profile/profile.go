package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where studysense stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// Timezone is the IANA timezone used for study-slot planning
	Timezone string
	// JWTSecret signs session tokens issued by the auth layer
	JWTSecret string

	// AI configuration
	AIEnabled   bool   // STUDYSENSE_AI_ENABLED
	AIProvider  string // STUDYSENSE_AI_PROVIDER (default: gemini)
	AIModel     string // STUDYSENSE_AI_MODEL (default: gemini-1.5-flash)
	AIAPIKey    string // STUDYSENSE_AI_API_KEY
	AIBaseURL   string // STUDYSENSE_AI_BASE_URL
	AIMaxTokens int    // STUDYSENSE_AI_MAX_TOKENS (default: 2048)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key or base URL is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && (p.AIAPIKey != "" || p.AIBaseURL != "")
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from STUDYSENSE_* environment variables.
func (p *Profile) FromEnv() {
	p.AIEnabled = os.Getenv("STUDYSENSE_AI_ENABLED") == "true"
	p.AIProvider = getEnvOrDefault("STUDYSENSE_AI_PROVIDER", "gemini")
	p.AIModel = getEnvOrDefault("STUDYSENSE_AI_MODEL", "gemini-1.5-flash")
	p.AIAPIKey = os.Getenv("STUDYSENSE_AI_API_KEY")
	p.AIBaseURL = os.Getenv("STUDYSENSE_AI_BASE_URL")
	if p.AIMaxTokens == 0 {
		p.AIMaxTokens = 2048
	}
	if p.Timezone == "" {
		p.Timezone = getEnvOrDefault("STUDYSENSE_TIMEZONE", "Asia/Ho_Chi_Minh")
	}
	if p.JWTSecret == "" {
		p.JWTSecret = os.Getenv("STUDYSENSE_JWT_SECRET")
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/studysense"
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return errors.Wrap(err, "failed to check data dir")
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("studysense_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q: only 'sqlite' and 'postgres' are supported", p.Driver)
	}

	return nil
}

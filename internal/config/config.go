package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Provider exposes application configuration to the rest of the code.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetRPCURL() string
	GetArtifactsDir() string
	GetSessionSecret() string
	GetEmailProvider() string
	GetEmailAPIKey() string
	GetEmailSender() string
	GetContactRecipient() string
	GetDBUrl() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetLoadingDelay() time.Duration
}

// DefaultRPCURL is the local node used when no provider endpoint is configured.
const DefaultRPCURL = "http://localhost:8545"

// Config holds all configuration for the application.
type Config struct {
	AppAddr          string
	AppBaseURL       string
	RPCURL           string
	ArtifactsDir     string
	SessionSecret    string
	EmailProvider    string
	EmailAPIKey      string
	EmailSender      string
	ContactRecipient string
	DBUrl            string
	DBNs             string
	DBDb             string
	DBUser           string
	DBPass           string
	LoadingDelay     time.Duration
}

var _ Provider = (*Config)(nil)

// New loads configuration from a .env file (if present) and the environment.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv reads configuration from the environment only.
func FromEnv() *Config {
	cfg := &Config{
		AppAddr:          getenv("APP_ADDR", ":8080"),
		AppBaseURL:       getenv("APP_BASE_URL", "http://localhost:8080"),
		RPCURL:           getenv("ETH_RPC_URL", DefaultRPCURL),
		ArtifactsDir:     getenv("ARTIFACTS_DIR", "build/contracts"),
		SessionSecret:    getenv("SESSION_SECRET", "rocketpool-dev-secret"),
		EmailProvider:    getenv("EMAIL_PROVIDER", "log"),
		EmailAPIKey:      os.Getenv("EMAIL_API_KEY"),
		EmailSender:      os.Getenv("EMAIL_SENDER"),
		ContactRecipient: getenv("CONTACT_RECIPIENT", "david@mail.rocketpool.net"),
		DBUrl:            os.Getenv("SURREAL_URL"),
		DBNs:             os.Getenv("SURREAL_NS"),
		DBDb:             os.Getenv("SURREAL_DB"),
		DBUser:           os.Getenv("SURREAL_USER"),
		DBPass:           os.Getenv("SURREAL_PASS"),
		LoadingDelay:     2 * time.Second,
	}

	if v := os.Getenv("LOADING_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.LoadingDelay = d
		} else {
			log.Printf("Ignoring invalid LOADING_DELAY %q: %v", v, err)
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) GetAppAddr() string { return c.AppAddr }
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }
func (c *Config) GetRPCURL() string { return c.RPCURL }
func (c *Config) GetArtifactsDir() string { return c.ArtifactsDir }
func (c *Config) GetSessionSecret() string { return c.SessionSecret }
func (c *Config) GetEmailProvider() string { return c.EmailProvider }
func (c *Config) GetEmailAPIKey() string { return c.EmailAPIKey }
func (c *Config) GetEmailSender() string { return c.EmailSender }
func (c *Config) GetContactRecipient() string { return c.ContactRecipient }
func (c *Config) GetDBUrl() string { return c.DBUrl }
func (c *Config) GetDBNs() string { return c.DBNs }
func (c *Config) GetDBDb() string { return c.DBDb }
func (c *Config) GetDBUser() string { return c.DBUser }
func (c *Config) GetDBPass() string { return c.DBPass }
func (c *Config) GetLoadingDelay() time.Duration { return c.LoadingDelay }

// HasDatabase reports whether SurrealDB persistence is configured.
func (c *Config) HasDatabase() bool {
	return c.DBUrl != "" && c.DBNs != "" && c.DBDb != ""
}

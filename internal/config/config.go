package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Environment variables with defaults
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=localhost"`
	Port                  int           `env:"PORT,default=3000"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`
	MaxRequestSize        int64         `env:"MAX_REQUEST_SIZE,default=1048576"`

	// externally reachable URL of this app, used to build the returnUrl for
	// the signing ceremony. RETURN_URL is an accepted alias for BASE_URL.
	// When neither is set the URL is derived from PROJECT_DOMAIN or HOST:PORT
	// (see ResolveBaseURL).
	BaseURL       string `env:"BASE_URL"`
	ReturnURL     string `env:"RETURN_URL"`
	ProjectDomain string `env:"PROJECT_DOMAIN"`

	// e-signature API settings.
	//
	// The access token must be obtained externally (e.g. from the developer
	// token generator) - this app never acquires or refreshes tokens itself.
	// ACCESS_TOKEN, ACCOUNT_ID, USER_FULLNAME and USER_EMAIL may also be
	// supplied as query parameters on the start-ceremony request.
	APIBasePath    string        `env:"API_BASE_PATH,default=https://demo.docusign.net/restapi"`
	AccessToken    string        `env:"ACCESS_TOKEN"`
	AccountID      string        `env:"ACCOUNT_ID"`
	SignerName     string        `env:"USER_FULLNAME"`
	SignerEmail    string        `env:"USER_EMAIL"`
	ClientUserID   string        `env:"CLIENT_USER_ID"`
	APICallTimeout time.Duration `env:"API_CALL_TIMEOUT,default=30s"`

	// document source: a local file to base64-encode into the envelope, or -
	// when ENVELOPE_TEMPLATE_PATH is set - a pre-built envelope-shaped JSON
	// fixture (document, recipients and tabs already embedded).
	DocumentPath         string `env:"DOCUMENT_PATH,default=demo_documents/sample_agreement.pdf"`
	EnvelopeTemplatePath string `env:"ENVELOPE_TEMPLATE_PATH"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values
//
// A .env file in the working directory is loaded first as a convenience for
// local development - values already present in the environment always win.
func NewServerConfig() (*ServerEnvironment, error) {
	loadEnvFile()

	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	// RETURN_URL is the variant naming used by some deployments
	if cfg.BaseURL == "" {
		cfg.BaseURL = cfg.ReturnURL
	}

	return &cfg, nil
}

// loadEnvFile loads a .env file if one exists in the working directory.
// godotenv never overrides variables that are already set.
func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

// validateConfig checks the structural settings.
//
// Credentials (ACCESS_TOKEN, ACCOUNT_ID, signer identity) are deliberately not
// validated here: missing values are passed through to the signing API, which
// rejects them with a structured error the user can see.
func validateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	if cfg.APIBasePath == "" {
		return fmt.Errorf("API_BASE_PATH must not be empty")
	}
	if cfg.APICallTimeout <= 0 {
		return fmt.Errorf("API_CALL_TIMEOUT must be greater than 0")
	}
	if cfg.MaxRequestSize < 1 {
		return fmt.Errorf("MAX_REQUEST_SIZE must be at least 1")
	}
	return nil
}

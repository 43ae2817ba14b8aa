package config

import (
	"testing"
	"time"
)

func TestNewServerConfigDefaults(t *testing.T) {
	cfg, err := NewServerConfig()
	if err != nil {
		t.Fatalf("NewServerConfig() failed: %v", err)
	}

	if cfg.Environment != "dev" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "dev")
	}
	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want %q", cfg.Host, "localhost")
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want %d", cfg.Port, 3000)
	}
	if cfg.APIBasePath != "https://demo.docusign.net/restapi" {
		t.Errorf("APIBasePath = %q, want demo API base path", cfg.APIBasePath)
	}
	if cfg.APICallTimeout != 30*time.Second {
		t.Errorf("APICallTimeout = %v, want 30s", cfg.APICallTimeout)
	}
	if cfg.DocumentPath != "demo_documents/sample_agreement.pdf" {
		t.Errorf("DocumentPath = %q, want bundled sample document", cfg.DocumentPath)
	}
}

func TestNewServerConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("ACCESS_TOKEN", "eyJ0eXAi.test.token")
	t.Setenv("ACCOUNT_ID", "acct-123")
	t.Setenv("USER_FULLNAME", "Jo Example")
	t.Setenv("USER_EMAIL", "jo@example.com")

	cfg, err := NewServerConfig()
	if err != nil {
		t.Fatalf("NewServerConfig() failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Environment != "staging" {
		t.Errorf("Environment = %q, want staging", cfg.Environment)
	}
	if cfg.AccessToken != "eyJ0eXAi.test.token" {
		t.Errorf("AccessToken not read from environment")
	}
	if cfg.AccountID != "acct-123" || cfg.SignerName != "Jo Example" || cfg.SignerEmail != "jo@example.com" {
		t.Errorf("signer settings not read from environment")
	}
}

func TestReturnURLAlias(t *testing.T) {
	t.Setenv("RETURN_URL", "https://myapp.example.com")

	cfg, err := NewServerConfig()
	if err != nil {
		t.Fatalf("NewServerConfig() failed: %v", err)
	}

	if cfg.BaseURL != "https://myapp.example.com" {
		t.Errorf("BaseURL = %q, RETURN_URL should be used when BASE_URL is unset", cfg.BaseURL)
	}
}

func TestBaseURLWinsOverReturnURL(t *testing.T) {
	t.Setenv("BASE_URL", "https://primary.example.com")
	t.Setenv("RETURN_URL", "https://secondary.example.com")

	cfg, err := NewServerConfig()
	if err != nil {
		t.Fatalf("NewServerConfig() failed: %v", err)
	}

	if cfg.BaseURL != "https://primary.example.com" {
		t.Errorf("BaseURL = %q, BASE_URL should win over RETURN_URL", cfg.BaseURL)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVar  string
		value   string
		wantErr bool
	}{
		{"invalid port", "PORT", "0", true},
		{"port too large", "PORT", "70000", true},
		{"invalid environment", "ENVIRONMENT", "production", true},
		{"valid environment", "ENVIRONMENT", "prod", false},
		{"zero api timeout", "API_CALL_TIMEOUT", "0s", true},
		{"zero max request size", "MAX_REQUEST_SIZE", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			_, err := NewServerConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("NewServerConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

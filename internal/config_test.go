package internal

import (
	"testing"

	"github.com/starford/girogi/internal/gemini"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Corpus.StoreName != "girogi-ai-archive" {
		t.Errorf("store name = %q", cfg.Corpus.StoreName)
	}
	if cfg.Gemini.Model != gemini.DefaultModel {
		t.Errorf("model = %q", cfg.Gemini.Model)
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("auth enabled by default")
	}
}

func TestHTTPConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"valid", 8080, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"too large", 70000, true},
		{"max", 65535, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := HTTPConfig{Port: c.port}
			err := cfg.Validate()
			if (err != nil) != c.wantErr {
				t.Errorf("Validate() = %v, wantErr = %v", err, c.wantErr)
			}
		})
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	cfg := HTTPConfig{Port: 9000}
	if got := cfg.Address(); got != ":9000" {
		t.Errorf("Address = %q", got)
	}
}

func TestCorpusConfig_Validate(t *testing.T) {
	valid := CorpusConfig{DataDir: "./data", StateDir: ".", StoreName: "archive"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	missingData := valid
	missingData.DataDir = ""
	if err := missingData.Validate(); err == nil {
		t.Error("empty data_dir accepted")
	}

	missingStore := valid
	missingStore.StoreName = ""
	if err := missingStore.Validate(); err == nil {
		t.Error("empty store_name accepted")
	}
}

func TestGeminiConfig_Validate(t *testing.T) {
	valid := GeminiConfig{
		Model:     gemini.DefaultModel,
		BaseURL:   gemini.DefaultBaseURL,
		UploadURL: gemini.DefaultUploadURL,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	noModel := valid
	noModel.Model = ""
	if err := noModel.Validate(); err == nil {
		t.Error("empty model accepted")
	}
}

func TestGeminiConfig_ResolveAPIKey(t *testing.T) {
	cfg := GeminiConfig{APIKey: "from-config"}

	t.Setenv(APIKeyEnvVar, "")
	if got := cfg.ResolveAPIKey(); got != "from-config" {
		t.Errorf("without env: key = %q", got)
	}

	// The environment wins over the config value.
	t.Setenv(APIKeyEnvVar, "from-env")
	if got := cfg.ResolveAPIKey(); got != "from-env" {
		t.Errorf("with env: key = %q", got)
	}

	t.Setenv(APIKeyEnvVar, "")
	empty := GeminiConfig{}
	if got := empty.ResolveAPIKey(); got != "" {
		t.Errorf("unconfigured: key = %q", got)
	}
}

func TestGeminiConfig_ClientConfig(t *testing.T) {
	t.Setenv(APIKeyEnvVar, "env-key")
	cfg := GeminiConfig{
		Model:     "gemini-2.5-flash",
		BaseURL:   "https://example.org/v1beta",
		UploadURL: "https://example.org/upload/v1beta",
	}
	cc := cfg.ClientConfig()
	if cc.APIKey != "env-key" {
		t.Errorf("APIKey = %q", cc.APIKey)
	}
	if cc.BaseURL != cfg.BaseURL || cc.UploadURL != cfg.UploadURL || cc.Model != cfg.Model {
		t.Errorf("client config = %+v", cc)
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     AuthConfig
		wantErr bool
	}{
		{"disabled", AuthConfig{Mode: AuthModeDisabled}, false},
		{"empty mode normalises to disabled", AuthConfig{}, false},
		{"token with token", AuthConfig{Mode: AuthModeToken, Token: "s3cret"}, false},
		{"token without token", AuthConfig{Mode: AuthModeToken}, true},
		{"unknown mode", AuthConfig{Mode: "oauth"}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.cfg.Validate()
			if (err != nil) != c.wantErr {
				t.Errorf("Validate() = %v, wantErr = %v", err, c.wantErr)
			}
		})
	}
}

func TestAuthConfig_AuthEnabled(t *testing.T) {
	if (&AuthConfig{Mode: AuthModeDisabled}).AuthEnabled() {
		t.Error("disabled mode reports enabled")
	}
	if !(&AuthConfig{Mode: AuthModeToken, Token: "t"}).AuthEnabled() {
		t.Error("token mode reports disabled")
	}
}

package internal

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/girogi/internal/gemini"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// APIKeyEnvVar is the environment variable checked first when
// resolving the credential. godotenv autoload lets a .env secrets file
// feed it.
const APIKeyEnvVar = "GEMINI_API_KEY"

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Corpus CorpusConfig      `yaml:"corpus"`
	Gemini GeminiConfig      `yaml:"gemini"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Corpus.Validate(); err != nil {
		return err
	}
	if err := c.Gemini.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CorpusConfig describes the local corpus and bookkeeping directories.
type CorpusConfig struct {
	// DataDir holds the Markdown articles.
	DataDir string `yaml:"data_dir"`
	// StateDir holds article_metadata.json, store_config.json, and
	// the upload tracker.
	StateDir string `yaml:"state_dir"`
	// StoreName is the remote store display name.
	StoreName string `yaml:"store_name"`
	// Watch re-runs metadata merge and remote sync when the data
	// directory changes (serve mode only).
	Watch bool `yaml:"watch"`
}

// Validate validates the corpus configuration.
func (c *CorpusConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.StateDir, validation.Required),
		validation.Field(&c.StoreName, validation.Required),
	)
}

// GeminiConfig holds the remote API settings. APIKey is normally left
// empty in the file and resolved from the environment; it exists so a
// deployment can pin it via ${VAR} expansion instead.
type GeminiConfig struct {
	Model     string        `yaml:"model"`
	BaseURL   string        `yaml:"base_url"`
	UploadURL string        `yaml:"upload_url"`
	APIKey    string        `yaml:"api_key"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Validate validates the Gemini configuration.
func (c *GeminiConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Model, validation.Required),
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.UploadURL, validation.Required),
	)
}

// ResolveAPIKey returns the credential: the environment variable
// first, then the config value. Empty means unconfigured.
func (c *GeminiConfig) ResolveAPIKey() string {
	if key := os.Getenv(APIKeyEnvVar); key != "" {
		return key
	}
	return c.APIKey
}

// ClientConfig builds the typed client configuration.
func (c *GeminiConfig) ClientConfig() gemini.Config {
	return gemini.Config{
		BaseURL:   c.BaseURL,
		UploadURL: c.UploadURL,
		Model:     c.Model,
		APIKey:    c.ResolveAPIKey(),
		Timeout:   c.Timeout,
	}
}

// AuthConfig holds authentication configuration for the HTTP API.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Corpus: CorpusConfig{
			DataDir:   "./data",
			StateDir:  ".",
			StoreName: "girogi-ai-archive",
		},
		Gemini: GeminiConfig{
			Model:     gemini.DefaultModel,
			BaseURL:   gemini.DefaultBaseURL,
			UploadURL: gemini.DefaultUploadURL,
			Timeout:   gemini.DefaultTimeout,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "azure", "openai", "anthropic", "gemini", "openrouter", "mock"
	Provider string `yaml:"provider"`

	// Fallback lists further providers tried in order when the primary
	// one fails. Empty means no fallback.
	Fallback []string `yaml:"fallback"`

	Azure      AzureConfig      `yaml:"azure"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`

	// Timeout bounds a single LLM request when the caller sets no
	// tighter deadline. Default: 30s.
	Timeout time.Duration `yaml:"timeout"`
}

// AzureConfig holds Azure OpenAI configuration. Endpoint may be a bare
// resource URL or a full deployment URL; see ResolveEndpoint.
type AzureConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	Deployment string `yaml:"deployment"`
	APIVersion string `yaml:"api_version"` // Default: DefaultAzureAPIVersion
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"` // Default: "claude-haiku"
	BaseURL string `yaml:"base_url"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
	// Project and Location select Vertex AI instead of the Gemini API.
	// Credentials then come from the environment, as for Document AI.
	Project  string `yaml:"project"`
	Location string `yaml:"location"`
}

// Vertex reports whether the Vertex AI backend is configured.
func (g GeminiConfig) Vertex() bool { return g.Project != "" && g.Location != "" }

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "openai/gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "azure",
		Azure: AzureConfig{
			APIVersion: DefaultAzureAPIVersion,
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "openai/gpt-4o-mini",
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	return configFromLookup(os.Getenv)
}

func configFromLookup(getenv func(string) string) Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv(getenv)
	return cfg
}

// ApplyEnv overlays every environment variable that is set on c.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, name string) {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			*dst = v
		}
	}

	set(&c.Provider, "K30_LLM_PROVIDER")
	if f := getenv("K30_LLM_FALLBACK"); f != "" {
		c.Fallback = splitList(f)
	}

	set(&c.Azure.Endpoint, "AZURE_OPENAI_ENDPOINT")
	set(&c.Azure.APIKey, "AZURE_OPENAI_API_KEY")
	set(&c.Azure.APIVersion, "AZURE_OPENAI_API_VERSION")
	if d := deploymentFromEnv(getenv); d != "" {
		c.Azure.Deployment = d
	}

	set(&c.Anthropic.APIKey, "K30_ANTHROPIC_API_KEY")
	set(&c.Anthropic.Model, "K30_ANTHROPIC_MODEL")
	set(&c.Anthropic.BaseURL, "K30_ANTHROPIC_BASE_URL")

	set(&c.OpenAI.APIKey, "K30_OPENAI_API_KEY")
	set(&c.OpenAI.Model, "K30_OPENAI_MODEL")
	set(&c.OpenAI.BaseURL, "K30_OPENAI_BASE_URL")

	set(&c.Gemini.APIKey, "K30_GEMINI_API_KEY")
	set(&c.Gemini.Model, "K30_GEMINI_MODEL")
	set(&c.Gemini.Project, "K30_GEMINI_PROJECT")
	set(&c.Gemini.Location, "K30_GEMINI_LOCATION")

	set(&c.OpenRouter.APIKey, "K30_OPENROUTER_API_KEY")
	set(&c.OpenRouter.Model, "K30_OPENROUTER_MODEL")

	if t := getenv("K30_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			c.Timeout = d
		}
	}
}

// Validate checks that the selected provider, and every fallback
// provider, has what it needs to be constructed.
func (c Config) Validate() error {
	if err := c.validateProvider(c.Provider); err != nil {
		return err
	}
	for _, name := range c.Fallback {
		if err := c.validateProvider(name); err != nil {
			return fmt.Errorf("fallback: %w", err)
		}
	}
	return nil
}

func (c Config) validateProvider(name string) error {
	switch name {
	case "azure":
		if c.Azure.Endpoint == "" {
			return &ErrConfiguration{Field: "endpoint", Err: fmt.Errorf("AZURE_OPENAI_ENDPOINT is required for the azure provider")}
		}
		if c.Azure.APIKey == "" {
			return &ErrConfiguration{Field: "api_key", Err: fmt.Errorf("AZURE_OPENAI_API_KEY is required for the azure provider")}
		}
		if _, err := ResolveEndpoint(EndpointInput{
			Endpoint:   c.Azure.Endpoint,
			Deployment: c.Azure.Deployment,
			APIVersion: c.Azure.APIVersion,
		}); err != nil {
			return err
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return &ErrConfiguration{Field: "api_key", Err: fmt.Errorf("K30_ANTHROPIC_API_KEY is required for the anthropic provider")}
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return &ErrConfiguration{Field: "api_key", Err: fmt.Errorf("K30_OPENAI_API_KEY is required for the openai provider")}
		}
	case "gemini":
		if c.Gemini.APIKey == "" && !c.Gemini.Vertex() {
			return &ErrConfiguration{Field: "api_key", Err: fmt.Errorf("K30_GEMINI_API_KEY or K30_GEMINI_PROJECT and K30_GEMINI_LOCATION are required for the gemini provider")}
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return &ErrConfiguration{Field: "api_key", Err: fmt.Errorf("K30_OPENROUTER_API_KEY is required for the openrouter provider")}
		}
	case "mock":
		// No API key needed.
	default:
		return &ErrConfiguration{Field: "provider", Err: fmt.Errorf("unknown LLM provider: %q", name)}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

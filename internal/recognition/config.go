package recognition

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
)

// Defaults for the recognition job poller.
const (
	DefaultPollInterval = 800 * time.Millisecond
	DefaultMaxWait      = 60 * time.Second
	DefaultCacheTTL     = 5 * time.Minute
)

// Config selects and configures the recognition backend.
type Config struct {
	// Provider is "azure" (default) or "google".
	Provider string `yaml:"provider"`

	Azure  AzureConfig  `yaml:"azure"`
	Google GoogleConfig `yaml:"google"`

	PollInterval time.Duration `yaml:"poll_interval"`
	MaxWait      time.Duration `yaml:"max_wait"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

// AzureConfig addresses an Azure Document Intelligence resource.
type AzureConfig struct {
	Endpoint string `yaml:"endpoint"`
	Key      string `yaml:"key"`
}

// GoogleConfig addresses a Document AI processor.
type GoogleConfig struct {
	Project   string `yaml:"project"`
	Location  string `yaml:"location"`
	Processor string `yaml:"processor"`
	Version   string `yaml:"version"`
}

// DefaultConfig returns the azure backend with the standard timings.
func DefaultConfig() Config {
	return Config{
		Provider:     "azure",
		Google:       GoogleConfig{Location: "us"},
		PollInterval: DefaultPollInterval,
		MaxWait:      DefaultMaxWait,
		CacheTTL:     DefaultCacheTTL,
	}
}

// ConfigFromEnv overlays environment variables on DefaultConfig.
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

	if v := strings.TrimSpace(getenv("K30_RECOGNITION_PROVIDER")); v != "" {
		c.Provider = strings.ToLower(v)
	}
	set(&c.Azure.Endpoint, "AZURE_DOCINTEL_ENDPOINT")
	set(&c.Azure.Key, "AZURE_DOCINTEL_KEY")

	set(&c.Google.Project, "DOCUMENTAI_PROJECT")
	set(&c.Google.Location, "DOCUMENTAI_LOCATION")
	set(&c.Google.Processor, "DOCUMENTAI_PROCESSOR")
	set(&c.Google.Version, "DOCUMENTAI_PROCESSOR_VERSION")

	if d, err := time.ParseDuration(strings.TrimSpace(getenv("K30_RECOGNITION_MAX_WAIT"))); err == nil && d > 0 {
		c.MaxWait = d
	}
}

// Validate reports the first missing setting for the selected provider.
func (c Config) Validate() error {
	switch c.Provider {
	case "", "azure":
		if c.Azure.Endpoint == "" {
			return &llm.ErrConfiguration{Field: "recognition endpoint", Err: errors.New("AZURE_DOCINTEL_ENDPOINT is not set")}
		}
		if c.Azure.Key == "" {
			return &llm.ErrConfiguration{Field: "recognition key", Err: errors.New("AZURE_DOCINTEL_KEY is not set")}
		}
	case "google":
		if processorName(c.Google.Project, c.Google.Location, c.Google.Processor, c.Google.Version) == "" {
			return &llm.ErrConfiguration{Field: "recognition processor", Err: errors.New("DOCUMENTAI_PROJECT, DOCUMENTAI_LOCATION and DOCUMENTAI_PROCESSOR are required")}
		}
	default:
		return &llm.ErrConfiguration{Field: "recognition provider", Err: fmt.Errorf("unknown provider %q", c.Provider)}
	}
	return nil
}

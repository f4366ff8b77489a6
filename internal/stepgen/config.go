package stepgen

// Config controls the oracle call made by Generator.
type Config struct {
	// MaxTokens is the token budget for the steps document.
	MaxTokens int `yaml:"max_tokens"`

	// Temperature controls oracle randomness (0.0-1.0).
	Temperature float64 `yaml:"temperature"`
}

// DefaultConfig returns the recommended generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.3,
	}
}

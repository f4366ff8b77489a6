package llm

import (
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// AzureProvider targets an Azure OpenAI deployment. Azure speaks the
// OpenAI wire format behind a per-deployment URL, so the OpenAI client
// is reused with an Azure client config.
type AzureProvider struct {
	*OpenAIProvider
	endpoint Endpoint
}

// NewAzureProvider resolves the configured endpoint and builds a provider
// for it. Resolution failures are returned as *ErrConfiguration.
func NewAzureProvider(cfg AzureConfig) (*AzureProvider, error) {
	if cfg.APIKey == "" {
		return nil, &ErrConfiguration{Field: "api_key", Err: errors.New("AZURE_OPENAI_API_KEY is required for the azure provider")}
	}

	ep, err := ResolveEndpoint(EndpointInput{
		Endpoint:   cfg.Endpoint,
		Deployment: cfg.Deployment,
		APIVersion: cfg.APIVersion,
	})
	if err != nil {
		return nil, err
	}

	config := openai.DefaultAzureConfig(cfg.APIKey, ep.BaseURL)
	config.APIVersion = ep.APIVersion
	deployment := ep.Deployment
	config.AzureModelMapperFunc = func(string) string { return deployment }

	base := newOpenAIProviderRaw(config, ep.Deployment)
	base.legacy = !structuredOutputs(ep.APIVersion)
	return &AzureProvider{OpenAIProvider: base, endpoint: ep}, nil
}

// firstStructuredOutputsVersion is the earliest Azure api-version that
// accepts json_schema response formats and max_completion_tokens.
const firstStructuredOutputsVersion = "2024-08-01"

// structuredOutputs reports whether an api-version such as
// "2024-08-01-preview" is at least firstStructuredOutputsVersion.
// Versions that do not start with a date are assumed to be current.
func structuredOutputs(apiVersion string) bool {
	if len(apiVersion) < len(firstStructuredOutputsVersion) {
		return true
	}
	date := apiVersion[:len(firstStructuredOutputsVersion)]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return true
	}
	return date >= firstStructuredOutputsVersion
}

// Endpoint returns the resolved chat-completions target.
func (p *AzureProvider) Endpoint() Endpoint {
	return p.endpoint
}

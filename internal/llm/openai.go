package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// openaiModels maps friendly names to OpenAI model IDs.
var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// OpenAIProvider implements Provider using the OpenAI SDK.
// The same client type serves Azure deployments and OpenRouter.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	// legacy targets APIs without json_schema response formats or
	// max_completion_tokens, such as older Azure api-versions.
	legacy bool
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, &ErrConfiguration{Field: "api_key", Err: fmt.Errorf("openai API key is required")}
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return newOpenAIProviderRaw(config, resolveModel(cfg.Model, openaiModels)), nil
}

// newOpenAIProviderRaw builds a provider from a prepared client config.
// The model is passed through unchanged.
func newOpenAIProviderRaw(config openai.ClientConfig, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq, err := p.chatRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no choices in OpenAI response")}
	}

	choice := resp.Choices[0]
	text := json.RawMessage(choice.Message.Content)
	content, err := normalizeResponse(req.Schema, text)
	if err != nil {
		if choice.FinishReason == openai.FinishReasonLength {
			return nil, &ErrMaxTokensExceeded{Content: text}
		}
		return nil, err
	}

	stop := "end"
	if choice.FinishReason == openai.FinishReasonLength {
		stop = "max_tokens"
	}
	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      resp.Model,
		StopReason: stop,
	}, nil
}

// chatRequest maps req onto a chat completion. In legacy mode the schema
// is described in the system message and JSON object mode is requested.
func (p *OpenAIProvider) chatRequest(req Request) (openai.ChatCompletionRequest, error) {
	system := req.System
	if p.legacy && req.Schema != nil {
		system = strings.TrimSpace(system + "\n\n" + schemaInstruction(req.Schema))
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    openAIMessages(system, req.Messages),
		Temperature: float32(req.Temperature),
	}
	if p.legacy {
		chatReq.MaxTokens = req.MaxTokens
	} else {
		chatReq.MaxCompletionTokens = req.MaxTokens
	}

	switch {
	case req.Schema == nil:
	case p.legacy:
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	default:
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return chatReq, fmt.Errorf("marshal schema: %w", err)
		}
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      req.Schema.Strict,
			},
		}
	}
	return chatReq, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

func openAIMessages(system string, msgs []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.HTTPStatusCode == http.StatusUnauthorized, apiErr.HTTPStatusCode == http.StatusNotFound:
			// Wrong key or unknown deployment.
			return &ErrConfiguration{Field: "credentials", Err: err}
		default:
			return &ErrProviderUnavailable{StatusCode: apiErr.HTTPStatusCode, Err: err}
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ErrProviderUnavailable{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

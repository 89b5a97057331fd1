package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"mediabrief/internal/config"
	"mediabrief/internal/parser"
	"mediabrief/internal/port"
)

const name = "openai"

// Provider implements port.ModelProvider using the OpenAI Chat Completions API.
type Provider struct {
	client *goopenai.Client
	model  string
}

// NewProvider creates an OpenAI-backed model provider.
func NewProvider(cfg *config.ParserProviderConfig) *Provider {
	return NewProviderWithEndpoint(cfg, cfg.Endpoint)
}

// NewProviderWithEndpoint creates a provider pointing at a custom API base URL (for testing).
func NewProviderWithEndpoint(cfg *config.ParserProviderConfig, baseURL string) *Provider {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Provider{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

func (p *Provider) Name() string { return name }

func (p *Provider) Complete(ctx context.Context, req port.ModelRequest) (*port.ModelResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: 16384,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role:         goopenai.ChatMessageRoleUser,
				MultiContent: buildParts(req),
			},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return nil, parser.StatusError(name, apiErr.HTTPStatusCode, []byte(apiErr.Message), "")
		}
		var reqErr *goopenai.RequestError
		if errors.As(err, &reqErr) {
			return nil, parser.StatusError(name, reqErr.HTTPStatusCode, reqErr.Body, "")
		}
		return nil, fmt.Errorf("calling openai API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	model := resp.Model
	if model == "" {
		model = p.model
	}
	return &port.ModelResponse{
		Text:     resp.Choices[0].Message.Content,
		Model:    model,
		Provider: name,
	}, nil
}

func buildParts(req port.ModelRequest) []goopenai.ChatMessagePart {
	var parts []goopenai.ChatMessagePart
	for _, page := range req.Images {
		dataURI := fmt.Sprintf("data:%s;base64,%s", page.MimeType, base64.StdEncoding.EncodeToString(page.Data))
		parts = append(parts, goopenai.ChatMessagePart{
			Type: goopenai.ChatMessagePartTypeImageURL,
			ImageURL: &goopenai.ChatMessageImageURL{
				URL:    dataURI,
				Detail: goopenai.ImageURLDetailHigh,
			},
		})
	}
	if req.Text != "" {
		parts = append(parts, goopenai.ChatMessagePart{
			Type: goopenai.ChatMessagePartTypeText,
			Text: "SCHEDULE CONTENT:\n" + req.Text,
		})
	}
	parts = append(parts, goopenai.ChatMessagePart{
		Type: goopenai.ChatMessagePartTypeText,
		Text: req.Instruction,
	})
	return parts
}

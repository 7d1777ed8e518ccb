package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultModel is the NVIDIA-hosted model the service was tuned against.
	DefaultModel   = "nvidia/llama-3.3-nemotron-super-49b-v1"
	defaultBaseURL = "https://integrate.api.nvidia.com/v1"

	// Replies are spoken aloud; keep them short.
	completionTemperature = 0.8
	completionMaxTokens   = 80
)

// NvidiaAdapter talks to NVIDIA's OpenAI-compatible chat-completions
// endpoint.
type NvidiaAdapter struct {
	client openai.Client
	model  string
}

func NewNvidiaAdapter(apiKey, baseURL, model string) (*NvidiaAdapter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &NvidiaAdapter{
		client: openai.NewClient(
			option.WithAPIKey(strings.TrimSpace(apiKey)),
			option.WithBaseURL(baseURL),
		),
		model: model,
	}, nil
}

func (a *NvidiaAdapter) Model() string { return a.model }

func (a *NvidiaAdapter) Complete(ctx context.Context, req Request) (Response, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if strings.TrimSpace(req.SystemPrompt) != "" {
		msgs = append(msgs, openai.SystemMessage(req.SystemPrompt))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(a.model),
		Messages:    msgs,
		Temperature: openai.Float(completionTemperature),
		MaxTokens:   openai.Int(completionMaxTokens),
	})
	if err != nil {
		return Response{}, fmt.Errorf("nvidia chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return Response{}, errors.New("nvidia chat completion: no choices returned")
	}

	text := Shape(completion.Choices[0].Message.Content)
	if text == "" {
		return Response{}, errors.New("nvidia chat completion: empty reply after shaping")
	}
	return Response{Text: text}, nil
}

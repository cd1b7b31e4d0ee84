package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1/"

type OpenAIClient struct {
	client  *openai.Client
	baseURL string
}

// OpenAi builds an OpenAI-compatible client, falling back to
// OPENAI_API_BASE_URL and OPENAI_API_KEY
func OpenAi(ctx context.Context, opts ...ProviderOption) *OpenAIClient {
	params := &ProviderParams{
		BaseURL: os.Getenv("OPENAI_API_BASE_URL"),
		APIKey:  os.Getenv("OPENAI_API_KEY"),
	}
	for _, opt := range opts {
		opt(params)
	}
	if params.BaseURL == "" {
		params.BaseURL = defaultOpenAIBaseURL
	}

	requestOpts := []option.RequestOption{option.WithBaseURL(params.BaseURL)}
	if params.APIKey != "" {
		requestOpts = append(requestOpts, option.WithAPIKey(params.APIKey))
	}
	return &OpenAIClient{
		client:  openai.NewClient(requestOpts...),
		baseURL: params.BaseURL,
	}
}

// BaseURL is the endpoint requests are sent to
func (c *OpenAIClient) BaseURL() string {
	return c.baseURL
}

func (c *OpenAIClient) Complete(ctx context.Context, model string, prompt string, systemPrompt string, history []string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 3)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	if len(history) > 0 {
		messages = append(messages, openai.UserMessage("Here is what you remember:\n"+strings.Join(history, "\n")))
	}
	messages = append(messages, openai.UserMessage(prompt))

	chatCompletion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F(messages),
		Model:    openai.F(openai.ChatModel(model)),
	})
	if err != nil {
		return "", err
	}
	if len(chatCompletion.Choices) == 0 {
		return "", fmt.Errorf("openai: empty completion")
	}
	return chatCompletion.Choices[0].Message.Content, nil
}

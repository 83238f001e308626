package provider

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

/*
roleMap compresses convertMessages' switch.
*/
var roleMap = map[string]func(string) openai.ChatCompletionMessageParamUnion{
	"system":    openai.SystemMessage[string],
	"user":      openai.UserMessage[string],
	"developer": openai.UserMessage[string],
	"agent":     openai.AssistantMessage[string],
	"assistant": openai.AssistantMessage[string],
}

/*
OpenAIProvider is a provider for the OpenAI chat completions API.
*/
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	options []option.RequestOption
}

type OpenAIProviderOption func(*OpenAIProvider)

func NewOpenAIProvider(options ...OpenAIProviderOption) *OpenAIProvider {
	prvdr := &OpenAIProvider{
		model: string(openai.ChatModelGPT4_1),
	}

	for _, option := range options {
		option(prvdr)
	}

	if prvdr.client == nil {
		WithOpenAIClient()(prvdr)
	}

	return prvdr
}

/*
Complete runs a single non-streaming completion and returns the trimmed
content of the first choice.
*/
func (prvdr *OpenAIProvider) Complete(
	ctx context.Context, messages []Message, schema *Schema,
) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(prvdr.model),
		Messages: prvdr.convertMessages(messages),
	}

	if schema != nil {
		params.ResponseFormat = prvdr.applySchema(schema)
	}

	completion, err := prvdr.client.Chat.Completions.New(ctx, params)

	if err != nil {
		log.Error("openai completion failed", "model", prvdr.model, "error", err)
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai completion returned no choices")
	}

	if refusal := completion.Choices[0].Message.Refusal; refusal != "" {
		return "", fmt.Errorf("openai refused: %s", refusal)
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (prvdr *OpenAIProvider) convertMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		convert, ok := roleMap[msg.Role]

		if !ok {
			convert = openai.UserMessage[string]
		}

		out = append(out, convert(msg.Content))
	}

	return out
}

func (prvdr *OpenAIProvider) applySchema(schema *Schema) openai.ChatCompletionNewParamsResponseFormatUnion {
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        schema.Name,
				Description: openai.String(schema.Description),
				Schema:      schema.Definition,
				Strict:      openai.Bool(true),
			},
		},
	}
}

func WithModel(model string) OpenAIProviderOption {
	return func(prvdr *OpenAIProvider) {
		if model != "" {
			prvdr.model = model
		}
	}
}

/*
WithRequestOptions adds client options, for example a base URL pointing at a
compatible endpoint. It must come before WithOpenAIClient to take effect.
*/
func WithRequestOptions(options ...option.RequestOption) OpenAIProviderOption {
	return func(prvdr *OpenAIProvider) {
		prvdr.options = append(prvdr.options, options...)
	}
}

func WithOpenAIClient() OpenAIProviderOption {
	return func(prvdr *OpenAIProvider) {
		options := append([]option.RequestOption{
			option.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
		}, prvdr.options...)

		client := openai.NewClient(options...)
		prvdr.client = &client
	}
}

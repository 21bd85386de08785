package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/sirupsen/logrus"

	"github.com/aipreacher/backend/internal/config"
)

// ErrGenerationUnavailable marks any failure of the upstream model call,
// including timeouts and empty replies.
var ErrGenerationUnavailable = errors.New("generation unavailable")

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 10 * time.Second

// Generator turns an assembled instruction into a pastoral reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewGenerator selects the backend named by cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if !cfg.Enabled() {
			return nil, fmt.Errorf("openai credentials or model missing: set OPENAI_API_KEY and OPENAI_MODEL")
		}
		opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
		}
		return NewOpenAIGenerator(cfg.OpenAIModel, cfg.MaxTokens, cfg.Timeout, opts...), nil
	default:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return NewArkGenerator(ctx, chatModel, cfg.Timeout)
	}
}

// ArkGenerator runs the instruction through an eino chain
// (chat template -> chat model).
type ArkGenerator struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
}

// NewArkGenerator compiles the chain around chatModel.
func NewArkGenerator(ctx context.Context, chatModel model.BaseChatModel, timeout time.Duration) (*ArkGenerator, error) {
	template := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("{prompt}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ArkGenerator{chain: runnable, timeout: orDefault(timeout)}, nil
}

func (g *ArkGenerator) Generate(ctx context.Context, instruction string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.chain.Invoke(ctx, map[string]any{"prompt": instruction})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	return finish("ark", response.Content)
}

// OpenAIGenerator calls the OpenAI Responses API.
type OpenAIGenerator struct {
	client    *openai.Client
	model     string
	maxTokens *int
	timeout   time.Duration
}

func NewOpenAIGenerator(model string, maxTokens *int, timeout time.Duration, opts ...option.RequestOption) *OpenAIGenerator {
	client := openai.NewClient(opts...)
	return &OpenAIGenerator{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
		timeout:   orDefault(timeout),
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, instruction string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := responses.ResponseNewParams{
		Model: g.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(instruction, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if g.maxTokens != nil {
		params.MaxOutputTokens = openai.Int(int64(*g.maxTokens))
	}

	resp, err := g.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	return finish("openai", resp.OutputText())
}

func finish(provider, content string) (string, error) {
	reply := strings.TrimSpace(content)
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply from %s", ErrGenerationUnavailable, provider)
	}
	logrus.WithFields(logrus.Fields{"provider": provider, "length": len(reply)}).Debug("[ai] reply generated")
	return reply, nil
}

func orDefault(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return DefaultTimeout
	}
	return timeout
}

// Unavailable is a Generator that always fails. It keeps the chat routes
// answering 503 when no model is configured.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Generate(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrGenerationUnavailable, u.Reason)
}

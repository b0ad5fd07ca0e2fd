package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/limos-platform/commandcore/pkg/commandcore/errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var validate = validator.New()

// Config configures an OpenAI-backed Client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// SystemPrompt overrides the default instruction given to the model.
	SystemPrompt string
}

const defaultSystemPrompt = `You classify short free-text commands from a life-management app into
structured events. Propose every event type the utterance could plausibly
be, name the single most likely one if you are confident, extract any
fields you can find in the text, and report your confidence from 0 to 1.`

type openAIClient struct {
	client       openai.Client
	model        string
	systemPrompt string
	schema       any
}

// NewOpenAIClient builds a Client backed by the OpenAI chat completions API,
// using structured-output (JSON-schema-constrained) responses so Output's
// shape is enforced by the vendor, not just hoped for.
func NewOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("parser: API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	return &openAIClient{
		client:       openai.NewClient(opts...),
		model:        model,
		systemPrompt: systemPrompt,
		schema:       generateSchema(),
	}, nil
}

func generateSchema() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v Output
	return reflector.Reflect(&v)
}

// Interpret implements Client.
func (c *openAIClient) Interpret(ctx context.Context, utterance string) (*Output, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "parser_output",
		Description: openai.String("Structured interpretation of a user command"),
		Schema:      c.schema,
		Strict:      openai.Bool(true),
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.systemPrompt),
			openai.UserMessage(utterance),
		},
		MaxCompletionTokens: openai.Int(512),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &errors.ParserError{Kind: errors.ParserTimeout, Message: "llm call exceeded deadline", Err: ctx.Err()}
		}
		return nil, &errors.ParserError{Kind: errors.ParserUnavailable, Message: "llm call failed", Err: err}
	}

	slog.DebugContext(ctx, "parser interpret completed",
		"model", c.model,
		"duration_ms", duration.Milliseconds(),
	)

	if len(resp.Choices) == 0 {
		return nil, &errors.ParserError{Kind: errors.ParserMalformed, Message: "llm returned no choices"}
	}

	var out Output
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, &errors.ParserError{Kind: errors.ParserMalformed, Message: "llm output failed to decode", Err: err}
	}

	if err := validate.Struct(&out); err != nil {
		return nil, &errors.ParserError{Kind: errors.ParserMalformed, Message: "llm output failed schema validation", Err: err}
	}

	return &out, nil
}

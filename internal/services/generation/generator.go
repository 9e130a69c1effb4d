package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/lecternlabs/lectern/internal/common"
	"github.com/lecternlabs/lectern/internal/models"
	"github.com/ternarybob/arbor"
)

// MessagesClient captures the subset of the Anthropic SDK client used by the
// generator. It is satisfied by *anthropic.MessageService so callers can pass
// either a real client or a stub in tests.
type MessagesClient interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// ToolRunner executes a tool call requested by the model and returns its
// string result. A non-nil error aborts the whole generation.
type ToolRunner interface {
	Execute(ctx context.Context, name string, input json.RawMessage) (string, error)
}

// Generator drives the Claude tool-calling round trip: one model call with
// tools advertised, an optional tool-execution phase, and at most one
// follow-up call carrying the tool results. The round never recurses.
type Generator struct {
	config    *common.ClaudeConfig
	logger    arbor.ILogger
	client    MessagesClient
	timeout   time.Duration
	maxTokens int
}

// NewGenerator creates a generator backed by the Anthropic API.
//
// Initialization resolves the API key (environment variables take priority
// over config), applies model and token defaults, and wraps the SDK client
// with a call rate limiter.
func NewGenerator(claudeConfig *common.ClaudeConfig, logger arbor.ILogger) (*Generator, error) {
	apiKey, err := common.ResolveAPIKey(claudeConfig.APIKey)
	if err != nil {
		return nil, fmt.Errorf("Anthropic API key is required (set via ANTHROPIC_API_KEY, LECTERN_CLAUDE_API_KEY, or claude.api_key in config): %w", err)
	}

	rateLimit, err := time.ParseDuration(claudeConfig.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit duration '%s': %w", claudeConfig.RateLimit, err)
	}

	ac := anthropic.NewClient(option.WithAPIKey(apiKey))
	client := newRateLimitedClient(&ac.Messages, rateLimit)

	return NewGeneratorWithClient(claudeConfig, client, logger)
}

// NewGeneratorWithClient creates a generator with an explicit messages
// client. Used for dependency injection in tests.
func NewGeneratorWithClient(claudeConfig *common.ClaudeConfig, client MessagesClient, logger arbor.ILogger) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("messages client is required")
	}

	if claudeConfig.Model == "" {
		claudeConfig.Model = "claude-sonnet-4-20250514"
	}

	timeout, err := time.ParseDuration(claudeConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", claudeConfig.Timeout, err)
	}

	maxTokens := claudeConfig.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 800
	}

	service := &Generator{
		config:    claudeConfig,
		logger:    logger,
		client:    client,
		timeout:   timeout,
		maxTokens: maxTokens,
	}

	logger.Debug().
		Str("model", claudeConfig.Model).
		Dur("timeout", timeout).
		Int("max_tokens", maxTokens).
		Msg("Generation service initialized")

	return service, nil
}

// Generate answers a query, optionally letting the model call tools.
//
// The first call advertises the tool definitions with tool choice auto. When
// the model stops for tool use and a runner is available, every requested
// call is executed in order and the results are sent back in a single
// follow-up call that carries the same system prompt but no tools. Tool and
// API failures propagate to the caller.
func (g *Generator) Generate(ctx context.Context, query, history string, tools []models.ToolDefinition, runner ToolRunner) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	startTime := time.Now()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.config.Model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(query)),
		},
		System: []anthropic.TextBlockParam{
			{Text: buildSystemPrompt(history)},
		},
	}
	if g.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(g.config.Temperature))
	}
	if len(tools) > 0 {
		params.Tools = encodeTools(tools)
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfAuto: &anthropic.ToolChoiceAutoParam{},
		}
	}

	resp, err := g.client.New(timeoutCtx, params)
	if err != nil {
		g.logger.Error().Err(err).Msg("Claude API call failed")
		return "", fmt.Errorf("claude api call failed: %w", err)
	}

	if resp.StopReason == anthropic.StopReasonToolUse && runner != nil {
		answer, err := g.completeToolRound(timeoutCtx, params, resp, runner)
		if err != nil {
			return "", err
		}
		g.logger.Debug().
			Dur("duration", time.Since(startTime)).
			Msg("Generation completed with tool round")
		return answer, nil
	}

	g.logger.Debug().
		Str("stop_reason", string(resp.StopReason)).
		Dur("duration", time.Since(startTime)).
		Msg("Generation completed")

	return firstTextBlock(resp), nil
}

// completeToolRound executes the requested tool calls and issues the
// follow-up API call. The follow-up carries the original user message, the
// assistant's tool-use response and one tool_result block per call, with the
// same system prompt but without tools or tool choice.
func (g *Generator) completeToolRound(ctx context.Context, params anthropic.MessageNewParams, resp *anthropic.Message, runner ToolRunner) (string, error) {
	resultBlocks := make([]anthropic.ContentBlockParamUnion, 0, len(resp.Content))
	for _, block := range resp.Content {
		if block.Type != "tool_use" {
			continue
		}

		g.logger.Debug().
			Str("tool", block.Name).
			Str("tool_use_id", block.ID).
			Msg("Executing tool call")

		result, err := runner.Execute(ctx, block.Name, json.RawMessage(block.Input))
		if err != nil {
			return "", fmt.Errorf("tool %s execution failed: %w", block.Name, err)
		}
		resultBlocks = append(resultBlocks, anthropic.NewToolResultBlock(block.ID, result, false))
	}

	messages := append(params.Messages, resp.ToParam())
	messages = append(messages, anthropic.NewUserMessage(resultBlocks...))

	final := anthropic.MessageNewParams{
		Model:     params.Model,
		MaxTokens: params.MaxTokens,
		Messages:  messages,
		System:    params.System,
	}
	final.Temperature = params.Temperature

	finalResp, err := g.client.New(ctx, final)
	if err != nil {
		g.logger.Error().Err(err).Msg("Claude follow-up call failed")
		return "", fmt.Errorf("claude api call failed: %w", err)
	}

	return firstTextBlock(finalResp), nil
}

// encodeTools converts tool definitions to the SDK's tool union params
func encodeTools(defs []models.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		schema := anthropic.ToolInputSchemaParam{
			ExtraFields: map[string]any{
				"type":       def.InputSchema.Type,
				"properties": def.InputSchema.Properties,
			},
		}
		if len(def.InputSchema.Required) > 0 {
			schema.ExtraFields["required"] = def.InputSchema.Required
		}

		u := anthropic.ToolUnionParamOfTool(schema, def.Name)
		if u.OfTool != nil {
			u.OfTool.Description = anthropic.String(def.Description)
		}
		out = append(out, u)
	}
	return out
}

// firstTextBlock returns the first text block of a response, or "" when the
// response carries no text.
func firstTextBlock(msg *anthropic.Message) string {
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text
		}
	}
	return ""
}

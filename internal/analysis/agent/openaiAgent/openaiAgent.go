package openaiAgent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akolanti/CSVAgent/internal/analysis/agent"
	"github.com/akolanti/CSVAgent/internal/analysis/sandbox"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/customHttpClient"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type chatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type openAIAgent struct {
	completions chatCompleter
	model       string
	executor    sandbox.Executor
	logger      *logger_i.Logger
}

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

func New(opts Options, executor sandbox.Executor) agent.Agent {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(customHttpClient.Get()),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(reqOpts...)
	return newWithCompleter(&client.Chat.Completions, opts.Model, executor)
}

func newWithCompleter(c chatCompleter, model string, executor sandbox.Executor) *openAIAgent {
	if model == "" {
		model = config.DefaultOpenAIModel
	}
	return &openAIAgent{
		completions: c,
		model:       model,
		executor:    executor,
		logger:      logger_i.NewLogger("agent_openai"),
	}
}

func (a *openAIAgent) Name() string {
	return string(config.ProviderOpenAI)
}

var runSQLTool = openai.ChatCompletionToolParam{
	Function: openai.FunctionDefinitionParam{
		Name:        agent.RunSQLTool,
		Description: openai.String(agent.RunSQLDescription),
		Parameters: openai.FunctionParameters{
			"type": "object",
			"properties": map[string]any{
				agent.RunSQLArg: map[string]any{
					"type":        "string",
					"description": "DuckDB SQL statement",
				},
			},
			"required": []string{agent.RunSQLArg},
		},
	},
}

func (a *openAIAgent) Ask(ctx context.Context, filePath string, question string) (string, error) {
	log := a.logger.FromContext(ctx)

	session, systemPrompt, err := agent.OpenTable(ctx, a.executor, filePath)
	if err != nil {
		return "", err
	}
	defer session.Close()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(question),
		},
		Tools:       []openai.ChatCompletionToolParam{runSQLTool},
		Temperature: openai.Float(float64(config.ModelTemperature)),
	}

	for step := 0; step < config.MaxAgentSteps; step++ {
		completion, err := a.completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", agent.ErrEmptyAnswer
		}
		msg := completion.Choices[0].Message

		if len(msg.ToolCalls) == 0 {
			answer := strings.TrimSpace(msg.Content)
			if answer == "" {
				return "", agent.ErrEmptyAnswer
			}
			log.Debug("Agent answered", "steps", step+1)
			return answer, nil
		}

		params.Messages = append(params.Messages, msg.ToParam())
		for _, call := range msg.ToolCalls {
			output := a.runTool(ctx, session, call.Function.Name, call.Function.Arguments)
			log.Debug("Tool call", "tool", call.Function.Name, "args", call.Function.Arguments)
			params.Messages = append(params.Messages, openai.ToolMessage(output, call.ID))
		}
	}
	return "", agent.ErrStepLimit
}

func (a *openAIAgent) runTool(ctx context.Context, session sandbox.Session, name string, rawArgs string) string {
	if name != agent.RunSQLTool {
		return fmt.Sprintf("ERROR: unknown tool %q", name)
	}
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return "ERROR: arguments are not valid JSON: " + err.Error()
	}
	return agent.ExecuteSQL(ctx, session, args.Query)
}

package geminiAgent

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/CSVAgent/internal/analysis/agent"
	"github.com/akolanti/CSVAgent/internal/analysis/sandbox"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/customHttpClient"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
	"google.golang.org/genai"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiAgent struct {
	models    contentGenerator
	modelName string
	executor  sandbox.Executor
	logger    *logger_i.Logger
}

type Options struct {
	APIKey string
	Model  string
}

func New(ctx context.Context, opts Options, executor sandbox.Executor) (agent.Agent, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.Get(),
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newWithGenerator(c.Models, opts.Model, executor), nil
}

func newWithGenerator(g contentGenerator, modelName string, executor sandbox.Executor) *geminiAgent {
	if modelName == "" {
		modelName = config.GeminiModelName
	}
	a := &geminiAgent{
		models:    g,
		modelName: modelName,
		executor:  executor,
		logger:    logger_i.NewLogger("agent_gemini"),
	}
	a.logger.Debug("Gemini agent created", "model", modelName)
	return a
}

func (a *geminiAgent) Name() string {
	return string(config.ProviderGemini)
}

var runSQLTool = &genai.Tool{
	FunctionDeclarations: []*genai.FunctionDeclaration{{
		Name:        agent.RunSQLTool,
		Description: agent.RunSQLDescription,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				agent.RunSQLArg: {Type: genai.TypeString, Description: "DuckDB SQL statement"},
			},
			Required: []string{agent.RunSQLArg},
		},
	}},
}

func (a *geminiAgent) Ask(ctx context.Context, filePath string, question string) (string, error) {
	log := a.logger.FromContext(ctx)

	session, systemPrompt, err := agent.OpenTable(ctx, a.executor, filePath)
	if err != nil {
		return "", err
	}
	defer session.Close()

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		Tools:             []*genai.Tool{runSQLTool},
		Temperature:       genai.Ptr[float32](config.ModelTemperature),
	}
	history := []*genai.Content{genai.NewContentFromText(question, genai.RoleUser)}

	for step := 0; step < config.MaxAgentSteps; step++ {
		result, err := a.models.GenerateContent(ctx, a.modelName, history, contentConfig)
		if err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
		if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
			return "", agent.ErrEmptyAnswer
		}

		calls := result.FunctionCalls()
		if len(calls) == 0 {
			answer := strings.TrimSpace(result.Text())
			if answer == "" {
				return "", agent.ErrEmptyAnswer
			}
			log.Debug("Agent answered", "steps", step+1)
			return answer, nil
		}

		history = append(history, result.Candidates[0].Content)
		responses := &genai.Content{Role: string(genai.RoleUser)}
		for _, call := range calls {
			output := a.runTool(ctx, session, call)
			log.Debug("Tool call", "tool", call.Name)
			responses.Parts = append(responses.Parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       call.ID,
					Name:     call.Name,
					Response: map[string]any{"output": output},
				},
			})
		}
		history = append(history, responses)
	}
	return "", agent.ErrStepLimit
}

func (a *geminiAgent) runTool(ctx context.Context, session sandbox.Session, call *genai.FunctionCall) string {
	if call.Name != agent.RunSQLTool {
		return fmt.Sprintf("ERROR: unknown tool %q", call.Name)
	}
	query, _ := call.Args[agent.RunSQLArg].(string)
	return agent.ExecuteSQL(ctx, session, query)
}

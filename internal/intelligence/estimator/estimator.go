package estimator

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// Generator produces a JSON document for a prompt.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// ResponseSchema constrains the model output to an Estimate.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"lifespan":          {Type: genai.TypeNumber},
			"efficiency":        {Type: genai.TypeNumber},
			"riskAnalysis":      {Type: genai.TypeString},
			"maintenanceAdvice": {Type: genai.TypeString},
		},
		PropertyOrdering: []string{"lifespan", "efficiency", "riskAnalysis", "maintenanceAdvice"},
	}
}

// Config configures the genai backend.
type Config struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GenAIGenerator calls the Gemini API.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

// NewGenAIGenerator creates a Gemini client. An empty API key is a
// configuration error.
func NewGenAIGenerator(ctx context.Context, cfg Config) (*GenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "prediction api key is not configured")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "create genai client")
	}
	return &GenAIGenerator{client: client, model: model}, nil
}

// Model returns the model name.
func (g *GenAIGenerator) Model() string { return g.model }

func (g *GenAIGenerator) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Estimator turns a Request into an Estimate through a Generator. It never
// falls back; callers decide what a failure means.
type Estimator struct {
	gen     Generator
	timeout time.Duration
	logger  logging.Logger
}

// New returns an Estimator. A nil generator makes every call fail with
// ErrCodeFeatureDisabled.
func New(gen Generator, timeout time.Duration, logger logging.Logger) *Estimator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Estimator{gen: gen, timeout: timeout, logger: logger}
}

// Estimate validates req, prompts the model and decodes its answer.
func (e *Estimator) Estimate(ctx context.Context, req Request) (*Estimate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if e.gen == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "prediction backend is not configured")
	}
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	text, err := e.gen.GenerateJSON(ctx, prompt, ResponseSchema())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePredictionFailed, "generate estimate")
	}
	return ParseEstimate(text)
}

// ParseEstimate decodes a model answer. Empty text, malformed JSON and a
// negative lifespan are errors; fences around the JSON are tolerated.
// Efficiency is clamped to [0,100].
func ParseEstimate(text string) (*Estimate, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New(errors.ErrCodePredictionFailed, "no data returned from model")
	}
	var est Estimate
	if err := json.Unmarshal([]byte(text), &est); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePredictionParse, "decode estimate")
	}
	if est.Lifespan < 0 {
		return nil, errors.New(errors.ErrCodePredictionParse, "negative lifespan").WithDetail(formatNumber(est.Lifespan))
	}
	est.Efficiency = math.Max(0, math.Min(100, est.Efficiency))
	return &est, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

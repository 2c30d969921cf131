package oracle

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/mrz1836/commitkit/internal/config"
	"github.com/mrz1836/commitkit/internal/constants"
	"github.com/mrz1836/commitkit/internal/errors"
)

// contentGenerator is the part of genai.Models the oracle uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIOracle calls the Gemini API through google.golang.org/genai.
type GenAIOracle struct {
	model     string
	keyEnv    string
	timeout   time.Duration
	getenv    func(string) string
	logger    zerolog.Logger
	mu        sync.Mutex
	generator contentGenerator
}

func newGenAIOracle(cfg config.OracleConfig, o *options) *GenAIOracle {
	model := cfg.Model
	if model == "" {
		model = constants.DefaultGenAIModel
	}
	keyEnv := cfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = constants.DefaultGenAIKeyEnv
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultOracleTimeout
	}
	return &GenAIOracle{
		model:   model,
		keyEnv:  keyEnv,
		timeout: timeout,
		getenv:  o.getenv,
		logger:  o.logger.With().Str("component", "oracle").Str("backend", BackendGenAI).Logger(),
	}
}

// Available builds the API client once. It fails when the API key
// environment variable is unset or the client cannot be created.
func (g *GenAIOracle) Available(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.generator != nil {
		return nil
	}

	key := strings.TrimSpace(g.getenv(g.keyEnv))
	if key == "" {
		return fmt.Errorf("%w: %s is not set", errors.ErrOracleUnavailable, g.keyEnv)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create genai client: %w", errors.ErrOracleUnavailable, err)
	}
	g.generator = client.Models
	return nil
}

// NewSession returns a session without history.
func (g *GenAIOracle) NewSession() Session {
	return &genaiSession{oracle: g}
}

type genaiSession struct {
	oracle *GenAIOracle
}

// Respond sends a single-turn request and returns the concatenated text parts.
func (s *genaiSession) Respond(ctx context.Context, prompt string) (string, error) {
	g := s.oracle
	g.mu.Lock()
	generator := g.generator
	g.mu.Unlock()
	if generator == nil {
		return "", fmt.Errorf("%w: genai client not initialized", errors.ErrOracleUnavailable)
	}

	runCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
	}

	start := time.Now()
	resp, err := generator.GenerateContent(runCtx, g.model, contents, cfg)
	g.logger.Debug().
		Str("model", g.model).
		Int("prompt_chars", len(prompt)).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("oracle request finished")

	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: genai: %w", errors.ErrOracleInvocation, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: genai returned no response", errors.ErrOracleInvocation)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: genai returned an empty response", errors.ErrOracleInvocation)
	}
	return text, nil
}

// Compile-time check that GenAIOracle implements Oracle.
var _ Oracle = (*GenAIOracle)(nil)

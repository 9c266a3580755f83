// Package ai owns the connection to the hosted model provider.
package ai

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

const DefaultModel = "gemini-2.5-flash"

type Config struct {
	APIKey string
	Model  string
}

// AI lazily holds the Gemini model client. A missing or unusable credential
// is not fatal: the gateway serves persona fallbacks when LLM() is nil.
type AI struct {
	log    *zap.Logger
	config Config
	llm    llms.Model
}

func NewAI(log *zap.Logger, c Config) *AI {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	return &AI{
		log:    log,
		config: c,
	}
}

func (a *AI) Start(ctx context.Context) error {
	if a.config.APIKey == "" {
		a.log.Warn("No Gemini API key configured, persona fallbacks will be served.")
		return nil
	}

	model, err := googleai.New(ctx,
		googleai.WithAPIKey(a.config.APIKey),
		googleai.WithDefaultModel(a.config.Model),
	)
	if err != nil {
		// Continue without a model - the gateway degrades to fallbacks
		a.log.Error("Failed to create Gemini client, persona fallbacks will be served.", zap.Error(err))
		return nil
	}

	a.llm = model
	a.log.Info("Gemini client ready", zap.String("model", a.config.Model))
	return nil
}

func (a *AI) Stop(ctx context.Context) error {
	return nil
}

func (a *AI) LLM() llms.Model {
	return a.llm
}

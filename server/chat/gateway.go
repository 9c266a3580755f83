package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

const (
	// Generation controls, fixed per call.
	replyTemperature = 0.8
	replyMaxTokens   = 1000

	defaultReplyTimeout = 30 * time.Second
	streamChannelSize   = 16
)

type aiService interface {
	LLM() llms.Model
}

// GatewayConfig defines the configuration for the persona response gateway.
type GatewayConfig struct {
	ReplyTimeout time.Duration // Upper bound on a single upstream generation call
}

// Gateway turns a user utterance plus a persona into reply text. Upstream
// failures never escape it: a missing credential, a call error, or an empty
// completion all produce the persona's static fallback reply.
type Gateway struct {
	log    *zap.Logger
	config GatewayConfig
	ai     aiService

	mu        sync.RWMutex
	overrides map[Persona]string
}

func NewGateway(log *zap.Logger, c GatewayConfig, ai aiService) *Gateway {
	if c.ReplyTimeout <= 0 {
		c.ReplyTimeout = defaultReplyTimeout
	}
	return &Gateway{
		log:    log,
		config: c,
		ai:     ai,
	}
}

// SetTemplateOverrides replaces the persona prompt overrides, typically from
// a reloaded config file. Unknown persona names are ignored.
func (g *Gateway) SetTemplateOverrides(templates map[string]string) {
	overrides := make(map[Persona]string)
	for name, prompt := range templates {
		p := Persona(strings.ToLower(strings.TrimSpace(name)))
		if _, ok := personaPrompts[p]; !ok {
			g.log.Warn("Ignoring prompt override for unknown persona", zap.String("persona", name))
			continue
		}
		if strings.TrimSpace(prompt) != "" {
			overrides[p] = prompt
		}
	}

	g.mu.Lock()
	g.overrides = overrides
	g.mu.Unlock()
}

// Template returns the system prompt in effect for a persona.
func (g *Gateway) Template(p Persona) string {
	g.mu.RLock()
	override, ok := g.overrides[p]
	g.mu.RUnlock()
	if ok {
		return override
	}
	if prompt, ok := personaPrompts[p]; ok {
		return prompt
	}
	return judasPrompt
}

// Generate produces a reply for the message under the persona's prompt. The
// result is never empty and the call never fails; see the failure policy on
// Gateway.
func (g *Gateway) Generate(ctx context.Context, message string, persona Persona) string {
	llm := g.ai.LLM()
	if llm == nil {
		g.log.Warn("No model configured, serving persona fallback",
			zap.String("persona", string(persona)))
		return Fallback(persona)
	}

	ctx, cancel := context.WithTimeout(ctx, g.config.ReplyTimeout)
	defer cancel()

	resp, err := llm.GenerateContent(ctx, g.promptContent(message, persona),
		llms.WithTemperature(replyTemperature),
		llms.WithMaxTokens(replyMaxTokens),
	)
	if err != nil {
		g.log.Error("Failed to generate reply, serving persona fallback",
			zap.String("persona", string(persona)),
			zap.Error(err),
		)
		return Fallback(persona)
	}

	var completion string
	if len(resp.Choices) > 0 {
		completion = strings.TrimSpace(resp.Choices[0].Content)
	}
	if completion == "" {
		g.log.Warn("Empty completion from model, serving persona fallback",
			zap.String("persona", string(persona)))
		return Fallback(persona)
	}
	return completion
}

// GenerateStreaming produces reply chunks on the returned channel as they
// arrive upstream. The channel is closed when the reply is complete. Any
// failure before the first chunk yields a single fallback element. The
// producer is abandoned, not actively cancelled, when the consumer's context
// ends.
func (g *Gateway) GenerateStreaming(ctx context.Context, message string, persona Persona) <-chan string {
	out := make(chan string, streamChannelSize)

	go func() {
		defer close(out)

		llm := g.ai.LLM()
		if llm == nil {
			g.log.Warn("No model configured, streaming persona fallback",
				zap.String("persona", string(persona)))
			g.emit(ctx, out, Fallback(persona))
			return
		}

		callCtx, cancel := context.WithTimeout(ctx, g.config.ReplyTimeout)
		defer cancel()

		var sent bool
		_, err := llm.GenerateContent(callCtx, g.promptContent(message, persona),
			llms.WithTemperature(replyTemperature),
			llms.WithMaxTokens(replyMaxTokens),
			llms.WithStreamingFunc(func(chunkCtx context.Context, chunk []byte) error {
				if len(chunk) == 0 {
					return nil
				}
				select {
				case out <- string(chunk):
					sent = true
					return nil
				case <-chunkCtx.Done():
					return chunkCtx.Err()
				case <-callCtx.Done():
					return callCtx.Err()
				}
			}),
		)
		if err != nil && sent {
			// Partial reply already delivered, nothing sensible to append.
			g.log.Error("Streaming reply aborted mid-stream",
				zap.String("persona", string(persona)),
				zap.Error(err),
			)
			return
		}
		if err != nil || !sent {
			if err != nil {
				g.log.Error("Failed to stream reply, streaming persona fallback",
					zap.String("persona", string(persona)),
					zap.Error(err),
				)
			} else {
				g.log.Warn("Empty streamed completion, streaming persona fallback",
					zap.String("persona", string(persona)))
			}
			g.emit(ctx, out, Fallback(persona))
		}
	}()

	return out
}

func (g *Gateway) promptContent(message string, persona Persona) []llms.MessageContent {
	return []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, g.Template(persona)),
		llms.TextParts(schema.ChatMessageTypeHuman, message),
	}
}

func (g *Gateway) emit(ctx context.Context, out chan<- string, text string) {
	select {
	case out <- text:
	case <-ctx.Done():
	}
}

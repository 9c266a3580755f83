// Package chat holds the conversation store and the persona response
// gateway, plus the thin orchestration the HTTP handlers delegate to.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrEmptyMessage rejects a send before any store mutation happens.
var ErrEmptyMessage = errors.New("message cannot be empty")

// Chat composes the store and the gateway into the three conversation
// operations the HTTP surface exposes.
type Chat struct {
	log     *zap.Logger
	store   Store
	gateway *Gateway
}

func NewChat(log *zap.Logger, store Store, gateway *Gateway) *Chat {
	return &Chat{
		log:     log,
		store:   store,
		gateway: gateway,
	}
}

// List returns the whole conversation in temporal order.
func (c *Chat) List(ctx context.Context) ([]Message, error) {
	return c.store.List(ctx)
}

// Send records the user message, generates a persona reply, records that
// too, and returns both entries. If the assistant append fails the user
// entry stays behind without a paired reply; history is append-only and the
// next send proceeds normally.
func (c *Chat) Send(ctx context.Context, message string, persona Persona) (Message, Message, error) {
	if strings.TrimSpace(message) == "" {
		return Message{}, Message{}, ErrEmptyMessage
	}

	userMsg, err := c.store.Append(ctx, message, RoleUser, "")
	if err != nil {
		return Message{}, Message{}, fmt.Errorf("store user message: %w", err)
	}

	reply := c.gateway.Generate(ctx, message, persona)

	aiMsg, err := c.store.Append(ctx, reply, RoleAssistant, persona)
	if err != nil {
		return Message{}, Message{}, fmt.Errorf("store assistant message: %w", err)
	}

	c.log.Debug("Processed message",
		zap.String("persona", string(persona)),
		zap.String("user_id", userMsg.ID),
		zap.String("assistant_id", aiMsg.ID),
	)
	return userMsg, aiMsg, nil
}

// OpenStream validates and records the user message, then starts a
// streaming generation. The caller consumes the chunk channel and finishes
// with FinishStream once the reply is assembled.
func (c *Chat) OpenStream(ctx context.Context, message string, persona Persona) (Message, <-chan string, error) {
	if strings.TrimSpace(message) == "" {
		return Message{}, nil, ErrEmptyMessage
	}

	userMsg, err := c.store.Append(ctx, message, RoleUser, "")
	if err != nil {
		return Message{}, nil, fmt.Errorf("store user message: %w", err)
	}

	return userMsg, c.gateway.GenerateStreaming(ctx, message, persona), nil
}

// FinishStream records the assembled streamed reply as the assistant entry.
// An empty reply means the consumer abandoned the stream before the first
// chunk; the persona fallback is recorded so the conversation never holds
// an empty assistant message.
func (c *Chat) FinishStream(ctx context.Context, reply string, persona Persona) (Message, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = Fallback(persona)
	}

	aiMsg, err := c.store.Append(ctx, reply, RoleAssistant, persona)
	if err != nil {
		return Message{}, fmt.Errorf("store assistant message: %w", err)
	}
	return aiMsg, nil
}

// Clear drops the whole conversation.
func (c *Chat) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	return nil
}

package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestChat(store Store) *Chat {
	// No model configured, every reply is the persona fallback
	gateway := newTestGateway(nil)
	return NewChat(zap.NewNop(), store, gateway)
}

func TestChat_Send_UpstreamUnavailable(t *testing.T) {
	store := NewMemoryStore()
	chat := newTestChat(store)

	userMsg, aiMsg, err := chat.Send(context.Background(), "hello", PersonaJudas)
	require.NoError(t, err)

	if userMsg.Content != "hello" || userMsg.Role != RoleUser {
		t.Errorf("Send() userMessage = %+v, want user hello", userMsg)
	}
	if aiMsg.Role != RoleAssistant {
		t.Errorf("Send() aiMessage role = %v, want assistant", aiMsg.Role)
	}
	if aiMsg.Content != Fallback(PersonaJudas) {
		t.Errorf("Send() aiMessage content = %q, want judas fallback", aiMsg.Content)
	}
	if aiMsg.Persona != PersonaJudas {
		t.Errorf("Send() aiMessage persona = %v, want judas", aiMsg.Persona)
	}

	messages, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	if messages[0].ID != userMsg.ID || messages[1].ID != aiMsg.ID {
		t.Errorf("Send() stored messages out of order")
	}
}

func TestChat_Send_PersonaSelection(t *testing.T) {
	store := NewMemoryStore()
	chat := newTestChat(store)

	_, judasMsg, err := chat.Send(context.Background(), "hi", PersonaJudas)
	require.NoError(t, err)
	_, fangMsg, err := chat.Send(context.Background(), "hi", PersonaHeavensFang)
	require.NoError(t, err)

	if judasMsg.Content == fangMsg.Content {
		t.Errorf("personas should produce different fallback replies")
	}
}

func TestChat_Send_EmptyMessage(t *testing.T) {
	store := NewMemoryStore()
	chat := newTestChat(store)

	for _, message := range []string{"", "   ", "\n\t"} {
		_, _, err := chat.Send(context.Background(), message, PersonaJudas)
		if !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Send(%q) error = %v, want ErrEmptyMessage", message, err)
		}
	}

	// Validation happens before any store mutation
	messages, err := store.List(context.Background())
	require.NoError(t, err)
	if len(messages) != 0 {
		t.Errorf("store should be unchanged after rejected sends, has %d messages", len(messages))
	}
}

func TestChat_Clear(t *testing.T) {
	store := NewMemoryStore()
	chat := newTestChat(store)

	_, _, err := chat.Send(context.Background(), "hello", PersonaJudas)
	require.NoError(t, err)

	require.NoError(t, chat.Clear(context.Background()))

	messages, err := chat.List(context.Background())
	require.NoError(t, err)
	if len(messages) != 0 {
		t.Errorf("List() after Clear() returned %d messages", len(messages))
	}
}

func TestChat_OpenAndFinishStream(t *testing.T) {
	store := NewMemoryStore()
	chat := newTestChat(store)

	userMsg, chunks, err := chat.OpenStream(context.Background(), "hello", PersonaHeavensFang)
	require.NoError(t, err)
	if userMsg.Content != "hello" {
		t.Errorf("OpenStream() userMessage content = %q", userMsg.Content)
	}

	var reply string
	for chunk := range chunks {
		reply += chunk
	}
	if reply != Fallback(PersonaHeavensFang) {
		t.Errorf("stream produced %q, want heavens-fang fallback", reply)
	}

	aiMsg, err := chat.FinishStream(context.Background(), reply, PersonaHeavensFang)
	require.NoError(t, err)
	if aiMsg.Content != reply || aiMsg.Role != RoleAssistant {
		t.Errorf("FinishStream() message = %+v", aiMsg)
	}

	messages, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2)
}

func TestChat_OpenStream_EmptyMessage(t *testing.T) {
	store := NewMemoryStore()
	chat := newTestChat(store)

	_, _, err := chat.OpenStream(context.Background(), " ", PersonaJudas)
	if !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("OpenStream() error = %v, want ErrEmptyMessage", err)
	}
}

func TestChat_FinishStream_EmptyReply(t *testing.T) {
	store := NewMemoryStore()
	chat := newTestChat(store)

	aiMsg, err := chat.FinishStream(context.Background(), "  ", PersonaJudas)
	require.NoError(t, err)
	if aiMsg.Content != Fallback(PersonaJudas) {
		t.Errorf("FinishStream() with empty reply = %q, want fallback", aiMsg.Content)
	}
}

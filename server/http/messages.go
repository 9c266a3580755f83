// Package http serves the conversation API and health probes.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/the-last-flaw/refine-forge/server/chat"
	"go.uber.org/zap"
)

type sendMessageRequest struct {
	Message string `json:"message"`
	Persona string `json:"persona"`
}

type sendMessageResponse struct {
	UserMessage chat.Message `json:"userMessage"`
	AIMessage   chat.Message `json:"aiMessage"`
}

// messages dispatches the conversation operations on /api/messages.
func (h *Server) messages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listMessages(w, r)
	case http.MethodPost:
		h.sendMessage(w, r)
	case http.MethodDelete:
		h.clearMessages(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chat.List(r.Context())
	if err != nil {
		h.log.Error("Failed to list messages", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to get messages")
		return
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	h.writeJSON(w, http.StatusOK, messages)
}

func (h *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("Failed to decode send request", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	userMsg, aiMsg, err := h.chat.Send(r.Context(), req.Message, chat.ParsePersona(req.Persona))
	if err != nil {
		if !errors.Is(err, chat.ErrEmptyMessage) {
			h.log.Error("Failed to process message", zap.Error(err))
		}
		h.writeError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	h.writeJSON(w, http.StatusOK, sendMessageResponse{
		UserMessage: userMsg,
		AIMessage:   aiMsg,
	})
}

func (h *Server) clearMessages(w http.ResponseWriter, r *http.Request) {
	if err := h.chat.Clear(r.Context()); err != nil {
		h.log.Error("Failed to clear messages", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to clear messages")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// streamMessage forwards reply chunks over SSE as they arrive upstream,
// then persists the assembled reply. Forwarding is best effort: a client
// that disconnects mid-stream abandons the producer.
func (h *Server) streamMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	persona := chat.ParsePersona(req.Persona)
	_, chunks, err := h.chat.OpenStream(r.Context(), req.Message, persona)
	if err != nil {
		if !errors.Is(err, chat.ErrEmptyMessage) {
			h.log.Error("Failed to open stream", zap.Error(err))
		}
		h.writeError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	var reply strings.Builder
	for chunk := range chunks {
		reply.WriteString(chunk)
		payload, err := json.Marshal(map[string]string{"chunk": chunk})
		if err != nil {
			continue
		}
		if _, err := w.Write(append(append([]byte("data: "), payload...), '\n', '\n')); err != nil {
			// Client gone, keep draining so the reply still gets recorded.
			continue
		}
		flusher.Flush()
	}

	// The reply is recorded even when the client disconnected mid-stream.
	if _, err := h.chat.FinishStream(context.WithoutCancel(r.Context()), reply.String(), persona); err != nil {
		h.log.Error("Failed to record streamed reply", zap.Error(err))
	}

	_, _ = w.Write([]byte("data: [DONE]\n\n"))
	flusher.Flush()
}

func (h *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Server) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

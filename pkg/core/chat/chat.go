// Package chat orchestrates conversation turns against the completion
// endpoint and delegates reply post-processing to the extractor. All
// model and transport failures are degraded to plain-text replies; Send
// never surfaces an error to the caller.
package chat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/techadvisor/techadvisor/pkg/core"
	"github.com/techadvisor/techadvisor/pkg/core/extract"
	"github.com/techadvisor/techadvisor/pkg/core/providers/gemini"
	"github.com/techadvisor/techadvisor/pkg/core/types"
)

// User-visible degradation texts. Failures always read as plain pt-BR
// messages, never as raw errors.
const (
	configErrorText = "Erro de configuração: chave de API não encontrada. Configure a variável GEMINI_API_KEY."
	fallbackText    = "Ocorreu um erro ao processar sua solicitação. Tente novamente."
	emptyReplyText  = "Desculpe, não consegui encontrar informações no momento."
)

// CompletionClient is the injected completion endpoint dependency.
type CompletionClient interface {
	Generate(ctx context.Context, req *gemini.GenerateRequest) (*gemini.GenerateResponse, error)
}

// Session owns one in-memory conversation. Messages are appended in
// send-then-receive order and are immutable once appended. The session
// is the only owner of its history.
type Session struct {
	client   CompletionClient
	model    string
	location *types.LatLng

	mu      sync.Mutex
	history []types.ChatMessage
}

// NewSession creates a conversation session. A nil client is allowed and
// degrades every turn to the configuration apology; callers without a
// credential still get a working (if useless) session instead of a
// crash.
func NewSession(client CompletionClient, model string) *Session {
	if model == "" {
		model = gemini.DefaultModel
	}
	return &Session{client: client, model: model}
}

// SetLocation supplies user coordinates, enabling the store-finder tool
// on subsequent turns. Passing nil reverts to search-only grounding.
func (s *Session) SetLocation(loc *types.LatLng) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = loc
}

// History returns a copy of the conversation so far.
func (s *Session) History() []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// Reset drops the conversation history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// Send submits a user turn and returns the model's reply message, with
// recommendation metadata attached when the turn produced any. The reply
// is always a renderable message: configuration, transport and parse
// failures degrade to apology text.
func (s *Session) Send(ctx context.Context, text string) types.ChatMessage {
	s.mu.Lock()
	prior := make([]types.ChatMessage, len(s.history))
	copy(prior, s.history)
	location := s.location
	s.mu.Unlock()

	user := types.NewUserMessage(text)
	reply := s.complete(ctx, prior, location, text)

	s.mu.Lock()
	s.history = append(s.history, user, reply)
	s.mu.Unlock()

	return reply
}

func (s *Session) complete(ctx context.Context, prior []types.ChatMessage, location *types.LatLng, text string) types.ChatMessage {
	if s.client == nil {
		slog.Error("completion client not configured")
		return types.NewModelMessage(configErrorText, nil)
	}

	resp, err := s.client.Generate(ctx, &gemini.GenerateRequest{
		Model:             s.model,
		SystemInstruction: systemInstruction,
		History:           prior,
		Message:           text,
		Location:          location,
	})
	if err != nil {
		slog.Error("completion turn failed", "error", err)
		if core.TypeOf(err) == core.ErrConfiguration {
			return types.NewModelMessage(configErrorText, nil)
		}
		return types.NewModelMessage(fallbackText, nil)
	}

	raw := resp.Text
	if raw == "" {
		raw = emptyReplyText
	}

	clean, md := extract.Extract(raw, resp.GroundingChunks)
	if md.IsEmpty() {
		md = nil
	}
	return types.NewModelMessage(clean, md)
}

// Package gemini implements the hosted completion endpoint client. It
// translates the advisor's conversation model into the Gemini REST wire
// format, including search and maps grounding configuration.
package gemini

import (
	"context"
	"net/http"

	"github.com/techadvisor/techadvisor/pkg/core/types"
)

const (
	// DefaultBaseURL is the default Gemini API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the chat completion model.
	DefaultModel = "gemini-2.5-flash"
)

// GenerateRequest describes one completion turn.
type GenerateRequest struct {
	// Model identifier; DefaultModel when empty.
	Model string

	// SystemInstruction is the assistant persona prompt.
	SystemInstruction string

	// History is replayed as role-tagged text turns, in order, before the
	// new message.
	History []types.ChatMessage

	// Message is the new user turn.
	Message string

	// Location enables the maps grounding tool when non-nil.
	Location *types.LatLng
}

// GenerateResponse is the provider-neutral result of a completion turn.
type GenerateResponse struct {
	// Text is the concatenated reply text of the first candidate.
	Text string

	// GroundingChunks are the citation units attached to the reply, in
	// upstream order. Empty when the turn used no grounding.
	GroundingChunks []types.GroundingChunk
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a Gemini client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends a completion request and parses the reply.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	body, err := c.doRequest(ctx, model, buildRequest(req))
	if err != nil {
		return nil, err
	}

	return parseResponse(body)
}

package gemini

import (
	"encoding/json"
	"strings"

	"github.com/techadvisor/techadvisor/pkg/core"
	"github.com/techadvisor/techadvisor/pkg/core/types"
)

// geminiResponse is the generateContent response body.
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content           geminiContent      `json:"content"`
	FinishReason      string             `json:"finishReason,omitempty"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata,omitempty"`
}

type groundingMetadata struct {
	GroundingChunks []wireGroundingChunk `json:"groundingChunks,omitempty"`
}

// wireGroundingChunk mirrors the upstream chunk shape. Some API versions
// nest the payload one level deeper under groundingChunk.
type wireGroundingChunk struct {
	Web    *wireWebChunk       `json:"web,omitempty"`
	Maps   *wireMapsChunk      `json:"maps,omitempty"`
	Nested *wireGroundingChunk `json:"groundingChunk,omitempty"`
}

type wireWebChunk struct {
	URI    string `json:"uri"`
	Title  string `json:"title"`
	Domain string `json:"domain,omitempty"`
}

type wireMapsChunk struct {
	Title    string `json:"title"`
	Address  string `json:"address,omitempty"`
	URI      string `json:"uri,omitempty"`
	Distance string `json:"distance,omitempty"`
}

// parseResponse extracts the reply text and grounding chunks from a raw
// response body.
func parseResponse(body []byte) (*GenerateResponse, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, core.NewParseError("unmarshal completion response", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, core.NewParseError("completion response has no candidates", nil)
	}

	candidate := resp.Candidates[0]

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	out := &GenerateResponse{Text: text.String()}
	if candidate.GroundingMetadata != nil {
		out.GroundingChunks = convertChunks(candidate.GroundingMetadata.GroundingChunks)
	}
	return out, nil
}

// convertChunks flattens wire chunks into the advisor's grounding model,
// unwrapping the nested variant and dropping chunks with no payload.
func convertChunks(wire []wireGroundingChunk) []types.GroundingChunk {
	chunks := make([]types.GroundingChunk, 0, len(wire))
	for _, w := range wire {
		if w.Web == nil && w.Maps == nil && w.Nested != nil {
			w = *w.Nested
		}
		if w.Web == nil && w.Maps == nil {
			continue
		}
		chunk := types.GroundingChunk{}
		if w.Web != nil {
			chunk.Web = &types.WebChunk{
				URI:    w.Web.URI,
				Title:  w.Web.Title,
				Domain: w.Web.Domain,
			}
		}
		if w.Maps != nil {
			chunk.Maps = &types.MapsChunk{
				Title:    w.Maps.Title,
				Address:  w.Maps.Address,
				URI:      w.Maps.URI,
				Distance: w.Maps.Distance,
			}
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

package gemini

import "github.com/techadvisor/techadvisor/pkg/core/types"

// geminiRequest is the generateContent request body.
// Note: the Gemini API uses camelCase JSON field names.
type geminiRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	Tools             []geminiTool      `json:"tools,omitempty"`
	ToolConfig        *geminiToolConfig `json:"toolConfig,omitempty"`
}

// geminiContent is one role-tagged turn.
type geminiContent struct {
	Role  string       `json:"role,omitempty"` // "user" or "model"
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

// geminiTool enables a grounding tool. Exactly one field is set per
// entry.
type geminiTool struct {
	GoogleSearch *googleSearch `json:"googleSearch,omitempty"`
	GoogleMaps   *googleMaps   `json:"googleMaps,omitempty"`
}

type googleSearch struct{}

type googleMaps struct{}

// geminiToolConfig scopes grounding retrieval to the user's coordinates.
type geminiToolConfig struct {
	RetrievalConfig *retrievalConfig `json:"retrievalConfig,omitempty"`
}

type retrievalConfig struct {
	LatLng *wireLatLng `json:"latLng,omitempty"`
}

type wireLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// buildRequest translates a GenerateRequest to the wire format. Search
// grounding is always on; maps grounding and the retrieval coordinates
// are added only when the caller supplied a location.
func buildRequest(req *GenerateRequest) *geminiRequest {
	out := &geminiRequest{
		Tools: []geminiTool{{GoogleSearch: &googleSearch{}}},
	}

	if req.SystemInstruction != "" {
		out.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.SystemInstruction}},
		}
	}

	if req.Location != nil {
		out.Tools = append(out.Tools, geminiTool{GoogleMaps: &googleMaps{}})
		out.ToolConfig = &geminiToolConfig{
			RetrievalConfig: &retrievalConfig{
				LatLng: &wireLatLng{
					Latitude:  req.Location.Latitude,
					Longitude: req.Location.Longitude,
				},
			},
		}
	}

	out.Contents = make([]geminiContent, 0, len(req.History)+1)
	for _, msg := range req.History {
		out.Contents = append(out.Contents, geminiContent{
			Role:  string(msg.Role),
			Parts: []geminiPart{{Text: msg.Text}},
		})
	}
	out.Contents = append(out.Contents, geminiContent{
		Role:  string(types.RoleUser),
		Parts: []geminiPart{{Text: req.Message}},
	})

	return out
}

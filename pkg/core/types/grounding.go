package types

// LatLng is a pair of coordinates supplied by the caller. Absence of
// coordinates degrades the session to search-only grounding.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GroundingChunk is one citation unit returned by the search or maps
// grounding tool. Exactly one of Web or Maps is set on well-formed
// chunks; malformed chunks are skipped by the extractor.
type GroundingChunk struct {
	Web  *WebChunk  `json:"web,omitempty"`
	Maps *MapsChunk `json:"maps,omitempty"`
}

// WebChunk references a web page backing part of the reply.
type WebChunk struct {
	URI    string `json:"uri"`
	Title  string `json:"title"`
	Domain string `json:"domain,omitempty"`
}

// MapsChunk references a physical place. Address and URI are optional
// upstream; the extractor synthesizes fallbacks.
type MapsChunk struct {
	Title    string `json:"title"`
	Address  string `json:"address,omitempty"`
	URI      string `json:"uri,omitempty"`
	Distance string `json:"distance,omitempty"`
}

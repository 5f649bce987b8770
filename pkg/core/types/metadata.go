package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RecommendationMetadata is the structured bundle attached to a model
// message. All fields are optional; absence means the turn produced no
// data of that kind. Sequences keep insertion order.
type RecommendationMetadata struct {
	Notebooks      []Notebook      `json:"notebooks,omitempty"`
	ChartData      []PricePoint    `json:"chartData,omitempty"`
	MapLocations   []StoreLocation `json:"mapLocations,omitempty"`
	GroundingLinks []GroundingLink `json:"groundingLinks,omitempty"`
}

// IsEmpty reports whether the bundle carries no data at all.
func (m *RecommendationMetadata) IsEmpty() bool {
	if m == nil {
		return true
	}
	return len(m.Notebooks) == 0 && len(m.ChartData) == 0 &&
		len(m.MapLocations) == 0 && len(m.GroundingLinks) == 0
}

// TopGroundingLinks returns the first n grounding links in upstream order.
// The UI surfaces at most 3; the rest stay in the metadata.
func (m *RecommendationMetadata) TopGroundingLinks(n int) []GroundingLink {
	if m == nil || n <= 0 || len(m.GroundingLinks) == 0 {
		return nil
	}
	if n > len(m.GroundingLinks) {
		n = len(m.GroundingLinks)
	}
	return m.GroundingLinks[:n]
}

// Specs holds the hardware summary of a recommended notebook. Fields the
// model omitted or produced as non-strings decode to "" and render as a
// placeholder.
type Specs struct {
	CPU     string `json:"cpu,omitempty"`
	RAM     string `json:"ram,omitempty"`
	GPU     string `json:"gpu,omitempty"`
	Storage string `json:"storage,omitempty"`
	Screen  string `json:"screen,omitempty"`
}

// Notebook is one recommended model. Price is normalized to a plain
// float64 at the decode boundary; 0 means unknown and renders as a
// "consult the store" placeholder rather than a currency value.
type Notebook struct {
	Name              string   `json:"name"`
	Price             float64  `json:"price"`
	Specs             Specs    `json:"specs"`
	Pros              []string `json:"pros,omitempty"`
	Cons              []string `json:"cons,omitempty"`
	EstimatedShipping string   `json:"estimatedShipping,omitempty"`
	URL               string   `json:"url,omitempty"`
	Store             string   `json:"store,omitempty"`
}

// UnmarshalJSON decodes a notebook defensively: price may arrive as a
// number, a currency string, or an object, and spec fields may be any
// JSON type. Malformed fields degrade instead of failing the decode.
func (n *Notebook) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name              flexString      `json:"name"`
		Price             json.RawMessage `json:"price"`
		Specs             json.RawMessage `json:"specs"`
		Pros              flexStrings     `json:"pros"`
		Cons              flexStrings     `json:"cons"`
		EstimatedShipping flexString      `json:"estimatedShipping"`
		URL               flexString      `json:"url"`
		Store             flexString      `json:"store"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	n.Name = string(raw.Name)
	n.Price = CoercePrice(raw.Price)
	n.Specs = decodeSpecs(raw.Specs)
	n.Pros = raw.Pros
	n.Cons = raw.Cons
	n.EstimatedShipping = string(raw.EstimatedShipping)
	n.URL = string(raw.URL)
	n.Store = string(raw.Store)
	return nil
}

// PricePoint feeds the horizontal price bar chart. Render order is
// insertion order; no sorting invariant.
type PricePoint struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Store string  `json:"store,omitempty"`
}

// UnmarshalJSON applies the same price coercion as Notebook.
func (p *PricePoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  flexString      `json:"name"`
		Price json.RawMessage `json:"price"`
		Store flexString      `json:"store"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Name = string(raw.Name)
	p.Price = CoercePrice(raw.Price)
	p.Store = string(raw.Store)
	return nil
}

// StoreLocation is a physical store surfaced by maps grounding. Address
// and URL may be synthesized when the upstream chunk lacks them.
type StoreLocation struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	URL       string  `json:"url,omitempty"`
	Distance  string  `json:"distance,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// GroundingLink is a web citation surfaced by search grounding.
type GroundingLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SanitizePrice normalizes a price string that may carry currency symbols
// and thousand separators ("R$ 4.999,90", "1234.56"). It strips every
// byte that is not a digit or a dot, then parses the remainder. Returns
// 0 when nothing parseable remains.
func SanitizePrice(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CoercePrice normalizes a raw JSON price value to a float64. Numbers
// pass through untouched; strings run through SanitizePrice; objects are
// probed for common amount fields; anything else yields 0.
func CoercePrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		if math.IsNaN(num) || math.IsInf(num, 0) {
			return 0
		}
		return num
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return SanitizePrice(s)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"amount", "value", "price"} {
			if inner, ok := obj[key]; ok {
				return CoercePrice(inner)
			}
		}
	}
	return 0
}

// flexString decodes any scalar JSON value to a string; non-strings and
// composites decode to "".
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err == nil {
		*s = flexString(v)
		return nil
	}
	*s = ""
	return nil
}

// flexStrings decodes a JSON array keeping only its string elements.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*f = nil
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var v string
		if err := json.Unmarshal(item, &v); err == nil {
			out = append(out, v)
		}
	}
	*f = out
	return nil
}

func decodeSpecs(raw json.RawMessage) Specs {
	if len(raw) == 0 {
		return Specs{}
	}
	var flex struct {
		CPU     flexString `json:"cpu"`
		RAM     flexString `json:"ram"`
		GPU     flexString `json:"gpu"`
		Storage flexString `json:"storage"`
		Screen  flexString `json:"screen"`
	}
	if err := json.Unmarshal(raw, &flex); err != nil {
		return Specs{}
	}
	return Specs{
		CPU:     string(flex.CPU),
		RAM:     string(flex.RAM),
		GPU:     string(flex.GPU),
		Storage: string(flex.Storage),
		Screen:  string(flex.Screen),
	}
}

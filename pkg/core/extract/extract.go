// Package extract turns free-form model reply text plus grounding chunks
// into the structured recommendation payload the renderer consumes.
package extract

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"github.com/techadvisor/techadvisor/pkg/core/types"
)

// fallbackAddress is shown when a maps chunk carries no address.
const fallbackAddress = "Ver no mapa"

// Extract parses a model reply into clean display text and recommendation
// metadata. The fenced JSON block, when present, is always removed from
// the returned text; a block that fails to parse degrades to plain text
// with grounding-only metadata and is never an error. Malformed chunks
// are skipped individually.
func Extract(text string, chunks []types.GroundingChunk) (string, *types.RecommendationMetadata) {
	md := &types.RecommendationMetadata{
		GroundingLinks: groundingLinks(chunks),
		MapLocations:   mapLocations(chunks),
	}

	region, ok := findFencedJSON(text)
	if !ok {
		return strings.TrimSpace(text), md
	}

	clean := removeFence(text, region)

	var block struct {
		Notebooks []json.RawMessage `json:"notebooks"`
		ChartData []json.RawMessage `json:"chartData"`
	}
	if err := json.Unmarshal([]byte(region.body), &block); err != nil {
		slog.Warn("discarding unparseable recommendation block", "error", err)
		return clean, md
	}

	for _, raw := range block.Notebooks {
		var nb types.Notebook
		if err := json.Unmarshal(raw, &nb); err != nil {
			slog.Warn("skipping malformed notebook entry", "error", err)
			continue
		}
		md.Notebooks = append(md.Notebooks, nb)
	}
	for _, raw := range block.ChartData {
		var pp types.PricePoint
		if err := json.Unmarshal(raw, &pp); err != nil {
			slog.Warn("skipping malformed chart entry", "error", err)
			continue
		}
		md.ChartData = append(md.ChartData, pp)
	}

	return clean, md
}

// groundingLinks maps web chunks to citation links, preserving upstream
// order. Chunks without a URI are skipped.
func groundingLinks(chunks []types.GroundingChunk) []types.GroundingLink {
	var links []types.GroundingLink
	for _, c := range chunks {
		if c.Web == nil || c.Web.URI == "" {
			continue
		}
		links = append(links, types.GroundingLink{
			Title: c.Web.Title,
			URL:   c.Web.URI,
		})
	}
	return links
}

// mapLocations maps place chunks to store locations, synthesizing a maps
// search URL and a placeholder address when the chunk lacks them.
func mapLocations(chunks []types.GroundingChunk) []types.StoreLocation {
	var locations []types.StoreLocation
	for _, c := range chunks {
		if c.Maps == nil || c.Maps.Title == "" {
			continue
		}
		loc := types.StoreLocation{
			Name:     c.Maps.Title,
			Address:  c.Maps.Address,
			URL:      c.Maps.URI,
			Distance: c.Maps.Distance,
		}
		if loc.Address == "" {
			loc.Address = fallbackAddress
		}
		if loc.URL == "" {
			loc.URL = mapsSearchURL(c.Maps.Title)
		}
		locations = append(locations, loc)
	}
	return locations
}

func mapsSearchURL(name string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(name)
}

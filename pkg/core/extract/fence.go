package extract

import "strings"

const (
	fenceOpen  = "```json"
	fenceClose = "```"
)

// fencedRegion describes the first complete ```json fence in a reply.
type fencedRegion struct {
	body  string // content between the markers
	start int    // byte offset of the opening marker
	end   int    // byte offset just past the closing marker
}

// findFencedJSON locates the first complete ```json ... ``` region with a
// single forward pass. An opening marker without a closing marker is not
// a fence; the caller falls back to treating the reply as plain text.
func findFencedJSON(text string) (fencedRegion, bool) {
	start := strings.Index(text, fenceOpen)
	if start < 0 {
		return fencedRegion{}, false
	}

	bodyStart := start + len(fenceOpen)
	rel := strings.Index(text[bodyStart:], fenceClose)
	if rel < 0 {
		return fencedRegion{}, false
	}

	return fencedRegion{
		body:  strings.TrimSpace(text[bodyStart : bodyStart+rel]),
		start: start,
		end:   bodyStart + rel + len(fenceClose),
	}, true
}

// removeFence returns text with the fenced region cut out and the
// surrounding whitespace collapsed.
func removeFence(text string, region fencedRegion) string {
	return strings.TrimSpace(text[:region.start] + text[region.end:])
}

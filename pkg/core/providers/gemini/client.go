package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/techadvisor/techadvisor/pkg/core"
)

// Option adjusts how the client talks to the endpoint.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint, typically a
// test server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient swaps the underlying HTTP client, for custom timeouts
// or transports.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// doRequest posts a generateContent request and returns the raw response
// body. API-level failures are mapped onto the advisor's error taxonomy.
func (c *Client) doRequest(ctx context.Context, model string, req *geminiRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, core.NewTransportError("marshal request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, core.NewTransportError("create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, core.NewTransportError("call completion endpoint", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, parseError(resp)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewTransportError("read response body", err)
	}
	return respBody, nil
}

// apiError is the Google RPC error envelope.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// parseError maps an HTTP error response to the taxonomy. Credential
// problems become configuration errors so the orchestrator can show the
// configuration apology instead of the generic one; everything else is a
// transport failure.
func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return core.NewTransportError(fmt.Sprintf("completion endpoint returned HTTP %d", resp.StatusCode), nil)
	}

	switch apiErr.Error.Status {
	case "UNAUTHENTICATED", "PERMISSION_DENIED":
		return core.NewConfigurationError(fmt.Sprintf("completion endpoint rejected credential: %s", apiErr.Error.Message))
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return core.NewConfigurationError(fmt.Sprintf("completion endpoint rejected credential: %s", apiErr.Error.Message))
	}

	return core.NewTransportError(fmt.Sprintf("completion endpoint error (%s)", apiErr.Error.Status), fmt.Errorf("%s", apiErr.Error.Message))
}

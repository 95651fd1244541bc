package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient calls the validator service, which wraps the LLM prompt and
// returns the verdict as JSON.
type HTTPClient struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewHTTPClient(baseURL, model string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

var _ Classifier = (*HTTPClient)(nil)

func (c *HTTPClient) Classify(ctx context.Context, input Input) (*Verdict, error) {
	body, err := json.Marshal(struct {
		Input
		Model string `json:"model"`
	}{Input: input, Model: c.model})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling validator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("validator returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	verdict, err := ParseVerdict(raw)
	if err != nil {
		return nil, err
	}
	return verdict, nil
}

// ParseVerdict decodes a verdict, tolerating the markdown code fences some
// LLM backends wrap around their JSON output.
func ParseVerdict(raw []byte) (*Verdict, error) {
	content := strings.TrimSpace(string(raw))
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return nil, fmt.Errorf("validator response is not valid JSON: %w", err)
	}
	return &verdict, nil
}

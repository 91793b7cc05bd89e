package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// GenerateRequest describes one grounded completion call.
type GenerateRequest struct {
	// Contents is the bounded conversational context, oldest first,
	// ending with the current user query.
	Contents []Content
	// StoreID enables retrieval against the given file search store.
	StoreID string
	// SystemInstruction is the fixed persona prompt.
	SystemInstruction string
	Temperature       float64
	MaxOutputTokens   int
}

// GenerateContent issues one generateContent call with retrieval
// enabled and decodes the response at the boundary. Non-200 responses
// surface as *StatusError.
func (c *Client) GenerateContent(ctx context.Context, greq GenerateRequest) (*GenerateResponse, error) {
	body := generateBody{
		Contents: greq.Contents,
		GenerationConfig: &generationConfig{
			Temperature:     greq.Temperature,
			MaxOutputTokens: greq.MaxOutputTokens,
		},
	}
	if greq.StoreID != "" {
		body.Tools = []tool{{
			FileSearch: &fileSearch{FileSearchStoreNames: []string{greq.StoreID}},
		}}
	}
	if greq.SystemInstruction != "" {
		body.SystemInstruction = &systemInstruction{
			Parts: []Part{{Text: greq.SystemInstruction}},
		}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint(c.baseURL, "/models/"+c.model+":generateContent", url.Values{}),
		bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("gemini: generate: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	return &out, nil
}

// AnswerText concatenates the text parts of the first candidate in
// arrival order. Empty when the response carries no candidates.
func (r *GenerateResponse) AnswerText() string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var buf bytes.Buffer
	for _, p := range r.Candidates[0].Content.Parts {
		buf.WriteString(p.Text)
	}
	return buf.String()
}

// Grounding returns the grounding metadata of the first candidate, or
// nil when the response carries none.
func (r *GenerateResponse) Grounding() *GroundingMetadata {
	if len(r.Candidates) == 0 {
		return nil
	}
	return r.Candidates[0].GroundingMetadata
}

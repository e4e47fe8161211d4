package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RESTClient implements Store against a Pinecone-shaped REST API: one
// index, an Api-Key request header for auth, JSON request/response bodies.
// The auth setup follows the teacher's GitHubClient (optional token,
// constant-timeout http.Client, setAuthHeader on every request), sending
// the key in an Api-Key header rather than as a bearer token.
type RESTClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewRESTClient builds a client against baseURL (e.g. an index host).
// apiKey may be empty only if the upstream genuinely requires none.
func NewRESTClient(baseURL, apiKey string) *RESTClient {
	return &RESTClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

func (c *RESTClient) setAuthHeader(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Api-Key", c.apiKey)
	}
}

type upsertRequest struct {
	Vectors []upsertVector `json:"vectors"`
}

type upsertVector struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (c *RESTClient) Upsert(ctx context.Context, docs []Document) error {
	body := upsertRequest{}
	for _, d := range docs {
		meta := d.Metadata
		if meta == nil {
			meta = make(map[string]string)
		}
		if d.Text != "" {
			meta["text"] = d.Text
		}
		body.Vectors = append(body.Vectors, upsertVector{ID: d.ID, Values: d.Vector, Metadata: meta})
	}

	return c.post(ctx, "/vectors/upsert", body, nil)
}

type searchRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type searchResponse struct {
	Matches []struct {
		ID       string            `json:"id"`
		Score    float32           `json:"score"`
		Metadata map[string]string `json:"metadata"`
	} `json:"matches"`
}

func (c *RESTClient) Search(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	var resp searchResponse
	if err := c.post(ctx, "/query", searchRequest{Vector: vector, TopK: topK, IncludeMetadata: true}, &resp); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, Match{
			Document: Document{ID: m.ID, Metadata: m.Metadata},
			Score:    m.Score,
		})
	}
	return matches, nil
}

type deleteRequest struct {
	IDs []string `json:"ids"`
}

func (c *RESTClient) Delete(ctx context.Context, ids []string) error {
	return c.post(ctx, "/vectors/delete", deleteRequest{IDs: ids}, nil)
}

func (c *RESTClient) post(ctx context.Context, path string, reqBody any, respBody any) error {
	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("vectorstore: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("vectorstore: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vectorstore: request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("vectorstore: %s returned HTTP %d: %s", path, resp.StatusCode, string(b))
	}

	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("vectorstore: decoding response from %s: %w", path, err)
	}
	return nil
}

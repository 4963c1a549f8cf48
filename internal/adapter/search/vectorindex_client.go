package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"financeqa/internal/domain"
	"financeqa/internal/infra/httpclient"
)

// VectorIndexClient talks to a standalone vector-index service over HTTP.
// The service owns embedding and ranking; this client only scopes queries
// with the planned predicate.
type VectorIndexClient struct {
	BaseURL string
	Client  *http.Client
}

// NewVectorIndexClient creates a client for the given base URL.
func NewVectorIndexClient(baseURL string, timeout time.Duration) *VectorIndexClient {
	return &VectorIndexClient{
		BaseURL: baseURL,
		Client:  httpclient.NewPooledClient(timeout),
	}
}

type searchRequest struct {
	Query  string           `json:"query"`
	Filter *domain.Predicate `json:"filter,omitempty"`
	K      int              `json:"k"`
}

type searchHit struct {
	Text    string  `json:"text"`
	Company string  `json:"company"`
	Year    int     `json:"year"`
	Quarter string  `json:"quarter"`
	Page    int     `json:"page"`
	Score   float32 `json:"score"`
}

type searchResponse struct {
	Hits []searchHit `json:"hits"`
}

type documentsResponse struct {
	Documents []string `json:"documents"`
}

// Search implements domain.SearchClient.
func (c *VectorIndexClient) Search(ctx context.Context, query string, filter domain.Predicate, k int) ([]domain.RetrievedPassage, error) {
	reqBody := searchRequest{Query: query, K: k}
	if !filter.IsEmpty() {
		reqBody.Filter = &filter
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/search", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status: %d", resp.StatusCode)
	}

	var sResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	passages := make([]domain.RetrievedPassage, len(sResp.Hits))
	for i, h := range sResp.Hits {
		passages[i] = domain.RetrievedPassage{
			Text:    h.Text,
			Company: h.Company,
			Year:    h.Year,
			Quarter: h.Quarter,
			Page:    h.Page,
			Score:   h.Score,
		}
	}

	return passages, nil
}

// ListDocuments implements domain.CorpusLister via the index's document
// listing endpoint.
func (c *VectorIndexClient) ListDocuments(ctx context.Context) ([]domain.DocumentIdentity, error) {
	url := fmt.Sprintf("%s/v1/documents", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create documents request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("documents request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("documents returned status: %d", resp.StatusCode)
	}

	var dResp documentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dResp); err != nil {
		return nil, fmt.Errorf("failed to decode documents response: %w", err)
	}

	docs := make([]domain.DocumentIdentity, 0, len(dResp.Documents))
	for _, name := range dResp.Documents {
		doc, err := domain.ParseDocumentName(name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

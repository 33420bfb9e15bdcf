package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fradegh/ai-sales-sub002/internal/model"
)

// Retriever is the RAG collaborator. The engine only consumes its output
// contract; embedding and vector search live elsewhere.
type Retriever interface {
	Retrieve(ctx context.Context, tenantID, query string) (model.RetrievalResult, error)
}

// HTTPRetriever calls the retrieval service over HTTP
type HTTPRetriever struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPRetriever(baseURL string, timeout time.Duration) *HTTPRetriever {
	return &HTTPRetriever{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (r *HTTPRetriever) Retrieve(ctx context.Context, tenantID, query string) (model.RetrievalResult, error) {
	var result model.RetrievalResult

	reqBody, err := json.Marshal(map[string]string{
		"tenantId": tenantID,
		"query":    query,
	})
	if err != nil {
		return result, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/v1/retrieve", bytes.NewBuffer(reqBody))
	if err != nil {
		return result, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("retrieval service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("decode retrieval response: %w", err)
	}

	return result, nil
}

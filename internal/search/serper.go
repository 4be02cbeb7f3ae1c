// Package search talks to the Serper web-search API.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const DefaultBaseURL = "https://google.serper.dev"

// Result is one organic search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type searchResponse struct {
	Organic []Result `json:"organic"`
}

// Serper is bound to one caller's API key.
type Serper struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Serper)

func WithBaseURL(url string) Option {
	return func(s *Serper) {
		if url != "" {
			s.baseURL = strings.TrimRight(url, "/")
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *Serper) {
		s.httpClient = client
	}
}

func NewSerper(apiKey string, opts ...Option) *Serper {
	s := &Serper{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns up to num organic results for query.
func (s *Serper) Search(ctx context.Context, query string, num int) ([]Result, error) {
	body, err := json.Marshal(searchRequest{Q: query, Num: num})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create search request")
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call search API", goerr.V("query", query))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, goerr.New("search API returned non-200 status",
			goerr.V("status", resp.StatusCode),
			goerr.V("query", query),
			goerr.V("body", string(snippet)))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, goerr.Wrap(err, "failed to decode search response", goerr.V("query", query))
	}

	if num > 0 && len(out.Organic) > num {
		out.Organic = out.Organic[:num]
	}
	return out.Organic, nil
}

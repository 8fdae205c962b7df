package storage

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

// SupabaseClient talks to the Supabase Storage REST API.
type SupabaseClient struct {
	BaseURL string
	ApiKey  string

	httpClient *http.Client
}

func NewSupabaseClient(baseURL, apiKey string) *SupabaseClient {
	return &SupabaseClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		ApiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewSupabaseClientWithHTTP creates a client with an explicit http.Client (for testing).
func NewSupabaseClientWithHTTP(baseURL, apiKey string, httpClient *http.Client) *SupabaseClient {
	c := NewSupabaseClient(baseURL, apiKey)
	c.httpClient = httpClient
	return c
}

func (c *SupabaseClient) objectURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", c.BaseURL, bucket, path)
}

func (c *SupabaseClient) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(bucket, path), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.ApiKey)
	req.Header.Set("Content-Type", contentType)
	// Re-ingestion and reprocessing overwrite artifacts in place
	req.Header.Set("x-upsert", "true")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		resByte, _ := io.ReadAll(res.Body)
		return fmt.Errorf("storage upload error, code %d, body %s", res.StatusCode, string(resByte))
	}
	return nil
}

func (c *SupabaseClient) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.objectURL(bucket, path), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.ApiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storage download error, code %d, body %s", res.StatusCode, string(resByte))
	}
	return resByte, nil
}

type listRequest struct {
	Prefix string     `json:"prefix"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	SortBy listSortBy `json:"sortBy"`
}

type listSortBy struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

func (c *SupabaseClient) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	payload := listRequest{
		Prefix: prefix,
		Limit:  1000,
		Offset: 0,
		SortBy: listSortBy{Column: "name", Order: "asc"},
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/list/%s", c.BaseURL, bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storage list error, code %d, body %s", res.StatusCode, string(resByte))
	}

	var entries []ObjectInfo
	if err := json.Unmarshal(resByte, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

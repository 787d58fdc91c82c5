package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RemoteFoodResult is one candidate entry returned by the external food
// database. Macro values are per serving, matching the library convention.
type RemoteFoodResult struct {
	ExternalID  string  `json:"external_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	ServingSize string  `json:"serving_size"`
	Calories    int     `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
}

type remoteSearchResponse struct {
	Results []RemoteFoodResult `json:"results"`
}

// RemoteFoodClient queries an external food database so a consultancy can
// pull entries into its own library.
type RemoteFoodClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewRemoteFoodClient creates a new RemoteFoodClient instance.
func NewRemoteFoodClient(baseURL, apiKey string, logger *zap.Logger) *RemoteFoodClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("X-Api-Key", apiKey)

	return &RemoteFoodClient{httpClient: client, logger: logger}
}

// Search queries the external database by food name.
func (c *RemoteFoodClient) Search(ctx context.Context, query string) ([]RemoteFoodResult, error) {
	var body remoteSearchResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetResult(&body).
		Get("/v1/foods/search")
	if err != nil {
		return nil, fmt.Errorf("external food search failed: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("external food search returned error status",
			zap.Int("status", resp.StatusCode()),
			zap.String("query", query))
		return nil, fmt.Errorf("external food search returned %d", resp.StatusCode())
	}
	return body.Results, nil
}

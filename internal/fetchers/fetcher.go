package fetchers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"propdash/internal/logger"
	"propdash/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// ErrUnknownDataset is returned when no endpoint is configured for a dataset
var ErrUnknownDataset = errors.New("unknown dataset")

// RawSource yields the raw JSON payload of a dataset
type RawSource interface {
	Fetch(ctx context.Context, dataset models.Dataset) ([]byte, error)
}

// PropertyDataFetcher fetches datasets from the PropertyData HTTP API
type PropertyDataFetcher struct {
	client    *resty.Client
	apiKey    string
	endpoints Endpoints
	log       *logger.Logger
}

// NewPropertyDataFetcher creates a fetcher for the API at baseURL. A zero
// timeout leaves requests unbounded. Failed requests are not retried.
func NewPropertyDataFetcher(baseURL, apiKey string, timeout time.Duration, endpoints Endpoints) *PropertyDataFetcher {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(timeout)
	client.SetRetryCount(0)
	client.SetHeader("Accept", "application/json")

	return &PropertyDataFetcher{
		client:    client,
		apiKey:    apiKey,
		endpoints: endpoints,
		log:       logger.Component("fetchers"),
	}
}

// Fetch issues one GET request for the dataset and returns the response body
func (f *PropertyDataFetcher) Fetch(ctx context.Context, dataset models.Dataset) ([]byte, error) {
	endpoint, ok := f.endpoints[dataset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, dataset)
	}

	req := f.client.R().SetContext(ctx)
	if f.apiKey != "" {
		req.SetQueryParam("key", f.apiKey)
	}
	req.SetQueryParamsFromValues(endpoint.Params)

	start := time.Now()
	resp, err := req.Get(endpoint.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", dataset, err)
	}

	f.log.Debug("PropertyData response", logger.Fields{
		"dataset":  dataset.String(),
		"status":   resp.StatusCode(),
		"bytes":    len(resp.Body()),
		"duration": time.Since(start).String(),
	})

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s API returned status %d", dataset, resp.StatusCode())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("failed to parse %s response: invalid JSON", dataset)
	}
	// The API reports some failures in the body with a 200 status
	if status := gjson.GetBytes(body, "status"); status.String() == "error" {
		return nil, fmt.Errorf("%s API returned error: %s", dataset, gjson.GetBytes(body, "message").String())
	}

	return body, nil
}

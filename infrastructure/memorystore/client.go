package memorystore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"recall-backend/domain/graph"
	apperrors "recall-backend/pkg/errors"
	"recall-backend/pkg/observability"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	endpointGraph    = "memory-graph"
	endpointMemories = "memories"
)

// Client is the anti-corruption layer in front of the external long-term
// memory store. It exposes the store's two read endpoints and shields the
// rest of the service from its loose response shapes. Calls run through a
// circuit breaker so a flapping store degrades to the fallback chain instead
// of hammering the network.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a memory store client
func NewClient(baseURL, apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "memory-store",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("memory store circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		breaker:    breaker,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchGraph calls the structured graph endpoint. The response's node and
// edge field names are not trusted; elements are returned uncoerced for the
// normalizer.
func (c *Client) FetchGraph(ctx context.Context, userID, scope string) (graph.RawGraph, error) {
	params := url.Values{"userId": {userID}}
	if scope != "" {
		params.Set("scope", scope)
	}

	body, err := c.get(ctx, endpointGraph, params)
	if err != nil {
		return graph.RawGraph{}, err
	}

	var raw graph.RawGraph
	if err := json.Unmarshal(body, &raw); err != nil {
		return graph.RawGraph{}, apperrors.NewExternalError("memory-store", fmt.Errorf("decoding graph response: %w", err))
	}
	return raw, nil
}

// FetchMemories calls the flat memory-list endpoint. The store has answered
// with {"memories": []}, {"documents": []}, and a bare array in the wild;
// all three are accepted.
func (c *Client) FetchMemories(ctx context.Context, userID, mode string) ([]graph.MemoryRecord, error) {
	params := url.Values{"userId": {userID}}
	if mode != "" {
		params.Set("mode", mode)
	}

	body, err := c.get(ctx, endpointMemories, params)
	if err != nil {
		return nil, err
	}

	records, err := decodeMemoryList(body)
	if err != nil {
		return nil, apperrors.NewExternalError("memory-store", err)
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	c.metrics.ObserveFetch(endpoint, time.Since(start))

	if err != nil {
		c.logger.Warn("memory store fetch failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, apperrors.NewExternalError("memory-store", err)
	}
	return result.([]byte), nil
}

type memoryListEnvelope struct {
	Memories  []graph.MemoryRecord `json:"memories"`
	Documents []graph.MemoryRecord `json:"documents"`
}

func decodeMemoryList(body []byte) ([]graph.MemoryRecord, error) {
	var envelope memoryListEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Memories != nil {
			return envelope.Memories, nil
		}
		if envelope.Documents != nil {
			return envelope.Documents, nil
		}
	}

	var bare []graph.MemoryRecord
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("unrecognized memory list response shape")
}

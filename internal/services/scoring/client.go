// Package scoring talks to the remote demand scoring service over HTTP+JSON.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"DemandCast/internal/domain/failure"
	"DemandCast/internal/domain/models"
	domsvc "DemandCast/internal/domain/service"
	xhttp "DemandCast/pkg/http"
)

// RequestTimeout bounds every call to the scoring service.
const RequestTimeout = 30 * time.Second

const (
	PathPredict      = "/predict"
	PathPredictBatch = "/predict-batch"
	PathHealth       = "/health"
	PathModelInfo    = "/model-info"
)

// Client performs exactly one HTTP exchange per call and never retries.
// Every error it returns is a *failure.Failure.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// NewClient creates a scoring client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(RequestTimeout)),
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Predict scores a single vector.
func (c *Client) Predict(ctx context.Context, v models.TrainingAvailabilityVector) (*models.PredictionResult, error) {
	var wp wirePrediction
	if err := c.do(ctx, xhttp.MethodPost, PathPredict, Encode(v), &wp); err != nil {
		return nil, err
	}
	res, err := wp.toResult()
	if err != nil {
		return nil, failure.MalformedResponse(err)
	}
	return res, nil
}

// PredictBatch scores vs with one call. Items[i] of the result answers vs[i].
func (c *Client) PredictBatch(ctx context.Context, vs []models.TrainingAvailabilityVector) (*models.BatchResult, error) {
	var wb wireBatchResponse
	if err := c.do(ctx, xhttp.MethodPost, PathPredictBatch, EncodeBatch(vs), &wb); err != nil {
		return nil, err
	}
	res, err := wb.toResult(len(vs))
	if err != nil {
		return nil, failure.MalformedResponse(err)
	}
	return res, nil
}

// Health fetches the service health report.
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	var hs models.HealthStatus
	if err := c.do(ctx, xhttp.MethodGet, PathHealth, nil, &hs); err != nil {
		return nil, err
	}
	if hs.Status == "" {
		return nil, failure.MalformedResponse(errors.New("health: missing status"))
	}
	return &hs, nil
}

// ModelInfo fetches the model metadata.
func (c *Client) ModelInfo(ctx context.Context) (*models.ModelInfo, error) {
	var mi models.ModelInfo
	if err := c.do(ctx, xhttp.MethodGet, PathModelInfo, nil, &mi); err != nil {
		return nil, err
	}
	if mi.ModelType == "" {
		return nil, failure.MalformedResponse(errors.New("model-info: missing model_type"))
	}
	return &mi, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest interface{}) error {
	opts := &xhttp.RequestOptions{
		Method:       method,
		URL:          c.baseURL + path,
		Headers:      map[string]string{"Accept": "application/json"},
		ExpectStatus: http.StatusOK,
	}
	if payload != nil {
		opts.Headers["Content-Type"] = "application/json"
		opts.Body = payload
	}
	if err := c.http.SendAndParse(ctx, opts, dest); err != nil {
		return failure.Classify(fmt.Errorf("%s %s: %w", method, path, err))
	}
	return nil
}

func (w wirePrediction) toResult() (*models.PredictionResult, error) {
	if w.DemandScore == nil {
		return nil, errors.New("predict: missing demand_score")
	}
	if w.Confidence == nil {
		return nil, errors.New("predict: missing confidence")
	}
	if *w.Confidence < 0 || *w.Confidence > 1 {
		return nil, fmt.Errorf("predict: confidence %v outside [0,1]", *w.Confidence)
	}
	return &models.PredictionResult{
		DemandScore:     *w.DemandScore,
		DemandLevel:     w.DemandLevel,
		Confidence:      *w.Confidence,
		Recommendations: w.Recommendations,
		InputSummary:    w.InputSummary,
	}, nil
}

// toResult places each entry at its request position. Entries carrying an
// index are placed by it; the rest by array position.
func (w wireBatchResponse) toResult(n int) (*models.BatchResult, error) {
	if w.BatchResults == nil {
		return nil, errors.New("batch: missing batch_results")
	}
	entries := *w.BatchResults
	if len(entries) != n {
		return nil, fmt.Errorf("batch: got %d results for %d requests", len(entries), n)
	}

	items := make([]models.BatchItem, n)
	filled := make([]bool, n)
	for pos, e := range entries {
		idx := pos
		if e.Index != nil {
			idx = *e.Index
		}
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("batch: result index %d out of range", idx)
		}
		if filled[idx] {
			return nil, fmt.Errorf("batch: duplicate result index %d", idx)
		}
		filled[idx] = true

		item := models.BatchItem{Index: idx}
		if e.Error != "" {
			item.Error = e.Error
		} else {
			if e.DemandScore == nil || e.Confidence == nil {
				return nil, fmt.Errorf("batch: result %d has neither prediction nor error", idx)
			}
			if *e.Confidence < 0 || *e.Confidence > 1 {
				return nil, fmt.Errorf("batch: result %d confidence %v outside [0,1]", idx, *e.Confidence)
			}
			item.Result = &models.PredictionResult{
				DemandScore: *e.DemandScore,
				DemandLevel: e.DemandLevel,
				Confidence:  *e.Confidence,
			}
		}
		items[idx] = item
	}
	return &models.BatchResult{Items: items}, nil
}

var _ domsvc.DemandScorer = (*Client)(nil)

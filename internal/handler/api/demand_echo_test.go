package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"DemandCast/internal/domain/failure"
	models "DemandCast/internal/domain/models"
	"DemandCast/internal/handler/scoring"
	"DemandCast/internal/service/ratelimit"
	scoringsvc "DemandCast/internal/services/scoring"
	"DemandCast/internal/usecase"
	xhttp "DemandCast/pkg/http"
	"DemandCast/pkg/http/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope[T any] struct {
	Status int `json:"status"`
	Data   T   `json:"data"`
}

// gateway wires the API against an in-process demo scoring service.
func gateway(t *testing.T, limiter *ratelimit.Limiter) *echo.Echo {
	t.Helper()
	demo := httptest.NewServer(xhttp.NewServer(scoring.NewDemoEchoHandler(nil, nil)).Echo())
	t.Cleanup(demo.Close)

	p := usecase.NewDemandPredictor(scoringsvc.NewClient(demo.URL), nil, nil)
	var lim middleware.Limiter
	if limiter != nil {
		lim = limiter
	}
	return xhttp.NewServer(NewDemandEchoHandler(nil, p, lim, 2, 0)).Echo()
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const scenario = `{"cognition":true,"communication":true,"hearing":true,"mobility":false,"self_care":true,"vision":false}`

func TestPredict(t *testing.T) {
	e := gateway(t, nil)
	rec := do(e, http.MethodPost, "/api/predict", scenario)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got envelope[models.PredictResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Data.PredictionResult)
	assert.Equal(t, 3, got.Data.DemandScore)
	assert.Equal(t, "High", got.Data.DemandLevel)
	assert.Equal(t, "High Demand", got.Data.DemandDescription)
	assert.Equal(t, "Medium Confidence", got.Data.ConfidenceLabel)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestPredictMissingAnswer(t *testing.T) {
	e := gateway(t, nil)
	rec := do(e, http.MethodPost, "/api/predict", `{"cognition":true}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var got envelope[[]xhttp.ValidationError]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotEmpty(t, got.Data)
	assert.Equal(t, "ERR_REQUIRED", got.Data[0].Code)
	assert.Equal(t, "communication", got.Data[0].Field)
}

func TestPredictBatchModes(t *testing.T) {
	e := gateway(t, nil)
	for _, mode := range []string{"batch", "each"} {
		body := `{"mode":"` + mode + `","items":[` + scenario + `,{"cognition":false,"communication":false,"hearing":false,"mobility":false,"self_care":false,"vision":false}]}`
		rec := do(e, http.MethodPost, "/api/predict-batch", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got envelope[models.BatchPredictResponse]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.Data.Items, 2, mode)
		assert.Equal(t, 0, got.Data.Failed)
		assert.Equal(t, 3, got.Data.Items[0].Result.DemandScore, mode)
		assert.Equal(t, 1, got.Data.Items[1].Result.DemandScore, mode)
		assert.NotEmpty(t, got.Data.Items[1].Result.Recommendations, mode)
	}
}

func TestPredictBatchTooLarge(t *testing.T) {
	e := gateway(t, nil)
	items := strings.TrimSuffix(strings.Repeat(scenario+",", models.MaxBatchSize+1), ",")
	rec := do(e, http.MethodPost, "/api/predict-batch", `{"items":[`+items+`]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var got xhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ERR_VALIDATION", got.Code)
	assert.Equal(t, "batch", got.Field)
	assert.False(t, got.Retryable)
}

func TestServiceFailureMapping(t *testing.T) {
	// Nothing listens on this address.
	p := usecase.NewDemandPredictor(scoringsvc.NewClient("http://127.0.0.1:1"), nil, nil)
	e := xhttp.NewServer(NewDemandEchoHandler(nil, p, nil, 0, 0)).Echo()

	rec := do(e, http.MethodPost, "/api/predict", scenario)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	var got xhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ERR_NETWORK", got.Code)
	assert.True(t, got.Retryable)
}

func TestStatusFor(t *testing.T) {
	want := map[failure.Kind]int{
		failure.KindValidation:         http.StatusBadRequest,
		failure.KindValidationRejected: http.StatusUnprocessableEntity,
		failure.KindServiceUnavailable: http.StatusServiceUnavailable,
		failure.KindTimeout:            http.StatusGatewayTimeout,
		failure.KindNetwork:            http.StatusBadGateway,
		failure.KindMalformedResponse:  http.StatusBadGateway,
		failure.KindUnexpectedStatus:   http.StatusBadGateway,
	}
	for _, k := range failure.Kinds {
		assert.Equal(t, want[k], StatusFor(k), k)
	}
}

func TestHealthAndModelInfo(t *testing.T) {
	e := gateway(t, nil)

	rec := do(e, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hs envelope[models.HealthStatus]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hs))
	assert.True(t, hs.Data.Healthy())

	rec = do(e, http.MethodGet, "/api/model-info", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var mi envelope[models.ModelInfo]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mi))
	assert.Equal(t, 9, mi.Data.FeatureCount)
}

func TestDescribe(t *testing.T) {
	e := gateway(t, nil)

	rec := do(e, http.MethodGet, "/api/describe?score=3&confidence=0.93", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got envelope[models.DescribeResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "High", got.Data.DemandLevel)
	assert.Equal(t, "High Demand", got.Data.DemandDescription)
	assert.Equal(t, "Very High Confidence", got.Data.ConfidenceLabel)

	rec = do(e, http.MethodGet, "/api/describe?score=9", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Unknown", got.Data.DemandLevel)

	rec = do(e, http.MethodGet, "/api/describe?score=2&confidence=high", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/describe?score=abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var bad envelope[[]xhttp.ValidationError]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bad))
	require.Len(t, bad.Data, 1)
	assert.Equal(t, "score", bad.Data[0].Field)

	rec = do(e, http.MethodGet, "/api/describe", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var none envelope[models.DescribeResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &none))
	assert.Equal(t, models.ScoreUnknown, none.Data.DemandScore)
	assert.Equal(t, "Unknown", none.Data.DemandLevel)
}

func TestRateLimited(t *testing.T) {
	e := gateway(t, ratelimit.New(1, 0.001))

	assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/api/predict", scenario).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(e, http.MethodPost, "/api/predict", scenario).Code)
	// Read-only endpoints are not limited.
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/describe?score=1", "").Code)
}

func TestUnknownRoute(t *testing.T) {
	e := gateway(t, nil)
	rec := do(e, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")
}

func TestRateLimitedIgnoresForwardedFor(t *testing.T) {
	e := gateway(t, ratelimit.New(1, 0.0001))

	var codes []int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(scenario))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderXForwardedFor, fmt.Sprintf("198.51.100.%d", i+1))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 429, 429, 429, 429}, codes)
}

// stallingScorer answers single predictions only when ctx ends.
type stallingScorer struct{}

func (stallingScorer) Predict(ctx context.Context, _ models.TrainingAvailabilityVector) (*models.PredictionResult, error) {
	<-ctx.Done()
	return nil, failure.Timeout(ctx.Err())
}

func (stallingScorer) PredictBatch(context.Context, []models.TrainingAvailabilityVector) (*models.BatchResult, error) {
	return nil, failure.ServiceUnavailable("not used")
}

func (stallingScorer) Health(context.Context) (*models.HealthStatus, error) { return nil, nil }

func (stallingScorer) ModelInfo(context.Context) (*models.ModelInfo, error) { return nil, nil }

func TestPredictBatchEachStopsAtBudget(t *testing.T) {
	p := usecase.NewDemandPredictor(stallingScorer{}, nil, nil)
	e := xhttp.NewServer(NewDemandEchoHandler(nil, p, nil, 2, 50*time.Millisecond)).Echo()

	items := strings.TrimSuffix(strings.Repeat(scenario+",", 5), ",")
	start := time.Now()
	rec := do(e, http.MethodPost, "/api/predict-batch", `{"mode":"each","items":[`+items+`]}`)
	assert.Less(t, time.Since(start), 2*time.Second)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got envelope[models.BatchPredictResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Data.Items, 5)
	assert.Equal(t, 5, got.Data.Failed)
	for i, it := range got.Data.Items {
		assert.Equal(t, i, it.Index)
		assert.Nil(t, it.Result)
		assert.NotEmpty(t, it.Error)
	}
}

func TestEachBudget(t *testing.T) {
	assert.Equal(t, 38*time.Second, EachBudget(40*time.Second))
	assert.Equal(t, time.Second, EachBudget(2*time.Second))
	assert.Equal(t, time.Duration(0), EachBudget(0))
}

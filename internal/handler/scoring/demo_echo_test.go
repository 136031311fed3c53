package scoring

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"DemandCast/internal/domain/failure"
	"DemandCast/internal/domain/models"
	scoringsvc "DemandCast/internal/services/scoring"
	xhttp "DemandCast/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyModel fails for vectors with vision training.
type flakyModel struct{}

func (flakyModel) Score(v models.TrainingAvailabilityVector) (int, float64, error) {
	if v.Vision == 1 {
		return 0, 0, errors.New("model crashed")
	}
	return 2, 0.8466, nil
}

func (flakyModel) Name() string { return "Random Forest Regressor (n_estimators=100)" }

func newDemo(t *testing.T, m Model) (*httptest.Server, *scoringsvc.Client) {
	t.Helper()
	srv := httptest.NewServer(xhttp.NewServer(NewDemoEchoHandler(nil, m)).Echo())
	t.Cleanup(srv.Close)
	return srv, scoringsvc.NewClient(srv.URL)
}

func post(t *testing.T, url, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestDemoPredictThroughClient(t *testing.T) {
	_, c := newDemo(t, nil)

	res, err := c.Predict(context.Background(), models.TrainingAvailabilityVector{Vision: 1, Mobility: 1, Hearing: 1, Cognition: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, res.DemandScore)
	assert.Equal(t, "High", res.DemandLevel)
	assert.Equal(t, 0.75, res.Confidence)
	require.NotNil(t, res.InputSummary)
	assert.Equal(t, 4, res.InputSummary.TotalTrainingAreas)
	assert.Equal(t, 66.7, res.InputSummary.TrainingCoveragePercentage)
}

func TestDemoRejectsNonBinary(t *testing.T) {
	srv, _ := newDemo(t, nil)

	cases := []string{
		`{"cognition":2,"communication":0,"hearing":0,"mobility":0,"self_care":0,"vision":0}`,
		`{"cognition":1,"communication":0,"hearing":0,"mobility":0,"self_care":0}`,
		`{"cognition":"1","communication":0,"hearing":0,"mobility":0,"self_care":0,"vision":0}`,
		`not json`,
	}
	for _, body := range cases {
		resp, text := post(t, srv.URL+scoringsvc.PathPredict, body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)
		assert.Contains(t, text, "All fields must be integers: 0 or 1")
	}
}

func TestDemoModelErrorIsServiceUnavailable(t *testing.T) {
	_, c := newDemo(t, flakyModel{})
	_, err := c.Predict(context.Background(), models.TrainingAvailabilityVector{Vision: 1})
	assert.True(t, failure.IsKind(err, failure.KindServiceUnavailable))
}

func TestDemoBatchThroughClient(t *testing.T) {
	_, c := newDemo(t, flakyModel{})

	vs := []models.TrainingAvailabilityVector{{}, {Vision: 1}, {Hearing: 1}}
	res, err := c.PredictBatch(context.Background(), vs)
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.True(t, res.Items[0].OK())
	assert.Equal(t, 0.847, res.Items[0].Result.Confidence)
	assert.False(t, res.Items[1].OK())
	assert.Contains(t, res.Items[1].Error, "model crashed")
	assert.Equal(t, 2, res.Items[2].Index)
	assert.Equal(t, 1, res.Failed())
}

func TestDemoBatchLimit(t *testing.T) {
	srv, _ := newDemo(t, nil)
	item := `{"cognition":0,"communication":0,"hearing":0,"mobility":0,"self_care":0,"vision":0}`
	body := "[" + strings.TrimSuffix(strings.Repeat(item+",", models.MaxBatchSize+1), ",") + "]"

	resp, text := post(t, srv.URL+scoringsvc.PathPredictBatch, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, text, "Batch size cannot exceed 50 requests")
}

func TestDemoHealthAndModelInfo(t *testing.T) {
	_, c := newDemo(t, nil)
	ctx := context.Background()

	hs, err := c.Health(ctx)
	require.NoError(t, err)
	assert.True(t, hs.Healthy())
	assert.True(t, hs.DemoMode)
	require.NotNil(t, hs.TestResult)
	assert.Equal(t, 3, hs.TestResult.DemandScore)

	mi, err := c.ModelInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Demo Mode", mi.ModelType)
	assert.Equal(t, 9, mi.FeatureCount)
	assert.Equal(t, "Medium Demand", mi.DemandLevels["2"])
	assert.Equal(t, models.IndicatorKeys, mi.APIInputs)
}

func TestDemoNotFound(t *testing.T) {
	srv, _ := newDemo(t, nil)
	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

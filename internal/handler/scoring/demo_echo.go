// Package scoring serves the scoring-service wire contract from a local,
// deterministic model. It backs development setups and end-to-end tests of
// the scoring client.
package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"DemandCast/internal/domain/demand"
	"DemandCast/internal/domain/models"
	scoringsvc "DemandCast/internal/services/scoring"
	"DemandCast/internal/services/validation"
	xlogger "DemandCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Model turns a validated vector into a demand score and a confidence.
type Model interface {
	Score(v models.TrainingAvailabilityVector) (int, float64, error)
	Name() string
}

// DemoModel scores by how many training areas are available.
type DemoModel struct{}

func (DemoModel) Score(v models.TrainingAvailabilityVector) (int, float64, error) {
	s := 1 + v.Total()/2
	if s > 3 {
		s = 3
	}
	return s, 0.75, nil
}

func (DemoModel) Name() string { return "Demo Mode" }

// ModelFeatures are the columns the trained model consumes.
var ModelFeatures = []string{
	"Training related to Cognition",
	"Training related to Communication",
	"Training related to Hearing",
	"Training related to Mobility",
	"Training related to Self-care",
	"Training related to Vision",
	"total_training_score",
	"vision_mobility_score",
	"assistive_tech_readiness",
}

var endpoints = []string{"/", "/predict", "/predict-batch", "/health", "/model-info"}

const maxBodyBytes = 1 << 20

// wireInput mirrors scoringsvc.WireRequest with pointers so missing fields
// are detected.
type wireInput struct {
	Cognition     *int `json:"cognition"`
	Communication *int `json:"communication"`
	Hearing       *int `json:"hearing"`
	Mobility      *int `json:"mobility"`
	SelfCare      *int `json:"self_care"`
	Vision        *int `json:"vision"`
}

func (w wireInput) vector() (models.TrainingAvailabilityVector, bool) {
	fields := []*int{w.Cognition, w.Communication, w.Hearing, w.Mobility, w.SelfCare, w.Vision}
	for _, f := range fields {
		if f == nil {
			return models.TrainingAvailabilityVector{}, false
		}
	}
	v := scoringsvc.Decode(scoringsvc.WireRequest{
		Cognition:     *w.Cognition,
		Communication: *w.Communication,
		Hearing:       *w.Hearing,
		Mobility:      *w.Mobility,
		SelfCare:      *w.SelfCare,
		Vision:        *w.Vision,
	})
	return v, validation.Validate(v) == nil
}

// DemoEchoHandler implements /, /predict, /predict-batch, /health and /model-info.
type DemoEchoHandler struct {
	logger *xlogger.Logger
	model  Model
}

func NewDemoEchoHandler(logger *xlogger.Logger, model Model) *DemoEchoHandler {
	if logger == nil {
		logger = xlogger.NewNop()
	}
	if model == nil {
		model = DemoModel{}
	}
	return &DemoEchoHandler{logger: logger, model: model}
}

func (h *DemoEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.HTTPErrorHandler = h.errorHandler
	e.GET("/", h.Root)
	e.POST(scoringsvc.PathPredict, h.Predict)
	e.POST(scoringsvc.PathPredictBatch, h.PredictBatch)
	e.GET(scoringsvc.PathHealth, h.Health)
	e.GET(scoringsvc.PathModelInfo, h.ModelInfo)
}

func (h *DemoEchoHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Smart Glasses Demand Prediction API",
		"mission": "AI-powered smart glasses for the blind",
		"version": "1.0.0",
		"status":  h.model.Name(),
		"endpoints": map[string]string{
			"predict":       scoringsvc.PathPredict,
			"predict-batch": scoringsvc.PathPredictBatch,
			"health":        scoringsvc.PathHealth,
			"model-info":    scoringsvc.PathModelInfo,
		},
	})
}

func (h *DemoEchoHandler) Predict(c echo.Context) error {
	var in wireInput
	if err := readJSON(c, &in); err != nil {
		return validationFailed(c)
	}
	v, ok := in.vector()
	if !ok {
		return validationFailed(c)
	}

	score, conf, err := h.model.Score(v)
	if err != nil {
		h.logger.Error("prediction failed", xlogger.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"detail": fmt.Sprintf("Internal server error: %v", err),
		})
	}
	summary := demand.Summarize(v)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"demand_score":    score,
		"demand_level":    string(demand.ClassifyScore(score)),
		"confidence":      round3(conf),
		"input_summary":   summary,
		"recommendations": demand.Recommendation(score),
	})
}

func (h *DemoEchoHandler) PredictBatch(c echo.Context) error {
	var in []wireInput
	if err := readJSON(c, &in); err != nil || in == nil {
		return validationFailed(c)
	}
	vs := make([]models.TrainingAvailabilityVector, len(in))
	for i, w := range in {
		v, ok := w.vector()
		if !ok {
			return validationFailed(c)
		}
		vs[i] = v
	}
	if len(vs) > models.MaxBatchSize {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"detail": fmt.Sprintf("Batch size cannot exceed %d requests", models.MaxBatchSize),
		})
	}

	results := make([]map[string]interface{}, 0, len(vs))
	for i, v := range vs {
		score, conf, err := h.model.Score(v)
		if err != nil {
			results = append(results, map[string]interface{}{
				"index": i,
				"error": fmt.Sprintf("Prediction failed: %v", err),
			})
			continue
		}
		results = append(results, map[string]interface{}{
			"index":        i,
			"demand_score": score,
			"demand_level": string(demand.ClassifyScore(score)),
			"confidence":   round3(conf),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"batch_results": results})
}

func (h *DemoEchoHandler) Health(c echo.Context) error {
	all := models.NewVectorFromFlags(true, true, true, true, true, true)
	score, conf, err := h.model.Score(all)
	if err != nil {
		return c.JSON(http.StatusOK, models.HealthStatus{Status: "unhealthy", Error: err.Error()})
	}
	_, demo := h.model.(DemoModel)
	return c.JSON(http.StatusOK, models.HealthStatus{
		Status:                   "healthy",
		ModelLoaded:              !demo,
		TestPredictionSuccessful: true,
		DemoMode:                 demo,
		TestResult:               &models.TestResult{DemandScore: score, Confidence: round3(conf)},
	})
}

func (h *DemoEchoHandler) ModelInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, models.ModelInfo{
		ModelType:    h.model.Name(),
		Features:     ModelFeatures,
		FeatureCount: len(ModelFeatures),
		Target:       "smart_glasses_demand",
		APIInputs:    models.IndicatorKeys,
		DemandLevels: map[string]string{
			"1": demand.DemandDescription(1),
			"2": demand.DemandDescription(2),
			"3": demand.DemandDescription(3),
		},
		Mission: "Predicting demand for AI-powered smart glasses to help the blind navigate independently",
	})
}

func (h *DemoEchoHandler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	switch code {
	case http.StatusNotFound:
		_ = c.JSON(code, map[string]interface{}{
			"error":               "Endpoint not found",
			"available_endpoints": endpoints,
		})
	default:
		_ = c.JSON(code, map[string]string{"detail": http.StatusText(code)})
	}
}

func readJSON(c echo.Context, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func validationFailed(c echo.Context) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]string{
		"error":   "Validation Error",
		"details": "Please check that all training values are 0 (No) or 1 (Yes)",
		"message": "All fields must be integers: 0 or 1",
	})
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

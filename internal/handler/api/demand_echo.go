package api

import (
	"context"
	"net/http"
	"time"

	"DemandCast/internal/domain/demand"
	"DemandCast/internal/domain/failure"
	models "DemandCast/internal/domain/models"
	"DemandCast/internal/services/validation"
	"DemandCast/internal/usecase"
	xhttp "DemandCast/pkg/http"
	"DemandCast/pkg/http/middleware"
	xlogger "DemandCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// eachMargin is kept free before the server write deadline to encode and
// send an each-mode response.
const eachMargin = 2 * time.Second

// DemandEchoHandler serves the demand prediction API consumed by the UI.
type DemandEchoHandler struct {
	logger    *xlogger.Logger
	predictor *usecase.DemandPredictor
	limiter   middleware.Limiter
	fanOut    int
	// eachBudget bounds a whole each-mode batch; zero means unbounded.
	eachBudget time.Duration
}

func NewDemandEchoHandler(logger *xlogger.Logger, predictor *usecase.DemandPredictor, limiter middleware.Limiter, fanOut int, eachBudget time.Duration) *DemandEchoHandler {
	if logger == nil {
		logger = xlogger.NewNop()
	}
	return &DemandEchoHandler{logger: logger, predictor: predictor, limiter: limiter, fanOut: fanOut, eachBudget: eachBudget}
}

// EachBudget derives the each-mode deadline from the server write timeout.
func EachBudget(writeTimeout time.Duration) time.Duration {
	if writeTimeout <= 0 {
		return 0
	}
	if writeTimeout <= 2*eachMargin {
		return writeTimeout / 2
	}
	return writeTimeout - eachMargin
}

func (h *DemandEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/model-info", h.ModelInfo)
	g.GET("/describe", h.Describe)

	var limited []echo.MiddlewareFunc
	if h.limiter != nil {
		limited = append(limited, middleware.RateLimit(h.limiter, h.logger))
	}
	g.POST("/predict", h.Predict, limited...)
	g.POST("/predict-batch", h.PredictBatch, limited...)
}

func (h *DemandEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.predictor.Predict(c.Request().Context(), req.Vector())
	if err != nil {
		return h.failureResponse(c, err)
	}
	return xhttp.SuccessResponse(c, models.PredictResponse{
		PredictionResult:  res,
		DemandDescription: demand.DemandDescription(res.DemandScore),
		ConfidenceLabel:   demand.DescribeConfidence(res.Confidence),
	})
}

func (h *DemandEchoHandler) PredictBatch(c echo.Context) error {
	req := &models.BatchPredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()
	vs := req.Vectors()

	if req.Mode == "each" {
		if err := validation.ValidateBatch(vs); err != nil {
			return h.failureResponse(c, err)
		}
		if h.eachBudget > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.eachBudget)
			defer cancel()
		}
		items := h.predictor.PredictEach(ctx, vs, h.fanOut)
		out := models.BatchResult{Items: items}
		return xhttp.SuccessResponse(c, models.BatchPredictResponse{Items: items, Failed: out.Failed()})
	}

	res, err := h.predictor.PredictBatch(ctx, vs)
	if err != nil {
		return h.failureResponse(c, err)
	}
	return xhttp.SuccessResponse(c, models.BatchPredictResponse{Items: res.Items, Failed: res.Failed()})
}

func (h *DemandEchoHandler) Health(c echo.Context) error {
	hs, err := h.predictor.Health(c.Request().Context())
	if err != nil {
		return h.failureResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, hs)
}

func (h *DemandEchoHandler) ModelInfo(c echo.Context) error {
	mi, err := h.predictor.ModelInfo(c.Request().Context())
	if err != nil {
		return h.failureResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.SuccessResponse(c, mi)
}

// Describe interprets a stored score and confidence without calling the
// scoring service.
func (h *DemandEchoHandler) Describe(c echo.Context) error {
	score := models.ScoreUnknown
	if raw := c.QueryParam("score"); raw != "" {
		v, ok := xhttp.ParseInt(raw)
		if !ok {
			return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
				Code:    "ERR_NUMERIC",
				Field:   "score",
				Message: "score must be an integer",
			}})
		}
		score = v
	}
	res := models.DescribeResponse{
		DemandScore:       score,
		DemandLevel:       string(demand.ClassifyScore(score)),
		DemandDescription: demand.DemandDescription(score),
		Recommendations:   demand.Recommendation(score),
	}
	if raw := c.QueryParam("confidence"); raw != "" {
		conf, ok := xhttp.ParseFloat(raw)
		if !ok {
			return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
				Code:    "ERR_NUMERIC",
				Field:   "confidence",
				Message: "confidence must be a number",
			}})
		}
		res.Confidence = &conf
		res.ConfidenceLabel = demand.DescribeConfidence(conf)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DemandEchoHandler) failureResponse(c echo.Context, err error) error {
	f := failure.Classify(err)
	appErr := xhttp.NewAppError(f.Kind.Code(), f.Field, f.Message, StatusFor(f.Kind))
	return xhttp.ErrorBodyResponse(c, appErr, f.Retryable())
}

// StatusFor maps a failure kind to the gateway's HTTP status.
func StatusFor(k failure.Kind) int {
	switch k {
	case failure.KindValidation:
		return http.StatusBadRequest
	case failure.KindValidationRejected:
		return http.StatusUnprocessableEntity
	case failure.KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case failure.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

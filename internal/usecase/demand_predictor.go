package usecase

import (
	"context"
	"time"

	"DemandCast/internal/domain/demand"
	"DemandCast/internal/domain/failure"
	"DemandCast/internal/domain/models"
	domsvc "DemandCast/internal/domain/service"
	"DemandCast/internal/services/validation"
	applogger "DemandCast/pkg/logger"

	"github.com/sourcegraph/conc/pool"
)

const (
	opPredict      = "predict"
	opPredictBatch = "predict_batch"
	opHealth       = "health"
	opModelInfo    = "model_info"
)

// DefaultFanOut is the concurrency used by PredictEach when none is given.
const DefaultFanOut = 4

// DemandPredictor is the entry point for callers: it validates input, calls
// the scoring service and interprets the result. Every error it returns is a
// *failure.Failure. It holds no per-request state and is safe for concurrent use.
type DemandPredictor struct {
	scorer  domsvc.DemandScorer
	metrics domsvc.Metrics
	logger  *applogger.Logger
}

func NewDemandPredictor(scorer domsvc.DemandScorer, metrics domsvc.Metrics, logger *applogger.Logger) *DemandPredictor {
	if logger == nil {
		logger = applogger.NewNop()
	}
	return &DemandPredictor{scorer: scorer, metrics: metrics, logger: logger}
}

// PredictFlags predicts demand from six form booleans.
func (p *DemandPredictor) PredictFlags(ctx context.Context, cognition, communication, hearing, mobility, selfCare, vision bool) (*models.PredictionResult, error) {
	return p.Predict(ctx, models.NewVectorFromFlags(cognition, communication, hearing, mobility, selfCare, vision))
}

// Predict validates v and scores it.
func (p *DemandPredictor) Predict(ctx context.Context, v models.TrainingAvailabilityVector) (*models.PredictionResult, error) {
	if err := validation.Validate(v); err != nil {
		return nil, p.fail(opPredict, err)
	}

	start := time.Now()
	res, err := p.scorer.Predict(ctx, v)
	p.observe(opPredict, start)
	if err != nil {
		return nil, p.fail(opPredict, err)
	}

	demand.Complete(res)
	p.record(res)
	p.logger.Debug("prediction complete",
		applogger.Int("demand_score", res.DemandScore),
		applogger.String("demand_level", res.DemandLevel),
		applogger.Float64("confidence", res.Confidence),
	)
	return res, nil
}

// PredictBatch scores vs with a single call to the batch endpoint.
func (p *DemandPredictor) PredictBatch(ctx context.Context, vs []models.TrainingAvailabilityVector) (*models.BatchResult, error) {
	if err := validation.ValidateBatch(vs); err != nil {
		return nil, p.fail(opPredictBatch, err)
	}

	start := time.Now()
	res, err := p.scorer.PredictBatch(ctx, vs)
	p.observe(opPredictBatch, start)
	if err != nil {
		return nil, p.fail(opPredictBatch, err)
	}

	for i := range res.Items {
		if res.Items[i].Result != nil {
			demand.Complete(res.Items[i].Result)
			p.record(res.Items[i].Result)
		}
	}
	if n := res.Failed(); n > 0 {
		p.logger.Warn("batch items failed", applogger.Int("failed", n), applogger.Int("total", len(res.Items)))
	}
	return res, nil
}

// PredictEach scores vs with independent single calls, at most concurrency at
// a time. Items come back in input order; a failed call fails only its item.
func (p *DemandPredictor) PredictEach(ctx context.Context, vs []models.TrainingAvailabilityVector, concurrency int) []models.BatchItem {
	if concurrency <= 0 {
		concurrency = DefaultFanOut
	}
	items := make([]models.BatchItem, len(vs))
	wp := pool.New().WithMaxGoroutines(concurrency)
	for i, v := range vs {
		i, v := i, v
		wp.Go(func() {
			res, err := p.Predict(ctx, v)
			item := models.BatchItem{Index: i, Result: res}
			if err != nil {
				item.Result = nil
				item.Error = err.Error()
				if f, ok := failure.As(err); ok {
					item.Error = f.Message
				}
			}
			items[i] = item
		})
	}
	wp.Wait()
	return items
}

// Health reports the scoring service health.
func (p *DemandPredictor) Health(ctx context.Context) (*models.HealthStatus, error) {
	start := time.Now()
	hs, err := p.scorer.Health(ctx)
	p.observe(opHealth, start)
	if err != nil {
		return nil, p.fail(opHealth, err)
	}
	return hs, nil
}

// ModelInfo reports the model behind the scoring service.
func (p *DemandPredictor) ModelInfo(ctx context.Context) (*models.ModelInfo, error) {
	start := time.Now()
	mi, err := p.scorer.ModelInfo(ctx)
	p.observe(opModelInfo, start)
	if err != nil {
		return nil, p.fail(opModelInfo, err)
	}
	return mi, nil
}

func (p *DemandPredictor) fail(op string, err error) *failure.Failure {
	f := failure.Classify(err)
	if p.metrics != nil {
		p.metrics.RecordFailure(op, string(f.Kind))
	}
	fields := []applogger.Field{
		applogger.String("operation", op),
		applogger.String("kind", string(f.Kind)),
		applogger.Bool("retryable", f.Retryable()),
	}
	if f.Status != 0 {
		fields = append(fields, applogger.Int("status", f.Status))
	}
	if f.Kind == failure.KindValidation {
		p.logger.Debug(f.Message, fields...)
	} else {
		p.logger.Error("scoring call failed", append(fields, applogger.Error(f))...)
	}
	return f
}

func (p *DemandPredictor) observe(op string, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordCall(op, time.Since(start).Seconds())
	}
}

func (p *DemandPredictor) record(res *models.PredictionResult) {
	if p.metrics != nil {
		p.metrics.RecordPrediction(string(demand.ClassifyScore(res.DemandScore)))
	}
}

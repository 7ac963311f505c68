// Package advisory wires the disease, yield, and price estimators into the
// decision engine and assembles the persisted advisory record.
package advisory

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"agri-advisor/internal/advisory/disease"
	"agri-advisor/internal/advisory/engine"
	"agri-advisor/internal/advisory/price"
	"agri-advisor/internal/advisory/yield"
	"agri-advisor/internal/config"
	apperrors "agri-advisor/internal/errors"
	"agri-advisor/internal/models"
)

// Submission is one farmer submission as collected by the data-entry
// collaborator.
type Submission struct {
	Farmer       models.FarmerContext
	Weather      models.WeatherObservation
	ImagePath    string // optional leaf photo
	CurrentPrice float64
	// Severity reported by the farmer when no image is available; ignored
	// when an image yields an assessment.
	ReportedSeverity models.Severity
	EvalDate         time.Time
}

// Service runs the full advisory pipeline for one submission. Each
// evaluation is independent and side-effect free; the service is safe for
// concurrent use.
type Service struct {
	disease disease.Estimator
	yield   *yield.Estimator
	price   *price.Forecaster
	engine  *engine.Engine
	logger  zerolog.Logger
}

// NewService builds the default pipeline from configuration.
func NewService(cfg *config.Config, logger zerolog.Logger) *Service {
	return &Service{
		disease: disease.NewCatalogEstimator(cfg.Diseases, cfg.Estimator, logger),
		yield:   yield.NewEstimator(cfg.Crops, cfg.Estimator, logger),
		price:   price.NewForecaster(cfg.Crops, cfg.Estimator, logger),
		engine:  engine.New(cfg.Engine, logger),
		logger:  logger,
	}
}

// NewServiceWith builds a pipeline from explicit components. Used by tests
// and by callers that plug in trained models.
func NewServiceWith(d disease.Estimator, y *yield.Estimator, p *price.Forecaster, e *engine.Engine, logger zerolog.Logger) *Service {
	return &Service{disease: d, yield: y, price: p, engine: e, logger: logger}
}

// Evaluate runs disease, yield, and price estimation and the decision engine
// for one submission, returning the complete record. A corrupt image
// degrades to the no-image path; a zero current price degrades to baseline
// pricing at floor confidence. Only structurally invalid farmer input fails.
func (s *Service) Evaluate(sub Submission) (models.AdvisoryRecord, error) {
	if sub.EvalDate.IsZero() {
		sub.EvalDate = time.Now()
	}

	assessment, err := s.disease.Assess(sub.Farmer.Crop, sub.ImagePath)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrImageDecode) {
			return models.AdvisoryRecord{}, apperrors.NewEstimateError("disease", string(sub.Farmer.Crop), err)
		}
		// Unreadable photo: proceed without it, like a submission with no image.
		s.logger.Warn().Err(err).Msg("Continuing without disease assessment")
	}
	if assessment.Severity == models.SeverityNone && sub.ReportedSeverity != "" && sub.ReportedSeverity != models.SeverityNone {
		if ce, ok := s.disease.(*disease.CatalogEstimator); ok {
			assessment = ce.FromSeverity(sub.ReportedSeverity)
		}
	}

	yieldEst, err := s.yield.Estimate(sub.Farmer.Crop, sub.Farmer.LandAcres, sub.Weather, assessment)
	if err != nil {
		return models.AdvisoryRecord{}, err
	}

	forecast, err := s.price.Forecast(sub.Farmer.Crop, sub.CurrentPrice, sub.EvalDate)
	if err != nil {
		return models.AdvisoryRecord{}, err
	}

	rec, err := s.engine.Recommend(sub.Farmer, yieldEst, forecast, sub.EvalDate)
	if err != nil {
		return models.AdvisoryRecord{}, err
	}

	yieldReduction := 0.0
	if yieldEst.BaseQuintals > 0 {
		yieldReduction = (yieldEst.BaseQuintals - yieldEst.PredictedQuintals) / yieldEst.BaseQuintals * 100
	}

	return models.AdvisoryRecord{
		ID:             fmt.Sprintf("ADV-%d", sub.EvalDate.UnixNano()),
		CreatedAt:      sub.EvalDate,
		Farmer:         sub.Farmer,
		Disease:        assessment,
		Yield:          yieldEst,
		Price:          forecast,
		Recommendation: rec,
		YieldReduction: yieldReduction,
	}, nil
}

// Package yield predicts total crop yield from farmer context, weather
// observations, and the upstream disease assessment.
package yield

import (
	"github.com/rs/zerolog"

	"agri-advisor/internal/config"
	apperrors "agri-advisor/internal/errors"
	"agri-advisor/internal/logging"
	"agri-advisor/internal/models"
)

// Model is a trained yield regressor. Implementations predict total yield in
// quintals before disease loss.
type Model interface {
	Predict(crop models.Crop, acres, rainfall, temperature, humidity float64) (float64, error)
}

// Estimator produces yield estimates from the crop agronomy tables.
type Estimator struct {
	profiles map[models.Crop]config.CropProfile
	cfg      config.EstimatorConfig
	model    Model // nil means fallback only
	logger   zerolog.Logger
}

// NewEstimator creates a yield estimator using the banded agronomy formula.
func NewEstimator(profiles map[models.Crop]config.CropProfile, cfg config.EstimatorConfig, logger zerolog.Logger) *Estimator {
	return &Estimator{profiles: profiles, cfg: cfg, logger: logger}
}

// NewEstimatorWithModel creates a yield estimator that consults a trained
// regressor and falls back to the formula when it fails.
func NewEstimatorWithModel(profiles map[models.Crop]config.CropProfile, cfg config.EstimatorConfig, model Model, logger zerolog.Logger) *Estimator {
	return &Estimator{profiles: profiles, cfg: cfg, model: model, logger: logger}
}

// Estimate predicts total yield for one submission.
//
// Missing weather readings default to the crop's climatological averages and
// negative readings clamp to zero; both degrade confidence instead of
// failing. Structurally invalid inputs (unsupported crop, non-positive land
// area) are rejected with a ValidationError.
func (e *Estimator) Estimate(crop models.Crop, acres float64, weather models.WeatherObservation, disease models.DiseaseAssessment) (models.YieldEstimate, error) {
	profile, ok := e.profiles[crop]
	if !ok {
		return models.YieldEstimate{}, apperrors.NewValidationError("crop", crop, "unsupported crop")
	}
	if acres <= 0 {
		return models.YieldEstimate{}, apperrors.NewValidationError("land_acres", acres, "must be positive")
	}

	rainfall, adjustments := e.resolveReading("rainfall_mm", weather.RainfallMM, profile.ClimRainMM, 0)
	temperature, adj := e.resolveReading("temperature_c", weather.TemperatureC, profile.ClimTempC, adjustments)
	humidity, adj2 := e.resolveReading("humidity_pct", weather.HumidityPct, profile.ClimHumidity, adj)
	adjustments = adj2
	if humidity > 100 {
		logging.LogDataQuality(e.logger, "humidity_pct", humidity, 100)
		humidity = 100
		adjustments++
	}

	baseQuintals := profile.YieldPerAcre * acres

	if e.model != nil {
		predicted, err := e.model.Predict(crop, acres, rainfall, temperature, humidity)
		if err == nil {
			return e.fromModelPrediction(crop, baseQuintals, predicted, disease, adjustments), nil
		}
		e.logger.Warn().Str("crop", string(crop)).Err(err).
			Msg("Yield model failed, using formula fallback")
	}

	weatherFactor := e.weatherFactor(profile, rainfall, temperature, humidity)

	afterWeather := baseQuintals * weatherFactor
	diseaseLoss := afterWeather * disease.YieldLossFraction
	predicted := afterWeather - diseaseLoss
	if predicted < 0 {
		predicted = 0
	}

	confidence := e.cfg.FallbackConfidence - float64(adjustments)*e.cfg.ClampPenalty
	if confidence < e.cfg.NoMarketDataFloor {
		confidence = e.cfg.NoMarketDataFloor
	}

	estimate := models.YieldEstimate{
		PredictedQuintals:   predicted,
		BaseQuintals:        baseQuintals,
		WeatherFactor:       weatherFactor,
		DiseaseLossQuintals: diseaseLoss,
		Confidence:          confidence,
		Method:              models.MethodFallback,
	}
	logging.LogEstimate(e.logger, "yield", string(crop), string(estimate.Method), estimate.Confidence)
	return estimate, nil
}

// fromModelPrediction applies disease loss to a trained-model prediction.
// The model output already folds in the weather effect, so the weather
// factor is reported as the ratio of its prediction to the base yield.
func (e *Estimator) fromModelPrediction(crop models.Crop, baseQuintals, predicted float64, disease models.DiseaseAssessment, adjustments int) models.YieldEstimate {
	if predicted < 0 {
		predicted = 0
	}
	weatherFactor := 1.0
	if baseQuintals > 0 {
		weatherFactor = predicted / baseQuintals
	}
	diseaseLoss := predicted * disease.YieldLossFraction
	final := predicted - diseaseLoss
	if final < 0 {
		final = 0
	}

	confidence := e.cfg.ModelConfidence - float64(adjustments)*e.cfg.ClampPenalty

	estimate := models.YieldEstimate{
		PredictedQuintals:   final,
		BaseQuintals:        baseQuintals,
		WeatherFactor:       weatherFactor,
		DiseaseLossQuintals: diseaseLoss,
		Confidence:          confidence,
		Method:              models.MethodModel,
	}
	logging.LogEstimate(e.logger, "yield", string(crop), string(estimate.Method), estimate.Confidence)
	return estimate
}

// resolveReading substitutes a missing reading with the climatological
// average and clamps negative readings to zero. Each substitution or clamp
// counts as one confidence adjustment.
func (e *Estimator) resolveReading(field string, reading *float64, climAverage float64, adjustments int) (float64, int) {
	if reading == nil {
		e.logger.Debug().Str("field", field).Float64("default", climAverage).
			Msg("Missing weather reading, using climatological average")
		return climAverage, adjustments + 1
	}
	v := *reading
	if v < 0 {
		logging.LogDataQuality(e.logger, field, v, 0)
		return 0, adjustments + 1
	}
	return v, adjustments
}

// weatherFactor combines the three banded factors and clamps the average to
// [0.5, 1.15]. Readings inside the optimal band earn a bonus above 1.0.
func (e *Estimator) weatherFactor(profile config.CropProfile, rainfall, temperature, humidity float64) float64 {
	rainFactor := bandFactor(rainfall, profile.OptimalRainMM, bandFactors{
		inBand: 1.15, nearBand: 0.9, farLow: 0.5, farHigh: 0.7,
		farLowCut: profile.OptimalRainMM.Low * 0.5, farHighCut: profile.OptimalRainMM.High * 1.5,
	})
	tempFactor := bandFactor(temperature, profile.OptimalTempC, bandFactors{
		inBand: 1.1, nearBand: 0.85, farLow: 0.6, farHigh: 0.6,
		farLowCut: profile.OptimalTempC.Low - 10, farHighCut: profile.OptimalTempC.High + 10,
	})
	humidFactor := bandFactor(humidity, profile.OptimalHumidity, bandFactors{
		inBand: 1.1, nearBand: 0.9, farLow: 0.7, farHigh: 0.7,
		farLowCut: profile.OptimalHumidity.Low - 20, farHighCut: profile.OptimalHumidity.High + 20,
	})

	factor := (rainFactor + tempFactor + humidFactor) / 3
	return clamp(factor, 0.5, 1.15)
}

// bandFactors holds the factor assigned to each deviation tier around an
// optimal band.
type bandFactors struct {
	inBand     float64
	nearBand   float64
	farLow     float64
	farHigh    float64
	farLowCut  float64
	farHighCut float64
}

func bandFactor(v float64, band config.Band, f bandFactors) float64 {
	switch {
	case band.Contains(v):
		return f.inBand
	case v < f.farLowCut:
		return f.farLow
	case v > f.farHighCut:
		return f.farHigh
	default:
		return f.nearBand
	}
}

// clamp restricts a value to the given range.
func clamp(value, minVal, maxVal float64) float64 {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}

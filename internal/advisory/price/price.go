// Package price forecasts the seasonal peak price for a crop.
package price

import (
	"time"

	"github.com/rs/zerolog"

	"agri-advisor/internal/config"
	apperrors "agri-advisor/internal/errors"
	"agri-advisor/internal/logging"
	"agri-advisor/internal/models"
)

// Model is a trained price regressor. Implementations predict the peak price
// in ₹/quintal for the crop's next peak window.
type Model interface {
	Predict(crop models.Crop, currentPrice float64, month time.Month) (float64, error)
}

// Forecaster produces price forecasts from the seasonal market tables.
type Forecaster struct {
	profiles map[models.Crop]config.CropProfile
	cfg      config.EstimatorConfig
	model    Model // nil means fallback only
	logger   zerolog.Logger
}

// NewForecaster creates a forecaster using the seasonal uplift formula.
func NewForecaster(profiles map[models.Crop]config.CropProfile, cfg config.EstimatorConfig, logger zerolog.Logger) *Forecaster {
	return &Forecaster{profiles: profiles, cfg: cfg, logger: logger}
}

// NewForecasterWithModel creates a forecaster that consults a trained
// regressor and falls back to the formula when it fails.
func NewForecasterWithModel(profiles map[models.Crop]config.CropProfile, cfg config.EstimatorConfig, model Model, logger zerolog.Logger) *Forecaster {
	return &Forecaster{profiles: profiles, cfg: cfg, model: model, logger: logger}
}

// Forecast predicts the crop's next seasonal peak price relative to evalDate.
//
// A zero or negative current price means no market data is available: the
// crop's historical baseline substitutes for it and the confidence is pinned
// to the configured floor, so the engine still receives a structurally valid
// forecast. The forecast never fails for market-data reasons.
func (f *Forecaster) Forecast(crop models.Crop, currentPrice float64, evalDate time.Time) (models.PriceForecast, error) {
	profile, ok := f.profiles[crop]
	if !ok {
		return models.PriceForecast{}, apperrors.NewValidationError("crop", crop, "unsupported crop")
	}

	noMarketData := currentPrice <= 0
	if noMarketData {
		f.logger.Warn().Str("crop", string(crop)).Float64("price", currentPrice).
			Msg("No market data, using baseline price")
		currentPrice = profile.BaselinePrice
	}

	monthsToPeak := MonthsToPeak(evalDate.Month(), profile.PeakMonths)
	peakDate := evalDate
	if monthsToPeak > 0 {
		peakDate = evalDate.AddDate(0, monthsToPeak, 0)
	}

	method := models.MethodFallback
	var peakPrice float64

	if f.model != nil && !noMarketData {
		predicted, err := f.model.Predict(crop, currentPrice, evalDate.Month())
		if err == nil && predicted > 0 {
			peakPrice = predicted
			method = models.MethodModel
		} else if err != nil {
			f.logger.Warn().Str("crop", string(crop)).Err(err).
				Msg("Price model failed, using seasonal fallback")
		}
	}

	if method == models.MethodFallback || peakPrice == 0 {
		// Further-out peaks are discounted for forecast uncertainty.
		decay := 1 - f.cfg.UpliftDecayPerMonth*float64(monthsToPeak)
		if decay < f.cfg.UpliftDecayFloor {
			decay = f.cfg.UpliftDecayFloor
		}
		peakPrice = currentPrice * (1 + profile.UpliftFraction*decay)
		method = models.MethodFallback
	}

	confidence := f.cfg.FallbackConfidence
	if method == models.MethodModel {
		confidence = f.cfg.ModelConfidence
	}
	if noMarketData {
		confidence = f.cfg.NoMarketDataFloor
	}

	forecast := models.PriceForecast{
		CurrentPrice:       currentPrice,
		PredictedPeakPrice: peakPrice,
		PeakDate:           peakDate,
		MonthsToPeak:       monthsToPeak,
		Confidence:         confidence,
		Method:             method,
	}
	logging.LogEstimate(f.logger, "price", string(crop), string(method), confidence)
	return forecast, nil
}

// MonthsToPeak returns the shortest forward distance, wrapping around the
// year, from the current month to the crop's peak window. Zero means the
// current month already lies inside the window.
func MonthsToPeak(current time.Month, peakMonths []int) int {
	for offset := 0; offset < 12; offset++ {
		check := (int(current)-1+offset)%12 + 1
		for _, m := range peakMonths {
			if check == m {
				return offset
			}
		}
	}
	return 0
}

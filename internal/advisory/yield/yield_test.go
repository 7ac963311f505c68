package yield

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"agri-advisor/internal/config"
	apperrors "agri-advisor/internal/errors"
	"agri-advisor/internal/models"
)

func testEstimator() *Estimator {
	cfg := config.Default()
	return NewEstimator(cfg.Crops, cfg.Estimator, zerolog.Nop())
}

func noDisease() models.DiseaseAssessment {
	return models.DiseaseAssessment{Severity: models.SeverityNone}
}

func TestEstimateOptimalWeather(t *testing.T) {
	e := testEstimator()
	weather := models.WeatherObservation{
		RainfallMM:   models.Float64Ptr(120),
		TemperatureC: models.Float64Ptr(30),
		HumidityPct:  models.Float64Ptr(78),
	}

	est, err := e.Estimate(models.CropPaddy, 3, weather, noDisease())
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if est.BaseQuintals != 75 {
		t.Errorf("Expected base 75 quintals for 3 acres of paddy, got %f", est.BaseQuintals)
	}
	// All three readings in-band: (1.15 + 1.1 + 1.1) / 3
	wantFactor := (1.15 + 1.1 + 1.1) / 3
	if math.Abs(est.WeatherFactor-wantFactor) > 0.0001 {
		t.Errorf("Expected weather factor %f, got %f", wantFactor, est.WeatherFactor)
	}
	if est.PredictedQuintals <= est.BaseQuintals {
		t.Errorf("Optimal weather should beat baseline: %f <= %f", est.PredictedQuintals, est.BaseQuintals)
	}
	if est.Confidence != 0.60 {
		t.Errorf("Expected full fallback confidence 0.60, got %f", est.Confidence)
	}
	if est.Method != models.MethodFallback {
		t.Errorf("Expected fallback method, got %s", est.Method)
	}
}

func TestEstimateMissingReadingsUseClimatology(t *testing.T) {
	e := testEstimator()

	est, err := e.Estimate(models.CropPaddy, 2, models.WeatherObservation{}, noDisease())
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	// Climatological averages for paddy sit inside every optimal band, so
	// the factor matches the optimal case; only confidence drops.
	wantFactor := (1.15 + 1.1 + 1.1) / 3
	if math.Abs(est.WeatherFactor-wantFactor) > 0.0001 {
		t.Errorf("Expected weather factor %f, got %f", wantFactor, est.WeatherFactor)
	}
	wantConf := 0.60 - 3*0.05
	if math.Abs(est.Confidence-wantConf) > 0.0001 {
		t.Errorf("Expected confidence %f after three substitutions, got %f", wantConf, est.Confidence)
	}
}

func TestEstimateNegativeAndOverflowReadingsClamp(t *testing.T) {
	e := testEstimator()
	weather := models.WeatherObservation{
		RainfallMM:   models.Float64Ptr(-50),
		TemperatureC: models.Float64Ptr(30),
		HumidityPct:  models.Float64Ptr(140),
	}

	est, err := e.Estimate(models.CropPaddy, 1, weather, noDisease())
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	// Zero rainfall is far below paddy's band; 100 humidity is near-band.
	if est.WeatherFactor >= 1.0 {
		t.Errorf("Expected degraded weather factor, got %f", est.WeatherFactor)
	}
	// Two clamps: negative rainfall and humidity above 100.
	wantConf := 0.60 - 2*0.05
	if math.Abs(est.Confidence-wantConf) > 0.0001 {
		t.Errorf("Expected confidence %f after two clamps, got %f", wantConf, est.Confidence)
	}
}

func TestEstimateDiseaseLoss(t *testing.T) {
	e := testEstimator()
	weather := models.WeatherObservation{
		RainfallMM:   models.Float64Ptr(120),
		TemperatureC: models.Float64Ptr(30),
		HumidityPct:  models.Float64Ptr(78),
	}
	disease := models.DiseaseAssessment{
		DiseaseName:       "blast",
		Severity:          models.SeverityHigh,
		YieldLossFraction: 0.30,
	}

	est, err := e.Estimate(models.CropPaddy, 2, weather, disease)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	afterWeather := est.BaseQuintals * est.WeatherFactor
	wantLoss := afterWeather * 0.30
	if math.Abs(est.DiseaseLossQuintals-wantLoss) > 0.0001 {
		t.Errorf("Expected disease loss %f, got %f", wantLoss, est.DiseaseLossQuintals)
	}
	wantPredicted := afterWeather - wantLoss
	if math.Abs(est.PredictedQuintals-wantPredicted) > 0.0001 {
		t.Errorf("Expected predicted %f, got %f", wantPredicted, est.PredictedQuintals)
	}
}

func TestEstimateTotalLossFloorsAtZero(t *testing.T) {
	e := testEstimator()
	disease := models.DiseaseAssessment{
		Severity:          models.SeverityHigh,
		YieldLossFraction: 1.0,
	}

	est, err := e.Estimate(models.CropPaddy, 2, models.WeatherObservation{}, disease)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if est.PredictedQuintals != 0 {
		t.Errorf("Expected zero predicted yield at total loss, got %f", est.PredictedQuintals)
	}
}

func TestEstimateValidation(t *testing.T) {
	e := testEstimator()
	var vErr *apperrors.ValidationError

	_, err := e.Estimate("wheat", 2, models.WeatherObservation{}, noDisease())
	if !apperrors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError for unsupported crop, got %v", err)
	}

	_, err = e.Estimate(models.CropPaddy, -1, models.WeatherObservation{}, noDisease())
	if !apperrors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError for negative acres, got %v", err)
	}
}

func TestEstimateWithModel(t *testing.T) {
	cfg := config.Default()
	model := modelFunc(func(crop models.Crop, acres, rainfall, temperature, humidity float64) (float64, error) {
		return 40, nil
	})
	e := NewEstimatorWithModel(cfg.Crops, cfg.Estimator, model, zerolog.Nop())

	disease := models.DiseaseAssessment{Severity: models.SeverityMedium, YieldLossFraction: 0.15}
	weather := models.WeatherObservation{
		RainfallMM:   models.Float64Ptr(120),
		TemperatureC: models.Float64Ptr(30),
		HumidityPct:  models.Float64Ptr(78),
	}

	est, err := e.Estimate(models.CropPaddy, 2, weather, disease)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if est.Method != models.MethodModel {
		t.Errorf("Expected model method, got %s", est.Method)
	}
	wantPredicted := 40 * (1 - 0.15)
	if math.Abs(est.PredictedQuintals-wantPredicted) > 0.0001 {
		t.Errorf("Expected predicted %f, got %f", wantPredicted, est.PredictedQuintals)
	}
	if est.Confidence != 0.85 {
		t.Errorf("Expected model confidence 0.85, got %f", est.Confidence)
	}
}

type modelFunc func(crop models.Crop, acres, rainfall, temperature, humidity float64) (float64, error)

func (f modelFunc) Predict(crop models.Crop, acres, rainfall, temperature, humidity float64) (float64, error) {
	return f(crop, acres, rainfall, temperature, humidity)
}

func TestWeatherFactorClampRange(t *testing.T) {
	e := testEstimator()
	profile := config.DefaultCropProfiles()[models.CropPaddy]

	extremes := [][3]float64{
		{0, -20, 0},
		{10000, 60, 100},
		{120, 30, 78},
	}
	for _, ex := range extremes {
		factor := e.weatherFactor(profile, ex[0], ex[1], ex[2])
		if factor < 0.5 || factor > 1.15 {
			t.Errorf("weatherFactor(%v) = %f out of [0.5, 1.15]", ex, factor)
		}
	}
}

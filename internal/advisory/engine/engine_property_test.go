package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"agri-advisor/internal/config"
	"agri-advisor/internal/models"
)

// Property: For any non-negative yield and prices, the recommendation's
// confidence score stays within [0, 100], the action is one of the two
// defined actions, and the value figures are internally consistent.
func TestProperty_RecommendationBounds(t *testing.T) {
	e := New(config.Default().Engine, zerolog.Nop())
	evalDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("confidence in [0,100], consistent values", prop.ForAll(
		func(quintals, price, peakPrice, yieldConf, priceConf float64, coldStorage, urgentCash bool, months int) bool {
			farmer := models.FarmerContext{
				Crop:           models.CropPaddy,
				LandAcres:      2,
				HasColdStorage: coldStorage,
				UrgentCashNeed: urgentCash,
			}
			yieldEst := models.YieldEstimate{
				PredictedQuintals: quintals,
				BaseQuintals:      quintals,
				WeatherFactor:     1.0,
				Confidence:        yieldConf,
				Method:            models.MethodFallback,
			}
			forecast := models.PriceForecast{
				CurrentPrice:       price,
				PredictedPeakPrice: peakPrice,
				PeakDate:           evalDate.AddDate(0, months, 0),
				MonthsToPeak:       months,
				Confidence:         priceConf,
				Method:             models.MethodFallback,
			}

			rec, err := e.Recommend(farmer, yieldEst, forecast, evalDate)
			if err != nil {
				t.Logf("Recommend failed: %v", err)
				return false
			}

			if rec.ConfidenceScore < 0 || rec.ConfidenceScore > 100 {
				t.Logf("Confidence out of range: %f", rec.ConfidenceScore)
				return false
			}
			if rec.Action != models.ActionStore && rec.Action != models.ActionSellNow {
				t.Logf("Unknown action: %s", rec.Action)
				return false
			}
			if rec.CurrentTotalValue < 0 || rec.FutureTotalValue < 0 {
				t.Logf("Negative value: current=%f future=%f", rec.CurrentTotalValue, rec.FutureTotalValue)
				return false
			}
			if rec.ProfitDelta != rec.FutureTotalValue-rec.CurrentTotalValue {
				t.Logf("Inconsistent delta: %f vs %f", rec.ProfitDelta, rec.FutureTotalValue-rec.CurrentTotalValue)
				return false
			}
			if rec.DaysToPeak < 0 {
				t.Logf("Negative days to peak: %d", rec.DaysToPeak)
				return false
			}
			return true
		},
		gen.Float64Range(0, 2000),
		gen.Float64Range(0, 50000),
		gen.Float64Range(0, 60000),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
		gen.Bool(),
		gen.Bool(),
		gen.IntRange(0, 11),
	))

	properties.TestingRun(t)
}

// Property: Recommend is a pure function of its inputs — evaluating the same
// submission twice yields identical recommendations.
func TestProperty_RecommendationDeterministic(t *testing.T) {
	e := New(config.Default().Engine, zerolog.Nop())
	evalDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("same inputs produce identical output", prop.ForAll(
		func(quintals, price, peakPrice float64, coldStorage, urgentCash bool) bool {
			farmer := models.FarmerContext{
				Crop:           models.CropPaddy,
				LandAcres:      2,
				HasColdStorage: coldStorage,
				UrgentCashNeed: urgentCash,
			}
			yieldEst := models.YieldEstimate{
				PredictedQuintals: quintals,
				BaseQuintals:      quintals,
				WeatherFactor:     1.0,
				Confidence:        0.6,
				Method:            models.MethodFallback,
			}
			forecast := models.PriceForecast{
				CurrentPrice:       price,
				PredictedPeakPrice: peakPrice,
				PeakDate:           evalDate.AddDate(0, 3, 0),
				MonthsToPeak:       3,
				Confidence:         0.6,
				Method:             models.MethodFallback,
			}

			first, err1 := e.Recommend(farmer, yieldEst, forecast, evalDate)
			second, err2 := e.Recommend(farmer, yieldEst, forecast, evalDate)
			if err1 != nil || err2 != nil {
				t.Logf("Recommend failed: %v / %v", err1, err2)
				return false
			}
			return reflect.DeepEqual(first, second)
		},
		gen.Float64Range(0, 2000),
		gen.Float64Range(1, 50000),
		gen.Float64Range(1, 60000),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Property: urgent cash need always yields SELL_NOW when there is anything
// to sell, regardless of how large the projected gain is.
func TestProperty_UrgentCashAlwaysSells(t *testing.T) {
	e := New(config.Default().Engine, zerolog.Nop())
	evalDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("urgent cash forces SELL_NOW", prop.ForAll(
		func(quintals, price, upliftPct float64) bool {
			farmer := models.FarmerContext{
				Crop:           models.CropPaddy,
				LandAcres:      2,
				HasColdStorage: true,
				UrgentCashNeed: true,
			}
			yieldEst := models.YieldEstimate{
				PredictedQuintals: quintals,
				BaseQuintals:      quintals,
				WeatherFactor:     1.0,
				Confidence:        0.6,
				Method:            models.MethodFallback,
			}
			forecast := models.PriceForecast{
				CurrentPrice:       price,
				PredictedPeakPrice: price * (1 + upliftPct/100),
				PeakDate:           evalDate.AddDate(0, 2, 0),
				MonthsToPeak:       2,
				Confidence:         0.6,
				Method:             models.MethodFallback,
			}

			rec, err := e.Recommend(farmer, yieldEst, forecast, evalDate)
			if err != nil {
				t.Logf("Recommend failed: %v", err)
				return false
			}
			return rec.Action == models.ActionSellNow
		},
		gen.Float64Range(0.1, 2000),
		gen.Float64Range(100, 50000),
		gen.Float64Range(0, 200),
	))

	properties.TestingRun(t)
}

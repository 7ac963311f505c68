// Package engine combines the yield estimate and price forecast with the
// farmer's situation into a single STORE or SELL_NOW recommendation.
//
// The engine is a pure function of its inputs plus the evaluation date; it
// holds no state between invocations and is safe for concurrent use. The
// held quantity is deliberately kept constant between the sell-now and store
// scenarios: the decision is about price timing, and storage spoilage over
// time is a known, unmodeled limitation.
package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"agri-advisor/internal/config"
	apperrors "agri-advisor/internal/errors"
	"agri-advisor/internal/logging"
	"agri-advisor/internal/models"
	"agri-advisor/pkg/utils"
)

// Engine evaluates submissions into recommendations.
type Engine struct {
	cfg    config.EngineConfig
	rules  []rule
	logger zerolog.Logger
}

// evaluation carries the computed figures the rules decide over.
type evaluation struct {
	farmer     models.FarmerContext
	yieldEst   models.YieldEstimate
	forecast   models.PriceForecast
	current    float64 // current total value
	future     float64 // future total value
	delta      float64
	profitPct  float64
	storageEst float64
	netProfit  float64
	daysToPeak int
	minGain    float64
}

// rule is one priority-ordered decision rule. Rules are evaluated
// top-to-bottom and the first match wins; the ordering is the core policy of
// the whole system.
type rule struct {
	name    string
	matches func(ev *evaluation) bool
	outcome func(ev *evaluation) (models.Action, string)
}

// New creates a decision engine with the given policy constants.
func New(cfg config.EngineConfig, logger zerolog.Logger) *Engine {
	e := &Engine{cfg: cfg, logger: logger}
	e.rules = []rule{
		{
			name:    "zero_yield",
			matches: func(ev *evaluation) bool { return ev.yieldEst.PredictedQuintals == 0 },
			outcome: func(ev *evaluation) (models.Action, string) {
				return models.ActionSellNow,
					"Predicted yield is zero quintals; there is nothing to store. Sell any salvageable produce immediately."
			},
		},
		{
			name:    "urgent_cash",
			matches: func(ev *evaluation) bool { return ev.farmer.UrgentCashNeed },
			outcome: func(ev *evaluation) (models.Action, string) {
				return models.ActionSellNow, fmt.Sprintf(
					"Urgent cash requirement overrides the projected %s gain. Immediate sale recommended.",
					utils.FormatPercent(ev.profitPct))
			},
		},
		{
			name:    "no_cold_storage",
			matches: func(ev *evaluation) bool { return !ev.farmer.HasColdStorage },
			outcome: func(ev *evaluation) (models.Action, string) {
				return models.ActionSellNow, fmt.Sprintf(
					"No cold storage access; holding the crop risks spoilage. Sell now despite the projected %s gain.",
					utils.FormatPercent(ev.profitPct))
			},
		},
		{
			name:    "insufficient_gain",
			matches: func(ev *evaluation) bool { return ev.profitPct < ev.minGain },
			outcome: func(ev *evaluation) (models.Action, string) {
				return models.ActionSellNow, fmt.Sprintf(
					"Projected gain of %s is below the %.1f%% minimum needed to justify storage cost (%s) and waiting. Sell now.",
					utils.FormatPercent(ev.profitPct), ev.minGain, utils.FormatIndianCurrency(ev.storageEst))
			},
		},
		{
			name:    "store_for_peak",
			matches: func(ev *evaluation) bool { return true },
			outcome: func(ev *evaluation) (models.Action, string) {
				return models.ActionStore, fmt.Sprintf(
					"Storing for %d days until the seasonal peak is projected to add %s (%s), netting %s after storage costs.",
					ev.daysToPeak, utils.FormatIndianCurrency(ev.delta),
					utils.FormatPercent(ev.profitPct), utils.FormatIndianCurrency(ev.netProfit))
			},
		},
	}
	return e
}

// Recommend produces a recommendation for one submission, evaluated against
// evalDate. It rejects structurally invalid farmer context with a
// ValidationError and otherwise never fails: degraded upstream data arrives
// as low confidence, not as an error.
func (e *Engine) Recommend(farmer models.FarmerContext, yieldEst models.YieldEstimate, forecast models.PriceForecast, evalDate time.Time) (models.Recommendation, error) {
	if !farmer.Crop.IsSupported() {
		return models.Recommendation{}, apperrors.NewValidationError("crop", farmer.Crop, "unsupported crop")
	}
	if farmer.LandAcres <= 0 {
		return models.Recommendation{}, apperrors.NewValidationError("land_acres", farmer.LandAcres, "must be positive")
	}

	ev := e.evaluate(farmer, yieldEst, forecast, evalDate)

	var action models.Action
	var reason string
	for _, r := range e.rules {
		if r.matches(ev) {
			action, reason = r.outcome(ev)
			e.logger.Debug().Str("rule", r.name).Str("action", string(action)).Msg("Decision rule fired")
			break
		}
	}

	confidence := e.blendConfidence(yieldEst.Confidence, forecast.Confidence)

	rec := models.Recommendation{
		Action:             action,
		Reason:             reason,
		ConfidenceScore:    confidence,
		CurrentTotalValue:  ev.current,
		FutureTotalValue:   ev.future,
		ProfitDelta:        ev.delta,
		ProfitPercentage:   ev.profitPct,
		StorageCostEst:     ev.storageEst,
		NetProfitAfterCost: ev.netProfit,
		BreakEvenPrice:     breakEvenPrice(forecast.CurrentPrice, ev.storageEst, yieldEst.PredictedQuintals),
		DaysToPeak:         ev.daysToPeak,
	}

	logging.LogRecommendation(e.logger, string(farmer.Crop), string(action), confidence, ev.profitPct)
	return rec, nil
}

func (e *Engine) evaluate(farmer models.FarmerContext, yieldEst models.YieldEstimate, forecast models.PriceForecast, evalDate time.Time) *evaluation {
	current := yieldEst.PredictedQuintals * forecast.CurrentPrice
	future := yieldEst.PredictedQuintals * forecast.PredictedPeakPrice
	delta := future - current

	profitPct := 0.0
	if current > 0 {
		profitPct = delta / current * 100
	}

	storageEst := current * e.cfg.StorageCostPercent / 100
	netProfit := delta - storageEst

	daysToPeak := 0
	if forecast.PeakDate.After(evalDate) {
		daysToPeak = int(forecast.PeakDate.Sub(evalDate).Hours() / 24)
	}

	return &evaluation{
		farmer:     farmer,
		yieldEst:   yieldEst,
		forecast:   forecast,
		current:    current,
		future:     future,
		delta:      delta,
		profitPct:  profitPct,
		storageEst: storageEst,
		netProfit:  netProfit,
		daysToPeak: daysToPeak,
		minGain:    e.cfg.MinGainPercent,
	}
}

// blendConfidence maps the two upstream confidences in [0,1] to the 0-100
// score using the fixed configured weights. Yield is weighted higher by
// default since it gates the value computation.
func (e *Engine) blendConfidence(yieldConf, priceConf float64) float64 {
	score := 100 * (e.cfg.YieldWeight*yieldConf + e.cfg.PriceWeight*priceConf)
	return clamp(score, 0, 100)
}

// breakEvenPrice is the current price plus the storage cost spread over the
// held quantity; zero when there is nothing to hold.
func breakEvenPrice(currentPrice, storageCost, quintals float64) float64 {
	if quintals <= 0 {
		return 0
	}
	return currentPrice + storageCost/quintals
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

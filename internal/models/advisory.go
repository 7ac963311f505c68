package models

import "time"

// DiseaseAssessment is the disease severity estimator's output.
// YieldLossFraction is in [0, 1]; zero when no disease was detected or no
// image was supplied.
type DiseaseAssessment struct {
	DiseaseName       string // empty when no disease detected
	Severity          Severity
	YieldLossFraction float64
	Confidence        float64 // [0, 1]
	Method            Method
}

// YieldEstimate is the yield estimator's output.
// Invariant: PredictedQuintals = BaseQuintals*WeatherFactor - DiseaseLossQuintals,
// clamped to be non-negative.
type YieldEstimate struct {
	PredictedQuintals   float64
	BaseQuintals        float64
	WeatherFactor       float64
	DiseaseLossQuintals float64
	Confidence          float64 // [0, 1]
	Method              Method
}

// PriceForecast is the price forecaster's output.
// PeakDate is never before the evaluation date; "peak is now" is the
// degenerate case where the evaluation month already lies in the peak window.
type PriceForecast struct {
	CurrentPrice       float64 // ₹/quintal
	PredictedPeakPrice float64 // ₹/quintal
	PeakDate           time.Time
	MonthsToPeak       int
	Confidence         float64 // [0, 1]
	Method             Method
}

// Recommendation is the decision engine's output. Constructed fresh on every
// evaluation and never mutated afterwards.
type Recommendation struct {
	Action             Action
	Reason             string
	ConfidenceScore    float64 // [0, 100]
	CurrentTotalValue  float64
	FutureTotalValue   float64
	ProfitDelta        float64
	ProfitPercentage   float64
	StorageCostEst     float64
	NetProfitAfterCost float64
	BreakEvenPrice     float64
	DaysToPeak         int
}

// AdvisoryRecord is one persisted evaluation: the farmer context, the three
// estimates, and the resulting recommendation, stored verbatim.
type AdvisoryRecord struct {
	ID              string
	CreatedAt       time.Time
	Farmer          FarmerContext
	Disease         DiseaseAssessment
	Yield           YieldEstimate
	Price           PriceForecast
	Recommendation  Recommendation
	YieldReduction  float64 // percent drop from base to predicted yield
}

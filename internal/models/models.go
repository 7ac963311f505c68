// Package models provides domain models for the advisory application.
package models

// Crop represents a supported crop type.
type Crop string

const (
	CropPaddy     Crop = "paddy"
	CropMango     Crop = "mango"
	CropChillies  Crop = "chillies"
	CropCotton    Crop = "cotton"
	CropTurmeric  Crop = "turmeric"
	CropSugarcane Crop = "sugarcane"
	CropBanana    Crop = "banana"
	CropTomato    Crop = "tomato"
	CropOkra      Crop = "okra"
	CropBrinjal   Crop = "brinjal"
)

// SupportedCrops lists every crop the advisory pipeline accepts.
var SupportedCrops = []Crop{
	CropPaddy, CropMango, CropChillies, CropCotton, CropTurmeric,
	CropSugarcane, CropBanana, CropTomato, CropOkra, CropBrinjal,
}

// IsSupported reports whether c is one of the supported crops.
func (c Crop) IsSupported() bool {
	for _, crop := range SupportedCrops {
		if c == crop {
			return true
		}
	}
	return false
}

// Severity represents a disease severity tier.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Method indicates which estimation path produced a value.
type Method string

const (
	MethodModel    Method = "model"
	MethodFallback Method = "fallback"
)

// Action represents the engine's final recommendation.
type Action string

const (
	ActionStore   Action = "STORE"
	ActionSellNow Action = "SELL_NOW"
)

// FarmerContext carries the farmer's situation for one submission.
// It is supplied by the data-entry collaborator and read-only to the engine.
type FarmerContext struct {
	Crop           Crop
	LandAcres      float64
	HasColdStorage bool
	UrgentCashNeed bool
	Mandal         string // administrative sub-district, display only
	Village        string
}

// WeatherObservation holds monthly weather readings for the farmer's mandal.
// A nil field means the reading is missing and the estimator substitutes the
// crop's climatological average.
type WeatherObservation struct {
	RainfallMM   *float64 // monthly rainfall in mm
	TemperatureC *float64
	HumidityPct  *float64
}

// Float64Ptr returns a pointer to v. Convenience for building observations.
func Float64Ptr(v float64) *float64 { return &v }

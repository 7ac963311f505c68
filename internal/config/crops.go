package config

import "agri-advisor/internal/models"

// DefaultCropProfiles returns the reference agronomy and market tables for
// the ten supported Krishna District crops. Yields and optimal bands follow
// the district averages; rainfall bands are monthly mm.
func DefaultCropProfiles() map[models.Crop]CropProfile {
	return map[models.Crop]CropProfile{
		models.CropPaddy: {
			YieldPerAcre:    25.0,
			OptimalTempC:    Band{25, 35},
			OptimalRainMM:   Band{100, 167},
			OptimalHumidity: Band{70, 85},
			ClimRainMM:      120, ClimTempC: 30, ClimHumidity: 78,
			BaselinePrice:  2200,
			PeakMonths:     []int{11, 12, 1},
			UpliftFraction: 0.15,
		},
		models.CropMango: {
			YieldPerAcre:    30.0,
			OptimalTempC:    Band{24, 30},
			OptimalRainMM:   Band{62, 208},
			OptimalHumidity: Band{60, 75},
			ClimRainMM:      90, ClimTempC: 28, ClimHumidity: 68,
			BaselinePrice:  3200,
			PeakMonths:     []int{3, 4},
			UpliftFraction: 0.25,
		},
		models.CropChillies: {
			YieldPerAcre:    12.0,
			OptimalTempC:    Band{20, 30},
			OptimalRainMM:   Band{50, 104},
			OptimalHumidity: Band{60, 70},
			ClimRainMM:      70, ClimTempC: 27, ClimHumidity: 65,
			BaselinePrice:  9000,
			PeakMonths:     []int{12, 1},
			UpliftFraction: 0.30,
		},
		models.CropCotton: {
			YieldPerAcre:    8.0,
			OptimalTempC:    Band{21, 30},
			OptimalRainMM:   Band{42, 83},
			OptimalHumidity: Band{50, 70},
			ClimRainMM:      60, ClimTempC: 28, ClimHumidity: 62,
			BaselinePrice:  7200,
			PeakMonths:     []int{9, 10},
			UpliftFraction: 0.15,
		},
		models.CropTurmeric: {
			YieldPerAcre:    20.0,
			OptimalTempC:    Band{20, 30},
			OptimalRainMM:   Band{125, 188},
			OptimalHumidity: Band{70, 80},
			ClimRainMM:      140, ClimTempC: 26, ClimHumidity: 74,
			BaselinePrice:  9500,
			PeakMonths:     []int{12, 1},
			UpliftFraction: 0.20,
		},
		models.CropSugarcane: {
			YieldPerAcre:    250.0,
			OptimalTempC:    Band{21, 27},
			OptimalRainMM:   Band{125, 208},
			OptimalHumidity: Band{70, 80},
			ClimRainMM:      150, ClimTempC: 26, ClimHumidity: 75,
			BaselinePrice:  350,
			PeakMonths:     []int{11, 12},
			UpliftFraction: 0.12,
		},
		models.CropBanana: {
			YieldPerAcre:    150.0,
			OptimalTempC:    Band{15, 35},
			OptimalRainMM:   Band{150, 225},
			OptimalHumidity: Band{75, 85},
			ClimRainMM:      170, ClimTempC: 29, ClimHumidity: 80,
			BaselinePrice:  1800,
			PeakMonths:     []int{11, 12, 1, 2},
			UpliftFraction: 0.20,
		},
		models.CropTomato: {
			YieldPerAcre:    100.0,
			OptimalTempC:    Band{18, 27},
			OptimalRainMM:   Band{50, 108},
			OptimalHumidity: Band{60, 70},
			ClimRainMM:      75, ClimTempC: 25, ClimHumidity: 66,
			BaselinePrice:  1400,
			PeakMonths:     []int{4, 5, 6},
			UpliftFraction: 0.35,
		},
		models.CropOkra: {
			YieldPerAcre:    40.0,
			OptimalTempC:    Band{25, 35},
			OptimalRainMM:   Band{50, 83},
			OptimalHumidity: Band{60, 70},
			ClimRainMM:      65, ClimTempC: 30, ClimHumidity: 66,
			BaselinePrice:  2200,
			PeakMonths:     []int{3, 4, 11},
			UpliftFraction: 0.25,
		},
		models.CropBrinjal: {
			YieldPerAcre:    80.0,
			OptimalTempC:    Band{22, 30},
			OptimalRainMM:   Band{50, 83},
			OptimalHumidity: Band{65, 75},
			ClimRainMM:      65, ClimTempC: 27, ClimHumidity: 70,
			BaselinePrice:  2000,
			PeakMonths:     []int{4, 5},
			UpliftFraction: 0.20,
		},
	}
}

// DefaultDiseaseCatalog returns the per-crop disease catalog. Crops without a
// dedicated entry fall back to the generic catalog under CatalogDefaultKey.
func DefaultDiseaseCatalog() DiseaseCatalog {
	return DiseaseCatalog{
		models.CropPaddy: {
			"blast":                 {Severity: models.SeverityHigh, LossFraction: 0.30},
			"brown_spot":            {Severity: models.SeverityMedium, LossFraction: 0.15},
			"sheath_blight":         {Severity: models.SeverityMedium, LossFraction: 0.15},
			"bacterial_leaf_blight": {Severity: models.SeverityHigh, LossFraction: 0.25},
			"tungro":                {Severity: models.SeverityHigh, LossFraction: 0.40},
			"healthy":               {Severity: models.SeverityNone, LossFraction: 0},
		},
		models.CropMango: {
			"anthracnose":      {Severity: models.SeverityHigh, LossFraction: 0.30},
			"powdery_mildew":   {Severity: models.SeverityMedium, LossFraction: 0.20},
			"sooty_mould":      {Severity: models.SeverityMedium, LossFraction: 0.15},
			"bacterial_canker": {Severity: models.SeverityHigh, LossFraction: 0.35},
			"healthy":          {Severity: models.SeverityNone, LossFraction: 0},
		},
		models.CropChillies: {
			"anthracnose":    {Severity: models.SeverityHigh, LossFraction: 0.35},
			"bacterial_wilt": {Severity: models.SeverityHigh, LossFraction: 0.40},
			"leaf_curl":      {Severity: models.SeverityMedium, LossFraction: 0.20},
			"powdery_mildew": {Severity: models.SeverityMedium, LossFraction: 0.15},
			"healthy":        {Severity: models.SeverityNone, LossFraction: 0},
		},
		models.CropCotton: {
			"bacterial_blight": {Severity: models.SeverityHigh, LossFraction: 0.30},
			"leaf_curl":        {Severity: models.SeverityMedium, LossFraction: 0.20},
			"wilt":             {Severity: models.SeverityHigh, LossFraction: 0.35},
			"grey_mildew":      {Severity: models.SeverityMedium, LossFraction: 0.15},
			"healthy":          {Severity: models.SeverityNone, LossFraction: 0},
		},
		models.CropTomato: {
			"early_blight":       {Severity: models.SeverityHigh, LossFraction: 0.30},
			"late_blight":        {Severity: models.SeverityHigh, LossFraction: 0.40},
			"bacterial_spot":     {Severity: models.SeverityMedium, LossFraction: 0.20},
			"leaf_mold":          {Severity: models.SeverityMedium, LossFraction: 0.15},
			"septoria_leaf_spot": {Severity: models.SeverityMedium, LossFraction: 0.18},
			"healthy":            {Severity: models.SeverityNone, LossFraction: 0},
		},
		CatalogDefaultKey: {
			"fungal_infection":    {Severity: models.SeverityMedium, LossFraction: 0.20},
			"bacterial_infection": {Severity: models.SeverityHigh, LossFraction: 0.25},
			"viral_infection":     {Severity: models.SeverityHigh, LossFraction: 0.35},
			"pest_damage":         {Severity: models.SeverityMedium, LossFraction: 0.15},
			"nutrient_deficiency": {Severity: models.SeverityLow, LossFraction: 0.10},
			"healthy":             {Severity: models.SeverityNone, LossFraction: 0},
		},
	}
}

// CatalogDefaultKey is the catalog entry used for crops without a dedicated
// disease list.
const CatalogDefaultKey models.Crop = "default"

// ForCrop returns the disease list for a crop, falling back to the generic
// catalog.
func (c DiseaseCatalog) ForCrop(crop models.Crop) map[string]DiseaseInfo {
	if diseases, ok := c[crop]; ok {
		return diseases
	}
	return c[CatalogDefaultKey]
}

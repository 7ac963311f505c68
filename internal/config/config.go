// Package config provides configuration management for the advisory application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"agri-advisor/internal/models"
)

// Config holds all application configuration. The lookup tables are immutable
// once loaded and are injected into each estimator at construction, keeping
// the pipeline pure and testable with alternate tables.
type Config struct {
	Engine    EngineConfig    `mapstructure:"engine"`
	Estimator EstimatorConfig `mapstructure:"estimator"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"`

	Crops    map[models.Crop]CropProfile `mapstructure:"-"` // loaded from defaults
	Diseases DiseaseCatalog              `mapstructure:"-"`
}

// EngineConfig holds the decision engine's tunable constants. The thresholds
// are hand-picked round numbers carried over from the original advisory
// policy, not derived values; they are configuration, not logic.
type EngineConfig struct {
	MinGainPercent     float64 `mapstructure:"min_gain_percent"`
	YieldWeight        float64 `mapstructure:"yield_weight"`
	PriceWeight        float64 `mapstructure:"price_weight"`
	StorageCostPercent float64 `mapstructure:"storage_cost_percent"`
}

// EstimatorConfig holds the confidence constants shared by the estimators.
type EstimatorConfig struct {
	ModelConfidence    float64 `mapstructure:"model_confidence"`
	FallbackConfidence float64 `mapstructure:"fallback_confidence"`
	ClampPenalty       float64 `mapstructure:"clamp_penalty"`
	NoMarketDataFloor  float64 `mapstructure:"no_market_data_floor"`
	UpliftDecayPerMonth float64 `mapstructure:"uplift_decay_per_month"`
	UpliftDecayFloor    float64 `mapstructure:"uplift_decay_floor"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// CropProfile holds per-crop agronomy and market reference data for the
// Krishna District. Yields are quintals per acre; rainfall is monthly mm.
type CropProfile struct {
	YieldPerAcre float64

	OptimalTempC    Band
	OptimalRainMM   Band
	OptimalHumidity Band

	// Climatological monthly averages, used when a weather reading is missing.
	ClimRainMM   float64
	ClimTempC    float64
	ClimHumidity float64

	// Historical average market price, ₹/quintal. Used when no current
	// price is supplied.
	BaselinePrice float64

	// Months (1-12) in which the crop's price historically peaks.
	PeakMonths []int
	// Expected fractional price rise at the peak relative to the current price.
	UpliftFraction float64
}

// Band is an inclusive [Low, High] optimal range.
type Band struct {
	Low  float64
	High float64
}

// Contains reports whether v lies inside the band.
func (b Band) Contains(v float64) bool {
	return v >= b.Low && v <= b.High
}

// DiseaseInfo describes one cataloged disease.
type DiseaseInfo struct {
	Severity     models.Severity
	LossFraction float64 // [0, 1]
}

// DiseaseCatalog maps crop -> disease name -> info. The "default" entry
// covers crops without a dedicated catalog.
type DiseaseCatalog map[models.Crop]map[string]DiseaseInfo

// SeverityLossFractions maps a severity tier to the yield-loss fraction used
// when only a tier (and no specific disease) is known.
var SeverityLossFractions = map[models.Severity]float64{
	models.SeverityNone:   0.0,
	models.SeverityLow:    0.05,
	models.SeverityMedium: 0.15,
	models.SeverityHigh:   0.30,
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/agri-advisor"
	}
	return filepath.Join(home, ".config", "agri-advisor")
}

// Default returns the built-in configuration with no file overrides applied.
func Default() *Config {
	cfg := &Config{
		Engine: EngineConfig{
			MinGainPercent:     5.0,
			YieldWeight:        0.55,
			PriceWeight:        0.45,
			StorageCostPercent: 5.0,
		},
		Estimator: EstimatorConfig{
			ModelConfidence:     0.85,
			FallbackConfidence:  0.60,
			ClampPenalty:        0.05,
			NoMarketDataFloor:   0.30,
			UpliftDecayPerMonth: 0.05,
			UpliftDecayFloor:    0.60,
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(DefaultConfigDir(), "advisor.db"),
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    true,
		},
		Crops:    DefaultCropProfiles(),
		Diseases: DefaultDiseaseCatalog(),
	}
	return cfg
}

// Load loads configuration from advisor.toml in the specified directory,
// falling back to built-in defaults for anything unset. If configDir is
// empty, the default config directory is used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("advisor")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("engine.min_gain_percent", cfg.Engine.MinGainPercent)
	v.SetDefault("engine.yield_weight", cfg.Engine.YieldWeight)
	v.SetDefault("engine.price_weight", cfg.Engine.PriceWeight)
	v.SetDefault("engine.storage_cost_percent", cfg.Engine.StorageCostPercent)
	v.SetDefault("estimator.model_confidence", cfg.Estimator.ModelConfidence)
	v.SetDefault("estimator.fallback_confidence", cfg.Estimator.FallbackConfidence)
	v.SetDefault("estimator.clamp_penalty", cfg.Estimator.ClampPenalty)
	v.SetDefault("estimator.no_market_data_floor", cfg.Estimator.NoMarketDataFloor)
	v.SetDefault("estimator.uplift_decay_per_month", cfg.Estimator.UpliftDecayPerMonth)
	v.SetDefault("estimator.uplift_decay_floor", cfg.Estimator.UpliftDecayFloor)
	v.SetDefault("storage.db_path", cfg.Storage.DBPath)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.file_path", cfg.Logging.FilePath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := writeTemplateConfig(configDir); err != nil {
				return nil, fmt.Errorf("writing template config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("reading advisor.toml: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling advisor.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AGRI_ADVISOR_DB"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("AGRI_ADVISOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.MinGainPercent < 0 {
		return fmt.Errorf("engine.min_gain_percent must be non-negative")
	}
	if c.Engine.YieldWeight < 0 || c.Engine.PriceWeight < 0 {
		return fmt.Errorf("confidence weights must be non-negative")
	}
	sum := c.Engine.YieldWeight + c.Engine.PriceWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("confidence weights must sum to 1.0, got %.3f", sum)
	}
	if c.Engine.StorageCostPercent < 0 || c.Engine.StorageCostPercent > 100 {
		return fmt.Errorf("engine.storage_cost_percent must be between 0 and 100")
	}
	if c.Estimator.ModelConfidence < 0 || c.Estimator.ModelConfidence > 1 {
		return fmt.Errorf("estimator.model_confidence must be between 0 and 1")
	}
	if c.Estimator.FallbackConfidence < 0 || c.Estimator.FallbackConfidence > 1 {
		return fmt.Errorf("estimator.fallback_confidence must be between 0 and 1")
	}
	if c.Estimator.NoMarketDataFloor < 0 || c.Estimator.NoMarketDataFloor > 1 {
		return fmt.Errorf("estimator.no_market_data_floor must be between 0 and 1")
	}

	for _, crop := range models.SupportedCrops {
		profile, ok := c.Crops[crop]
		if !ok {
			return fmt.Errorf("missing crop profile for %s", crop)
		}
		if profile.YieldPerAcre <= 0 {
			return fmt.Errorf("crop %s: yield_per_acre must be positive", crop)
		}
		for _, band := range []Band{profile.OptimalTempC, profile.OptimalRainMM, profile.OptimalHumidity} {
			if band.Low > band.High {
				return fmt.Errorf("crop %s: optimal band low exceeds high", crop)
			}
		}
		if len(profile.PeakMonths) == 0 {
			return fmt.Errorf("crop %s: at least one peak month required", crop)
		}
		for _, m := range profile.PeakMonths {
			if m < 1 || m > 12 {
				return fmt.Errorf("crop %s: peak month %d out of range", crop, m)
			}
		}
		if profile.UpliftFraction < 0 {
			return fmt.Errorf("crop %s: uplift_fraction must be non-negative", crop)
		}
	}

	return nil
}

func writeTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "advisor.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	template := `# Agri Advisor configuration
# All values shown are the defaults.

[engine]
min_gain_percent = 5.0
yield_weight = 0.55
price_weight = 0.45
storage_cost_percent = 5.0

[estimator]
model_confidence = 0.85
fallback_confidence = 0.60
clamp_penalty = 0.05
no_market_data_floor = 0.30
uplift_decay_per_month = 0.05
uplift_decay_floor = 0.60

[storage]
# db_path = "/path/to/advisor.db"

[logging]
level = "info"
console = true
file = true
# file_path = "/path/to/advisor.log"
`
	return os.WriteFile(path, []byte(template), 0644)
}

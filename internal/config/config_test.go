package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-advisor/internal/models"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5.0, cfg.Engine.MinGainPercent)
	assert.Equal(t, 0.55, cfg.Engine.YieldWeight)
	assert.Equal(t, 0.45, cfg.Engine.PriceWeight)
	assert.Len(t, cfg.Crops, len(models.SupportedCrops))
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative min gain", func(c *Config) { c.Engine.MinGainPercent = -1 }},
		{"weights do not sum to one", func(c *Config) { c.Engine.YieldWeight = 0.9 }},
		{"negative weight", func(c *Config) { c.Engine.YieldWeight = -0.1; c.Engine.PriceWeight = 1.1 }},
		{"storage cost over 100", func(c *Config) { c.Engine.StorageCostPercent = 150 }},
		{"model confidence over 1", func(c *Config) { c.Estimator.ModelConfidence = 1.5 }},
		{"missing crop profile", func(c *Config) { delete(c.Crops, models.CropPaddy) }},
		{"zero yield per acre", func(c *Config) {
			p := c.Crops[models.CropPaddy]
			p.YieldPerAcre = 0
			c.Crops[models.CropPaddy] = p
		}},
		{"inverted band", func(c *Config) {
			p := c.Crops[models.CropPaddy]
			p.OptimalTempC = Band{35, 25}
			c.Crops[models.CropPaddy] = p
		}},
		{"no peak months", func(c *Config) {
			p := c.Crops[models.CropPaddy]
			p.PeakMonths = nil
			c.Crops[models.CropPaddy] = p
		}},
		{"peak month out of range", func(c *Config) {
			p := c.Crops[models.CropPaddy]
			p.PeakMonths = []int{13}
			c.Crops[models.CropPaddy] = p
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBandContains(t *testing.T) {
	band := Band{Low: 25, High: 35}
	assert.True(t, band.Contains(25))
	assert.True(t, band.Contains(35))
	assert.True(t, band.Contains(30))
	assert.False(t, band.Contains(24.9))
	assert.False(t, band.Contains(35.1))
}

func TestLoadWritesTemplateAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	// First load writes the commented template for later editing.
	assert.FileExists(t, filepath.Join(dir, "advisor.toml"))
	assert.Equal(t, Default().Engine, cfg.Engine)
	assert.Equal(t, Default().Estimator, cfg.Estimator)

	// Second load reads the template back without error.
	cfg2, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Engine, cfg2.Engine)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGRI_ADVISOR_DB", "/tmp/override.db")
	t.Setenv("AGRI_ADVISOR_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.Storage.DBPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestDiseaseCatalogFallback(t *testing.T) {
	catalog := DefaultDiseaseCatalog()

	paddy := catalog.ForCrop(models.CropPaddy)
	assert.Contains(t, paddy, "blast")

	// Okra has no dedicated entry and falls back to the generic catalog.
	okra := catalog.ForCrop(models.CropOkra)
	assert.Contains(t, okra, "fungal_infection")
}

func TestSeverityLossFractions(t *testing.T) {
	assert.Equal(t, 0.0, SeverityLossFractions[models.SeverityNone])
	assert.Equal(t, 0.05, SeverityLossFractions[models.SeverityLow])
	assert.Equal(t, 0.15, SeverityLossFractions[models.SeverityMedium])
	assert.Equal(t, 0.30, SeverityLossFractions[models.SeverityHigh])
}

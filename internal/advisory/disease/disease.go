// Package disease produces disease assessments for crop submissions.
//
// The full image-classification path lives behind the Model interface; the
// catalog estimator here is the rule-based fallback and defines the output
// contract the rest of the pipeline consumes.
package disease

import (
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"

	"agri-advisor/internal/config"
	apperrors "agri-advisor/internal/errors"
	"agri-advisor/internal/models"
)

// Model is a trained disease classifier. Implementations classify a decoded
// leaf image into a cataloged disease name.
type Model interface {
	Classify(imagePath string, crop models.Crop) (diseaseName string, err error)
}

// Estimator assesses disease presence and severity for a submission.
type Estimator interface {
	// Assess returns an assessment for the crop given an optional leaf image
	// path ("" means no image). A corrupt image yields a zero assessment and
	// an error wrapping errors.ErrImageDecode; callers treat that as
	// equivalent to "no image supplied" and continue.
	Assess(crop models.Crop, imagePath string) (models.DiseaseAssessment, error)
}

// CatalogEstimator is the catalog-backed estimator. Without a trained model
// it can only report a conservative low-severity finding for a readable
// image; with one it maps the classified disease through the catalog.
type CatalogEstimator struct {
	catalog config.DiseaseCatalog
	cfg     config.EstimatorConfig
	model   Model // nil means fallback only
	logger  zerolog.Logger
}

// NewCatalogEstimator creates a catalog-backed estimator without a trained model.
func NewCatalogEstimator(catalog config.DiseaseCatalog, cfg config.EstimatorConfig, logger zerolog.Logger) *CatalogEstimator {
	return &CatalogEstimator{catalog: catalog, cfg: cfg, logger: logger}
}

// NewCatalogEstimatorWithModel creates an estimator that consults a trained
// classifier and falls back to the catalog rules when it fails.
func NewCatalogEstimatorWithModel(catalog config.DiseaseCatalog, cfg config.EstimatorConfig, model Model, logger zerolog.Logger) *CatalogEstimator {
	return &CatalogEstimator{catalog: catalog, cfg: cfg, model: model, logger: logger}
}

// Assess implements Estimator.
func (e *CatalogEstimator) Assess(crop models.Crop, imagePath string) (models.DiseaseAssessment, error) {
	if imagePath == "" {
		return e.noImageAssessment(), nil
	}

	if err := decodeCheck(imagePath); err != nil {
		e.logger.Warn().Str("crop", string(crop)).Str("image", imagePath).Err(err).
			Msg("Image unreadable, assessing without it")
		return e.noImageAssessment(), apperrors.Wrap(apperrors.ErrImageDecode, imagePath)
	}

	if e.model != nil {
		name, err := e.model.Classify(imagePath, crop)
		if err == nil {
			assessment := e.FromDiseaseName(crop, name)
			assessment.Confidence = e.cfg.ModelConfidence
			assessment.Method = models.MethodModel
			return assessment, nil
		}
		e.logger.Warn().Str("crop", string(crop)).Err(err).
			Msg("Disease model failed, using catalog fallback")
	}

	// Rule-based path: a readable image without a classifier supports only a
	// conservative finding.
	return models.DiseaseAssessment{
		DiseaseName:       "unclassified",
		Severity:          models.SeverityLow,
		YieldLossFraction: config.SeverityLossFractions[models.SeverityLow],
		Confidence:        e.cfg.FallbackConfidence,
		Method:            models.MethodFallback,
	}, nil
}

// FromDiseaseName builds an assessment from a cataloged disease name. An
// unknown name maps to a medium-severity generic finding.
func (e *CatalogEstimator) FromDiseaseName(crop models.Crop, name string) models.DiseaseAssessment {
	diseases := e.catalog.ForCrop(crop)
	info, ok := diseases[name]
	if !ok {
		info = config.DiseaseInfo{Severity: models.SeverityMedium, LossFraction: config.SeverityLossFractions[models.SeverityMedium]}
	}
	if info.Severity == models.SeverityNone {
		return e.healthyAssessment()
	}
	return models.DiseaseAssessment{
		DiseaseName:       name,
		Severity:          info.Severity,
		YieldLossFraction: info.LossFraction,
		Confidence:        e.cfg.FallbackConfidence,
		Method:            models.MethodFallback,
	}
}

// FromSeverity builds an assessment from a reported severity tier alone,
// using the fixed tier-to-loss mapping.
func (e *CatalogEstimator) FromSeverity(severity models.Severity) models.DiseaseAssessment {
	loss, ok := config.SeverityLossFractions[severity]
	if !ok {
		severity = models.SeverityNone
		loss = 0
	}
	if severity == models.SeverityNone {
		return e.healthyAssessment()
	}
	return models.DiseaseAssessment{
		DiseaseName:       "reported",
		Severity:          severity,
		YieldLossFraction: loss,
		Confidence:        e.cfg.FallbackConfidence,
		Method:            models.MethodFallback,
	}
}

func (e *CatalogEstimator) noImageAssessment() models.DiseaseAssessment {
	return models.DiseaseAssessment{
		Severity:          models.SeverityNone,
		YieldLossFraction: 0,
		Confidence:        e.cfg.FallbackConfidence,
		Method:            models.MethodFallback,
	}
}

func (e *CatalogEstimator) healthyAssessment() models.DiseaseAssessment {
	return models.DiseaseAssessment{
		DiseaseName:       "healthy",
		Severity:          models.SeverityNone,
		YieldLossFraction: 0,
		Confidence:        e.cfg.FallbackConfidence,
		Method:            models.MethodFallback,
	}
}

// decodeCheck verifies the file holds a decodable image header.
func decodeCheck(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _, err = image.DecodeConfig(f)
	return err
}

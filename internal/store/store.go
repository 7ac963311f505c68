// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"agri-advisor/internal/models"
)

// DataStore defines the interface for advisory record persistence. The
// decision engine never touches this; the caller persists finished records.
type DataStore interface {
	SaveRecord(ctx context.Context, record *models.AdvisoryRecord) error
	GetRecord(ctx context.Context, id string) (*models.AdvisoryRecord, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]models.AdvisoryRecord, error)

	Close() error
}

// RecordFilter represents filters for querying advisory records.
type RecordFilter struct {
	Crop      models.Crop
	Action    models.Action
	Mandal    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}

package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	apperrors "agri-advisor/internal/errors"
	"agri-advisor/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(id string, createdAt time.Time) *models.AdvisoryRecord {
	return &models.AdvisoryRecord{
		ID:        id,
		CreatedAt: createdAt,
		Farmer: models.FarmerContext{
			Crop:           models.CropPaddy,
			LandAcres:      3,
			HasColdStorage: true,
			Mandal:         "Gudivada",
			Village:        "Angaluru",
		},
		Disease: models.DiseaseAssessment{
			DiseaseName:       "blast",
			Severity:          models.SeverityHigh,
			YieldLossFraction: 0.30,
			Confidence:        0.60,
			Method:            models.MethodFallback,
		},
		Yield: models.YieldEstimate{
			PredictedQuintals:   58.6,
			BaseQuintals:        75,
			WeatherFactor:       1.1167,
			DiseaseLossQuintals: 25.1,
			Confidence:          0.60,
			Method:              models.MethodFallback,
		},
		Price: models.PriceForecast{
			CurrentPrice:       2150,
			PredictedPeakPrice: 2392,
			PeakDate:           createdAt.AddDate(0, 5, 0),
			MonthsToPeak:       5,
			Confidence:         0.60,
			Method:             models.MethodFallback,
		},
		Recommendation: models.Recommendation{
			Action:             models.ActionStore,
			Reason:             "Storing for the seasonal peak",
			ConfidenceScore:    60,
			CurrentTotalValue:  125990,
			FutureTotalValue:   140171,
			ProfitDelta:        14181,
			ProfitPercentage:   11.25,
			StorageCostEst:     6299.5,
			NetProfitAfterCost: 7881.5,
			BreakEvenPrice:     2257.5,
			DaysToPeak:         153,
		},
		YieldReduction: 21.87,
	}
}

func TestSaveAndGetRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	record := sampleRecord("ADV-1", createdAt)

	if err := store.SaveRecord(ctx, record); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}

	got, err := store.GetRecord(ctx, "ADV-1")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}

	if got.ID != record.ID {
		t.Errorf("Expected ID %s, got %s", record.ID, got.ID)
	}
	if got.Farmer.Crop != record.Farmer.Crop {
		t.Errorf("Expected crop %s, got %s", record.Farmer.Crop, got.Farmer.Crop)
	}
	if got.Farmer.HasColdStorage != record.Farmer.HasColdStorage {
		t.Errorf("Cold storage flag lost in round trip")
	}
	if got.Disease.DiseaseName != record.Disease.DiseaseName {
		t.Errorf("Expected disease %s, got %s", record.Disease.DiseaseName, got.Disease.DiseaseName)
	}
	if got.Yield.PredictedQuintals != record.Yield.PredictedQuintals {
		t.Errorf("Expected yield %f, got %f", record.Yield.PredictedQuintals, got.Yield.PredictedQuintals)
	}
	if got.Recommendation.Action != record.Recommendation.Action {
		t.Errorf("Expected action %s, got %s", record.Recommendation.Action, got.Recommendation.Action)
	}
	if got.Recommendation.NetProfitAfterCost != record.Recommendation.NetProfitAfterCost {
		t.Errorf("Expected net profit %f, got %f", record.Recommendation.NetProfitAfterCost, got.Recommendation.NetProfitAfterCost)
	}
	if got.YieldReduction != record.YieldReduction {
		t.Errorf("Expected yield reduction %f, got %f", record.YieldReduction, got.YieldReduction)
	}
}

func TestGetRecordNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRecord(context.Background(), "ADV-missing")
	if !apperrors.Is(err, apperrors.ErrRecordNotFound) {
		t.Fatalf("Expected ErrRecordNotFound, got %v", err)
	}
}

func TestSaveRecordIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	record := sampleRecord("ADV-1", createdAt)

	if err := store.SaveRecord(ctx, record); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	record.Recommendation.Action = models.ActionSellNow
	if err := store.SaveRecord(ctx, record); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	records, err := store.ListRecords(ctx, RecordFilter{})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record after re-save, got %d", len(records))
	}
	if records[0].Recommendation.Action != models.ActionSellNow {
		t.Errorf("Expected updated action, got %s", records[0].Recommendation.Action)
	}
}

func TestListRecordsFiltersAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		record := sampleRecord(fmt.Sprintf("ADV-%d", i), base.AddDate(0, 0, i))
		if i%2 == 1 {
			record.Farmer.Crop = models.CropMango
			record.Recommendation.Action = models.ActionSellNow
			record.Farmer.Mandal = "Machilipatnam"
		}
		if err := store.SaveRecord(ctx, record); err != nil {
			t.Fatalf("SaveRecord failed: %v", err)
		}
	}

	records, err := store.ListRecords(ctx, RecordFilter{})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("Expected 5 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Errorf("Records not ordered newest first at index %d", i)
		}
	}

	paddy, err := store.ListRecords(ctx, RecordFilter{Crop: models.CropPaddy})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(paddy) != 3 {
		t.Errorf("Expected 3 paddy records, got %d", len(paddy))
	}

	sells, err := store.ListRecords(ctx, RecordFilter{Action: models.ActionSellNow})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(sells) != 2 {
		t.Errorf("Expected 2 SELL_NOW records, got %d", len(sells))
	}

	mandal, err := store.ListRecords(ctx, RecordFilter{Mandal: "Machilipatnam"})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(mandal) != 2 {
		t.Errorf("Expected 2 Machilipatnam records, got %d", len(mandal))
	}

	limited, err := store.ListRecords(ctx, RecordFilter{Limit: 2})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 records with limit, got %d", len(limited))
	}

	windowed, err := store.ListRecords(ctx, RecordFilter{
		StartDate: base.AddDate(0, 0, 1),
		EndDate:   base.AddDate(0, 0, 3),
	})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(windowed) != 3 {
		t.Errorf("Expected 3 records in date window, got %d", len(windowed))
	}
}

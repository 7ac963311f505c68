package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "agri-advisor/internal/errors"
	"agri-advisor/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes. Recommendation fields
// are stored verbatim as produced by the engine.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS advisory_records (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		crop TEXT NOT NULL,
		land_acres REAL NOT NULL,
		has_cold_storage INTEGER NOT NULL,
		urgent_cash_need INTEGER NOT NULL,
		mandal TEXT,
		village TEXT,
		disease_name TEXT,
		disease_severity TEXT NOT NULL,
		yield_loss_fraction REAL NOT NULL,
		disease_confidence REAL NOT NULL,
		disease_method TEXT NOT NULL,
		predicted_quintals REAL NOT NULL,
		base_quintals REAL NOT NULL,
		weather_factor REAL NOT NULL,
		disease_loss_quintals REAL NOT NULL,
		yield_confidence REAL NOT NULL,
		yield_method TEXT NOT NULL,
		yield_reduction REAL NOT NULL,
		current_price REAL NOT NULL,
		predicted_peak_price REAL NOT NULL,
		peak_date DATETIME NOT NULL,
		months_to_peak INTEGER NOT NULL,
		price_confidence REAL NOT NULL,
		price_method TEXT NOT NULL,
		action TEXT NOT NULL,
		reason TEXT NOT NULL,
		confidence_score REAL NOT NULL,
		current_total_value REAL NOT NULL,
		future_total_value REAL NOT NULL,
		profit_delta REAL NOT NULL,
		profit_percentage REAL NOT NULL,
		storage_cost_est REAL NOT NULL,
		net_profit_after_cost REAL NOT NULL,
		break_even_price REAL NOT NULL,
		days_to_peak INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_crop ON advisory_records(crop);
	CREATE INDEX IF NOT EXISTS idx_records_created ON advisory_records(created_at);
	CREATE INDEX IF NOT EXISTS idx_records_action ON advisory_records(action);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRecord inserts or replaces one advisory record.
func (s *SQLiteStore) SaveRecord(ctx context.Context, record *models.AdvisoryRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO advisory_records (
			id, created_at, crop, land_acres, has_cold_storage, urgent_cash_need, mandal, village,
			disease_name, disease_severity, yield_loss_fraction, disease_confidence, disease_method,
			predicted_quintals, base_quintals, weather_factor, disease_loss_quintals, yield_confidence, yield_method, yield_reduction,
			current_price, predicted_peak_price, peak_date, months_to_peak, price_confidence, price_method,
			action, reason, confidence_score, current_total_value, future_total_value, profit_delta, profit_percentage,
			storage_cost_est, net_profit_after_cost, break_even_price, days_to_peak
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID, record.CreatedAt, record.Farmer.Crop, record.Farmer.LandAcres,
		boolToInt(record.Farmer.HasColdStorage), boolToInt(record.Farmer.UrgentCashNeed),
		record.Farmer.Mandal, record.Farmer.Village,
		record.Disease.DiseaseName, record.Disease.Severity, record.Disease.YieldLossFraction,
		record.Disease.Confidence, record.Disease.Method,
		record.Yield.PredictedQuintals, record.Yield.BaseQuintals, record.Yield.WeatherFactor,
		record.Yield.DiseaseLossQuintals, record.Yield.Confidence, record.Yield.Method, record.YieldReduction,
		record.Price.CurrentPrice, record.Price.PredictedPeakPrice, record.Price.PeakDate,
		record.Price.MonthsToPeak, record.Price.Confidence, record.Price.Method,
		record.Recommendation.Action, record.Recommendation.Reason, record.Recommendation.ConfidenceScore,
		record.Recommendation.CurrentTotalValue, record.Recommendation.FutureTotalValue,
		record.Recommendation.ProfitDelta, record.Recommendation.ProfitPercentage,
		record.Recommendation.StorageCostEst, record.Recommendation.NetProfitAfterCost,
		record.Recommendation.BreakEvenPrice, record.Recommendation.DaysToPeak,
	)
	if err != nil {
		return fmt.Errorf("failed to save advisory record: %w", err)
	}
	return nil
}

// GetRecord retrieves one advisory record by ID.
func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*models.AdvisoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords+" WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrRecordNotFound
	}

	record, err := scanRecord(rows)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListRecords retrieves advisory records matching the filter, newest first.
func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]models.AdvisoryRecord, error) {
	query := selectRecords + " WHERE 1=1"
	args := []interface{}{}

	if filter.Crop != "" {
		query += " AND crop = ?"
		args = append(args, filter.Crop)
	}
	if filter.Action != "" {
		query += " AND action = ?"
		args = append(args, filter.Action)
	}
	if filter.Mandal != "" {
		query += " AND mandal = ?"
		args = append(args, filter.Mandal)
	}
	if !filter.StartDate.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.AdvisoryRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

const selectRecords = `SELECT
	id, created_at, crop, land_acres, has_cold_storage, urgent_cash_need, mandal, village,
	disease_name, disease_severity, yield_loss_fraction, disease_confidence, disease_method,
	predicted_quintals, base_quintals, weather_factor, disease_loss_quintals, yield_confidence, yield_method, yield_reduction,
	current_price, predicted_peak_price, peak_date, months_to_peak, price_confidence, price_method,
	action, reason, confidence_score, current_total_value, future_total_value, profit_delta, profit_percentage,
	storage_cost_est, net_profit_after_cost, break_even_price, days_to_peak
	FROM advisory_records`

func scanRecord(rows *sql.Rows) (models.AdvisoryRecord, error) {
	var r models.AdvisoryRecord
	var coldStorage, urgentCash int

	err := rows.Scan(
		&r.ID, &r.CreatedAt, &r.Farmer.Crop, &r.Farmer.LandAcres, &coldStorage, &urgentCash,
		&r.Farmer.Mandal, &r.Farmer.Village,
		&r.Disease.DiseaseName, &r.Disease.Severity, &r.Disease.YieldLossFraction,
		&r.Disease.Confidence, &r.Disease.Method,
		&r.Yield.PredictedQuintals, &r.Yield.BaseQuintals, &r.Yield.WeatherFactor,
		&r.Yield.DiseaseLossQuintals, &r.Yield.Confidence, &r.Yield.Method, &r.YieldReduction,
		&r.Price.CurrentPrice, &r.Price.PredictedPeakPrice, &r.Price.PeakDate,
		&r.Price.MonthsToPeak, &r.Price.Confidence, &r.Price.Method,
		&r.Recommendation.Action, &r.Recommendation.Reason, &r.Recommendation.ConfidenceScore,
		&r.Recommendation.CurrentTotalValue, &r.Recommendation.FutureTotalValue,
		&r.Recommendation.ProfitDelta, &r.Recommendation.ProfitPercentage,
		&r.Recommendation.StorageCostEst, &r.Recommendation.NetProfitAfterCost,
		&r.Recommendation.BreakEvenPrice, &r.Recommendation.DaysToPeak,
	)
	if err != nil {
		return models.AdvisoryRecord{}, fmt.Errorf("failed to scan record: %w", err)
	}

	r.Farmer.HasColdStorage = coldStorage == 1
	r.Farmer.UrgentCashNeed = urgentCash == 1
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

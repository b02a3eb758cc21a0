// Package storage keeps station metadata and the price history of the
// followed stations in a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/patrickmn/go-cache"
	"github.com/rubiojr/prixcarburant/internal/carburant"
	"github.com/rubiojr/prixcarburant/pkg/api"
)

const (
	defaultCacheExpirationMinutes      = 10
	defaultCacheCleanupMinutes         = 30
	defaultReducePrecisionDecimalPlace = 2
	defaultCacheSize                   = -1024 * 1024 // negative value for pages
	defaultPageSize                    = 4096
	deleteBatchSize                    = 1000
	deleteRecordsPause                 = 50 * time.Millisecond
	decimalBase                        = 10
	timeLayout                         = time.RFC3339
)

type Storage struct {
	db    *sql.DB
	cache *cache.Cache
	log   *slog.Logger
}

// PricePoint is one recorded price of a fuel at a station.
type PricePoint struct {
	Price       float64   `json:"price"`
	UpdatedDate string    `json:"updated_date"`
	RecordedAt  time.Time `json:"recorded_at"`
}

func NewStorage(ctx context.Context, dbPath string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db, err := sql.Open("sqlite3", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := configureSQLitePragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return &Storage{
		db:    db,
		cache: cache.New(defaultCacheExpirationMinutes*time.Minute, defaultCacheCleanupMinutes*time.Minute),
		log:   logger,
	}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS stations (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT,
		address TEXT,
		postal_code TEXT,
		city TEXT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		distance REAL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS fuel_prices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		station_id INTEGER NOT NULL,
		fuel TEXT NOT NULL,
		price REAL NOT NULL,
		updated_date TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		UNIQUE(station_id, fuel, updated_date)
	);
	CREATE INDEX IF NOT EXISTS idx_fuel_prices_station_fuel ON fuel_prices(station_id, fuel);
	CREATE INDEX IF NOT EXISTS idx_fuel_prices_recorded_at ON fuel_prices(recorded_at);

	CREATE TABLE IF NOT EXISTS location_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		distance REAL NOT NULL,
		search_count INTEGER NOT NULL DEFAULT 1,
		search_time TEXT NOT NULL,
		last_search TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_location_logs_coordinates ON location_logs (latitude, longitude);
	`

	_, err := db.ExecContext(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}
	return nil
}

func configureSQLitePragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 10000;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA auto_vacuum = INCREMENTAL;",
		"PRAGMA synchronous = NORMAL;",
		fmt.Sprintf("PRAGMA cache_size = %d;", defaultCacheSize),
		fmt.Sprintf("PRAGMA page_size = %d;", defaultPageSize),
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("error setting %q: %w", p, err)
		}
	}
	return nil
}

func (s *Storage) Close() error {
	if s.cache != nil {
		s.cache.Flush()
	}
	return s.db.Close()
}

// SaveStations stores the station metadata and every fuel price not seen
// before. Prices already recorded with the same update date are ignored.
func (s *Storage) SaveStations(ctx context.Context, stations map[int64]*carburant.Station, now time.Time) error {
	recordedAt := now.UTC().Format(timeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Error("Rollback failed", "error", err)
		}
	}()

	stationStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO stations (
			id, name, brand, address, postal_code, city, latitude, longitude, distance, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stationStmt.Close()

	priceStmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO fuel_prices (station_id, fuel, price, updated_date, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer priceStmt.Close()

	inserted := int64(0)
	for _, st := range stations {
		var distance any
		if st.Distance != nil {
			distance = *st.Distance
		}
		if _, err := stationStmt.ExecContext(ctx,
			st.ID, st.Name, st.Brand, st.Address, st.PostalCode, st.City,
			st.Latitude, st.Longitude, distance, recordedAt,
		); err != nil {
			return fmt.Errorf("error inserting station %d: %w", st.ID, err)
		}

		for fuel, fp := range st.Fuels {
			res, err := priceStmt.ExecContext(ctx, st.ID, string(fuel), fp.Price, fp.UpdatedDate, recordedAt)
			if err != nil {
				return fmt.Errorf("error inserting %s price of station %d: %w", fuel, st.ID, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += n
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	s.cache.Flush()
	s.log.Debug("Stations saved", "stations", len(stations), "new_prices", inserted)
	return nil
}

// PriceHistory returns the recorded prices of a fuel at a station, oldest first.
func (s *Storage) PriceHistory(ctx context.Context, stationID int64, fuel api.FuelType) ([]PricePoint, error) {
	cacheKey := fmt.Sprintf("history_%d_%s", stationID, fuel)
	if cachedData, found := s.cache.Get(cacheKey); found {
		s.log.Debug("Using cached data", "key", cacheKey)
		return cachedData.([]PricePoint), nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT price, updated_date, recorded_at FROM fuel_prices
		WHERE station_id = ? AND fuel = ?
		ORDER BY updated_date ASC
	`, stationID, string(fuel))
	if err != nil {
		return nil, fmt.Errorf("error querying price history: %w", err)
	}
	defer rows.Close()

	var history []PricePoint
	for rows.Next() {
		var p PricePoint
		var recordedAt string
		if err := rows.Scan(&p.Price, &p.UpdatedDate, &recordedAt); err != nil {
			return nil, fmt.Errorf("error scanning price: %w", err)
		}
		p.RecordedAt, err = time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("error parsing date %s: %w", recordedAt, err)
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error: %w", err)
	}

	s.cache.Set(cacheKey, history, cache.DefaultExpiration)
	return history, nil
}

// LastUpdate returns when stations were last saved, or nil for an empty database.
func (s *Storage) LastUpdate(ctx context.Context) (*time.Time, error) {
	var updatedAt sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT MAX(updated_at) FROM stations").Scan(&updatedAt)
	if err != nil {
		return nil, fmt.Errorf("error querying last update date: %w", err)
	}
	if !updatedAt.Valid {
		return nil, nil
	}

	lastUpdate, err := time.Parse(timeLayout, updatedAt.String)
	if err != nil {
		return nil, fmt.Errorf("error parsing date %s: %w", updatedAt.String, err)
	}
	return &lastUpdate, nil
}

// LogSearchLocation counts a nearest-station search. Locations are rounded to
// 2 decimals so that close searches share a row.
func (s *Storage) LogSearchLocation(ctx context.Context, latitude, longitude, distance float64) error {
	var id int64
	now := time.Now().UTC().Format(timeLayout)
	lat, lng := reduceLocationPrecision(latitude, longitude, defaultReducePrecisionDecimalPlace)

	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM location_logs WHERE latitude = ? AND longitude = ? LIMIT 1
	`, lat, lng).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("error checking for existing location: %w", err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO location_logs (latitude, longitude, distance, search_time, last_search)
			VALUES (?, ?, ?, ?, ?)
		`, lat, lng, distance, now, now)
		if err != nil {
			return fmt.Errorf("error logging search location: %w", err)
		}
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE location_logs
		SET search_count = search_count + 1, last_search = ?, distance = ?
		WHERE id = ?
	`, now, distance, id)
	if err != nil {
		return fmt.Errorf("error updating search location: %w", err)
	}
	return nil
}

// LocationLog represents a row in the location_logs table
type LocationLog struct {
	ID          int64     `json:"id"`
	Latitude    float64   `json:"lat"`
	Longitude   float64   `json:"lng"`
	Distance    float64   `json:"distance"`
	SearchCount int64     `json:"count"`
	SearchTime  time.Time `json:"first_search"`
	LastSearch  time.Time `json:"last_search"`
}

// GetLocationLogs returns the most searched locations first. A limit of 0
// returns every row.
func (s *Storage) GetLocationLogs(ctx context.Context, limit int) ([]LocationLog, error) {
	query := `SELECT id, latitude, longitude, distance, search_count, search_time, last_search
			  FROM location_logs
			  ORDER BY search_count DESC, id ASC `
	if limit > 0 {
		query += fmt.Sprintf("LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving location logs: %w", err)
	}
	defer rows.Close()

	var logs []LocationLog
	for rows.Next() {
		var entry LocationLog
		var searchTime, lastSearch string
		if err := rows.Scan(
			&entry.ID,
			&entry.Latitude,
			&entry.Longitude,
			&entry.Distance,
			&entry.SearchCount,
			&searchTime,
			&lastSearch,
		); err != nil {
			return nil, fmt.Errorf("error scanning location log: %w", err)
		}
		entry.SearchTime, _ = time.Parse(timeLayout, searchTime)
		entry.LastSearch, _ = time.Parse(timeLayout, lastSearch)
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return logs, nil
}

// DeleteOldRecords removes prices recorded more than daysOld days ago, in
// small batches to keep the write lock short.
func (s *Storage) DeleteOldRecords(ctx context.Context, daysOld int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysOld).Format(timeLayout)
	s.log.Info("Starting cleanup of old records", "cutoff_date", cutoff)

	var deleted int64
	for {
		res, err := s.db.ExecContext(ctx, `
			DELETE FROM fuel_prices WHERE id IN (
				SELECT id FROM fuel_prices WHERE recorded_at < ? ORDER BY id LIMIT ?
			)
		`, cutoff, deleteBatchSize)
		if err != nil {
			return deleted, fmt.Errorf("error deleting fuel_prices records: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return deleted, fmt.Errorf("error counting deleted records: %w", err)
		}
		deleted += n
		if n < deleteBatchSize {
			break
		}
		s.log.Debug("Deleted fuel_prices records", "count", deleted)
		select {
		case <-ctx.Done():
			s.cache.Flush()
			return deleted, ctx.Err()
		case <-time.After(deleteRecordsPause):
		}
	}

	s.cache.Flush()
	s.log.Info("Completed fuel_prices cleanup", "deleted_count", deleted)
	return deleted, nil
}

func (s *Storage) VacuumDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "PRAGMA incremental_vacuum(1000)")
	if err != nil {
		return fmt.Errorf("error performing incremental vacuum: %w", err)
	}
	return nil
}

func reduceLocationPrecision(lat, lng float64, decimalPlaces int) (roundedLat, roundedLng float64) {
	factor := math.Pow(decimalBase, float64(decimalPlaces))
	roundedLat = math.Round(lat*factor) / factor
	roundedLng = math.Round(lng*factor) / factor
	return
}

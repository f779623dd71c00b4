// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	mu        sync.RWMutex
	syncTimes map[string]time.Time
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:        db,
		syncTimes: make(map[string]time.Time),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := store.loadSyncTimes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load sync times: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Candles table for cached OHLCV data
	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, timeframe, timestamp)
	);

	-- Scan results journal
	CREATE TABLE IF NOT EXISTS scan_results (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		pattern TEXT NOT NULL,
		score REAL NOT NULL,
		status TEXT NOT NULL,
		pivot REAL NOT NULL,
		stop_loss REAL NOT NULL,
		target REAL NOT NULL,
		ai_score REAL,
		ai_verdict TEXT,
		chart_path TEXT,
		scanned_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Watchlists
	CREATE TABLE IF NOT EXISTS watchlist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		list_name TEXT NOT NULL DEFAULT 'default',
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, list_name)
	);

	-- Sync bookkeeping
	CREATE TABLE IF NOT EXISTS sync_times (
		data_type TEXT PRIMARY KEY,
		synced_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_candles_lookup ON candles(symbol, timeframe, timestamp);
	CREATE INDEX IF NOT EXISTS idx_scan_results_symbol ON scan_results(symbol, scanned_at);
	CREATE INDEX IF NOT EXISTS idx_scan_results_score ON scan_results(score);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) loadSyncTimes() error {
	rows, err := s.db.Query(`SELECT data_type, synced_at FROM sync_times`)
	if err != nil {
		return err
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var dataType string
		var at time.Time
		if err := rows.Scan(&dataType, &at); err != nil {
			return err
		}
		s.syncTimes[dataType] = at
	}
	return rows.Err()
}

// SaveCandles upserts a batch of candles for a symbol and timeframe.
func (s *SQLiteStore) SaveCandles(ctx context.Context, symbol string, timeframe models.Timeframe, candles []models.Candle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candles (symbol, timeframe, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, timeframe, timestamp) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx, symbol, string(timeframe), c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			return fmt.Errorf("failed to insert candle: %w", err)
		}
	}
	return tx.Commit()
}

// GetCandles returns candles for a symbol and timeframe ordered by timestamp.
// Zero from/to bounds are open-ended.
func (s *SQLiteStore) GetCandles(ctx context.Context, symbol string, timeframe models.Timeframe, from, to time.Time) ([]models.Candle, error) {
	query := `SELECT timestamp, open, high, low, close, volume FROM candles
		WHERE symbol = ? AND timeframe = ?`
	args := []interface{}{symbol, string(timeframe)}
	if !from.IsZero() {
		query += ` AND timestamp >= ?`
		args = append(args, from)
	}
	if !to.IsZero() {
		query += ` AND timestamp <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY timestamp ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, c)
	}
	return candles, rows.Err()
}

// GetCandlesFreshness returns when the newest cached candle for a symbol was
// written, or ErrDataNotFound when nothing is cached.
func (s *SQLiteStore) GetCandlesFreshness(ctx context.Context, symbol string, timeframe models.Timeframe) (time.Time, error) {
	var at sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(created_at) FROM candles WHERE symbol = ? AND timeframe = ?
	`, symbol, string(timeframe)).Scan(&at)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query freshness: %w", err)
	}
	if !at.Valid {
		return time.Time{}, errors.ErrDataNotFound
	}
	return at.Time, nil
}

// SaveScanRecord persists one scan match.
func (s *SQLiteStore) SaveScanRecord(ctx context.Context, rec *models.ScanRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO scan_results
			(id, symbol, pattern, score, status, pivot, stop_loss, target, ai_score, ai_verdict, chart_path, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Symbol, rec.Pattern, rec.Score, rec.Status, rec.Pivot, rec.StopLoss, rec.Target,
		rec.AIScore, rec.AIVerdict, rec.ChartPath, rec.ScannedAt)
	if err != nil {
		return fmt.Errorf("failed to save scan record: %w", err)
	}
	return nil
}

// GetScanRecords queries the scan journal with optional filters.
func (s *SQLiteStore) GetScanRecords(ctx context.Context, filter ScanFilter) ([]models.ScanRecord, error) {
	query := `SELECT id, symbol, pattern, score, status, pivot, stop_loss, target, ai_score, ai_verdict, chart_path, scanned_at
		FROM scan_results WHERE 1=1`
	var args []interface{}

	if filter.Symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, filter.Symbol)
	}
	if filter.Pattern != "" {
		query += ` AND pattern = ?`
		args = append(args, filter.Pattern)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.MinScore > 0 {
		query += ` AND score >= ?`
		args = append(args, filter.MinScore)
	}
	if !filter.StartDate.IsZero() {
		query += ` AND scanned_at >= ?`
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += ` AND scanned_at <= ?`
		args = append(args, filter.EndDate)
	}
	query += ` ORDER BY score DESC, scanned_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan records: %w", err)
	}
	defer rows.Close()

	var records []models.ScanRecord
	for rows.Next() {
		var rec models.ScanRecord
		var aiScore sql.NullFloat64
		var aiVerdict, chartPath sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Pattern, &rec.Score, &rec.Status,
			&rec.Pivot, &rec.StopLoss, &rec.Target, &aiScore, &aiVerdict, &chartPath, &rec.ScannedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if aiScore.Valid {
			v := aiScore.Float64
			rec.AIScore = &v
		}
		rec.AIVerdict = aiVerdict.String
		rec.ChartPath = chartPath.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpdateAIVerdict attaches an AI verdict to an existing scan record.
func (s *SQLiteStore) UpdateAIVerdict(ctx context.Context, id string, score float64, verdict string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE scan_results SET ai_score = ?, ai_verdict = ? WHERE id = ?
	`, score, verdict, id)
	if err != nil {
		return fmt.Errorf("failed to update ai verdict: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.ErrDataNotFound
	}
	return nil
}

// AddToWatchlist adds a symbol to a named watchlist.
func (s *SQLiteStore) AddToWatchlist(ctx context.Context, symbol, listName string) error {
	if listName == "" {
		listName = "default"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO watchlist (symbol, list_name) VALUES (?, ?)
	`, strings.ToUpper(symbol), listName)
	return err
}

// RemoveFromWatchlist removes a symbol from a named watchlist.
func (s *SQLiteStore) RemoveFromWatchlist(ctx context.Context, symbol, listName string) error {
	if listName == "" {
		listName = "default"
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM watchlist WHERE symbol = ? AND list_name = ?
	`, strings.ToUpper(symbol), listName)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.ErrSymbolNotFound
	}
	return nil
}

// GetWatchlist returns the symbols in a named watchlist.
func (s *SQLiteStore) GetWatchlist(ctx context.Context, listName string) ([]string, error) {
	if listName == "" {
		listName = "default"
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol FROM watchlist WHERE list_name = ? ORDER BY symbol
	`, listName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

// GetAllWatchlists returns every watchlist keyed by name.
func (s *SQLiteStore) GetAllWatchlists(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT list_name, symbol FROM watchlist ORDER BY list_name, symbol
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make(map[string][]string)
	for rows.Next() {
		var name, symbol string
		if err := rows.Scan(&name, &symbol); err != nil {
			return nil, err
		}
		lists[name] = append(lists[name], symbol)
	}
	return lists, rows.Err()
}

// GetLastSync returns the last recorded sync time for a data type.
func (s *SQLiteStore) GetLastSync(dataType string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncTimes[dataType]
}

// SetLastSync records a sync time for a data type.
func (s *SQLiteStore) SetLastSync(dataType string, t time.Time) error {
	s.mu.Lock()
	s.syncTimes[dataType] = t
	s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO sync_times (data_type, synced_at) VALUES (?, ?)
		ON CONFLICT(data_type) DO UPDATE SET synced_at = excluded.synced_at
	`, dataType, t)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

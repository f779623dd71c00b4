// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/vivekvjoshi/StockScanner/internal/models"
)

// DataStore defines the interface for scanner persistence.
type DataStore interface {
	// Candles
	SaveCandles(ctx context.Context, symbol string, timeframe models.Timeframe, candles []models.Candle) error
	GetCandles(ctx context.Context, symbol string, timeframe models.Timeframe, from, to time.Time) ([]models.Candle, error)
	GetCandlesFreshness(ctx context.Context, symbol string, timeframe models.Timeframe) (time.Time, error)

	// Scan results
	SaveScanRecord(ctx context.Context, rec *models.ScanRecord) error
	GetScanRecords(ctx context.Context, filter ScanFilter) ([]models.ScanRecord, error)
	UpdateAIVerdict(ctx context.Context, id string, score float64, verdict string) error

	// Watchlists
	AddToWatchlist(ctx context.Context, symbol, listName string) error
	RemoveFromWatchlist(ctx context.Context, symbol, listName string) error
	GetWatchlist(ctx context.Context, listName string) ([]string, error)
	GetAllWatchlists(ctx context.Context) (map[string][]string, error)

	// Sync
	GetLastSync(dataType string) time.Time
	SetLastSync(dataType string, t time.Time) error

	// Lifecycle
	Close() error
}

// ScanFilter represents filters for querying scan records.
type ScanFilter struct {
	Symbol    string
	Pattern   string
	Status    string
	MinScore  float64
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}

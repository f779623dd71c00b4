package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func makeCandles(start time.Time, n int) []models.Candle {
	candles := make([]models.Candle, n)
	for i := range candles {
		base := 100.0 + float64(i)
		candles[i] = models.Candle{
			Timestamp: start.Add(time.Duration(i) * 4 * time.Hour),
			Open:      base,
			High:      base + 2,
			Low:       base - 1,
			Close:     base + 1,
			Volume:    1000 + int64(i),
		}
	}
	return candles
}

func TestCandleRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	in := makeCandles(start, 5)
	if err := store.SaveCandles(ctx, "AAPL", models.TimeframeFourH, in); err != nil {
		t.Fatalf("SaveCandles: %v", err)
	}

	out, err := store.GetCandles(ctx, "AAPL", models.TimeframeFourH, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}
	if len(out) != 5 {
		t.Fatalf("len = %d, want 5", len(out))
	}
	for i := range in {
		if !out[i].Timestamp.Equal(in[i].Timestamp) || out[i].Close != in[i].Close || out[i].Volume != in[i].Volume {
			t.Errorf("candle %d = %+v, want %+v", i, out[i], in[i])
		}
	}

	// Other symbols and timeframes are isolated.
	other, err := store.GetCandles(ctx, "AAPL", models.TimeframeHourly, time.Time{}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("hourly candles = %d, want 0", len(other))
	}
}

func TestCandleUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	in := makeCandles(start, 3)
	if err := store.SaveCandles(ctx, "MSFT", models.TimeframeFourH, in); err != nil {
		t.Fatal(err)
	}

	// Rewriting the same timestamps must replace, not duplicate.
	in[1].Close = 555
	if err := store.SaveCandles(ctx, "MSFT", models.TimeframeFourH, in); err != nil {
		t.Fatal(err)
	}

	out, err := store.GetCandles(ctx, "MSFT", models.TimeframeFourH, time.Time{}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3 after upsert", len(out))
	}
	if out[1].Close != 555 {
		t.Errorf("Close = %v, want updated 555", out[1].Close)
	}
}

func TestCandleRangeQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	if err := store.SaveCandles(ctx, "NVDA", models.TimeframeFourH, makeCandles(start, 6)); err != nil {
		t.Fatal(err)
	}

	from := start.Add(4 * time.Hour)
	to := start.Add(12 * time.Hour)
	out, err := store.GetCandles(ctx, "NVDA", models.TimeframeFourH, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3 bars in [from, to]", len(out))
	}
	if !out[0].Timestamp.Equal(from) {
		t.Errorf("first = %v, want %v", out[0].Timestamp, from)
	}
}

func TestCandlesFreshness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetCandlesFreshness(ctx, "NONE", models.TimeframeFourH); !errors.Is(err, errors.ErrDataNotFound) {
		t.Errorf("error = %v, want ErrDataNotFound", err)
	}

	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	if err := store.SaveCandles(ctx, "AAPL", models.TimeframeFourH, makeCandles(start, 2)); err != nil {
		t.Fatal(err)
	}
	at, err := store.GetCandlesFreshness(ctx, "AAPL", models.TimeframeFourH)
	if err != nil {
		t.Fatalf("GetCandlesFreshness: %v", err)
	}
	if at.IsZero() {
		t.Error("freshness should be set after a save")
	}
}

func TestScanRecordLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	scannedAt := time.Date(2026, 1, 6, 12, 0, 0, 0, time.UTC)

	records := []*models.ScanRecord{
		{ID: "AAPL-cup-1", Symbol: "AAPL", Pattern: "Cup & Handle", Score: 88, Status: "Near Pivot", Pivot: 102, StopLoss: 97, Target: 129, ScannedAt: scannedAt},
		{ID: "MSFT-flag-1", Symbol: "MSFT", Pattern: "Bull Flag", Score: 72, Status: "Forming", Pivot: 121, StopLoss: 115, Target: 143, ScannedAt: scannedAt},
	}
	for _, rec := range records {
		if err := store.SaveScanRecord(ctx, rec); err != nil {
			t.Fatalf("SaveScanRecord: %v", err)
		}
	}

	got, err := store.GetScanRecords(ctx, ScanFilter{})
	if err != nil {
		t.Fatalf("GetScanRecords: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records = %d, want 2", len(got))
	}
	// Ordered by score descending.
	if got[0].Symbol != "AAPL" {
		t.Errorf("first record = %s, want AAPL", got[0].Symbol)
	}
	if got[0].AIScore != nil {
		t.Error("AIScore should be nil before a verdict is attached")
	}

	filtered, err := store.GetScanRecords(ctx, ScanFilter{MinScore: 80})
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].ID != "AAPL-cup-1" {
		t.Errorf("filtered = %+v, want just the high scorer", filtered)
	}

	if err := store.UpdateAIVerdict(ctx, "AAPL-cup-1", 90, "CONFIRM"); err != nil {
		t.Fatalf("UpdateAIVerdict: %v", err)
	}
	if err := store.UpdateAIVerdict(ctx, "missing-id", 50, "REJECT"); !errors.Is(err, errors.ErrDataNotFound) {
		t.Errorf("error = %v, want ErrDataNotFound for an unknown id", err)
	}

	updated, err := store.GetScanRecords(ctx, ScanFilter{Symbol: "AAPL"})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated) != 1 {
		t.Fatalf("records = %d, want 1", len(updated))
	}
	if updated[0].AIScore == nil || *updated[0].AIScore != 90 || updated[0].AIVerdict != "CONFIRM" {
		t.Errorf("verdict = %+v", updated[0])
	}
}

func TestWatchlist(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, symbol := range []string{"msft", "AAPL", "AAPL"} {
		if err := store.AddToWatchlist(ctx, symbol, ""); err != nil {
			t.Fatalf("AddToWatchlist: %v", err)
		}
	}
	if err := store.AddToWatchlist(ctx, "NVDA", "growth"); err != nil {
		t.Fatal(err)
	}

	symbols, err := store.GetWatchlist(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}
	// Symbols are upcased, de-duplicated and sorted.
	if len(symbols) != 2 || symbols[0] != "AAPL" || symbols[1] != "MSFT" {
		t.Errorf("default list = %v", symbols)
	}

	lists, err := store.GetAllWatchlists(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(lists) != 2 || len(lists["growth"]) != 1 {
		t.Errorf("lists = %v", lists)
	}

	if err := store.RemoveFromWatchlist(ctx, "AAPL", "default"); err != nil {
		t.Fatalf("RemoveFromWatchlist: %v", err)
	}
	if err := store.RemoveFromWatchlist(ctx, "AAPL", "default"); !errors.Is(err, errors.ErrSymbolNotFound) {
		t.Errorf("error = %v, want ErrSymbolNotFound", err)
	}
}

func TestSyncTimes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sync.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := store.GetLastSync("universe"); !got.IsZero() {
		t.Errorf("GetLastSync = %v, want zero before any sync", got)
	}

	at := time.Date(2026, 1, 6, 16, 0, 0, 0, time.UTC)
	if err := store.SetLastSync("universe", at); err != nil {
		t.Fatalf("SetLastSync: %v", err)
	}
	if got := store.GetLastSync("universe"); !got.Equal(at) {
		t.Errorf("GetLastSync = %v, want %v", got, at)
	}
	store.Close()

	// Sync times survive a reopen.
	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if got := reopened.GetLastSync("universe"); !got.Equal(at) {
		t.Errorf("GetLastSync after reopen = %v, want %v", got, at)
	}
}

// Package universe supplies the candidate symbols a scan runs over.
package universe

import (
	"context"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/internal/models"
	"github.com/vivekvjoshi/StockScanner/internal/store"
)

// Provider supplies candidate tickers for a scan.
type Provider interface {
	Name() string
	Tickers(ctx context.Context) ([]models.Ticker, error)
}

// Static is a fixed in-memory universe.
type Static struct {
	name    string
	tickers []models.Ticker
}

// NewStatic builds a universe from a symbol list.
func NewStatic(name string, symbols []string) *Static {
	tickers := make([]models.Ticker, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		tickers = append(tickers, models.Ticker{Symbol: s})
	}
	return &Static{name: name, tickers: tickers}
}

func (s *Static) Name() string { return s.name }

func (s *Static) Tickers(ctx context.Context) ([]models.Ticker, error) {
	if len(s.tickers) == 0 {
		return nil, errors.ErrSymbolNotFound
	}
	out := make([]models.Ticker, len(s.tickers))
	copy(out, s.tickers)
	return out, nil
}

// Watchlist reads the universe from a stored watchlist.
type Watchlist struct {
	store store.DataStore
	list  string
}

// NewWatchlist builds a universe backed by a named watchlist.
func NewWatchlist(ds store.DataStore, list string) *Watchlist {
	if list == "" {
		list = "default"
	}
	return &Watchlist{store: ds, list: list}
}

func (w *Watchlist) Name() string { return "watchlist:" + w.list }

func (w *Watchlist) Tickers(ctx context.Context) ([]models.Ticker, error) {
	symbols, err := w.store.GetWatchlist(ctx, w.list)
	if err != nil {
		return nil, errors.Wrap(err, "reading watchlist")
	}
	if len(symbols) == 0 {
		return nil, errors.ErrSymbolNotFound
	}
	tickers := make([]models.Ticker, len(symbols))
	for i, s := range symbols {
		tickers[i] = models.Ticker{Symbol: s}
	}
	return tickers, nil
}

type csvTicker struct {
	Symbol string `csv:"symbol"`
	Name   string `csv:"name"`
	Sector string `csv:"sector"`
}

// File reads the universe from a CSV file with a symbol,name,sector header.
type File struct {
	path string
}

// NewFile builds a universe backed by a ticker CSV file.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string { return "file:" + f.path }

func (f *File) Tickers(ctx context.Context) ([]models.Ticker, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", f.path)
	}
	defer fh.Close()

	var rows []*csvTicker
	if err := gocsv.UnmarshalFile(fh, &rows); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", f.path)
	}
	if len(rows) == 0 {
		return nil, errors.ErrSymbolNotFound
	}
	tickers := make([]models.Ticker, 0, len(rows))
	for _, r := range rows {
		symbol := strings.ToUpper(strings.TrimSpace(r.Symbol))
		if symbol == "" {
			continue
		}
		tickers = append(tickers, models.Ticker{Symbol: symbol, Name: r.Name, Sector: r.Sector})
	}
	return tickers, nil
}

// Symbols flattens a provider's tickers into symbols.
func Symbols(ctx context.Context, p Provider) ([]string, error) {
	tickers, err := p.Tickers(ctx)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, len(tickers))
	for i, t := range tickers {
		symbols[i] = t.Symbol
	}
	return symbols, nil
}

package universe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
)

func TestStatic(t *testing.T) {
	u := NewStatic("test", []string{" aapl ", "MSFT", "", "nvda"})
	symbols, err := Symbols(context.Background(), u)
	if err != nil {
		t.Fatalf("Symbols: %v", err)
	}
	want := []string{"AAPL", "MSFT", "NVDA"}
	if len(symbols) != len(want) {
		t.Fatalf("symbols = %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Errorf("symbols[%d] = %q, want %q", i, symbols[i], want[i])
		}
	}
}

func TestStaticEmpty(t *testing.T) {
	u := NewStatic("empty", nil)
	if _, err := u.Tickers(context.Background()); !errors.Is(err, errors.ErrSymbolNotFound) {
		t.Errorf("error = %v, want ErrSymbolNotFound", err)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.csv")
	content := "symbol,name,sector\naapl,Apple Inc.,Technology\nMSFT,Microsoft,Technology\n,,\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	u := NewFile(path)
	tickers, err := u.Tickers(context.Background())
	if err != nil {
		t.Fatalf("Tickers: %v", err)
	}
	if len(tickers) != 2 {
		t.Fatalf("tickers = %d, want 2 (blank row skipped)", len(tickers))
	}
	if tickers[0].Symbol != "AAPL" || tickers[0].Sector != "Technology" {
		t.Errorf("first ticker = %+v", tickers[0])
	}
}

func TestFileMissing(t *testing.T) {
	u := NewFile(filepath.Join(t.TempDir(), "nope.csv"))
	if _, err := u.Tickers(context.Background()); err == nil {
		t.Error("Tickers succeeded on a missing file")
	}
}

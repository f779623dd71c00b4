// Package chart produces reviewable artifacts for detected patterns. Plotting
// proper is an external collaborator; the in-repo renderer writes a JSON
// snapshot of the series and trade levels that downstream tooling (or the AI
// validator) can consume.
package chart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vivekvjoshi/StockScanner/internal/analysis"
	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/internal/models"
)

// Renderer produces an artifact for one detection, keyed by symbol and
// pattern, and returns its path.
type Renderer interface {
	Render(symbol string, candles []models.Candle, desc *analysis.Descriptor) (string, error)
}

// Snapshot is the JSON artifact the default renderer writes.
type Snapshot struct {
	Symbol    string          `json:"symbol"`
	Pattern   string          `json:"pattern"`
	Status    string          `json:"status"`
	Score     float64         `json:"score"`
	Pivot     float64         `json:"pivot"`
	StopLoss  float64         `json:"stop_loss"`
	Target    float64         `json:"target"`
	Candles   []snapshotBar   `json:"candles"`
	CreatedAt time.Time       `json:"created_at"`
	Geometry  json.RawMessage `json:"geometry,omitempty"`
}

type snapshotBar struct {
	Timestamp time.Time `json:"t"`
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    int64     `json:"v"`
}

// SnapshotRenderer writes JSON snapshots into a directory.
type SnapshotRenderer struct {
	dir string
}

// NewSnapshotRenderer builds a renderer writing into dir.
func NewSnapshotRenderer(dir string) *SnapshotRenderer {
	return &SnapshotRenderer{dir: dir}
}

// Render writes the snapshot and returns its path. The filename is keyed by
// symbol and pattern so a rescan overwrites the previous artifact.
func (r *SnapshotRenderer) Render(symbol string, candles []models.Candle, desc *analysis.Descriptor) (string, error) {
	if desc == nil {
		return "", errors.NewValidationError("descriptor", nil, "nothing to render")
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", errors.Wrap(err, "creating chart directory")
	}

	geom, err := json.Marshal(desc.Geometry)
	if err != nil {
		return "", errors.Wrap(err, "encoding geometry")
	}

	snap := Snapshot{
		Symbol:    symbol,
		Pattern:   string(desc.Kind),
		Status:    string(desc.Status),
		Score:     desc.Score,
		Pivot:     desc.Pivot,
		StopLoss:  desc.StopLoss,
		Target:    desc.Target,
		Candles:   make([]snapshotBar, len(candles)),
		CreatedAt: time.Now().UTC(),
		Geometry:  geom,
	}
	for i, c := range candles {
		snap.Candles[i] = snapshotBar{
			Timestamp: c.Timestamp,
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		}
	}

	path := filepath.Join(r.dir, artifactName(symbol, string(desc.Kind)))
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding snapshot")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(err, "writing snapshot")
	}
	return path, nil
}

func artifactName(symbol, pattern string) string {
	slug := strings.ToLower(pattern)
	slug = strings.NewReplacer(" ", "_", "&", "and", "/", "_").Replace(slug)
	slug = strings.ReplaceAll(slug, "__", "_")
	return fmt.Sprintf("%s_%s.json", strings.ToUpper(symbol), slug)
}

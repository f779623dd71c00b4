// Package models provides domain models for the pattern scanner.
package models

import (
	"time"
)

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Timeframe identifies a bar interval.
type Timeframe string

const (
	TimeframeHourly Timeframe = "1h"
	TimeframeFourH  Timeframe = "4h"
	TimeframeDaily  Timeframe = "1d"
)

// ScanRecord is a persisted record of one scan match.
type ScanRecord struct {
	ID        string
	Symbol    string
	Pattern   string
	Score     float64
	Status    string
	Pivot     float64
	StopLoss  float64
	Target    float64
	AIScore   *float64
	AIVerdict string
	ChartPath string
	ScannedAt time.Time
}

// Ticker describes one symbol in the scan universe.
type Ticker struct {
	Symbol string
	Name   string
	Sector string
}

package utils

import (
	"time"
)

// MarketStatus describes the current equity market session.
type MarketStatus string

const (
	MarketOpen    MarketStatus = "OPEN"
	MarketPreOpen MarketStatus = "PRE_OPEN"
	MarketClosed  MarketStatus = "CLOSED"
)

// NYLocation is the timezone for US equity markets.
var NYLocation *time.Location

func init() {
	var err error
	NYLocation, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback to UTC-5
		NYLocation = time.FixedZone("EST", -5*60*60)
	}
}

// GetMarketStatus returns the current market status.
func GetMarketStatus() MarketStatus {
	return MarketStatusAt(time.Now())
}

// MarketStatusAt returns the market status at a given instant. Holidays are
// not modeled; a holiday reads as a regular weekday.
func MarketStatusAt(t time.Time) MarketStatus {
	now := t.In(NYLocation)

	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return MarketClosed
	}

	timeMinutes := now.Hour()*60 + now.Minute()

	// Pre-open: 4:00 - 9:30
	if timeMinutes >= 240 && timeMinutes < 570 {
		return MarketPreOpen
	}

	// Regular session: 9:30 - 16:00
	if timeMinutes >= 570 && timeMinutes < 960 {
		return MarketOpen
	}

	return MarketClosed
}

// IsMarketOpen returns true if the regular session is in progress.
func IsMarketOpen() bool {
	return GetMarketStatus() == MarketOpen
}

// NextMarketOpen returns the next regular-session opening time.
func NextMarketOpen() time.Time {
	now := time.Now().In(NYLocation)

	next := time.Date(now.Year(), now.Month(), now.Day(), 9, 30, 0, 0, NYLocation)
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// MarketClose returns today's regular-session close time.
func MarketClose() time.Time {
	now := time.Now().In(NYLocation)
	return time.Date(now.Year(), now.Month(), now.Day(), 16, 0, 0, 0, NYLocation)
}

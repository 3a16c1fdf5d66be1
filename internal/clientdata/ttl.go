package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// Quarterly statements change a few times a year
	TTLStatement = 24 * time.Hour

	// Daily bars only move during the session
	TTLCandles = 5 * time.Minute

	// Quotes are near real time
	TTLQuote = 10 * time.Second
)

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSymbolNotFound is returned when a query matches no listed company.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrInvalidTimeframe is returned for chart timeframes other than
	// daily/weekly/monthly.
	ErrInvalidTimeframe = errors.New("invalid timeframe")

	// ErrAuthentication is returned when no access token could be obtained.
	ErrAuthentication = errors.New("upstream authentication failed")

	// ErrUpstream matches every *UpstreamError via errors.Is.
	ErrUpstream = errors.New("upstream error")
)

// UpstreamError describes a failed KIS call: a transport failure, a non-2xx
// HTTP status or an envelope whose rt_cd is not "0". StatusCode is 0 when no
// response was received.
type UpstreamError struct {
	TrID       string
	StatusCode int
	Code       string // msg_cd
	Message    string // msg1
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 && e.Err != nil {
		return fmt.Sprintf("upstream %s unreachable: %v", e.TrID, e.Err)
	}
	if e.Code != "" {
		return fmt.Sprintf("upstream %s failed (status %d, %s): %s", e.TrID, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("upstream %s failed (status %d): %s", e.TrID, e.StatusCode, e.Message)
}

// Is makes errors.Is(err, ErrUpstream) true for any UpstreamError.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

package contracts

import "fmt"

// Timeframe is the trading horizon a scan is run for. It parameterizes
// lookback windows, scoring weights and target-price guardrail bands.
type Timeframe string

const (
	TimeframeShort Timeframe = "short" // days
	TimeframeSwing Timeframe = "swing" // weeks to months
	TimeframeLong  Timeframe = "long"  // a year or more
)

// ParseTimeframe validates a timeframe string
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeShort, TimeframeSwing, TimeframeLong:
		return Timeframe(s), nil
	default:
		return "", fmt.Errorf("unknown timeframe %q", s)
	}
}

// LookbackParams holds the timeframe-dependent windows used by the
// history-only scorers. All windows are in trading days.
type LookbackParams struct {
	HistoryPeriod string // period string passed to the history provider
	MinBars       int    // series shorter than this are skipped
	FastMA        int
	SlowMA        int
	RSIPeriod     int
	VolumeShort   int
	VolumeLong    int
	MomentumDays  int // lookback window for the percentage return
	RecentDays    int // shorter window for the average daily return
}

// Lookback returns the lookback parameters for the timeframe
func (t Timeframe) Lookback() LookbackParams {
	switch t {
	case TimeframeShort:
		return LookbackParams{
			HistoryPeriod: "1mo",
			MinBars:       12,
			FastMA:        5,
			SlowMA:        10,
			RSIPeriod:     7,
			VolumeShort:   3,
			VolumeLong:    10,
			MomentumDays:  5,
			RecentDays:    3,
		}
	case TimeframeLong:
		return LookbackParams{
			HistoryPeriod: "5y",
			MinBars:       210,
			FastMA:        50,
			SlowMA:        200,
			RSIPeriod:     14,
			VolumeShort:   20,
			VolumeLong:    60,
			MomentumDays:  120,
			RecentDays:    20,
		}
	default: // swing
		return LookbackParams{
			HistoryPeriod: "6mo",
			MinBars:       45,
			FastMA:        10,
			SlowMA:        20,
			RSIPeriod:     14,
			VolumeShort:   5,
			VolumeLong:    20,
			MomentumDays:  20,
			RecentDays:    5,
		}
	}
}

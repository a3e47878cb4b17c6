package contracts

import "math"

// Sub-score maxima before timeframe weighting
const (
	MaxFinancialScore      = 40.0
	MaxMarketPositionScore = 30.0
	MaxTechnicalScore      = 20.0
	MaxMomentumScore       = 10.0
)

// ScoreBreakdown holds the four raw sub-scores, each bounded by its own
// maximum. It is an immutable value: each pipeline stage that changes a
// score builds a new breakdown instead of mutating a shared one.
type ScoreBreakdown struct {
	Financial      float64 `json:"financial"`
	MarketPosition float64 `json:"marketPosition"`
	Technical      float64 `json:"technical"`
	Momentum       float64 `json:"momentum"`
}

// Risk tiers
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// CandidatePick is the externally visible unit produced by one scan.
// Callers treat it as a value; it is never mutated after emission.
type CandidatePick struct {
	Ticker          string         `json:"ticker"`
	Score           float64        `json:"score"`
	CurrentPrice    float64        `json:"currentPrice"`
	TargetPrice     float64        `json:"targetPrice"`
	PotentialReturn float64        `json:"potentialReturn"`
	Confidence      int            `json:"confidence"`
	TimeHorizon     Timeframe      `json:"timeHorizon"`
	Reasoning       string         `json:"reasoning"`
	Signals         []string       `json:"signals"`
	RiskLevel       string         `json:"riskLevel"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
	Rank            int            `json:"rank"`
}

// ConfidenceFor derives the confidence value from a composite score
func ConfidenceFor(score float64) int {
	return int(math.Round(score))
}

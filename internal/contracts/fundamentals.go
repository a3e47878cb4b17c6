package contracts

import "time"

// SnapshotSource tags which provider produced a fundamentals snapshot.
// Scoring dispatches on this tag explicitly (growth figures are reported
// on different scales by the two providers).
type SnapshotSource string

const (
	SourcePrimary  SnapshotSource = "primary"
	SourceFallback SnapshotSource = "fallback"
)

// FundamentalsSnapshot is a bag of financial ratios for one ticker.
// Fallback snapshots carry the identical field set so downstream scoring
// is source-agnostic apart from the Source tag.
type FundamentalsSnapshot struct {
	Ticker        string         `json:"ticker"`
	Source        SnapshotSource `json:"source"`
	PE            float64        `json:"pe"`
	ROE           float64        `json:"roe"`           // percent
	ProfitMargin  float64        `json:"profitMargin"`  // percent
	RevenueGrowth float64        `json:"revenueGrowth"` // raw, scale depends on Source
	MarketCap     float64        `json:"marketCap"`     // USD
	Beta          float64        `json:"beta"`
	Week52High    float64        `json:"week52High"`
	Week52Low     float64        `json:"week52Low"`
	CurrentPrice  float64        `json:"currentPrice"`
	FetchedAt     time.Time      `json:"fetchedAt"`
}

// Market-cap tier boundaries in USD
const (
	MegaCap  = 200e9
	LargeCap = 10e9
	MidCap   = 2e9
	SmallCap = 300e6
)

package universe

import (
	"context"

	"github.com/oppscan/backend/internal/contracts"
)

// StaticProvider serves a built-in ticker universe. The core subset is the
// large-cap index constituents that sampling must always retain.
type StaticProvider struct {
	universe contracts.Universe
}

// NewStaticProvider creates a provider over the built-in lists
func NewStaticProvider() *StaticProvider {
	tickers := make([]string, 0, len(CoreTickers)+len(ExtendedTickers))
	seen := make(map[string]bool, len(CoreTickers)+len(ExtendedTickers))
	for _, t := range CoreTickers {
		if !seen[t] {
			tickers = append(tickers, t)
			seen[t] = true
		}
	}
	for _, t := range ExtendedTickers {
		if !seen[t] {
			tickers = append(tickers, t)
			seen[t] = true
		}
	}

	return &StaticProvider{
		universe: contracts.Universe{
			Tickers: tickers,
			Core:    CoreTickers,
		},
	}
}

// GetUniverse returns the full ordered universe with its core subset
func (p *StaticProvider) GetUniverse(ctx context.Context) (*contracts.Universe, error) {
	u := p.universe
	return &u, nil
}

// CoreTickers are the index-relevant large caps that are always scored
var CoreTickers = []string{
	// Technology
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "META", "TSLA", "AVGO", "ORCL",
	"CRM", "ADBE", "AMD", "ACN", "CSCO", "INTC", "IBM", "TXN", "QCOM", "AMAT",
	// Financials
	"BRK.B", "JPM", "V", "MA", "BAC", "WFC", "GS", "MS", "BLK", "SPGI",
	"AXP", "C", "SCHW", "CB", "MMC", "PGR", "AON", "ICE", "CME", "MCO",
	// Healthcare
	"UNH", "JNJ", "LLY", "PFE", "ABBV", "MRK", "TMO", "ABT", "DHR", "BMY",
	"AMGN", "MDT", "ISRG", "GILD", "CVS", "ELV", "SYK", "REGN", "VRTX", "ZTS",
	// Consumer
	"WMT", "PG", "KO", "PEP", "COST", "MCD", "NKE", "SBUX", "TGT", "LOW",
	"HD", "TJX", "BKNG", "MAR", "ORLY", "AZO", "ROST", "DG", "DLTR", "CMG",
	// Industrials
	"CAT", "DE", "UNP", "HON", "UPS", "BA", "RTX", "LMT", "GE", "MMM",
	// Energy
	"XOM", "CVX", "COP", "SLB", "EOG", "MPC", "PSX", "VLO", "OXY", "KMI",
	// Communications
	"NFLX", "DIS", "CMCSA", "T", "VZ", "TMUS", "CHTR", "EA", "TTWO", "WBD",
	// Real Estate & Utilities
	"AMT", "PLD", "CCI", "EQIX", "PSA", "NEE", "DUK", "SO", "D", "AEP",
}

// ExtendedTickers widens the universe beyond the core index names
var ExtendedTickers = []string{
	"ABNB", "ADI", "ADP", "ADSK", "ANSS", "ARM", "ASML", "AZN", "BIIB", "BKR",
	"CDNS", "CDW", "CEG", "CPRT", "CRWD", "CSGP", "CSX", "CTAS", "CTSH", "DDOG",
	"DXCM", "EXC", "FANG", "FAST", "FTNT", "GEHC", "GFS", "IDXX", "ILMN", "INTU",
	"KDP", "KHC", "KLAC", "LIN", "LRCX", "LULU", "MCHP", "MDB", "MDLZ", "MELI",
	"MNST", "MRNA", "MRVL", "MU", "NXPI", "ODFL", "ON", "PANW", "PAYX", "PCAR",
	"PDD", "PYPL", "ROP", "SMCI", "SNPS", "TEAM", "TTD", "VRSK", "WDAY", "XEL",
	"ZS", "SQ", "SHOP", "SNOW", "PLTR", "COIN", "RBLX", "UBER", "LYFT", "DASH",
	"F", "GM", "RIVN", "LCID", "NIO", "DKNG", "HOOD", "SOFI", "AFRM", "UPST",
	"ETSY", "PINS", "SNAP", "SPOT", "ZM", "DOCU", "TWLO", "OKTA", "NET", "FSLY",
	"U", "PATH", "AI", "IONQ", "ENPH", "SEDG", "RUN", "FSLR", "PLUG", "BE",
}

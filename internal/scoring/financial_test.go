package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/internal/strategy"
	"github.com/oppscan/backend/pkg/logger"
)

func newFinancial() *FinancialCalculator {
	return NewFinancialCalculator(strategy.Default().Growth, logger.NewNop())
}

func TestFinancialCalculator_MaxScore(t *testing.T) {
	calc := newFinancial()

	snapshot := &contracts.FundamentalsSnapshot{
		Ticker:        "MAX",
		Source:        contracts.SourcePrimary,
		PE:            12,
		ROE:           22,
		ProfitMargin:  25,
		RevenueGrowth: 0.35,
	}

	assert.Equal(t, contracts.MaxFinancialScore, calc.Calculate(snapshot))
}

func TestFinancialCalculator_NilSnapshotIsNeutral(t *testing.T) {
	calc := newFinancial()

	assert.Equal(t, contracts.MaxFinancialScore/2, calc.Calculate(nil))
}

func TestFinancialCalculator_SuspiciouslyCheapPE(t *testing.T) {
	calc := newFinancial()

	cheap := &contracts.FundamentalsSnapshot{Ticker: "CHEAP", Source: contracts.SourcePrimary, PE: 3}
	fair := &contracts.FundamentalsSnapshot{Ticker: "FAIR", Source: contracts.SourcePrimary, PE: 12}

	// A sub-5 P/E scores below a healthy one
	assert.Less(t, calc.Calculate(cheap), calc.Calculate(fair))
}

func TestNormalizedGrowth(t *testing.T) {
	calc := newFinancial()

	tests := []struct {
		name   string
		source contracts.SnapshotSource
		raw    float64
		want   float64
	}{
		{"primary decimal passes through", contracts.SourcePrimary, 0.25, 0.25},
		{"primary whole number divided", contracts.SourcePrimary, 25, 0.25},
		{"fallback percent divided", contracts.SourceFallback, 25, 0.25},
		// 3.5 crosses the primary threshold but not the fallback one,
		// so the same figure normalizes differently per source
		{"primary 3.5 treated as percent", contracts.SourcePrimary, 3.5, 0.035},
		{"fallback 3.5 kept and clamped", contracts.SourceFallback, 3.5, 2.0},
		{"negative whole number divided", contracts.SourcePrimary, -80, -0.5},
		{"clamped above", contracts.SourcePrimary, 350, 2.0},
		{"missing gets mild prior", contracts.SourcePrimary, 0, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &contracts.FundamentalsSnapshot{
				Ticker:        "X",
				Source:        tt.source,
				RevenueGrowth: tt.raw,
			}
			assert.InDelta(t, tt.want, calc.NormalizedGrowth(snap), 0.0001)
		})
	}
}

func TestNormalizedGrowth_NilSnapshot(t *testing.T) {
	calc := newFinancial()

	assert.Equal(t, 0.1, calc.NormalizedGrowth(nil))
}

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/logger"
)

func TestMarketPositionCalculator(t *testing.T) {
	calc := NewMarketPositionCalculator(logger.NewNop())

	tests := []struct {
		name     string
		snapshot *contracts.FundamentalsSnapshot
		want     float64
	}{
		{"nil is neutral", nil, contracts.MaxMarketPositionScore / 2},
		{"stable mega cap", &contracts.FundamentalsSnapshot{MarketCap: 300e9, Beta: 1.0}, 30},
		{"stable large cap", &contracts.FundamentalsSnapshot{MarketCap: 50e9, Beta: 1.1}, 27},
		{"volatile small cap", &contracts.FundamentalsSnapshot{MarketCap: 1e9, Beta: 2.0}, 11},
		{"micro cap moderate beta", &contracts.FundamentalsSnapshot{MarketCap: 100e6, Beta: 1.4}, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.Calculate(tt.snapshot))
		})
	}
}

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/internal/strategy"
	"github.com/oppscan/backend/pkg/logger"
)

func newEstimator() *TargetEstimator {
	return NewTargetEstimator(strategy.Default(), logger.NewNop())
}

func TestTargetEstimator_MegaCapSwingClampsTo30Percent(t *testing.T) {
	est := newEstimator()

	// Maxed growth and momentum would extrapolate to 187, but a mega cap
	// tightens the swing band to 1.30x
	snapshot := &contracts.FundamentalsSnapshot{MarketCap: 500e9}
	target, potential := est.Estimate(contracts.TimeframeSwing, 100, 2.0, 10, snapshot)

	assert.InDelta(t, 130, target, 0.001)
	assert.InDelta(t, 30, potential, 0.001)
}

func TestTargetEstimator_Week52BoundsBindTheBand(t *testing.T) {
	est := newEstimator()

	snapshot := &contracts.FundamentalsSnapshot{
		MarketCap:  1e9,
		Week52High: 110,
		Week52Low:  90,
	}

	// Ceiling: 110 * 1.2 / 100 = 1.32, tighter than the 1.40 band
	target, potential := est.Estimate(contracts.TimeframeSwing, 100, 2.0, 10, snapshot)
	assert.InDelta(t, 132, target, 0.001)
	assert.InDelta(t, 32, potential, 0.001)

	// Floor: 90 * 0.9 / 100 = 0.81, tighter than the 0.80 band
	target, potential = est.Estimate(contracts.TimeframeSwing, 100, -0.5, 0, snapshot)
	assert.InDelta(t, 81, target, 0.001)
	assert.InDelta(t, -19, potential, 0.001)
}

func TestTargetEstimator_TargetAndReturnAlwaysAgree(t *testing.T) {
	est := newEstimator()

	for _, tf := range []contracts.Timeframe{contracts.TimeframeShort, contracts.TimeframeSwing, contracts.TimeframeLong} {
		target, potential := est.Estimate(tf, 50, 1.5, 7, nil)
		assert.InDelta(t, (target/50-1)*100, potential, 0.0001, "timeframe %s", tf)
	}
}

func TestTargetEstimator_ShortTimeframeUpsideCap(t *testing.T) {
	est := newEstimator()

	// The short band tops out at 1.10 and the upside cap at 8% tightens
	// it further
	target, potential := est.Estimate(contracts.TimeframeShort, 100, 2.0, 10, nil)

	assert.InDelta(t, 108, target, 0.001)
	assert.InDelta(t, 8, potential, 0.001)
}

func TestTargetEstimator_InvalidPrice(t *testing.T) {
	est := newEstimator()

	target, potential := est.Estimate(contracts.TimeframeSwing, 0, 1.0, 5, nil)
	assert.Equal(t, 0.0, target)
	assert.Equal(t, 0.0, potential)
}

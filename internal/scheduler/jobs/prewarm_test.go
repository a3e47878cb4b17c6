package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/logger"
)

type fakeUniverse struct {
	universe *contracts.Universe
	err      error
}

func (f *fakeUniverse) GetUniverse(ctx context.Context) (*contracts.Universe, error) {
	return f.universe, f.err
}

type fakeWarmer struct {
	calls     []string
	lastForce bool
	failFor   map[string]bool
}

func (f *fakeWarmer) Get(ctx context.Context, ticker string, forceRefresh bool) (*contracts.FundamentalsSnapshot, error) {
	f.calls = append(f.calls, ticker)
	f.lastForce = forceRefresh
	if f.failFor[ticker] {
		return nil, errors.New("provider down")
	}
	return &contracts.FundamentalsSnapshot{Ticker: ticker}, nil
}

func TestCoreWarmJob_RefreshesEveryCoreTicker(t *testing.T) {
	u := &contracts.Universe{
		Tickers: []string{"AAPL", "MSFT", "NVDA", "ZZZZ"},
		Core:    []string{"AAPL", "MSFT", "NVDA"},
	}
	warmer := &fakeWarmer{}
	job := NewCoreWarmJob(&fakeUniverse{universe: u}, warmer, logger.NewNop())

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, warmer.calls)
	assert.True(t, warmer.lastForce)
}

func TestCoreWarmJob_ProviderFailuresAreNotFatal(t *testing.T) {
	u := &contracts.Universe{
		Tickers: []string{"AAPL", "MSFT"},
		Core:    []string{"AAPL", "MSFT"},
	}
	warmer := &fakeWarmer{failFor: map[string]bool{"AAPL": true}}
	job := NewCoreWarmJob(&fakeUniverse{universe: u}, warmer, logger.NewNop())

	assert.NoError(t, job.Run(context.Background()))
	assert.Len(t, warmer.calls, 2)
}

func TestCoreWarmJob_UniverseFailure(t *testing.T) {
	job := NewCoreWarmJob(&fakeUniverse{err: errors.New("unavailable")}, &fakeWarmer{}, logger.NewNop())

	assert.Error(t, job.Run(context.Background()))
}

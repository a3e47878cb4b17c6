package universe

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/logger"
)

// Sampler selects the working subset of the universe for one scan day.
// Sampling is seeded from the UTC calendar date, so every run within one
// day sees the same subset and the next day sees a different one. The core
// subset is never dropped, even partially.
type Sampler struct {
	logger *logger.Logger
}

// NewSampler creates a new sampler
func NewSampler(log *logger.Logger) *Sampler {
	return &Sampler{
		logger: log,
	}
}

// Sample caps the universe at cap tickers for the given date. A cap of 0
// means no limit. When the core subset alone exceeds the cap, coverage
// degrades to core-only rather than truncating the core.
func (s *Sampler) Sample(u *contracts.Universe, capSize int, date time.Time) *contracts.Universe {
	if capSize <= 0 || len(u.Tickers) <= capSize {
		return u
	}

	coreSet := u.CoreSet()

	if len(u.Core) > capSize {
		s.logger.WithFields(map[string]interface{}{
			"cap":       capSize,
			"core_size": len(u.Core),
		}).Warn("Universe cap below core subset size, degrading to core-only coverage")

		return &contracts.Universe{
			Tickers: append([]string(nil), u.Core...),
			Core:    u.Core,
		}
	}

	// Remainder keeps the universe's original order
	remainder := make([]string, 0, len(u.Tickers)-len(u.Core))
	for _, t := range u.Tickers {
		if !coreSet[t] {
			remainder = append(remainder, t)
		}
	}

	rng := rand.New(rand.NewSource(dateSeed(date)))
	rng.Shuffle(len(remainder), func(i, j int) {
		remainder[i], remainder[j] = remainder[j], remainder[i]
	})

	picked := make(map[string]bool, capSize-len(u.Core))
	for _, t := range remainder[:capSize-len(u.Core)] {
		picked[t] = true
	}

	// Emit in the universe's original order
	sampled := make([]string, 0, capSize)
	for _, t := range u.Tickers {
		if coreSet[t] || picked[t] {
			sampled = append(sampled, t)
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"universe": len(u.Tickers),
		"cap":      capSize,
		"sampled":  len(sampled),
		"date":     date.UTC().Format("2006-01-02"),
	}).Info("Sampled universe for scan day")

	return &contracts.Universe{
		Tickers: sampled,
		Core:    u.Core,
	}
}

// dateSeed derives the PRNG seed from the UTC calendar date
func dateSeed(date time.Time) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(date.UTC().Format("2006-01-02")))
	return int64(h.Sum64())
}

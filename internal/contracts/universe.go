package contracts

// Universe is the ordered candidate ticker set for a scan. Core holds the
// distinguished subset (major index constituents) that sampling must never
// drop, even partially.
type Universe struct {
	Tickers []string `json:"tickers"`
	Core    []string `json:"core"`
}

// Count returns the number of tickers in the universe
func (u *Universe) Count() int {
	return len(u.Tickers)
}

// CoreSet returns the core subset as a membership set
func (u *Universe) CoreSet() map[string]bool {
	set := make(map[string]bool, len(u.Core))
	for _, t := range u.Core {
		set[t] = true
	}
	return set
}

package stats

// Row holds the statistics for one window size.
// Rows are comparable values: == compares all three fields.
type Row struct {
	WindowSize                   int     `json:"windowSize" yaml:"windowSize"`
	AverageUniqueTokensPerWindow float64 `json:"averageUniqueTokensPerWindow" yaml:"averageUniqueTokensPerWindow"`
	WindowCount                  int     `json:"windowCount" yaml:"windowCount"`
}

// Observer receives per-token and per-scale events while rows are built.
type Observer interface {
	ObserveToken(token string)
	ObserveScale(windowSize int)
}

type nopObserver struct{}

func (nopObserver) ObserveToken(string) {}
func (nopObserver) ObserveScale(int) {}

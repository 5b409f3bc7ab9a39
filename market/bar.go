package market

// Bar 单个交易日的行情数据。
type Bar struct {
	Date   int // 交易日标识，yyyymmdd
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series holds the pre-loaded bar history for one symbol, addressable by
// integer day index. The whole window is loaded before the replay loop
// starts; there is no I/O behind At/Next.
type Series struct {
	Symbol string
	Bars   []Bar
}

// Len returns the number of signal days in the series.
func (s *Series) Len() int {
	return len(s.Bars)
}

// At returns the bar at day index i.
func (s *Series) At(i int) (Bar, bool) {
	if i < 0 || i >= len(s.Bars) {
		return Bar{}, false
	}
	return s.Bars[i], true
}

// Next returns the realization bar for a signal at day index i. Trades
// execute one bar after the signal bar, so callers resolve i+1 through
// here; an exhausted series means no more trading is possible, which is
// a benign terminal condition rather than an error.
func (s *Series) Next(i int) (Bar, bool) {
	return s.At(i + 1)
}

// Window returns the bars up to and including day index i, for factors
// and sizers that need history (moving averages, ATR).
func (s *Series) Window(i int) []Bar {
	if i < 0 {
		return nil
	}
	if i >= len(s.Bars) {
		i = len(s.Bars) - 1
	}
	return s.Bars[:i+1]
}

// Closes extracts the close column from a bar window.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high column from a bar window.
func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low column from a bar window.
func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

package stats

// pendingWindow is the window an accumulator is currently filling.
// count is the number of tokens accepted into it, repeats included, while
// tokens holds the distinct ones.
type pendingWindow struct {
	tokens map[string]struct{}
	count  int
}

func newPendingWindow() *pendingWindow {
	return &pendingWindow{tokens: make(map[string]struct{})}
}

func (w *pendingWindow) add(token string) {
	w.tokens[token] = struct{}{}
	w.count++
}

func (w *pendingWindow) unique() int {
	return len(w.tokens)
}

// rangeAccumulator tracks uniqueness statistics for one window size.
type rangeAccumulator struct {
	windowSize int

	flushedWindows int
	flushedUnique  int

	pending *pendingWindow
}

func newRangeAccumulator(windowSize int, pending *pendingWindow) *rangeAccumulator {
	if pending == nil {
		pending = newPendingWindow()
	}
	return &rangeAccumulator{
		windowSize: windowSize,
		pending:    pending,
	}
}

// total is the number of tokens this accumulator has seen, including the
// ones inherited from its predecessor.
func (a *rangeAccumulator) total() int {
	return a.flushedWindows*a.windowSize + a.pending.count
}

// readyToResize reports whether the first window has just filled up.
// It holds at most once per accumulator: once the triggering token has been
// accepted after the hand-off, total() stays above windowSize.
func (a *rangeAccumulator) readyToResize() bool {
	return a.total() == a.windowSize
}

// readyToFlush reports whether a later window has just filled up.
func (a *rangeAccumulator) readyToFlush() bool {
	total := a.total()
	return total > 0 && total%a.windowSize == 0 && !a.readyToResize()
}

// resize hands the completed first window over to a new accumulator of
// twice the size and starts a fresh window here. The returned accumulator
// owns the handed-over window; a must never touch it again.
func (a *rangeAccumulator) resize() *rangeAccumulator {
	handed := a.pending
	a.fold()
	a.pending = newPendingWindow()
	return newRangeAccumulator(a.windowSize*2, handed)
}

// flush folds the completed window into the aggregate and reuses its set.
func (a *rangeAccumulator) flush() {
	a.fold()
	clear(a.pending.tokens)
	a.pending.count = 0
}

func (a *rangeAccumulator) fold() {
	a.flushedUnique += a.pending.unique()
	a.flushedWindows++
}

func (a *rangeAccumulator) accept(token string) {
	a.pending.add(token)
}

// row projects the accumulator into a result. It must only be called after
// at least one token has been accepted.
func (a *rangeAccumulator) row() Row {
	windows := a.flushedWindows
	if a.pending.count > 0 {
		windows++
	}
	return Row{
		WindowSize:                   a.windowSize,
		AverageUniqueTokensPerWindow: float64(a.flushedUnique+a.pending.unique()) / float64(windows),
		WindowCount:                  windows,
	}
}

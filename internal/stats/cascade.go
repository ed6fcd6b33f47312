package stats

import "fmt"

// Cascade holds one accumulator per window size, s, 2s, 4s, ..., and feeds
// every token to all of them in a single forward pass.
//
// A scale is added the moment the previous one completes its first window:
// that window becomes the first half of the new scale's first window, so no
// token is ever revisited.
type Cascade struct {
	accumulators []*rangeAccumulator
	tokens       int
}

// NewCascade creates a cascade whose smallest window holds initialWindowSize tokens.
func NewCascade(initialWindowSize int) (*Cascade, error) {
	if initialWindowSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindowSize, initialWindowSize)
	}
	return &Cascade{
		accumulators: []*rangeAccumulator{newRangeAccumulator(initialWindowSize, nil)},
	}, nil
}

// Add feeds token to every scale. When the token causes a new scale to be
// created, its window size is returned with grew set.
//
// The loop re-reads the slice length on every step so that a scale appended
// while handling this token also receives it.
func (c *Cascade) Add(token string) (newWindowSize int, grew bool) {
	c.tokens++
	for i := 0; i < len(c.accumulators); i++ {
		acc := c.accumulators[i]
		switch {
		case acc.readyToResize():
			next := acc.resize()
			c.accumulators = append(c.accumulators, next)
			newWindowSize, grew = next.windowSize, true
		case acc.readyToFlush():
			acc.flush()
		}
		acc.accept(token)
	}
	return newWindowSize, grew
}

// Tokens returns how many tokens have been added.
func (c *Cascade) Tokens() int {
	return c.tokens
}

// Len returns the number of active scales.
func (c *Cascade) Len() int {
	return len(c.accumulators)
}

// Rows projects every scale into a Row, ascending by window size.
// A cascade that has seen no tokens has no rows.
func (c *Cascade) Rows() []Row {
	if c.tokens == 0 {
		return nil
	}
	rows := make([]Row, 0, len(c.accumulators))
	for _, acc := range c.accumulators {
		rows = append(rows, acc.row())
	}
	return rows
}

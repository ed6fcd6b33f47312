package tokenizer

import (
	"bytes"
	"errors"
	"io"
)

const (
	// DefaultBufferSize is the initial lookahead buffer capacity in bytes.
	DefaultBufferSize = 0x100

	delimiter = ' '

	// maxConsecutiveEmptyReads bounds how often a reader may return 0, nil
	// before the tokenizer gives up with io.ErrNoProgress.
	maxConsecutiveEmptyReads = 100
)

// ErrBadReadCount is returned when the underlying reader reports an
// impossible byte count.
var ErrBadReadCount = errors.New("tokenizer: reader returned invalid count")

// Tokenizer splits a byte stream into tokens separated by the space byte.
//
// It is single-use and forward-only. The lookahead buffer starts at the
// configured size and doubles only when a single token does not fit, so
// memory stays bounded by the longest token in the stream rather than by the
// stream length. Runs of spaces never produce empty tokens, and a trailing
// token without a delimiter is still returned.
//
// Splitting on the byte 0x20 is safe for UTF-8 input: multi-byte sequences
// never contain it.
type Tokenizer struct {
	r   io.Reader
	buf []byte

	read  int // start of unread bytes
	scan  int // bytes in [read, scan) are known to hold no delimiter
	write int // end of buffered bytes

	token string
	eof   bool
	err   error
}

// New returns a Tokenizer reading from r. A non-positive bufferSize selects
// DefaultBufferSize.
func New(r io.Reader, bufferSize int) *Tokenizer {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Tokenizer{
		r:   r,
		buf: make([]byte, bufferSize),
	}
}

// Scan advances to the next token, which is then available through Token.
// It returns false when the stream is exhausted or a read fails; Err
// distinguishes the two.
func (t *Tokenizer) Scan() bool {
	t.token = ""
	for {
		if t.err != nil {
			return false
		}

		if i := bytes.IndexByte(t.buf[t.scan:t.write], delimiter); i >= 0 {
			end := t.scan + i
			start := t.read
			t.read, t.scan = end+1, end+1
			if end > start {
				t.token = string(t.buf[start:end])
				return true
			}
			continue
		}
		t.scan = t.write

		if t.eof {
			if t.read < t.write {
				t.token = string(t.buf[t.read:t.write])
				t.read, t.scan = t.write, t.write
				return true
			}
			return false
		}

		t.fill()
	}
}

// Token returns the token produced by the most recent call to Scan.
func (t *Tokenizer) Token() string {
	return t.token
}

// Err returns the first non-EOF error encountered while reading.
func (t *Tokenizer) Err() error {
	return t.err
}

// Tokens drains the tokenizer and returns every remaining token.
func (t *Tokenizer) Tokens() ([]string, error) {
	var tokens []string
	for t.Scan() {
		tokens = append(tokens, t.Token())
	}
	return tokens, t.Err()
}

// fill compacts unread bytes to the front of the buffer, doubles the buffer
// if it is still full, and reads at least one more byte or records EOF.
func (t *Tokenizer) fill() {
	if t.read > 0 {
		t.shift()
	}
	if t.write == len(t.buf) {
		t.grow()
	}

	for empty := 0; ; empty++ {
		n, err := t.r.Read(t.buf[t.write:])
		if n < 0 || n > len(t.buf)-t.write {
			t.err = ErrBadReadCount
			return
		}
		t.write += n

		if err != nil {
			if err == io.EOF {
				t.eof = true
			} else {
				t.err = err
			}
			return
		}
		if n > 0 {
			return
		}
		if empty >= maxConsecutiveEmptyReads {
			t.err = io.ErrNoProgress
			return
		}
	}
}

func (t *Tokenizer) shift() {
	n := copy(t.buf, t.buf[t.read:t.write])
	t.scan -= t.read
	t.read = 0
	t.write = n
}

func (t *Tokenizer) grow() {
	buf := make([]byte, len(t.buf)*2)
	copy(buf, t.buf[:t.write])
	t.buf = buf
}

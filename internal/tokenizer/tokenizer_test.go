package tokenizer

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func splitOnSpace(s string) []string {
	var out []string
	for _, part := range strings.Split(s, " ") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func TestTokenizer_Tokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty input", input: "", expected: nil},
		{name: "only spaces", input: "     ", expected: nil},
		{name: "single token", input: "text", expected: []string{"text"}},
		{name: "several tokens", input: "even some more text !", expected: []string{"even", "some", "more", "text", "!"}},
		{name: "trailing spaces", input: "a b  ", expected: []string{"a", "b"}},
		{name: "leading spaces", input: "   a b", expected: []string{"a", "b"}},
		{name: "runs of spaces", input: "a    b  c", expected: []string{"a", "b", "c"}},
		{name: "tabs and newlines are not delimiters", input: "a\tb\nc d", expected: []string{"a\tb\nc", "d"}},
		{name: "multi-byte characters", input: "ааа ббб ааа", expected: []string{"ааа", "ббб", "ааа"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, size := range []int{1, 2, 3, 256} {
				tokens, err := New(strings.NewReader(tt.input), size).Tokens()
				require.NoError(t, err)
				assert.Equal(t, tt.expected, tokens, "buffer size %d", size)
			}
		})
	}
}

func TestTokenizer_DefaultBufferSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		tok := New(strings.NewReader("x"), size)
		assert.Len(t, tok.buf, DefaultBufferSize)
	}
}

func TestTokenizer_TokenLongerThanBuffer(t *testing.T) {
	long := strings.Repeat("x", 1000)
	input := "a " + long + " b"

	tok := New(strings.NewReader(input), 2)
	tokens, err := tok.Tokens()
	require.NoError(t, err)
	require.Equal(t, []string{"a", long, "b"}, tokens)

	// The buffer only grows as far as the longest token needs.
	assert.GreaterOrEqual(t, len(tok.buf), len(long))
	assert.Less(t, len(tok.buf), 4*len(long))
}

func TestTokenizer_BufferBoundedByLongestToken(t *testing.T) {
	input := strings.Repeat("abcd ", 10000)

	tok := New(strings.NewReader(input), 8)
	tokens, err := tok.Tokens()
	require.NoError(t, err)
	require.Len(t, tokens, 10000)
	assert.Equal(t, 8, len(tok.buf))
}

func TestTokenizer_OneByteReader(t *testing.T) {
	input := "the  quick brown   fox "
	tokens, err := New(iotest.OneByteReader(strings.NewReader(input)), 2).Tokens()
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "quick", "brown", "fox"}, tokens)
}

func TestTokenizer_DataWithEOF(t *testing.T) {
	tokens, err := New(iotest.DataErrReader(strings.NewReader("a bb ccc")), 4).Tokens()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "bb", "ccc"}, tokens)
}

func TestTokenizer_ReadErrorPropagates(t *testing.T) {
	boom := errors.New("disk on fire")
	r := io.MultiReader(strings.NewReader("a b c"), iotest.ErrReader(boom))

	tok := New(r, 256)
	tokens, err := tok.Tokens()
	require.ErrorIs(t, err, boom)
	// The trailing "c" is not known to be complete when the read fails.
	assert.Equal(t, []string{"a", "b"}, tokens)
	assert.False(t, tok.Scan())
}

type stalledReader struct{}

func (stalledReader) Read([]byte) (int, error) { return 0, nil }

func TestTokenizer_NoProgress(t *testing.T) {
	tok := New(stalledReader{}, 4)
	assert.False(t, tok.Scan())
	assert.ErrorIs(t, tok.Err(), io.ErrNoProgress)
}

type liarReader struct{}

func (liarReader) Read(p []byte) (int, error) { return len(p) + 1, nil }

func TestTokenizer_BadReadCount(t *testing.T) {
	tok := New(liarReader{}, 4)
	assert.False(t, tok.Scan())
	assert.ErrorIs(t, tok.Err(), ErrBadReadCount)
}

func TestTokenizer_ScanAfterEnd(t *testing.T) {
	tok := New(strings.NewReader("only"), 256)
	require.True(t, tok.Scan())
	require.Equal(t, "only", tok.Token())
	require.False(t, tok.Scan())
	require.False(t, tok.Scan())
	assert.Empty(t, tok.Token())
	assert.NoError(t, tok.Err())
}

func TestProperty_TokenRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		input := rapid.StringMatching(`[ abcй]{0,200}`).Draw(rt, "input")
		size := rapid.IntRange(1, 64).Draw(rt, "bufferSize")

		tokens, err := New(strings.NewReader(input), size).Tokens()
		require.NoError(rt, err)

		for _, token := range tokens {
			require.NotEmpty(rt, token)
			require.NotContains(rt, token, " ")
		}
		require.Equal(rt, strings.Join(splitOnSpace(input), " "), strings.Join(tokens, " "))
	})
}

func TestProperty_BufferSizeIndependence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		words := rapid.SliceOf(rapid.StringMatching(`[a-z]{1,600}`)).Draw(rt, "words")
		gaps := rapid.IntRange(1, 3).Draw(rt, "gap")
		input := strings.Join(words, strings.Repeat(" ", gaps))

		reference, err := New(strings.NewReader(input), 256).Tokens()
		require.NoError(rt, err)

		for _, size := range []int{1, 2, 7, 1024} {
			tokens, err := New(iotest.HalfReader(strings.NewReader(input)), size).Tokens()
			require.NoError(rt, err)
			require.Equal(rt, reference, tokens, "buffer size %d", size)
		}
	})
}

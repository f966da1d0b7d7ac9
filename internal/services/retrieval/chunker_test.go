package retrieval

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_Split(t *testing.T) {
	t.Run("empty text yields no chunks", func(t *testing.T) {
		c := NewChunker(100, 20)
		assert.Nil(t, c.Split(""))
		assert.Nil(t, c.Split("   \n  "))
	})

	t.Run("short text is a single chunk", func(t *testing.T) {
		c := NewChunker(100, 20)
		chunks := c.Split("A short paragraph.")
		require.Len(t, chunks, 1)
		assert.Equal(t, "A short paragraph.", chunks[0])
	})

	t.Run("text at exactly the chunk size stays whole", func(t *testing.T) {
		c := NewChunker(50, 10)
		text := strings.Repeat("a", 50)
		assert.Equal(t, []string{text}, c.Split(text))
	})

	t.Run("long text splits at paragraph boundaries", func(t *testing.T) {
		para1 := strings.Repeat("alpha ", 12) // 72 chars
		para2 := strings.Repeat("beta ", 12)
		c := NewChunker(100, 10)

		chunks := c.Split(para1 + "\n\n" + para2)

		require.GreaterOrEqual(t, len(chunks), 2)
		assert.True(t, strings.HasPrefix(chunks[0], "alpha"))
		assert.True(t, strings.Contains(chunks[len(chunks)-1], "beta"))
	})

	t.Run("every chunk respects the size bound", func(t *testing.T) {
		c := NewChunker(200, 40)
		text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50)

		chunks := c.Split(text)

		require.Greater(t, len(chunks), 1)
		for i, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk), 200, "chunk %d exceeds size", i)
			assert.NotEmpty(t, chunk)
		}
	})

	t.Run("multi-byte text splits on rune boundaries", func(t *testing.T) {
		c := NewChunker(100, 20)
		text := strings.Repeat("漢字のテキストは三バイト文字で構成される", 30)

		chunks := c.Split(text)

		require.Greater(t, len(chunks), 1)
		for i, chunk := range chunks {
			assert.True(t, utf8.ValidString(chunk), "chunk %d is cut mid-rune", i)
			assert.NotEmpty(t, chunk)
		}
	})

	t.Run("adjacent chunks overlap", func(t *testing.T) {
		c := NewChunker(100, 30)
		text := strings.Repeat("Sentence number one here. ", 20)

		chunks := c.Split(text)
		require.Greater(t, len(chunks), 1)

		// The tail of one chunk reappears at the head of the next
		tail := chunks[0][len(chunks[0])-10:]
		assert.Contains(t, chunks[1], strings.TrimSpace(tail))
	})

	t.Run("degenerate unbroken text still terminates", func(t *testing.T) {
		c := NewChunker(50, 10)
		text := strings.Repeat("x", 500)

		chunks := c.Split(text)

		assert.Greater(t, len(chunks), 1)
		var total int
		for _, chunk := range chunks {
			total += len(chunk)
		}
		assert.GreaterOrEqual(t, total, 500)
	})

	t.Run("bad parameters fall back to defaults", func(t *testing.T) {
		c := NewChunker(0, -1)
		assert.Equal(t, 1000, c.chunkSize)
		assert.Equal(t, 200, c.overlap)
	})
}

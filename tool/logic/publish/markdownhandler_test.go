package publish

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMarkdown_IsMarkdownSource(t *testing.T) {
	assert.True(t, HandleMarkdown{}.IsMarkdownSource("posts/weekly.md"))
	assert.True(t, HandleMarkdown{}.IsMarkdownSource("posts/WEEKLY.MD"))
	assert.False(t, HandleMarkdown{}.IsMarkdownSource("posts/weekly.html"))
	assert.False(t, HandleMarkdown{}.IsMarkdownSource("posts/weekly"))
}

func TestHandleMarkdown_ConvertMarkdown(t *testing.T) {
	t.Run("should render a fragment", func(t *testing.T) {
		md := "# Hello\n\na paragraph with a [link](https://example.com)\n"
		htmlBytes, err := HandleMarkdown{}.ConvertMarkdown(context.Background(), strings.NewReader(md))
		require.NoError(t, err)

		got := string(htmlBytes)
		assert.Contains(t, got, "<h1")
		assert.Contains(t, got, `href="https://example.com"`)
		assert.NotContains(t, got, "<html")
		assert.NotContains(t, got, "<body")
	})
}

package publish

import (
	"context"
	"strings"
	"testing"

	"github.com/bradleyjkemp/cupaloy/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFullDocument = `<html>
<head>
<title>Weekly Digest</title>
<meta charset="utf-8">
<style>body { color: red; }</style>
<script>alert("nope")</script>
</head>
<body>
<h1>Hello</h1>
<p>Some <b>content</b> here.</p>
</body>
</html>`

const testFragment = `<h1>Hello</h1>
<p>Just a fragment with an <img src="https://example.com/pic.png" alt="pic">.</p>`

func TestHandleContent_ExtractContent(t *testing.T) {
	t.Run("should extract body and discard head content", func(t *testing.T) {
		extracted, err := HandleContent{}.ExtractContent(context.Background(), strings.NewReader(testFullDocument))
		require.NoError(t, err)

		assert.Contains(t, extracted.Body, "<h1>Hello</h1>")
		assert.Contains(t, extracted.Body, "<p>Some <b>content</b> here.</p>")
		assert.NotContains(t, extracted.Body, "<title>")
		assert.NotContains(t, extracted.Body, "Weekly Digest")
		assert.NotContains(t, extracted.Body, "<meta")
	})
	t.Run("should collect style blocks in document order", func(t *testing.T) {
		doc := `<html><head><style>h1 { margin: 0; }</style></head><body><style>p { color: blue; }</style><p>x</p></body></html>`
		extracted, err := HandleContent{}.ExtractContent(context.Background(), strings.NewReader(doc))
		require.NoError(t, err)

		assert.Equal(t, "h1 { margin: 0; }p { color: blue; }", extracted.Style)
		assert.NotContains(t, extracted.Body, "<style>")
		assert.Contains(t, extracted.Body, "<p>x</p>")
	})
	t.Run("should pass fragments through unchanged", func(t *testing.T) {
		extracted, err := HandleContent{}.ExtractContent(context.Background(), strings.NewReader(testFragment))
		require.NoError(t, err)

		assert.Equal(t, testFragment, extracted.Body)
		assert.Empty(t, extracted.Style)
	})
	t.Run("should fail on document without body tag", func(t *testing.T) {
		doc := `<html><head><title>broken</title></head></html>`
		_, err := HandleContent{}.ExtractContent(context.Background(), strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrNoBodyTag)
	})
	t.Run("should not mistake header tag for root marker", func(t *testing.T) {
		frag := `<header><h1>Hello</h1></header>`
		extracted, err := HandleContent{}.ExtractContent(context.Background(), strings.NewReader(frag))
		require.NoError(t, err)
		assert.Equal(t, frag, extracted.Body)
	})
}

func TestHandleContent_MinifyStyle(t *testing.T) {
	t.Run("should minify style block", func(t *testing.T) {
		css := `body {
  color: red;
}

h1 { margin: 0; }`

		minified, err := HandleContent{}.MinifyStyle(context.Background(), css)
		require.NoError(t, err)

		t.Log(minified)

		cupaloy.SnapshotT(t, minified)
	})
}

func TestHandleContent_InlineStyle(t *testing.T) {
	t.Run("should prepend style element", func(t *testing.T) {
		got := HandleContent{}.InlineStyle(context.Background(), ExtractedContent{
			Body:  "<p>x</p>",
			Style: "body{color:red}",
		})
		assert.Equal(t, "<style>body{color:red}</style>\n<p>x</p>", got)
	})
	t.Run("should leave body alone without style", func(t *testing.T) {
		got := HandleContent{}.InlineStyle(context.Background(), ExtractedContent{Body: "<p>x</p>"})
		assert.Equal(t, "<p>x</p>", got)
	})
}

package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
<title>Fallback Title</title>
<meta name="description" content="A short description.">
<meta name="author" content="Jane Doe">
<meta property="article:published_time" content="2024-06-24">
</head>
<body>
<article>
<h1>Go Worker Pools</h1>
<p>Worker pools bound concurrency with a fixed set of goroutines that
consume from a shared channel. This paragraph exists to give the
readability heuristics enough text to treat the article node as the
main content of the page instead of boilerplate navigation.</p>
<p>A second paragraph keeps the content score above the threshold and
demonstrates that markdown conversion preserves paragraph breaks.</p>
</article>
</body>
</html>`

func TestExtract_ProducesMarkdownAndMetadata(t *testing.T) {
	t.Parallel()

	e := NewExtractor(0)
	doc, err := e.Extract("https://blog.example.com/posts/worker-pools", []byte(articleHTML))
	require.NoError(t, err)

	require.NotEmpty(t, doc.Title)
	require.Equal(t, "Jane Doe", doc.Author)
	require.NotEmpty(t, doc.Description)
	require.Contains(t, doc.Markdown, "Worker pools bound concurrency")
	require.Equal(t, "https://blog.example.com/posts/worker-pools", doc.URL)
}

func TestExtract_MetaFallbacksFillGaps(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<title>Only A Title</title>
<meta name="description" content="Meta description.">
</head><body><p>tiny</p></body></html>`

	e := NewExtractor(0)
	doc, err := e.Extract("https://example.com", []byte(html))
	require.NoError(t, err)

	require.Equal(t, "Only A Title", doc.Title)
	require.Equal(t, "Meta description.", doc.Description)
}

func TestExtract_InvalidURLFails(t *testing.T) {
	t.Parallel()

	e := NewExtractor(0)
	_, err := e.Extract("http://exa mple.com", []byte("<html></html>"))
	require.Error(t, err)
}

func TestExtract_TruncatesAtLineBreak(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("<html><body><article>")
	for i := 0; i < 200; i++ {
		sb.WriteString("<p>line of article text that repeats to exceed the byte budget</p>")
	}
	sb.WriteString("</article></body></html>")

	e := NewExtractor(512)
	doc, err := e.Extract("https://example.com/long", []byte(sb.String()))
	require.NoError(t, err)

	require.LessOrEqual(t, len(doc.Markdown), 512)
	require.False(t, strings.HasSuffix(doc.Markdown, "\n"))
}

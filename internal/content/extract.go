// Package content reduces fetched HTML to readable markdown plus page
// metadata, keeping LLM prompts small and focused on the main article.
package content

import (
	"bytes"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/pkg/errors"
)

// Document is the readable form of one fetched page.
type Document struct {
	URL         string
	Title       string
	Description string
	Author      string
	Published   string
	Markdown    string
}

// Extractor distills raw HTML into a Document.
type Extractor struct {
	maxMarkdownBytes int
}

// NewExtractor builds an Extractor. maxMarkdownBytes truncates the
// markdown body to keep prompts inside the model token budget; zero
// disables truncation.
func NewExtractor(maxMarkdownBytes int) *Extractor {
	return &Extractor{maxMarkdownBytes: maxMarkdownBytes}
}

// Extract runs readability over the page, falls back to goquery metadata
// for fields readability misses, and converts the distilled HTML to
// markdown.
func (e *Extractor) Extract(pageURL string, html []byte) (Document, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return Document{}, errors.Wrapf(err, "parse page url %q", pageURL)
	}

	doc := Document{URL: pageURL}

	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(html), parsed)
	if err != nil {
		return Document{}, errors.Wrap(err, "readability parse")
	}

	doc.Title = article.Title
	doc.Author = article.Byline
	doc.Description = article.Excerpt
	if article.PublishedTime != nil {
		doc.Published = article.PublishedTime.Format("2006-01-02")
	}

	e.fillFromMeta(&doc, html)

	body := article.Content
	if strings.TrimSpace(body) == "" {
		// Readability found no article node; convert the whole page.
		body = string(html)
	}

	markdown, err := md.ConvertString(body, converter.WithDomain(parsed.Host))
	if err != nil {
		return Document{}, errors.Wrap(err, "convert html to markdown")
	}
	doc.Markdown = e.truncate(strings.TrimSpace(markdown))

	return doc, nil
}

// fillFromMeta backfills missing metadata from <meta> and OpenGraph tags.
func (e *Extractor) fillFromMeta(doc *Document, html []byte) {
	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return
	}

	if doc.Title == "" {
		doc.Title = metaContent(gq, `meta[property="og:title"]`)
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSpace(gq.Find("title").First().Text())
	}
	if doc.Description == "" {
		doc.Description = metaContent(gq, `meta[name="description"]`)
	}
	if doc.Description == "" {
		doc.Description = metaContent(gq, `meta[property="og:description"]`)
	}
	if doc.Author == "" {
		doc.Author = metaContent(gq, `meta[name="author"]`)
	}
	if doc.Published == "" {
		doc.Published = metaContent(gq, `meta[property="article:published_time"]`)
	}
}

func (e *Extractor) truncate(markdown string) string {
	if e.maxMarkdownBytes <= 0 || len(markdown) <= e.maxMarkdownBytes {
		return markdown
	}
	cut := markdown[:e.maxMarkdownBytes]
	// Cut at the last line break so the prompt never ends mid-word.
	if idx := strings.LastIndexByte(cut, '\n'); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}

func metaContent(doc *goquery.Document, selector string) string {
	value, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(value)
}

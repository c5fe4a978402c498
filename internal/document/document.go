// Package document loads the text shown in the reader from a file, a URL or
// standard input, and lays it out into lines.
package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// maxBytes bounds how much of a source is read
const maxBytes = 8 << 20

// blockSelector lists elements whose text forms a paragraph
const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre, dt, dd, figcaption"

// Document is a loaded text source
type Document struct {
	Title      string
	SourceURL  string
	Paragraphs []string
}

// Load reads src: "-" for stdin, an http(s) URL, or a file path
func Load(ctx context.Context, client *http.Client, src string, stdin io.Reader) (*Document, error) {
	switch {
	case src == "-":
		data, err := io.ReadAll(io.LimitReader(stdin, maxBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return parse(data, "", "stdin", ""), nil

	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		return fetch(ctx, client, src)

	default:
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src, err)
		}
		abs, _ := filepath.Abs(src)
		return parse(data, filepath.Ext(src), filepath.Base(src), "file://"+abs), nil
	}
}

func fetch(ctx context.Context, client *http.Client, src string) (*Document, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html, text/plain;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("failed to fetch %s: %s", src, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}

	ext := ""
	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		ext = ".html"
	}
	return parse(data, ext, src, src), nil
}

func parse(data []byte, ext, name, sourceURL string) *Document {
	if ext == ".html" || ext == ".htm" || looksLikeHTML(data) {
		if doc, err := ParseHTML(bytes.NewReader(data), sourceURL); err == nil && len(doc.Paragraphs) > 0 {
			if doc.Title == "" {
				doc.Title = name
			}
			return doc
		}
	}
	doc := ParseText(string(data), name)
	doc.SourceURL = sourceURL
	return doc
}

func looksLikeHTML(data []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(data[:min(len(data), 512)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// ParseHTML extracts the title and paragraph text from an HTML page
func ParseHTML(r io.Reader, sourceURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	doc.Find("script, style, noscript, nav, header, footer, aside, form").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	root := doc.Find("body")
	for _, sel := range []string{"article", "main", "[role=main]"} {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			root = found
			break
		}
	}

	var paragraphs []string
	root.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are collected on their own.
		if s.Find(blockSelector).Length() > 0 && !s.Is("pre") {
			return
		}
		if text := collapse(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		paragraphs = splitParagraphs(root.Text())
	}

	return &Document{Title: title, SourceURL: sourceURL, Paragraphs: paragraphs}, nil
}

// ParseText splits plain text into paragraphs on blank lines
func ParseText(text, title string) *Document {
	return &Document{Title: title, Paragraphs: splitParagraphs(text)}
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		if p := collapse(block); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Lines lays the document out for the given width, with a blank line
// between paragraphs. Words longer than width are broken.
func (d *Document) Lines(width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	for i, p := range d.Paragraphs {
		if i > 0 {
			lines = append(lines, "")
		}
		wrapped := wrap.String(wordwrap.String(p, width), width)
		for _, line := range strings.Split(wrapped, "\n") {
			lines = append(lines, strings.TrimRight(line, " "))
		}
	}
	return lines
}

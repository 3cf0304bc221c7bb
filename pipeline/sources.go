package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/pkoukk/tiktoken-go"
)

const (
	// sourceTokenBudget bounds each gathered source before synthesis.
	sourceTokenBudget = 2000
	// promptTokenBudget bounds each source's share of the synthesis prompt.
	promptTokenBudget = 1000

	userAgent  = "SlideCraft/1.0"
	fetchLimit = 4 << 20
)

// searchURL is a var so tests can point it at a local server.
var searchURL = "https://html.duckduckgo.com/html/"

// source is one piece of gathered raw material.
type source struct {
	Type    string
	Source  string
	Content string
}

// fetcher gathers raw material from URLs, files, and web search.
type fetcher struct {
	client *http.Client
}

func newFetcher() *fetcher {
	return &fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// fetchURL downloads a page and extracts readable article text, dropping
// navigation chrome.
func (f *fetcher) fetchURL(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, fetchLimit))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", pageURL, err)
	}

	doc.Find("script, style, nav, footer, header, aside").Remove()

	for _, sel := range []string{"article", "main", "body"} {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if text := collapseText(node.Text()); text != "" {
				return text, nil
			}
		}
	}
	text := collapseText(doc.Text())
	if text == "" {
		return "", fmt.Errorf("no readable text at %s", pageURL)
	}
	return text, nil
}

// readFile extracts text from a local file. Plain text formats are read
// directly, PDFs and PPTX decks go through format-specific extraction.
func (f *fetcher) readFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".csv", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".pdf":
		return readPDF(path)
	case ".pptx":
		return readPPTXText(path)
	default:
		// try as text before giving up
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
		}
		return string(data), nil
	}
}

func readPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer file.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// readPPTXText pulls the text runs out of every slide in a PPTX deck.
func readPPTXText(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open pptx %s: %w", path, err)
	}
	defer r.Close()

	var parts []string
	for _, zf := range r.File {
		if !strings.HasPrefix(zf.Name, "ppt/slides/slide") || !strings.HasSuffix(zf.Name, ".xml") {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			continue
		}
		texts := extractDrawingText(rc)
		rc.Close()
		if len(texts) > 0 {
			parts = append(parts, strings.Join(texts, "\n"))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no slide text in %s", path)
	}
	return strings.Join(parts, "\n\n"), nil
}

// extractDrawingText collects the contents of every <a:t> element.
func extractDrawingText(r io.Reader) []string {
	dec := xml.NewDecoder(r)
	var out []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "t" {
			continue
		}
		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return out
		}
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, text)
		}
	}
}

// webSearch queries DuckDuckGo's HTML endpoint and formats the top results.
func (f *fetcher) webSearch(ctx context.Context, query string, maxResults int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		searchURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return "", fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search %q: status %d", query, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, fetchLimit))
	if err != nil {
		return "", fmt.Errorf("parse search results: %w", err)
	}

	var parts []string
	doc.Find(".result").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxResults {
			return false
		}
		title := collapseText(s.Find(".result__a").Text())
		snippet := collapseText(s.Find(".result__snippet").Text())
		href, _ := s.Find(".result__a").Attr("href")
		if title == "" && snippet == "" {
			return true
		}
		parts = append(parts,
			fmt.Sprintf("**%s**\n%s\nSource: %s\n", title, snippet, href))
		return true
	})
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, "\n"), nil
}

func collapseText(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// truncateTokens caps text at roughly maxTokens. When the tokenizer cannot
// be initialized (its vocabulary is fetched on first use), a 4-runes-per-
// token estimate keeps the budget enforced offline.
func truncateTokens(text string, maxTokens int) string {
	if maxTokens <= 0 || text == "" {
		return text
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		runes := []rune(text)
		if len(runes) <= maxTokens*4 {
			return text
		}
		return string(runes[:maxTokens*4])
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return enc.Decode(tokens[:maxTokens])
}

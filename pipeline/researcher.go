package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sweetpotato0/slidecraft/llm"
	"github.com/sweetpotato0/slidecraft/pkg/logging"
)

// sourceGatherer is the seam between the researcher and the network.
type sourceGatherer interface {
	fetchURL(ctx context.Context, url string) (string, error)
	readFile(path string) (string, error)
	webSearch(ctx context.Context, query string, maxResults int) (string, error)
}

// Researcher gathers material from URLs, local files, and web search, then
// synthesizes it into a structured research bundle.
type Researcher struct {
	llm     llm.Client
	sources sourceGatherer
	logger  *slog.Logger
}

// NewResearcher creates a researcher backed by the given LLM client.
func NewResearcher(client llm.Client) *Researcher {
	return &Researcher{
		llm:     client,
		sources: newFetcher(),
		logger:  logging.WithComponent("pipeline.researcher"),
	}
}

func (r *Researcher) Name() string { return "researcher" }

// Run gathers all sources concurrently and synthesizes them. Individual
// source failures are recorded but not fatal; only synthesis failure is.
func (r *Researcher) Run(ctx context.Context, pc *Context) *Result {
	r.logger.Info("starting research", "topic", pc.Topic,
		"urls", len(pc.URLs), "files", len(pc.Files))

	sources, errs := r.gather(ctx, pc)

	if len(sources) == 0 {
		r.logger.Info("no external sources available, using model knowledge only")
		sources = append(sources, source{
			Type:    "llm_knowledge",
			Source:  "LLM general knowledge",
			Content: fmt.Sprintf("Topic: %s. Purpose: %s.", pc.Topic, pc.Purpose),
		})
	}

	research, err := r.synthesize(ctx, pc, sources)
	if err != nil {
		return failure(fmt.Errorf("research synthesis failed: %w", err), errs...)
	}

	messages := append([]string{fmt.Sprintf("Researched %d source(s)", len(sources))}, errs...)
	return &Result{Success: true, Research: research, Messages: messages}
}

// gather fetches every requested source concurrently, preserving input
// order in the result.
func (r *Researcher) gather(ctx context.Context, pc *Context) ([]source, []string) {
	type slot struct {
		src source
		err string
	}

	slots := make([]slot, len(pc.URLs)+len(pc.Files)+1)
	var wg sync.WaitGroup

	for i, pageURL := range pc.URLs {
		wg.Add(1)
		go func(i int, pageURL string) {
			defer wg.Done()
			content, err := r.sources.fetchURL(ctx, pageURL)
			if err != nil {
				slots[i].err = fmt.Sprintf("URL fetch failed (%s): %v", pageURL, err)
				r.logger.Warn("url fetch failed", "url", pageURL, "error", err)
				return
			}
			r.logger.Info("fetched url", "url", pageURL, "chars", len(content))
			slots[i].src = source{
				Type:    "url",
				Source:  pageURL,
				Content: truncateTokens(content, sourceTokenBudget),
			}
		}(i, pageURL)
	}

	base := len(pc.URLs)
	for i, path := range pc.Files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			content, err := r.sources.readFile(path)
			if err != nil {
				slots[i].err = fmt.Sprintf("File read failed (%s): %v", path, err)
				r.logger.Warn("file read failed", "path", path, "error", err)
				return
			}
			r.logger.Info("read file", "path", path, "chars", len(content))
			slots[i].src = source{
				Type:    "file",
				Source:  path,
				Content: truncateTokens(content, sourceTokenBudget),
			}
		}(base+i, path)
	}

	searchSlot := len(slots) - 1
	wg.Add(1)
	go func() {
		defer wg.Done()
		results, err := r.sources.webSearch(ctx, pc.Topic, 5)
		if err != nil {
			slots[searchSlot].err = fmt.Sprintf("Web search failed: %v", err)
			r.logger.Warn("web search failed", "error", err)
			return
		}
		if results == "" {
			return
		}
		r.logger.Info("web search completed", "chars", len(results))
		slots[searchSlot].src = source{
			Type:    "web_search",
			Source:  "DuckDuckGo: " + pc.Topic,
			Content: truncateTokens(results, sourceTokenBudget),
		}
	}()

	wg.Wait()

	var sources []source
	var errs []string
	for _, s := range slots {
		if s.err != "" {
			errs = append(errs, s.err)
		}
		if s.src.Content != "" {
			sources = append(sources, s.src)
		}
	}
	return sources, errs
}

const synthesisSystemPrompt = `You are a research analyst preparing material for a presentation.
Given the collected source material, synthesize it into a structured research bundle.

Return a JSON object with these fields:
{
  "title_suggestion": "Suggested presentation title",
  "key_themes": ["theme1", "theme2", ...],
  "key_facts": [
    {"fact": "...", "source": "...", "importance": "high|medium|low"},
    ...
  ],
  "statistics": [
    {"stat": "...", "context": "...", "source": "..."},
    ...
  ],
  "quotes": [
    {"quote": "...", "attribution": "...", "source": "..."},
    ...
  ],
  "sections": [
    {"heading": "...", "summary": "...", "key_points": ["...", "..."]},
    ...
  ],
  "audience_insights": "Brief analysis of what would resonate with the target audience",
  "narrative_arc": "Suggested flow: intro theme, body themes, conclusion theme"
}

Include 5-15 key facts, 3-5 statistics, 2-4 quotes, and 3-7 sections.
Prioritize accuracy and attribution. Mark facts by importance.`

func (r *Researcher) synthesize(ctx context.Context, pc *Context, sources []source) (*Research, error) {
	var sb strings.Builder
	for i, src := range sources {
		fmt.Fprintf(&sb, "--- Source %d (%s: %s) ---\n%s\n\n",
			i+1, src.Type, src.Source, truncateTokens(src.Content, promptTokenBudget))
	}

	audience := pc.Audience
	if audience == "" {
		audience = "General"
	}
	extra := pc.ExtraInstructions
	if extra == "" {
		extra = "None"
	}
	userPrompt := fmt.Sprintf(`Topic: %s
Purpose: %s
Target audience: %s
Target slide count: %d
Extra instructions: %s

Collected source material:
%s`, pc.Topic, pc.Purpose, audience, pc.SlideCount, extra, sb.String())

	research, err := llm.GenerateAs[Research](ctx, r.llm, synthesisSystemPrompt, userPrompt, 0.3)
	if err != nil {
		return nil, err
	}

	research.RawSources = make([]SourceRef, len(sources))
	for i, src := range sources {
		research.RawSources[i] = SourceRef{
			Type:   src.Type,
			Source: src.Source,
			Length: len(src.Content),
		}
	}
	return research, nil
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sweetpotato0/slidecraft/convert"
	"github.com/sweetpotato0/slidecraft/export"
	"github.com/sweetpotato0/slidecraft/llm"
	"github.com/sweetpotato0/slidecraft/pkg/logging"
	"github.com/sweetpotato0/slidecraft/pkg/telemetry"
	"github.com/sweetpotato0/slidecraft/session"
	"github.com/sweetpotato0/slidecraft/slides"
	"github.com/sweetpotato0/slidecraft/styles"
)

// Orchestrator coordinates the agent pipeline and session persistence.
//
// Phase failure policy: research failure is non-fatal (curation proceeds on
// model knowledge), curation failure aborts the run, style recommendation
// failure falls back to the default preset, and export failures are
// isolated per format.
type Orchestrator struct {
	researcher *Researcher
	curator    *Curator
	styler     *StyleRecommender
	editor     *Editor
	store      session.Store
	logger     *slog.Logger
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithStore replaces the default file-backed session store.
func WithStore(store session.Store) Option {
	return func(o *Orchestrator) { o.store = store }
}

// NewOrchestrator wires the agents around one LLM client. Without options,
// sessions persist to .slide-sessions under the current directory.
func NewOrchestrator(client llm.Client, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		researcher: NewResearcher(client),
		curator:    NewCurator(client),
		styler:     NewStyleRecommender(client),
		editor:     NewEditor(client),
		logger:     logging.WithComponent("pipeline.orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.store == nil {
		store, err := session.NewFileStore(".")
		if err != nil {
			return nil, err
		}
		o.store = store
	}
	return o, nil
}

// CreateRequest describes a full pipeline run.
type CreateRequest struct {
	Topic             string
	URLs              []string
	Files             []string
	SlideCount        int
	Purpose           string
	Mood              string
	Audience          string
	StyleName         string
	PPTXTemplate      string
	OutputDir         string
	OutputFormats     []string
	ExtraInstructions string
}

// CreatePresentation runs research, curation, style selection, and export,
// returning the persisted session.
func (o *Orchestrator) CreatePresentation(ctx context.Context, req CreateRequest) (*session.Session, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.create")
	var runErr error
	defer func() { telemetry.End(span, runErr) }()

	if req.Topic == "" {
		runErr = fmt.Errorf("topic is required")
		return nil, runErr
	}

	pc := NewContext(req.Topic)
	if req.Purpose != "" {
		pc.Purpose = req.Purpose
	}
	if req.SlideCount > 0 {
		pc.SlideCount = req.SlideCount
	}
	if req.OutputDir != "" {
		pc.OutputDir = req.OutputDir
	}
	if len(req.OutputFormats) > 0 {
		pc.OutputFormats = req.OutputFormats
	}
	pc.URLs = req.URLs
	pc.Files = req.Files
	pc.Mood = req.Mood
	pc.Audience = req.Audience
	pc.StyleName = req.StyleName
	pc.PPTXTemplatePath = req.PPTXTemplate
	pc.ExtraInstructions = req.ExtraInstructions

	sess := session.New(pc.Topic)
	sess.Purpose = pc.Purpose
	sess.URLs = pc.URLs
	sess.Files = pc.Files
	sess.Mood = pc.Mood
	sess.Audience = pc.Audience
	sess.SlideCount = pc.SlideCount
	sess.OutputFormats = pc.OutputFormats
	if err := o.store.Save(ctx, sess); err != nil {
		runErr = fmt.Errorf("create session: %w", err)
		return nil, runErr
	}

	o.logger.Info("starting pipeline", "session", sess.ID, "topic", pc.Topic)

	// Phase 1: research. Failure is non-fatal; curation falls back to
	// model knowledge on an empty bundle.
	o.runResearch(ctx, pc, sess)

	// Phase 2: curation. Fatal on failure.
	if err := o.runCuration(ctx, pc, sess); err != nil {
		runErr = err
		return nil, runErr
	}

	// Phase 3: style selection.
	o.runStyle(ctx, pc, sess)

	// Phase 4: export.
	o.runExport(ctx, pc, sess)

	if err := o.store.Save(ctx, sess); err != nil {
		runErr = fmt.Errorf("save session: %w", err)
		return nil, runErr
	}
	o.logger.Info("pipeline complete", "session", sess.ID, "slides", len(sess.Slides))
	return sess, nil
}

func (o *Orchestrator) runResearch(ctx context.Context, pc *Context, sess *session.Session) {
	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.research")
	result := o.researcher.Run(ctx, pc)
	telemetry.End(span, result.Err)

	if !result.Success {
		o.logger.Warn("research failed, continuing on model knowledge", "error", result.Err)
		pc.Research = &Research{}
		return
	}
	pc.Research = result.Research
	sess.ResearchData = result.Research.ToMap()
}

func (o *Orchestrator) runCuration(ctx context.Context, pc *Context, sess *session.Session) error {
	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.curate")
	result := o.curator.Run(ctx, pc)
	telemetry.End(span, result.Err)

	if !result.Success {
		return fmt.Errorf("curate phase: %w", result.Err)
	}
	pc.Slides = result.Slides
	pc.PresentationTitle = result.Title
	sess.Slides = result.Slides
	sess.PresentationTitle = result.Title
	return nil
}

func (o *Orchestrator) runStyle(ctx context.Context, pc *Context, sess *session.Session) {
	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.style")
	result := o.styler.Run(ctx, pc)
	telemetry.End(span, result.Err)

	if result.Success {
		pc.StyleName = result.RecommendedStyle
		pc.StyleRecommendations = result.Recommendations
		if result.CustomPreset != nil {
			pc.CustomPreset = result.CustomPreset
			sess.CustomPreset = result.CustomPreset
		}
	} else if pc.StyleName == "" {
		pc.StyleName = styles.DefaultPreset
	}
	sess.StyleName = pc.StyleName
}

func (o *Orchestrator) runExport(ctx context.Context, pc *Context, sess *session.Session) {
	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.export")
	defer telemetry.End(span, nil)

	title := pc.PresentationTitle
	if title == "" {
		title = pc.Topic
	}
	paths := export.ExportAll(ctx, export.Options{
		Title:        title,
		Slides:       pc.Slides,
		StyleName:    pc.StyleName,
		CustomPreset: pc.CustomPreset,
		OutputDir:    pc.OutputDir,
		Formats:      pc.OutputFormats,
		PPTXTemplate: pc.PPTXTemplatePath,
	})
	pc.OutputPaths = paths
	sess.OutputPaths = paths
}

// ConvertRequest describes a PPTX conversion run.
type ConvertRequest struct {
	PPTXPath      string
	StyleName     string
	OutputDir     string
	OutputFormats []string
}

// ConvertPresentation turns an existing PowerPoint file into a styled
// presentation with its own session, so a converted deck can be edited and
// restyled like a generated one. Conversion never calls the model.
func (o *Orchestrator) ConvertPresentation(ctx context.Context, req ConvertRequest) (*session.Session, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.convert")
	var runErr error
	defer func() { telemetry.End(span, runErr) }()

	if req.PPTXPath == "" {
		runErr = fmt.Errorf("pptx path is required")
		return nil, runErr
	}
	styleName := req.StyleName
	if styleName == "" {
		styleName = styles.DefaultPreset
	}
	if _, err := styles.LoadPreset(styleName); err != nil {
		runErr = fmt.Errorf("unknown style %q: %w", styleName, err)
		return nil, runErr
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	title, deck, err := convert.Deck(req.PPTXPath, outputDir)
	if err != nil {
		runErr = fmt.Errorf("convert phase: %w", err)
		return nil, runErr
	}
	deck = slides.Validate(deck)

	sess := session.New(title)
	sess.PresentationTitle = title
	sess.Slides = deck
	sess.StyleName = styleName
	sess.SlideCount = len(deck)
	sess.Files = []string{req.PPTXPath}
	if len(req.OutputFormats) > 0 {
		sess.OutputFormats = req.OutputFormats
	}

	pc := NewContext(title)
	pc.Slides = deck
	pc.PresentationTitle = title
	pc.StyleName = styleName
	pc.OutputDir = outputDir
	pc.OutputFormats = sess.OutputFormats
	o.runExport(ctx, pc, sess)

	if err := o.store.Save(ctx, sess); err != nil {
		runErr = fmt.Errorf("save session: %w", err)
		return nil, runErr
	}
	o.logger.Info("converted presentation",
		"session", sess.ID, "source", req.PPTXPath, "slides", len(deck))
	return sess, nil
}

// EditPresentation applies an edit instruction to a stored session and
// regenerates its outputs.
func (o *Orchestrator) EditPresentation(ctx context.Context, sessionID, instruction string) (*session.Session, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.edit")
	var runErr error
	defer func() { telemetry.End(span, runErr) }()

	sess, err := o.store.Load(ctx, sessionID)
	if err != nil {
		runErr = err
		return nil, runErr
	}

	pc := o.contextFromSession(sess)
	pc.EditInstruction = instruction

	result := o.editor.Run(ctx, pc)
	if !result.Success {
		runErr = fmt.Errorf("edit failed: %w", result.Err)
		return nil, runErr
	}

	sess.Slides = result.Slides
	sess.AddEdit(instruction, result.Summary)

	pc.Slides = sess.Slides
	o.runExport(ctx, pc, sess)

	if err := o.store.Save(ctx, sess); err != nil {
		runErr = fmt.Errorf("save session: %w", err)
		return nil, runErr
	}
	o.logger.Info("edit applied", "session", sessionID)
	return sess, nil
}

// ChangeStyle switches a stored session to a named preset or to a theme
// extracted from a PPTX template, then re-exports.
func (o *Orchestrator) ChangeStyle(ctx context.Context, sessionID, styleName, pptxTemplate string) (*session.Session, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.change_style")
	var runErr error
	defer func() { telemetry.End(span, runErr) }()

	sess, err := o.store.Load(ctx, sessionID)
	if err != nil {
		runErr = err
		return nil, runErr
	}

	switch {
	case pptxTemplate != "":
		preset, err := styles.ExtractPPTXTheme(pptxTemplate)
		if err != nil {
			runErr = fmt.Errorf("extract template theme: %w", err)
			return nil, runErr
		}
		sess.CustomPreset = preset
		sess.StyleName = "custom"
	case styleName != "":
		if _, err := styles.LoadPreset(styleName); err != nil {
			runErr = fmt.Errorf("unknown style %q: %w", styleName, err)
			return nil, runErr
		}
		sess.StyleName = styleName
		sess.CustomPreset = nil
	}

	pc := o.contextFromSession(sess)
	o.runExport(ctx, pc, sess)

	changed := styleName
	if changed == "" {
		changed = "custom PPTX template"
	}
	sess.AddEdit("Changed style to "+changed, "Style updated to "+sess.StyleName)

	if err := o.store.Save(ctx, sess); err != nil {
		runErr = fmt.Errorf("save session: %w", err)
		return nil, runErr
	}
	return sess, nil
}

// ExportFormats exports a stored session to additional formats, merging the
// new paths into the session.
func (o *Orchestrator) ExportFormats(ctx context.Context, sessionID string, formats []string, outputDir string) (map[string]string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.export_formats")
	var runErr error
	defer func() { telemetry.End(span, runErr) }()

	sess, err := o.store.Load(ctx, sessionID)
	if err != nil {
		runErr = err
		return nil, runErr
	}

	pc := o.contextFromSession(sess)
	if outputDir != "" {
		pc.OutputDir = outputDir
	}
	pc.OutputFormats = formats

	previous := sess.OutputPaths
	o.runExport(ctx, pc, sess)

	// merge instead of replace so earlier formats keep their paths
	merged := map[string]string{}
	for k, v := range previous {
		merged[k] = v
	}
	for k, v := range pc.OutputPaths {
		merged[k] = v
	}
	sess.OutputPaths = merged
	sess.OutputFormats = mergeFormats(sess.OutputFormats, formats)

	if err := o.store.Save(ctx, sess); err != nil {
		runErr = fmt.Errorf("save session: %w", err)
		return nil, runErr
	}
	return pc.OutputPaths, nil
}

// ResearchOnly runs just the researcher and returns the bundle.
func (o *Orchestrator) ResearchOnly(ctx context.Context, topic string, urls, files []string) (*Research, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "pipeline.research_only")
	var runErr error
	defer func() { telemetry.End(span, runErr) }()

	pc := NewContext(topic)
	pc.URLs = urls
	pc.Files = files

	result := o.researcher.Run(ctx, pc)
	if !result.Success {
		runErr = fmt.Errorf("research failed: %w", result.Err)
		return nil, runErr
	}
	return result.Research, nil
}

// ListSessions lists stored sessions, most recently updated first.
func (o *Orchestrator) ListSessions(ctx context.Context) ([]session.Summary, error) {
	return o.store.List(ctx)
}

// GetSession loads one stored session.
func (o *Orchestrator) GetSession(ctx context.Context, sessionID string) (*session.Session, error) {
	return o.store.Load(ctx, sessionID)
}

// LatestSession loads the most recently updated session, or nil.
func (o *Orchestrator) LatestSession(ctx context.Context) (*session.Session, error) {
	return o.store.Latest(ctx)
}

// contextFromSession rebuilds a run context from persisted state. The
// output dir is recovered from the previous HTML artifact when present.
func (o *Orchestrator) contextFromSession(sess *session.Session) *Context {
	pc := NewContext(sess.Topic)
	if sess.Purpose != "" {
		pc.Purpose = sess.Purpose
	}
	pc.Slides = sess.Slides
	pc.PresentationTitle = sess.PresentationTitle
	pc.StyleName = sess.StyleName
	pc.CustomPreset = sess.CustomPreset
	pc.Research = ResearchFromMap(sess.ResearchData)
	if len(sess.OutputFormats) > 0 {
		pc.OutputFormats = sess.OutputFormats
	}
	if html := sess.OutputPaths["html"]; html != "" && !strings.HasPrefix(html, "ERROR:") {
		pc.OutputDir = filepath.Dir(html)
	}
	return pc
}

func mergeFormats(existing, added []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range append(append([]string{}, existing...), added...) {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// Package mcp exposes the presentation pipeline as an MCP tool server so
// editor agents can create, edit, and export slide decks over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sweetpotato0/slidecraft/config"
	"github.com/sweetpotato0/slidecraft/convert"
	"github.com/sweetpotato0/slidecraft/export"
	"github.com/sweetpotato0/slidecraft/pipeline"
	"github.com/sweetpotato0/slidecraft/styles"
)

// Version reported in the server implementation info.
const Version = "0.2.0"

// NewServer builds the slidecraft MCP server around an orchestrator.
func NewServer(o *pipeline.Orchestrator) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "slidecraft",
		Version: Version,
		Title:   "slidecraft presentation builder",
	}, nil)

	addCreatePresentation(server, o)
	addConvertPPT(server, o)
	addSummarizePPT(server)
	addEditPresentation(server, o)
	addChangeStyle(server, o)
	addExportFormats(server, o)
	addListStyles(server)
	addGetStyleDetails(server)
	addPreviewStyles(server)
	addListSessions(server, o)
	addGetSession(server, o)

	return server
}

// Serve runs the server on stdio until the client disconnects.
func Serve(ctx context.Context, o *pipeline.Orchestrator) error {
	return NewServer(o).Run(ctx, &mcp.StdioTransport{})
}

func textResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil
}

func addCreatePresentation(server *mcp.Server, o *pipeline.Orchestrator) {
	type args struct {
		Topic             string   `json:"topic" jsonschema:"Presentation topic (required)"`
		URLs              []string `json:"urls,omitempty" jsonschema:"Web pages to research"`
		Files             []string `json:"files,omitempty" jsonschema:"Local files to research (txt, md, csv, json, pdf, pptx)"`
		SlideCount        int      `json:"slide_count,omitempty" jsonschema:"Target slide count, defaults to 10"`
		Purpose           string   `json:"purpose,omitempty" jsonschema:"Presentation purpose, e.g. pitch or lecture"`
		Mood              string   `json:"mood,omitempty" jsonschema:"Desired feel, e.g. bold, calm, playful"`
		Audience          string   `json:"audience,omitempty" jsonschema:"Target audience"`
		Style             string   `json:"style,omitempty" jsonschema:"Style preset name, skips recommendation"`
		PPTXTemplate      string   `json:"pptx_template,omitempty" jsonschema:"PPTX file whose theme to match"`
		OutputDir         string   `json:"output_dir,omitempty" jsonschema:"Directory for generated files"`
		OutputFormats     []string `json:"output_formats,omitempty" jsonschema:"Formats to export: html, pptx, pdf"`
		ExtraInstructions string   `json:"extra_instructions,omitempty" jsonschema:"Free-form guidance for the content"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_presentation",
		Description: "Research a topic and generate a styled slide deck, returning the session ID and output paths",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, a args) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(a.Topic) == "" {
			return nil, nil, fmt.Errorf("topic is required")
		}
		if a.SlideCount != 0 {
			a.SlideCount = config.ClampSlideCount(a.SlideCount)
		}
		sess, err := o.CreatePresentation(ctx, pipeline.CreateRequest{
			Topic:             a.Topic,
			URLs:              a.URLs,
			Files:             a.Files,
			SlideCount:        a.SlideCount,
			Purpose:           a.Purpose,
			Mood:              a.Mood,
			Audience:          a.Audience,
			StyleName:         a.Style,
			PPTXTemplate:      a.PPTXTemplate,
			OutputDir:         a.OutputDir,
			OutputFormats:     a.OutputFormats,
			ExtraInstructions: a.ExtraInstructions,
		})
		if err != nil {
			return nil, nil, err
		}
		result, err := textResult(map[string]any{
			"session_id":   sess.ID,
			"title":        sess.PresentationTitle,
			"style":        sess.StyleName,
			"slide_count":  len(sess.Slides),
			"output_paths": sess.OutputPaths,
		})
		return result, nil, err
	})
}

func addConvertPPT(server *mcp.Server, o *pipeline.Orchestrator) {
	type args struct {
		PPTXPath      string   `json:"pptx_path" jsonschema:"Path to the .pptx file (required)"`
		Style         string   `json:"style,omitempty" jsonschema:"Style preset name, defaults to bold_signal"`
		OutputDir     string   `json:"output_dir,omitempty" jsonschema:"Directory for generated files and extracted assets"`
		OutputFormats []string `json:"output_formats,omitempty" jsonschema:"Formats to export: html, pptx, pdf"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_ppt",
		Description: "Convert a PowerPoint (.pptx) file to a styled presentation, extracting its text, images, and notes",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, a args) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(a.PPTXPath) == "" {
			return nil, nil, fmt.Errorf("pptx_path is required")
		}
		sess, err := o.ConvertPresentation(ctx, pipeline.ConvertRequest{
			PPTXPath:      a.PPTXPath,
			StyleName:     a.Style,
			OutputDir:     a.OutputDir,
			OutputFormats: a.OutputFormats,
		})
		if err != nil {
			return nil, nil, err
		}
		result, err := textResult(map[string]any{
			"session_id":   sess.ID,
			"title":        sess.PresentationTitle,
			"style":        sess.StyleName,
			"slide_count":  len(sess.Slides),
			"output_paths": sess.OutputPaths,
		})
		return result, nil, err
	})
}

func addSummarizePPT(server *mcp.Server) {
	type args struct {
		PPTXPath  string `json:"pptx_path" jsonschema:"Path to the .pptx file (required)"`
		OutputDir string `json:"output_dir,omitempty" jsonschema:"Directory for extracted assets"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_ppt",
		Description: "Extract a PowerPoint file and summarize its slides for review before converting",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, a args) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(a.PPTXPath) == "" {
			return nil, nil, fmt.Errorf("pptx_path is required")
		}
		summary, err := convert.Summarize(a.PPTXPath, a.OutputDir)
		if err != nil {
			return nil, nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: summary}},
		}, nil, nil
	})
}

func addEditPresentation(server *mcp.Server, o *pipeline.Orchestrator) {
	type args struct {
		SessionID   string `json:"session_id" jsonschema:"Session to edit; the latest session is used when omitted"`
		Instruction string `json:"instruction" jsonschema:"Natural language edit instruction (required)"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "edit_presentation",
		Description: "Apply a natural language edit to an existing presentation and regenerate its outputs",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, a args) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(a.Instruction) == "" {
			return nil, nil, fmt.Errorf("instruction is required")
		}
		id, err := resolveSessionID(ctx, o, a.SessionID)
		if err != nil {
			return nil, nil, err
		}
		sess, err := o.EditPresentation(ctx, id, a.Instruction)
		if err != nil {
			return nil, nil, err
		}
		last := sess.EditHistory[len(sess.EditHistory)-1]
		result, err := textResult(map[string]any{
			"session_id":   sess.ID,
			"summary":      last.Summary,
			"slide_count":  len(sess.Slides),
			"output_paths": sess.OutputPaths,
		})
		return result, nil, err
	})
}

func addChangeStyle(server *mcp.Server, o *pipeline.Orchestrator) {
	type args struct {
		SessionID    string `json:"session_id,omitempty" jsonschema:"Session to restyle; the latest session is used when omitted"`
		Style        string `json:"style,omitempty" jsonschema:"Preset name to switch to"`
		PPTXTemplate string `json:"pptx_template,omitempty" jsonschema:"PPTX file whose theme to extract instead of a preset"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "change_style",
		Description: "Switch a presentation to a different style preset or a PPTX template theme and re-export",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, a args) (*mcp.CallToolResult, any, error) {
		if a.Style == "" && a.PPTXTemplate == "" {
			return nil, nil, fmt.Errorf("either style or pptx_template is required")
		}
		id, err := resolveSessionID(ctx, o, a.SessionID)
		if err != nil {
			return nil, nil, err
		}
		sess, err := o.ChangeStyle(ctx, id, a.Style, a.PPTXTemplate)
		if err != nil {
			return nil, nil, err
		}
		result, err := textResult(map[string]any{
			"session_id":   sess.ID,
			"style":        sess.StyleName,
			"output_paths": sess.OutputPaths,
		})
		return result, nil, err
	})
}

func addExportFormats(server *mcp.Server, o *pipeline.Orchestrator) {
	type args struct {
		SessionID string   `json:"session_id,omitempty" jsonschema:"Session to export; the latest session is used when omitted"`
		Formats   []string `json:"formats" jsonschema:"Formats to export: html, pptx, pdf (required)"`
		OutputDir string   `json:"output_dir,omitempty" jsonschema:"Directory for generated files, defaults to the session's"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_formats",
		Description: "Export an existing presentation to additional formats",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, a args) (*mcp.CallToolResult, any, error) {
		if len(a.Formats) == 0 {
			return nil, nil, fmt.Errorf("formats is required")
		}
		id, err := resolveSessionID(ctx, o, a.SessionID)
		if err != nil {
			return nil, nil, err
		}
		paths, err := o.ExportFormats(ctx, id, a.Formats, a.OutputDir)
		if err != nil {
			return nil, nil, err
		}
		result, err := textResult(map[string]any{
			"session_id":   id,
			"output_paths": paths,
		})
		return result, nil, err
	})
}

func addListStyles(server *mcp.Server) {
	type args struct {
		Mood string `json:"mood,omitempty" jsonschema:"Filter to presets matching this mood"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_styles",
		Description: "List the built-in style presets, optionally filtered by mood",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, a args) (*mcp.CallToolResult, any, error) {
		var matched map[string]bool
		if a.Mood != "" {
			matched = map[string]bool{}
			for _, name := range styles.PresetsForMood(a.Mood) {
				matched[name] = true
			}
		}

		presets, err := styles.LoadAllPresets()
		if err != nil {
			return nil, nil, err
		}
		var out []map[string]any
		for _, p := range presets {
			if matched != nil && !matched[p.Name] {
				continue
			}
			out = append(out, map[string]any{
				"name":         p.Name,
				"display_name": p.DisplayName,
				"category":     p.Category,
				"vibe":         p.Vibe,
			})
		}
		result, err := textResult(out)
		return result, nil, err
	})
}

func addGetStyleDetails(server *mcp.Server) {
	type args struct {
		Style string `json:"style" jsonschema:"Preset name, e.g. bold_signal or neon_cyber (required)"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_style_details",
		Description: "Return the full configuration of a style preset: colors, fonts, signature elements, and CSS",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, a args) (*mcp.CallToolResult, any, error) {
		preset, err := styles.LoadPreset(a.Style)
		if err != nil {
			return nil, nil, fmt.Errorf("unknown style %q, available: %s",
				a.Style, strings.Join(styles.AllPresetNames, ", "))
		}
		result, err := textResult(preset)
		return result, nil, err
	})
}

func addPreviewStyles(server *mcp.Server) {
	type args struct {
		Mood      string `json:"mood" jsonschema:"How the audience should feel, e.g. excited or professional (required)"`
		OutputDir string `json:"output_dir,omitempty" jsonschema:"Directory for the preview HTML files"`
		Title     string `json:"title,omitempty" jsonschema:"Sample title shown in the previews"`
		Subtitle  string `json:"subtitle,omitempty" jsonschema:"Sample subtitle shown in the previews"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview_styles",
		Description: "Generate up to three style preview HTML files matching a mood, to compare in a browser",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, a args) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(a.Mood) == "" {
			return nil, nil, fmt.Errorf("mood is required")
		}
		results, err := export.WriteMoodPreviews(a.Mood, a.OutputDir, a.Title, a.Subtitle)
		if err != nil {
			return nil, nil, err
		}
		result, err := textResult(results)
		return result, nil, err
	})
}

func addListSessions(server *mcp.Server, o *pipeline.Orchestrator) {
	type args struct{}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List saved presentation sessions, most recently updated first",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ args) (*mcp.CallToolResult, any, error) {
		summaries, err := o.ListSessions(ctx)
		if err != nil {
			return nil, nil, err
		}
		result, err := textResult(summaries)
		return result, nil, err
	})
}

func addGetSession(server *mcp.Server, o *pipeline.Orchestrator) {
	type args struct {
		SessionID string `json:"session_id,omitempty" jsonschema:"Session to fetch; the latest session is used when omitted"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_session",
		Description: "Return the full state of a presentation session including its slides",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, a args) (*mcp.CallToolResult, any, error) {
		id, err := resolveSessionID(ctx, o, a.SessionID)
		if err != nil {
			return nil, nil, err
		}
		sess, err := o.GetSession(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		result, err := textResult(sess)
		return result, nil, err
	})
}

// resolveSessionID falls back to the most recently updated session when the
// caller omits an ID.
func resolveSessionID(ctx context.Context, o *pipeline.Orchestrator, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	latest, err := o.LatestSession(ctx)
	if err != nil {
		return "", err
	}
	if latest == nil {
		return "", fmt.Errorf("no sessions found, create a presentation first")
	}
	return latest.ID, nil
}

package export

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Browsers tried in order for PDF printing.
var chromiumCandidates = []string{
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"chrome",
	"headless_shell",
}

// WritePDF prints an already-exported HTML presentation to PDF using a
// headless Chromium. SLIDE_CHROMIUM overrides browser discovery.
func WritePDF(ctx context.Context, htmlPath, outputPath string) (string, error) {
	absHTML, err := filepath.Abs(htmlPath)
	if err != nil {
		return "", fmt.Errorf("resolve html path: %w", err)
	}
	if _, err := os.Stat(absHTML); err != nil {
		return "", fmt.Errorf("html file not found: %s", htmlPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	browser, err := findChromium()
	if err != nil {
		return "", err
	}

	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}

	cmd := exec.CommandContext(ctx, browser,
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--no-pdf-header-footer",
		"--virtual-time-budget=5000",
		"--print-to-pdf="+absOut,
		"file://"+absHTML,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("chromium pdf print failed: %v: %s", err, out)
	}
	if _, err := os.Stat(absOut); err != nil {
		return "", fmt.Errorf("chromium produced no output at %s", absOut)
	}
	return absOut, nil
}

func findChromium() (string, error) {
	if override := os.Getenv("SLIDE_CHROMIUM"); override != "" {
		return override, nil
	}
	for _, name := range chromiumCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no chromium browser found for PDF export, set SLIDE_CHROMIUM or install chromium")
}

package report

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ════════════════════════════════════════════════════════════════════
// PDF export — HTML → PDF via wkhtmltopdf / headless chromium
// ════════════════════════════════════════════════════════════════════

// PDFEngine names an external HTML→PDF converter.
type PDFEngine string

const (
	EngineWKHTML   PDFEngine = "wkhtmltopdf"
	EngineChromium PDFEngine = "chromium"
	EngineNone     PDFEngine = "none"
)

var chromiumBinaries = []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// DetectPDFEngine reports which converter is installed.
func DetectPDFEngine() PDFEngine {
	if _, err := lookPath("wkhtmltopdf"); err == nil {
		return EngineWKHTML
	}
	if chromiumPath() != "" {
		return EngineChromium
	}
	return EngineNone
}

func chromiumPath() string {
	for _, name := range chromiumBinaries {
		if p, err := lookPath(name); err == nil {
			return p
		}
	}
	return ""
}

// ExportPDF converts html to a PDF at outputPath using the first available
// engine. Without an engine the HTML is written next to outputPath with an
// .html extension; the returned path is the file actually written.
func ExportPDF(ctx context.Context, html, outputPath string) (string, error) {
	if outputPath == "" {
		return "", fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	switch DetectPDFEngine() {
	case EngineWKHTML:
		return outputPath, convert(ctx, html, func(src string) *exec.Cmd {
			return exec.CommandContext(ctx, "wkhtmltopdf",
				"--page-size", "A4",
				"--encoding", "UTF-8",
				"--enable-local-file-access",
				"--quiet",
				src, outputPath)
		})
	case EngineChromium:
		abs, err := filepath.Abs(outputPath)
		if err != nil {
			return "", fmt.Errorf("resolving output path: %w", err)
		}
		bin := chromiumPath()
		return outputPath, convert(ctx, html, func(src string) *exec.Cmd {
			return exec.CommandContext(ctx, bin,
				"--headless", "--disable-gpu", "--no-sandbox",
				"--print-to-pdf="+abs, "--print-to-pdf-no-header",
				"file://"+src)
		})
	}
	return writeHTMLFallback(html, outputPath)
}

func convert(ctx context.Context, html string, command func(src string) *exec.Cmd) error {
	f, err := os.CreateTemp("", "clientdesk-*.html")
	if err != nil {
		return fmt.Errorf("creating temp HTML: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return fmt.Errorf("writing temp HTML: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing temp HTML: %w", err)
	}

	cmd := command(f.Name())
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w\nOutput: %s", filepath.Base(cmd.Path), err, out)
	}
	return ctx.Err()
}

func writeHTMLFallback(html, outputPath string) (string, error) {
	if ext := filepath.Ext(outputPath); strings.EqualFold(ext, ".pdf") {
		outputPath = strings.TrimSuffix(outputPath, ext) + ".html"
	}
	if err := os.WriteFile(outputPath, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("writing HTML fallback: %w", err)
	}
	return outputPath, nil
}

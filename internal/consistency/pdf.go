package consistency

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const reportCSS = `
body{font-family:Georgia,'Times New Roman',serif;color:#1c1917;line-height:1.5;font-size:0.95rem;}
h1{font-size:1.5rem;border-bottom:2px solid #292524;padding-bottom:0.3rem;}
h2{font-size:1.15rem;margin-top:1.4rem;}
h3{font-size:1rem;margin-top:1.1rem;}
code{font-family:Menlo,Consolas,monospace;font-size:0.85em;background:#f5f5f4;padding:0.1em 0.3em;border-radius:3px;}
table{width:100%;border-collapse:collapse;font-size:0.85rem;}
th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}
thead th{background:#f1f5f9;font-weight:700;}
.gate-fail{color:#991b1b;}
`

// PDFRenderer turns a consistency report into the PDF audit deliverable via
// headless Chromium.
type PDFRenderer struct {
	chromePath string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{chromePath: detectChromePath()}
}

// BuildHTML renders the report markdown as a standalone styled HTML document.
func BuildHTML(rep Report) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(BuildMarkdown(rep)), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	gate := "pass"
	gateClass := ""
	if rep.HasBlocker() {
		gate = "FAIL"
		gateClass = " class='gate-fail'"
	}
	meta := "<div><strong>Generated:</strong> " +
		html.EscapeString(rep.GeneratedAt.Format("January 2, 2006 15:04 MST")) + "</div>" +
		"<div" + gateClass + "><strong>Gate:</strong> " + gate + "</div>"

	return "<!doctype html><html><head><meta charset='utf-8'><title>Vocabulary Consistency Report</title>" +
		"<style>" + reportCSS +
		"html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}" +
		"@media print{ @page{size:auto;margin:12mm;} }" +
		"</style></head><body>" +
		"<div class='report-meta'>" + meta + "</div>" +
		content.String() +
		"</body></html>", nil
}

// RenderPDF prints the report to PDF. Requires a local Chromium or Chrome.
func (r *PDFRenderer) RenderPDF(ctx context.Context, rep Report) ([]byte, error) {
	htmlDoc, err := BuildHTML(rep)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

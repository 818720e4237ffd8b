package web

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ericfisherdev/gencheck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.MarkdownRenderer = (*MarkdownRenderer)(nil)

// MarkdownRenderer converts explanation markdown (GFM, including the tables
// and emoji headings the analysis service emits) into sanitized HTML.
type MarkdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdownRenderer creates a renderer. Raw HTML in the source is passed
// through goldmark and then stripped to the UGC allow-list.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe(), html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render returns sanitized HTML for src, or "" for empty input.
func (r *MarkdownRenderer) Render(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return r.policy.Sanitize(src)
	}

	return r.policy.Sanitize(buf.String())
}

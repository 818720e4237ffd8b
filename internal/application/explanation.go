package application

import (
	"html"
	"log/slog"

	"github.com/ericfisherdev/gencheck/internal/domain/port/driven"
)

// RenderedExplanation is explanation text ready for an HTML surface.
type RenderedExplanation struct {
	HTML     string
	Markdown bool // false when the plain-text fallback produced HTML
}

// ExplanationRenderer turns the markdown explanation of a result into HTML.
type ExplanationRenderer interface {
	Render(explanation string) RenderedExplanation
}

// NewExplanationRenderer picks the rendering strategy once: markdown when md is
// available, escaped plain text otherwise.
func NewExplanationRenderer(md driven.MarkdownRenderer, logger *slog.Logger) ExplanationRenderer {
	if md == nil {
		return plainRenderer{logger: logger}
	}
	return markdownRenderer{md: md}
}

type markdownRenderer struct {
	md driven.MarkdownRenderer
}

func (r markdownRenderer) Render(explanation string) RenderedExplanation {
	return RenderedExplanation{HTML: r.md.Render(explanation), Markdown: true}
}

type plainRenderer struct {
	logger *slog.Logger
}

func (r plainRenderer) Render(explanation string) RenderedExplanation {
	r.logger.Warn("markdown renderer unavailable, showing explanation as plain text")
	return RenderedExplanation{HTML: html.EscapeString(explanation)}
}

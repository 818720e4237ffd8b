package driven

// MarkdownRenderer converts markdown prose into sanitized HTML.
type MarkdownRenderer interface {
	Render(src string) string
}

// Package viewmodel defines presentation-ready structs for the templ components.
// View models decouple rendering from controller view-state types.
package viewmodel

// StatusViewModel holds a status line.
type StatusViewModel struct {
	Visible  bool
	Text     string
	Severity string // "", "success" or "error"
	// HideAfterMillis is non-zero when the browser should hide the line
	// by itself after that many milliseconds.
	HideAfterMillis int64
}

// ProviderFieldViewModel holds one provider key input of the settings panel.
type ProviderFieldViewModel struct {
	Provider string
	Label    string
	Value    string
	TestPath string // POST target for the connection test
}

// SettingsViewModel holds the credential settings panel.
type SettingsViewModel struct {
	Visible bool
	Fields  []ProviderFieldViewModel
	Status  StatusViewModel
}

// ResultViewModel holds the rendered analysis result.
type ResultViewModel struct {
	Headline        string
	GenerationName  string
	ExplanationHTML string
	Plain           bool // explanation was escaped plain text, not markdown
}

// AnalysisViewModel holds the four regions of the analysis workflow.
type AnalysisViewModel struct {
	InputVisible   bool
	LoadingVisible bool
	ResultVisible  bool
	JoinDate       string
	FocusJoinDate  bool
	Error          StatusViewModel
	Result         ResultViewModel
}

// PageViewModel holds everything needed to render the page.
type PageViewModel struct {
	Title     string
	CSRFToken string
	// RefreshSeconds is non-zero while a request or timer the page waits on
	// is still outstanding.
	RefreshSeconds int
	Analysis       AnalysisViewModel
	Settings       SettingsViewModel
}

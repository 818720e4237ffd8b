package web

import (
	"fmt"

	vm "github.com/ericfisherdev/gencheck/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/gencheck/internal/application"
	"github.com/ericfisherdev/gencheck/internal/domain/model"
)

// providerLabels are the display names of the provider key inputs.
var providerLabels = map[model.Provider]string{
	model.ProviderGoogle:    "Google Gemini API Key",
	model.ProviderOpenAI:    "OpenAI API Key",
	model.ProviderAnthropic: "Anthropic API Key",
}

// toPageViewModel converts both controller views into the page view model.
func toPageViewModel(panel application.PanelView, wf application.WorkflowView, csrf string) vm.PageViewModel {
	page := vm.PageViewModel{
		Title:     "실손보험 세대 분석",
		CSRFToken: csrf,
		Analysis:  toAnalysisViewModel(wf),
		Settings:  toSettingsViewModel(panel),
	}
	if needsRefresh(panel, wf) {
		page.RefreshSeconds = 1
	}
	return page
}

func toAnalysisViewModel(wf application.WorkflowView) vm.AnalysisViewModel {
	a := vm.AnalysisViewModel{
		InputVisible:   wf.InputVisible(),
		LoadingVisible: wf.LoadingVisible(),
		ResultVisible:  wf.ResultVisible(),
		JoinDate:       wf.JoinDate,
		FocusJoinDate:  wf.FocusJoinDate,
		Error:          toStatusViewModel(wf.Error),
	}
	if wf.Result != nil {
		a.Result = vm.ResultViewModel{
			Headline:        wf.Result.Headline,
			GenerationName:  wf.Result.Result.GenerationName,
			ExplanationHTML: wf.Result.Explanation.HTML,
			Plain:           !wf.Result.Explanation.Markdown,
		}
	}
	return a
}

func toSettingsViewModel(panel application.PanelView) vm.SettingsViewModel {
	fields := make([]vm.ProviderFieldViewModel, 0, len(model.Providers()))
	for _, p := range model.Providers() {
		fields = append(fields, vm.ProviderFieldViewModel{
			Provider: string(p),
			Label:    providerLabels[p],
			Value:    panel.Fields[p],
			TestPath: fmt.Sprintf("/app/settings/test/%s", p),
		})
	}

	return vm.SettingsViewModel{
		Visible: panel.Visible,
		Fields:  fields,
		Status:  toStatusViewModel(panel.Status),
	}
}

func toStatusViewModel(s application.StatusView) vm.StatusViewModel {
	return vm.StatusViewModel{
		Visible:         s.Visible,
		Text:            s.Message.Text,
		Severity:        string(s.Message.Severity),
		HideAfterMillis: s.HideAfter.Milliseconds(),
	}
}

// needsRefresh reports whether the page waits on something that settles
// without user input: an analysis in flight, or a settings request or
// auto-close still outstanding. Timed banners hide in the browser instead,
// so a reload never discards what the user is typing.
func needsRefresh(panel application.PanelView, wf application.WorkflowView) bool {
	return wf.LoadingVisible() || (panel.Visible && panel.Pending)
}

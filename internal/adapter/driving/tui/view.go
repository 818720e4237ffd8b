package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ericfisherdev/gencheck/internal/application"
	"github.com/ericfisherdev/gencheck/internal/domain/model"
)

// View renders the current snapshot.
func (m Model) View() string {
	if !m.ready {
		return m.theme.Muted.Render("불러오는 중...")
	}

	var b strings.Builder
	b.WriteString(m.theme.Header.Render("실손보험 세대 분석"))
	b.WriteString("\n\n")

	if m.panelVisible() {
		b.WriteString(m.renderSettings(m.views.Panel))
	} else {
		b.WriteString(m.renderAnalysis(m.views.Workflow))
	}
	return b.String()
}

func (m Model) renderAnalysis(wf application.WorkflowView) string {
	var parts []string

	if wf.Error.Visible {
		parts = append(parts, m.theme.Danger.Render("⚠ "+wf.Error.Message.Text))
	}

	switch {
	case wf.InputVisible():
		label := "실손보험 가입일 (YYYY-MM-DD)"
		if wf.FocusJoinDate {
			label = m.theme.Focused.Render("▶ " + label)
		}
		parts = append(parts,
			m.theme.Frame.Render(label+"\n"+m.theme.Input.Render(wf.JoinDate+"▏")),
			m.theme.Muted.Render("enter 분석 · ctrl+s API 설정 · esc 종료"),
		)
	case wf.LoadingVisible():
		parts = append(parts, m.theme.Accent.Render("AI가 보험 약관을 분석하고 있습니다..."))
	case wf.ResultVisible() && wf.Result != nil:
		body := wf.Result.Result.Explanation
		if m.width > 4 {
			body = lipgloss.NewStyle().Width(m.width - 4).Render(body)
		}
		parts = append(parts,
			m.theme.Badge.Render(wf.Result.Headline)+" "+m.theme.Muted.Render(wf.Result.Result.GenerationName),
			m.theme.Panel.Render(body),
			m.theme.Muted.Render("r 다시 분석하기 · ctrl+s API 설정"),
		)
	}

	return strings.Join(parts, "\n\n")
}

func (m Model) renderSettings(p application.PanelView) string {
	var lines []string
	lines = append(lines, m.theme.Header.Render("API 키 설정"))

	for i, prov := range model.Providers() {
		label := string(prov)
		value := maskKey(p.Fields[prov])
		if i == m.focus {
			lines = append(lines, m.theme.Focused.Render("▶ "+label)+"  "+m.theme.Input.Render(value+"▏"))
		} else {
			lines = append(lines, "  "+label+"  "+value)
		}
	}

	if p.Status.Visible {
		lines = append(lines, "", m.statusStyle(p.Status.Message.Severity).Render(p.Status.Message.Text))
	}
	lines = append(lines, "", m.theme.Muted.Render("tab 이동 · ctrl+t 연결 테스트 · enter 저장 · esc 닫기"))

	return m.theme.Frame.Render(strings.Join(lines, "\n"))
}

func (m Model) statusStyle(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeveritySuccess:
		return m.theme.Success
	case model.SeverityError:
		return m.theme.Danger
	default:
		return m.theme.Muted
	}
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/conversation"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	assistantStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	userStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("36")).
			Padding(0, 1).
			MarginLeft(4)
	warningStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Foreground(lipgloss.Color("214")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

func renderHeader(w io.Writer, mode, storagePath string) {
	fmt.Fprintln(w, titleStyle.Render("TalentScout Hiring Assistant"))
	fmt.Fprintln(w, infoStyle.Render(strings.Join([]string{
		"Mode: " + mode,
		"Exit words: " + strings.Join(conversation.ExitKeywords(), ", "),
		"Submissions: " + storagePath,
		"Press Enter on an empty line for quick commands.",
	}, "\n")))
	fmt.Fprintln(w)
}

func renderTurn(w io.Writer, role ai.Role, text string) {
	style := assistantStyle
	label := "Assistant"

	switch {
	case role == ai.RoleUser:
		style = userStyle
		label = "You"
	case strings.HasPrefix(text, conversation.WarningMarker):
		style = warningStyle
	}

	fmt.Fprintln(w, style.Render(lipgloss.NewStyle().Bold(true).Render(label)+"\n"+text))
}

func renderStatus(w io.Writer, saved bool) {
	if saved {
		fmt.Fprintln(w, successStyle.Render("Submission saved successfully!"))
		return
	}
	fmt.Fprintln(w, failureStyle.Render("Submission incomplete — not saved."))
}

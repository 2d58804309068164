package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tendant/simple-profile/pkg/profile"
	"github.com/tendant/simple-profile/pkg/signup"
)

func (m Model) View() string {
	snap := m.controller.Snapshot()

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Create your account"))
	b.WriteString("\n")

	for i, f := range m.fields {
		b.WriteString(m.renderLabel(f.Label(), f.Required(), m.focus == i))
		if f == signup.FieldGender {
			b.WriteString(m.renderGender(snap.Form.Gender, m.focus == i))
		} else {
			b.WriteString(m.inputs[f].View())
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderLabel("Picture", false, m.focus == focusPicture))
	b.WriteString(m.picturePath.View())
	b.WriteString("\n")
	if pic := snap.ProfilePicture; pic != nil {
		b.WriteString(m.styles.label.Render(""))
		b.WriteString(m.styles.faint.Render(describePicture(pic)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderButtons(snap))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.notice.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.faint.Render("tab/↑↓ move • ←→ choose gender • enter select • ctrl+s save • esc quit"))

	form := b.String()
	if !snap.HasError() {
		return form
	}

	modal := m.renderModal(snap.Error)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}
	return lipgloss.JoinVertical(lipgloss.Left, form, "", modal)
}

func (m Model) renderLabel(text string, required, focused bool) string {
	style := m.styles.label
	if focused {
		style = m.styles.focusedLabel
	}
	if required {
		text += m.styles.required.Render("*")
	}
	return style.Render(text)
}

func (m Model) renderGender(current string, focused bool) string {
	value := current
	if value == "" {
		value = "Select"
	}
	if focused {
		return m.styles.focusedLabel.UnsetWidth().Render("‹ " + value + " ›")
	}
	if current == "" {
		return m.styles.faint.Render(value)
	}
	return value
}

func (m Model) renderButtons(snap signup.Snapshot) string {
	save := "Save"
	saveStyle := m.styles.button
	switch {
	case m.submitting || snap.Submitting():
		save = "Saving…"
		saveStyle = m.styles.disabledButton
	case !snap.CanSubmit():
		saveStyle = m.styles.disabledButton
	case m.focus == focusSave:
		saveStyle = m.styles.focusedButton
	}

	cancelStyle := m.styles.button
	if m.focus == focusCancel {
		cancelStyle = m.styles.focusedButton
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, saveStyle.Render(save), cancelStyle.Render("Cancel"))
}

func (m Model) renderModal(e *signup.SubmissionError) string {
	title := "Signup failed"
	if e.Kind == signup.ErrorKindValidation {
		title = "Missing information"
	}

	body := e.Message
	if len(e.Missing) > 0 {
		labels := make([]string, 0, len(e.Missing))
		for _, f := range e.Missing {
			labels = append(labels, f.Label())
		}
		body += "\n\n" + m.styles.faint.Render("Missing: "+strings.Join(labels, ", "))
	}

	return m.styles.modal.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.modalTitle.Render(title),
		"",
		body,
		"",
		m.styles.faint.Render("enter/esc to dismiss"),
	))
}

func describePicture(p *profile.Picture) string {
	size := p.Size()
	var human string
	switch {
	case size >= 1<<20:
		human = fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		human = fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		human = fmt.Sprintf("%d B", size)
	}
	return fmt.Sprintf("%s (%s, %s)", p.Name, p.ContentType, human)
}

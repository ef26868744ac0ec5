package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aymane70/taskman/internal/model"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.screen {
	case ScreenGate:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			HelpStyle.Render("Checking session..."))
	case ScreenLogin, ScreenRegister:
		return m.renderAuth()
	}

	header := m.renderHeader()
	filterBar := m.renderFilterBar()
	list := m.renderTaskList()
	statusBar := m.renderStatusBar()

	content := lipgloss.JoinVertical(lipgloss.Left, header, filterBar, list)

	switch m.mode {
	case ModeForm:
		content = m.placeModal(m.renderForm())
	case ModeConfirmDelete:
		content = m.placeModal(m.renderConfirm())
	case ModeStats:
		content = m.placeModal(m.renderStats())
	case ModeHelp:
		content = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, statusBar)
}

func (m Model) placeModal(modal string) string {
	return lipgloss.Place(
		m.width, m.height-2,
		lipgloss.Center, lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderAuth() string {
	title := "Sign In"
	labels := []string{"Username", "Password"}
	hint := "enter: sign in  •  ctrl+r: create account  •  ctrl+c: quit"
	if m.screen == ScreenRegister {
		title = "Create Account"
		labels = []string{"Username", "Email", "Password", "Confirm"}
		hint = "enter: register  •  ctrl+l: back to sign in  •  ctrl+c: quit"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("TaskMan") + "\n")
	b.WriteString(HelpStyle.Render(m.cfg.ServerURL) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title) + "\n\n")

	for i, input := range m.authInputs {
		label := LabelStyle
		if i == m.authFocus {
			label = LabelFocusedStyle
		}
		b.WriteString(label.Render(labels[i]) + input.View() + "\n")
	}

	if m.authBusy {
		b.WriteString("\n" + HelpStyle.Render("Working...") + "\n")
	} else if m.authErr != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.authErr) + "\n")
	}

	b.WriteString("\n" + HelpStyle.Render(hint))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		ModalStyle.Render(b.String()))
}

func (m Model) renderHeader() string {
	user := m.guard.Current().User.Username
	title := "TaskMan"
	if user != "" {
		title = fmt.Sprintf("TaskMan  •  %s", user)
	}
	return HeaderStyle.Render(title)
}

func (m Model) renderFilterBar() string {
	query := m.controller.Query()

	if m.mode == ModeSearch {
		return FilterBarStyle.Render("/" + m.search.View())
	}

	parts := []string{}
	if query.Search != "" {
		parts = append(parts, fmt.Sprintf("search:%q", query.Search))
	}
	status := string(query.Status)
	if status == "" {
		status = "all"
	}
	parts = append(parts, "status:"+status)
	priority := string(query.Priority)
	if priority == "" {
		priority = "all"
	}
	parts = append(parts, "priority:"+priority)
	parts = append(parts, fmt.Sprintf("sort:%s %s", query.SortBy, query.SortDir))

	return FilterBarStyle.Render(strings.Join(parts, "   "))
}

func (m Model) renderTaskList() string {
	result := m.controller.Result()
	height := m.height - 6
	var s string

	if result.Err != nil {
		s += ErrorStyle.Render("✗ "+truncate(result.Err.Error(), m.width-10)) + "\n\n"
	}

	switch {
	case !result.Fetched && result.Loading:
		s += HelpStyle.Render("  Loading tasks...")
	case !result.Fetched:
		s += HelpStyle.Render("  Nothing loaded yet. Press 'r' to refresh.")
	case len(result.Items) == 0:
		s += HelpStyle.Render("  No tasks match. Press 'a' to add one, Esc to clear filters.")
	default:
		for i, t := range result.Items {
			s += m.renderTaskRow(i, t) + "\n"
		}
	}

	return TaskListStyle.Width(m.width).Height(height).Render(s)
}

func (m Model) renderTaskRow(i int, t model.Task) string {
	cursor := "  "
	style := TaskItemStyle
	if i == m.cursor {
		cursor = "❯ "
		style = TaskItemSelectedStyle
	}
	if t.Status == model.StatusDone && i != m.cursor {
		style = TaskDoneStyle
	}

	titleWidth := m.width - 28
	if titleWidth < 10 {
		titleWidth = 10
	}
	title := truncate(t.Title, titleWidth)

	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format("Jan 2")
		if t.Overdue() {
			due = ErrorStyle.Render(due + " !")
		} else {
			due = HelpStyle.Render(due)
		}
	}

	row := style.Render(fmt.Sprintf("%s%s %-*s", cursor, statusIcon(t.Status), titleWidth, title))
	return row + " " + FormatPriority(t.Priority) + " " + due
}

func (m Model) renderStatusBar() string {
	result := m.controller.Result()
	query := m.controller.Query()

	totalPages := result.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	left := fmt.Sprintf("Page %d of %d", query.Page+1, totalPages)
	if result.Loading {
		left += "  •  fetching..."
	}
	if m.message != "" {
		left += "  •  " + m.message
	}

	help := "a:add  e:edit  x:done  d:del  /:search  s/p:filter  o/O:sort  S:stats  ?:help  q:quit"
	avail := m.width - lipgloss.Width(left) - len(help) - 2
	if avail > 0 {
		left += strings.Repeat(" ", avail) + help
	}

	return StatusBarStyle.Width(m.width).Render(left)
}

func (m Model) renderForm() string {
	title := "Add Task"
	if m.editID != "" {
		title = "Edit Task"
	}

	labels := []string{"Title", "Description", "Due date"}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(title) + "\n\n")

	for i, input := range m.formInputs {
		label := LabelStyle
		if i == m.formFocus {
			label = LabelFocusedStyle
		}
		b.WriteString(label.Render(labels[i]) + input.View() + "\n")
	}

	statusLabel := LabelStyle
	if m.formFocus == formFieldStatus {
		statusLabel = LabelFocusedStyle
	}
	b.WriteString(statusLabel.Render("Status") + string(m.formStatus) + "\n")

	priorityLabel := LabelStyle
	if m.formFocus == formFieldPriority {
		priorityLabel = LabelFocusedStyle
	}
	b.WriteString(priorityLabel.Render("Priority") + FormatPriority(m.formPriority) + "\n")

	if m.formErr != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.formErr) + "\n")
	}

	b.WriteString("\n" + HelpStyle.Render("tab:next  space:cycle  enter:save  esc:cancel"))
	return ModalStyle.Render(b.String())
}

func (m Model) renderConfirm() string {
	task := m.currentTask()
	if task == nil {
		return ""
	}
	content := lipgloss.NewStyle().Bold(true).Render("Delete task?") + "\n\n"
	content += truncate(task.Title, 50) + "\n\n"
	content += HelpStyle.Render("y:delete  n:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderStats() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Statistics") + "\n\n")

	switch {
	case !m.statsReady:
		b.WriteString(HelpStyle.Render("Loading..."))
	case m.statsErr != "":
		b.WriteString(ErrorStyle.Render(m.statsErr))
	default:
		b.WriteString(fmt.Sprintf("Total          %d\n\n", m.stats.TotalTasks))
		b.WriteString(fmt.Sprintf("To Do          %d\n", m.stats.TodoTasks))
		b.WriteString(fmt.Sprintf("In Progress    %d\n", m.stats.InProgressTasks))
		b.WriteString(fmt.Sprintf("Done           %d\n\n", m.stats.DoneTasks))
		b.WriteString(GetPriorityStyle(model.PriorityHigh).Render("High") + fmt.Sprintf("           %d\n", m.stats.HighPriorityTasks))
		b.WriteString(GetPriorityStyle(model.PriorityMedium).Render("Medium") + fmt.Sprintf("         %d\n", m.stats.MediumPriorityTasks))
		b.WriteString(GetPriorityStyle(model.PriorityLow).Render("Low") + fmt.Sprintf("            %d\n", m.stats.LowPriorityTasks))
		if m.stats.TotalTasks > 0 {
			pct := float64(m.stats.DoneTasks) / float64(m.stats.TotalTasks) * 100
			b.WriteString(fmt.Sprintf("\n%.0f%% complete", pct))
		}
	}

	b.WriteString("\n\n" + HelpStyle.Render("press any key to close"))
	return ModalStyle.Render(b.String())
}

func (m Model) renderHelp() string {
	help := `
╭──── Keyboard Shortcuts ────╮
│                            │
│  Navigation                │
│  ──────────                │
│  j/↓     Move down         │
│  k/↑     Move up           │
│  h/←     Previous page     │
│  l/→     Next page         │
│                            │
│  Filtering                 │
│  ─────────                 │
│  /       Search            │
│  s       Cycle status      │
│  p       Cycle priority    │
│  o       Cycle sort field  │
│  O       Flip direction    │
│  Esc     Clear search      │
│                            │
│  Actions                   │
│  ───────                   │
│  a       Add task          │
│  e/Enter Edit              │
│  x       Toggle done       │
│  d       Delete            │
│  r       Refresh           │
│  S       Statistics        │
│  L       Logout            │
│                            │
│  ?       Toggle help       │
│  q       Quit              │
│                            │
╰────────────────────────────╯

      Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}

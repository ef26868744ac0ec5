package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aymane70/taskman/internal/api"
	"github.com/aymane70/taskman/internal/collection"
	"github.com/aymane70/taskman/internal/model"
	"github.com/aymane70/taskman/internal/session"
)

// updatesMsg is sent when the collection controller has new state
type updatesMsg struct{}

// sessionMsg is sent when the session guard changes state
type sessionMsg session.Session

// authResultMsg carries the outcome of a login or register attempt
type authResultMsg struct {
	err error
}

// mutationMsg carries the outcome of a create, update or delete
type mutationMsg struct {
	verb string
	err  error
}

// statsMsg carries fetched statistics
type statsMsg struct {
	stats model.Statistics
	err   error
}

// Init starts the background listeners
func (m Model) Init() tea.Cmd {
	if m.screen == ScreenTasks {
		m.controller.Refresh()
	}
	return tea.Batch(m.waitForUpdates(), m.waitForSession(), textinput.Blink)
}

// waitForUpdates listens for collection state changes
func (m Model) waitForUpdates() tea.Cmd {
	return func() tea.Msg {
		<-m.controller.Updates()
		return updatesMsg{}
	}
}

// waitForSession listens for session state changes
func (m Model) waitForSession() tea.Cmd {
	return func() tea.Msg {
		s := <-m.guard.Changes()
		return sessionMsg(s)
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case updatesMsg:
		m.clampCursor()
		return m, m.waitForUpdates()

	case sessionMsg:
		return m.handleSessionChange(session.Session(msg))

	case authResultMsg:
		m.authBusy = false
		if msg.err != nil {
			m.authErr = api.Message(msg.err)
			return m, nil
		}
		return m.enterTasks()

	case mutationMsg:
		if msg.err != nil {
			m.message = "Error: " + api.Message(msg.err)
		} else {
			m.message = "✓ Task " + msg.verb
		}
		return m, nil

	case statsMsg:
		m.statsReady = true
		m.stats = msg.stats
		m.statsErr = ""
		if msg.err != nil {
			m.statsErr = api.Message(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleSessionChange(s session.Session) (tea.Model, tea.Cmd) {
	switch s.Status {
	case session.StatusAuthenticated:
		if m.screen != ScreenTasks {
			next, cmd := m.enterTasks()
			return next, tea.Batch(cmd, m.waitForSession())
		}
	case session.StatusAnonymous:
		if m.screen == ScreenTasks {
			m.screen = ScreenLogin
			m.mode = ModeNormal
			m.authInputs = newAuthInputs(false)
			m.authFocus = 0
			m.authErr = "Session expired. Please sign in again."
			m.authBusy = false
		}
	}
	return m, m.waitForSession()
}

// enterTasks switches to the task list and kicks off a fetch
func (m Model) enterTasks() (tea.Model, tea.Cmd) {
	m.screen = ScreenTasks
	m.mode = ModeNormal
	m.authErr = ""
	m.authBusy = false
	m.cursor = 0
	m.controller.Refresh()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenGate:
		return m, nil
	case ScreenLogin, ScreenRegister:
		return m.handleAuthKeys(msg)
	}

	switch m.mode {
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeForm:
		return m.handleFormKeys(msg)
	case ModeConfirmDelete:
		return m.handleConfirmKeys(msg)
	case ModeStats, ModeHelp:
		m.mode = ModeNormal
		return m, nil
	}
	return m.handleNormalKeys(msg)
}

// handleNormalKeys handles key presses on the task list
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.controller.Result().Items)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.PrevPage):
		m.controller.SetPage(m.controller.Query().Page - 1)
		m.cursor = 0

	case key.Matches(msg, keys.NextPage):
		m.controller.SetPage(m.controller.Query().Page + 1)
		m.cursor = 0

	case key.Matches(msg, keys.Search):
		m.mode = ModeSearch
		m.search.SetValue(m.controller.Query().Search)
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Status):
		next := nextStatusFilter(m.controller.Query().Status)
		m.controller.SetQuery(collection.Patch{Status: &next})
		m.cursor = 0

	case key.Matches(msg, keys.Priority):
		next := nextPriorityFilter(m.controller.Query().Priority)
		m.controller.SetQuery(collection.Patch{Priority: &next})
		m.cursor = 0

	case key.Matches(msg, keys.Sort):
		next := nextSortField(m.controller.Query().SortBy)
		m.controller.SetQuery(collection.Patch{SortBy: &next})
		m.cursor = 0

	case key.Matches(msg, keys.SortDir):
		dir := "asc"
		if m.controller.Query().SortDir == "asc" {
			dir = "desc"
		}
		m.controller.SetQuery(collection.Patch{SortDir: &dir})
		m.cursor = 0

	case key.Matches(msg, keys.Refresh):
		m.controller.Refresh()
		m.message = ""

	case key.Matches(msg, keys.Add):
		m.mode = ModeForm
		m.editID = ""
		m.formInputs = newFormInputs(nil)
		m.formFocus = formFieldTitle
		m.formStatus = model.StatusTodo
		m.formPriority = model.PriorityMedium
		m.formErr = ""
		return m, textinput.Blink

	case key.Matches(msg, keys.Edit):
		task := m.currentTask()
		if task == nil {
			return m, nil
		}
		m.mode = ModeForm
		m.editID = task.ID
		m.formInputs = newFormInputs(task)
		m.formFocus = formFieldTitle
		m.formStatus = task.Status
		m.formPriority = task.Priority
		m.formErr = ""
		return m, textinput.Blink

	case key.Matches(msg, keys.Done):
		task := m.currentTask()
		if task == nil {
			return m, nil
		}
		return m, m.toggleDoneCmd(*task)

	case key.Matches(msg, keys.Delete):
		if m.currentTask() != nil {
			m.mode = ModeConfirmDelete
		}

	case key.Matches(msg, keys.Stats):
		m.mode = ModeStats
		m.statsReady = false
		return m, m.statsCmd()

	case key.Matches(msg, keys.Logout):
		m.guard.Logout()
		m.screen = ScreenLogin
		m.authInputs = newAuthInputs(false)
		m.authFocus = 0
		m.authErr = ""
		return m, textinput.Blink

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Escape):
		if m.controller.Query().Search != "" {
			empty := ""
			m.controller.SetQuery(collection.Patch{Search: &empty})
			m.cursor = 0
		}
		m.message = ""
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := strings.TrimSpace(m.search.Value())
		m.controller.SetQuery(collection.Patch{Search: &text})
		m.mode = ModeNormal
		m.cursor = 0
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		task := m.currentTask()
		m.mode = ModeNormal
		if task == nil {
			return m, nil
		}
		return m, m.deleteCmd(task.ID)
	case "n", "N", "esc", "q":
		m.mode = ModeNormal
	}
	return m, nil
}

// handleAuthKeys drives the login and register forms
func (m Model) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.authBusy {
		return m, nil
	}

	switch msg.String() {
	case "ctrl+r":
		if m.screen == ScreenLogin {
			m.screen = ScreenRegister
			m.authInputs = newAuthInputs(true)
			m.authFocus = 0
			m.authErr = ""
		}
		return m, textinput.Blink
	case "ctrl+l":
		if m.screen == ScreenRegister {
			m.screen = ScreenLogin
			m.authInputs = newAuthInputs(false)
			m.authFocus = 0
			m.authErr = ""
		}
		return m, textinput.Blink
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.moveAuthFocus(1)
		return m, textinput.Blink
	case tea.KeyShiftTab, tea.KeyUp:
		m.moveAuthFocus(-1)
		return m, textinput.Blink
	case tea.KeyEnter:
		if m.authFocus < len(m.authInputs)-1 {
			m.moveAuthFocus(1)
			return m, textinput.Blink
		}
		return m.submitAuth()
	}

	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

func (m *Model) moveAuthFocus(delta int) {
	m.authInputs[m.authFocus].Blur()
	m.authFocus = (m.authFocus + delta + len(m.authInputs)) % len(m.authInputs)
	m.authInputs[m.authFocus].Focus()
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	if m.screen == ScreenLogin {
		username := strings.TrimSpace(m.authInputs[0].Value())
		password := m.authInputs[1].Value()
		if username == "" || password == "" {
			m.authErr = "Username and password are required"
			return m, nil
		}
		m.authBusy = true
		m.authErr = ""
		return m, m.loginCmd(username, password)
	}

	username := strings.TrimSpace(m.authInputs[0].Value())
	email := strings.TrimSpace(m.authInputs[1].Value())
	password := m.authInputs[2].Value()
	confirm := m.authInputs[3].Value()
	switch {
	case username == "" || email == "" || password == "":
		m.authErr = "All fields are required"
		return m, nil
	case len(password) < 8:
		m.authErr = "Password must be at least 8 characters"
		return m, nil
	case password != confirm:
		m.authErr = "Passwords do not match"
		return m, nil
	}
	m.authBusy = true
	m.authErr = ""
	return m, m.registerCmd(username, email, password)
}

// handleFormKeys drives the task create/edit form
func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.moveFormFocus(1)
		return m, textinput.Blink
	case tea.KeyShiftTab, tea.KeyUp:
		m.moveFormFocus(-1)
		return m, textinput.Blink
	case tea.KeyEnter:
		return m.submitForm()
	}

	if m.formFocus == formFieldStatus {
		switch msg.String() {
		case "left", "right", " ":
			m.formStatus = nextStatus(m.formStatus)
		}
		return m, nil
	}
	if m.formFocus == formFieldPriority {
		switch msg.String() {
		case "left", "right", " ":
			m.formPriority = nextPriority(m.formPriority)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m *Model) moveFormFocus(delta int) {
	if m.formFocus < len(m.formInputs) {
		m.formInputs[m.formFocus].Blur()
	}
	m.formFocus = (m.formFocus + delta + formFieldCount) % formFieldCount
	if m.formFocus < len(m.formInputs) {
		m.formInputs[m.formFocus].Focus()
	}
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.formInputs[formFieldTitle].Value())
	if title == "" {
		m.formErr = "Title is required"
		return m, nil
	}

	input := model.TaskInput{
		Title:       title,
		Description: strings.TrimSpace(m.formInputs[formFieldDescription].Value()),
		Status:      m.formStatus,
		Priority:    m.formPriority,
	}

	if raw := strings.TrimSpace(m.formInputs[formFieldDue].Value()); raw != "" {
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			m.formErr = "Due date must be YYYY-MM-DD"
			return m, nil
		}
		input.DueDate = &due
	}

	editID := m.editID
	m.mode = ModeNormal
	m.formErr = ""
	if editID == "" {
		return m, m.createCmd(input)
	}
	return m, m.updateCmd(editID, input)
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		return authResultMsg{err: m.guard.Login(context.Background(), username, password)}
	}
}

func (m Model) registerCmd(username, email, password string) tea.Cmd {
	return func() tea.Msg {
		return authResultMsg{err: m.guard.Register(context.Background(), username, email, password)}
	}
}

func (m Model) createCmd(input model.TaskInput) tea.Cmd {
	return func() tea.Msg {
		_, err := m.controller.Create(context.Background(), input)
		return mutationMsg{verb: "created", err: err}
	}
}

func (m Model) updateCmd(id string, input model.TaskInput) tea.Cmd {
	return func() tea.Msg {
		_, err := m.controller.Update(context.Background(), id, input)
		return mutationMsg{verb: "updated", err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.controller.Delete(context.Background(), id)
		return mutationMsg{verb: "deleted", err: err}
	}
}

func (m Model) toggleDoneCmd(task model.Task) tea.Cmd {
	input := model.TaskInput{
		Title:       task.Title,
		Description: task.Description,
		Status:      model.StatusDone,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
	}
	if task.Status == model.StatusDone {
		input.Status = model.StatusTodo
	}
	return func() tea.Msg {
		_, err := m.controller.Update(context.Background(), task.ID, input)
		return mutationMsg{verb: "updated", err: err}
	}
}

func (m Model) statsCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.client.Statistics(context.Background())
		return statsMsg{stats: stats, err: err}
	}
}

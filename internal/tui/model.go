package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/aymane70/taskman/internal/api"
	"github.com/aymane70/taskman/internal/collection"
	"github.com/aymane70/taskman/internal/config"
	"github.com/aymane70/taskman/internal/logger"
	"github.com/aymane70/taskman/internal/model"
	"github.com/aymane70/taskman/internal/session"
)

// Screen represents the top-level screen
type Screen int

const (
	ScreenGate Screen = iota
	ScreenLogin
	ScreenRegister
	ScreenTasks
)

// Mode represents the current UI mode within the tasks screen
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeForm
	ModeConfirmDelete
	ModeStats
	ModeHelp
)

// Auth form field indices
const (
	authFieldUsername = iota
	authFieldEmail
	authFieldPassword
	authFieldConfirm
)

// Task form field indices. Status and priority are cycled in place,
// the rest are text inputs.
const (
	formFieldTitle = iota
	formFieldDescription
	formFieldDue
	formFieldStatus
	formFieldPriority
	formFieldCount
)

// Model is the main TUI model
type Model struct {
	cfg        *config.Config
	guard      *session.Guard
	controller *collection.Controller
	client     *api.Client

	// UI state
	width  int
	height int
	screen Screen
	mode   Mode

	// Auth forms
	authInputs []textinput.Model
	authFocus  int
	authErr    string
	authBusy   bool

	// Task list
	cursor  int
	search  textinput.Model
	message string

	// Task form
	formInputs   []textinput.Model
	formFocus    int
	formStatus   model.Status
	formPriority model.Priority
	formErr      string
	editID       string

	// Statistics
	stats      model.Statistics
	statsErr   string
	statsReady bool
}

// NewModel creates a new TUI model
func NewModel(cfg *config.Config, guard *session.Guard, controller *collection.Controller, client *api.Client) Model {
	logger.Info("Initializing TUI model")

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 200
	search.Width = 40

	m := Model{
		cfg:        cfg,
		guard:      guard,
		controller: controller,
		client:     client,
		mode:       ModeNormal,
		search:     search,
	}

	switch guard.Decide() {
	case session.DecisionAllow:
		m.screen = ScreenTasks
	case session.DecisionLogin:
		m.screen = ScreenLogin
		m.authInputs = newAuthInputs(false)
	default:
		m.screen = ScreenGate
	}

	logger.Debug("TUI model initialized", logger.F("screen", int(m.screen)))
	return m
}

// newAuthInputs builds the input fields for the login or register form.
// Login uses username and password, register adds email and confirmation.
func newAuthInputs(register bool) []textinput.Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Width = 30
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 30
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	if !register {
		return []textinput.Model{username, password}
	}

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Width = 30

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.CharLimit = 128
	confirm.Width = 30
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '•'

	return []textinput.Model{username, email, password, confirm}
}

// newFormInputs builds the text inputs for the task form: title,
// description and due date.
func newFormInputs(task *model.Task) []textinput.Model {
	title := textinput.New()
	title.Placeholder = "What needs doing?"
	title.CharLimit = 200
	title.Width = 50
	title.Focus()

	description := textinput.New()
	description.Placeholder = "Optional details"
	description.CharLimit = 1000
	description.Width = 50

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD (optional)"
	due.CharLimit = 10
	due.Width = 50

	if task != nil {
		title.SetValue(task.Title)
		description.SetValue(task.Description)
		if task.DueDate != nil {
			due.SetValue(task.DueDate.Format("2006-01-02"))
		}
	}

	return []textinput.Model{title, description, due}
}

func (m *Model) currentTask() *model.Task {
	items := m.controller.Result().Items
	if m.cursor < len(items) {
		return &items[m.cursor]
	}
	return nil
}

func (m *Model) clampCursor() {
	count := len(m.controller.Result().Items)
	if count == 0 {
		m.cursor = 0
	} else if m.cursor >= count {
		m.cursor = count - 1
	}
}

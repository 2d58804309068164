package tui

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tendant/simple-profile/pkg/errors"
	"github.com/tendant/simple-profile/pkg/profile"
	"github.com/tendant/simple-profile/pkg/signup"
)

// Result tells the caller why the program ended.
type Result int

const (
	ResultNone Result = iota
	// ResultLogin means the account was created and the user should be
	// taken to the login screen.
	ResultLogin
	// ResultQuit means the user left without signing up.
	ResultQuit
)

func (r Result) String() string {
	switch r {
	case ResultLogin:
		return "login"
	case ResultQuit:
		return "quit"
	}
	return "none"
}

type submitResultMsg struct {
	state signup.State
	err   error
}

type pictureLoadedMsg struct {
	picture *profile.Picture
	err     error
}

type cancelledMsg struct{}

// Focus order: the seven form fields, then these.
const (
	focusPicture = iota + 7
	focusSave
	focusCancel
	focusCount
)

// routeRecorder is the navigator of the model's controller. Navigation
// happens on the submit goroutine and is read back on the update loop.
type routeRecorder struct {
	mu    sync.Mutex
	route signup.Route
}

func (r *routeRecorder) Navigate(ctx context.Context, route signup.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.route = route
	return nil
}

func (r *routeRecorder) take() signup.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	route := r.route
	r.route = ""
	return route
}

// Model is the bubbletea model of the signup screen.
type Model struct {
	controller *signup.Controller
	navigator  *routeRecorder
	ctx        context.Context

	fields      []signup.Field
	inputs      map[signup.Field]*textinput.Model
	picturePath textinput.Model
	genderIndex int

	focus      int
	submitting bool
	notice     string
	result     Result

	maxPictureBytes int64
	width           int
	height          int
	styles          styles
}

// Option is a functional option for configuring Model
type Option func(*modelOptions)

type modelOptions struct {
	controllerOpts  []signup.Option
	maxPictureBytes int64
	ctx             context.Context
	theme           Theme
}

func WithAccountService(s signup.AccountService) Option {
	return func(o *modelOptions) {
		o.controllerOpts = append(o.controllerOpts, signup.WithAccountService(s))
	}
}

func WithSubmissionRecorder(r signup.SubmissionRecorder) Option {
	return func(o *modelOptions) {
		o.controllerOpts = append(o.controllerOpts, signup.WithSubmissionRecorder(r))
	}
}

// WithMaxPictureBytes limits the size of pictures loaded from disk.
func WithMaxPictureBytes(n int64) Option {
	return func(o *modelOptions) {
		o.maxPictureBytes = n
	}
}

// WithContext sets the context submissions run under.
func WithContext(ctx context.Context) Option {
	return func(o *modelOptions) {
		o.ctx = ctx
	}
}

func WithTheme(theme Theme) Option {
	return func(o *modelOptions) {
		o.theme = theme
	}
}

// NewModel creates the signup screen with an empty form and the first
// field focused.
func NewModel(opts ...Option) Model {
	o := modelOptions{
		maxPictureBytes: profile.DefaultMaxBytes,
		ctx:             context.Background(),
		theme:           DefaultTheme,
	}
	for _, opt := range opts {
		opt(&o)
	}

	nav := &routeRecorder{}
	controllerOpts := append(append([]signup.Option{}, o.controllerOpts...), signup.WithNavigator(nav))

	m := Model{
		controller:      signup.NewController(controllerOpts...),
		navigator:       nav,
		ctx:             o.ctx,
		fields:          signup.Fields(),
		inputs:          make(map[signup.Field]*textinput.Model),
		genderIndex:     -1,
		maxPictureBytes: o.maxPictureBytes,
		styles:          newStyles(o.theme),
	}

	for _, f := range m.fields {
		if f == signup.FieldGender {
			continue
		}
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = f.Label()
		if f == signup.FieldPassword {
			input.EchoMode = textinput.EchoPassword
			input.EchoCharacter = '•'
		}
		m.inputs[f] = &input
	}
	m.picturePath = textinput.New()
	m.picturePath.Prompt = ""
	m.picturePath.Placeholder = "path/to/picture.png"

	m.applyFocus()
	return m
}

// Controller exposes the form state machine behind the screen.
func (m Model) Controller() *signup.Controller {
	return m.controller
}

// Result is set once the program has quit.
func (m Model) Result() Result {
	return m.result
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case submitResultMsg:
		return m.handleSubmitResult(msg)

	case pictureLoadedMsg:
		m.handlePicture(msg)
		return m, nil

	case cancelledMsg:
		m.syncInputs()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.result = ResultQuit
			return m, tea.Quit
		}
		if m.controller.Snapshot().HasError() {
			return m.handleModalKeys(msg)
		}
		return m.handleFormKeys(msg)
	}

	return m.updateFocusedInput(msg)
}

func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.controller.DismissError()
	}
	return m, nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.result = ResultQuit
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		m.moveFocus(1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.moveFocus(-1)
		return m, nil
	case tea.KeyCtrlS:
		return m.submit()
	case tea.KeyEnter:
		switch {
		case m.focus == focusSave:
			return m.submit()
		case m.focus == focusCancel:
			return m.cancel()
		case m.focus == focusPicture:
			return m, m.loadPicture()
		}
		m.moveFocus(1)
		return m, nil
	case tea.KeyLeft, tea.KeyRight:
		if m.focusedField() == signup.FieldGender {
			step := 1
			if msg.Type == tea.KeyLeft {
				step = -1
			}
			m.cycleGender(step)
			return m, nil
		}
		if m.focus == focusSave && msg.Type == tea.KeyRight {
			m.moveFocus(1)
			return m, nil
		}
		if m.focus == focusCancel && msg.Type == tea.KeyLeft {
			m.moveFocus(-1)
			return m, nil
		}
	}

	return m.updateFocusedInput(msg)
}

// updateFocusedInput forwards msg to the focused text input and copies the
// new value into the controller.
func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus == focusPicture {
		var cmd tea.Cmd
		m.picturePath, cmd = m.picturePath.Update(msg)
		return m, cmd
	}

	f := m.focusedField()
	input, ok := m.inputs[f]
	if !ok {
		return m, nil
	}
	if _, isKey := msg.(tea.KeyMsg); isKey && !m.controller.Snapshot().CanSubmit() {
		return m, nil
	}

	previous := input.Value()
	updated, cmd := input.Update(msg)
	*input = updated
	if value := input.Value(); value != previous {
		if err := m.controller.UpdateField(f, value); err != nil {
			slog.Warn("Field update rejected", "field", f, "error", err)
			input.SetValue(previous)
		}
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting || !m.controller.Snapshot().CanSubmit() {
		return m, nil
	}
	m.submitting = true
	m.notice = ""

	controller, ctx := m.controller, m.ctx
	return m, func() tea.Msg {
		state, err := controller.Submit(ctx)
		return submitResultMsg{state: state, err: err}
	}
}

func (m Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if msg.err != nil {
		if errors.IsCode(msg.err, errors.ErrCodeSubmitInProgress) {
			return m, nil
		}
		slog.Error("Signup submit failed", "state", msg.state, "error", msg.err)
		m.notice = msg.err.Error()
	}

	if msg.state == signup.StateSuccess {
		if route := m.navigator.take(); route == signup.RouteLogin {
			m.result = ResultLogin
			return m, tea.Quit
		}
	}
	m.syncInputs()
	return m, nil
}

func (m Model) cancel() (tea.Model, tea.Cmd) {
	m.notice = ""
	if m.submitting {
		controller := m.controller
		return m, func() tea.Msg {
			controller.Cancel()
			return cancelledMsg{}
		}
	}
	m.controller.Cancel()
	m.syncInputs()
	return m, nil
}

func (m Model) loadPicture() tea.Cmd {
	path := strings.TrimSpace(m.picturePath.Value())
	if path == "" {
		return func() tea.Msg { return pictureLoadedMsg{} }
	}
	maxBytes := m.maxPictureBytes
	return func() tea.Msg {
		pic, err := profile.Load(path, maxBytes)
		return pictureLoadedMsg{picture: pic, err: err}
	}
}

func (m *Model) handlePicture(msg pictureLoadedMsg) {
	if msg.err != nil {
		slog.Warn("Failed to load profile picture", "error", msg.err)
		m.notice = msg.err.Error()
		return
	}
	m.controller.SetProfilePicture(msg.picture)
	m.notice = ""
	if msg.picture == nil {
		m.picturePath.SetValue("")
	}
}

func (m *Model) cycleGender(step int) {
	if !m.controller.Snapshot().CanSubmit() {
		return
	}
	n := len(signup.GenderOptions)
	next := m.genderIndex + step
	switch {
	case m.genderIndex < 0 && step < 0:
		next = n - 1
	case next < 0:
		next = n - 1
	case next >= n:
		next = 0
	}
	if err := m.controller.UpdateField(signup.FieldGender, signup.GenderOptions[next]); err != nil {
		slog.Warn("Field update rejected", "field", signup.FieldGender, "error", err)
		return
	}
	m.genderIndex = next
}

// syncInputs copies the controller's form back into the inputs, after a
// reset or a successful submission.
func (m *Model) syncInputs() {
	snap := m.controller.Snapshot()
	for f, input := range m.inputs {
		input.SetValue(snap.Form.Get(f))
	}
	m.genderIndex = -1
	for i, option := range signup.GenderOptions {
		if option == snap.Form.Gender {
			m.genderIndex = i
		}
	}
	if snap.ProfilePicture == nil {
		m.picturePath.SetValue("")
	}
}

func (m *Model) moveFocus(step int) {
	m.focus = (m.focus + step + focusCount) % focusCount
	m.applyFocus()
}

func (m *Model) applyFocus() {
	focused := m.focusedField()
	for f, input := range m.inputs {
		if f == focused {
			input.Focus()
		} else {
			input.Blur()
		}
	}
	if m.focus == focusPicture {
		m.picturePath.Focus()
	} else {
		m.picturePath.Blur()
	}
}

func (m Model) focusedField() signup.Field {
	if m.focus < len(m.fields) {
		return m.fields[m.focus]
	}
	return ""
}

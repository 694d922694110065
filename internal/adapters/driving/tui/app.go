package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/views/chunks"
	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/views/menu"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView      *menu.View
	chatView      *chat.View
	documentsView *documents.View
	chunksView    *chunks.View
	statusBar     *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		menuView:      menu.NewView(s),
		chatView:      chat.NewView(s, km, ports.Ask, ports.Feedback),
		documentsView: documents.NewView(s, ports.Documents),
		chunksView:    chunks.NewView(s, ports.Documents),
		statusBar:     status.NewBar(s, km),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("codeaid"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.routeKey(msg)

	case messages.ViewChanged:
		return a, a.changeView(msg.View)

	case messages.AnswerReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		a.syncStatus()
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, cmd

	case messages.FeedbackSubmitted:
		a.chatView, cmd = a.chatView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
		} else {
			a.statusBar.SetMessage(fmt.Sprintf("Rated %d/5", msg.Rating))
		}
		return a, cmd

	case messages.DocumentsLoaded, messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		a.err = a.documentsView.Err()
		return a, cmd

	case messages.DocumentSelected:
		a.currentView = messages.ViewChunks
		return a, a.chunksView.SetDocument(msg.Document)

	case messages.ChunksLoaded:
		a.chunksView, cmd = a.chunksView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, cmd

	case spinner.TickMsg:
		a.statusBar, cmd = a.statusBar.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewChunks:
			a.chunksView, cmd = a.chunksView.Update(msg)
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewChat {
		a.chatView, cmd = a.chatView.Update(msg)
	}
	return a, cmd
}

// routeKey forwards a key press to the active view.
func (a *App) routeKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)

	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
		if a.chatView.Pending() && a.statusBar.State() != status.StateThinking {
			cmd = tea.Batch(cmd, a.statusBar.SetState(status.StateThinking))
		} else {
			a.syncStatus()
		}

	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)

	case messages.ViewChunks:
		a.chunksView, cmd = a.chunksView.Update(msg)

	case messages.ViewHelp:
		switch msg.String() {
		case "esc":
			a.currentView = messages.ViewMenu
		case "q":
			cmd = tea.Quit
		}
	}
	return cmd
}

func (a *App) changeView(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewChat:
		a.syncStatus()
		return a.chatView.Init()
	case messages.ViewDocuments:
		a.statusBar.Clear()
		a.statusBar.SetState(status.StateDocuments)
		return a.documentsView.Load()
	case messages.ViewMenu, messages.ViewHelp, messages.ViewChunks:
		a.statusBar.Clear()
	}
	return nil
}

// syncStatus mirrors the chat view's state into the status bar.
func (a *App) syncStatus() {
	switch {
	case a.chatView.Pending():
		return
	case a.chatView.InputFocused():
		a.statusBar.SetState(status.StateReady)
	default:
		a.statusBar.SetState(status.StateTranscript)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChat:
		return a.chatView.View() + "\n" + a.statusBar.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewChunks:
		return a.chunksView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the keybindings grouped as in the full help.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// StatusState returns the status bar state.
func (a *App) StatusState() status.State {
	return a.statusBar.State()
}

// Turns returns the chat transcript.
func (a *App) Turns() []chat.Turn {
	return a.chatView.Turns()
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	// One line for the status bar.
	a.chatView.SetDimensions(width, height-1)
	a.documentsView.SetDimensions(width, height)
	a.chunksView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}

// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
)

// ErrNoFeedbackService is reported when rating without a feedback service.
var ErrNoFeedbackService = errors.New("feedback service not available")

// Turn is one question and its answer in the transcript.
type Turn struct {
	Question string
	Answer   *domain.Answer
	Err      error
	Rating   int
}

// View is the chat view.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	askService      driving.AskService
	feedbackService driving.FeedbackService

	input      *input.QuestionInput
	transcript viewport.Model
	turns      []Turn
	pending    bool
	focusInput bool
	err        error
	width      int
	height     int
	ready      bool
}

// NewView creates a chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	askService driving.AskService,
	feedbackService driving.FeedbackService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	v := &View{
		styles:          s,
		keymap:          km,
		askService:      askService,
		feedbackService: feedbackService,
		input:           input.NewQuestionInput(s),
		transcript:      viewport.New(80, 16),
		focusInput:      true,
		width:           80,
		height:          24,
	}
	v.refresh()
	return v
}

// Init starts the input cursor.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.focusInput {
			return v.handleInputKey(msg)
		}
		return v.handleTranscriptKey(msg)

	case messages.AnswerReceived:
		v.pending = false
		if n := len(v.turns); n > 0 && v.turns[n-1].Answer == nil && v.turns[n-1].Err == nil {
			v.turns[n-1].Answer = msg.Answer
			v.turns[n-1].Err = msg.Err
		}
		v.refresh()
		v.transcript.GotoBottom()
		return v, nil

	case messages.FeedbackSubmitted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		for i := range v.turns {
			if a := v.turns[i].Answer; a != nil && a.ID == msg.MessageID {
				v.turns[i].Rating = msg.Rating
			}
		}
		v.refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return v, v.submit()
	case "tab":
		v.setFocus(false)
		return v, nil
	case "esc":
		return v, changeView(messages.ViewMenu)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleTranscriptKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case key == "tab" || key == "i":
		v.setFocus(true)
		return v, v.input.Focus()
	case key == "esc":
		return v, changeView(messages.ViewMenu)
	case key == "q":
		return v, tea.Quit
	case keymap.Matches(key, v.keymap.Rate):
		rating, _ := strconv.Atoi(key)
		return v, v.rateLast(rating)
	}

	var cmd tea.Cmd
	v.transcript, cmd = v.transcript.Update(msg)
	return v, cmd
}

// submit starts answering the typed question. Blank input and a question
// already in flight are ignored.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.pending {
		return nil
	}
	if v.askService == nil {
		v.err = errors.New("ask service not available")
		return nil
	}

	v.pending = true
	v.err = nil
	v.turns = append(v.turns, Turn{Question: question})
	v.input.Reset()
	v.refresh()
	v.transcript.GotoBottom()

	svc := v.askService
	return func() tea.Msg {
		answer, err := svc.AnswerQuestion(context.Background(), question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// rateLast submits feedback for the most recent answer.
func (v *View) rateLast(rating int) tea.Cmd {
	var answer *domain.Answer
	for i := len(v.turns) - 1; i >= 0; i-- {
		if v.turns[i].Answer != nil {
			answer = v.turns[i].Answer
			break
		}
	}
	if answer == nil {
		return nil
	}
	if v.feedbackService == nil {
		v.err = ErrNoFeedbackService
		return nil
	}

	svc := v.feedbackService
	id := answer.ID
	return func() tea.Msg {
		_, err := svc.Submit(context.Background(), id, rating, "")
		return messages.FeedbackSubmitted{MessageID: id, Rating: rating, Err: err}
	}
}

func (v *View) setFocus(onInput bool) {
	v.focusInput = onInput
	if !onInput {
		v.input.Blur()
	}
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// refresh re-renders the transcript into the viewport.
func (v *View) refresh() {
	v.transcript.SetContent(v.renderTranscript())
}

func (v *View) renderTranscript() string {
	if len(v.turns) == 0 {
		return v.styles.Muted.Render("Ask a question about your uploaded documents.")
	}

	width := max(v.width-4, 20)
	var b strings.Builder
	for i := range v.turns {
		t := &v.turns[i]
		b.WriteString(v.styles.Question.Width(width).Render("You: " + t.Question))
		b.WriteString("\n")

		switch {
		case t.Err != nil:
			b.WriteString(v.styles.Error.Width(width).Render("Error: " + t.Err.Error()))
			b.WriteString("\n")
		case t.Answer == nil:
			b.WriteString(v.styles.Muted.Render("  ..."))
			b.WriteString("\n")
		default:
			b.WriteString(v.styles.Answer.Width(width).Render(t.Answer.Answer))
			b.WriteString("\n")
			for j, src := range t.Answer.Sources {
				b.WriteString(v.styles.Source.Render(fmt.Sprintf("[%d] %s  chunk %d  score %.2f",
					j+1, src.Document.Filename, src.Chunk.Position, src.Score)))
				b.WriteString("\n")
			}
			if t.Rating > 0 {
				b.WriteString(v.styles.Success.Render(fmt.Sprintf("  Rated %d/5", t.Rating)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Ask CodeAid"))
	b.WriteString("\n\n")
	b.WriteString(v.transcript.View())
	b.WriteString("\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	}

	b.WriteString(v.input.View())
	b.WriteString("\n")

	help := "[Enter] Ask  [Tab] Transcript  [Esc] Menu"
	if !v.focusInput {
		help = "[j/k] Scroll  [1-5] Rate last answer  [Tab/i] Input  [Esc] Menu"
	}
	b.WriteString(v.styles.Help.Render(help))

	return b.String()
}

// SetDimensions sets the view dimensions and resizes the transcript.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	// Title, input box, error and help lines.
	v.transcript.Width = width
	v.transcript.Height = max(height-9, 3)
	v.refresh()
}

// Turns returns the transcript.
func (v *View) Turns() []Turn {
	return v.turns
}

// Pending reports whether an answer is in flight.
func (v *View) Pending() bool {
	return v.pending
}

// InputFocused reports whether keystrokes go to the question input.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// SetQuestion prefills the input.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

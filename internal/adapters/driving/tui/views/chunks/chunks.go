// Package chunks provides a scrolling view of one document's chunks.
package chunks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
)

// View is the chunk content view.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService

	document     *domain.Document
	chunks       []domain.Chunk
	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
}

// NewView creates a new chunks view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		width:           80,
		height:          24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetDocument sets the document and returns the command that loads its chunks.
func (v *View) SetDocument(doc domain.Document) tea.Cmd {
	v.document = &doc
	v.chunks = nil
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true

	svc := v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.ChunksLoaded{DocumentID: doc.ID, Err: errors.New("document service not available")}
		}
		chunks, err := svc.Chunks(context.Background(), doc.ID)
		return messages.ChunksLoaded{DocumentID: doc.ID, Chunks: chunks, Err: err}
	}
}

// Update handles messages for the chunks view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ChunksLoaded:
		if v.document == nil || msg.DocumentID != v.document.ID {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.chunks = msg.Chunks
		v.err = nil
		v.layout()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case "pgdown", "ctrl+d":
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	}
	return v, nil
}

// layout renders every chunk under a position header and wraps the result
// to the view width.
func (v *View) layout() {
	if len(v.chunks) == 0 {
		v.lines = nil
		return
	}

	width := max(v.width-4, 20)
	v.lines = v.lines[:0]
	for i := range v.chunks {
		c := &v.chunks[i]
		v.lines = append(v.lines, v.styles.Subtitle.Render(
			fmt.Sprintf("Chunk %d  (%d characters)", c.Position, len([]rune(c.Content)))))
		for _, raw := range strings.Split(c.Content, "\n") {
			v.lines = append(v.lines, wrap(raw, width)...)
		}
		v.lines = append(v.lines, "")
	}
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

// wrap splits line into pieces of at most width runes.
func wrap(line string, width int) []string {
	r := []rune(line)
	if len(r) <= width {
		return []string{line}
	}
	out := make([]string, 0, len(r)/width+1)
	for len(r) > width {
		out = append(out, string(r[:width]))
		r = r[width:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}

func (v *View) visibleLines() int {
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the chunks view.
func (v *View) View() string {
	var b strings.Builder

	title := "Chunks"
	if v.document != nil {
		title = fmt.Sprintf("Chunks - %s (%d)", v.document.Filename, len(v.chunks))
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading chunks..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("No chunks."))
	default:
		end := min(v.scrollOffset+v.visibleLines(), len(v.lines))
		for _, line := range v.lines[v.scrollOffset:end] {
			b.WriteString(line)
			b.WriteString("\n")
		}
		if len(v.lines) > v.visibleLines() {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("[%d-%d of %d lines]",
				v.scrollOffset+1, end, len(v.lines))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Scroll  [g/G] Top/Bottom  [Esc] Back"))

	return b.String()
}

// SetDimensions sets the view dimensions and rewraps the content.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.layout()
}

// Document returns the document being shown.
func (v *View) Document() *domain.Document {
	return v.document
}

// Chunks returns the loaded chunks.
func (v *View) Chunks() []domain.Chunk {
	return v.chunks
}

// ScrollOffset returns the current scroll position.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

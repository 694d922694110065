// Package documents provides the documents list view component for the TUI.
package documents

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

var errNoDocumentService = errors.New("document service not available")

// View is the documents list view.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService

	documents     []domain.DocumentSummary
	selected      int
	width         int
	height        int
	ready         bool
	err           error
	loading       bool
	confirmDelete bool
	scrollOffset  int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		documents:       []domain.DocumentSummary{},
		width:           80,
		height:          24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load resets the selection and returns the command that fetches documents.
func (v *View) Load() tea.Cmd {
	v.selected = 0
	v.scrollOffset = 0
	v.err = nil
	v.confirmDelete = false
	v.loading = true
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	svc := v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: errNoDocumentService}
		}
		docs, err := svc.List(context.Background())
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

func (v *View) deleteDocument(id string) tea.Cmd {
	svc := v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentDeleted{DocumentID: id, Err: errNoDocumentService}
		}
		return messages.DocumentDeleted{DocumentID: id, Err: svc.Delete(context.Background(), id)}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirmDelete {
			return v.handleConfirmKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.documents = msg.Documents
		v.err = nil
		if v.selected >= len(v.documents) {
			v.selected = max(len(v.documents)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.loading = true
		return v, v.loadDocuments()

	case messages.ErrorOccurred:
		v.err = msg.Err
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if doc, ok := v.SelectedDocument(); ok {
			return v, func() tea.Msg {
				return messages.DocumentSelected{Document: doc.Document}
			}
		}
	case "d":
		if len(v.documents) > 0 {
			v.confirmDelete = true
		}
	case "r":
		v.loading = true
		return v, v.loadDocuments()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

// handleConfirmKey deletes on y and cancels on anything else.
func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.confirmDelete = false
	if msg.String() != "y" {
		return v, nil
	}
	doc, ok := v.SelectedDocument()
	if !ok {
		return v, nil
	}
	return v, v.deleteDocument(doc.ID)
}

// adjustScroll keeps the selected item visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	// Title, separator, help and padding.
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents uploaded yet."))
	default:
		visible := v.visibleItemCount()
		end := min(v.scrollOffset+visible, len(v.documents))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderDocument(i, &v.documents[i]))
			b.WriteString("\n")
		}
		if len(v.documents) > visible {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1, end, len(v.documents))))
			b.WriteString("\n")
		}
		if v.confirmDelete {
			doc := v.documents[v.selected]
			b.WriteString("\n")
			b.WriteString(v.styles.Warning.Render(
				fmt.Sprintf("Delete %s and its %d chunks? [y/N]", doc.Filename, doc.ChunkCount)))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Chunks  [d] Delete  [r] Reload  [Esc] Back"))

	return b.String()
}

func (v *View) renderDocument(index int, doc *domain.DocumentSummary) string {
	indicator := "  "
	name := v.styles.Normal.Render(truncate(doc.Filename, max(v.width/2, 10)))
	if index == v.selected {
		indicator = "> "
		name = v.styles.Selected.Render(truncate(doc.Filename, max(v.width/2, 10)))
	}

	meta := fmt.Sprintf("%d chunks  %s  %s",
		doc.ChunkCount, formatSize(doc.FileSize), doc.UploadedAt.Format("2006-01-02 15:04"))
	return indicator + name + "  " + v.styles.Muted.Render(meta)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// formatSize renders a byte count in human units.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// SelectedDocument returns the highlighted document.
func (v *View) SelectedDocument() (domain.DocumentSummary, bool) {
	if v.selected < 0 || v.selected >= len(v.documents) {
		return domain.DocumentSummary{}, false
	}
	return v.documents[v.selected], true
}

// Documents returns the loaded documents.
func (v *View) Documents() []domain.DocumentSummary {
	return v.documents
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

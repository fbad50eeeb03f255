package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/curator/pkg/curator/ledger"
	"github.com/jamesainslie/curator/pkg/curator/types"
)

// SessionState represents the current state of the review session.
type SessionState int

const (
	StateList SessionState = iota
	StateConfirm
	StateDone
)

// Options configures the review session.
type Options struct {
	Ledger    *ledger.Ledger
	VaultPath string
}

// keyMap defines the session key bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Review   key.Binding
	Unreview key.Binding
	Random   key.Binding
	ShowAll  key.Binding
	Bar      key.Binding
	Delete   key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k")),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	Review:   key.NewBinding(key.WithKeys("r")),
	Unreview: key.NewBinding(key.WithKeys("u")),
	Random:   key.NewBinding(key.WithKeys("x")),
	ShowAll:  key.NewBinding(key.WithKeys("a")),
	Bar:      key.NewBinding(key.WithKeys("s")),
	Delete:   key.NewBinding(key.WithKeys("d")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc")),
}

// row is one file line in the review list.
type row struct {
	path   string
	status types.Status
}

// Model is the Bubble Tea model for the review session.
type Model struct {
	ledger    *ledger.Ledger
	vaultPath string

	state   SessionState
	rows    []row
	cursor  int
	showAll bool

	statusMsg string
	finalMsg  string

	// Confirmation dialog state
	confirmFocused int // 0 = cancel, 1 = delete

	width  int
	height int
}

// NewModel creates a review session model.
func NewModel(opts Options) Model {
	m := Model{
		ledger:    opts.Ledger,
		vaultPath: opts.VaultPath,
		state:     StateList,
		width:     80,
		height:    24,
	}
	m.reload()
	return m
}

// reload rebuilds the visible rows from the ledger snapshot.
func (m *Model) reload() {
	m.rows = m.rows[:0]

	snap := m.ledger.Snapshot()
	if snap == nil {
		return
	}

	for _, rec := range snap.Files {
		if !m.showAll && rec.Status != types.StatusToReview {
			continue
		}
		m.rows = append(m.rows, row{path: rec.Path, status: rec.Status})
	}

	sort.Slice(m.rows, func(i, j int) bool {
		return m.rows[i].path < m.rows[j].path
	})

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case StateList:
		return m.handleListKey(msg)
	case StateConfirm:
		return m.handleConfirmKey(msg)
	case StateDone:
		return m, tea.Quit
	}
	return m, nil
}

// handleListKey handles keys in the file list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Review):
		m.setStatus(true)

	case key.Matches(msg, keys.Unreview):
		m.setStatus(false)

	case key.Matches(msg, keys.Random):
		m.jumpRandom()

	case key.Matches(msg, keys.ShowAll):
		m.showAll = !m.showAll
		m.reload()

	case key.Matches(msg, keys.Bar):
		show := !m.ledger.Settings().ShowStatusBar
		if err := m.ledger.SetShowStatusBar(show); err != nil {
			m.statusMsg = err.Error()
		}

	case key.Matches(msg, keys.Delete):
		if m.ledger.HasSnapshot() {
			m.state = StateConfirm
			m.confirmFocused = 0 // Default to cancel
		}
	}

	return m, nil
}

// setStatus marks the file under the cursor reviewed or to-review.
func (m *Model) setStatus(reviewed bool) {
	if len(m.rows) == 0 {
		return
	}

	path := m.rows[m.cursor].path
	var err error
	if reviewed {
		_, err = m.ledger.Review(path)
	} else {
		_, err = m.ledger.Unreview(path)
	}
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.reload()
}

// jumpRandom moves the cursor to a uniformly chosen unreviewed file.
func (m *Model) jumpRandom() {
	rec, err := m.ledger.PickRandom()
	if err != nil {
		if errors.Is(err, ledger.ErrNothingToReview) {
			m.statusMsg = "nothing left to review"
		} else {
			m.statusMsg = err.Error()
		}
		return
	}

	for i, r := range m.rows {
		if r.path == rec.Path {
			m.cursor = i
			return
		}
	}
}

// handleConfirmKey handles keys in the delete confirmation dialog.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "n":
		m.state = StateList
	case "left", "h":
		m.confirmFocused = 0
	case "right", "l":
		m.confirmFocused = 1
	case "tab":
		m.confirmFocused = (m.confirmFocused + 1) % 2
	case "enter":
		if m.confirmFocused == 1 {
			return m.deleteSnapshot()
		}
		m.state = StateList
	case "y":
		// Shortcut for yes
		return m.deleteSnapshot()
	}
	return m, nil
}

// deleteSnapshot resolves the confirmed snapshot deletion.
func (m Model) deleteSnapshot() (tea.Model, tea.Cmd) {
	pending, err := m.ledger.RequestDeleteSnapshot()
	if err != nil {
		m.statusMsg = err.Error()
		m.state = StateList
		return m, nil
	}

	if _, err := pending.Resolve(true); err != nil {
		m.statusMsg = err.Error()
		m.state = StateList
		return m, nil
	}

	m.state = StateDone
	m.finalMsg = "Snapshot deleted"
	return m, tea.Quit
}

// View renders the current state.
func (m Model) View() string {
	switch m.state {
	case StateConfirm:
		return m.renderConfirmDialog()
	case StateDone:
		return successTextStyle.Render(m.finalMsg) + "\n"
	default:
		return m.renderList()
	}
}

// renderList renders the review list with header, status bar, and hints.
func (m Model) renderList() string {
	contentWidth := m.width - 4

	var b strings.Builder
	b.WriteString(titleStyle.Render("  curator"))
	b.WriteString(mutedTextStyle.Render("  " + truncatePath(m.vaultPath, contentWidth-12)))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	if !m.ledger.HasSnapshot() {
		b.WriteString(mutedTextStyle.Render("  No snapshot. Run 'curator snapshot create' first."))
		b.WriteString("\n")
		return outerBoxStyle.Width(m.width - 2).Render(b.String())
	}

	if len(m.rows) == 0 {
		if m.showAll {
			b.WriteString(mutedTextStyle.Render("  No files tracked"))
		} else {
			b.WriteString(successTextStyle.Render("  All caught up — nothing to review"))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderRows(contentWidth))
	}

	if m.statusMsg != "" {
		b.WriteString(errorTextStyle.Render("  " + m.statusMsg))
		b.WriteString("\n")
	}

	if m.ledger.Settings().ShowStatusBar {
		b.WriteString(m.renderStatusBar(contentWidth))
		b.WriteString("\n")
	}

	b.WriteString(m.renderKeyHints())
	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderRows renders the visible window of the file list.
func (m Model) renderRows(contentWidth int) string {
	visible := m.height - 10
	if visible < 3 {
		visible = 3
	}

	offset := 0
	if m.cursor >= visible {
		offset = m.cursor - visible + 1
	}

	var b strings.Builder
	for i := offset; i < len(m.rows) && i < offset+visible; i++ {
		r := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		line := fmt.Sprintf("%s %s", statusMark(r.status), truncatePath(r.path, contentWidth-8))
		if i == m.cursor {
			line = selectedItemStyle.Render(line)
		} else {
			line = normalItemStyle.Render(line)
		}

		b.WriteString("  " + cursor + line + "\n")
	}
	return b.String()
}

// statusMark returns the styled marker for a review status.
func statusMark(s types.Status) string {
	switch s {
	case types.StatusReviewed:
		return reviewedMarkStyle.Render("[✓]")
	case types.StatusDeleted:
		return deletedMarkStyle.Render("[✗]")
	default:
		return toReviewMarkStyle.Render("[ ]")
	}
}

// renderStatusBar renders the per-status counts bar.
func (m Model) renderStatusBar(contentWidth int) string {
	snap := m.ledger.Snapshot()
	if snap == nil {
		return ""
	}

	bar := fmt.Sprintf(" %s to review  %s reviewed  %s deleted ",
		statusCountStyle.Render(fmt.Sprintf("%d", snap.Count(types.StatusToReview))),
		statusCountStyle.Render(fmt.Sprintf("%d", snap.Count(types.StatusReviewed))),
		statusCountStyle.Render(fmt.Sprintf("%d", snap.Count(types.StatusDeleted))))

	return "  " + statusBarStyle.Width(contentWidth-2).Render(bar)
}

// renderKeyHints renders the bottom key hint line.
func (m Model) renderKeyHints() string {
	hints := []struct{ key, desc string }{
		{"r", "review"},
		{"u", "unreview"},
		{"x", "random"},
		{"a", "show all"},
		{"s", "bar"},
		{"d", "delete snapshot"},
		{"q", "quit"},
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.key)+" "+keyDescStyle.Render(h.desc))
	}
	return "  " + strings.Join(parts, "  ")
}

// renderConfirmDialog renders the snapshot deletion confirmation dialog.
func (m Model) renderConfirmDialog() string {
	var content strings.Builder
	content.WriteString(dialogTitleStyle.Render("Delete Snapshot"))
	content.WriteString("\n\n")

	tracked := 0
	if snap := m.ledger.Snapshot(); snap != nil {
		tracked = len(snap.Files)
	}
	content.WriteString(dialogTextStyle.Render(
		fmt.Sprintf("Discard review state for %d tracked files?", tracked)))
	content.WriteString("\n\n")

	cancelBtn := inactiveButtonStyle.Render("Cancel")
	deleteBtn := inactiveButtonStyle.Render("Delete")
	if m.confirmFocused == 0 {
		cancelBtn = activeButtonStyle.Background(subtleColor).Render("Cancel")
	} else {
		deleteBtn = activeButtonStyle.Render("Delete")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, cancelBtn, "  ", deleteBtn)
	content.WriteString(center(buttons, 46))

	return dialogBoxStyle.Render(content.String())
}

// Run starts the review session.
func Run(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(Model); ok && m.finalMsg != "" {
		fmt.Println(m.finalMsg)
	}
	return nil
}

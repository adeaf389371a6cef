// Package ui is the terminal front end for the slideshow editor: a layers
// panel over the current slide's visible element set, ordered by stacking
// rank, with keyboard-driven reordering. All stacking decisions live in
// pkg/editor and pkg/zorder; this package only renders state and maps keys
// to session operations.
package ui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/openstream-dk/openstream/pkg/config"
	"github.com/openstream-dk/openstream/pkg/debug"
	"github.com/openstream-dk/openstream/pkg/editor"
	"github.com/openstream-dk/openstream/pkg/model"
)

// focus represents which UI element has keyboard focus.
type focus int

const (
	focusLayers focus = iota
	focusNewElement
	focusRename
	focusDeleteConfirm
	focusQuitConfirm
)

// ShowUpdatedMsg carries a replacement slideshow pushed by the live channel.
type ShowUpdatedMsg struct {
	Show *model.Slideshow
}

// Model is the bubbletea model for the editor.
type Model struct {
	session *editor.Session
	theme   Theme
	cfg     config.UIConfig

	width  int
	height int
	focus  focus
	cursor int // index into the ranked layer list
	status string
	errMsg string

	// Form values live behind pointers so huh's bindings survive the model
	// being copied between Update calls.
	form     *huh.Form
	formType *model.ElementType
	formName *string

	rename textinput.Model

	// OnChange receives drained changed elements after every mutation.
	// The command layer wires this to the backend PATCH; nil means
	// local-only editing.
	OnChange func([]*model.Element)
}

// New creates the editor UI over an editing session.
func New(session *editor.Session, cfg config.UIConfig) Model {
	return Model{
		session: session,
		theme:   DefaultTheme(),
		cfg:     cfg,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case ShowUpdatedMsg:
		if msg.Show != nil {
			m.session = editor.New(msg.Show, m.session.Options())
			m.cursor = 0
			m.status = "slideshow updated from server"
		}
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case focusQuitConfirm:
			return m.updateQuitConfirm(msg)
		case focusNewElement:
			return m.updateForm(msg)
		case focusRename:
			return m.updateRename(msg)
		case focusDeleteConfirm:
			return m.updateDeleteConfirm(msg)
		default:
			return m.updateLayers(msg)
		}
	}

	if m.focus == focusNewElement && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) updateLayers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errMsg = ""
	switch msg.String() {
	case "q", "ctrl+c":
		if m.session.Dirty() {
			m.focus = focusQuitConfirm
			return m, nil
		}
		return m, tea.Quit

	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)

	case "J":
		m.apply("raised", m.session.Raise)
	case "K":
		m.apply("lowered", m.session.Lower)
	case "f":
		m.apply("brought to front", m.session.BringToFront)
	case "b":
		m.apply("sent to back", m.session.SendToBack)
	case "a":
		m.apply("toggled always-on-top", m.session.ToggleAlwaysOnTop)
	case "p":
		m.apply("toggled pin", m.session.TogglePersistent)
	case "d":
		if m.cfg.ConfirmDelete && m.session.Selected() != nil {
			m.focus = focusDeleteConfirm
			return m, nil
		}
		m.apply("deleted", m.session.DeleteSelected)
		m.clampCursor()

	case "u":
		m.apply("undone", m.session.Undo)
		m.clampCursor()
	case "r":
		m.apply("redone", m.session.Redo)
		m.clampCursor()

	case "tab", "l", "right":
		m.session.NextSlide()
		m.cursor = 0
		m.syncSelection()
	case "shift+tab", "h", "left":
		m.session.PrevSlide()
		m.cursor = 0
		m.syncSelection()

	case "y":
		m.copySelected()

	case "e":
		m.openRename()

	case "n":
		m.openNewElementForm()
		return m, m.form.Init()
	}
	return m, nil
}

func (m *Model) updateQuitConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "q", "enter":
		return *m, tea.Quit
	case "n", "esc":
		m.focus = focusLayers
	}
	return *m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		if el, err := m.session.AddElement(*m.formType, *m.formName); err != nil {
			m.errMsg = err.Error()
		} else {
			m.status = fmt.Sprintf("added %s", el)
			m.cursorToSelection()
			m.persist()
		}
		m.focus = focusLayers
		m.form = nil
		return m, nil
	case huh.StateAborted:
		m.focus = focusLayers
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// apply runs a session operation and routes the outcome to the status line.
func (m *Model) apply(verb string, op func() error) {
	if err := op(); err != nil {
		switch {
		case errors.Is(err, editor.ErrNoSelection),
			errors.Is(err, editor.ErrNothingToUndo),
			errors.Is(err, editor.ErrNothingToRedo):
			m.status = err.Error()
		default:
			m.errMsg = err.Error()
		}
		return
	}
	m.status = verb
	m.cursorToSelection()
	m.persist()
}

// persist drains changed elements to the change sink.
func (m *Model) persist() {
	changed := m.session.Drain()
	if len(changed) == 0 {
		return
	}
	debug.Log("ui: %d changed elements", len(changed))
	if m.OnChange != nil {
		m.OnChange(changed)
	}
}

func (m *Model) moveCursor(delta int) {
	ranked := m.session.Ranked()
	if len(ranked) == 0 {
		return
	}
	// First press selects the cursor row without moving.
	if m.session.Selected() == nil {
		m.clampCursor()
		m.session.Select(ranked[m.cursor].ID)
		return
	}
	m.cursor += delta
	m.clampCursor()
	m.session.Select(ranked[m.cursor].ID)
}

func (m *Model) clampCursor() {
	n := len(m.session.Ranked())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

// cursorToSelection moves the cursor to follow the selected element after a
// reorder changed its rank.
func (m *Model) cursorToSelection() {
	sel := m.session.Selected()
	if sel == nil {
		m.clampCursor()
		return
	}
	for i, el := range m.session.Ranked() {
		if el.ID == sel.ID {
			m.cursor = i
			return
		}
	}
}

// syncSelection reconciles cursor and selection after a slide switch.
func (m *Model) syncSelection() {
	ranked := m.session.Ranked()
	if len(ranked) == 0 {
		m.session.Select(0)
		return
	}
	m.clampCursor()
	m.session.Select(ranked[m.cursor].ID)
}

func (m *Model) copySelected() {
	el := m.session.Selected()
	if el == nil {
		m.status = editor.ErrNoSelection.Error()
		return
	}
	data, err := model.MarshalElement(el)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		m.errMsg = fmt.Sprintf("clipboard: %v", err)
		return
	}
	m.status = fmt.Sprintf("copied element %d", el.ID)
}

func (m *Model) openRename() {
	el := m.session.Selected()
	if el == nil {
		m.status = editor.ErrNoSelection.Error()
		return
	}
	ti := textinput.New()
	ti.SetValue(el.Name)
	ti.CharLimit = 100
	ti.Width = 40
	ti.Focus()
	m.rename = ti
	m.focus = focusRename
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "d", "enter":
		m.apply("deleted", m.session.DeleteSelected)
		m.clampCursor()
	}
	m.focus = focusLayers
	return m, nil
}

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := m.session.RenameSelected(m.rename.Value()); err != nil {
			m.errMsg = err.Error()
		} else {
			m.status = "renamed"
			m.persist()
		}
		m.focus = focusLayers
		return m, nil
	case "esc":
		m.focus = focusLayers
		return m, nil
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m *Model) openNewElementForm() {
	typ := model.ElementText
	name := ""
	m.formType, m.formName = &typ, &name
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.ElementType]().
				Title("Type").
				Options(
					huh.NewOption("Text", model.ElementText),
					huh.NewOption("Image", model.ElementImage),
					huh.NewOption("Video", model.ElementVideo),
					huh.NewOption("Shape", model.ElementShape),
					huh.NewOption("Widget", model.ElementWidget),
				).
				Value(m.formType),
			huh.NewInput().
				Title("Name").
				Value(m.formName),
		),
	)
	m.focus = focusNewElement
}

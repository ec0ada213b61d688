package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contacts/internal/contact"
)

var menuItems = []string{"Add Contact", "Search Contacts", "Exit"}

// Menu item indices.
const (
	itemAdd = iota
	itemSearch
	itemExit
)

// mode identifies which screen the model is showing.
type mode int

const (
	modeMenu mode = iota
	modeAdd
	modeSearch
)

// addStep is the field currently being collected by the add flow.
type addStep int

const (
	stepName addStep = iota
	stepPhones
	stepBirthday
)

var addPrompts = [...]struct{ label, placeholder string }{
	stepName:     {label: "Contact name", placeholder: "Alice"},
	stepPhones:   {label: "Phones (optional, comma separated)", placeholder: "1234567890, 0987654321"},
	stepBirthday: {label: "Birthday (optional)", placeholder: "YYYY-MM-DD"},
}

// savedMsg reports the result of the save performed on exit.
type savedMsg struct {
	err error
}

// Model is the Bubble Tea model for the address book menu.
type Model struct {
	book      Book
	save      SaveFunc
	menuKeys  menuKeys
	inputKeys inputKeys
	help      help.Model
	input     textinput.Model

	mode   mode
	step   addStep
	cursor int

	draftName   string
	draftPhones string

	searched bool
	results  []contact.Record

	status    string
	statusErr bool

	exiting bool
	done    bool
	err     error
}

// NewModel creates a Model driving book. saveFn is called once on exit.
func NewModel(book Book, saveFn SaveFunc) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		book:      book,
		save:      saveFn,
		menuKeys:  MenuKeyMap(),
		inputKeys: InputKeyMap(),
		help:      help.New(),
		input:     ti,
	}
}

// Err returns the save error, if the session ended with one.
func (m Model) Err() error { return m.err }

// Init has no startup work.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.exiting {
			return m, nil
		}
		if m.mode == modeMenu {
			return m.updateMenu(msg)
		}
		return m.updatePrompt(msg)
	}

	if m.mode != modeMenu {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.menuKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.menuKeys.Down):
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.menuKeys.Select):
		return m.choose(m.cursor)
	case key.Matches(msg, m.menuKeys.Add):
		return m.choose(itemAdd)
	case key.Matches(msg, m.menuKeys.Search):
		return m.choose(itemSearch)
	case key.Matches(msg, m.menuKeys.Exit):
		return m.choose(itemExit)
	}

	if msg.Type == tea.KeyRunes {
		m.setStatus(msgInvalidChoice, true)
	}
	return m, nil
}

func (m Model) choose(item int) (tea.Model, tea.Cmd) {
	m.cursor = item
	m.setStatus("", false)
	m.searched = false
	m.results = nil

	switch item {
	case itemAdd:
		m.mode = modeAdd
		m.step = stepName
		m.draftName, m.draftPhones = "", ""
		cmd := m.resetInput(addPrompts[stepName].placeholder)
		return m, cmd
	case itemSearch:
		m.mode = modeSearch
		cmd := m.resetInput("name or phone number")
		return m, cmd
	default:
		m.exiting = true
		return m, saveCmd(m.save)
	}
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.inputKeys.Quit):
		return m.choose(itemExit)
	case key.Matches(msg, m.inputKeys.Cancel):
		m.mode = modeMenu
		m.input.Blur()
		m.setStatus("Cancelled.", false)
		return m, nil
	case key.Matches(msg, m.inputKeys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()

	if m.mode == modeSearch {
		m.results = m.book.Find(value)
		m.searched = true
		m.mode = modeMenu
		m.input.Blur()
		return m, nil
	}

	switch m.step {
	case stepName:
		m.draftName = value
		m.step = stepPhones
		cmd := m.resetInput(addPrompts[stepPhones].placeholder)
		return m, cmd
	case stepPhones:
		m.draftPhones = value
		m.step = stepBirthday
		cmd := m.resetInput(addPrompts[stepBirthday].placeholder)
		return m, cmd
	}

	m.mode = modeMenu
	m.input.Blur()
	r, err := AddContact(m.book, m.draftName, m.draftPhones, value)
	if err != nil {
		m.setStatus("error: "+err.Error(), true)
		return m, nil
	}
	m.setStatus("Contact "+r.Name().Value()+" added.", false)
	return m, nil
}

// resetInput clears and focuses the text input for a new prompt.
func (m *Model) resetInput(placeholder string) tea.Cmd {
	m.input.Reset()
	m.input.Placeholder = placeholder
	return m.input.Focus()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func saveCmd(fn SaveFunc) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{err: save(fn)}
	}
}

// View renders the menu, the active prompt, and the latest results.
func (m Model) View() string {
	if m.done {
		if m.err != nil {
			return errorStyle.Render(fmt.Sprintf("Error: %s", m.err)) + "\n"
		}
		return msgGoodbye + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Address Book"))
	b.WriteString("\n\n")

	for i, item := range menuItems {
		line := fmt.Sprintf("%d. %s", i+1, item)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString(addPrompts[m.step].label + "\n")
		b.WriteString(m.input.View() + "\n")
	case modeSearch:
		b.WriteString("Search query\n")
		b.WriteString(m.input.View() + "\n")
	}

	if m.searched {
		b.WriteString(m.viewResults())
		b.WriteString("\n")
	}

	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status) + "\n")
	}

	b.WriteString("\n")
	if m.mode == modeMenu {
		b.WriteString(m.help.View(m.menuKeys))
	} else {
		b.WriteString(m.help.View(m.inputKeys))
	}
	return b.String()
}

func (m Model) viewResults() string {
	if len(m.results) == 0 {
		return dimStyle.Render(msgNoMatches)
	}
	lines := make([]string, 0, len(m.results)+1)
	lines = append(lines, msgMatches)
	for _, r := range m.results {
		lines = append(lines, RenderRecord(r))
	}
	return resultsBorder.Render(strings.Join(lines, "\n"))
}

// TUIShell runs the Model as a Bubble Tea program.
// Falls back to Plain if the program fails before the session ends.
type TUIShell struct {
	in   io.Reader
	out  io.Writer
	book Book
	save SaveFunc
}

// Run starts the Bubble Tea program and returns the exit save error, if any.
func (s *TUIShell) Run(ctx context.Context) error {
	p := tea.NewProgram(NewModel(s.book, s.save),
		tea.WithContext(ctx),
		tea.WithInput(s.in),
		tea.WithOutput(s.out),
	)

	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.done {
		return fm.err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return NewPlain(s.in, s.out, s.book, s.save).Run(ctx)
	}
	return nil
}

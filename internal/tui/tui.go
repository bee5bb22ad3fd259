// Package tui is the interactive terminal client for the task API.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/board"
	"taskboard/internal/client"
	"taskboard/internal/tasks"
)

type mode int

const (
	modeBrowse mode = iota
	modeCreate
	modeEdit
)

// results of API calls, delivered back into Update
type (
	loadedMsg struct {
		tasks []tasks.Task
		err   error
	}
	createdMsg struct {
		task tasks.Task
		err  error
	}
	updatedMsg struct {
		task tasks.Task
		err  error
	}
	toggledMsg struct {
		task tasks.Task
		err  error
	}
	deletedMsg struct {
		id  int
		err error
	}
)

// taskItem adapts tasks.Task to bubbles/list.Item
type taskItem struct{ task tasks.Task }

func (i taskItem) Title() string       { return i.task.Title }
func (i taskItem) Description() string { return i.task.Description }
func (i taskItem) FilterValue() string { return i.task.Title }

// single line per task
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}

	prefix := "  "
	if index == m.Index() {
		prefix = cursorStyle.Render("▸ ")
	}
	fmt.Fprint(w, prefix+taskLine(it.task))
}

var (
	addBind     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind    = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	refreshBind = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
)

// Model is the Bubble Tea model of the client.
type Model struct {
	ctx   context.Context
	api   board.API
	board *board.Board

	list  list.Model
	title textinput.Model
	desc  textinput.Model

	mode mode
	busy bool
}

// New builds the model. Tasks are fetched by Init.
func New(ctx context.Context, api board.API) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = header(0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = lipgloss.NewStyle()
	l.Styles.HelpStyle = faintStyle
	l.Styles.PaginationStyle = faintStyle
	l.SetStatusBarItemName("task", "tasks")
	extra := func() []key.Binding { return []key.Binding{addBind, editBind, toggleBind, deleteBind, refreshBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	title := textinput.New()
	title.Prompt = "Title: "
	title.Placeholder = "What needs doing?"
	title.CharLimit = 200

	desc := textinput.New()
	desc.Prompt = "Notes: "
	desc.Placeholder = "optional"
	desc.CharLimit = 1000

	return Model{
		ctx:   ctx,
		api:   api,
		board: board.New(),
		list:  l,
		title: title,
		desc:  desc,
	}
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, api board.API) error {
	p := tea.NewProgram(New(ctx, api), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

// ---------- commands ----------

func (m Model) load() tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		all, err := api.List(ctx)
		return loadedMsg{tasks: all, err: err}
	}
}

func (m Model) create(title, description string) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		t, err := api.Create(ctx, title, description)
		return createdMsg{task: t, err: err}
	}
}

func (m Model) update(id int, u client.Update) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		t, err := api.Update(ctx, id, u)
		return updatedMsg{task: t, err: err}
	}
}

func (m Model) toggle(id int) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		t, err := api.Toggle(ctx, id)
		return toggledMsg{task: t, err: err}
	}
}

func (m Model) remove(id int) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		return deletedMsg{id: id, err: api.Delete(ctx, id)}
	}
}

// ---------- update ----------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-m.chromeHeight())
		return m, nil

	case loadedMsg:
		m.busy = false
		if msg.err != nil {
			m.board.Failed(board.ActionLoad, msg.err)
			return m, nil
		}
		m.board.Loaded(msg.tasks)
		m.refresh()
		return m, nil

	case createdMsg:
		m.busy = false
		if msg.err != nil {
			m.board.Failed(board.ActionCreate, msg.err)
			return m, nil
		}
		m.board.Created(msg.task)
		m.closeForm()
		m.refresh()
		m.list.Select(m.board.Len() - 1)
		return m, nil

	case updatedMsg:
		m.busy = false
		if msg.err != nil {
			m.board.Failed(board.ActionUpdate, msg.err)
			return m, nil
		}
		m.board.Replaced(msg.task)
		m.closeForm()
		m.refresh()
		return m, nil

	case toggledMsg:
		m.busy = false
		if msg.err != nil {
			m.board.Failed(board.ActionToggle, msg.err)
			return m, nil
		}
		m.board.Replaced(msg.task)
		m.refresh()
		return m, nil

	case deletedMsg:
		m.busy = false
		if msg.err != nil {
			m.board.Failed(board.ActionDelete, msg.err)
			return m, nil
		}
		m.board.Deleted(msg.id)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode != modeBrowse {
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.busy = true
		return m, m.load()
	case "a":
		m.board.ClearError()
		m.mode = modeCreate
		m.title.SetValue("")
		m.desc.SetValue("")
		cmd := m.focusTitle()
		return m, cmd
	case "e":
		t, ok := m.selected()
		if !ok || !m.board.StartEdit(t.ID) {
			return m, nil
		}
		m.board.ClearError()
		m.mode = modeEdit
		m.title.SetValue(t.Title)
		m.title.CursorEnd()
		m.desc.SetValue(t.Description)
		m.desc.CursorEnd()
		cmd := m.focusTitle()
		return m, cmd
	case " ":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, m.toggle(t.ID)
	case "d":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, m.remove(t.ID)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.mode == modeEdit {
			m.board.CancelEdit()
		}
		m.board.ClearError()
		m.closeForm()
		return m, nil
	case "tab", "shift+tab":
		var cmd tea.Cmd
		if m.title.Focused() {
			m.title.Blur()
			cmd = m.desc.Focus()
		} else {
			cmd = m.focusTitle()
		}
		return m, cmd
	case "enter":
		if m.busy {
			return m, nil
		}
		title, err := m.board.ValidateTitle(m.title.Value())
		if err != nil {
			return m, nil
		}
		description := strings.TrimSpace(m.desc.Value())
		if m.mode == modeCreate {
			m.busy = true
			return m, m.create(title, description)
		}
		d, ok := m.board.Editing()
		if !ok {
			m.closeForm()
			return m, nil
		}
		m.busy = true
		return m, m.update(d.ID, client.Update{Title: title, Description: description, Completed: d.Completed})
	}

	var cmd tea.Cmd
	if m.title.Focused() {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusTitle() tea.Cmd {
	m.desc.Blur()
	return m.title.Focus()
}

func (m *Model) closeForm() {
	m.mode = modeBrowse
	m.title.SetValue("")
	m.desc.SetValue("")
	m.title.Blur()
	m.desc.Blur()
}

// refresh rebuilds the list items and header from the board.
func (m *Model) refresh() {
	all := m.board.Tasks()
	items := make([]list.Item, 0, len(all))
	for _, t := range all {
		items = append(items, taskItem{task: t})
	}
	m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	done, pending := m.board.Stats()
	m.list.Title = header(done, pending)
}

func (m Model) selected() (tasks.Task, bool) {
	it, ok := m.list.SelectedItem().(taskItem)
	if !ok {
		return tasks.Task{}, false
	}
	return it.task, true
}

func (m Model) chromeHeight() int {
	if m.mode != modeBrowse {
		return 10
	}
	return 5
}

// ---------- view ----------

func (m Model) View() string {
	content := m.list.View()
	if m.board.Len() == 0 {
		content += "\n" + faintStyle.Render("No tasks yet. Press a to add one.")
	}

	if m.mode != modeBrowse {
		label := "New task"
		if m.mode == modeEdit {
			label = "Edit task"
		}
		form := headingStyle.Render(label) + "\n" + m.title.View() + "\n" + m.desc.View() + "\n" +
			faintStyle.Render("tab switch field • enter save • esc cancel")
		content += "\n" + frame.Render(form)
	}

	if e := m.board.Error(); e != "" {
		content += "\n" + failStyle.Render("✖ "+e)
	} else if m.busy {
		content += "\n" + faintStyle.Render("working…")
	}
	return frame.Render(content)
}

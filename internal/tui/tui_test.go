package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/client"
	"taskboard/internal/tasks"
	"taskboard/internal/testutil"
)

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

// send feeds msg to the model and returns the new model and command.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return nm, cmd
}

// roundtrip sends msg, runs the resulting API command and feeds its result back.
func roundtrip(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m, cmd := send(t, m, msg)
	if cmd == nil {
		t.Fatalf("expected a command for %v", msg)
	}
	m, _ = send(t, m, cmd())
	return m
}

func started(t *testing.T, api *testutil.FakeAPI) Model {
	t.Helper()
	m := New(context.Background(), api)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = send(t, m, m.Init()())
	return m
}

func TestTUI_InitLoadsTasks(t *testing.T) {
	api := testutil.NewFakeAPI()
	api.AddTask("Buy milk", "", false)
	api.AddTask("Walk dog", "", true)

	m := started(t, api)
	if m.board.Len() != 2 || len(m.list.Items()) != 2 {
		t.Fatalf("expected 2 tasks, got board=%d list=%d", m.board.Len(), len(m.list.Items()))
	}
	view := m.View()
	for _, want := range []string{"Buy milk", "Walk dog", markDone, markPending} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTUI_LoadFailureShowsMessage(t *testing.T) {
	api := testutil.NewFakeAPI()
	api.ListErr = client.ErrNetwork

	m := started(t, api)
	if !strings.Contains(m.View(), "Failed to load tasks") {
		t.Errorf("expected load failure in view")
	}

	api.ListErr = nil
	api.AddTask("later", "", false)
	m = roundtrip(t, m, keyRunes("r"))
	if m.board.Error() != "" || m.board.Len() != 1 {
		t.Errorf("refresh should recover: err=%q len=%d", m.board.Error(), m.board.Len())
	}
}

func TestTUI_CreateTask(t *testing.T) {
	api := testutil.NewFakeAPI()
	m := started(t, api)

	m, _ = send(t, m, keyRunes("a"))
	if m.mode != modeCreate {
		t.Fatalf("expected create mode, got %v", m.mode)
	}
	m, _ = send(t, m, keyRunes("Buy milk"))
	m, _ = send(t, m, keyTab)
	m, _ = send(t, m, keyRunes("2 liters"))
	m = roundtrip(t, m, keyEnter)

	if m.mode != modeBrowse {
		t.Errorf("form should close after create")
	}
	all := m.board.Tasks()
	if len(all) != 1 || all[0].Title != "Buy milk" || all[0].Description != "2 liters" {
		t.Fatalf("unexpected tasks %+v", all)
	}
	stored, _ := api.Store.List(context.Background())
	if len(stored) != 1 {
		t.Errorf("expected task on server, got %+v", stored)
	}
}

func TestTUI_CreateBlankTitle(t *testing.T) {
	api := testutil.NewFakeAPI()
	m := started(t, api)

	m, _ = send(t, m, keyRunes("a"))
	m, cmd := send(t, m, keyEnter)
	if cmd != nil {
		t.Error("blank title must not issue a request")
	}
	if m.mode != modeCreate {
		t.Error("form should stay open")
	}
	if !strings.Contains(m.View(), "Title is required") {
		t.Error("expected validation message in view")
	}
	for _, c := range api.Calls() {
		if c == "Create" {
			t.Error("Create must not be called")
		}
	}
}

func TestTUI_CreateFailureKeepsForm(t *testing.T) {
	api := testutil.NewFakeAPI()
	api.CreateErr = &client.APIError{Status: 500}
	m := started(t, api)

	m, _ = send(t, m, keyRunes("a"))
	m, _ = send(t, m, keyRunes("x"))
	m = roundtrip(t, m, keyEnter)

	if m.mode != modeCreate || m.title.Value() != "x" {
		t.Errorf("form should survive a failed create: mode=%v value=%q", m.mode, m.title.Value())
	}
	if m.board.Error() != "Failed to create task" {
		t.Errorf("unexpected error %q", m.board.Error())
	}
}

func TestTUI_EditTask(t *testing.T) {
	api := testutil.NewFakeAPI()
	api.AddTask("one", "", true)
	m := started(t, api)

	m, _ = send(t, m, keyRunes("e"))
	if d, ok := m.board.Editing(); !ok || d.Title != "one" {
		t.Fatalf("expected draft for task one, got %+v %v", d, ok)
	}
	m, _ = send(t, m, keyRunes("!"))
	m = roundtrip(t, m, keyEnter)

	got, _ := m.board.Task(1)
	if got.Title != "one!" || !got.Completed {
		t.Errorf("unexpected task after edit %+v", got)
	}
	if _, ok := m.board.Editing(); ok || m.mode != modeBrowse {
		t.Error("edit should close after save")
	}
}

func TestTUI_EditCancel(t *testing.T) {
	api := testutil.NewFakeAPI()
	api.AddTask("one", "", false)
	m := started(t, api)

	m, _ = send(t, m, keyRunes("e"))
	m, _ = send(t, m, keyRunes("zzz"))
	m, cmd := send(t, m, keyEsc)
	if cmd != nil {
		t.Error("cancel must not issue a request")
	}
	if _, ok := m.board.Editing(); ok || m.mode != modeBrowse {
		t.Error("esc should close the edit")
	}
	got, _ := m.board.Task(1)
	if got.Title != "one" {
		t.Errorf("cancelled edit changed the task: %+v", got)
	}
}

func TestTUI_ToggleAndDelete(t *testing.T) {
	api := testutil.NewFakeAPI()
	api.AddTask("one", "", false)
	api.AddTask("two", "", false)
	m := started(t, api)

	m = roundtrip(t, m, keySpace)
	got, _ := m.board.Task(1)
	if !got.Completed {
		t.Errorf("expected first task completed, got %+v", got)
	}
	if !strings.Contains(m.list.Title, "1 done") || !strings.Contains(m.list.Title, "1 pending") {
		t.Errorf("header should reflect counts, got %q", m.list.Title)
	}

	m = roundtrip(t, m, keyRunes("d"))
	all := m.board.Tasks()
	if len(all) != 1 || all[0].ID != 2 {
		t.Errorf("unexpected tasks after delete %+v", all)
	}
}

func TestTUI_ToggleFailure(t *testing.T) {
	api := testutil.NewFakeAPI()
	api.AddTask("one", "", false)
	m := started(t, api)

	api.ToggleErr = client.ErrNetwork
	m = roundtrip(t, m, keySpace)
	got, _ := m.board.Task(1)
	if got.Completed || m.board.Error() != "Failed to toggle task" {
		t.Errorf("unexpected state %+v err=%q", got, m.board.Error())
	}
}

func TestTUI_Quit(t *testing.T) {
	m := started(t, testutil.NewFakeAPI())
	_, cmd := send(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPlain(&buf, []tasks.Task{
		{ID: 1, Title: "Buy milk"},
		{ID: 2, Title: "Walk dog", Description: "park", Completed: true},
	})
	if err != nil {
		t.Fatalf("RenderPlain: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"#1", "Buy milk", "park", "1/2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	_ = RenderPlain(&buf, nil)
	if !strings.Contains(buf.String(), "No tasks yet") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dashviews/dashviews-cli/pkg/models"
	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

type editorField int

const (
	fieldName editorField = iota
	fieldType
	fieldGroups
	fieldStates
	fieldButtons
	fieldCount
)

// EditorModel is the form inside the editor dialog. Every change goes
// through Workflow.Edit so the dialog buttons are recomputed.
type EditorModel struct {
	wf          *personalize.Workflow
	modals      *ModalStack
	name        textinput.Model
	field       editorField
	groupCursor int
	stateCursor int
}

// NewEditorModel creates the form for a started workflow
func NewEditorModel(wf *personalize.Workflow, modals *ModalStack) *EditorModel {
	ti := textinput.New()
	ti.Placeholder = "View name"
	ti.Prompt = ""
	ti.Width = 40
	if s := wf.State(); s != nil {
		ti.SetValue(s.Draft.Name)
	}
	ti.Focus()

	return &EditorModel{
		wf:     wf,
		modals: modals,
		name:   ti,
	}
}

// SetWidth adjusts the name input to the dialog width
func (e *EditorModel) SetWidth(width int) {
	if width > 10 {
		e.name.Width = width - 10
	}
}

// HandleKey processes a key while the editor dialog is on top
func (e *EditorModel) HandleKey(msg tea.KeyMsg) tea.Cmd {
	state := e.wf.State()
	if state == nil {
		return nil
	}

	key := msg.String()
	switch {
	case Shortcuts.Cancel.Matches(key):
		return e.wf.Trigger(personalize.ActionCancel)
	case Shortcuts.Save.Matches(key):
		return e.wf.Trigger(personalize.ActionSave)
	case Shortcuts.NextField.Matches(key):
		e.setField((e.field + 1) % fieldCount)
		return nil
	case Shortcuts.PrevField.Matches(key):
		e.setField((e.field + fieldCount - 1) % fieldCount)
		return nil
	}

	if state.Busy {
		return nil
	}

	switch e.field {
	case fieldName:
		if msg.String() == "enter" {
			return e.wf.Trigger(personalize.ActionSave)
		}
		var cmd tea.Cmd
		e.name, cmd = e.name.Update(msg)
		if v := e.name.Value(); v != state.Draft.Name {
			e.wf.Edit(func(s *personalize.EditorState) { s.SetName(v) })
		}
		return cmd

	case fieldType:
		switch msg.String() {
		case " ", "enter", "left", "right", "h", "l":
			next := models.ViewTypeInclude
			if state.Draft.Type == models.ViewTypeInclude {
				next = models.ViewTypeExclude
			}
			e.wf.Edit(func(s *personalize.EditorState) { s.SetType(next) })
		}

	case fieldGroups:
		items := groupItems(state)
		switch msg.String() {
		case "up", "k":
			if e.groupCursor > 0 {
				e.groupCursor--
			}
		case "down", "j":
			if e.groupCursor < len(items)-1 {
				e.groupCursor++
			}
		case " ", "enter", "x":
			if e.groupCursor < len(items) {
				g := items[e.groupCursor].name
				e.wf.Edit(func(s *personalize.EditorState) { s.ToggleGroup(g) })
			}
		}

	case fieldStates:
		switch msg.String() {
		case "left", "h", "up", "k":
			if e.stateCursor > 0 {
				e.stateCursor--
			}
		case "right", "l", "down", "j":
			if e.stateCursor < len(models.KnownStates)-1 {
				e.stateCursor++
			}
		case " ", "enter", "x":
			st := models.KnownStates[e.stateCursor]
			e.wf.Edit(func(s *personalize.EditorState) { s.ToggleState(st) })
		}

	case fieldButtons:
		switch msg.String() {
		case "left", "h":
			e.modals.FocusPrev()
		case "right", "l":
			e.modals.FocusNext()
		case " ", "enter":
			return activateFocused(e.wf, e.modals)
		}
	}

	return nil
}

func (e *EditorModel) setField(f editorField) {
	e.field = f
	if f == fieldName {
		e.name.Focus()
	} else {
		e.name.Blur()
	}
}

// activateFocused triggers the focused button of the top dialog unless it is disabled
func activateFocused(wf *personalize.Workflow, modals *ModalStack) tea.Cmd {
	btn, _, ok := modals.Focused()
	if !ok || btn.Disabled {
		return nil
	}
	return wf.Trigger(btn.Action)
}

type groupItem struct {
	name      string
	pipelines []string
	missing   bool
}

// groupItems lists the assignable groups followed by draft groups the server
// no longer offers
func groupItems(s *personalize.EditorState) []groupItem {
	items := make([]groupItem, 0, len(s.Groups))
	for _, g := range s.Groups {
		items = append(items, groupItem{name: g.Name, pipelines: g.Pipelines})
	}
	for _, name := range s.Draft.PipelineGroups {
		if !slices.ContainsFunc(items, func(it groupItem) bool { return it.name == name }) {
			items = append(items, groupItem{name: name, missing: true})
		}
	}
	return items
}

// View renders the form body
func (e *EditorModel) View(width int) string {
	s := e.wf.State()
	if s == nil {
		return ""
	}

	label := func(f editorField, text string) string {
		if e.field == f {
			return CursorStyle.Render("▸ " + text)
		}
		return LabelStyle.Render("  " + text)
	}
	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}
	radio := func(on bool) string {
		if on {
			return "(•)"
		}
		return "( )"
	}

	var b strings.Builder

	b.WriteString(label(fieldName, "Name"))
	b.WriteString("\n    ")
	b.WriteString(e.name.View())
	b.WriteString("\n\n")

	b.WriteString(label(fieldType, "Show"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "    %s all except selected groups\n", radio(s.Draft.Type != models.ViewTypeInclude))
	fmt.Fprintf(&b, "    %s only selected groups\n\n", radio(s.Draft.Type == models.ViewTypeInclude))

	b.WriteString(label(fieldGroups, "Pipeline groups"))
	b.WriteString("\n")
	items := groupItems(s)
	if len(items) == 0 {
		b.WriteString(DescriptionStyle.Render("    No pipeline groups available"))
		b.WriteString("\n")
	}
	for i, it := range items {
		line := fmt.Sprintf("%s %s", check(s.Draft.Includes(it.name)), it.name)
		switch {
		case it.missing:
			line += DescriptionStyle.Render(" (no longer exists)")
		case len(it.pipelines) > 0:
			line += DescriptionStyle.Render(" (" + strings.Join(it.pipelines, ", ") + ")")
		}
		if e.field == fieldGroups && i == e.groupCursor {
			b.WriteString("  > " + SelectedStyle.Render(line))
		} else {
			b.WriteString("    " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(label(fieldStates, "Only pipelines that are"))
	b.WriteString("\n   ")
	for i, st := range models.KnownStates {
		item := fmt.Sprintf("%s %s", check(s.Draft.HasState(st)), st)
		if e.field == fieldStates && i == e.stateCursor {
			item = SelectedStyle.Render(item)
		}
		b.WriteString(" " + item)
	}
	b.WriteString("\n")

	if s.ValidationError != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(wordwrap.String(s.ValidationError, width)))
		b.WriteString("\n")
	}
	if s.RemoteError != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(wordwrap.String("Save failed: "+s.RemoteError, width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(DescriptionStyle.Render(helpLine(
		Shortcuts.NextField, "next field",
		Shortcuts.Save, "save",
		Shortcuts.Cancel, "cancel",
	)))

	return b.String()
}

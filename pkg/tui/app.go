package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/dashviews/dashviews-cli/pkg/models"
	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

// Watcher streams change events for the current user
type Watcher interface {
	Watch(ctx context.Context) (<-chan models.ChangeEvent, error)
}

// Config wires the app to the filter store
type Config struct {
	Remote      personalize.Remote
	Groups      personalize.GroupSource
	Watcher     Watcher // nil disables live refresh
	Logger      logrus.FieldLogger
	Title       string
	Location    string // shown in the header, e.g. user@server
	CurrentView string
	DialogWidth int
	Timeout     time.Duration

	// OnCurrentViewChange is called when the dashboard switches views
	OnCurrentViewChange func(name string)
}

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// App lists the user's views and hosts the editor workflow
type App struct {
	cfg    Config
	log    logrus.FieldLogger
	ctx    context.Context
	cancel context.CancelFunc

	coll      *personalize.Collection
	dashboard *personalize.DashboardState
	groups    []models.PipelineGroup
	cursor    int
	loading   bool
	loadErr   string

	wf     *personalize.Workflow
	modals *ModalStack
	editor *EditorModel

	spinner   spinner.Model
	statusMsg string
	width     int
	height    int
}

// NewApp creates the app; Init starts loading views
func NewApp(cfg Config) *App {
	if cfg.Title == "" {
		cfg.Title = "dashviews"
	}
	if cfg.DialogWidth <= 0 {
		cfg.DialogWidth = defaultDialogWidth
	}
	if cfg.CurrentView == "" {
		cfg.CurrentView = models.DefaultViewName
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = WarningStyle

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		cfg:     cfg,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		modals:  NewModalStack(),
		spinner: s,
		loading: true,
	}
	a.coll = personalize.NewCollection(models.Personalization{})
	a.dashboard = personalize.NewDashboardState(cfg.CurrentView, a.coll)
	a.dashboard.OnChange = a.viewsChanged
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick, a.loadViews(), a.loadGroups()}
	if a.cfg.Watcher != nil {
		cmds = append(cmds, a.startWatch())
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, a.quit()
		}
		if a.modals.Len() > 0 && a.wf != nil {
			cmd := a.handleDialogKey(msg)
			a.endSessionIfDone()
			return a, cmd
		}
		return a, a.handleListKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case StatusMsg:
		a.statusMsg = string(msg)
		return a, nil

	case viewsLoadedMsg:
		a.loading = false
		if msg.err != nil {
			a.loadErr = personalize.Reason(msg.err)
			a.log.WithError(msg.err).Warnln("tui: cannot load views")
			return a, nil
		}
		a.loadErr = ""
		a.coll.Reset(msg.personalization)
		a.dashboard.Names = a.coll.Names()
		a.dashboard.Checksum = a.coll.Token()
		if _, ok := a.coll.Find(a.dashboard.CurrentView); !ok {
			a.dashboard.CurrentView = models.DefaultViewName
		}
		a.clampCursor()
		if a.wf != nil {
			a.wf.Refresh()
		}
		return a, nil

	case groupsLoadedMsg:
		if msg.err == nil {
			a.groups = msg.groups
		}
		return a, nil

	case watchStartedMsg:
		if msg.err != nil {
			a.log.WithError(msg.err).Warnln("tui: live refresh unavailable")
			return a, nil
		}
		return a, waitForEvent(msg.events)

	case changeEventMsg:
		next := waitForEvent(msg.events)
		if msg.event.ContentHash == a.coll.Token() {
			return a, next
		}
		a.log.WithField("hash", msg.event.ContentHash).Debugln("tui: views changed on the server")
		return a, tea.Batch(next, a.loadViews())

	case watchClosedMsg:
		return a, nil
	}

	// workflow results
	if a.wf != nil {
		cmd := a.wf.Update(msg)
		a.endSessionIfDone()
		return a, cmd
	}
	return a, nil
}

func (a *App) handleListKey(msg tea.KeyMsg) tea.Cmd {
	names := a.coll.Names()
	switch msg.String() {
	case "q":
		return a.quit()
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(names)-1 {
			a.cursor++
		}
	case "n":
		return a.openEditor("")
	case "enter", "e":
		if a.cursor < len(names) {
			return a.openEditor(names[a.cursor])
		}
	case " ", "v":
		if a.cursor < len(names) {
			a.switchTo(names[a.cursor])
		}
	case "y":
		if a.cursor < len(names) {
			return a.copyView(names[a.cursor])
		}
	case "r":
		a.loading = true
		return a.loadViews()
	}
	return nil
}

func (a *App) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	top, _ := a.modals.Top()
	if top.Body.Kind == personalize.BodyEditor && a.editor != nil {
		return a.editor.HandleKey(msg)
	}

	switch msg.String() {
	case "left", "h", "shift+tab":
		a.modals.FocusPrev()
	case "right", "l", "tab":
		a.modals.FocusNext()
	case "enter", " ":
		return activateFocused(a.wf, a.modals)
	case "y":
		if a.modals.FocusAction(personalize.ActionConfirmDelete) {
			return activateFocused(a.wf, a.modals)
		}
	case "n", "esc":
		for _, act := range []personalize.Action{personalize.ActionCancelDelete, personalize.ActionDismiss} {
			if a.modals.FocusAction(act) {
				return activateFocused(a.wf, a.modals)
			}
		}
	}
	return nil
}

// openEditor starts a workflow session for name, or for a new view
func (a *App) openEditor(name string) tea.Cmd {
	if a.wf != nil || a.loading || a.loadErr != "" {
		return nil
	}
	wf := personalize.NewWorkflow(personalize.Deps{
		Collection:   a.coll,
		Remote:       a.cfg.Remote,
		Groups:       a.cfg.Groups,
		CachedGroups: a.groups,
		Host:         a.modals,
		Dashboard:    a.dashboard,
		Logger:       a.log,
		Context:      a.ctx,
		Timeout:      a.cfg.Timeout,
	})
	cmd, err := wf.Start(name)
	if err != nil {
		a.statusMsg = "✗ " + err.Error()
		return nil
	}
	a.wf = wf
	a.editor = NewEditorModel(wf, a.modals)
	a.editor.SetWidth(a.cfg.DialogWidth - 4)
	a.statusMsg = ""
	return cmd
}

// endSessionIfDone drops the workflow once it ended and its dialogs are gone
func (a *App) endSessionIfDone() {
	if a.wf == nil || a.wf.Active() || a.modals.Len() > 0 {
		return
	}
	switch a.wf.Phase() {
	case personalize.PhaseCancelled, personalize.PhaseAbandoned:
		a.statusMsg = ""
	case personalize.PhaseDeleteFailed:
		a.statusMsg = "✗ " + a.wf.State().RemoteError
	}
	a.wf = nil
	a.editor = nil
	a.clampCursor()
}

// viewsChanged runs after a successful save or delete
func (a *App) viewsChanged(c personalize.ViewChange) {
	if a.wf != nil {
		switch a.wf.Phase() {
		case personalize.PhaseSaved:
			a.statusMsg = fmt.Sprintf("✓ Saved view %s", c.Current)
		case personalize.PhaseDeleted:
			a.statusMsg = fmt.Sprintf("✓ Deleted view %s", a.wf.State().Original)
		}
	}
	for i, n := range c.Names {
		if n == c.Current {
			a.cursor = i
		}
	}
	if a.cfg.OnCurrentViewChange != nil {
		a.cfg.OnCurrentViewChange(c.Current)
	}
}

func (a *App) switchTo(name string) {
	a.dashboard.CurrentView = name
	a.statusMsg = "Showing view " + name
	if a.cfg.OnCurrentViewChange != nil {
		a.cfg.OnCurrentViewChange(name)
	}
}

func (a *App) copyView(name string) tea.Cmd {
	v, ok := a.coll.Find(name)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		out, err := yaml.Marshal(v)
		if err != nil {
			return StatusMsg("✗ " + err.Error())
		}
		if err := copyToClipboard(string(out)); err != nil {
			return StatusMsg("✗ Failed to copy to clipboard: " + err.Error())
		}
		return StatusMsg(fmt.Sprintf("✓ Copied view %s to clipboard", name))
	}
}

func (a *App) quit() tea.Cmd {
	if a.wf != nil {
		a.wf.Abandon()
	}
	a.cancel()
	return tea.Quit
}

func (a *App) clampCursor() {
	if n := a.coll.Len(); a.cursor >= n {
		a.cursor = max(n-1, 0)
	}
}

// CurrentView returns the view the dashboard shows
func (a *App) CurrentView() string {
	return a.dashboard.CurrentView
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	header := renderHeader(a.width, a.cfg.Title, a.cfg.Location)
	var content string
	if a.modals.Len() > 0 {
		content = a.renderModals()
	} else {
		content = a.renderList()
	}

	parts := []string{header, "", content}
	if a.statusMsg != "" {
		parts = append(parts, "", StatusBarStyle.Render(a.statusMsg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderList() string {
	var b strings.Builder

	switch {
	case a.loading:
		b.WriteString(a.spinner.View() + " Loading views...")
		return ContentPadding(b.String())
	case a.loadErr != "":
		b.WriteString(ErrorStyle.Render("Cannot load views: " + a.loadErr))
		b.WriteString("\n\n")
		b.WriteString(DescriptionStyle.Render("r retry • q quit"))
		return ContentPadding(b.String())
	}

	b.WriteString(HeaderStyle.Render("VIEWS"))
	b.WriteString("\n\n")
	for i, name := range a.coll.Names() {
		marker := "  "
		if name == a.dashboard.CurrentView {
			marker = CurrentMarkerStyle.Render("● ")
		}
		line := name
		if i == a.cursor {
			line = SelectedStyle.Render("▸ " + line)
		} else {
			line = NormalStyle.Render("  " + line)
		}
		b.WriteString(marker + line + "\n")
	}

	if len(a.coll.Names()) > 0 && a.cursor < a.coll.Len() {
		if v, ok := a.coll.Find(a.coll.Names()[a.cursor]); ok {
			b.WriteString("\n")
			b.WriteString(DescriptionStyle.Render(describeView(v)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(DescriptionStyle.Render(helpLine(
		Shortcuts.New, "new",
		Shortcuts.Edit, "edit",
		Shortcuts.Show, "show",
		Shortcuts.Copy, "copy",
		Shortcuts.Reload, "reload",
		Shortcuts.Quit, "quit",
	)))
	return ContentPadding(b.String())
}

func (a *App) renderModals() string {
	top, ok := a.modals.Top()
	if !ok {
		return ""
	}
	_, focus, _ := a.modals.Focused()

	r := DialogRender{Width: a.cfg.DialogWidth, Focus: focus, Focused: true}
	if a.wf != nil && a.wf.State() != nil && a.wf.State().Busy {
		label := "Saving..."
		if a.wf.Phase() == personalize.PhaseDeleting {
			label = "Deleting..."
		}
		r.Busy = a.spinner.View() + " " + label
	}
	if top.Body.Kind == personalize.BodyEditor && a.editor != nil {
		r.Body = a.editor.View(a.cfg.DialogWidth - 4)
	}

	return lipgloss.Place(a.width, max(a.height-4, 0), lipgloss.Center, lipgloss.Center,
		renderDialog(top, r))
}

// describeView summarizes a view's filter in one line
func describeView(v models.View) string {
	groups := "no groups"
	if len(v.PipelineGroups) > 0 {
		groups = strings.Join(v.PipelineGroups, ", ")
	}
	var s string
	if v.Type == models.ViewTypeInclude {
		s = "Only " + groups
	} else {
		s = "All except " + groups
	}
	if len(v.States) > 0 {
		s += " • " + strings.Join(v.States, ", ")
	}
	return s
}

// ContentPadding pads content like the list panes
func ContentPadding(s string) string {
	return lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1).Render(s)
}

func (a *App) loadViews() tea.Cmd {
	remote, ctx, timeout := a.cfg.Remote, a.ctx, a.cfg.Timeout
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		p, err := remote.Load(ctx)
		return viewsLoadedMsg{personalization: p, err: err}
	}
}

func (a *App) loadGroups() tea.Cmd {
	if a.cfg.Groups == nil {
		return nil
	}
	src, ctx := a.cfg.Groups, a.ctx
	return func() tea.Msg {
		groups, err := src.PipelineGroups(ctx)
		return groupsLoadedMsg{groups: groups, err: err}
	}
}

func (a *App) startWatch() tea.Cmd {
	w, ctx := a.cfg.Watcher, a.ctx
	return func() tea.Msg {
		events, err := w.Watch(ctx)
		return watchStartedMsg{events: events, err: err}
	}
}

func waitForEvent(events <-chan models.ChangeEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return watchClosedMsg{}
		}
		return changeEventMsg{event: ev, events: events}
	}
}

package personalize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

// Phase is the workflow's position in the save/delete state machine
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEditing
	PhaseSaving
	PhaseSaved
	PhaseConfirmingDelete
	PhaseDeleting
	PhaseDeleted
	PhaseDeleteFailed
	PhaseCancelled
	PhaseAbandoned
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEditing:
		return "editing"
	case PhaseSaving:
		return "saving"
	case PhaseSaved:
		return "saved"
	case PhaseConfirmingDelete:
		return "confirming-delete"
	case PhaseDeleting:
		return "deleting"
	case PhaseDeleted:
		return "deleted"
	case PhaseDeleteFailed:
		return "delete-failed"
	case PhaseCancelled:
		return "cancelled"
	case PhaseAbandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Terminal reports whether the session is over
func (p Phase) Terminal() bool {
	switch p {
	case PhaseSaved, PhaseDeleted, PhaseDeleteFailed, PhaseCancelled, PhaseAbandoned:
		return true
	}
	return false
}

// GroupsLoadedMsg carries the refreshed assignable pipeline groups
type GroupsLoadedMsg struct {
	Session uuid.UUID
	Groups  []models.PipelineGroup
	Err     error
}

// SaveResultMsg is the outcome of a save round trip
type SaveResultMsg struct {
	Session  uuid.UUID
	Name     string
	Snapshot Snapshot
	Err      error
}

// DeleteResultMsg is the outcome of a delete round trip
type DeleteResultMsg struct {
	Session  uuid.UUID
	Name     string
	Snapshot Snapshot
	Err      error
}

// ReloadedMsg carries the personalization reloaded after a conflict
type ReloadedMsg struct {
	Session         uuid.UUID
	Personalization models.Personalization
	Err             error
}

// Deps wires a workflow to its collaborators
type Deps struct {
	Collection   *Collection
	Remote       Remote
	Groups       GroupSource            // optional; refreshes the assignable groups on Start
	CachedGroups []models.PipelineGroup // groups shown until the refresh completes
	Host         DialogHost
	Dashboard    Dashboard // optional; notified after save and delete
	Logger       logrus.FieldLogger
	Context      context.Context
	Timeout      time.Duration // per remote call; zero means no deadline
}

// Workflow drives one personalization editor session. All methods must be
// called from the host's event loop; the commands they return run elsewhere
// and report back through Update.
type Workflow struct {
	id        uuid.UUID
	coll      *Collection
	remote    Remote
	groups    GroupSource
	cached    []models.PipelineGroup
	host      DialogHost
	dashboard Dashboard
	log       logrus.FieldLogger
	timeout   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	phase    Phase
	state    *EditorState
	editor   Modal
	confirm  Modal
	released bool
}

// NewWorkflow creates an idle workflow; Start opens the editor
func NewWorkflow(deps Deps) *Workflow {
	parent := deps.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	logger := deps.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	id := uuid.New()
	return &Workflow{
		id:        id,
		coll:      deps.Collection,
		remote:    deps.Remote,
		groups:    deps.Groups,
		cached:    deps.CachedGroups,
		host:      deps.Host,
		dashboard: deps.Dashboard,
		log:       logger.WithField("session", id.String()),
		timeout:   deps.Timeout,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// ID returns the session id carried by every result message
func (w *Workflow) ID() uuid.UUID {
	return w.id
}

// Phase returns the current phase
func (w *Workflow) Phase() Phase {
	return w.phase
}

// State returns the editor state; nil before Start
func (w *Workflow) State() *EditorState {
	return w.state
}

// Active reports whether the session has started and not ended
func (w *Workflow) Active() bool {
	return w.phase != PhaseIdle && !w.phase.Terminal()
}

// DeleteAllowed is evaluated against the live collection every time the
// editor is rendered
func (w *Workflow) DeleteAllowed() bool {
	return w.state != nil && w.state.Mode == ModeEdit && w.coll.Len() > 1
}

// Start opens the editor for an existing view, or for a new view when
// existing is empty. The returned command refreshes the assignable groups;
// the editor is usable before it completes.
func (w *Workflow) Start(existing string) (tea.Cmd, error) {
	if w.phase != PhaseIdle {
		return nil, errors.New("editor session already started")
	}
	if w.coll == nil || w.remote == nil || w.host == nil {
		return nil, errors.New("editor session needs a collection, a remote and a dialog host")
	}

	if existing != "" {
		v, ok := w.coll.Find(existing)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownView, existing)
		}
		w.state = NewEditState(v, w.cached)
		w.log = w.log.WithField("view", v.Name)
	} else {
		w.state = NewCreateState(w.cached)
	}

	w.phase = PhaseEditing
	w.editor = w.host.Open(w.editorDialog())
	w.log.WithField("mode", w.state.Mode.String()).Debug("editor opened")

	return w.loadGroups(), nil
}

// Edit applies a change to the draft and re-renders the editor
func (w *Workflow) Edit(fn func(s *EditorState)) {
	if w.phase != PhaseEditing || w.state.Busy {
		return
	}
	fn(w.state)
	w.render()
}

// Refresh re-renders open dialogs, e.g. after the collection changed underneath them
func (w *Workflow) Refresh() {
	if w.Active() {
		w.render()
	}
}

// Trigger dispatches a dialog button
func (w *Workflow) Trigger(a Action) tea.Cmd {
	switch a {
	case ActionSave:
		return w.Save()
	case ActionCancel:
		w.Cancel()
	case ActionDelete:
		w.RequestDelete()
	case ActionConfirmDelete:
		return w.ConfirmDelete()
	case ActionCancelDelete:
		w.CancelDelete()
	case ActionDismiss:
		w.Dismiss()
	}
	return nil
}

// Save validates the draft and, when valid, sends it to the remote store.
// It is a no-op while a call is outstanding.
func (w *Workflow) Save() tea.Cmd {
	if w.phase != PhaseEditing || w.state.Busy {
		return nil
	}

	w.state.Validate(w.coll.Names())
	if w.state.Invalid() {
		w.log.WithField("reason", w.state.ValidationError).Debug("save blocked by validation")
		w.render()
		return nil
	}

	mutation := w.coll.AddOrReplace(w.state.Original, w.state.View())
	w.state.RemoteError = ""
	w.state.Busy = true
	w.phase = PhaseSaving
	w.render()

	id := w.id
	w.log.WithField("name", mutation.Name).Info("saving view")
	return w.send(mutation, func(s Snapshot, err error) tea.Msg {
		return SaveResultMsg{Session: id, Name: mutation.Name, Snapshot: s, Err: err}
	})
}

// RequestDelete asks for confirmation before deleting the edited view. It
// does nothing unless the view exists and is not the last one.
func (w *Workflow) RequestDelete() {
	if w.phase != PhaseEditing || w.state.Busy || !w.DeleteAllowed() {
		return
	}
	w.phase = PhaseConfirmingDelete
	w.confirm = w.host.Open(w.confirmDialog())
}

// CancelDelete closes the confirmation and returns to the editor
func (w *Workflow) CancelDelete() {
	if w.phase != PhaseConfirmingDelete {
		return
	}
	w.closeConfirm()
	w.phase = PhaseEditing
	w.render()
}

// ConfirmDelete sends the deletion to the remote store
func (w *Workflow) ConfirmDelete() tea.Cmd {
	if w.phase != PhaseConfirmingDelete || w.state.Busy {
		return nil
	}

	mutation, err := w.coll.Remove(w.state.Original)
	if err != nil {
		w.failDelete(err)
		return nil
	}

	w.state.RemoteError = ""
	w.state.Busy = true
	w.phase = PhaseDeleting
	w.render()

	id := w.id
	w.log.Info("deleting view")
	return w.send(mutation, func(s Snapshot, err error) tea.Msg {
		return DeleteResultMsg{Session: id, Name: mutation.Name, Snapshot: s, Err: err}
	})
}

// Cancel discards the session without a remote call. Cancelling while a
// save is outstanding abandons the session instead.
func (w *Workflow) Cancel() {
	switch w.phase {
	case PhaseEditing:
		w.phase = PhaseCancelled
		w.release(false)
		w.log.Debug("editor cancelled")
	case PhaseSaving:
		w.Abandon()
	}
}

// Dismiss closes the terminal delete error
func (w *Workflow) Dismiss() {
	if w.phase != PhaseDeleteFailed {
		return
	}
	w.release(true)
}

// Abandon ends the session from any phase: in-flight calls are cancelled,
// every dialog is released and later results are ignored
func (w *Workflow) Abandon() {
	if w.released {
		return
	}
	if !w.phase.Terminal() {
		w.phase = PhaseAbandoned
		w.log.Debug("editor abandoned")
	}
	w.release(false)
}

// Update applies a result message. Messages for another session, or that
// arrive after the session ended, are dropped.
func (w *Workflow) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case GroupsLoadedMsg:
		if !w.owns(msg.Session) {
			return nil
		}
		if msg.Err != nil {
			w.log.WithError(msg.Err).Warn("cannot refresh pipeline groups")
			return nil
		}
		w.state.SetAvailableGroups(msg.Groups)
		w.render()

	case SaveResultMsg:
		if !w.owns(msg.Session) || w.phase != PhaseSaving {
			return nil
		}
		return w.finishSave(msg)

	case DeleteResultMsg:
		if !w.owns(msg.Session) || w.phase != PhaseDeleting {
			return nil
		}
		w.finishDelete(msg)

	case ReloadedMsg:
		if msg.Session != w.id || !w.Active() || w.state.Busy {
			return nil
		}
		if msg.Err != nil {
			w.log.WithError(msg.Err).Warn("cannot reload views after conflict")
			return nil
		}
		w.coll.Reset(msg.Personalization)
		w.Refresh()
	}
	return nil
}

func (w *Workflow) finishSave(msg SaveResultMsg) tea.Cmd {
	w.state.Busy = false

	if msg.Err != nil {
		w.state.RemoteError = Reason(msg.Err)
		w.phase = PhaseEditing
		w.log.WithError(msg.Err).Warn("save failed")
		w.render()
		if IsConflict(msg.Err) {
			return w.reload()
		}
		return nil
	}

	w.coll.Apply(msg.Snapshot)
	w.phase = PhaseSaved
	w.release(false)
	w.log.WithField("name", msg.Name).Info("view saved")
	w.notify(msg.Name)
	return nil
}

func (w *Workflow) finishDelete(msg DeleteResultMsg) {
	w.state.Busy = false

	if msg.Err != nil {
		w.failDelete(msg.Err)
		return
	}

	w.coll.Apply(msg.Snapshot)
	w.phase = PhaseDeleted
	w.release(true)
	w.log.Info("view deleted")
	w.notify(models.DefaultViewName)
}

// failDelete replaces the confirmation with a dead-end error dialog
func (w *Workflow) failDelete(err error) {
	reason := Reason(err)
	w.state.RemoteError = reason
	w.phase = PhaseDeleteFailed
	w.log.WithError(err).Warn("delete failed")

	d := Dialog{
		Title: "Delete View",
		Size:  SizeDeleteView,
		Body:  Body{Kind: BodyDeleteError, ViewName: w.state.Original, Reason: reason},
		Buttons: []Button{
			{Label: "Close", Action: ActionDismiss},
		},
	}
	if w.confirm == nil {
		w.confirm = w.host.Open(d)
		return
	}
	w.confirm.Render(d)
}

func (w *Workflow) notify(current string) {
	if w.dashboard == nil {
		return
	}
	w.dashboard.ViewsChanged(ViewChange{
		Current: current,
		Names:   w.coll.Names(),
		Token:   w.coll.Token(),
	})
}

func (w *Workflow) owns(id uuid.UUID) bool {
	return id == w.id && w.Active()
}

func (w *Workflow) opContext() (context.Context, context.CancelFunc) {
	if w.timeout > 0 {
		return context.WithTimeout(w.ctx, w.timeout)
	}
	return context.WithCancel(w.ctx)
}

func (w *Workflow) send(m Mutation, wrap func(Snapshot, error) tea.Msg) tea.Cmd {
	remote := w.remote
	return func() tea.Msg {
		ctx, cancel := w.opContext()
		defer cancel()
		s, err := m.Send(ctx, remote)
		return wrap(s, err)
	}
}

func (w *Workflow) loadGroups() tea.Cmd {
	if w.groups == nil {
		return nil
	}
	id, src := w.id, w.groups
	return func() tea.Msg {
		ctx, cancel := w.opContext()
		defer cancel()
		groups, err := src.PipelineGroups(ctx)
		return GroupsLoadedMsg{Session: id, Groups: groups, Err: err}
	}
}

func (w *Workflow) reload() tea.Cmd {
	id, remote := w.id, w.remote
	return func() tea.Msg {
		ctx, cancel := w.opContext()
		defer cancel()
		p, err := remote.Load(ctx)
		return ReloadedMsg{Session: id, Personalization: p, Err: err}
	}
}

func (w *Workflow) render() {
	if w.editor != nil {
		w.editor.Render(w.editorDialog())
	}
	if w.confirm != nil && (w.phase == PhaseConfirmingDelete || w.phase == PhaseDeleting) {
		w.confirm.Render(w.confirmDialog())
	}
}

func (w *Workflow) editorDialog() Dialog {
	busy := w.state.Busy
	var buttons []Button

	if w.state.Mode == ModeEdit {
		allowed := w.DeleteAllowed()
		del := Button{Label: "Delete View", Action: ActionDelete, Disabled: !allowed || busy}
		if !allowed {
			del.Tooltip = LastViewTooltip
		}
		buttons = append(buttons, del)
	}

	buttons = append(buttons,
		Button{Label: "Save", Action: ActionSave, Disabled: busy || w.state.Invalid(), Tooltip: w.state.FirstError()},
		Button{Label: "Cancel", Action: ActionCancel},
	)

	return Dialog{
		Title:   w.state.Title(),
		Size:    SizeEditor,
		Body:    Body{Kind: BodyEditor, ViewName: w.state.Original, State: w.state},
		Buttons: buttons,
	}
}

func (w *Workflow) confirmDialog() Dialog {
	busy := w.state.Busy
	return Dialog{
		Title: "Delete View",
		Size:  SizeDeleteView,
		Body:  Body{Kind: BodyDeleteConfirm, ViewName: w.state.Original},
		Buttons: []Button{
			{Label: "Yes", Action: ActionConfirmDelete, Disabled: busy},
			{Label: "Cancel", Action: ActionCancelDelete, Disabled: busy},
		},
	}
}

func (w *Workflow) closeConfirm() {
	if w.confirm != nil {
		w.confirm.Close()
		w.confirm = nil
	}
}

// release closes every dialog the session opened and cancels its context.
// With all set, the host is asked to close everything it shows.
func (w *Workflow) release(all bool) {
	if w.released {
		return
	}
	w.released = true

	if all {
		w.host.CloseAll()
		w.confirm, w.editor = nil, nil
	} else {
		w.closeConfirm()
		if w.editor != nil {
			w.editor.Close()
			w.editor = nil
		}
	}
	w.cancel()
}
